package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, from_account_id, to_account_id, amount, kind, source_fi, target_fi,
	pending_id, nullifier, proof, sender_public_key, settled, synced_to_fi, synced_to_cb,
	rejected, reject_reason, timestamp`

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a transaction unless its id already exists.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) (bool, error) {
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO NOTHING`

	tag, err := tx.Exec(ctx, query,
		t.ID, t.FromAccountID, t.ToAccountID, t.Amount, t.Kind, t.SourceFI, t.TargetFI,
		t.PendingID, t.Nullifier, t.Proof, t.SenderPublicKey, t.Settled, t.SyncedToFI, t.SyncedToCB,
		t.Rejected, t.RejectReason, t.Timestamp,
	)
	if err != nil {
		return false, fmt.Errorf("insert transaction: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a transaction with a row lock.
func (r *TransactionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`
	return scanTransaction(tx.QueryRow(ctx, query, id))
}

func flagColumn(f domain.SyncFlag) (string, error) {
	switch f {
	case domain.SyncFlagSettled:
		return "settled", nil
	case domain.SyncFlagSyncedToFI:
		return "synced_to_fi", nil
	case domain.SyncFlagSyncedToCB:
		return "synced_to_cb", nil
	}
	return "", fmt.Errorf("unknown sync flag %q", f)
}

// MarkFlags sets sync flags to true.
func (r *TransactionRepo) MarkFlags(ctx context.Context, tx pgx.Tx, id uuid.UUID, flags ...domain.SyncFlag) error {
	if len(flags) == 0 {
		return nil
	}
	sets := make([]string, 0, len(flags))
	for _, f := range flags {
		col, err := flagColumn(f)
		if err != nil {
			return err
		}
		sets = append(sets, col+" = TRUE")
	}

	query := `UPDATE transactions SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark transaction flags: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}
	return nil
}

// MarkRejected sets the terminal rejected flag.
func (r *TransactionRepo) MarkRejected(ctx context.Context, tx pgx.Tx, id uuid.UUID, reason string) error {
	query := `UPDATE transactions SET rejected = TRUE, reject_reason = $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, reason, id)
	if err != nil {
		return fmt.Errorf("mark transaction rejected: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}
	return nil
}

// ListUnsynced returns the oldest transactions still waiting for a hop.
func (r *TransactionRepo) ListUnsynced(ctx context.Context, q ports.UnsyncedQuery) ([]domain.Transaction, error) {
	missing, err := flagColumn(q.Missing)
	if err != nil {
		return nil, err
	}
	conditions := []string{"rejected = FALSE", missing + " = FALSE"}
	for _, f := range q.Requires {
		col, err := flagColumn(f)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, col+" = TRUE")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY timestamp LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list unsynced transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// List fetches transactions with filtering and pagination.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.AccountID != nil {
		conditions = append(conditions, fmt.Sprintf("(from_account_id = $%d OR to_account_id = $%d)", argIdx, argIdx))
		args = append(args, *params.AccountID)
		argIdx++
	}
	if params.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", argIdx))
		args = append(args, *params.Kind)
		argIdx++
	}
	if params.FIID != "" {
		conditions = append(conditions, fmt.Sprintf("(source_fi = $%d OR target_fi = $%d)", argIdx, argIdx))
		args = append(args, params.FIID)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("timestamp >= $%d", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("timestamp <= $%d", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM transactions "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM transactions %s ORDER BY timestamp DESC LIMIT $%d OFFSET $%d`,
		transactionColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func transactionDest(t *domain.Transaction) []any {
	return []any{
		&t.ID, &t.FromAccountID, &t.ToAccountID, &t.Amount, &t.Kind, &t.SourceFI, &t.TargetFI,
		&t.PendingID, &t.Nullifier, &t.Proof, &t.SenderPublicKey, &t.Settled, &t.SyncedToFI, &t.SyncedToCB,
		&t.Rejected, &t.RejectReason, &t.Timestamp,
	}
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	if err := row.Scan(transactionDest(t)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		if err := rows.Scan(transactionDest(&t)...); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}
