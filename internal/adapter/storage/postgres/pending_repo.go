package postgres

import (
	"context"
	"errors"
	"fmt"

	"cbdc-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const pendingColumns = `id, from_account_id, to_account_id, target_fi, amount, proof, nullifier,
	monotonic_counter_at_creation, status, reject_reason, committed_tx_id, created_at, resolved_at`

// PendingRepo implements ports.PendingRepository.
type PendingRepo struct {
	pool Pool
}

// NewPendingRepo creates a new PendingRepo.
func NewPendingRepo(pool Pool) *PendingRepo {
	return &PendingRepo{pool: pool}
}

// Create inserts a pending offline transaction inside the reservation transaction.
func (r *PendingRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.PendingOfflineTransaction) error {
	query := `INSERT INTO pending_offline_transactions (` + pendingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := tx.Exec(ctx, query,
		p.ID, p.FromAccountID, p.ToAccountID, p.TargetFI, p.Amount, p.Proof, p.Nullifier,
		int64(p.MonotonicCounterAtCreation), p.Status, p.RejectReason, p.CommittedTxID,
		p.CreatedAt, p.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pending transaction: %w", err)
	}
	return nil
}

// GetByID fetches a pending record (without locking).
func (r *PendingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PendingOfflineTransaction, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_offline_transactions WHERE id = $1`
	return scanPending(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a pending record with a row lock.
func (r *PendingRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PendingOfflineTransaction, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_offline_transactions WHERE id = $1 FOR UPDATE`
	return scanPending(tx.QueryRow(ctx, query, id))
}

// Resolve writes the terminal state of a pending record.
func (r *PendingRepo) Resolve(ctx context.Context, tx pgx.Tx, p *domain.PendingOfflineTransaction) error {
	query := `UPDATE pending_offline_transactions
		SET status = $1, reject_reason = $2, committed_tx_id = $3, resolved_at = $4
		WHERE id = $5`

	tag, err := tx.Exec(ctx, query, p.Status, p.RejectReason, p.CommittedTxID, p.ResolvedAt, p.ID)
	if err != nil {
		return fmt.Errorf("resolve pending transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pending transaction not found: %s", p.ID)
	}
	return nil
}

// ListByAccount returns the sender's pending records in counter order.
func (r *PendingRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, status *domain.PendingStatus) ([]domain.PendingOfflineTransaction, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_offline_transactions WHERE from_account_id = $1`
	args := []any{accountID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY monotonic_counter_at_creation`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.PendingOfflineTransaction
	for rows.Next() {
		p := domain.PendingOfflineTransaction{}
		var counter int64
		if err := rows.Scan(pendingDest(&p, &counter)...); err != nil {
			return nil, fmt.Errorf("scan pending row: %w", err)
		}
		p.MonotonicCounterAtCreation = uint64(counter)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending rows: %w", err)
	}
	return out, nil
}

// ListAccountsWithPending returns every sender with at least one open reservation.
func (r *PendingRepo) ListAccountsWithPending(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT DISTINCT from_account_id FROM pending_offline_transactions
		WHERE status = 'pending' ORDER BY from_account_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts with pending: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func pendingDest(p *domain.PendingOfflineTransaction, counter *int64) []any {
	return []any{
		&p.ID, &p.FromAccountID, &p.ToAccountID, &p.TargetFI, &p.Amount, &p.Proof, &p.Nullifier,
		counter, &p.Status, &p.RejectReason, &p.CommittedTxID, &p.CreatedAt, &p.ResolvedAt,
	}
}

func scanPending(row pgx.Row) (*domain.PendingOfflineTransaction, error) {
	p := &domain.PendingOfflineTransaction{}
	var counter int64
	if err := row.Scan(pendingDest(p, &counter)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan pending transaction: %w", err)
	}
	p.MonotonicCounterAtCreation = uint64(counter)
	return p, nil
}
