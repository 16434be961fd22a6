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

const accountColumns = `id, fi_id, kind, owner_account_id, name, device_type, device_name,
	balance, reserved_offline_balance, reserved_offline_count, spending_limit, daily_limit,
	daily_spent, monthly_spent, daily_tx_count, offline_tx_count, last_daily_reset, last_monthly_reset,
	monotonic_counter, total_credited, status, is_offline_mode, public_key, signing_key_enc,
	created_at, updated_at`

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new wallet or sub-wallet.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
		$19, $20, $21, $22, $23, $24, $25, $26)`

	_, err := r.pool.Exec(ctx, query, accountArgs(a)...)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID fetches an account by its UUID (without locking).
func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches an account with a row lock.
// This MUST be called within a transaction.
func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return scanAccount(tx.QueryRow(ctx, query, id))
}

// Update writes every mutable column of a locked account.
func (r *AccountRepo) Update(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	query := `UPDATE accounts SET balance = $1, reserved_offline_balance = $2, reserved_offline_count = $3,
		daily_limit = $4, daily_spent = $5, monthly_spent = $6, daily_tx_count = $7, offline_tx_count = $8,
		last_daily_reset = $9, last_monthly_reset = $10, monotonic_counter = $11, total_credited = $12,
		status = $13, is_offline_mode = $14, updated_at = $15
		WHERE id = $16`

	tag, err := tx.Exec(ctx, query,
		a.Balance, a.ReservedOfflineBalance, a.ReservedOfflineCount,
		a.DailyLimit, a.Compliance.DailySpent, a.Compliance.MonthlySpent,
		a.Compliance.DailyTxCount, a.Compliance.OfflineTxCount,
		a.Compliance.LastDailyReset, a.Compliance.LastMonthlyReset,
		int64(a.MonotonicCounter), a.TotalCredited,
		a.Status, a.IsOfflineMode, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", a.ID)
	}
	return nil
}

// ListByOwner returns the sub-wallets of a wallet.
func (r *AccountRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_account_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list sub-wallets: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// List fetches accounts with filtering and pagination.
func (r *AccountRepo) List(ctx context.Context, params ports.AccountListParams) ([]domain.Account, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", argIdx))
		args = append(args, *params.Kind)
		argIdx++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM accounts "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM accounts %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		accountColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// Totals sums balances and reservations over every account.
func (r *AccountRepo) Totals(ctx context.Context) (*ports.AccountTotals, error) {
	query := `SELECT COALESCE(SUM(balance), 0), COALESCE(SUM(reserved_offline_balance), 0), COUNT(*) FROM accounts`

	t := &ports.AccountTotals{}
	if err := r.pool.QueryRow(ctx, query).Scan(&t.Balance, &t.Reserved, &t.Count); err != nil {
		return nil, fmt.Errorf("account totals: %w", err)
	}
	return t, nil
}

func accountArgs(a *domain.Account) []any {
	return []any{
		a.ID, a.FIID, a.Kind, a.OwnerAccountID, a.Name, a.DeviceType, a.DeviceName,
		a.Balance, a.ReservedOfflineBalance, a.ReservedOfflineCount, a.SpendingLimit, a.DailyLimit,
		a.Compliance.DailySpent, a.Compliance.MonthlySpent, a.Compliance.DailyTxCount, a.Compliance.OfflineTxCount,
		a.Compliance.LastDailyReset, a.Compliance.LastMonthlyReset,
		int64(a.MonotonicCounter), a.TotalCredited, a.Status, a.IsOfflineMode, a.PublicKey, a.SigningKeyEnc,
		a.CreatedAt, a.UpdatedAt,
	}
}

func accountDest(a *domain.Account, counter *int64) []any {
	return []any{
		&a.ID, &a.FIID, &a.Kind, &a.OwnerAccountID, &a.Name, &a.DeviceType, &a.DeviceName,
		&a.Balance, &a.ReservedOfflineBalance, &a.ReservedOfflineCount, &a.SpendingLimit, &a.DailyLimit,
		&a.Compliance.DailySpent, &a.Compliance.MonthlySpent, &a.Compliance.DailyTxCount, &a.Compliance.OfflineTxCount,
		&a.Compliance.LastDailyReset, &a.Compliance.LastMonthlyReset,
		counter, &a.TotalCredited, &a.Status, &a.IsOfflineMode, &a.PublicKey, &a.SigningKeyEnc,
		&a.CreatedAt, &a.UpdatedAt,
	}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	var counter int64
	if err := row.Scan(accountDest(a, &counter)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.MonotonicCounter = uint64(counter)
	return a, nil
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	var accounts []domain.Account
	for rows.Next() {
		a := domain.Account{}
		var counter int64
		if err := rows.Scan(accountDest(&a, &counter)...); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		a.MonotonicCounter = uint64(counter)
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return accounts, nil
}
