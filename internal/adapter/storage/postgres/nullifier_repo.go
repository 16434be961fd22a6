package postgres

import (
	"context"
	"errors"
	"fmt"

	"cbdc-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// NullifierRepo implements ports.NullifierStore on the nullifiers table.
// The primary key on value is the double-spend gate.
type NullifierRepo struct {
	pool Pool
}

// NewNullifierRepo creates a new NullifierRepo.
func NewNullifierRepo(pool Pool) *NullifierRepo {
	return &NullifierRepo{pool: pool}
}

// Insert stores n unless its value is already registered, in which case the
// winning record is returned.
func (r *NullifierRepo) Insert(ctx context.Context, n *domain.Nullifier) (bool, *domain.Nullifier, error) {
	query := `INSERT INTO nullifiers (value, source_account_id, committed_transaction_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (value) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, n.Value, n.SourceAccountID, n.CommittedTransactionID, n.Amount, n.CreatedAt)
	if err != nil {
		return false, nil, fmt.Errorf("insert nullifier: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil, nil
	}

	existing, err := r.Get(ctx, n.Value)
	if err != nil {
		return false, nil, err
	}
	if existing == nil {
		return false, nil, fmt.Errorf("nullifier %s conflicted but is missing", n.Value)
	}
	return false, existing, nil
}

// Get fetches a registered nullifier.
func (r *NullifierRepo) Get(ctx context.Context, value string) (*domain.Nullifier, error) {
	query := `SELECT value, source_account_id, committed_transaction_id, amount, created_at
		FROM nullifiers WHERE value = $1`

	n := &domain.Nullifier{}
	err := r.pool.QueryRow(ctx, query, value).Scan(
		&n.Value, &n.SourceAccountID, &n.CommittedTransactionID, &n.Amount, &n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get nullifier: %w", err)
	}
	return n, nil
}
