package postgres

import (
	"context"
	"errors"
	"fmt"

	"cbdc-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const fiColumns = `id, name, endpoint, public_key, shared_secret_enc, allocated_funds,
	available_balance, status, created_at, updated_at`

// FIRepo implements ports.FIRepository.
type FIRepo struct {
	pool Pool
}

// NewFIRepo creates a new FIRepo.
func NewFIRepo(pool Pool) *FIRepo {
	return &FIRepo{pool: pool}
}

// Create inserts a new FI record.
func (r *FIRepo) Create(ctx context.Context, fi *domain.FIRecord) error {
	query := `INSERT INTO fi_records (` + fiColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		fi.ID, fi.Name, fi.Endpoint, fi.PublicKey, fi.SharedSecretEnc,
		fi.AllocatedFunds, fi.AvailableBalance, fi.Status, fi.CreatedAt, fi.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert fi record: %w", err)
	}
	return nil
}

// GetByID fetches an FI record (without locking).
func (r *FIRepo) GetByID(ctx context.Context, id string) (*domain.FIRecord, error) {
	query := `SELECT ` + fiColumns + ` FROM fi_records WHERE id = $1`
	return scanFI(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches an FI record with a row lock.
func (r *FIRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.FIRecord, error) {
	query := `SELECT ` + fiColumns + ` FROM fi_records WHERE id = $1 FOR UPDATE`
	return scanFI(tx.QueryRow(ctx, query, id))
}

// Update writes the mutable columns of a locked FI record.
func (r *FIRepo) Update(ctx context.Context, tx pgx.Tx, fi *domain.FIRecord) error {
	query := `UPDATE fi_records SET endpoint = $1, allocated_funds = $2, available_balance = $3,
		status = $4, updated_at = $5 WHERE id = $6`

	tag, err := tx.Exec(ctx, query, fi.Endpoint, fi.AllocatedFunds, fi.AvailableBalance, fi.Status, fi.UpdatedAt, fi.ID)
	if err != nil {
		return fmt.Errorf("update fi record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fi not found: %s", fi.ID)
	}
	return nil
}

// List returns every FI record ordered by id.
func (r *FIRepo) List(ctx context.Context) ([]domain.FIRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+fiColumns+` FROM fi_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list fi records: %w", err)
	}
	defer rows.Close()

	var out []domain.FIRecord
	for rows.Next() {
		fi := domain.FIRecord{}
		if err := rows.Scan(fiDest(&fi)...); err != nil {
			return nil, fmt.Errorf("scan fi row: %w", err)
		}
		out = append(out, fi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fi rows: %w", err)
	}
	return out, nil
}

func fiDest(fi *domain.FIRecord) []any {
	return []any{
		&fi.ID, &fi.Name, &fi.Endpoint, &fi.PublicKey, &fi.SharedSecretEnc,
		&fi.AllocatedFunds, &fi.AvailableBalance, &fi.Status, &fi.CreatedAt, &fi.UpdatedAt,
	}
}

func scanFI(row pgx.Row) (*domain.FIRecord, error) {
	fi := &domain.FIRecord{}
	if err := row.Scan(fiDest(fi)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan fi record: %w", err)
	}
	return fi, nil
}
