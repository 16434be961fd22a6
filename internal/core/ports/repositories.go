package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"
	"time"

	"cbdc-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repositories return (nil, nil) when a single entity is absent.
// Methods accepting pgx.Tx run inside a transaction opened by DBTransactor;
// the ForUpdate variants hold the row lock until that transaction ends.

// AccountRepository defines persistence operations for wallets and sub-wallets.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error)
	Update(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error)
	List(ctx context.Context, params AccountListParams) ([]domain.Account, int64, error)
	Totals(ctx context.Context) (*AccountTotals, error)
}

// AccountListParams holds filter + pagination for listing accounts.
type AccountListParams struct {
	Kind     *domain.AccountKind
	Status   *domain.AccountStatus
	Page     int
	PageSize int
}

// AccountTotals aggregates every account on this node.
type AccountTotals struct {
	Balance  int64
	Reserved int64
	Count    int64
}

// TransactionRepository defines persistence operations for ledger transactions.
type TransactionRepository interface {
	// Create inserts t unless a transaction with the same id exists.
	// It reports whether a row was inserted.
	Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error)
	// MarkFlags sets the given sync flags to true. Flags never go back to false.
	MarkFlags(ctx context.Context, tx pgx.Tx, id uuid.UUID, flags ...domain.SyncFlag) error
	MarkRejected(ctx context.Context, tx pgx.Tx, id uuid.UUID, reason string) error
	// ListUnsynced returns a snapshot of non-rejected transactions whose
	// Missing flag is false and whose Requires flags are all true.
	ListUnsynced(ctx context.Context, q UnsyncedQuery) ([]domain.Transaction, error)
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// UnsyncedQuery selects the input set of one sync hop.
type UnsyncedQuery struct {
	Missing  domain.SyncFlag
	Requires []domain.SyncFlag
	Limit    int
}

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	AccountID *uuid.UUID
	Kind      *domain.TransactionKind
	FIID      string // matches source or target FI
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

// PendingRepository defines persistence for offline reservations.
type PendingRepository interface {
	Create(ctx context.Context, tx pgx.Tx, p *domain.PendingOfflineTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PendingOfflineTransaction, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PendingOfflineTransaction, error)
	// Resolve persists the terminal status, reason, committed tx and resolved time.
	Resolve(ctx context.Context, tx pgx.Tx, p *domain.PendingOfflineTransaction) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, status *domain.PendingStatus) ([]domain.PendingOfflineTransaction, error)
	ListAccountsWithPending(ctx context.Context) ([]uuid.UUID, error)
}

// NullifierStore is the atomic insert-if-absent set behind the registry.
type NullifierStore interface {
	// Insert stores n unless its value exists. On conflict it returns
	// inserted=false and the record that won.
	Insert(ctx context.Context, n *domain.Nullifier) (inserted bool, existing *domain.Nullifier, err error)
	Get(ctx context.Context, value string) (*domain.Nullifier, error)
}

// FIRepository defines persistence for financial institution records.
type FIRepository interface {
	Create(ctx context.Context, fi *domain.FIRecord) error
	GetByID(ctx context.Context, id string) (*domain.FIRecord, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.FIRecord, error)
	Update(ctx context.Context, tx pgx.Tx, fi *domain.FIRecord) error
	List(ctx context.Context) ([]domain.FIRecord, error)
}

// AuditRepository defines persistence for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, params AuditListParams) ([]domain.AuditLog, int64, error)
}

// AuditListParams holds filter + pagination for audit logs.
type AuditListParams struct {
	Severity *domain.AuditSeverity
	Action   *domain.AuditAction
	Page     int
	PageSize int
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
