package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- Accounts ---

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	s *Store
}

// NewAccountRepo creates an AccountRepo over s.
func NewAccountRepo(s *Store) *AccountRepo {
	return &AccountRepo{s: s}
}

func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[a.ID]; ok {
		return fmt.Errorf("account %s already exists", a.ID)
	}
	r.s.accounts[a.ID] = *a
	return nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := mt.lock(ctx, accountKey(id)); err != nil {
		return nil, fmt.Errorf("lock account: %w", err)
	}
	if v, ok := mt.staging(accountKey(id)); ok {
		a := v.(domain.Account)
		return &a, nil
	}
	return r.GetByID(ctx, id)
}

func (r *AccountRepo) Update(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := mt.lock(ctx, accountKey(a.ID)); err != nil {
		return fmt.Errorf("lock account: %w", err)
	}
	if _, ok := mt.staging(accountKey(a.ID)); !ok {
		if existing, _ := r.GetByID(ctx, a.ID); existing == nil {
			return fmt.Errorf("account not found: %s", a.ID)
		}
	}
	mt.stage(accountKey(a.ID), *a)
	return nil
}

func (r *AccountRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Account
	for _, a := range r.s.accounts {
		if a.OwnerAccountID != nil && *a.OwnerAccountID == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *AccountRepo) List(ctx context.Context, params ports.AccountListParams) ([]domain.Account, int64, error) {
	r.s.mu.RLock()
	var out []domain.Account
	for _, a := range r.s.accounts {
		if params.Kind != nil && a.Kind != *params.Kind {
			continue
		}
		if params.Status != nil && a.Status != *params.Status {
			continue
		}
		out = append(out, a)
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	start, end := paginate(params.Page, params.PageSize, len(out))
	return out[start:end], int64(len(out)), nil
}

func (r *AccountRepo) Totals(ctx context.Context) (*ports.AccountTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t := &ports.AccountTotals{}
	for _, a := range r.s.accounts {
		t.Balance += a.Balance
		t.Reserved += a.ReservedOfflineBalance
		t.Count++
	}
	return t, nil
}

// --- Transactions ---

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	s *Store
}

// NewTransactionRepo creates a TransactionRepo over s.
func NewTransactionRepo(s *Store) *TransactionRepo {
	return &TransactionRepo{s: s}
}

func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) (bool, error) {
	mt, err := asTx(tx)
	if err != nil {
		return false, err
	}
	// Holding the key lock makes a concurrent insert of the same id wait
	// for this transaction to finish, like a unique index would.
	if err := mt.lock(ctx, txKey(t.ID)); err != nil {
		return false, fmt.Errorf("lock transaction: %w", err)
	}
	if _, ok := mt.staging(txKey(t.ID)); ok {
		return false, nil
	}
	if existing, _ := r.GetByID(ctx, t.ID); existing != nil {
		return false, nil
	}
	mt.stage(txKey(t.ID), *t)
	return true, nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TransactionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := mt.lock(ctx, txKey(id)); err != nil {
		return nil, fmt.Errorf("lock transaction: %w", err)
	}
	if v, ok := mt.staging(txKey(id)); ok {
		t := v.(domain.Transaction)
		return &t, nil
	}
	return r.GetByID(ctx, id)
}

func (r *TransactionRepo) MarkFlags(ctx context.Context, tx pgx.Tx, id uuid.UUID, flags ...domain.SyncFlag) error {
	t, err := r.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("transaction not found: %s", id)
	}
	for _, f := range flags {
		switch f {
		case domain.SyncFlagSettled:
			t.Settled = true
		case domain.SyncFlagSyncedToFI:
			t.SyncedToFI = true
		case domain.SyncFlagSyncedToCB:
			t.SyncedToCB = true
		default:
			return fmt.Errorf("unknown sync flag %q", f)
		}
	}
	tx.(*Tx).stage(txKey(id), *t)
	return nil
}

func (r *TransactionRepo) MarkRejected(ctx context.Context, tx pgx.Tx, id uuid.UUID, reason string) error {
	t, err := r.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("transaction not found: %s", id)
	}
	t.Rejected = true
	t.RejectReason = reason
	tx.(*Tx).stage(txKey(id), *t)
	return nil
}

func flagSet(t *domain.Transaction, f domain.SyncFlag) bool {
	switch f {
	case domain.SyncFlagSettled:
		return t.Settled
	case domain.SyncFlagSyncedToFI:
		return t.SyncedToFI
	case domain.SyncFlagSyncedToCB:
		return t.SyncedToCB
	}
	return false
}

func (r *TransactionRepo) ListUnsynced(ctx context.Context, q ports.UnsyncedQuery) ([]domain.Transaction, error) {
	r.s.mu.RLock()
	var out []domain.Transaction
	for _, t := range r.s.transactions {
		if t.Rejected || flagSet(&t, q.Missing) {
			continue
		}
		ok := true
		for _, f := range q.Requires {
			if !flagSet(&t, f) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, t)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.s.mu.RLock()
	var out []domain.Transaction
	for _, t := range r.s.transactions {
		if params.AccountID != nil {
			from := t.FromAccountID != nil && *t.FromAccountID == *params.AccountID
			if !from && t.ToAccountID != *params.AccountID {
				continue
			}
		}
		if params.Kind != nil && t.Kind != *params.Kind {
			continue
		}
		if params.FIID != "" && t.SourceFI != params.FIID && t.TargetFI != params.FIID {
			continue
		}
		if params.From != nil && t.Timestamp.Before(*params.From) {
			continue
		}
		if params.To != nil && t.Timestamp.After(*params.To) {
			continue
		}
		out = append(out, t)
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	start, end := paginate(params.Page, params.PageSize, len(out))
	return out[start:end], int64(len(out)), nil
}

// --- Pending offline transactions ---

// PendingRepo implements ports.PendingRepository.
type PendingRepo struct {
	s *Store
}

// NewPendingRepo creates a PendingRepo over s.
func NewPendingRepo(s *Store) *PendingRepo {
	return &PendingRepo{s: s}
}

func (r *PendingRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.PendingOfflineTransaction) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := mt.lock(ctx, pendingKey(p.ID)); err != nil {
		return fmt.Errorf("lock pending: %w", err)
	}
	if existing, _ := r.GetByID(ctx, p.ID); existing != nil {
		return fmt.Errorf("pending transaction %s already exists", p.ID)
	}
	mt.stage(pendingKey(p.ID), *p)
	return nil
}

func (r *PendingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PendingOfflineTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.pendings[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PendingRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PendingOfflineTransaction, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := mt.lock(ctx, pendingKey(id)); err != nil {
		return nil, fmt.Errorf("lock pending: %w", err)
	}
	if v, ok := mt.staging(pendingKey(id)); ok {
		p := v.(domain.PendingOfflineTransaction)
		return &p, nil
	}
	return r.GetByID(ctx, id)
}

func (r *PendingRepo) Resolve(ctx context.Context, tx pgx.Tx, p *domain.PendingOfflineTransaction) error {
	current, err := r.GetByIDForUpdate(ctx, tx, p.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("pending transaction not found: %s", p.ID)
	}
	current.Status = p.Status
	current.RejectReason = p.RejectReason
	current.CommittedTxID = p.CommittedTxID
	current.ResolvedAt = p.ResolvedAt
	tx.(*Tx).stage(pendingKey(p.ID), *current)
	return nil
}

func (r *PendingRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, status *domain.PendingStatus) ([]domain.PendingOfflineTransaction, error) {
	r.s.mu.RLock()
	var out []domain.PendingOfflineTransaction
	for _, p := range r.s.pendings {
		if p.FromAccountID != accountID {
			continue
		}
		if status != nil && p.Status != *status {
			continue
		}
		out = append(out, p)
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].MonotonicCounterAtCreation < out[j].MonotonicCounterAtCreation
	})
	return out, nil
}

func (r *PendingRepo) ListAccountsWithPending(ctx context.Context) ([]uuid.UUID, error) {
	r.s.mu.RLock()
	seen := make(map[uuid.UUID]struct{})
	for _, p := range r.s.pendings {
		if p.Status == domain.PendingStatusPending {
			seen[p.FromAccountID] = struct{}{}
		}
	}
	r.s.mu.RUnlock()

	out := make([]uuid.UUID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

// --- FI records ---

// FIRepo implements ports.FIRepository.
type FIRepo struct {
	s *Store
}

// NewFIRepo creates an FIRepo over s.
func NewFIRepo(s *Store) *FIRepo {
	return &FIRepo{s: s}
}

func (r *FIRepo) Create(ctx context.Context, fi *domain.FIRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.fis[fi.ID]; ok {
		return fmt.Errorf("fi %s already exists", fi.ID)
	}
	r.s.fis[fi.ID] = *fi
	return nil
}

func (r *FIRepo) GetByID(ctx context.Context, id string) (*domain.FIRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	fi, ok := r.s.fis[id]
	if !ok {
		return nil, nil
	}
	return &fi, nil
}

func (r *FIRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.FIRecord, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := mt.lock(ctx, fiKey(id)); err != nil {
		return nil, fmt.Errorf("lock fi: %w", err)
	}
	if v, ok := mt.staging(fiKey(id)); ok {
		fi := v.(domain.FIRecord)
		return &fi, nil
	}
	return r.GetByID(ctx, id)
}

func (r *FIRepo) Update(ctx context.Context, tx pgx.Tx, fi *domain.FIRecord) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := mt.lock(ctx, fiKey(fi.ID)); err != nil {
		return fmt.Errorf("lock fi: %w", err)
	}
	mt.stage(fiKey(fi.ID), *fi)
	return nil
}

func (r *FIRepo) List(ctx context.Context) ([]domain.FIRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.FIRecord, 0, len(r.s.fis))
	for _, fi := range r.s.fis {
		out = append(out, fi)
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].ID, out[j].ID) < 0 })
	return out, nil
}

// --- Nullifiers ---

// NullifierStore implements ports.NullifierStore with a map under the store lock.
type NullifierStore struct {
	s *Store
}

// NewNullifierStore creates a NullifierStore over s.
func NewNullifierStore(s *Store) *NullifierStore {
	return &NullifierStore{s: s}
}

func (n *NullifierStore) Insert(ctx context.Context, rec *domain.Nullifier) (bool, *domain.Nullifier, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	if existing, ok := n.s.nullifiers[rec.Value]; ok {
		return false, &existing, nil
	}
	n.s.nullifiers[rec.Value] = *rec
	return true, nil, nil
}

func (n *NullifierStore) Get(ctx context.Context, value string) (*domain.Nullifier, error) {
	n.s.mu.RLock()
	defer n.s.mu.RUnlock()
	rec, ok := n.s.nullifiers[value]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// --- Audit ---

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	s *Store
}

// NewAuditRepo creates an AuditRepo over s.
func NewAuditRepo(s *Store) *AuditRepo {
	return &AuditRepo{s: s}
}

func (r *AuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audit = append(r.s.audit, *log)
	return nil
}

func (r *AuditRepo) List(ctx context.Context, params ports.AuditListParams) ([]domain.AuditLog, int64, error) {
	r.s.mu.RLock()
	var out []domain.AuditLog
	for i := len(r.s.audit) - 1; i >= 0; i-- {
		l := r.s.audit[i]
		if params.Severity != nil && l.Severity != *params.Severity {
			continue
		}
		if params.Action != nil && l.Action != *params.Action {
			continue
		}
		out = append(out, l)
	}
	r.s.mu.RUnlock()

	start, end := paginate(params.Page, params.PageSize, len(out))
	return out[start:end], int64(len(out)), nil
}
