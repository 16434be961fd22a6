// Package memory is an in-process Ledger Store used by tests and by nodes
// started with storage.driver=memory. Row locks are per-key mutexes held until
// the owning transaction commits or rolls back, and writes are staged so a
// rolled back transaction leaves no trace.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cbdc-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New("memory: transaction already committed or rolled back")

// Store holds every entity of one node.
type Store struct {
	mu           sync.RWMutex
	accounts     map[uuid.UUID]domain.Account
	transactions map[uuid.UUID]domain.Transaction
	pendings     map[uuid.UUID]domain.PendingOfflineTransaction
	fis          map[string]domain.FIRecord
	nullifiers   map[string]domain.Nullifier
	audit        []domain.AuditLog

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[uuid.UUID]domain.Account),
		transactions: make(map[uuid.UUID]domain.Transaction),
		pendings:     make(map[uuid.UUID]domain.PendingOfflineTransaction),
		fis:          make(map[string]domain.FIRecord),
		nullifiers:   make(map[string]domain.Nullifier),
		locks:        make(map[string]chan struct{}),
	}
}

func (s *Store) lockChan(key string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	return ch
}

func accountKey(id uuid.UUID) string { return "account:" + id.String() }
func txKey(id uuid.UUID) string      { return "tx:" + id.String() }
func pendingKey(id uuid.UUID) string { return "pending:" + id.String() }
func fiKey(id string) string         { return "fi:" + id }

// Transactor implements ports.DBTransactor for the memory store.
type Transactor struct {
	store *Store
}

// NewTransactor creates a Transactor over s.
func NewTransactor(s *Store) *Transactor {
	return &Transactor{store: s}
}

// Begin starts a transaction.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &Tx{store: t.store, held: make(map[string]chan struct{}), staged: make(map[string]any)}, nil
}

// Tx is a pgx.Tx whose SQL methods are unused; repositories type-assert it to
// reach the lock set and staged writes.
type Tx struct {
	store  *Store
	mu     sync.Mutex
	held   map[string]chan struct{}
	order  []string
	staged map[string]any
	done   bool
}

func asTx(tx pgx.Tx) (*Tx, error) {
	mt, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("memory: foreign transaction %T", tx)
	}
	return mt, nil
}

// lock acquires the row lock for key, waiting until it is free or ctx ends.
// Locks are reentrant within one transaction.
func (t *Tx) lock(ctx context.Context, key string) error {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return ErrTxDone
	}
	if _, ok := t.held[key]; ok {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	ch := t.store.lockChan(key)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	t.mu.Lock()
	t.held[key] = ch
	t.order = append(t.order, key)
	t.mu.Unlock()
	return nil
}

func (t *Tx) stage(key string, v any) {
	t.mu.Lock()
	t.staged[key] = v
	t.mu.Unlock()
}

func (t *Tx) staging(key string) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.staged[key]
	return v, ok
}

func (t *Tx) release() {
	for i := len(t.order) - 1; i >= 0; i-- {
		<-t.held[t.order[i]]
	}
	t.held = nil
	t.order = nil
	t.staged = nil
	t.done = true
}

// Commit applies staged writes and releases every lock.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return ErrTxDone
	}

	t.store.mu.Lock()
	for _, v := range t.staged {
		switch e := v.(type) {
		case domain.Account:
			t.store.accounts[e.ID] = e
		case domain.Transaction:
			t.store.transactions[e.ID] = e
		case domain.PendingOfflineTransaction:
			t.store.pendings[e.ID] = e
		case domain.FIRecord:
			t.store.fis[e.ID] = e
		}
	}
	t.store.mu.Unlock()

	t.release()
	return nil
}

// Rollback discards staged writes and releases every lock. It is a no-op on
// a finished transaction so it can always be deferred.
func (t *Tx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	t.release()
	return nil
}

func (t *Tx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *Tx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.ErrUnsupported
}
func (t *Tx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *Tx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *Tx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.ErrUnsupported
}
func (t *Tx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), errors.ErrUnsupported
}
func (t *Tx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.ErrUnsupported
}
func (t *Tx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *Tx) Conn() *pgx.Conn                                             { return nil }

// HealthCheck implements ports.HealthChecker; the memory store is always up.
type HealthCheck struct{}

// Ping always succeeds.
func (HealthCheck) Ping(ctx context.Context) error { return nil }

// Name returns the dependency name.
func (HealthCheck) Name() string { return "memory" }

func paginate(page, pageSize, n int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start > n {
		start = n
	}
	end := start + pageSize
	if end > n {
		end = n
	}
	return start, end
}
