package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Ledger is the atomic get/put contract over accounts. Every balance mutation
// goes through InTx and locks accounts with LockAccounts, which always takes
// row locks in ascending id order. The global lock order is: accounts, then
// the FI record, then the pending row, then transaction rows.
type Ledger struct {
	transactor ports.DBTransactor
	accounts   ports.AccountRepository
	now        func() time.Time
}

func NewLedger(transactor ports.DBTransactor, accounts ports.AccountRepository) *Ledger {
	return &Ledger{transactor: transactor, accounts: accounts, now: utcNow}
}

// Account returns the account or a NotFound error.
func (l *Ledger) Account(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	a, err := l.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get account %s: %w", id, err))
	}
	if a == nil {
		return nil, apperror.ErrNotFound("account")
	}
	return a, nil
}

// InTx runs fn inside one database transaction. fn's error rolls back.
func (l *Ledger) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return inTx(ctx, l.transactor, fn)
}

func inTx(ctx context.Context, transactor ports.DBTransactor, fn func(tx pgx.Tx) error) error {
	tx, err := transactor.Begin(ctx)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("commit: %w", err))
	}
	return nil
}

// LockAccounts row-locks ids in ascending order and returns them by id.
// Duplicate ids are locked once.
func (l *Ledger) LockAccounts(ctx context.Context, tx pgx.Tx, ids ...uuid.UUID) (map[uuid.UUID]*domain.Account, error) {
	ordered := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			ordered = append(ordered, id)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return bytes.Compare(ordered[i][:], ordered[j][:]) < 0
	})

	out := make(map[uuid.UUID]*domain.Account, len(ordered))
	for _, id := range ordered {
		a, err := l.accounts.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("lock account %s: %w", id, err))
		}
		if a == nil {
			return nil, apperror.ErrNotFound("account")
		}
		out[id] = a
	}
	return out, nil
}

// Save validates and writes locked accounts.
func (l *Ledger) Save(ctx context.Context, tx pgx.Tx, accounts ...*domain.Account) error {
	now := l.now()
	for _, a := range accounts {
		if err := a.Validate(); err != nil {
			return apperror.InternalError(err)
		}
		a.UpdatedAt = now
		if err := l.accounts.Update(ctx, tx, a); err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("update account %s: %w", a.ID, err))
		}
	}
	return nil
}

// WithAccounts locks ids, runs fn and saves every locked account in one transaction.
func (l *Ledger) WithAccounts(ctx context.Context, ids []uuid.UUID, fn func(tx pgx.Tx, accts map[uuid.UUID]*domain.Account) error) error {
	return l.InTx(ctx, func(tx pgx.Tx) error {
		accts, err := l.LockAccounts(ctx, tx, ids...)
		if err != nil {
			return err
		}
		if err := fn(tx, accts); err != nil {
			return err
		}
		list := make([]*domain.Account, 0, len(accts))
		for _, a := range accts {
			list = append(list, a)
		}
		return l.Save(ctx, tx, list...)
	})
}

// UpdateAccount applies fn to one locked account and returns the saved value.
func (l *Ledger) UpdateAccount(ctx context.Context, id uuid.UUID, fn func(a *domain.Account) error) (*domain.Account, error) {
	var out *domain.Account
	err := l.WithAccounts(ctx, []uuid.UUID{id}, func(_ pgx.Tx, accts map[uuid.UUID]*domain.Account) error {
		out = accts[id]
		return fn(out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte(`{}`)
	}
	return b
}
