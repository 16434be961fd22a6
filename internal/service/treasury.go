package service

import (
	"context"
	"fmt"
	"time"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Treasury is an FI node's own FIRecord. AllocatedFunds is the net inflow
// into the FI and AvailableBalance the part not yet handed to wallets, so
//
//	Σ(account balance + reserved) + AvailableBalance == AllocatedFunds
type Treasury struct {
	fis    ports.FIRepository
	nodeID string
	now    func() time.Time
}

func NewTreasury(fis ports.FIRepository, nodeID string) *Treasury {
	return &Treasury{fis: fis, nodeID: nodeID, now: utcNow}
}

// Ensure creates the treasury record on first start.
func (t *Treasury) Ensure(ctx context.Context, name, endpoint string) (*domain.FIRecord, error) {
	fi, err := t.Get(ctx)
	if err == nil {
		return fi, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	now := t.now()
	fi = &domain.FIRecord{
		ID:        t.nodeID,
		Name:      name,
		Endpoint:  endpoint,
		Status:    domain.FIStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.fis.Create(ctx, fi); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create treasury: %w", err))
	}
	return fi, nil
}

func (t *Treasury) Get(ctx context.Context) (*domain.FIRecord, error) {
	fi, err := t.fis.GetByID(ctx, t.nodeID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if fi == nil {
		return nil, apperror.ErrNotFound("FI treasury")
	}
	return fi, nil
}

// Lock row-locks the treasury. Callers lock accounts first.
func (t *Treasury) Lock(ctx context.Context, tx pgx.Tx) (*domain.FIRecord, error) {
	fi, err := t.fis.GetByIDForUpdate(ctx, tx, t.nodeID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if fi == nil {
		return nil, apperror.ErrNotFound("FI treasury")
	}
	return fi, nil
}

func (t *Treasury) Save(ctx context.Context, tx pgx.Tx, fi *domain.FIRecord) error {
	if fi.AvailableBalance < 0 {
		return apperror.InternalError(fmt.Errorf("treasury %s: negative available balance", fi.ID))
	}
	fi.UpdatedAt = t.now()
	if err := t.fis.Update(ctx, tx, fi); err != nil {
		return apperror.ErrDatabaseError(err)
	}
	return nil
}

// creditTarget picks the account an inbound refund lands on. Sub-wallets are
// funded only by their owner, so their refunds go to the owning wallet.
// uuid.Nil means the treasury.
func (l *Ledger) creditTarget(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	a, err := l.Account(ctx, accountID)
	if apperror.IsNotFound(err) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	if a.IsSubWallet() && a.OwnerAccountID != nil {
		return *a.OwnerAccountID, nil
	}
	return a.ID, nil
}

// bookInboundCredit credits amount to target, or to the treasury's available
// balance when target is nil or revoked, and records the inflow. It returns
// the id credited, uuid.Nil for the treasury.
func bookInboundCredit(target *domain.Account, fi *domain.FIRecord, amount int64) uuid.UUID {
	fi.AllocatedFunds += amount
	if target == nil || target.Status == domain.AccountStatusRevoked {
		fi.AvailableBalance += amount
		return uuid.Nil
	}
	target.Credit(amount)
	return target.ID
}
