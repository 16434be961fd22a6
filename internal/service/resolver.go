package service

import (
	"context"
	"fmt"
	"time"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AccountResolverImpl implements ports.AccountResolver on an FI node. Local
// receivers are looked up in the ledger without any network call; remote ones
// are resolved through the central bank and fail closed.
type AccountResolverImpl struct {
	accounts ports.AccountRepository
	cb       ports.CentralBankClient
	nodeID   string
	timeout  time.Duration
	log      zerolog.Logger
}

// NewAccountResolver creates a resolver. cb may be nil, in which case every
// remote account resolves as non-existent.
func NewAccountResolver(accounts ports.AccountRepository, cb ports.CentralBankClient, nodeID string, timeout time.Duration, log zerolog.Logger) *AccountResolverImpl {
	return &AccountResolverImpl{accounts: accounts, cb: cb, nodeID: nodeID, timeout: timeout, log: log}
}

func (r *AccountResolverImpl) ResolveAccount(ctx context.Context, accountID uuid.UUID, targetFI string) (*domain.ResolvedAccount, error) {
	if targetFI == "" || targetFI == r.nodeID {
		return r.resolveLocal(ctx, accountID)
	}

	res := &domain.ResolvedAccount{AccountID: accountID.String(), OwnerFI: targetFI}
	if r.cb == nil {
		return res, nil
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	remote, err := r.cb.ResolveAccount(ctx, targetFI, accountID)
	if err != nil {
		r.log.Warn().Err(err).
			Str("account_id", accountID.String()).
			Str("target_fi", targetFI).
			Msg("remote resolve failed, treating receiver as unknown")
		return res, nil
	}
	if remote == nil {
		return res, nil
	}
	remote.AccountID = accountID.String()
	remote.IsLocal = false
	remote.OwnerFI = targetFI
	return remote, nil
}

func (r *AccountResolverImpl) resolveLocal(ctx context.Context, accountID uuid.UUID) (*domain.ResolvedAccount, error) {
	a, err := r.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("resolve account: %w", err))
	}
	res := &domain.ResolvedAccount{AccountID: accountID.String(), IsLocal: true, OwnerFI: r.nodeID}
	if a == nil {
		return res, nil
	}
	res.Exists = true
	res.Kind = a.Kind
	res.Status = a.Status
	return res, nil
}

// receiverError explains why res cannot receive funds.
func receiverError(res *domain.ResolvedAccount) error {
	switch {
	case !res.Exists:
		return apperror.ErrInvalidReceiver("account does not exist")
	case res.Status == domain.AccountStatusRevoked:
		return apperror.ErrInvalidReceiver("account is revoked")
	case res.Kind != domain.AccountKindWallet:
		return apperror.ErrInvalidReceiver("sub-wallets are funded by allocation only")
	}
	return nil
}
