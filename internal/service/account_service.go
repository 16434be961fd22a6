package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cbdc-settlement/config"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// AccountServiceImpl implements ports.AccountService.
type AccountServiceImpl struct {
	ledger     *Ledger
	accounts   ports.AccountRepository
	txns       ports.TransactionRepository
	treasury   *Treasury
	compliance *ComplianceServiceImpl
	nullifiers ports.NullifierService
	proofs     ports.ProofService
	resolver   ports.AccountResolver
	encSvc     ports.EncryptionService
	audit      ports.AuditService
	limits     config.ComplianceConfig
	nodeID     string
	log        zerolog.Logger
	now        func() time.Time
}

func NewAccountService(
	ledger *Ledger,
	accounts ports.AccountRepository,
	txns ports.TransactionRepository,
	treasury *Treasury,
	compliance *ComplianceServiceImpl,
	nullifiers ports.NullifierService,
	proofs ports.ProofService,
	resolver ports.AccountResolver,
	encSvc ports.EncryptionService,
	audit ports.AuditService,
	limits config.ComplianceConfig,
	nodeID string,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		ledger:     ledger,
		accounts:   accounts,
		txns:       txns,
		treasury:   treasury,
		compliance: compliance,
		nullifiers: nullifiers,
		proofs:     proofs,
		resolver:   resolver,
		encSvc:     encSvc,
		audit:      audit,
		limits:     limits,
		nodeID:     nodeID,
		log:        log,
		now:        utcNow,
	}
}

func (s *AccountServiceImpl) CreateWallet(ctx context.Context, req ports.CreateWalletRequest) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	if req.DailyLimit < 0 {
		return nil, apperror.Validation("daily_limit must not be negative")
	}

	a, err := s.newAccount(domain.AccountKindWallet, name)
	if err != nil {
		return nil, err
	}
	a.DailyLimit = req.DailyLimit

	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().Str("account_id", a.ID.String()).Msg("wallet created")
	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      s.nodeID,
		Action:     domain.AuditActionCreateAccount,
		EntityType: "account",
		EntityID:   a.ID.String(),
		Details:    auditDetails(map[string]any{"kind": a.Kind, "name": a.Name}),
	})
	return a, nil
}

// RegisterSubWallet creates a device sub-wallet under an active wallet.
func (s *AccountServiceImpl) RegisterSubWallet(ctx context.Context, req ports.RegisterSubWalletRequest) (*domain.Account, error) {
	deviceType := strings.TrimSpace(req.DeviceType)
	if deviceType == "" {
		return nil, apperror.Validation("device_type is required")
	}
	limit := req.SpendingLimit
	if limit == 0 {
		limit = s.limits.DefaultSubWalletSpendingLimit
	}
	if limit < 0 || (s.limits.SubWalletBalanceCeiling > 0 && limit > s.limits.SubWalletBalanceCeiling) {
		return nil, apperror.Validation(fmt.Sprintf("spending_limit must be between 1 and %d", s.limits.SubWalletBalanceCeiling))
	}

	parent, err := s.ledger.Account(ctx, req.WalletID)
	if err != nil {
		return nil, err
	}
	if parent.IsSubWallet() {
		return nil, apperror.Validation("sub-wallets cannot own sub-wallets")
	}
	if err := usable(parent); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.DeviceName)
	if name == "" {
		name = deviceType
	}
	a, err := s.newAccount(domain.AccountKindSubWallet, name)
	if err != nil {
		return nil, err
	}
	owner := parent.ID
	a.OwnerAccountID = &owner
	a.DeviceType = deviceType
	a.DeviceName = req.DeviceName
	a.SpendingLimit = limit

	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create sub-wallet: %w", err))
	}

	s.log.Info().
		Str("account_id", a.ID.String()).
		Str("owner_id", owner.String()).
		Str("device_type", deviceType).
		Msg("sub-wallet registered")
	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      owner.String(),
		Action:     domain.AuditActionCreateAccount,
		EntityType: "account",
		EntityID:   a.ID.String(),
		Details:    auditDetails(map[string]any{"kind": a.Kind, "device_type": deviceType, "spending_limit": limit}),
	})
	return a, nil
}

func (s *AccountServiceImpl) newAccount(kind domain.AccountKind, name string) (*domain.Account, error) {
	pub, sealed, err := newAccountKeys(s.encSvc)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}
	now := s.now()
	return &domain.Account{
		ID:            uuid.New(),
		FIID:          s.nodeID,
		Kind:          kind,
		Name:          name,
		Status:        domain.AccountStatusActive,
		PublicKey:     pub,
		SigningKeyEnc: sealed,
		Compliance: domain.ComplianceCounter{
			LastDailyReset:   now,
			LastMonthlyReset: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *AccountServiceImpl) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.ledger.Account(ctx, id)
}

func (s *AccountServiceImpl) ListSubWallets(ctx context.Context, walletID uuid.UUID) ([]domain.Account, error) {
	if _, err := s.ledger.Account(ctx, walletID); err != nil {
		return nil, err
	}
	list, err := s.accounts.ListByOwner(ctx, walletID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return list, nil
}

// AllocateToWallet moves funds from the FI treasury to a wallet.
func (s *AccountServiceImpl) AllocateToWallet(ctx context.Context, walletID uuid.UUID, amount int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	var out *domain.Transaction
	err := s.ledger.WithAccounts(ctx, []uuid.UUID{walletID}, func(tx pgx.Tx, accts map[uuid.UUID]*domain.Account) error {
		w := accts[walletID]
		if w.IsSubWallet() {
			return apperror.Validation("sub-wallets are funded by their owner wallet")
		}
		if w.Status == domain.AccountStatusRevoked {
			return apperror.ErrRevoked()
		}
		fi, err := s.treasury.Lock(ctx, tx)
		if err != nil {
			return err
		}
		if fi.AvailableBalance < amount {
			return apperror.ErrInsufficientBalance()
		}

		fi.AvailableBalance -= amount
		w.Credit(amount)
		out = s.internalTx(nil, w.ID, amount, domain.TransactionKindCredit)
		if _, err := s.txns.Create(ctx, tx, out); err != nil {
			return apperror.ErrDatabaseError(err)
		}
		return s.treasury.Save(ctx, tx, fi)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      s.nodeID,
		Action:     domain.AuditActionAllocate,
		EntityType: "account",
		EntityID:   walletID.String(),
		Details:    auditDetails(map[string]any{"amount": amount, "tx_id": out.ID}),
	})
	return out, nil
}

// AllocateToSubWallet moves funds from the owner wallet into a sub-wallet,
// never above the sub-wallet's spending limit.
func (s *AccountServiceImpl) AllocateToSubWallet(ctx context.Context, subWalletID uuid.UUID, amount int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	sub, err := s.subWallet(ctx, subWalletID)
	if err != nil {
		return nil, err
	}
	ownerID := *sub.OwnerAccountID

	var out *domain.Transaction
	err = s.ledger.WithAccounts(ctx, []uuid.UUID{ownerID, subWalletID}, func(tx pgx.Tx, accts map[uuid.UUID]*domain.Account) error {
		w, sw := accts[ownerID], accts[subWalletID]
		if err := usable(w); err != nil {
			return err
		}
		if sw.Status == domain.AccountStatusRevoked {
			return apperror.ErrRevoked()
		}
		if w.Balance < amount {
			return apperror.ErrInsufficientBalance()
		}
		if sw.Balance+amount > sw.SpendingLimit {
			return apperror.ErrSpendingLimitExceeded(sw.SpendingLimit)
		}

		w.Debit(amount)
		sw.Credit(amount)
		from := w.ID
		out = s.internalTx(&from, sw.ID, amount, domain.TransactionKindSubWalletAllocation)
		if _, err := s.txns.Create(ctx, tx, out); err != nil {
			return apperror.ErrDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      ownerID.String(),
		Action:     domain.AuditActionAllocate,
		EntityType: "account",
		EntityID:   subWalletID.String(),
		Details:    auditDetails(map[string]any{"amount": amount, "tx_id": out.ID}),
	})
	return out, nil
}

// ReturnFromSubWallet moves unspent sub-wallet funds back to the owner.
func (s *AccountServiceImpl) ReturnFromSubWallet(ctx context.Context, subWalletID uuid.UUID, amount int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	sub, err := s.subWallet(ctx, subWalletID)
	if err != nil {
		return nil, err
	}
	ownerID := *sub.OwnerAccountID

	var out *domain.Transaction
	err = s.ledger.WithAccounts(ctx, []uuid.UUID{ownerID, subWalletID}, func(tx pgx.Tx, accts map[uuid.UUID]*domain.Account) error {
		w, sw := accts[ownerID], accts[subWalletID]
		if sw.Balance < amount {
			return apperror.ErrInsufficientBalance()
		}
		sw.Debit(amount)
		w.Credit(amount)
		from := sw.ID
		out = s.internalTx(&from, w.ID, amount, domain.TransactionKindSubWalletReturn)
		if _, err := s.txns.Create(ctx, tx, out); err != nil {
			return apperror.ErrDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AccountServiceImpl) subWallet(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	a, err := s.ledger.Account(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsSubWallet() || a.OwnerAccountID == nil {
		return nil, apperror.Validation("account is not a sub-wallet")
	}
	return a, nil
}

// SetStatus freezes, unfreezes or revokes an account. Revocation is final;
// a revoked sub-wallet's spendable balance is swept back to its owner.
func (s *AccountServiceImpl) SetStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error) {
	switch status {
	case domain.AccountStatusActive, domain.AccountStatusFrozen, domain.AccountStatusRevoked:
	default:
		return nil, apperror.Validation(fmt.Sprintf("invalid status %q", status))
	}
	a, err := s.ledger.Account(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := []uuid.UUID{id}
	sweep := status == domain.AccountStatusRevoked && a.IsSubWallet() && a.OwnerAccountID != nil
	if sweep {
		ids = append(ids, *a.OwnerAccountID)
	}

	var out *domain.Account
	var old domain.AccountStatus
	err = s.ledger.WithAccounts(ctx, ids, func(tx pgx.Tx, accts map[uuid.UUID]*domain.Account) error {
		out = accts[id]
		old = out.Status
		if old == domain.AccountStatusRevoked && status != domain.AccountStatusRevoked {
			return apperror.Validation("revoked accounts cannot be reactivated")
		}
		out.Status = status
		if !sweep || out.Balance == 0 {
			return nil
		}

		owner := accts[*out.OwnerAccountID]
		amount := out.Balance
		out.Debit(amount)
		owner.Credit(amount)
		from := out.ID
		t := s.internalTx(&from, owner.ID, amount, domain.TransactionKindSubWalletReturn)
		if _, err := s.txns.Create(ctx, tx, t); err != nil {
			return apperror.ErrDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if old != status {
		s.log.Info().
			Str("account_id", id.String()).
			Str("from", string(old)).
			Str("to", string(status)).
			Msg("account status changed")
		s.audit.Log(ctx, &domain.AuditLog{
			Actor:      s.nodeID,
			Action:     domain.AuditActionStatusChange,
			EntityType: "account",
			EntityID:   id.String(),
			Details:    auditDetails(map[string]any{"from": old, "to": status}),
		})
	}
	return out, nil
}

func (s *AccountServiceImpl) SetOfflineMode(ctx context.Context, id uuid.UUID, offline bool) (*domain.Account, error) {
	return s.ledger.UpdateAccount(ctx, id, func(a *domain.Account) error {
		if a.Status == domain.AccountStatusRevoked {
			return apperror.ErrRevoked()
		}
		a.IsOfflineMode = offline
		return nil
	})
}

// Transfer is an online payment. It carries a proof and a nullifier like an
// offline one, but settles immediately for local receivers.
func (s *AccountServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, apperror.ErrInvalidReceiver("sender and receiver are the same account")
	}
	targetFI := remoteTarget(req.TargetFI, s.nodeID)
	crossFI := targetFI != ""

	sender, err := s.ledger.Account(ctx, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	if err := usable(sender); err != nil {
		return nil, err
	}
	recv, err := s.resolver.ResolveAccount(ctx, req.ToAccountID, targetFI)
	if err != nil {
		return nil, err
	}
	if err := receiverError(recv); err != nil {
		return nil, err
	}

	ids := []uuid.UUID{req.FromAccountID}
	if !crossFI {
		ids = append(ids, req.ToAccountID)
	}

	var out *domain.Transaction
	err = s.ledger.WithAccounts(ctx, ids, func(tx pgx.Tx, accts map[uuid.UUID]*domain.Account) error {
		a := accts[req.FromAccountID]
		if err := usable(a); err != nil {
			return err
		}
		if a.IsOfflineMode {
			return apperror.ErrAccountOffline()
		}
		now := s.now()
		if err := s.compliance.Enforce(a, req.Amount, false, now); err != nil {
			return err
		}
		if a.Balance < req.Amount {
			return apperror.ErrInsufficientBalance()
		}

		var fi *domain.FIRecord
		if crossFI {
			var err error
			if fi, err = s.treasury.Lock(ctx, tx); err != nil {
				return err
			}
		} else {
			to := accts[req.ToAccountID]
			if err := receiverError(&domain.ResolvedAccount{Exists: true, Kind: to.Kind, Status: to.Status}); err != nil {
				return err
			}
		}

		key, err := accountSigner(s.encSvc, a)
		if err != nil {
			return apperror.ErrEncryptionFailure(err)
		}
		claims := ports.ProofClaims{
			SenderID:      a.ID,
			BalanceBefore: a.Balance,
			Compliance:    s.compliance.Claim(a, false, now),
		}
		counter := a.NextCounter()

		kind := domain.TransactionKindTransfer
		if crossFI {
			kind = domain.TransactionKindCrossFITransfer
		}
		from := a.ID
		t := &domain.Transaction{
			ID:              uuid.New(),
			FromAccountID:   &from,
			ToAccountID:     req.ToAccountID,
			Amount:          req.Amount,
			Kind:            kind,
			SourceFI:        s.nodeID,
			TargetFI:        targetFI,
			Nullifier:       domain.DeriveNullifier(a.ID, counter, req.Amount, now),
			SenderPublicKey: a.PublicKey,
			Settled:         !crossFI,
			SyncedToFI:      !a.IsSubWallet(),
			Timestamp:       now,
		}
		if t.Proof, err = s.proofs.Generate(key, t.Subject(counter, now), claims); err != nil {
			return apperror.InternalError(fmt.Errorf("generate proof: %w", err))
		}
		if err := s.nullifiers.Register(ctx, t.Nullifier, a.ID, t.ID, t.Amount); err != nil {
			return err
		}
		if _, err := s.txns.Create(ctx, tx, t); err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("create transaction: %w", err))
		}

		a.Debit(req.Amount)
		s.compliance.Record(a, req.Amount, false, now)
		if crossFI {
			fi.AllocatedFunds -= req.Amount
			if err := s.treasury.Save(ctx, tx, fi); err != nil {
				return err
			}
		} else {
			accts[req.ToAccountID].Credit(req.Amount)
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("tx_id", out.ID.String()).
		Str("kind", string(out.Kind)).
		Int64("amount", out.Amount).
		Msg("transfer committed")
	return out, nil
}

// internalTx builds a transaction that never leaves this FI.
func (s *AccountServiceImpl) internalTx(from *uuid.UUID, to uuid.UUID, amount int64, kind domain.TransactionKind) *domain.Transaction {
	return &domain.Transaction{
		ID:            uuid.New(),
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        amount,
		Kind:          kind,
		SourceFI:      s.nodeID,
		TargetFI:      s.nodeID,
		Settled:       true,
		SyncedToFI:    true,
		SyncedToCB:    true,
		Timestamp:     s.now(),
	}
}
