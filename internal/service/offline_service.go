package service

import (
	"context"
	"fmt"
	"time"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// OfflineServiceImpl implements ports.OfflineService: reservation of offline
// payments and their exactly-once commit into the ledger.
type OfflineServiceImpl struct {
	ledger     *Ledger
	treasury   *Treasury
	pendings   ports.PendingRepository
	txns       ports.TransactionRepository
	compliance *ComplianceServiceImpl
	nullifiers ports.NullifierService
	proofs     ports.ProofService
	resolver   ports.AccountResolver
	encSvc     ports.EncryptionService
	audit      ports.AuditService
	metrics    *metrics.Metrics
	nodeID     string
	log        zerolog.Logger
	now        func() time.Time
}

func NewOfflineService(
	ledger *Ledger,
	treasury *Treasury,
	pendings ports.PendingRepository,
	txns ports.TransactionRepository,
	compliance *ComplianceServiceImpl,
	nullifiers ports.NullifierService,
	proofs ports.ProofService,
	resolver ports.AccountResolver,
	encSvc ports.EncryptionService,
	audit ports.AuditService,
	m *metrics.Metrics,
	nodeID string,
	log zerolog.Logger,
) *OfflineServiceImpl {
	return &OfflineServiceImpl{
		ledger:     ledger,
		treasury:   treasury,
		pendings:   pendings,
		txns:       txns,
		compliance: compliance,
		nullifiers: nullifiers,
		proofs:     proofs,
		resolver:   resolver,
		encSvc:     encSvc,
		audit:      audit,
		metrics:    m,
		nodeID:     nodeID,
		log:        log,
		now:        utcNow,
	}
}

// CreateOffline reserves req.Amount on the sender and returns the signed
// pending record. Local receivers are resolved without any network call.
func (s *OfflineServiceImpl) CreateOffline(ctx context.Context, req ports.OfflineRequest) (*domain.PendingOfflineTransaction, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, apperror.ErrInvalidReceiver("sender and receiver are the same account")
	}
	targetFI := remoteTarget(req.TargetFI, s.nodeID)

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

	var pending *domain.PendingOfflineTransaction
	err = s.ledger.WithAccounts(ctx, []uuid.UUID{req.FromAccountID}, func(tx pgx.Tx, accts map[uuid.UUID]*domain.Account) error {
		a := accts[req.FromAccountID]
		if err := usable(a); err != nil {
			return err
		}
		now := s.now()
		if err := s.compliance.Enforce(a, req.Amount, true, now); err != nil {
			return err
		}
		if a.Balance < req.Amount {
			return apperror.ErrInsufficientBalance()
		}

		key, err := accountSigner(s.encSvc, a)
		if err != nil {
			return apperror.ErrEncryptionFailure(err)
		}
		claims := ports.ProofClaims{
			SenderID:      a.ID,
			BalanceBefore: a.Balance,
			Compliance:    s.compliance.Claim(a, true, now),
		}

		counter := a.Reserve(req.Amount)
		p := &domain.PendingOfflineTransaction{
			ID:                         uuid.New(),
			FromAccountID:              a.ID,
			ToAccountID:                req.ToAccountID,
			TargetFI:                   targetFI,
			Amount:                     req.Amount,
			Nullifier:                  domain.DeriveNullifier(a.ID, counter, req.Amount, now),
			MonotonicCounterAtCreation: counter,
			Status:                     domain.PendingStatusPending,
			CreatedAt:                  now,
		}
		proof, err := s.proofs.Generate(key, p.Subject(), claims)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("generate proof: %w", err))
		}
		p.Proof = *proof

		if err := s.pendings.Create(ctx, tx, p); err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("create pending: %w", err))
		}
		pending = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncOfflineCreated()
	s.log.Info().
		Str("pending_id", pending.ID.String()).
		Str("account_id", pending.FromAccountID.String()).
		Int64("amount", pending.Amount).
		Uint64("counter", pending.MonotonicCounterAtCreation).
		Msg("offline payment reserved")
	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      pending.FromAccountID.String(),
		Action:     domain.AuditActionOfflineCreated,
		EntityType: "pending_offline_transaction",
		EntityID:   pending.ID.String(),
		Details:    auditDetails(map[string]any{"amount": pending.Amount, "to": pending.ToAccountID, "target_fi": targetFI}),
	})
	return pending, nil
}

// Commit admits a pending record into the ledger exactly once. Concurrent or
// repeated calls for the same record get DoubleSpendDetected after the first
// success and never move balances again.
func (s *OfflineServiceImpl) Commit(ctx context.Context, pendingID uuid.UUID) (*domain.Transaction, error) {
	p, err := s.GetPending(ctx, pendingID)
	if err != nil {
		return nil, err
	}
	if err := resolvedError(p); err != nil {
		return nil, err
	}

	sender, err := s.ledger.Account(ctx, p.FromAccountID)
	if err != nil {
		return nil, err
	}
	identity := domain.SenderIdentity{AccountID: sender.ID, PublicKey: sender.PublicKey}
	if err := s.proofs.Verify(&p.Proof, p.Subject(), identity); err != nil {
		s.audit.Log(ctx, &domain.AuditLog{
			Actor:      p.FromAccountID.String(),
			Action:     domain.AuditActionInvalidProof,
			Severity:   domain.AuditSeveritySecurity,
			EntityType: "pending_offline_transaction",
			EntityID:   p.ID.String(),
			Details:    auditDetails(map[string]any{"error": err.Error()}),
		})
		return nil, s.reject(ctx, p, domain.RejectReasonInvalidProof, apperror.ErrInvalidProof(err))
	}

	if !p.IsCrossFI() {
		recv, err := s.resolver.ResolveAccount(ctx, p.ToAccountID, "")
		if err != nil {
			return nil, err
		}
		if rerr := receiverError(recv); rerr != nil {
			return nil, s.reject(ctx, p, domain.RejectReasonInvalidReceiver, rerr)
		}
	}

	// Point of no return: from here every step is idempotent on txID.
	txID := domain.SettlementTxID(p.ID)
	if err := s.nullifiers.Register(ctx, p.Nullifier, p.FromAccountID, txID, p.Amount); err != nil {
		if apperror.IsDoubleSpend(err) {
			s.audit.Log(ctx, &domain.AuditLog{
				Actor:      p.FromAccountID.String(),
				Action:     domain.AuditActionDoubleSpend,
				Severity:   domain.AuditSeveritySecurity,
				EntityType: "pending_offline_transaction",
				EntityID:   p.ID.String(),
				Details:    auditDetails(map[string]any{"nullifier": p.Nullifier}),
			})
			return nil, s.reject(ctx, p, domain.RejectReasonDoubleSpend, err)
		}
		return nil, err
	}

	return s.finalize(ctx, p, txID)
}

func (s *OfflineServiceImpl) finalize(ctx context.Context, p *domain.PendingOfflineTransaction, txID uuid.UUID) (*domain.Transaction, error) {
	ids := []uuid.UUID{p.FromAccountID}
	if !p.IsCrossFI() {
		ids = append(ids, p.ToAccountID)
	}

	var out *domain.Transaction
	var outcome error
	err := s.ledger.WithAccounts(ctx, ids, func(tx pgx.Tx, accts map[uuid.UUID]*domain.Account) error {
		sender := accts[p.FromAccountID]
		var fi *domain.FIRecord
		if p.IsCrossFI() {
			var err error
			if fi, err = s.treasury.Lock(ctx, tx); err != nil {
				return err
			}
		}

		cur, err := s.lockPending(ctx, tx, p.ID)
		if err != nil {
			return err
		}
		if outcome = resolvedError(cur); outcome != nil {
			return nil
		}

		now := s.now()
		if !p.IsCrossFI() {
			if rerr := receiverError(&domain.ResolvedAccount{Exists: true, Kind: accts[p.ToAccountID].Kind, Status: accts[p.ToAccountID].Status}); rerr != nil {
				sender.ReleaseReservation(cur.Amount)
				outcome = rerr
				return s.resolve(ctx, tx, cur, domain.PendingStatusRejected, domain.RejectReasonInvalidReceiver, nil, now)
			}
		}

		kind := domain.TransactionKindOfflineTransfer
		if p.IsCrossFI() {
			kind = domain.TransactionKindCrossFITransfer
		}
		proof := cur.Proof
		pendingID := cur.ID
		from := cur.FromAccountID
		t := &domain.Transaction{
			ID:              txID,
			FromAccountID:   &from,
			ToAccountID:     cur.ToAccountID,
			Amount:          cur.Amount,
			Kind:            kind,
			SourceFI:        s.nodeID,
			TargetFI:        cur.TargetFI,
			PendingID:       &pendingID,
			Nullifier:       cur.Nullifier,
			Proof:           &proof,
			SenderPublicKey: sender.PublicKey,
			Settled:         !p.IsCrossFI(),
			SyncedToFI:      !sender.IsSubWallet(),
			Timestamp:       now,
		}
		inserted, err := s.txns.Create(ctx, tx, t)
		if err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("create transaction: %w", err))
		}
		if !inserted {
			outcome = apperror.ErrDoubleSpendDetected(cur.Nullifier)
			return nil
		}

		sender.SettleReservation(cur.Amount)
		s.compliance.Record(sender, cur.Amount, true, now)
		if p.IsCrossFI() {
			fi.AllocatedFunds -= cur.Amount
			if err := s.treasury.Save(ctx, tx, fi); err != nil {
				return err
			}
		} else {
			accts[cur.ToAccountID].Credit(cur.Amount)
		}

		if err := s.resolve(ctx, tx, cur, domain.PendingStatusCommitted, "", &txID, now); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	if outcome != nil {
		if apperror.HasCode(outcome, apperror.CodeInvalidReceiver) {
			s.metrics.IncOfflineRejected(domain.RejectReasonInvalidReceiver)
		}
		return nil, outcome
	}

	s.metrics.IncOfflineCommitted()
	s.log.Info().
		Str("pending_id", p.ID.String()).
		Str("tx_id", out.ID.String()).
		Str("kind", string(out.Kind)).
		Int64("amount", out.Amount).
		Msg("offline payment committed")
	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      p.FromAccountID.String(),
		Action:     domain.AuditActionOfflineCommitted,
		EntityType: "transaction",
		EntityID:   out.ID.String(),
	})
	return out, nil
}

// reject marks p rejected and returns its reservation to the sender. If
// another caller resolved p first, their outcome is reported instead of cause.
func (s *OfflineServiceImpl) reject(ctx context.Context, p *domain.PendingOfflineTransaction, reason string, cause error) error {
	var outcome error
	err := s.ledger.WithAccounts(ctx, []uuid.UUID{p.FromAccountID}, func(tx pgx.Tx, accts map[uuid.UUID]*domain.Account) error {
		cur, err := s.lockPending(ctx, tx, p.ID)
		if err != nil {
			return err
		}
		if outcome = resolvedError(cur); outcome != nil {
			return nil
		}
		accts[p.FromAccountID].ReleaseReservation(cur.Amount)
		return s.resolve(ctx, tx, cur, domain.PendingStatusRejected, reason, nil, s.now())
	})
	if err != nil {
		return err
	}
	if outcome != nil {
		return outcome
	}

	s.metrics.IncOfflineRejected(reason)
	s.log.Warn().Err(cause).
		Str("pending_id", p.ID.String()).
		Str("reason", reason).
		Msg("offline payment rejected")
	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      p.FromAccountID.String(),
		Action:     domain.AuditActionOfflineRejected,
		EntityType: "pending_offline_transaction",
		EntityID:   p.ID.String(),
		Details:    auditDetails(map[string]any{"reason": reason}),
	})
	return cause
}

func (s *OfflineServiceImpl) lockPending(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PendingOfflineTransaction, error) {
	p, err := s.pendings.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if p == nil {
		return nil, apperror.ErrNotFound("pending transaction")
	}
	return p, nil
}

func (s *OfflineServiceImpl) resolve(ctx context.Context, tx pgx.Tx, p *domain.PendingOfflineTransaction, status domain.PendingStatus, reason string, txID *uuid.UUID, now time.Time) error {
	p.Status = status
	p.RejectReason = reason
	p.CommittedTxID = txID
	p.ResolvedAt = &now
	if err := s.pendings.Resolve(ctx, tx, p); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("resolve pending: %w", err))
	}
	return nil
}

func (s *OfflineServiceImpl) GetPending(ctx context.Context, pendingID uuid.UUID) (*domain.PendingOfflineTransaction, error) {
	p, err := s.pendings.GetByID(ctx, pendingID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if p == nil {
		return nil, apperror.ErrNotFound("pending transaction")
	}
	return p, nil
}

func (s *OfflineServiceImpl) ListPending(ctx context.Context, accountID uuid.UUID, status *domain.PendingStatus) ([]domain.PendingOfflineTransaction, error) {
	if _, err := s.ledger.Account(ctx, accountID); err != nil {
		return nil, err
	}
	list, err := s.pendings.ListByAccount(ctx, accountID, status)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return list, nil
}

// resolvedError maps a terminal pending record to the error a later commit
// attempt receives.
func resolvedError(p *domain.PendingOfflineTransaction) error {
	switch p.Status {
	case domain.PendingStatusCommitted:
		return apperror.ErrDoubleSpendDetected(p.Nullifier)
	case domain.PendingStatusRejected:
		return apperror.ErrPendingRejected(p.RejectReason)
	}
	return nil
}

// usable rejects accounts that may not be debited.
func usable(a *domain.Account) error {
	switch a.Status {
	case domain.AccountStatusFrozen:
		return apperror.ErrFrozen()
	case domain.AccountStatusRevoked:
		return apperror.ErrRevoked()
	}
	return nil
}

// remoteTarget normalizes a target FI: empty means local.
func remoteTarget(targetFI, nodeID string) string {
	if targetFI == nodeID {
		return ""
	}
	return targetFI
}
