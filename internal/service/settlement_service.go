package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const ackCacheTTL = 24 * time.Hour

// SettlementServiceImpl implements ports.SettlementService: the FI endpoint
// the central bank delivers cross-FI transfers, allocations and reversals to.
// Delivery is at-least-once, so every path is idempotent on Transaction.ID.
type SettlementServiceImpl struct {
	ledger     *Ledger
	treasury   *Treasury
	txns       ports.TransactionRepository
	nullifiers ports.NullifierService
	proofs     ports.ProofService
	resolver   ports.AccountResolver
	cache      ports.IdempotencyCache
	audit      ports.AuditService
	nodeID     string
	log        zerolog.Logger
	now        func() time.Time
}

// NewSettlementService creates the receiver. cache may be nil.
func NewSettlementService(
	ledger *Ledger,
	treasury *Treasury,
	txns ports.TransactionRepository,
	nullifiers ports.NullifierService,
	proofs ports.ProofService,
	resolver ports.AccountResolver,
	cache ports.IdempotencyCache,
	audit ports.AuditService,
	nodeID string,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		ledger:     ledger,
		treasury:   treasury,
		txns:       txns,
		nullifiers: nullifiers,
		proofs:     proofs,
		resolver:   resolver,
		cache:      cache,
		audit:      audit,
		nodeID:     nodeID,
		log:        log,
		now:        utcNow,
	}
}

// Receive books one delivered transaction. A returned error means the
// delivery may be retried; a rejected ack is final.
func (s *SettlementServiceImpl) Receive(ctx context.Context, t *domain.Transaction) (*domain.SettlementAck, error) {
	if t == nil || t.ID == uuid.Nil {
		return nil, apperror.Validation("transaction id is required")
	}
	if ack := s.cachedAck(ctx, t.ID); ack != nil {
		return ack, nil
	}

	ack, err := s.receive(ctx, t)
	if err != nil {
		return nil, err
	}
	s.storeAck(ctx, ack)
	return ack, nil
}

func (s *SettlementServiceImpl) receive(ctx context.Context, t *domain.Transaction) (*domain.SettlementAck, error) {
	if t.TargetFI != s.nodeID {
		return rejectedAck(t.ID, apperror.CodeInvalidReceiver, "transaction is addressed to "+t.TargetFI), nil
	}
	if t.Amount <= 0 {
		return rejectedAck(t.ID, apperror.CodeInvalidAmount, "amount must be positive"), nil
	}

	switch {
	case t.FromAccountID == nil && t.ToAccountID == uuid.Nil:
		return s.receiveAllocation(ctx, t)
	case t.FromAccountID == nil:
		return s.receiveReversal(ctx, t)
	case t.IsCrossFI():
		return s.receiveTransfer(ctx, t)
	}
	return rejectedAck(t.ID, apperror.CodeInvalidReceiver, fmt.Sprintf("unexpected kind %s", t.Kind)), nil
}

// receiveAllocation books central bank issuance into the treasury.
func (s *SettlementServiceImpl) receiveAllocation(ctx context.Context, t *domain.Transaction) (*domain.SettlementAck, error) {
	var ack *domain.SettlementAck
	err := s.ledger.InTx(ctx, func(tx pgx.Tx) error {
		fi, err := s.treasury.Lock(ctx, tx)
		if err != nil {
			return err
		}
		inserted, err := s.txns.Create(ctx, tx, delivered(t))
		if err != nil {
			return apperror.ErrDatabaseError(err)
		}
		if !inserted {
			ack = &domain.SettlementAck{TransactionID: t.ID, Outcome: domain.SettlementDuplicate}
			return nil
		}
		fi.AllocatedFunds += t.Amount
		fi.AvailableBalance += t.Amount
		ack = &domain.SettlementAck{TransactionID: t.ID, Outcome: domain.SettlementAccepted}
		return s.treasury.Save(ctx, tx, fi)
	})
	if err != nil {
		return nil, err
	}
	if ack.Outcome == domain.SettlementAccepted {
		s.log.Info().Str("tx_id", t.ID.String()).Int64("amount", t.Amount).Msg("allocation received")
		s.audit.Log(ctx, &domain.AuditLog{
			Actor:      t.SourceFI,
			Action:     domain.AuditActionAllocateFI,
			EntityType: "transaction",
			EntityID:   t.ID.String(),
			Details:    auditDetails(map[string]any{"amount": t.Amount}),
		})
	}
	return ack, nil
}

// receiveReversal returns a bounced cross-FI transfer to its sender.
func (s *SettlementServiceImpl) receiveReversal(ctx context.Context, t *domain.Transaction) (*domain.SettlementAck, error) {
	target, err := s.ledger.creditTarget(ctx, t.ToAccountID)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if target != uuid.Nil {
		ids = append(ids, target)
	}

	var ack *domain.SettlementAck
	err = s.ledger.WithAccounts(ctx, ids, func(tx pgx.Tx, accts map[uuid.UUID]*domain.Account) error {
		fi, err := s.treasury.Lock(ctx, tx)
		if err != nil {
			return err
		}
		row := delivered(t)
		row.ToAccountID = uuid.Nil
		if a := accts[target]; a != nil && a.Status != domain.AccountStatusRevoked {
			row.ToAccountID = a.ID
		}
		inserted, err := s.txns.Create(ctx, tx, row)
		if err != nil {
			return apperror.ErrDatabaseError(err)
		}
		if !inserted {
			ack = &domain.SettlementAck{TransactionID: t.ID, Outcome: domain.SettlementDuplicate}
			return nil
		}
		bookInboundCredit(accts[target], fi, t.Amount)
		ack = &domain.SettlementAck{TransactionID: t.ID, Outcome: domain.SettlementAccepted}
		return s.treasury.Save(ctx, tx, fi)
	})
	if err != nil {
		return nil, err
	}
	if ack.Outcome == domain.SettlementAccepted {
		s.log.Info().Str("tx_id", t.ID.String()).Str("to", t.ToAccountID.String()).Msg("reversal credited")
	}
	return ack, nil
}

// receiveTransfer admits a cross-FI transfer from another FI's account.
func (s *SettlementServiceImpl) receiveTransfer(ctx context.Context, t *domain.Transaction) (*domain.SettlementAck, error) {
	recv, err := s.resolver.ResolveAccount(ctx, t.ToAccountID, "")
	if err != nil {
		return nil, err
	}
	if !recv.CanReceive() {
		return rejectedAck(t.ID, apperror.CodeInvalidReceiver, receiverError(recv).Error()), nil
	}

	if t.Proof == nil {
		return s.rejectProof(ctx, t, fmt.Errorf("%w: missing", ErrProofMalformed)), nil
	}
	identity := domain.SenderIdentity{AccountID: *t.FromAccountID, PublicKey: t.SenderPublicKey, AcceptStale: true}
	if err := s.proofs.Verify(t.Proof, t.Subject(t.Proof.Counter, t.Proof.Timestamp), identity); err != nil {
		return s.rejectProof(ctx, t, err), nil
	}

	if err := s.nullifiers.Register(ctx, t.Nullifier, *t.FromAccountID, t.ID, t.Amount); err != nil {
		if apperror.IsDoubleSpend(err) {
			s.audit.Log(ctx, &domain.AuditLog{
				Actor:      t.SourceFI,
				Action:     domain.AuditActionDoubleSpend,
				Severity:   domain.AuditSeveritySecurity,
				EntityType: "transaction",
				EntityID:   t.ID.String(),
				Details:    auditDetails(map[string]any{"nullifier": t.Nullifier}),
			})
			return rejectedAck(t.ID, apperror.CodeDoubleSpend, "nullifier already spent"), nil
		}
		return nil, err
	}

	var ack *domain.SettlementAck
	err = s.ledger.WithAccounts(ctx, []uuid.UUID{t.ToAccountID}, func(tx pgx.Tx, accts map[uuid.UUID]*domain.Account) error {
		fi, err := s.treasury.Lock(ctx, tx)
		if err != nil {
			return err
		}
		inserted, err := s.txns.Create(ctx, tx, delivered(t))
		if err != nil {
			return apperror.ErrDatabaseError(err)
		}
		if !inserted {
			ack = &domain.SettlementAck{TransactionID: t.ID, Outcome: domain.SettlementDuplicate}
			return nil
		}
		bookInboundCredit(accts[t.ToAccountID], fi, t.Amount)
		ack = &domain.SettlementAck{TransactionID: t.ID, Outcome: domain.SettlementAccepted}
		return s.treasury.Save(ctx, tx, fi)
	})
	if err != nil {
		return nil, err
	}
	if ack.Outcome == domain.SettlementAccepted {
		s.log.Info().
			Str("tx_id", t.ID.String()).
			Str("source_fi", t.SourceFI).
			Int64("amount", t.Amount).
			Msg("cross-fi transfer received")
	}
	return ack, nil
}

func (s *SettlementServiceImpl) rejectProof(ctx context.Context, t *domain.Transaction, cause error) *domain.SettlementAck {
	s.log.Warn().Err(cause).Str("tx_id", t.ID.String()).Str("source_fi", t.SourceFI).Msg("delivered proof rejected")
	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      t.SourceFI,
		Action:     domain.AuditActionInvalidProof,
		Severity:   domain.AuditSeveritySecurity,
		EntityType: "transaction",
		EntityID:   t.ID.String(),
		Details:    auditDetails(map[string]any{"error": cause.Error()}),
	})
	return rejectedAck(t.ID, apperror.CodeInvalidProof, cause.Error())
}

// ResolveLocal answers a receiver-existence query relayed by the central bank.
func (s *SettlementServiceImpl) ResolveLocal(ctx context.Context, accountID uuid.UUID) (*domain.ResolvedAccount, error) {
	return s.resolver.ResolveAccount(ctx, accountID, "")
}

func (s *SettlementServiceImpl) cachedAck(ctx context.Context, id uuid.UUID) *domain.SettlementAck {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, ackKey(id))
	if err != nil || raw == nil {
		return nil
	}
	var ack domain.SettlementAck
	if err := json.Unmarshal(raw, &ack); err != nil {
		return nil
	}
	if ack.Outcome == domain.SettlementAccepted {
		ack.Outcome = domain.SettlementDuplicate
	}
	return &ack
}

func (s *SettlementServiceImpl) storeAck(ctx context.Context, ack *domain.SettlementAck) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, ackKey(ack.TransactionID), mustJSON(ack), ackCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("tx_id", ack.TransactionID.String()).Msg("cache settlement ack")
	}
}

func ackKey(id uuid.UUID) string {
	return "ack:" + id.String()
}

// delivered is the local copy of a delivered transaction. Every hop above
// this FI has already seen it.
func delivered(t *domain.Transaction) *domain.Transaction {
	row := *t
	row.Settled = true
	row.SyncedToFI = true
	row.SyncedToCB = true
	row.Rejected = false
	row.RejectReason = ""
	return &row
}

func rejectedAck(id uuid.UUID, code, reason string) *domain.SettlementAck {
	return &domain.SettlementAck{TransactionID: id, Outcome: domain.SettlementRejected, Code: code, Reason: reason}
}
