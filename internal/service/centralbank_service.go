package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const tierDelivery = "delivery"

// CentralBankServiceImpl implements ports.CentralBankService. The central
// bank tracks each FI's issued funds (AllocatedFunds) and its current
// holdings (AvailableBalance); cross-FI settlement moves holdings between FIs
// and never changes the money supply.
type CentralBankServiceImpl struct {
	transactor  ports.DBTransactor
	fis         ports.FIRepository
	txns        ports.TransactionRepository
	nullifiers  ports.NullifierService
	proofs      ports.ProofService
	forwarder   ports.SettlementForwarder
	encSvc      ports.EncryptionService
	audit       ports.AuditService
	metrics     *metrics.Metrics
	concurrency int
	batchSize   int
	nodeID      string
	log         zerolog.Logger
	now         func() time.Time
}

func NewCentralBankService(
	transactor ports.DBTransactor,
	fis ports.FIRepository,
	txns ports.TransactionRepository,
	nullifiers ports.NullifierService,
	proofs ports.ProofService,
	forwarder ports.SettlementForwarder,
	encSvc ports.EncryptionService,
	audit ports.AuditService,
	m *metrics.Metrics,
	concurrency, batchSize int,
	nodeID string,
	log zerolog.Logger,
) *CentralBankServiceImpl {
	if concurrency <= 0 {
		concurrency = 1
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &CentralBankServiceImpl{
		transactor:  transactor,
		fis:         fis,
		txns:        txns,
		nullifiers:  nullifiers,
		proofs:      proofs,
		forwarder:   forwarder,
		encSvc:      encSvc,
		audit:       audit,
		metrics:     m,
		concurrency: concurrency,
		batchSize:   batchSize,
		nodeID:      nodeID,
		log:         log,
		now:         utcNow,
	}
}

// RegisterFI onboards a financial institution. The shared secret is stored
// encrypted and authenticates the FI's signed requests.
func (s *CentralBankServiceImpl) RegisterFI(ctx context.Context, req ports.RegisterFIRequest) (*domain.FIRecord, error) {
	id := strings.TrimSpace(req.ID)
	switch {
	case id == "":
		return nil, apperror.Validation("id is required")
	case id == s.nodeID:
		return nil, apperror.Validation("id is reserved for the central bank")
	case strings.TrimSpace(req.Endpoint) == "":
		return nil, apperror.Validation("endpoint is required")
	case len(req.SharedSecret) < 32:
		return nil, apperror.Validation("shared_secret must be at least 32 characters")
	}

	existing, err := s.fis.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if existing != nil {
		return nil, apperror.Validation(fmt.Sprintf("FI %s is already registered", id))
	}

	sealed, err := s.encSvc.Encrypt(req.SharedSecret)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}
	now := s.now()
	fi := &domain.FIRecord{
		ID:              id,
		Name:            req.Name,
		Endpoint:        strings.TrimRight(req.Endpoint, "/"),
		PublicKey:       req.PublicKey,
		SharedSecretEnc: sealed,
		Status:          domain.FIStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.fis.Create(ctx, fi); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create FI: %w", err))
	}

	s.log.Info().Str("fi_id", id).Str("endpoint", fi.Endpoint).Msg("FI registered")
	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      s.nodeID,
		Action:     domain.AuditActionRegisterFI,
		EntityType: "fi",
		EntityID:   id,
		Details:    auditDetails(map[string]any{"name": fi.Name, "endpoint": fi.Endpoint}),
	})
	return fi, nil
}

func (s *CentralBankServiceImpl) GetFI(ctx context.Context, id string) (*domain.FIRecord, error) {
	fi, err := s.fis.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if fi == nil {
		return nil, apperror.ErrNotFound("FI")
	}
	return fi, nil
}

func (s *CentralBankServiceImpl) ListFIs(ctx context.Context) ([]domain.FIRecord, error) {
	list, err := s.fis.List(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return list, nil
}

func (s *CentralBankServiceImpl) SetFIStatus(ctx context.Context, id string, status domain.FIStatus) (*domain.FIRecord, error) {
	if status != domain.FIStatusActive && status != domain.FIStatusSuspended {
		return nil, apperror.Validation(fmt.Sprintf("invalid status %q", status))
	}
	var out *domain.FIRecord
	err := inTx(ctx, s.transactor, func(tx pgx.Tx) error {
		locked, err := s.lockFIs(ctx, tx, id)
		if err != nil {
			return err
		}
		out = locked[id]
		out.Status = status
		return s.saveFIs(ctx, tx, out)
	})
	if err != nil {
		return nil, err
	}

	s.log.Warn().Str("fi_id", id).Str("status", string(status)).Msg("FI status changed")
	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      s.nodeID,
		Action:     domain.AuditActionStatusChange,
		EntityType: "fi",
		EntityID:   id,
		Details:    auditDetails(map[string]any{"status": status}),
	})
	return out, nil
}

// AllocateToFI issues new money to an FI. The FI books it when the delivery
// loop forwards the credit.
func (s *CentralBankServiceImpl) AllocateToFI(ctx context.Context, fiID string, amount int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	var out *domain.Transaction
	err := inTx(ctx, s.transactor, func(tx pgx.Tx) error {
		locked, err := s.lockFIs(ctx, tx, fiID)
		if err != nil {
			return err
		}
		fi := locked[fiID]
		if !fi.IsActive() {
			return apperror.ErrFISuspended()
		}
		fi.AllocatedFunds += amount
		fi.AvailableBalance += amount

		out = &domain.Transaction{
			ID:          uuid.New(),
			ToAccountID: uuid.Nil,
			Amount:      amount,
			Kind:        domain.TransactionKindCredit,
			SourceFI:    s.nodeID,
			TargetFI:    fi.ID,
			SyncedToFI:  true,
			SyncedToCB:  true,
			Timestamp:   s.now(),
		}
		if _, err := s.txns.Create(ctx, tx, out); err != nil {
			return apperror.ErrDatabaseError(err)
		}
		return s.saveFIs(ctx, tx, fi)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("fi_id", fiID).Int64("amount", amount).Str("tx_id", out.ID.String()).Msg("funds allocated to FI")
	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      s.nodeID,
		Action:     domain.AuditActionAllocateFI,
		EntityType: "fi",
		EntityID:   fiID,
		Details:    auditDetails(map[string]any{"amount": amount, "tx_id": out.ID}),
	})
	return out, nil
}

// AdmitSettlements is the central bank's admission point for transactions an
// FI reports. Each transaction gets its own ack; an infrastructure failure
// stops the batch and leaves the rest unanswered so the FI retries them.
func (s *CentralBankServiceImpl) AdmitSettlements(ctx context.Context, batch domain.SettlementBatch) ([]domain.SettlementAck, error) {
	src, err := s.fis.GetByID(ctx, batch.SourceFI)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if src == nil {
		return nil, apperror.ErrInvalidNodeID()
	}
	if !src.IsActive() {
		return nil, apperror.ErrFISuspended()
	}

	acks := make([]domain.SettlementAck, 0, len(batch.Transactions))
	for i := range batch.Transactions {
		t := &batch.Transactions[i]
		ack, err := s.admit(ctx, src.ID, t)
		if err != nil {
			s.log.Error().Err(err).Str("tx_id", t.ID.String()).Str("source_fi", src.ID).Msg("settlement admission interrupted")
			break
		}
		s.metrics.IncSyncRecord("admission", string(ack.Outcome))
		acks = append(acks, *ack)
	}
	return acks, nil
}

func (s *CentralBankServiceImpl) admit(ctx context.Context, sourceFI string, t *domain.Transaction) (*domain.SettlementAck, error) {
	if t.SourceFI != sourceFI {
		return rejectedAck(t.ID, "SEC_001", "source FI does not match the reporting node"), nil
	}
	if t.Amount <= 0 {
		return rejectedAck(t.ID, apperror.CodeInvalidAmount, "amount must be positive"), nil
	}

	existing, err := s.txns.GetByID(ctx, t.ID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if existing != nil {
		if existing.Rejected {
			return rejectedAck(t.ID, apperror.CodePendingRejected, existing.RejectReason), nil
		}
		return &domain.SettlementAck{TransactionID: t.ID, Outcome: domain.SettlementDuplicate}, nil
	}

	if t.IsCrossFI() {
		switch target, err := s.fis.GetByID(ctx, t.TargetFI); {
		case err != nil:
			return nil, apperror.ErrDatabaseError(err)
		case target == nil:
			return rejectedAck(t.ID, apperror.CodeInvalidReceiver, "unknown target FI "+t.TargetFI), nil
		case !target.IsActive():
			return rejectedAck(t.ID, apperror.CodeInvalidReceiver, "target FI is suspended"), nil
		case target.ID == sourceFI:
			return rejectedAck(t.ID, apperror.CodeInvalidReceiver, "cross-FI transfer within one FI"), nil
		}
	}

	if t.IsSpend() {
		if ack := s.verifySpend(ctx, t); ack != nil {
			return ack, nil
		}
		if err := s.nullifiers.Register(ctx, t.Nullifier, *t.FromAccountID, t.ID, t.Amount); err != nil {
			if apperror.IsDoubleSpend(err) {
				s.audit.Log(ctx, &domain.AuditLog{
					Actor:      sourceFI,
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
	}

	var ack *domain.SettlementAck
	err = inTx(ctx, s.transactor, func(tx pgx.Tx) error {
		var src, dst *domain.FIRecord
		if t.IsCrossFI() {
			locked, err := s.lockFIs(ctx, tx, t.SourceFI, t.TargetFI)
			if err != nil {
				return err
			}
			src, dst = locked[t.SourceFI], locked[t.TargetFI]
			if src.AvailableBalance < t.Amount {
				ack = rejectedAck(t.ID, apperror.CodeInsufficientBalance, "source FI holdings below amount")
				return nil
			}
		}

		row := *t
		row.SyncedToFI = true
		row.SyncedToCB = true
		row.Settled = !t.IsCrossFI()
		row.Rejected = false
		inserted, err := s.txns.Create(ctx, tx, &row)
		if err != nil {
			return apperror.ErrDatabaseError(err)
		}
		if !inserted {
			ack = &domain.SettlementAck{TransactionID: t.ID, Outcome: domain.SettlementDuplicate}
			return nil
		}
		if src != nil {
			src.AvailableBalance -= t.Amount
			dst.AvailableBalance += t.Amount
			if err := s.saveFIs(ctx, tx, src, dst); err != nil {
				return err
			}
		}
		ack = &domain.SettlementAck{TransactionID: t.ID, Outcome: domain.SettlementAccepted}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}

// verifySpend checks the proof a reported spend carries. It returns a
// rejected ack, or nil if the proof holds.
func (s *CentralBankServiceImpl) verifySpend(ctx context.Context, t *domain.Transaction) *domain.SettlementAck {
	var err error
	switch {
	case t.Nullifier == "":
		err = fmt.Errorf("%w: missing nullifier", ErrProofMalformed)
	case t.Proof == nil:
		err = fmt.Errorf("%w: missing", ErrProofMalformed)
	default:
		identity := domain.SenderIdentity{AccountID: *t.FromAccountID, PublicKey: t.SenderPublicKey, AcceptStale: true}
		err = s.proofs.Verify(t.Proof, t.Subject(t.Proof.Counter, t.Proof.Timestamp), identity)
	}
	if err == nil {
		return nil
	}

	s.log.Warn().Err(err).Str("tx_id", t.ID.String()).Str("source_fi", t.SourceFI).Msg("reported proof rejected")
	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      t.SourceFI,
		Action:     domain.AuditActionInvalidProof,
		Severity:   domain.AuditSeveritySecurity,
		EntityType: "transaction",
		EntityID:   t.ID.String(),
		Details:    auditDetails(map[string]any{"error": err.Error()}),
	})
	return rejectedAck(t.ID, apperror.CodeInvalidProof, err.Error())
}

// ResolveAccount relays a receiver query to the owning FI. Any failure
// resolves to a non-existent account.
func (s *CentralBankServiceImpl) ResolveAccount(ctx context.Context, fiID string, accountID uuid.UUID) (*domain.ResolvedAccount, error) {
	res := &domain.ResolvedAccount{AccountID: accountID.String(), OwnerFI: fiID}
	fi, err := s.fis.GetByID(ctx, fiID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if fi == nil || !fi.IsActive() || s.forwarder == nil {
		return res, nil
	}

	remote, err := s.forwarder.ResolveAccount(ctx, fi, accountID)
	if err != nil {
		s.log.Warn().Err(err).Str("fi_id", fiID).Str("account_id", accountID.String()).Msg("resolve relay failed")
		return res, nil
	}
	if remote == nil {
		return res, nil
	}
	remote.AccountID = accountID.String()
	remote.OwnerFI = fiID
	remote.IsLocal = false
	return remote, nil
}

// DeliverPending forwards every unsettled transaction to its target FI,
// FIs in parallel and each FI's transactions in order.
func (s *CentralBankServiceImpl) DeliverPending(ctx context.Context) (*ports.DeliveryReport, error) {
	defer s.metrics.ObserveSyncPass(tierDelivery, time.Now())
	list, err := s.txns.ListUnsynced(ctx, ports.UnsyncedQuery{Missing: domain.SyncFlagSettled, Limit: s.batchSize})
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	groups := make(map[string][]domain.Transaction)
	var order []string
	for _, t := range list {
		if _, ok := groups[t.TargetFI]; !ok {
			order = append(order, t.TargetFI)
		}
		groups[t.TargetFI] = append(groups[t.TargetFI], t)
	}

	reports := make([]ports.DeliveryReport, len(order))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, fiID := range order {
		g.Go(func() error {
			reports[i] = s.deliverTo(gctx, fiID, groups[fiID])
			return nil
		})
	}
	_ = g.Wait()

	total := &ports.DeliveryReport{}
	for _, r := range reports {
		total.Delivered += r.Delivered
		total.Rejected += r.Rejected
		total.Deferred += r.Deferred
	}
	return total, nil
}

func (s *CentralBankServiceImpl) deliverTo(ctx context.Context, fiID string, list []domain.Transaction) ports.DeliveryReport {
	var r ports.DeliveryReport
	fi, err := s.fis.GetByID(ctx, fiID)
	if err != nil || fi == nil || !fi.IsActive() || s.forwarder == nil {
		r.Deferred = len(list)
		return r
	}

	for i := range list {
		t := &list[i]
		ack, err := s.forwarder.ForwardTransaction(ctx, fi, t)
		if err != nil {
			s.log.Warn().Err(err).Str("fi_id", fiID).Int("remaining", len(list)-i).Msg("delivery deferred")
			r.Deferred += len(list) - i
			s.metrics.IncSyncRecord(tierDelivery, "deferred")
			return r
		}

		if ack.Confirmed() {
			if err := inTx(ctx, s.transactor, func(tx pgx.Tx) error {
				return s.txns.MarkFlags(ctx, tx, t.ID, domain.SyncFlagSettled)
			}); err != nil {
				r.Deferred++
				continue
			}
			r.Delivered++
			s.metrics.IncSyncRecord(tierDelivery, string(ack.Outcome))
			continue
		}

		if err := s.reverse(ctx, t, ack); err != nil {
			s.log.Error().Err(err).Str("tx_id", t.ID.String()).Msg("reverse undeliverable transaction")
			r.Deferred++
			continue
		}
		r.Rejected++
		s.metrics.IncSyncRecord(tierDelivery, "rejected")
	}
	return r
}

// reverse undoes a transaction its target FI refused. A cross-FI transfer
// moves the holdings back and queues a credit to the sender at the source
// FI; an allocation is withdrawn.
func (s *CentralBankServiceImpl) reverse(ctx context.Context, t *domain.Transaction, ack *domain.SettlementAck) error {
	reason := ack.Reason
	if reason == "" {
		reason = "rejected by " + t.TargetFI
	}

	err := inTx(ctx, s.transactor, func(tx pgx.Tx) error {
		var locked map[string]*domain.FIRecord
		var err error
		switch {
		case t.IsCrossFI():
			locked, err = s.lockFIs(ctx, tx, t.SourceFI, t.TargetFI)
		case t.FromAccountID == nil && t.ToAccountID == uuid.Nil:
			locked, err = s.lockFIs(ctx, tx, t.TargetFI)
		}
		if err != nil {
			return err
		}

		cur, err := s.txns.GetByIDForUpdate(ctx, tx, t.ID)
		if err != nil {
			return apperror.ErrDatabaseError(err)
		}
		if cur == nil || cur.Rejected || cur.Settled {
			return nil
		}
		if err := s.txns.MarkRejected(ctx, tx, cur.ID, reason); err != nil {
			return apperror.ErrDatabaseError(err)
		}

		switch {
		case cur.IsCrossFI():
			src, dst := locked[cur.SourceFI], locked[cur.TargetFI]
			dst.AvailableBalance -= cur.Amount
			src.AvailableBalance += cur.Amount
			reversal := &domain.Transaction{
				ID:          domain.RefundTxID(cur.ID),
				ToAccountID: *cur.FromAccountID,
				Amount:      cur.Amount,
				Kind:        domain.TransactionKindCredit,
				SourceFI:    cur.TargetFI,
				TargetFI:    cur.SourceFI,
				SyncedToFI:  true,
				SyncedToCB:  true,
				Timestamp:   s.now(),
			}
			if _, err := s.txns.Create(ctx, tx, reversal); err != nil {
				return apperror.ErrDatabaseError(err)
			}
			return s.saveFIs(ctx, tx, src, dst)
		case locked != nil:
			fi := locked[cur.TargetFI]
			fi.AllocatedFunds -= cur.Amount
			fi.AvailableBalance -= cur.Amount
			return s.saveFIs(ctx, tx, fi)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Warn().
		Str("tx_id", t.ID.String()).
		Str("target_fi", t.TargetFI).
		Str("code", ack.Code).
		Str("reason", reason).
		Msg("delivery rejected, transaction reversed")
	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      t.TargetFI,
		Action:     domain.AuditActionSettlementReject,
		Severity:   domain.AuditSeveritySecurity,
		EntityType: "transaction",
		EntityID:   t.ID.String(),
		Details:    auditDetails(map[string]any{"code": ack.Code, "reason": reason}),
	})
	return nil
}

// RunDelivery delivers every interval until ctx is done.
func (s *CentralBankServiceImpl) RunDelivery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", interval).Msg("settlement delivery started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("settlement delivery stopped")
			return
		case <-ticker.C:
			report, err := s.DeliverPending(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("delivery pass failed")
				continue
			}
			if *report != (ports.DeliveryReport{}) {
				s.log.Info().Interface("report", report).Msg("delivery pass finished")
			}
		}
	}
}

// MoneySupply compares issued funds with the holdings of every FI.
func (s *CentralBankServiceImpl) MoneySupply(ctx context.Context) (*domain.MoneySupply, error) {
	list, err := s.ListFIs(ctx)
	if err != nil {
		return nil, err
	}
	ms := &domain.MoneySupply{FICount: len(list)}
	for _, fi := range list {
		ms.TotalIssued += fi.AllocatedFunds
		ms.TotalAvailable += fi.AvailableBalance
	}
	ms.IsBalanced = ms.TotalIssued == ms.TotalAvailable
	return ms, nil
}

func (s *CentralBankServiceImpl) FISecret(ctx context.Context, fiID string) (string, error) {
	fi, err := s.fis.GetByID(ctx, fiID)
	if err != nil {
		return "", apperror.ErrDatabaseError(err)
	}
	if fi == nil {
		return "", apperror.ErrInvalidNodeID()
	}
	if !fi.IsActive() {
		return "", apperror.ErrFISuspended()
	}
	secret, err := s.encSvc.Decrypt(fi.SharedSecretEnc)
	if err != nil {
		return "", apperror.ErrEncryptionFailure(err)
	}
	return secret, nil
}

// lockFIs row-locks FI records in ascending id order.
func (s *CentralBankServiceImpl) lockFIs(ctx context.Context, tx pgx.Tx, ids ...string) (map[string]*domain.FIRecord, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	out := make(map[string]*domain.FIRecord, len(sorted))
	for _, id := range sorted {
		if _, ok := out[id]; ok {
			continue
		}
		fi, err := s.fis.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return nil, apperror.ErrDatabaseError(err)
		}
		if fi == nil {
			return nil, apperror.ErrNotFound("FI")
		}
		out[id] = fi
	}
	return out, nil
}

func (s *CentralBankServiceImpl) saveFIs(ctx context.Context, tx pgx.Tx, fis ...*domain.FIRecord) error {
	now := s.now()
	for _, fi := range fis {
		fi.UpdatedAt = now
		if err := s.fis.Update(ctx, tx, fi); err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("update FI %s: %w", fi.ID, err))
		}
	}
	return nil
}
