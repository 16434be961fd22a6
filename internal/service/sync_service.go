package service

import (
	"context"
	"fmt"
	"time"

	"cbdc-settlement/config"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Sync tiers, used as metric labels and lock keys.
const (
	tierDevice      = "device"
	tierWallet      = "wallet"
	tierCentralBank = "central_bank"
)

// SyncServiceImpl implements ports.SyncService on an FI node. It propagates
// records upward one hop at a time: device reservations into the ledger,
// sub-wallet spends onto the parent wallet's counters, and settled
// transactions to the central bank. Each hop is idempotent on Transaction.ID.
type SyncServiceImpl struct {
	offline    *OfflineServiceImpl
	ledger     *Ledger
	treasury   *Treasury
	pendings   ports.PendingRepository
	txns       ports.TransactionRepository
	compliance *ComplianceServiceImpl
	cb         ports.CentralBankClient
	locker     ports.SyncLocker
	audit      ports.AuditService
	metrics    *metrics.Metrics
	cfg        config.SyncConfig
	nodeID     string
	log        zerolog.Logger
	now        func() time.Time
}

func NewSyncService(
	offline *OfflineServiceImpl,
	ledger *Ledger,
	treasury *Treasury,
	pendings ports.PendingRepository,
	txns ports.TransactionRepository,
	compliance *ComplianceServiceImpl,
	cb ports.CentralBankClient,
	locker ports.SyncLocker,
	audit ports.AuditService,
	m *metrics.Metrics,
	cfg config.SyncConfig,
	nodeID string,
	log zerolog.Logger,
) *SyncServiceImpl {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &SyncServiceImpl{
		offline:    offline,
		ledger:     ledger,
		treasury:   treasury,
		pendings:   pendings,
		txns:       txns,
		compliance: compliance,
		cb:         cb,
		locker:     locker,
		audit:      audit,
		metrics:    m,
		cfg:        cfg,
		nodeID:     nodeID,
		log:        log,
		now:        utcNow,
	}
}

// SyncAccount commits the account's pending offline records and then runs
// the upper hops once. It fails with SyncInProgress if another pass holds
// the account.
func (s *SyncServiceImpl) SyncAccount(ctx context.Context, accountID uuid.UUID) (*ports.SyncReport, error) {
	if _, err := s.ledger.Account(ctx, accountID); err != nil {
		return nil, err
	}
	unlock, ok, err := s.locker.TryLock(ctx, "account:"+accountID.String(), s.cfg.LockTTL)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("acquire sync lock: %w", err))
	}
	if !ok {
		return nil, apperror.ErrSyncInProgress()
	}
	report, err := s.syncDevice(ctx, accountID)
	unlock()
	if err != nil {
		return report, err
	}

	report.Add(s.escalate(ctx))
	return report, nil
}

// SyncAll runs the device hop for every account with pending records, at
// most cfg.Concurrency at a time, then the upper hops. One account's failure
// never stops the others.
func (s *SyncServiceImpl) SyncAll(ctx context.Context) (*ports.SyncReport, error) {
	ids, err := s.pendings.ListAccountsWithPending(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	reports := make([]*ports.SyncReport, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			unlock, ok, err := s.locker.TryLock(gctx, "account:"+id.String(), s.cfg.LockTTL)
			if err != nil || !ok {
				reports[i] = &ports.SyncReport{SkippedLocked: 1}
				return nil
			}
			defer unlock()

			r, err := s.syncDevice(gctx, id)
			if err != nil {
				s.log.Warn().Err(err).Str("account_id", id.String()).Msg("device sync failed")
			}
			reports[i] = r
			return nil
		})
	}
	_ = g.Wait()

	total := &ports.SyncReport{}
	for _, r := range reports {
		total.Add(r)
	}
	total.Add(s.escalate(ctx))
	return total, nil
}

// syncDevice is hop 1: commit every pending record of one account.
func (s *SyncServiceImpl) syncDevice(ctx context.Context, accountID uuid.UUID) (*ports.SyncReport, error) {
	defer s.metrics.ObserveSyncPass(tierDevice, time.Now())
	report := &ports.SyncReport{}

	status := domain.PendingStatusPending
	list, err := s.pendings.ListByAccount(ctx, accountID, &status)
	if err != nil {
		return report, apperror.ErrDatabaseError(err)
	}

	for _, p := range list {
		if ctx.Err() != nil {
			report.Deferred++
			continue
		}
		_, err := s.offline.Commit(ctx, p.ID)
		switch {
		case err == nil:
			report.Committed++
			s.metrics.IncSyncRecord(tierDevice, "committed")
		case apperror.IsDoubleSpend(err):
			report.DoubleSpends++
			s.metrics.IncSyncRecord(tierDevice, "double_spend")
		case apperror.IsTransient(err):
			report.Deferred++
			s.metrics.IncSyncRecord(tierDevice, "deferred")
			s.log.Warn().Err(err).Str("pending_id", p.ID.String()).Msg("commit deferred")
		default:
			report.Rejected++
			s.metrics.IncSyncRecord(tierDevice, "rejected")
		}
	}
	return report, nil
}

// escalate runs hops 2 and 3. Each is guarded by its own lock so replicas
// do not report the same batch twice at once.
func (s *SyncServiceImpl) escalate(ctx context.Context) *ports.SyncReport {
	report := &ports.SyncReport{}
	s.guarded(ctx, "hop:"+tierWallet, report, func() error { return s.rollUp(ctx, report) })
	s.guarded(ctx, "hop:"+tierCentralBank, report, func() error { return s.reportToCB(ctx, report) })
	return report
}

func (s *SyncServiceImpl) guarded(ctx context.Context, key string, report *ports.SyncReport, fn func() error) {
	unlock, ok, err := s.locker.TryLock(ctx, key, s.cfg.LockTTL)
	if err != nil || !ok {
		report.SkippedLocked++
		return
	}
	defer unlock()
	if err := fn(); err != nil {
		s.log.Warn().Err(err).Str("hop", key).Msg("sync hop failed")
	}
}

// rollUp is hop 2: sub-wallet spends are added to the parent wallet's
// compliance counters, then flagged synced_to_fi.
func (s *SyncServiceImpl) rollUp(ctx context.Context, report *ports.SyncReport) error {
	defer s.metrics.ObserveSyncPass(tierWallet, time.Now())
	list, err := s.txns.ListUnsynced(ctx, ports.UnsyncedQuery{Missing: domain.SyncFlagSyncedToFI, Limit: s.cfg.BatchSize})
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}

	for _, t := range list {
		if err := s.rollUpOne(ctx, t); err != nil {
			report.Deferred++
			s.metrics.IncSyncRecord(tierWallet, "deferred")
			s.log.Warn().Err(err).Str("tx_id", t.ID.String()).Msg("wallet roll-up deferred")
			continue
		}
		report.RolledUp++
		s.metrics.IncSyncRecord(tierWallet, "rolled_up")
	}
	return nil
}

func (s *SyncServiceImpl) rollUpOne(ctx context.Context, t domain.Transaction) error {
	if t.FromAccountID == nil {
		return s.ledger.InTx(ctx, func(tx pgx.Tx) error {
			return s.txns.MarkFlags(ctx, tx, t.ID, domain.SyncFlagSyncedToFI)
		})
	}
	sub, err := s.ledger.Account(ctx, *t.FromAccountID)
	if err != nil {
		return err
	}
	if sub.OwnerAccountID == nil {
		return s.ledger.InTx(ctx, func(tx pgx.Tx) error {
			return s.txns.MarkFlags(ctx, tx, t.ID, domain.SyncFlagSyncedToFI)
		})
	}

	parentID := *sub.OwnerAccountID
	return s.ledger.WithAccounts(ctx, []uuid.UUID{parentID}, func(tx pgx.Tx, accts map[uuid.UUID]*domain.Account) error {
		cur, err := s.txns.GetByIDForUpdate(ctx, tx, t.ID)
		if err != nil {
			return apperror.ErrDatabaseError(err)
		}
		if cur == nil || cur.SyncedToFI {
			return nil
		}
		if cur.IsSpend() {
			s.compliance.Record(accts[parentID], cur.Amount, cur.PendingID != nil, s.now())
		}
		return s.txns.MarkFlags(ctx, tx, cur.ID, domain.SyncFlagSyncedToFI)
	})
}

// reportToCB is hop 3: report a batch of FI-synced transactions and apply
// the central bank's per-transaction verdicts.
func (s *SyncServiceImpl) reportToCB(ctx context.Context, report *ports.SyncReport) error {
	if s.cb == nil {
		return nil
	}
	defer s.metrics.ObserveSyncPass(tierCentralBank, time.Now())

	list, err := s.txns.ListUnsynced(ctx, ports.UnsyncedQuery{
		Missing:  domain.SyncFlagSyncedToCB,
		Requires: []domain.SyncFlag{domain.SyncFlagSyncedToFI},
		Limit:    s.cfg.BatchSize,
	})
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if len(list) == 0 {
		return nil
	}

	acks, err := s.cb.ReportSettlements(ctx, domain.SettlementBatch{SourceFI: s.nodeID, Transactions: list})
	if err != nil {
		report.Deferred += len(list)
		s.metrics.IncSyncRecord(tierCentralBank, "deferred")
		return err
	}

	byID := make(map[uuid.UUID]domain.Transaction, len(list))
	for _, t := range list {
		byID[t.ID] = t
	}
	for _, ack := range acks {
		t, ok := byID[ack.TransactionID]
		if !ok {
			continue
		}
		delete(byID, ack.TransactionID)

		if ack.Confirmed() {
			flags := []domain.SyncFlag{domain.SyncFlagSyncedToCB}
			if t.IsCrossFI() {
				flags = append(flags, domain.SyncFlagSettled)
			}
			if err := s.ledger.InTx(ctx, func(tx pgx.Tx) error {
				return s.txns.MarkFlags(ctx, tx, t.ID, flags...)
			}); err != nil {
				report.Deferred++
				continue
			}
			report.ReportedToCB++
			s.metrics.IncSyncRecord(tierCentralBank, string(ack.Outcome))
			continue
		}

		if err := s.applyRejection(ctx, t, ack); err != nil {
			report.Deferred++
			s.log.Error().Err(err).Str("tx_id", t.ID.String()).Msg("apply central bank rejection")
			continue
		}
		report.RejectedByCB++
		s.metrics.IncSyncRecord(tierCentralBank, "rejected")
	}
	// Transactions the central bank did not answer stay unsynced.
	report.Deferred += len(byID)
	return nil
}

// applyRejection marks t rejected. A rejected cross-FI transfer never reached
// its receiver, so its amount comes back to the sender.
func (s *SyncServiceImpl) applyRejection(ctx context.Context, t domain.Transaction, ack domain.SettlementAck) error {
	reason := ack.Reason
	if reason == "" {
		reason = domain.RejectReasonRemote
	}

	var ids []uuid.UUID
	refundTo := uuid.Nil
	if t.IsCrossFI() && t.FromAccountID != nil {
		var err error
		if refundTo, err = s.ledger.creditTarget(ctx, *t.FromAccountID); err != nil {
			return err
		}
		if refundTo != uuid.Nil {
			ids = append(ids, refundTo)
		}
	}

	err := s.ledger.WithAccounts(ctx, ids, func(tx pgx.Tx, accts map[uuid.UUID]*domain.Account) error {
		var fi *domain.FIRecord
		if t.IsCrossFI() {
			var err error
			if fi, err = s.treasury.Lock(ctx, tx); err != nil {
				return err
			}
		}
		cur, err := s.txns.GetByIDForUpdate(ctx, tx, t.ID)
		if err != nil {
			return apperror.ErrDatabaseError(err)
		}
		if cur == nil || cur.Rejected {
			return nil
		}
		if err := s.txns.MarkRejected(ctx, tx, cur.ID, reason); err != nil {
			return apperror.ErrDatabaseError(err)
		}
		if fi == nil {
			return nil
		}

		credited := bookInboundCredit(accts[refundTo], fi, cur.Amount)
		refund := &domain.Transaction{
			ID:          domain.RefundTxID(cur.ID),
			ToAccountID: credited,
			Amount:      cur.Amount,
			Kind:        domain.TransactionKindCredit,
			SourceFI:    cur.TargetFI,
			TargetFI:    s.nodeID,
			Settled:     true,
			SyncedToFI:  true,
			SyncedToCB:  true,
			Timestamp:   s.now(),
		}
		if _, err := s.txns.Create(ctx, tx, refund); err != nil {
			return apperror.ErrDatabaseError(err)
		}
		return s.treasury.Save(ctx, tx, fi)
	})
	if err != nil {
		return err
	}

	s.log.Warn().
		Str("tx_id", t.ID.String()).
		Str("code", ack.Code).
		Str("reason", reason).
		Bool("refunded", t.IsCrossFI()).
		Msg("central bank rejected transaction")
	severity := domain.AuditSeverityInfo
	if ack.Code == apperror.CodeDoubleSpend {
		severity = domain.AuditSeveritySecurity
	}
	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      "central_bank",
		Action:     domain.AuditActionSettlementReject,
		Severity:   severity,
		EntityType: "transaction",
		EntityID:   t.ID.String(),
		Details:    auditDetails(map[string]any{"code": ack.Code, "reason": reason}),
	})
	return nil
}

// Run syncs every interval until ctx is done.
func (s *SyncServiceImpl) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", interval).Msg("background sync started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("background sync stopped")
			return
		case <-ticker.C:
			report, err := s.SyncAll(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("sync pass failed")
				continue
			}
			if *report != (ports.SyncReport{}) {
				s.log.Info().Interface("report", report).Msg("sync pass finished")
			}
		}
	}
}
