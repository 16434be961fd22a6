package service

import (
	"context"
	"time"

	"cbdc-settlement/config"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/metrics"

	"github.com/google/uuid"
)

// ComplianceServiceImpl implements ports.ComplianceService.
//
// Projections count outstanding offline reservations as already spent.
// Committing a reservation moves its amount from the reservation into the
// counters and leaves every projection unchanged.
type ComplianceServiceImpl struct {
	ledger  *Ledger
	limits  config.ComplianceConfig
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewComplianceService(ledger *Ledger, limits config.ComplianceConfig, m *metrics.Metrics) *ComplianceServiceImpl {
	return &ComplianceServiceImpl{ledger: ledger, limits: limits, metrics: m, now: utcNow}
}

func (s *ComplianceServiceImpl) dailyLimit(a *domain.Account) int64 {
	if a.DailyLimit > 0 {
		return a.DailyLimit
	}
	return s.limits.DailyLimit
}

// Evaluate checks amount against every limit of a. It resets elapsed windows
// on a first, so callers pass an account they hold locked or a private copy.
func (s *ComplianceServiceImpl) Evaluate(a *domain.Account, amount int64, isOffline bool, now time.Time) domain.ComplianceResult {
	a.Compliance.ResetIfWindowElapsed(now)
	c := a.Compliance
	var v []domain.Violation

	check := func(limit string, ceiling, current, projected int64) {
		if ceiling > 0 && projected > ceiling {
			v = append(v, domain.Violation{Limit: limit, Max: ceiling, Current: current, Projected: projected})
		}
	}

	check(domain.LimitSingleTx, s.limits.SingleTxLimit, 0, amount)

	daily := c.DailySpent + a.ReservedOfflineBalance
	check(domain.LimitDaily, s.dailyLimit(a), daily, daily+amount)

	monthly := c.MonthlySpent + a.ReservedOfflineBalance
	check(domain.LimitMonthly, s.limits.MonthlyLimit, monthly, monthly+amount)

	if isOffline {
		check(domain.LimitOfflineTx, s.limits.OfflineTxLimit, 0, amount)
		count := int64(c.OfflineTxCount + a.ReservedOfflineCount)
		check(domain.LimitOfflineDailyCount, int64(s.limits.OfflineDailyCount), count, count+1)
	}
	if a.IsSubWallet() {
		check(domain.LimitIoTDevice, s.limits.IoTDeviceLimit, 0, amount)
	}

	return domain.ComplianceResult{Compliant: len(v) == 0, Violations: v}
}

// Enforce evaluates and converts a failed result into ErrComplianceViolation.
func (s *ComplianceServiceImpl) Enforce(a *domain.Account, amount int64, isOffline bool, now time.Time) error {
	res := s.Evaluate(a, amount, isOffline, now)
	if res.Compliant {
		return nil
	}
	for _, v := range res.Violations {
		s.metrics.IncComplianceViolation(v.Limit)
	}
	return apperror.ErrComplianceViolation(res.Violations)
}

// Record adds a committed spend to a locked account's counters.
func (s *ComplianceServiceImpl) Record(a *domain.Account, amount int64, isOffline bool, now time.Time) {
	a.Compliance.ResetIfWindowElapsed(now)
	a.Compliance.Record(amount, isOffline)
}

// Claim is the compliance snapshot embedded in a proof, taken before the
// spend it accompanies is reserved.
func (s *ComplianceServiceImpl) Claim(a *domain.Account, isOffline bool, now time.Time) domain.ComplianceClaim {
	a.Compliance.ResetIfWindowElapsed(now)
	claim := domain.ComplianceClaim{
		DailySpent:    a.Compliance.DailySpent + a.ReservedOfflineBalance,
		DailyLimit:    s.dailyLimit(a),
		SingleTxLimit: s.limits.SingleTxLimit,
	}
	if isOffline {
		claim.OfflineTxLimit = s.limits.OfflineTxLimit
	}
	return claim
}

func (s *ComplianceServiceImpl) CheckTransaction(ctx context.Context, accountID uuid.UUID, amount int64, isOffline bool) (*domain.ComplianceResult, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	a, err := s.ledger.Account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	res := s.Evaluate(a, amount, isOffline, s.now())
	return &res, nil
}

// RecordSpend must only follow a committed transaction.
func (s *ComplianceServiceImpl) RecordSpend(ctx context.Context, accountID uuid.UUID, amount int64, isOffline bool) error {
	_, err := s.ledger.UpdateAccount(ctx, accountID, func(a *domain.Account) error {
		s.Record(a, amount, isOffline, s.now())
		return nil
	})
	return err
}

func (s *ComplianceServiceImpl) ResetIfWindowElapsed(ctx context.Context, accountID uuid.UUID) error {
	a, err := s.ledger.Account(ctx, accountID)
	if err != nil {
		return err
	}
	now := s.now()
	if !a.Compliance.ResetIfWindowElapsed(now) {
		return nil
	}
	_, err = s.ledger.UpdateAccount(ctx, accountID, func(a *domain.Account) error {
		a.Compliance.ResetIfWindowElapsed(now)
		return nil
	})
	return err
}

func (s *ComplianceServiceImpl) GetStatus(ctx context.Context, accountID uuid.UUID) (*domain.ComplianceStatus, error) {
	a, err := s.ledger.Account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	a.Compliance.ResetIfWindowElapsed(s.now())
	c := a.Compliance

	st := &domain.ComplianceStatus{
		AccountID:        a.ID.String(),
		Counter:          c,
		DailyLimit:       s.dailyLimit(a),
		MonthlyLimit:     s.limits.MonthlyLimit,
		DailyRemaining:   max(0, s.dailyLimit(a)-c.DailySpent-a.ReservedOfflineBalance),
		MonthlyRemaining: max(0, s.limits.MonthlyLimit-c.MonthlySpent-a.ReservedOfflineBalance),
		OfflineRemaining: max(0, s.limits.OfflineDailyCount-c.OfflineTxCount-a.ReservedOfflineCount),
	}
	return st, nil
}
