package service

import (
	"context"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"
)

// ReportingServiceImpl implements ports.ReportingService.
type ReportingServiceImpl struct {
	accounts ports.AccountRepository
	txns     ports.TransactionRepository
	treasury *Treasury
}

// NewReportingService creates a new reporting service.
func NewReportingService(accounts ports.AccountRepository, txns ports.TransactionRepository, treasury *Treasury) *ReportingServiceImpl {
	return &ReportingServiceImpl{accounts: accounts, txns: txns, treasury: treasury}
}

// ListTransactions returns a paginated list of transactions.
func (s *ReportingServiceImpl) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.From != nil && params.To != nil && params.From.After(*params.To) {
		return nil, 0, apperror.Validation("from must not be after to")
	}
	params.Page, params.PageSize = normalizePage(params.Page, params.PageSize)

	txns, total, err := s.txns.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(err)
	}
	return txns, total, nil
}

// Conservation checks that every unit the FI ever received is either on an
// account, reserved for an offline payment, or still in the treasury.
func (s *ReportingServiceImpl) Conservation(ctx context.Context) (*domain.ConservationReport, error) {
	totals, err := s.accounts.Totals(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	fi, err := s.treasury.Get(ctx)
	if err != nil {
		return nil, err
	}

	r := &domain.ConservationReport{
		FIID:              fi.ID,
		AccountBalances:   totals.Balance,
		Reserved:          totals.Reserved,
		TreasuryAvailable: fi.AvailableBalance,
		NetInflow:         fi.AllocatedFunds,
	}
	r.IsBalanced = r.AccountBalances+r.Reserved+r.TreasuryAvailable == r.NetInflow
	return r, nil
}
