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
	"github.com/rs/zerolog"
)

// NullifierServiceImpl implements ports.NullifierService on top of an atomic
// insert-if-absent store. Register is the only gate; Check is diagnostic.
type NullifierServiceImpl struct {
	store   ports.NullifierStore
	point   string
	metrics *metrics.Metrics
	log     zerolog.Logger
	now     func() time.Time
}

// NewNullifierService creates a registry. point labels double-spend metrics
// with the admission point owning this registry (fi, central_bank).
func NewNullifierService(store ports.NullifierStore, point string, m *metrics.Metrics, log zerolog.Logger) *NullifierServiceImpl {
	return &NullifierServiceImpl{store: store, point: point, metrics: m, log: log, now: utcNow}
}

// Register records that nullifier was spent by transactionID. Registering the
// same nullifier again for the same transaction id is a no-op, so a retried
// finalization can pass the gate it already passed. Any other re-registration
// returns DoubleSpendDetected carrying the winning record.
func (s *NullifierServiceImpl) Register(ctx context.Context, nullifier string, sourceAccountID, transactionID uuid.UUID, amount int64) error {
	if nullifier == "" {
		return apperror.Validation("nullifier is required")
	}
	n := &domain.Nullifier{
		Value:                  nullifier,
		SourceAccountID:        sourceAccountID,
		CommittedTransactionID: transactionID,
		Amount:                 amount,
		CreatedAt:              s.now(),
	}

	inserted, existing, err := s.store.Insert(ctx, n)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("register nullifier: %w", err))
	}
	if inserted {
		return nil
	}
	if existing != nil && existing.CommittedTransactionID == transactionID {
		return nil
	}

	s.metrics.IncDoubleSpend(s.point)
	ev := s.log.Warn().Str("nullifier", nullifier).
		Str("source_account_id", sourceAccountID.String()).
		Str("tx_id", transactionID.String())
	if existing != nil {
		ev = ev.Str("winning_tx_id", existing.CommittedTransactionID.String())
	}
	ev.Msg("double spend detected")

	return apperror.ErrDoubleSpendDetected(nullifier).WithDetails(existing)
}

// Check reports whether nullifier is registered. Never use it to decide
// whether to call Register.
func (s *NullifierServiceImpl) Check(ctx context.Context, nullifier string) (bool, error) {
	n, err := s.Get(ctx, nullifier)
	if err != nil {
		return false, err
	}
	return n != nil, nil
}

// Get returns the registered record, or nil.
func (s *NullifierServiceImpl) Get(ctx context.Context, nullifier string) (*domain.Nullifier, error) {
	n, err := s.store.Get(ctx, nullifier)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get nullifier: %w", err))
	}
	return n, nil
}
