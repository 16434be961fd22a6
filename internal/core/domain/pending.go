package domain

import (
	"time"

	"github.com/google/uuid"
)

// PendingStatus is the lifecycle state of an offline reservation.
type PendingStatus string

const (
	PendingStatusPending   PendingStatus = "pending"
	PendingStatusCommitted PendingStatus = "committed"
	PendingStatusRejected  PendingStatus = "rejected"
)

// Reject reasons recorded on pending records and transactions.
const (
	RejectReasonInvalidProof    = "invalid_proof"
	RejectReasonDoubleSpend     = "double_spend"
	RejectReasonInvalidReceiver = "invalid_receiver"
	RejectReasonRemote          = "rejected_by_central_bank"
)

var settlementNamespace = uuid.MustParse("6f1c2a9e-4b7d-5c3e-9a1f-0d2e8b7c6a50")

// SettlementTxID is the deterministic transaction id for a pending record, so
// every commit attempt for the same record targets the same Transaction.id.
func SettlementTxID(pendingID uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(settlementNamespace, pendingID[:])
}

// PendingOfflineTransaction is a reserved, proof-carrying transfer awaiting sync.
type PendingOfflineTransaction struct {
	ID                         uuid.UUID     `json:"id"`
	FromAccountID              uuid.UUID     `json:"from_account_id"`
	ToAccountID                uuid.UUID     `json:"to_account_id"`
	TargetFI                   string        `json:"target_fi,omitempty"`
	Amount                     int64         `json:"amount"`
	Proof                      Proof         `json:"proof"`
	Nullifier                  string        `json:"nullifier"`
	MonotonicCounterAtCreation uint64        `json:"monotonic_counter_at_creation"`
	Status                     PendingStatus `json:"status"`
	RejectReason               string        `json:"reject_reason,omitempty"`
	CommittedTxID              *uuid.UUID    `json:"committed_tx_id,omitempty"`
	CreatedAt                  time.Time     `json:"created_at"`
	ResolvedAt                 *time.Time    `json:"resolved_at,omitempty"`
}

// IsCrossFI returns true when the receiver belongs to another FI.
func (p *PendingOfflineTransaction) IsCrossFI() bool {
	return p.TargetFI != ""
}

// Subject returns the transaction the proof must be bound to.
func (p *PendingOfflineTransaction) Subject() ProofSubject {
	return ProofSubject{
		Ref:       p.ID,
		From:      p.FromAccountID,
		To:        p.ToAccountID,
		TargetFI:  p.TargetFI,
		Amount:    p.Amount,
		Counter:   p.MonotonicCounterAtCreation,
		Timestamp: p.CreatedAt,
		Nullifier: p.Nullifier,
	}
}
