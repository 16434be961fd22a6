package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionKind represents the kind of money movement.
type TransactionKind string

const (
	TransactionKindTransfer            TransactionKind = "transfer"
	TransactionKindCredit              TransactionKind = "credit"
	TransactionKindCrossFITransfer     TransactionKind = "cross-fi-transfer"
	TransactionKindOfflineTransfer     TransactionKind = "offline-transfer"
	TransactionKindSubWalletAllocation TransactionKind = "sub-wallet-allocation"
	TransactionKindSubWalletReturn     TransactionKind = "sub-wallet-return"
)

// Transaction is an append-only ledger entry. Only the sync flags change after
// creation, and only from false to true.
type Transaction struct {
	ID              uuid.UUID       `json:"id"`
	FromAccountID   *uuid.UUID      `json:"from_account_id,omitempty"`
	ToAccountID     uuid.UUID       `json:"to_account_id"` // uuid.Nil for an FI treasury
	Amount          int64           `json:"amount"`
	Kind            TransactionKind `json:"kind"`
	SourceFI        string          `json:"source_fi,omitempty"`
	TargetFI        string          `json:"target_fi,omitempty"`
	PendingID       *uuid.UUID      `json:"pending_id,omitempty"`
	Nullifier       string          `json:"nullifier,omitempty"`
	Proof           *Proof          `json:"proof,omitempty"`
	SenderPublicKey string          `json:"sender_public_key,omitempty"`
	Settled         bool            `json:"settled"`
	SyncedToFI      bool            `json:"synced_to_fi"`
	SyncedToCB      bool            `json:"synced_to_cb"`
	Rejected        bool            `json:"rejected"`
	RejectReason    string          `json:"reject_reason,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
}

// IsCrossFI returns true when the receiver lives at another FI.
func (t *Transaction) IsCrossFI() bool {
	return t.Kind == TransactionKindCrossFITransfer
}

// ProofRef is the identifier the proof subject was built with: the pending
// record for offline payments, the transaction itself otherwise.
func (t *Transaction) ProofRef() uuid.UUID {
	if t.PendingID != nil {
		return *t.PendingID
	}
	return t.ID
}

// Subject rebuilds the proof subject of this transaction from the counter and
// timestamp the proof was signed with.
func (t *Transaction) Subject(counter uint64, createdAt time.Time) ProofSubject {
	s := ProofSubject{
		Ref:       t.ProofRef(),
		To:        t.ToAccountID,
		TargetFI:  t.TargetFI,
		Amount:    t.Amount,
		Counter:   counter,
		Timestamp: createdAt,
		Nullifier: t.Nullifier,
	}
	if t.FromAccountID != nil {
		s.From = *t.FromAccountID
	}
	return s
}

// SyncFlag names a boolean hop flag on Transaction.
type SyncFlag string

const (
	SyncFlagSettled    SyncFlag = "settled"
	SyncFlagSyncedToFI SyncFlag = "synced_to_fi"
	SyncFlagSyncedToCB SyncFlag = "synced_to_cb"
)

// RefundTxID is the deterministic id of the credit that reverses txID.
// Retried reversals collide on it.
func RefundTxID(txID uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(settlementNamespace, append([]byte("refund:"), txID[:]...))
}

// IsSpend returns true for kinds that count against the sender's limits.
func (t *Transaction) IsSpend() bool {
	switch t.Kind {
	case TransactionKindTransfer, TransactionKindCrossFITransfer, TransactionKindOfflineTransfer:
		return t.FromAccountID != nil
	}
	return false
}
