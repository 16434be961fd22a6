package domain

import "github.com/google/uuid"

// SettlementOutcome is a receiving tier's verdict on one forwarded transaction.
type SettlementOutcome string

const (
	SettlementAccepted  SettlementOutcome = "accepted"
	SettlementDuplicate SettlementOutcome = "duplicate"
	SettlementRejected  SettlementOutcome = "rejected"
)

// SettlementAck acknowledges one transaction reported to, or delivered by,
// the central bank. Accepted and duplicate both confirm the hop.
type SettlementAck struct {
	TransactionID uuid.UUID         `json:"transaction_id"`
	Outcome       SettlementOutcome `json:"outcome"`
	Code          string            `json:"code,omitempty"`
	Reason        string            `json:"reason,omitempty"`
}

// Confirmed returns true if the hop may flip its flag.
func (a SettlementAck) Confirmed() bool {
	return a.Outcome == SettlementAccepted || a.Outcome == SettlementDuplicate
}

// SettlementBatch is the payload an FI reports to the central bank.
type SettlementBatch struct {
	SourceFI     string        `json:"source_fi"`
	Transactions []Transaction `json:"transactions"`
}
