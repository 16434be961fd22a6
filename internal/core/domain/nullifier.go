package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NullifierPrefix marks nullifier values.
const NullifierPrefix = "NUL-"

// Nullifier is the write-once marker that a value unit has been spent.
type Nullifier struct {
	Value                  string    `json:"value"`
	SourceAccountID        uuid.UUID `json:"source_account_id"`
	CommittedTransactionID uuid.UUID `json:"committed_transaction_id"`
	Amount                 int64     `json:"amount"`
	CreatedAt              time.Time `json:"created_at"`
}

// DeriveNullifier computes the nullifier of a spend deterministically from
// the sender, its counter, the amount and the creation timestamp.
func DeriveNullifier(accountID uuid.UUID, counter uint64, amount int64, ts time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%d:%d", accountID, counter, amount, ts.UnixNano())))
	return NullifierPrefix + hex.EncodeToString(sum[:])
}
