package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProofVersion is the current proof encoding.
const ProofVersion = 1

// ProofSubject is the transaction a proof is bound to.
type ProofSubject struct {
	Ref       uuid.UUID // pending id, or transaction id for online payments
	From      uuid.UUID
	To        uuid.UUID
	TargetFI  string
	Amount    int64
	Counter   uint64
	Timestamp time.Time
	Nullifier string
}

// Hash returns the hex sha256 of the canonical subject encoding.
func (s ProofSubject) Hash() string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		s.Ref.String(),
		s.From.String(),
		s.To.String(),
		s.TargetFI,
		strconv.FormatInt(s.Amount, 10),
		strconv.FormatUint(s.Counter, 10),
		strconv.FormatInt(s.Timestamp.UnixNano(), 10),
		s.Nullifier,
	}, "|")))
	return hex.EncodeToString(sum[:])
}

// ComplianceClaim is the sender-side view of its limits at reservation time.
type ComplianceClaim struct {
	DailySpent     int64 `json:"daily_spent"`
	DailyLimit     int64 `json:"daily_limit"`
	SingleTxLimit  int64 `json:"single_tx_limit"`
	OfflineTxLimit int64 `json:"offline_tx_limit,omitempty"` // 0 for online payments
}

// Proof is a signed assertion of ownership, sufficiency, compliance and
// freshness for one transaction.
type Proof struct {
	Version         int             `json:"version"`
	SenderID        uuid.UUID       `json:"sender_id"`
	SenderPublicKey string          `json:"sender_public_key"`
	TxHash          string          `json:"tx_hash"`
	Counter         uint64          `json:"counter"`
	Timestamp       time.Time       `json:"timestamp"`
	BalanceBefore   int64           `json:"balance_before"`
	Compliance      ComplianceClaim `json:"compliance"`
	Signature       string          `json:"signature"`
}

// SigningBytes is the canonical message covered by Signature.
func (p *Proof) SigningBytes() []byte {
	return []byte(strings.Join([]string{
		"cbdc-proof",
		strconv.Itoa(p.Version),
		p.SenderID.String(),
		p.SenderPublicKey,
		p.TxHash,
		strconv.FormatUint(p.Counter, 10),
		strconv.FormatInt(p.Timestamp.UnixNano(), 10),
		strconv.FormatInt(p.BalanceBefore, 10),
		strconv.FormatInt(p.Compliance.DailySpent, 10),
		strconv.FormatInt(p.Compliance.DailyLimit, 10),
		strconv.FormatInt(p.Compliance.SingleTxLimit, 10),
		strconv.FormatInt(p.Compliance.OfflineTxLimit, 10),
	}, "|"))
}

// SenderIdentity is what a verifier expects the proof to be signed by.
type SenderIdentity struct {
	AccountID uuid.UUID
	PublicKey string
	// AcceptStale skips the max-age check. Destination FIs set it when
	// re-verifying a transaction the source FI already admitted.
	AcceptStale bool
}
