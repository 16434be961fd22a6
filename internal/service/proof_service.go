package service

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"cbdc-settlement/config"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
)

// Proof verification failures. Verify wraps one of these.
var (
	ErrProofMalformed    = errors.New("proof malformed")
	ErrProofOwnership    = errors.New("proof not signed by sender")
	ErrProofBinding      = errors.New("proof not bound to transaction")
	ErrProofFreshness    = errors.New("proof outside freshness window")
	ErrProofSufficiency  = errors.New("proof balance below amount")
	ErrProofNonCompliant = errors.New("proof compliance claim violated")
)

// Ed25519ProofService implements ports.ProofService with signed assertions:
// the sender's ed25519 key signs the transaction hash together with its
// balance and compliance snapshot.
type Ed25519ProofService struct {
	maxClockSkew time.Duration
	maxAge       time.Duration
	now          func() time.Time
}

func NewEd25519ProofService(cfg config.ProofConfig) *Ed25519ProofService {
	return &Ed25519ProofService{maxClockSkew: cfg.MaxClockSkew, maxAge: cfg.MaxAge, now: utcNow}
}

func (s *Ed25519ProofService) Generate(key ed25519.PrivateKey, subject domain.ProofSubject, claims ports.ProofClaims) (*domain.Proof, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: signing key has %d bytes", ErrProofMalformed, len(key))
	}
	pub, _ := key.Public().(ed25519.PublicKey)

	p := &domain.Proof{
		Version:         domain.ProofVersion,
		SenderID:        claims.SenderID,
		SenderPublicKey: hex.EncodeToString(pub),
		TxHash:          subject.Hash(),
		Counter:         subject.Counter,
		Timestamp:       subject.Timestamp,
		BalanceBefore:   claims.BalanceBefore,
		Compliance:      claims.Compliance,
	}
	p.Signature = hex.EncodeToString(ed25519.Sign(key, p.SigningBytes()))
	return p, nil
}

func (s *Ed25519ProofService) Verify(p *domain.Proof, subject domain.ProofSubject, expected domain.SenderIdentity) error {
	if p == nil || p.Version != domain.ProofVersion {
		return ErrProofMalformed
	}

	// ownership
	if p.SenderID != expected.AccountID || p.SenderID != subject.From {
		return fmt.Errorf("%w: sender %s", ErrProofOwnership, p.SenderID)
	}
	if expected.PublicKey != "" && p.SenderPublicKey != expected.PublicKey {
		return fmt.Errorf("%w: key mismatch", ErrProofOwnership)
	}
	pub, err := hex.DecodeString(p.SenderPublicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: public key", ErrProofMalformed)
	}
	sig, err := hex.DecodeString(p.Signature)
	if err != nil {
		return fmt.Errorf("%w: signature encoding", ErrProofMalformed)
	}
	if !ed25519.Verify(pub, p.SigningBytes(), sig) {
		return ErrProofOwnership
	}

	// binding
	if p.TxHash != subject.Hash() {
		return fmt.Errorf("%w: tx hash", ErrProofBinding)
	}
	if p.Counter != subject.Counter {
		return fmt.Errorf("%w: counter %d != %d", ErrProofBinding, p.Counter, subject.Counter)
	}
	want := domain.DeriveNullifier(subject.From, subject.Counter, subject.Amount, subject.Timestamp)
	if subject.Nullifier != want {
		return fmt.Errorf("%w: nullifier", ErrProofBinding)
	}

	// freshness
	if d := p.Timestamp.Sub(subject.Timestamp); d > s.maxClockSkew || d < -s.maxClockSkew {
		return fmt.Errorf("%w: skew %s", ErrProofFreshness, d)
	}
	if s.maxAge > 0 && !expected.AcceptStale && s.now().Sub(p.Timestamp) > s.maxAge {
		return fmt.Errorf("%w: older than %s", ErrProofFreshness, s.maxAge)
	}

	// sufficiency
	if p.BalanceBefore < subject.Amount {
		return fmt.Errorf("%w: %d < %d", ErrProofSufficiency, p.BalanceBefore, subject.Amount)
	}

	// compliance
	c := p.Compliance
	switch {
	case c.SingleTxLimit > 0 && subject.Amount > c.SingleTxLimit:
		return fmt.Errorf("%w: %s", ErrProofNonCompliant, domain.LimitSingleTx)
	case c.DailyLimit > 0 && c.DailySpent+subject.Amount > c.DailyLimit:
		return fmt.Errorf("%w: %s", ErrProofNonCompliant, domain.LimitDaily)
	case c.OfflineTxLimit > 0 && subject.Amount > c.OfflineTxLimit:
		return fmt.Errorf("%w: %s", ErrProofNonCompliant, domain.LimitOfflineTx)
	}
	return nil
}

// accountSigner recovers the ed25519 key sealed in a.SigningKeyEnc.
func accountSigner(enc ports.EncryptionService, a *domain.Account) (ed25519.PrivateKey, error) {
	seedHex, err := enc.Decrypt(a.SigningKeyEnc)
	if err != nil {
		return nil, fmt.Errorf("decrypt signing key: %w", err)
	}
	seed, err := hex.DecodeString(seedHex)
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("signing key of %s is corrupt", a.ID)
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// newAccountKeys generates a signing key and returns its public half and the
// sealed seed.
func newAccountKeys(enc ports.EncryptionService) (string, string, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return "", "", fmt.Errorf("generate signing key: %w", err)
	}
	sealed, err := enc.Encrypt(hex.EncodeToString(priv.Seed()))
	if err != nil {
		return "", "", fmt.Errorf("seal signing key: %w", err)
	}
	return hex.EncodeToString(pub), sealed, nil
}
