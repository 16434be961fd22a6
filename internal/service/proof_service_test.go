package service

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"
	"time"

	"cbdc-settlement/config"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type proofFixture struct {
	svc      *Ed25519ProofService
	key      ed25519.PrivateKey
	identity domain.SenderIdentity
	subject  domain.ProofSubject
	claims   ports.ProofClaims
}

func newProofFixture(t *testing.T) *proofFixture {
	t.Helper()
	pub, key, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	from := uuid.New()
	ts := time.Now().UTC().Truncate(time.Microsecond)
	subject := domain.ProofSubject{
		Ref:       uuid.New(),
		From:      from,
		To:        uuid.New(),
		Amount:    600,
		Counter:   4,
		Timestamp: ts,
		Nullifier: domain.DeriveNullifier(from, 4, 600, ts),
	}
	return &proofFixture{
		svc:      NewEd25519ProofService(config.ProofConfig{MaxClockSkew: time.Second, MaxAge: time.Hour}),
		key:      key,
		identity: domain.SenderIdentity{AccountID: from, PublicKey: hex.EncodeToString(pub)},
		subject:  subject,
		claims: ports.ProofClaims{
			SenderID:      from,
			BalanceBefore: 1_000,
			Compliance:    domain.ComplianceClaim{DailySpent: 0, DailyLimit: 2_000, SingleTxLimit: 10_000, OfflineTxLimit: 5_000},
		},
	}
}

func (f *proofFixture) generate(t *testing.T) *domain.Proof {
	t.Helper()
	p, err := f.svc.Generate(f.key, f.subject, f.claims)
	require.NoError(t, err)
	return p
}

func TestProofService_GenerateVerify(t *testing.T) {
	f := newProofFixture(t)
	p := f.generate(t)

	assert.Equal(t, domain.ProofVersion, p.Version)
	assert.Equal(t, f.identity.PublicKey, p.SenderPublicKey)
	assert.Equal(t, f.subject.Hash(), p.TxHash)
	assert.NoError(t, f.svc.Verify(p, f.subject, f.identity))
}

func TestProofService_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *proofFixture, p *domain.Proof)
		want   error
	}{
		{"nil version", func(_ *proofFixture, p *domain.Proof) { p.Version = 0 }, ErrProofMalformed},
		{"other sender", func(f *proofFixture, _ *domain.Proof) { f.identity.AccountID = uuid.New() }, ErrProofOwnership},
		{"rotated key", func(f *proofFixture, _ *domain.Proof) {
			pub, _, _ := ed25519.GenerateKey(nil)
			f.identity.PublicKey = hex.EncodeToString(pub)
		}, ErrProofOwnership},
		{"tampered balance claim", func(_ *proofFixture, p *domain.Proof) { p.BalanceBefore = 1_000_000 }, ErrProofOwnership},
		{"garbage signature", func(_ *proofFixture, p *domain.Proof) { p.Signature = "zz" }, ErrProofMalformed},
		{"amount changed", func(f *proofFixture, _ *domain.Proof) { f.subject.Amount = 601 }, ErrProofBinding},
		{"receiver changed", func(f *proofFixture, _ *domain.Proof) { f.subject.To = uuid.New() }, ErrProofBinding},
		{"foreign nullifier", func(f *proofFixture, _ *domain.Proof) { f.subject.Nullifier = "NUL-00" }, ErrProofBinding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProofFixture(t)
			p := f.generate(t)
			tt.mutate(f, p)
			assert.ErrorIs(t, f.svc.Verify(p, f.subject, f.identity), tt.want)
		})
	}
}

func TestProofService_ClaimsChecked(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *ports.ProofClaims)
		want   error
	}{
		{"balance below amount", func(c *ports.ProofClaims) { c.BalanceBefore = 599 }, ErrProofSufficiency},
		{"daily limit", func(c *ports.ProofClaims) { c.Compliance.DailySpent = 1_500 }, ErrProofNonCompliant},
		{"single tx limit", func(c *ports.ProofClaims) { c.Compliance.SingleTxLimit = 500 }, ErrProofNonCompliant},
		{"offline limit", func(c *ports.ProofClaims) { c.Compliance.OfflineTxLimit = 100 }, ErrProofNonCompliant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProofFixture(t)
			tt.mutate(&f.claims)
			p := f.generate(t)
			assert.ErrorIs(t, f.svc.Verify(p, f.subject, f.identity), tt.want)
		})
	}
}

func TestProofService_Freshness(t *testing.T) {
	f := newProofFixture(t)
	p := f.generate(t)

	f.svc.now = func() time.Time { return f.subject.Timestamp.Add(2 * time.Hour) }
	assert.ErrorIs(t, f.svc.Verify(p, f.subject, f.identity), ErrProofFreshness)

	stale := f.identity
	stale.AcceptStale = true
	assert.NoError(t, f.svc.Verify(p, f.subject, stale))

	f.svc.maxAge = 0
	assert.NoError(t, f.svc.Verify(p, f.subject, f.identity))
}

func TestProofService_GenerateRejectsShortKey(t *testing.T) {
	f := newProofFixture(t)
	_, err := f.svc.Generate(ed25519.PrivateKey{1, 2, 3}, f.subject, f.claims)
	assert.ErrorIs(t, err, ErrProofMalformed)
}

func TestAccountKeys_RoundTrip(t *testing.T) {
	enc := newTestEncryption(t)
	pub, sealed, err := newAccountKeys(enc)
	require.NoError(t, err)

	key, err := accountSigner(enc, &domain.Account{ID: uuid.New(), SigningKeyEnc: sealed})
	require.NoError(t, err)
	assert.Equal(t, pub, hex.EncodeToString(key.Public().(ed25519.PublicKey)))

	_, err = accountSigner(enc, &domain.Account{ID: uuid.New(), SigningKeyEnc: "not-sealed"})
	assert.Error(t, err)
}
