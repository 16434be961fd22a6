package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cbdc-settlement/internal/adapter/storage/memory"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/internal/core/ports/mocks"
	"cbdc-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// signedTransfer builds a cross-FI offline payment from a wallet on another
// node, addressed to to on target. The proof is bound to the pending id, so a
// copy under a new transaction id still verifies.
func signedTransfer(t *testing.T, from *fiNode, to uuid.UUID, target string, amount int64) *domain.Transaction {
	t.Helper()
	sender := from.wallet(t, amount)
	key, err := accountSigner(newTestEncryption(t), sender)
	require.NoError(t, err)

	now := utcNow()
	fromID, pendingID := sender.ID, uuid.New()
	tx := &domain.Transaction{
		ID:              uuid.New(),
		FromAccountID:   &fromID,
		ToAccountID:     to,
		Amount:          amount,
		Kind:            domain.TransactionKindCrossFITransfer,
		SourceFI:        from.id,
		TargetFI:        target,
		PendingID:       &pendingID,
		Nullifier:       domain.DeriveNullifier(sender.ID, 1, amount, now),
		SenderPublicKey: sender.PublicKey,
		Timestamp:       now,
	}
	tx.Proof, err = from.proofs.Generate(key, tx.Subject(1, now), ports.ProofClaims{
		SenderID:      sender.ID,
		BalanceBefore: amount,
		Compliance:    domain.ComplianceClaim{DailyLimit: testLimits.DailyLimit, SingleTxLimit: testLimits.SingleTxLimit},
	})
	require.NoError(t, err)
	return tx
}

func TestSettlementService_ReceiveAllocation(t *testing.T) {
	ctx := context.Background()
	n := newFINode(t, "FI-B", nil)
	credit := &domain.Transaction{ID: uuid.New(), Amount: 2_500, Kind: domain.TransactionKindCredit, SourceFI: testCBID, TargetFI: "FI-B"}

	ack, err := n.settlement.Receive(ctx, credit)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementAccepted, ack.Outcome)

	ack, err = n.settlement.Receive(ctx, credit)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementDuplicate, ack.Outcome)

	fi, err := n.treasury.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2_500), fi.AllocatedFunds)
	assert.Equal(t, int64(2_500), fi.AvailableBalance)
}

func TestSettlementService_ReceiveTransfer(t *testing.T) {
	ctx := context.Background()
	src := newFINode(t, "FI-A", nil)
	n := newFINode(t, "FI-B", nil)
	b := n.wallet(t, 0)
	tx := signedTransfer(t, src, b.ID, "FI-B", 400)

	var wire domain.Transaction
	roundTrip(tx, &wire)
	ack, err := n.settlement.Receive(ctx, &wire)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementAccepted, ack.Outcome)
	assert.Equal(t, int64(400), n.account(t, b.ID).Balance)

	stored, err := n.txns.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, stored.Settled)
	assert.True(t, stored.SyncedToCB)

	ack, err = n.settlement.Receive(ctx, &wire)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementDuplicate, ack.Outcome)
	assert.Equal(t, int64(400), n.account(t, b.ID).Balance)
	n.requireBalanced(t)
}

func TestSettlementService_ReceiveTransferRejections(t *testing.T) {
	ctx := context.Background()
	src := newFINode(t, "FI-A", nil)
	n := newFINode(t, "FI-B", nil)
	b := n.wallet(t, 0)
	sw, err := n.accountSvc.RegisterSubWallet(ctx, ports.RegisterSubWalletRequest{WalletID: b.ID, DeviceType: "tag"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		build func() *domain.Transaction
		code  string
	}{
		{"wrong target", func() *domain.Transaction { return signedTransfer(t, src, b.ID, "FI-C", 10) }, apperror.CodeInvalidReceiver},
		{"unknown receiver", func() *domain.Transaction { return signedTransfer(t, src, uuid.New(), "FI-B", 10) }, apperror.CodeInvalidReceiver},
		{"sub-wallet receiver", func() *domain.Transaction { return signedTransfer(t, src, sw.ID, "FI-B", 10) }, apperror.CodeInvalidReceiver},
		{"tampered amount", func() *domain.Transaction {
			tx := signedTransfer(t, src, b.ID, "FI-B", 10)
			tx.Amount = 10_000
			return tx
		}, apperror.CodeInvalidProof},
		{"missing proof", func() *domain.Transaction {
			tx := signedTransfer(t, src, b.ID, "FI-B", 10)
			tx.Proof = nil
			return tx
		}, apperror.CodeInvalidProof},
		{"non-positive amount", func() *domain.Transaction {
			tx := signedTransfer(t, src, b.ID, "FI-B", 10)
			tx.Amount = 0
			return tx
		}, apperror.CodeInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack, err := n.settlement.Receive(ctx, tt.build())
			require.NoError(t, err)
			assert.Equal(t, domain.SettlementRejected, ack.Outcome)
			assert.Equal(t, tt.code, ack.Code)
		})
	}
	assert.Zero(t, n.account(t, b.ID).Balance)

	_, err = n.settlement.Receive(ctx, &domain.Transaction{})
	assert.Equal(t, "VAL_001", apperror.Code(err))
}

func TestSettlementService_ReusedNullifierRejected(t *testing.T) {
	ctx := context.Background()
	src := newFINode(t, "FI-A", nil)
	n := newFINode(t, "FI-B", nil)
	b := n.wallet(t, 0)

	tx := signedTransfer(t, src, b.ID, "FI-B", 100)
	ack, err := n.settlement.Receive(ctx, tx)
	require.NoError(t, err)
	require.Equal(t, domain.SettlementAccepted, ack.Outcome)

	replay := *tx
	replay.ID = uuid.New()
	ack, err = n.settlement.Receive(ctx, &replay)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementRejected, ack.Outcome)
	assert.Equal(t, apperror.CodeDoubleSpend, ack.Code)
	assert.Equal(t, int64(100), n.account(t, b.ID).Balance)
}

func TestSettlementService_ReversalToRevokedLandsInTreasury(t *testing.T) {
	ctx := context.Background()
	n := newFINode(t, "FI-A", nil)
	a := n.wallet(t, 500)
	_, err := n.accountSvc.SetStatus(ctx, a.ID, domain.AccountStatusRevoked)
	require.NoError(t, err)

	reversal := &domain.Transaction{
		ID: domain.RefundTxID(uuid.New()), ToAccountID: a.ID, Amount: 300,
		Kind: domain.TransactionKindCredit, SourceFI: "FI-B", TargetFI: "FI-A",
	}
	ack, err := n.settlement.Receive(ctx, reversal)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementAccepted, ack.Outcome)
	assert.Equal(t, int64(500), n.account(t, a.ID).Balance)

	fi, err := n.treasury.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(300), fi.AvailableBalance)
	n.requireBalanced(t)
}

func TestSettlementService_CachedAck(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockIdempotencyCache(ctrl)

	store := memory.NewStore()
	accounts := memory.NewAccountRepo(store)
	treasury := NewTreasury(memory.NewFIRepo(store), "FI-B")
	_, err := treasury.Ensure(ctx, "FI-B", "")
	require.NoError(t, err)
	svc := NewSettlementService(NewLedger(memory.NewTransactor(store), accounts), treasury, memory.NewTransactionRepo(store),
		nil, nil, NewAccountResolver(accounts, nil, "FI-B", 0, newTestLogger()), cache,
		NewAuditService(nil, newTestLogger()), "FI-B", newTestLogger())

	credit := &domain.Transaction{ID: uuid.New(), Amount: 10, Kind: domain.TransactionKindCredit, SourceFI: testCBID, TargetFI: "FI-B"}
	key := "ack:" + credit.ID.String()

	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), key).Return(nil, nil),
		cache.EXPECT().Set(gomock.Any(), key, gomock.Any(), ackCacheTTL).DoAndReturn(
			func(_ context.Context, _ string, v []byte, _ time.Duration) error {
				var ack domain.SettlementAck
				require.NoError(t, json.Unmarshal(v, &ack))
				assert.Equal(t, domain.SettlementAccepted, ack.Outcome)
				return nil
			}),
	)
	ack, err := svc.Receive(ctx, credit)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementAccepted, ack.Outcome)

	cached := mustJSON(&domain.SettlementAck{TransactionID: credit.ID, Outcome: domain.SettlementAccepted})
	cache.EXPECT().Get(gomock.Any(), key).Return(cached, nil)
	ack, err = svc.Receive(ctx, credit)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementDuplicate, ack.Outcome)

	// A cache outage falls through to the ledger.
	cache.EXPECT().Get(gomock.Any(), key).Return(nil, errors.New("redis down"))
	cache.EXPECT().Set(gomock.Any(), key, gomock.Any(), ackCacheTTL).Return(errors.New("redis down"))
	ack, err = svc.Receive(ctx, credit)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementDuplicate, ack.Outcome)

	fi, err := treasury.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), fi.AllocatedFunds)
}
