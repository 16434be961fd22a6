package service

import (
	"context"
	"testing"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_CreateWallet(t *testing.T) {
	ctx := context.Background()
	n := newFINode(t, "FI-A", nil)

	a, err := n.accountSvc.CreateWallet(ctx, ports.CreateWalletRequest{Name: "  alice  ", DailyLimit: 3_000})
	require.NoError(t, err)
	assert.Equal(t, "alice", a.Name)
	assert.Equal(t, "FI-A", a.FIID)
	assert.Equal(t, domain.AccountKindWallet, a.Kind)
	assert.Equal(t, domain.AccountStatusActive, a.Status)
	assert.Equal(t, int64(3_000), a.DailyLimit)
	assert.NotEmpty(t, a.PublicKey)
	assert.NotEmpty(t, a.SigningKeyEnc)
	assert.Zero(t, a.Balance)

	_, err = n.accountSvc.CreateWallet(ctx, ports.CreateWalletRequest{Name: " "})
	assert.Equal(t, "VAL_001", apperror.Code(err))
	_, err = n.accountSvc.CreateWallet(ctx, ports.CreateWalletRequest{Name: "x", DailyLimit: -1})
	assert.Equal(t, "VAL_001", apperror.Code(err))
}

func TestAccountService_AllocateToWalletDrawsOnTreasury(t *testing.T) {
	ctx := context.Background()
	n := newFINode(t, "FI-A", nil)
	n.receiveAllocation(t, 1_000)

	a, err := n.accountSvc.CreateWallet(ctx, ports.CreateWalletRequest{Name: "alice"})
	require.NoError(t, err)

	tx, err := n.accountSvc.AllocateToWallet(ctx, a.ID, 700)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionKindCredit, tx.Kind)
	assert.Nil(t, tx.FromAccountID)
	assert.Equal(t, int64(700), n.account(t, a.ID).Balance)

	fi, err := n.treasury.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(300), fi.AvailableBalance)
	assert.Equal(t, int64(1_000), fi.AllocatedFunds)

	_, err = n.accountSvc.AllocateToWallet(ctx, a.ID, 301)
	assert.Equal(t, apperror.CodeInsufficientBalance, apperror.Code(err))
	_, err = n.accountSvc.AllocateToWallet(ctx, a.ID, 0)
	assert.Equal(t, apperror.CodeInvalidAmount, apperror.Code(err))
	n.requireBalanced(t)
}

func TestAccountService_SubWalletLifecycle(t *testing.T) {
	ctx := context.Background()
	n := newFINode(t, "FI-A", nil)
	w := n.wallet(t, 3_000)

	sw, err := n.accountSvc.RegisterSubWallet(ctx, ports.RegisterSubWalletRequest{WalletID: w.ID, DeviceType: "wearable"})
	require.NoError(t, err)
	assert.Equal(t, domain.AccountKindSubWallet, sw.Kind)
	assert.Equal(t, testLimits.DefaultSubWalletSpendingLimit, sw.SpendingLimit)
	assert.Equal(t, "wearable", sw.Name)
	require.NotNil(t, sw.OwnerAccountID)
	assert.Equal(t, w.ID, *sw.OwnerAccountID)

	_, err = n.accountSvc.AllocateToSubWallet(ctx, sw.ID, 1_500)
	require.NoError(t, err)
	assert.Equal(t, int64(1_500), n.account(t, w.ID).Balance)
	assert.Equal(t, int64(1_500), n.account(t, sw.ID).Balance)

	_, err = n.accountSvc.AllocateToSubWallet(ctx, sw.ID, 600)
	assert.Equal(t, apperror.CodeLimitExceeded, apperror.Code(err))

	_, err = n.accountSvc.ReturnFromSubWallet(ctx, sw.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(2_000), n.account(t, w.ID).Balance)
	assert.Equal(t, int64(1_000), n.account(t, sw.ID).Balance)

	list, err := n.accountSvc.ListSubWallets(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sw.ID, list[0].ID)

	// Revocation sweeps the remaining balance back to the owner.
	revoked, err := n.accountSvc.SetStatus(ctx, sw.ID, domain.AccountStatusRevoked)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusRevoked, revoked.Status)
	assert.Zero(t, n.account(t, sw.ID).Balance)
	assert.Equal(t, int64(3_000), n.account(t, w.ID).Balance)

	_, err = n.accountSvc.SetStatus(ctx, sw.ID, domain.AccountStatusActive)
	assert.Equal(t, "VAL_001", apperror.Code(err))
	n.requireBalanced(t)
}

func TestAccountService_RegisterSubWalletValidation(t *testing.T) {
	ctx := context.Background()
	n := newFINode(t, "FI-A", nil)
	w := n.wallet(t, 0)
	sw, err := n.accountSvc.RegisterSubWallet(ctx, ports.RegisterSubWalletRequest{WalletID: w.ID, DeviceType: "car"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  ports.RegisterSubWalletRequest
		code string
	}{
		{"missing device type", ports.RegisterSubWalletRequest{WalletID: w.ID}, "VAL_001"},
		{"limit above ceiling", ports.RegisterSubWalletRequest{WalletID: w.ID, DeviceType: "car", SpendingLimit: testLimits.SubWalletBalanceCeiling + 1}, "VAL_001"},
		{"nested sub-wallet", ports.RegisterSubWalletRequest{WalletID: sw.ID, DeviceType: "car"}, "VAL_001"},
		{"unknown owner", ports.RegisterSubWalletRequest{WalletID: uuid.New(), DeviceType: "car"}, apperror.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.accountSvc.RegisterSubWallet(ctx, tt.req)
			assert.Equal(t, tt.code, apperror.Code(err))
		})
	}
}

func TestAccountService_TransferLocal(t *testing.T) {
	ctx := context.Background()
	n := newFINode(t, "FI-A", nil)
	a := n.wallet(t, 1_000)
	b := n.wallet(t, 0)

	tx, err := n.accountSvc.Transfer(ctx, ports.TransferRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: 250})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionKindTransfer, tx.Kind)
	assert.True(t, tx.Settled)
	require.NotNil(t, tx.Proof)
	assert.NoError(t, n.proofs.Verify(tx.Proof, tx.Subject(tx.Proof.Counter, tx.Timestamp),
		domain.SenderIdentity{AccountID: a.ID, PublicKey: a.PublicKey}))

	sender := n.account(t, a.ID)
	assert.Equal(t, int64(750), sender.Balance)
	assert.Equal(t, int64(250), sender.Compliance.DailySpent)
	assert.Zero(t, sender.Compliance.OfflineTxCount)
	assert.Equal(t, int64(250), n.account(t, b.ID).Balance)

	ok, err := n.nullifiers.Check(ctx, tx.Nullifier)
	require.NoError(t, err)
	assert.True(t, ok)
	n.requireBalanced(t)
}

func TestAccountService_TransferRejections(t *testing.T) {
	ctx := context.Background()
	n := newFINode(t, "FI-A", nil)
	a := n.wallet(t, 1_000)
	b := n.wallet(t, 0)
	sw, err := n.accountSvc.RegisterSubWallet(ctx, ports.RegisterSubWalletRequest{WalletID: a.ID, DeviceType: "ring"})
	require.NoError(t, err)

	t.Run("insufficient", func(t *testing.T) {
		_, err := n.accountSvc.Transfer(ctx, ports.TransferRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: 1_001})
		assert.Equal(t, apperror.CodeInsufficientBalance, apperror.Code(err))
	})
	t.Run("single tx limit", func(t *testing.T) {
		_, err := n.accountSvc.Transfer(ctx, ports.TransferRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: testLimits.SingleTxLimit + 1})
		assert.Equal(t, apperror.CodeComplianceViolation, apperror.Code(err))
	})
	t.Run("sub-wallet receiver", func(t *testing.T) {
		_, err := n.accountSvc.Transfer(ctx, ports.TransferRequest{FromAccountID: b.ID, ToAccountID: sw.ID, Amount: 1})
		assert.Equal(t, apperror.CodeInvalidReceiver, apperror.Code(err))
	})
	t.Run("offline mode", func(t *testing.T) {
		_, err := n.accountSvc.SetOfflineMode(ctx, a.ID, true)
		require.NoError(t, err)
		defer n.accountSvc.SetOfflineMode(ctx, a.ID, false) //nolint:errcheck

		_, err = n.accountSvc.Transfer(ctx, ports.TransferRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: 1})
		assert.Equal(t, apperror.CodeAccountOffline, apperror.Code(err))
	})
	t.Run("frozen sender", func(t *testing.T) {
		_, err := n.accountSvc.SetStatus(ctx, a.ID, domain.AccountStatusFrozen)
		require.NoError(t, err)
		defer n.accountSvc.SetStatus(ctx, a.ID, domain.AccountStatusActive) //nolint:errcheck

		_, err = n.accountSvc.Transfer(ctx, ports.TransferRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: 1})
		assert.Equal(t, apperror.CodeFrozen, apperror.Code(err))
	})

	assert.Equal(t, int64(1_000), n.account(t, a.ID).Balance)
}

func TestAccountService_FrozenWalletStillReceives(t *testing.T) {
	ctx := context.Background()
	n := newFINode(t, "FI-A", nil)
	a := n.wallet(t, 1_000)
	b := n.wallet(t, 0)
	_, err := n.accountSvc.SetStatus(ctx, b.ID, domain.AccountStatusFrozen)
	require.NoError(t, err)

	_, err = n.accountSvc.Transfer(ctx, ports.TransferRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(100), n.account(t, b.ID).Balance)
}

func TestAccountService_TransferCrossFI(t *testing.T) {
	ctx := context.Background()
	net := newNetwork(t, "FI-A", "FI-B")
	net.fund(t, "FI-A", 5_000)
	fa, fb := net.fis["FI-A"], net.fis["FI-B"]
	a := fa.wallet(t, 1_000)
	b := fb.wallet(t, 0)

	tx, err := fa.accountSvc.Transfer(ctx, ports.TransferRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: 400, TargetFI: "FI-B"})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionKindCrossFITransfer, tx.Kind)
	assert.False(t, tx.Settled)
	assert.Equal(t, "FI-B", tx.TargetFI)

	fi, err := fa.treasury.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4_600), fi.AllocatedFunds)
	fa.requireBalanced(t)

	// Naming this node as the target is a local transfer.
	c := fa.wallet(t, 0)
	tx, err = fa.accountSvc.Transfer(ctx, ports.TransferRequest{FromAccountID: a.ID, ToAccountID: c.ID, Amount: 100, TargetFI: "FI-A"})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionKindTransfer, tx.Kind)
	assert.Empty(t, tx.TargetFI)
}
