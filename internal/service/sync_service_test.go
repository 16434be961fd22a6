package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cbdc-settlement/config"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/internal/core/ports/mocks"
	"cbdc-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSyncService_SyncAccountCommitsPending(t *testing.T) {
	ctx := context.Background()
	n := newFINode(t, "FI-A", nil)
	a := n.wallet(t, 1_000)
	b := n.wallet(t, 0)

	for _, amount := range []int64{100, 200} {
		_, err := n.offline.CreateOffline(ctx, ports.OfflineRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: amount})
		require.NoError(t, err)
	}

	report, err := n.sync.SyncAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Committed)
	assert.Zero(t, report.Rejected)
	assert.Equal(t, int64(300), n.account(t, b.ID).Balance)
	assert.Zero(t, n.account(t, a.ID).ReservedOfflineBalance)
	assert.Equal(t, float64(2), testutil.ToFloat64(n.metrics.SyncRecords.WithLabelValues(tierDevice, "committed")))

	again, err := n.sync.SyncAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, again.Committed)
	assert.Equal(t, int64(300), n.account(t, b.ID).Balance)

	_, err = n.sync.SyncAccount(ctx, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestSyncService_SyncAccountLocked(t *testing.T) {
	ctx := context.Background()
	n := newFINode(t, "FI-A", nil)
	a := n.wallet(t, 0)

	ctrl := gomock.NewController(t)
	locker := mocks.NewMockSyncLocker(ctrl)
	svc := NewSyncService(n.offline, n.ledger, n.treasury, n.pendings, n.txns, n.compliance, nil, locker,
		NewAuditService(nil, newTestLogger()), nil, config.SyncConfig{LockTTL: time.Minute}, "FI-A", newTestLogger())

	locker.EXPECT().TryLock(gomock.Any(), "account:"+a.ID.String(), time.Minute).Return(nil, false, nil)
	_, err := svc.SyncAccount(ctx, a.ID)
	assert.Equal(t, apperror.CodeSyncInProgress, apperror.Code(err))

	locker.EXPECT().TryLock(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, false, errors.New("redis down"))
	_, err = svc.SyncAccount(ctx, a.ID)
	assert.Equal(t, "SYS_001", apperror.Code(err))
}

func TestSyncService_SyncAllSkipsLockedAccounts(t *testing.T) {
	ctx := context.Background()
	n := newFINode(t, "FI-A", nil)
	a := n.wallet(t, 1_000)
	b := n.wallet(t, 0)
	_, err := n.offline.CreateOffline(ctx, ports.OfflineRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: 100})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	locker := mocks.NewMockSyncLocker(ctrl)
	locker.EXPECT().TryLock(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, false, nil).Times(3)
	svc := NewSyncService(n.offline, n.ledger, n.treasury, n.pendings, n.txns, n.compliance, nil, locker,
		NewAuditService(nil, newTestLogger()), nil, config.SyncConfig{}, "FI-A", newTestLogger())

	report, err := svc.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.SkippedLocked)
	assert.Zero(t, report.Committed)
	assert.Equal(t, int64(100), n.account(t, a.ID).ReservedOfflineBalance)
}

func TestSyncService_SubWalletRollUp(t *testing.T) {
	ctx := context.Background()
	n := newFINode(t, "FI-A", nil)
	w := n.wallet(t, 2_000)
	b := n.wallet(t, 0)
	sw, err := n.accountSvc.RegisterSubWallet(ctx, ports.RegisterSubWalletRequest{WalletID: w.ID, DeviceType: "watch"})
	require.NoError(t, err)
	_, err = n.accountSvc.AllocateToSubWallet(ctx, sw.ID, 800)
	require.NoError(t, err)

	p, err := n.offline.CreateOffline(ctx, ports.OfflineRequest{FromAccountID: sw.ID, ToAccountID: b.ID, Amount: 200})
	require.NoError(t, err)

	report, err := n.sync.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Committed)
	assert.Equal(t, 1, report.RolledUp)

	tx, err := n.txns.GetByID(ctx, domain.SettlementTxID(p.ID))
	require.NoError(t, err)
	assert.True(t, tx.SyncedToFI)

	parent := n.account(t, w.ID)
	assert.Equal(t, int64(200), parent.Compliance.DailySpent)
	assert.Equal(t, 1, parent.Compliance.OfflineTxCount)
	assert.Equal(t, int64(200), n.account(t, sw.ID).Compliance.DailySpent)

	again, err := n.sync.SyncAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.RolledUp)
	assert.Equal(t, int64(200), n.account(t, w.ID).Compliance.DailySpent)
	n.requireBalanced(t)
}

func TestSyncService_CrossFIEndToEnd(t *testing.T) {
	ctx := context.Background()
	net := newNetwork(t, "FI-A", "FI-B")
	net.fund(t, "FI-A", 10_000)
	fa, fb := net.fis["FI-A"], net.fis["FI-B"]
	a := fa.wallet(t, 1_000)
	b := fb.wallet(t, 0)

	p, err := fa.offline.CreateOffline(ctx, ports.OfflineRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: 300, TargetFI: "FI-B"})
	require.NoError(t, err)

	report, err := fa.sync.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Committed)
	assert.Equal(t, 1, report.ReportedToCB)

	txID := domain.SettlementTxID(p.ID)
	local, err := fa.txns.GetByID(ctx, txID)
	require.NoError(t, err)
	assert.True(t, local.SyncedToCB)
	assert.True(t, local.Settled)

	delivery, err := net.cb.svc.DeliverPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, delivery.Delivered)
	assert.Equal(t, int64(300), fb.account(t, b.ID).Balance)

	cbRow, err := net.cb.txns.GetByID(ctx, txID)
	require.NoError(t, err)
	assert.True(t, cbRow.Settled)

	fiB, err := net.cb.svc.GetFI(ctx, "FI-B")
	require.NoError(t, err)
	assert.Equal(t, int64(300), fiB.AvailableBalance)
	net.requireBalanced(t)

	// Nothing is reported or delivered twice.
	report, err = fa.sync.SyncAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.ReportedToCB)
	delivery, err = net.cb.svc.DeliverPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, delivery.Delivered)
	assert.Equal(t, int64(300), fb.account(t, b.ID).Balance)
}

func TestSyncService_CentralBankDownDefers(t *testing.T) {
	ctx := context.Background()
	net := newNetwork(t, "FI-A", "FI-B")
	net.fund(t, "FI-A", 10_000)
	fa := net.fis["FI-A"]
	a := fa.wallet(t, 1_000)
	b := fa.wallet(t, 0)

	_, err := fa.accountSvc.Transfer(ctx, ports.TransferRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: 50})
	require.NoError(t, err)

	cb := fa.sync.cb.(*directCB)
	cb.setDown(true)
	report, err := fa.sync.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deferred)
	assert.Zero(t, report.ReportedToCB)

	cb.setDown(false)
	report, err = fa.sync.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.ReportedToCB)
}

func TestSyncService_CentralBankRejectionRefundsSender(t *testing.T) {
	ctx := context.Background()
	net := newNetwork(t, "FI-A", "FI-B")
	net.fund(t, "FI-A", 10_000)
	fa, fb := net.fis["FI-A"], net.fis["FI-B"]
	a := fa.wallet(t, 1_000)
	b := fb.wallet(t, 0)

	tx, err := fa.accountSvc.Transfer(ctx, ports.TransferRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: 300, TargetFI: "FI-B"})
	require.NoError(t, err)
	assert.Equal(t, int64(700), fa.account(t, a.ID).Balance)

	_, err = net.cb.svc.SetFIStatus(ctx, "FI-B", domain.FIStatusSuspended)
	require.NoError(t, err)

	report, err := fa.sync.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.RejectedByCB)

	rejected, err := fa.txns.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, rejected.Rejected)
	assert.NotEmpty(t, rejected.RejectReason)

	refund, err := fa.txns.GetByID(ctx, domain.RefundTxID(tx.ID))
	require.NoError(t, err)
	require.NotNil(t, refund)
	assert.Equal(t, a.ID, refund.ToAccountID)

	sender := fa.account(t, a.ID)
	assert.Equal(t, int64(1_000), sender.Balance)
	assert.Equal(t, int64(300), sender.Compliance.DailySpent, "counters are not rolled back")

	fi, err := fa.treasury.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), fi.AllocatedFunds)
	net.requireBalanced(t)

	// The rejected transaction is never reported again.
	report, err = fa.sync.SyncAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.RejectedByCB)
	assert.Equal(t, int64(1_000), fa.account(t, a.ID).Balance)
}

func TestSyncService_DeliveryRejectionReversesToSender(t *testing.T) {
	ctx := context.Background()
	net := newNetwork(t, "FI-A", "FI-B")
	net.fund(t, "FI-A", 10_000)
	fa, fb := net.fis["FI-A"], net.fis["FI-B"]
	a := fa.wallet(t, 1_000)
	b := fb.wallet(t, 0)

	tx, err := fa.accountSvc.Transfer(ctx, ports.TransferRequest{FromAccountID: a.ID, ToAccountID: b.ID, Amount: 300, TargetFI: "FI-B"})
	require.NoError(t, err)
	_, err = fb.accountSvc.SetStatus(ctx, b.ID, domain.AccountStatusRevoked)
	require.NoError(t, err)

	report, err := fa.sync.SyncAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.ReportedToCB)

	delivery, err := net.cb.svc.DeliverPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, delivery.Rejected)

	cbRow, err := net.cb.txns.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, cbRow.Rejected)
	fiA, err := net.cb.svc.GetFI(ctx, "FI-A")
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), fiA.AvailableBalance)

	// The queued reversal reaches the sender on the next pass.
	delivery, err = net.cb.svc.DeliverPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, delivery.Delivered)
	assert.Equal(t, int64(1_000), fa.account(t, a.ID).Balance)
	assert.Zero(t, fb.account(t, b.ID).Balance)

	fi, err := fa.treasury.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), fi.AllocatedFunds)
	net.requireBalanced(t)

	delivery, err = net.cb.svc.DeliverPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, delivery.Delivered+delivery.Rejected)
}

func TestSyncService_DeliveryDeferredWhileFIDown(t *testing.T) {
	ctx := context.Background()
	net := newNetwork(t, "FI-A")
	_, err := net.cb.svc.AllocateToFI(ctx, "FI-A", 5_000)
	require.NoError(t, err)

	net.fwd.setDown("FI-A", true)
	delivery, err := net.cb.svc.DeliverPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, delivery.Deferred)

	fi, err := net.fis["FI-A"].treasury.Get(ctx)
	require.NoError(t, err)
	assert.Zero(t, fi.AllocatedFunds)

	net.fwd.setDown("FI-A", false)
	delivery, err = net.cb.svc.DeliverPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, delivery.Delivered)
	fi, err = net.fis["FI-A"].treasury.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), fi.AllocatedFunds)
	net.requireBalanced(t)
}
