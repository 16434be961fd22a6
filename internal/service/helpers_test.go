package service

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"cbdc-settlement/config"
	"cbdc-settlement/internal/adapter/storage/memory"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testAESKey    = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	testCBID      = "CB"
	testFISecret  = "shared-secret-for-tests-32-chars-min"
	testAllocated = int64(1_000_000)
)

var testLimits = config.ComplianceConfig{
	SingleTxLimit:                 10_000,
	DailyLimit:                    50_000,
	MonthlyLimit:                  500_000,
	OfflineTxLimit:                5_000,
	OfflineDailyCount:             10,
	IoTDeviceLimit:                1_000,
	SubWalletBalanceCeiling:       5_000,
	DefaultSubWalletSpendingLimit: 2_000,
}

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func newTestEncryption(t *testing.T) *AESEncryptionService {
	t.Helper()
	enc, err := NewAESEncryptionService(testAESKey)
	require.NoError(t, err)
	return enc
}

// fiNode is one FI wired on the in-memory store.
type fiNode struct {
	id         string
	store      *memory.Store
	accounts   *memory.AccountRepo
	txns       *memory.TransactionRepo
	pendings   *memory.PendingRepo
	ledger     *Ledger
	treasury   *Treasury
	proofs     *Ed25519ProofService
	compliance *ComplianceServiceImpl
	nullifiers *NullifierServiceImpl
	resolver   *AccountResolverImpl
	offline    *OfflineServiceImpl
	accountSvc *AccountServiceImpl
	settlement *SettlementServiceImpl
	reporting  *ReportingServiceImpl
	sync       *SyncServiceImpl
	metrics    *metrics.Metrics
}

func newFINode(t *testing.T, id string, cb ports.CentralBankClient) *fiNode {
	t.Helper()
	log := newTestLogger()
	enc := newTestEncryption(t)
	m := metrics.New(prometheus.NewRegistry())

	store := memory.NewStore()
	n := &fiNode{
		id:       id,
		store:    store,
		accounts: memory.NewAccountRepo(store),
		txns:     memory.NewTransactionRepo(store),
		pendings: memory.NewPendingRepo(store),
		metrics:  m,
	}
	fis := memory.NewFIRepo(store)
	audit := NewAuditService(memory.NewAuditRepo(store), log)
	t.Cleanup(audit.Wait)

	n.ledger = NewLedger(memory.NewTransactor(store), n.accounts)
	n.treasury = NewTreasury(fis, id)
	_, err := n.treasury.Ensure(context.Background(), id, "http://"+id)
	require.NoError(t, err)

	n.proofs = NewEd25519ProofService(config.ProofConfig{MaxClockSkew: time.Second, MaxAge: 72 * time.Hour})
	n.compliance = NewComplianceService(n.ledger, testLimits, m)
	n.nullifiers = NewNullifierService(memory.NewNullifierStore(store), "fi", m, log)
	n.resolver = NewAccountResolver(n.accounts, cb, id, time.Second, log)
	n.offline = NewOfflineService(n.ledger, n.treasury, n.pendings, n.txns, n.compliance, n.nullifiers, n.proofs, n.resolver, enc, audit, m, id, log)
	n.accountSvc = NewAccountService(n.ledger, n.accounts, n.txns, n.treasury, n.compliance, n.nullifiers, n.proofs, n.resolver, enc, audit, testLimits, id, log)
	n.settlement = NewSettlementService(n.ledger, n.treasury, n.txns, n.nullifiers, n.proofs, n.resolver, nil, audit, id, log)
	n.reporting = NewReportingService(n.accounts, n.txns, n.treasury)
	n.sync = NewSyncService(n.offline, n.ledger, n.treasury, n.pendings, n.txns, n.compliance, cb, memory.NewSyncLocker(), audit, m,
		config.SyncConfig{Concurrency: 4, LockTTL: time.Minute, BatchSize: 100}, id, log)
	return n
}

// receiveAllocation books central bank funds straight into the treasury.
func (n *fiNode) receiveAllocation(t *testing.T, amount int64) {
	t.Helper()
	ack, err := n.settlement.Receive(context.Background(), &domain.Transaction{
		ID:       uuid.New(),
		Amount:   amount,
		Kind:     domain.TransactionKindCredit,
		SourceFI: testCBID,
		TargetFI: n.id,
	})
	require.NoError(t, err)
	require.Equal(t, domain.SettlementAccepted, ack.Outcome)
}

// wallet creates an active wallet funded from the treasury.
func (n *fiNode) wallet(t *testing.T, balance int64) *domain.Account {
	t.Helper()
	ctx := context.Background()
	a, err := n.accountSvc.CreateWallet(ctx, ports.CreateWalletRequest{Name: "wallet"})
	require.NoError(t, err)
	if balance > 0 {
		fi, err := n.treasury.Get(ctx)
		require.NoError(t, err)
		if fi.AvailableBalance < balance {
			n.receiveAllocation(t, balance)
		}
		_, err = n.accountSvc.AllocateToWallet(ctx, a.ID, balance)
		require.NoError(t, err)
	}
	return n.account(t, a.ID)
}

func (n *fiNode) account(t *testing.T, id uuid.UUID) *domain.Account {
	t.Helper()
	a, err := n.accounts.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a
}

func (n *fiNode) requireBalanced(t *testing.T) {
	t.Helper()
	r, err := n.reporting.Conservation(context.Background())
	require.NoError(t, err)
	require.Truef(t, r.IsBalanced, "conservation broken on %s: %+v", n.id, r)
}

// cbNode is the central bank wired on its own in-memory store.
type cbNode struct {
	store   *memory.Store
	fis     *memory.FIRepo
	txns    *memory.TransactionRepo
	svc     *CentralBankServiceImpl
	metrics *metrics.Metrics
}

// network is a central bank and its FIs talking through in-process ports.
type network struct {
	cb  *cbNode
	fwd *directForwarder
	fis map[string]*fiNode
}

func newNetwork(t *testing.T, fiIDs ...string) *network {
	t.Helper()
	ctx := context.Background()
	log := newTestLogger()
	enc := newTestEncryption(t)
	m := metrics.New(prometheus.NewRegistry())

	store := memory.NewStore()
	cb := &cbNode{store: store, fis: memory.NewFIRepo(store), txns: memory.NewTransactionRepo(store), metrics: m}
	fwd := &directForwarder{nodes: map[string]*fiNode{}, down: map[string]bool{}}
	audit := NewAuditService(nil, log)
	cb.svc = NewCentralBankService(memory.NewTransactor(store), cb.fis, cb.txns,
		NewNullifierService(memory.NewNullifierStore(store), "central_bank", m, log),
		NewEd25519ProofService(config.ProofConfig{MaxClockSkew: time.Second}),
		fwd, enc, audit, m, 4, 100, testCBID, log)

	net := &network{cb: cb, fwd: fwd, fis: map[string]*fiNode{}}
	for _, id := range fiIDs {
		_, err := cb.svc.RegisterFI(ctx, ports.RegisterFIRequest{ID: id, Name: id, Endpoint: "http://" + id, SharedSecret: testFISecret})
		require.NoError(t, err)
		node := newFINode(t, id, &directCB{cb: cb.svc})
		net.fis[id] = node
		fwd.nodes[id] = node
	}
	return net
}

// fund issues amount to fiID at the central bank and delivers it.
func (net *network) fund(t *testing.T, fiID string, amount int64) {
	t.Helper()
	ctx := context.Background()
	_, err := net.cb.svc.AllocateToFI(ctx, fiID, amount)
	require.NoError(t, err)
	_, err = net.cb.svc.DeliverPending(ctx)
	require.NoError(t, err)
}

func (net *network) requireBalanced(t *testing.T) {
	t.Helper()
	ms, err := net.cb.svc.MoneySupply(context.Background())
	require.NoError(t, err)
	require.Truef(t, ms.IsBalanced, "money supply broken: %+v", ms)
	for _, n := range net.fis {
		n.requireBalanced(t)
	}
}

// directCB is the FI's view of the central bank without HTTP.
type directCB struct {
	cb   *CentralBankServiceImpl
	mu   sync.Mutex
	down bool
}

func (d *directCB) setDown(down bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.down = down
}

func (d *directCB) isDown() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.down
}

func (d *directCB) ReportSettlements(ctx context.Context, batch domain.SettlementBatch) ([]domain.SettlementAck, error) {
	if d.isDown() {
		return nil, apperror.ErrRemoteUnavailable(io.ErrUnexpectedEOF)
	}
	var wire domain.SettlementBatch
	roundTrip(batch, &wire)
	return d.cb.AdmitSettlements(ctx, wire)
}

func (d *directCB) ResolveAccount(ctx context.Context, fiID string, accountID uuid.UUID) (*domain.ResolvedAccount, error) {
	if d.isDown() {
		return nil, apperror.ErrRemoteUnavailable(io.ErrUnexpectedEOF)
	}
	return d.cb.ResolveAccount(ctx, fiID, accountID)
}

// directForwarder is the central bank's view of FIs without HTTP.
type directForwarder struct {
	mu    sync.Mutex
	nodes map[string]*fiNode
	down  map[string]bool
}

func (f *directForwarder) setDown(fiID string, down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down[fiID] = down
}

func (f *directForwarder) node(fiID string) (*fiNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down[fiID] || f.nodes[fiID] == nil {
		return nil, apperror.ErrRemoteUnavailable(io.ErrUnexpectedEOF)
	}
	return f.nodes[fiID], nil
}

func (f *directForwarder) ForwardTransaction(ctx context.Context, fi *domain.FIRecord, t *domain.Transaction) (*domain.SettlementAck, error) {
	n, err := f.node(fi.ID)
	if err != nil {
		return nil, err
	}
	var wire domain.Transaction
	roundTrip(t, &wire)
	return n.settlement.Receive(ctx, &wire)
}

func (f *directForwarder) ResolveAccount(ctx context.Context, fi *domain.FIRecord, accountID uuid.UUID) (*domain.ResolvedAccount, error) {
	n, err := f.node(fi.ID)
	if err != nil {
		return nil, err
	}
	return n.settlement.ResolveLocal(ctx, accountID)
}

// roundTrip copies in to out through JSON, as the HTTP transport would.
func roundTrip(in, out any) {
	b, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		panic(err)
	}
}
