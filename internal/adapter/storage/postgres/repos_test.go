package postgres

import (
	"context"
	"testing"
	"time"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func newTestAccount() *domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Account{
		ID:               uuid.New(),
		FIID:             "FI-001",
		Kind:             domain.AccountKindWallet,
		Name:             "alice",
		Balance:          900,
		TotalCredited:    1000,
		MonotonicCounter: 3,
		Status:           domain.AccountStatusActive,
		PublicKey:        "ab12",
		Compliance:       domain.ComplianceCounter{DailySpent: 100, LastDailyReset: now, LastMonthlyReset: now},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func accountRow(a *domain.Account) *pgxmock.Rows {
	cols := []string{"id", "fi_id", "kind", "owner_account_id", "name", "device_type", "device_name",
		"balance", "reserved_offline_balance", "reserved_offline_count", "spending_limit", "daily_limit",
		"daily_spent", "monthly_spent", "daily_tx_count", "offline_tx_count", "last_daily_reset", "last_monthly_reset",
		"monotonic_counter", "total_credited", "status", "is_offline_mode", "public_key", "signing_key_enc",
		"created_at", "updated_at"}
	return pgxmock.NewRows(cols).AddRow(
		a.ID, a.FIID, a.Kind, a.OwnerAccountID, a.Name, a.DeviceType, a.DeviceName,
		a.Balance, a.ReservedOfflineBalance, a.ReservedOfflineCount, a.SpendingLimit, a.DailyLimit,
		a.Compliance.DailySpent, a.Compliance.MonthlySpent, a.Compliance.DailyTxCount, a.Compliance.OfflineTxCount,
		a.Compliance.LastDailyReset, a.Compliance.LastMonthlyReset,
		int64(a.MonotonicCounter), a.TotalCredited, a.Status, a.IsOfflineMode, a.PublicKey, a.SigningKeyEnc,
		a.CreatedAt, a.UpdatedAt,
	)
}

func TestAccountRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := newTestAccount()
	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(anyArgs(26)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewAccountRepo(mock).Create(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := newTestAccount()
	mock.ExpectQuery("SELECT .+ FROM accounts WHERE id").
		WithArgs(a.ID).
		WillReturnRows(accountRow(a))

	got, err := NewAccountRepo(mock).GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.Balance, got.Balance)
	assert.Equal(t, uint64(3), got.MonotonicCounter)
	assert.Equal(t, int64(100), got.Compliance.DailySpent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByIDForUpdate_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM accounts WHERE id .+ FOR UPDATE").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	got, err := NewAccountRepo(mock).GetByIDForUpdate(context.Background(), tx, id)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := newTestAccount()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET balance").
		WithArgs(anyArgs(16)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = NewAccountRepo(mock).Update(context.Background(), tx, a)
	assert.ErrorContains(t, err, "account not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Totals(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(balance\\)").
		WillReturnRows(pgxmock.NewRows([]string{"balance", "reserved", "count"}).AddRow(int64(700), int64(300), int64(4)))

	totals, err := NewAccountRepo(mock).Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &ports.AccountTotals{Balance: 700, Reserved: 300, Count: 4}, totals)
}

func TestTransactionRepo_Create(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"inserted", 1, true},
		{"duplicate id", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectBegin()
			mock.ExpectExec("INSERT INTO transactions .+ ON CONFLICT \\(id\\) DO NOTHING").
				WithArgs(anyArgs(17)...).
				WillReturnResult(pgxmock.NewResult("INSERT", tt.affected))

			tx, err := mock.Begin(context.Background())
			require.NoError(t, err)

			inserted, err := NewTransactionRepo(mock).Create(context.Background(), tx,
				&domain.Transaction{ID: uuid.New(), Amount: 10, Kind: domain.TransactionKindTransfer, Timestamp: time.Now()})
			require.NoError(t, err)
			assert.Equal(t, tt.want, inserted)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTransactionRepo_MarkFlags(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transactions SET synced_to_cb = TRUE, settled = TRUE WHERE id").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	repo := NewTransactionRepo(mock)
	require.NoError(t, repo.MarkFlags(context.Background(), tx, id, domain.SyncFlagSyncedToCB, domain.SyncFlagSettled))
	assert.Error(t, repo.MarkFlags(context.Background(), tx, id, domain.SyncFlag("rejected")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListUnsynced(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	from := uuid.New()
	txn := domain.Transaction{
		ID: uuid.New(), FromAccountID: &from, ToAccountID: uuid.New(), Amount: 5,
		Kind: domain.TransactionKindTransfer, SyncedToFI: true, Timestamp: time.Now().UTC(),
	}
	cols := []string{"id", "from_account_id", "to_account_id", "amount", "kind", "source_fi", "target_fi",
		"pending_id", "nullifier", "proof", "sender_public_key", "settled", "synced_to_fi", "synced_to_cb",
		"rejected", "reject_reason", "timestamp"}

	mock.ExpectQuery("FROM transactions WHERE rejected = FALSE AND synced_to_cb = FALSE AND synced_to_fi = TRUE ORDER BY timestamp LIMIT").
		WithArgs(50).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(
			txn.ID, txn.FromAccountID, txn.ToAccountID, txn.Amount, txn.Kind, txn.SourceFI, txn.TargetFI,
			txn.PendingID, txn.Nullifier, txn.Proof, txn.SenderPublicKey, txn.Settled, txn.SyncedToFI, txn.SyncedToCB,
			txn.Rejected, txn.RejectReason, txn.Timestamp,
		))

	got, err := NewTransactionRepo(mock).ListUnsynced(context.Background(), ports.UnsyncedQuery{
		Missing:  domain.SyncFlagSyncedToCB,
		Requires: []domain.SyncFlag{domain.SyncFlagSyncedToFI},
		Limit:    50,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, txn.ID, got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingRepo_Resolve(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	txID := uuid.New()
	p := &domain.PendingOfflineTransaction{
		ID: uuid.New(), Status: domain.PendingStatusCommitted, CommittedTxID: &txID, ResolvedAt: &now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE pending_offline_transactions").
		WithArgs(p.Status, p.RejectReason, p.CommittedTxID, p.ResolvedAt, p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, NewPendingRepo(mock).Resolve(context.Background(), tx, p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNullifierRepo_Insert(t *testing.T) {
	t.Run("first registration wins", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		n := &domain.Nullifier{Value: "NUL-a", SourceAccountID: uuid.New(), CommittedTransactionID: uuid.New(), Amount: 5, CreatedAt: time.Now()}
		mock.ExpectExec("INSERT INTO nullifiers .+ ON CONFLICT \\(value\\) DO NOTHING").
			WithArgs(n.Value, n.SourceAccountID, n.CommittedTransactionID, n.Amount, n.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		inserted, existing, err := NewNullifierRepo(mock).Insert(context.Background(), n)
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.Nil(t, existing)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict returns the winner", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		winner := domain.Nullifier{Value: "NUL-a", SourceAccountID: uuid.New(), CommittedTransactionID: uuid.New(), Amount: 5, CreatedAt: time.Now().UTC()}
		mock.ExpectExec("INSERT INTO nullifiers").
			WithArgs(anyArgs(5)...).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mock.ExpectQuery("SELECT .+ FROM nullifiers WHERE value").
			WithArgs("NUL-a").
			WillReturnRows(pgxmock.NewRows([]string{"value", "source_account_id", "committed_transaction_id", "amount", "created_at"}).
				AddRow(winner.Value, winner.SourceAccountID, winner.CommittedTransactionID, winner.Amount, winner.CreatedAt))

		inserted, existing, err := NewNullifierRepo(mock).Insert(context.Background(),
			&domain.Nullifier{Value: "NUL-a", CommittedTransactionID: uuid.New(), CreatedAt: time.Now()})
		require.NoError(t, err)
		assert.False(t, inserted)
		require.NotNil(t, existing)
		assert.Equal(t, winner.CommittedTransactionID, existing.CommittedTransactionID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFIRepo_GetByIDForUpdateAndUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	fi := &domain.FIRecord{ID: "FI-001", Name: "First", Endpoint: "http://fi1", AllocatedFunds: 1000,
		AvailableBalance: 400, Status: domain.FIStatusActive, CreatedAt: now, UpdatedAt: now}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM fi_records WHERE id .+ FOR UPDATE").
		WithArgs("FI-001").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "endpoint", "public_key", "shared_secret_enc",
			"allocated_funds", "available_balance", "status", "created_at", "updated_at"}).
			AddRow(fi.ID, fi.Name, fi.Endpoint, fi.PublicKey, fi.SharedSecretEnc,
				fi.AllocatedFunds, fi.AvailableBalance, fi.Status, fi.CreatedAt, fi.UpdatedAt))
	mock.ExpectExec("UPDATE fi_records SET").
		WithArgs(fi.Endpoint, int64(1000), int64(300), fi.Status, pgxmock.AnyArg(), "FI-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	repo := NewFIRepo(mock)
	got, err := repo.GetByIDForUpdate(context.Background(), tx, "FI-001")
	require.NoError(t, err)
	got.AvailableBalance -= 100
	require.NoError(t, repo.Update(context.Background(), tx, got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	sev := domain.AuditSeveritySecurity
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM audit_logs WHERE severity").
		WithArgs("security").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM audit_logs WHERE severity .+ LIMIT").
		WithArgs("security", 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "actor", "action", "severity", "entity_type", "entity_id", "details", "ip_address", "created_at"}).
			AddRow(uuid.New(), "system", domain.AuditActionDoubleSpend, domain.AuditSeveritySecurity, "pending", "p1", "{}", "", time.Now()))

	logs, total, err := NewAuditRepository(mock).List(context.Background(), ports.AuditListParams{Severity: &sev, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditActionDoubleSpend, logs[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}
