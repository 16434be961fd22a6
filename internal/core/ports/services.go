package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"crypto/ed25519"
	"time"

	"cbdc-settlement/internal/core/domain"

	"github.com/google/uuid"
)

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService handles HMAC-SHA256 signing of node-to-node requests.
type SignatureService interface {
	// DeriveKey turns a shared secret into the signing key of nodeID.
	DeriveKey(sharedSecret, nodeID string) string
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// HashService handles operator password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles operator JWT operations.
type TokenService interface {
	Generate(subject string, nodeID string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
	NodeID  string
}

// IdempotencyCache is the Redis-layer cache of settlement acks (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, nodeID string, nonce string, ttl time.Duration) (bool, error)
}

// SyncLocker keeps two sync passes off the same account at the same time.
type SyncLocker interface {
	// TryLock returns ok=false without blocking when the key is held elsewhere.
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(), ok bool, err error)
}

// ProofService produces and checks the proof attached to value transfers.
type ProofService interface {
	Generate(key ed25519.PrivateKey, subject domain.ProofSubject, claims ProofClaims) (*domain.Proof, error)
	// Verify returns nil only if proof is bound to subject and signed by expected.
	Verify(proof *domain.Proof, subject domain.ProofSubject, expected domain.SenderIdentity) error
}

// ProofClaims are the sender-side facts a proof asserts.
type ProofClaims struct {
	SenderID      uuid.UUID
	BalanceBefore int64
	Compliance    domain.ComplianceClaim
}

// AccountResolver answers resolveAccount for local and remote receivers.
// Remote failures resolve to Exists=false (fail closed).
type AccountResolver interface {
	ResolveAccount(ctx context.Context, accountID uuid.UUID, targetFI string) (*domain.ResolvedAccount, error)
}

// CentralBankClient is the FI node's view of the central bank.
type CentralBankClient interface {
	ReportSettlements(ctx context.Context, batch domain.SettlementBatch) ([]domain.SettlementAck, error)
	ResolveAccount(ctx context.Context, fiID string, accountID uuid.UUID) (*domain.ResolvedAccount, error)
}

// SettlementForwarder is the central bank's view of FI nodes.
type SettlementForwarder interface {
	// ForwardTransaction delivers t with its proof to fi. At-least-once;
	// the receiver deduplicates by t.ID.
	ForwardTransaction(ctx context.Context, fi *domain.FIRecord, t *domain.Transaction) (*domain.SettlementAck, error)
	ResolveAccount(ctx context.Context, fi *domain.FIRecord, accountID uuid.UUID) (*domain.ResolvedAccount, error)
}

// --- Service Ports (Business Logic) ---

// ComplianceService is the compliance engine.
type ComplianceService interface {
	CheckTransaction(ctx context.Context, accountID uuid.UUID, amount int64, isOffline bool) (*domain.ComplianceResult, error)
	RecordSpend(ctx context.Context, accountID uuid.UUID, amount int64, isOffline bool) error
	ResetIfWindowElapsed(ctx context.Context, accountID uuid.UUID) error
	GetStatus(ctx context.Context, accountID uuid.UUID) (*domain.ComplianceStatus, error)
	// Evaluate and Record operate on an account the caller already holds locked.
	Evaluate(account *domain.Account, amount int64, isOffline bool, now time.Time) domain.ComplianceResult
	Record(account *domain.Account, amount int64, isOffline bool, now time.Time)
	Claim(account *domain.Account, isOffline bool, now time.Time) domain.ComplianceClaim
}

// NullifierService is the double-spend registry.
type NullifierService interface {
	Register(ctx context.Context, nullifier string, sourceAccountID, transactionID uuid.UUID, amount int64) error
	Check(ctx context.Context, nullifier string) (bool, error)
	Get(ctx context.Context, nullifier string) (*domain.Nullifier, error)
}

// OfflineService is the offline transaction engine.
type OfflineService interface {
	CreateOffline(ctx context.Context, req OfflineRequest) (*domain.PendingOfflineTransaction, error)
	Commit(ctx context.Context, pendingID uuid.UUID) (*domain.Transaction, error)
	GetPending(ctx context.Context, pendingID uuid.UUID) (*domain.PendingOfflineTransaction, error)
	ListPending(ctx context.Context, accountID uuid.UUID, status *domain.PendingStatus) ([]domain.PendingOfflineTransaction, error)
}

// OfflineRequest holds validated input for an offline transfer.
type OfflineRequest struct {
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        int64
	TargetFI      string // empty or this node's id means local
}

// SyncService is the FI side of the tiered sync coordinator.
type SyncService interface {
	SyncAccount(ctx context.Context, accountID uuid.UUID) (*SyncReport, error)
	SyncAll(ctx context.Context) (*SyncReport, error)
	Run(ctx context.Context, interval time.Duration)
}

// SyncReport counts the outcome of one sync invocation per tier.
type SyncReport struct {
	Committed     int `json:"committed"`
	Rejected      int `json:"rejected"`
	DoubleSpends  int `json:"double_spends"`
	RolledUp      int `json:"rolled_up_to_wallet"`
	ReportedToCB  int `json:"reported_to_cb"`
	RejectedByCB  int `json:"rejected_by_cb"`
	Deferred      int `json:"deferred"`
	SkippedLocked int `json:"skipped_locked"`
}

// Add folds o into r.
func (r *SyncReport) Add(o *SyncReport) {
	if o == nil {
		return
	}
	r.Committed += o.Committed
	r.Rejected += o.Rejected
	r.DoubleSpends += o.DoubleSpends
	r.RolledUp += o.RolledUp
	r.ReportedToCB += o.ReportedToCB
	r.RejectedByCB += o.RejectedByCB
	r.Deferred += o.Deferred
	r.SkippedLocked += o.SkippedLocked
}

// AccountService manages wallets and sub-wallets on an FI node.
type AccountService interface {
	CreateWallet(ctx context.Context, req CreateWalletRequest) (*domain.Account, error)
	RegisterSubWallet(ctx context.Context, req RegisterSubWalletRequest) (*domain.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListSubWallets(ctx context.Context, walletID uuid.UUID) ([]domain.Account, error)
	AllocateToWallet(ctx context.Context, walletID uuid.UUID, amount int64) (*domain.Transaction, error)
	AllocateToSubWallet(ctx context.Context, subWalletID uuid.UUID, amount int64) (*domain.Transaction, error)
	ReturnFromSubWallet(ctx context.Context, subWalletID uuid.UUID, amount int64) (*domain.Transaction, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error)
	SetOfflineMode(ctx context.Context, id uuid.UUID, offline bool) (*domain.Account, error)
	Transfer(ctx context.Context, req TransferRequest) (*domain.Transaction, error)
}

// CreateWalletRequest holds input for wallet creation.
type CreateWalletRequest struct {
	Name       string
	DailyLimit int64
}

// RegisterSubWalletRequest holds input for registering an IoT sub-wallet.
type RegisterSubWalletRequest struct {
	WalletID      uuid.UUID
	DeviceType    string
	DeviceName    string
	SpendingLimit int64 // 0 = configured default
}

// TransferRequest holds input for an online transfer.
type TransferRequest struct {
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        int64
	TargetFI      string
}

// SettlementService receives cross-FI transfers and allocations on an FI node.
type SettlementService interface {
	Receive(ctx context.Context, t *domain.Transaction) (*domain.SettlementAck, error)
	ResolveLocal(ctx context.Context, accountID uuid.UUID) (*domain.ResolvedAccount, error)
}

// CentralBankService is the central bank node's business logic.
type CentralBankService interface {
	RegisterFI(ctx context.Context, req RegisterFIRequest) (*domain.FIRecord, error)
	GetFI(ctx context.Context, id string) (*domain.FIRecord, error)
	ListFIs(ctx context.Context) ([]domain.FIRecord, error)
	SetFIStatus(ctx context.Context, id string, status domain.FIStatus) (*domain.FIRecord, error)
	AllocateToFI(ctx context.Context, fiID string, amount int64) (*domain.Transaction, error)
	AdmitSettlements(ctx context.Context, batch domain.SettlementBatch) ([]domain.SettlementAck, error)
	ResolveAccount(ctx context.Context, fiID string, accountID uuid.UUID) (*domain.ResolvedAccount, error)
	DeliverPending(ctx context.Context) (*DeliveryReport, error)
	RunDelivery(ctx context.Context, interval time.Duration)
	MoneySupply(ctx context.Context) (*domain.MoneySupply, error)
	// FISecret returns the decrypted shared secret used to authenticate fiID.
	FISecret(ctx context.Context, fiID string) (string, error)
}

// RegisterFIRequest holds input for FI registration.
type RegisterFIRequest struct {
	ID           string
	Name         string
	Endpoint     string
	PublicKey    string
	SharedSecret string
}

// DeliveryReport counts the outcome of one CB → FI delivery pass.
type DeliveryReport struct {
	Delivered int `json:"delivered"`
	Rejected  int `json:"rejected"`
	Deferred  int `json:"deferred"`
}

// ReportingService serves ledger listings and conservation reports.
type ReportingService interface {
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	Conservation(ctx context.Context) (*domain.ConservationReport, error)
}

// AuditService records audit logs without failing the caller.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
	List(ctx context.Context, params AuditListParams) ([]domain.AuditLog, int64, error)
}

// AuthService authenticates operators.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}
