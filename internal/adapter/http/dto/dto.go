package dto

// LoginRequest is the request body for operator login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required" sanitize:"-"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CreateWalletRequest is the request body for wallet creation.
type CreateWalletRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	DailyLimit int64  `json:"daily_limit" binding:"gte=0"`
}

// RegisterSubWalletRequest is the request body for binding a device to a wallet.
type RegisterSubWalletRequest struct {
	DeviceType    string `json:"device_type" binding:"required,max=50,safe_id"`
	DeviceName    string `json:"device_name" binding:"max=100"`
	SpendingLimit int64  `json:"spending_limit" binding:"gte=0"`
}

// AmountRequest is the request body for allocations and returns.
type AmountRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// SetStatusRequest is the request body for freezing, unfreezing and revoking.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active frozen revoked"`
}

// SetModeRequest switches an account between online and offline mode.
type SetModeRequest struct {
	Offline *bool `json:"offline" binding:"required"`
}

// TransferRequest is the request body for online and offline transfers.
type TransferRequest struct {
	FromAccountID string `json:"from_account_id" binding:"required,uuid"`
	ToAccountID   string `json:"to_account_id" binding:"required,uuid"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	TargetFI      string `json:"target_fi,omitempty" binding:"omitempty,max=64,safe_id"`
}

// RegisterFIRequest is the request body for registering an FI with the central bank.
type RegisterFIRequest struct {
	ID           string `json:"id" binding:"required,max=64,safe_id"`
	Name         string `json:"name" binding:"required,min=1,max=100"`
	Endpoint     string `json:"endpoint" binding:"required,safe_url" sanitize:"-"`
	PublicKey    string `json:"public_key,omitempty" binding:"omitempty,hexadecimal"`
	SharedSecret string `json:"shared_secret" binding:"required,min=32,max=256" sanitize:"-"`
}

// SetFIStatusRequest is the request body for suspending or reinstating an FI.
type SetFIStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended"`
}

// AccountResponse is the operator view of an account.
type AccountResponse struct {
	ID                     string  `json:"id"`
	FIID                   string  `json:"fi_id"`
	Kind                   string  `json:"kind"`
	OwnerAccountID         *string `json:"owner_account_id,omitempty"`
	Name                   string  `json:"name"`
	DeviceType             string  `json:"device_type,omitempty"`
	DeviceName             string  `json:"device_name,omitempty"`
	Balance                int64   `json:"balance"`
	ReservedOfflineBalance int64   `json:"reserved_offline_balance"`
	ReservedOfflineCount   int     `json:"reserved_offline_count"`
	SpendingLimit          int64   `json:"spending_limit,omitempty"`
	Status                 string  `json:"status"`
	IsOfflineMode          bool    `json:"is_offline_mode"`
	PublicKey              string  `json:"public_key"`
	CreatedAt              string  `json:"created_at"`
	UpdatedAt              string  `json:"updated_at"`
}

// TransactionResponse is the operator view of a ledger entry.
type TransactionResponse struct {
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	FromAccountID *string `json:"from_account_id,omitempty"`
	ToAccountID   string  `json:"to_account_id"`
	Amount        int64   `json:"amount"`
	SourceFI      string  `json:"source_fi,omitempty"`
	TargetFI      string  `json:"target_fi,omitempty"`
	IsOffline     bool    `json:"is_offline"`
	Settled       bool    `json:"settled"`
	SyncedToFI    bool    `json:"synced_to_fi"`
	SyncedToCB    bool    `json:"synced_to_cb"`
	Rejected      bool    `json:"rejected,omitempty"`
	RejectReason  string  `json:"reject_reason,omitempty"`
	PendingID     *string `json:"pending_id,omitempty"`
	Nullifier     string  `json:"nullifier,omitempty"`
	Timestamp     string  `json:"timestamp"`
}

// PendingResponse is the operator view of an offline reservation. The proof
// itself stays on the node.
type PendingResponse struct {
	ID            string  `json:"id"`
	FromAccountID string  `json:"from_account_id"`
	ToAccountID   string  `json:"to_account_id"`
	TargetFI      string  `json:"target_fi,omitempty"`
	Amount        int64   `json:"amount"`
	Nullifier     string  `json:"nullifier"`
	Counter       uint64  `json:"monotonic_counter"`
	Status        string  `json:"status"`
	RejectReason  string  `json:"reject_reason,omitempty"`
	CommittedTxID *string `json:"committed_tx_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
	ResolvedAt    *string `json:"resolved_at,omitempty"`
}

// FIResponse is the central bank view of a registered FI. Secrets are never
// returned.
type FIResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Endpoint         string `json:"endpoint"`
	PublicKey        string `json:"public_key,omitempty"`
	AllocatedFunds   int64  `json:"allocated_funds"`
	AvailableBalance int64  `json:"available_balance"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}
