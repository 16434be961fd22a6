package domain

import "time"

// FIStatus represents whether an FI may transact.
type FIStatus string

const (
	FIStatusActive    FIStatus = "active"
	FIStatusSuspended FIStatus = "suspended"
)

// FIRecord is a financial institution as seen by the central bank. On an FI
// node the record whose ID equals the node id is the FI's own treasury.
type FIRecord struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Endpoint         string    `json:"endpoint"`
	PublicKey        string    `json:"public_key,omitempty"`
	SharedSecretEnc  string    `json:"-"` // AES-256-GCM encrypted HMAC secret
	AllocatedFunds   int64     `json:"allocated_funds"`
	AvailableBalance int64     `json:"available_balance"`
	Status           FIStatus  `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsActive returns true if the FI may send and receive funds.
func (f *FIRecord) IsActive() bool {
	return f.Status == FIStatusActive
}

// ResolvedAccount answers a receiver-existence query.
type ResolvedAccount struct {
	Exists    bool          `json:"exists"`
	AccountID string        `json:"account_id"`
	Kind      AccountKind   `json:"kind,omitempty"`
	Status    AccountStatus `json:"status,omitempty"`
	IsLocal   bool          `json:"is_local"`
	OwnerFI   string        `json:"owner_fi,omitempty"`
}

// CanReceive returns true if funds may be sent to the resolved account.
// Sub-wallets are funded only by allocation from their parent wallet.
func (r *ResolvedAccount) CanReceive() bool {
	return r.Exists && r.Kind == AccountKindWallet && r.Status != AccountStatusRevoked
}

// MoneySupply is the central bank's conservation report.
type MoneySupply struct {
	TotalIssued    int64 `json:"total_issued"`
	TotalAvailable int64 `json:"total_available_at_fis"`
	FICount        int   `json:"fi_count"`
	IsBalanced     bool  `json:"is_balanced"`
}

// ConservationReport is an FI node's conservation check.
type ConservationReport struct {
	FIID              string `json:"fi_id"`
	AccountBalances   int64  `json:"account_balances"`
	Reserved          int64  `json:"reserved_offline"`
	TreasuryAvailable int64  `json:"treasury_available"`
	NetInflow         int64  `json:"net_inflow"`
	IsBalanced        bool   `json:"is_balanced"`
}
