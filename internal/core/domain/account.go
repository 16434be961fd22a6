package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AccountKind distinguishes user wallets from device sub-wallets.
type AccountKind string

const (
	AccountKindWallet    AccountKind = "wallet"
	AccountKindSubWallet AccountKind = "subwallet"
)

// AccountStatus represents the usability of an account.
type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "active"
	AccountStatusFrozen  AccountStatus = "frozen"
	AccountStatusRevoked AccountStatus = "revoked"
)

// Account generalizes wallets and sub-wallets. Compliance counters are embedded
// so they change under the same per-account lock as the balance.
type Account struct {
	ID                     uuid.UUID         `json:"id"`
	FIID                   string            `json:"fi_id"`
	Kind                   AccountKind       `json:"kind"`
	OwnerAccountID         *uuid.UUID        `json:"owner_account_id,omitempty"`
	Name                   string            `json:"name"`
	DeviceType             string            `json:"device_type,omitempty"`
	DeviceName             string            `json:"device_name,omitempty"`
	Balance                int64             `json:"balance"`
	ReservedOfflineBalance int64             `json:"reserved_offline_balance"`
	ReservedOfflineCount   int               `json:"reserved_offline_count"`
	SpendingLimit          int64             `json:"spending_limit,omitempty"`
	DailyLimit             int64             `json:"daily_limit,omitempty"` // 0 = configured default
	Compliance             ComplianceCounter `json:"compliance"`
	MonotonicCounter       uint64            `json:"monotonic_counter"`
	TotalCredited          int64             `json:"total_credited"`
	Status                 AccountStatus     `json:"status"`
	IsOfflineMode          bool              `json:"is_offline_mode"`
	PublicKey              string            `json:"public_key"`
	SigningKeyEnc          string            `json:"-"` // AES-256-GCM encrypted ed25519 seed
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}

// IsActive returns true if the account may be debited.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// IsSubWallet returns true for device-delegated accounts.
func (a *Account) IsSubWallet() bool {
	return a.Kind == AccountKindSubWallet
}

// Credit adds settled funds.
func (a *Account) Credit(amount int64) {
	a.Balance += amount
	a.TotalCredited += amount
}

// Debit removes settled funds. The caller checks sufficiency first.
func (a *Account) Debit(amount int64) {
	a.Balance -= amount
}

// Reserve moves amount from the spendable balance into the offline reservation
// and advances the anti-replay counter. It returns the new counter value.
func (a *Account) Reserve(amount int64) uint64 {
	a.Balance -= amount
	a.ReservedOfflineBalance += amount
	a.ReservedOfflineCount++
	a.MonotonicCounter++
	return a.MonotonicCounter
}

// SettleReservation consumes a reservation whose funds have left the account.
func (a *Account) SettleReservation(amount int64) {
	a.ReservedOfflineBalance -= amount
	a.ReservedOfflineCount--
}

// ReleaseReservation returns a reservation to the spendable balance.
func (a *Account) ReleaseReservation(amount int64) {
	a.ReservedOfflineBalance -= amount
	a.ReservedOfflineCount--
	a.Balance += amount
}

// NextCounter advances the anti-replay counter for an online proof.
func (a *Account) NextCounter() uint64 {
	a.MonotonicCounter++
	return a.MonotonicCounter
}

// Validate checks the balance invariants.
func (a *Account) Validate() error {
	if a.Balance < 0 {
		return fmt.Errorf("account %s: negative balance %d", a.ID, a.Balance)
	}
	if a.ReservedOfflineBalance < 0 || a.ReservedOfflineCount < 0 {
		return fmt.Errorf("account %s: negative reservation", a.ID)
	}
	if a.Balance+a.ReservedOfflineBalance > a.TotalCredited {
		return fmt.Errorf("account %s: holds %d but only %d was ever credited",
			a.ID, a.Balance+a.ReservedOfflineBalance, a.TotalCredited)
	}
	if a.IsSubWallet() && a.Balance > a.SpendingLimit {
		return fmt.Errorf("sub-wallet %s: balance %d above spending limit %d", a.ID, a.Balance, a.SpendingLimit)
	}
	return nil
}
