package domain

import "time"

// ComplianceCounter holds the rolling spend counters of one account.
type ComplianceCounter struct {
	DailySpent       int64     `json:"daily_spent"`
	MonthlySpent     int64     `json:"monthly_spent"`
	DailyTxCount     int       `json:"daily_tx_count"`
	OfflineTxCount   int       `json:"offline_tx_count"`
	LastDailyReset   time.Time `json:"last_daily_reset"`
	LastMonthlyReset time.Time `json:"last_monthly_reset"`
}

// ResetIfWindowElapsed zeroes the daily counters when the UTC date has rolled
// over since LastDailyReset, and the monthly counter on a month rollover.
// Every reader of the counters must call it first.
func (c *ComplianceCounter) ResetIfWindowElapsed(now time.Time) bool {
	now = now.UTC()
	changed := false

	if !sameDay(c.LastDailyReset, now) {
		c.DailySpent = 0
		c.DailyTxCount = 0
		c.OfflineTxCount = 0
		c.LastDailyReset = now
		changed = true
	}
	if !sameMonth(c.LastMonthlyReset, now) {
		c.MonthlySpent = 0
		c.LastMonthlyReset = now
		changed = true
	}
	return changed
}

// Record adds a committed spend to the counters.
func (c *ComplianceCounter) Record(amount int64, isOffline bool) {
	c.DailySpent += amount
	c.MonthlySpent += amount
	c.DailyTxCount++
	if isOffline {
		c.OfflineTxCount++
	}
}

func sameDay(a, b time.Time) bool {
	a = a.UTC()
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameMonth(a, b time.Time) bool {
	a = a.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Limit names reported in violations.
const (
	LimitSingleTx          = "single_tx_limit"
	LimitDaily             = "daily_limit"
	LimitMonthly           = "monthly_limit"
	LimitOfflineTx         = "offline_tx_limit"
	LimitOfflineDailyCount = "offline_daily_count"
	LimitIoTDevice         = "iot_device_limit"
)

// Violation describes one breached limit with the values that breached it.
type Violation struct {
	Limit     string `json:"limit"`
	Max       int64  `json:"max"`
	Current   int64  `json:"current"`
	Projected int64  `json:"projected"`
}

// ComplianceResult is the outcome of a compliance check.
type ComplianceResult struct {
	Compliant  bool        `json:"compliant"`
	Violations []Violation `json:"violations,omitempty"`
}

// ComplianceStatus reports the counters of an account and its remaining headroom.
type ComplianceStatus struct {
	AccountID        string            `json:"account_id"`
	Counter          ComplianceCounter `json:"counter"`
	DailyLimit       int64             `json:"daily_limit"`
	MonthlyLimit     int64             `json:"monthly_limit"`
	DailyRemaining   int64             `json:"daily_remaining"`
	MonthlyRemaining int64             `json:"monthly_remaining"`
	OfflineRemaining int               `json:"offline_count_remaining"`
}
