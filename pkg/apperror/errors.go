package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails attaches a client-visible payload and returns the same error.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Error codes that callers branch on.
const (
	CodeNotFound            = "LED_001"
	CodeFrozen              = "LED_002"
	CodeRevoked             = "LED_003"
	CodeInsufficientBalance = "LED_004"
	CodeInvalidReceiver     = "LED_005"
	CodeInvalidAmount       = "LED_006"
	CodeAccountOffline      = "LED_007"
	CodeLimitExceeded       = "LED_008"
	CodeComplianceViolation = "CMP_001"
	CodeDoubleSpend         = "DSP_001"
	CodeInvalidProof        = "DSP_002"
	CodePendingRejected     = "DSP_003"
	CodeRemoteUnavailable   = "NET_001"
	CodeSyncTimeout         = "NET_002"
	CodeSyncInProgress      = "NET_003"
)

// ---- Security & Authentication (SEC) ----

func ErrInvalidNodeID() *AppError {
	return New("SEC_001", "Unknown node", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("SEC_004", "Nonce has already been used", http.StatusForbidden)
}

// ---- Ledger (LED) ----

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrFrozen() *AppError {
	return New(CodeFrozen, "Account is frozen", http.StatusLocked)
}

func ErrRevoked() *AppError {
	return New(CodeRevoked, "Account is revoked", http.StatusGone)
}

func ErrInsufficientBalance() *AppError {
	return New(CodeInsufficientBalance, "Insufficient balance", http.StatusPaymentRequired)
}

func ErrInvalidReceiver(reason string) *AppError {
	return New(CodeInvalidReceiver, fmt.Sprintf("Invalid receiver: %s", reason), http.StatusUnprocessableEntity)
}

func ErrInvalidAmount() *AppError {
	return New(CodeInvalidAmount, "Amount must be positive", http.StatusBadRequest)
}

func ErrAccountOffline() *AppError {
	return New(CodeAccountOffline, "Account is in offline mode", http.StatusConflict)
}

func ErrSpendingLimitExceeded(limit int64) *AppError {
	return New(CodeLimitExceeded, fmt.Sprintf("Sub-wallet spending limit of %d exceeded", limit), http.StatusUnprocessableEntity)
}

// ---- Compliance (CMP) ----

// ErrComplianceViolation carries the violated limits so the caller can show
// the exact ceiling breached and the current counter value.
func ErrComplianceViolation(violations any) *AppError {
	return New(CodeComplianceViolation, "Transaction violates compliance limits", http.StatusUnprocessableEntity).
		WithDetails(violations)
}

// ---- Double spend & proofs (DSP) ----

func ErrDoubleSpendDetected(nullifier string) *AppError {
	return New(CodeDoubleSpend, fmt.Sprintf("Double spend detected for nullifier %s", nullifier), http.StatusConflict)
}

func ErrInvalidProof(err error) *AppError {
	return Wrap(CodeInvalidProof, "Proof verification failed", http.StatusUnprocessableEntity, err)
}

func ErrPendingRejected(reason string) *AppError {
	return New(CodePendingRejected, fmt.Sprintf("Pending transaction was rejected: %s", reason), http.StatusConflict)
}

// ---- Network & sync (NET) ----

func ErrRemoteUnavailable(err error) *AppError {
	return Wrap(CodeRemoteUnavailable, "Remote node unavailable", http.StatusServiceUnavailable, err)
}

func ErrSyncTimeout(err error) *AppError {
	return Wrap(CodeSyncTimeout, "Sync timed out", http.StatusGatewayTimeout, err)
}

func ErrSyncInProgress() *AppError {
	return New(CodeSyncInProgress, "A sync pass is already running for this account", http.StatusConflict)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrFISuspended() *AppError {
	return New("AUTH_004", "Financial institution is suspended", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// Code returns the AppError code anywhere in err's chain, or "".
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return err != nil && Code(err) == code
}

// IsDoubleSpend reports whether err is the double-spend security signal.
func IsDoubleSpend(err error) bool {
	return HasCode(err, CodeDoubleSpend)
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// IsTransient reports whether err may succeed on a later sync cycle.
// Errors without an AppError code are infrastructure failures and count as transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	switch Code(err) {
	case CodeRemoteUnavailable, CodeSyncTimeout, CodeSyncInProgress, "", "SYS_001":
		return true
	}
	return false
}
