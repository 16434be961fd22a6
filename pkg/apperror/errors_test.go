package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New(CodeInsufficientBalance, "Insufficient balance", http.StatusPaymentRequired),
			expected: "[LED_004] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, New(CodeFrozen, "test", http.StatusLocked).Unwrap())
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"NotFound", ErrNotFound("account"), CodeNotFound, 404},
		{"Frozen", ErrFrozen(), CodeFrozen, 423},
		{"Revoked", ErrRevoked(), CodeRevoked, 410},
		{"InsufficientBalance", ErrInsufficientBalance(), CodeInsufficientBalance, 402},
		{"InvalidReceiver", ErrInvalidReceiver("unknown account"), CodeInvalidReceiver, 422},
		{"InvalidAmount", ErrInvalidAmount(), CodeInvalidAmount, 400},
		{"AccountOffline", ErrAccountOffline(), CodeAccountOffline, 409},
		{"SpendingLimit", ErrSpendingLimitExceeded(1000), CodeLimitExceeded, 422},
		{"ComplianceViolation", ErrComplianceViolation(nil), CodeComplianceViolation, 422},
		{"DoubleSpend", ErrDoubleSpendDetected("NUL-abc"), CodeDoubleSpend, 409},
		{"InvalidProof", ErrInvalidProof(errors.New("bad sig")), CodeInvalidProof, 422},
		{"PendingRejected", ErrPendingRejected("invalid_proof"), CodePendingRejected, 409},
		{"RemoteUnavailable", ErrRemoteUnavailable(errors.New("dial")), CodeRemoteUnavailable, 503},
		{"SyncTimeout", ErrSyncTimeout(errors.New("deadline")), CodeSyncTimeout, 504},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestComplianceViolation_CarriesDetails(t *testing.T) {
	details := []string{"daily_limit"}
	err := ErrComplianceViolation(details)
	assert.Equal(t, details, err.Details)
}

func TestClassification(t *testing.T) {
	wrapped := fmt.Errorf("commit: %w", ErrDoubleSpendDetected("NUL-1"))

	assert.True(t, IsDoubleSpend(wrapped))
	assert.False(t, IsTransient(wrapped))
	assert.Equal(t, CodeDoubleSpend, Code(wrapped))

	assert.True(t, IsTransient(ErrRemoteUnavailable(errors.New("refused"))))
	assert.True(t, IsTransient(ErrSyncTimeout(errors.New("deadline"))))
	assert.True(t, IsTransient(errors.New("plain infrastructure failure")))
	assert.False(t, IsTransient(ErrInsufficientBalance()))
	assert.False(t, IsTransient(nil))

	assert.True(t, IsNotFound(ErrNotFound("pending transaction")))
	assert.False(t, IsDoubleSpend(ErrRemoteUnavailable(nil)))
	assert.Equal(t, "", Code(errors.New("x")))
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	dbErr := ErrDatabaseError(inner)
	assert.Equal(t, "SYS_001", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))

	encErr := ErrEncryptionFailure(inner)
	assert.Equal(t, "SYS_003", encErr.Code)
}

func TestSecurityErrors(t *testing.T) {
	assert.Equal(t, "SEC_001", ErrInvalidNodeID().Code)
	assert.Equal(t, "SEC_002", ErrInvalidSignature().Code)
	assert.Equal(t, "SEC_003", ErrTimestampExpired().Code)
	assert.Equal(t, "SEC_004", ErrNonceUsed().Code)
	assert.Equal(t, 429, ErrRateLimitExceeded().HTTPStatus)
}
