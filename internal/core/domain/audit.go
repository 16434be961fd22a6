package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionRegisterFI       AuditAction = "REGISTER_FI"
	AuditActionAllocateFI       AuditAction = "ALLOCATE_FI"
	AuditActionCreateAccount    AuditAction = "CREATE_ACCOUNT"
	AuditActionAllocate         AuditAction = "ALLOCATE"
	AuditActionStatusChange     AuditAction = "STATUS_CHANGE"
	AuditActionOfflineCreated   AuditAction = "OFFLINE_CREATED"
	AuditActionOfflineCommitted AuditAction = "OFFLINE_COMMITTED"
	AuditActionOfflineRejected  AuditAction = "OFFLINE_REJECTED"
	AuditActionDoubleSpend      AuditAction = "DOUBLE_SPEND_DETECTED"
	AuditActionInvalidProof     AuditAction = "INVALID_PROOF"
	AuditActionSettlementReject AuditAction = "SETTLEMENT_REJECTED"
	AuditActionLogin            AuditAction = "LOGIN"
	AuditActionOperatorRequest  AuditAction = "OPERATOR_REQUEST"
)

// AuditSeverity separates security events from routine entries.
type AuditSeverity string

const (
	AuditSeverityInfo     AuditSeverity = "info"
	AuditSeveritySecurity AuditSeverity = "security"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID         uuid.UUID     `json:"id"`
	Actor      string        `json:"actor"`
	Action     AuditAction   `json:"action"`
	Severity   AuditSeverity `json:"severity"`
	EntityType string        `json:"entity_type"`
	EntityID   string        `json:"entity_id,omitempty"`
	Details    string        `json:"details,omitempty"` // JSON string
	IPAddress  string        `json:"ip_address,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}
