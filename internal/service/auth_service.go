package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"cbdc-settlement/config"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"
)

// AuthServiceImpl implements ports.AuthService for the node operator.
type AuthServiceImpl struct {
	creds    config.AuthConfig
	nodeID   string
	hashSvc  ports.HashService
	tokenSvc ports.TokenService
	audit    ports.AuditService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	creds config.AuthConfig,
	nodeID string,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	audit ports.AuditService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		creds:    creds,
		nodeID:   nodeID,
		hashSvc:  hashSvc,
		tokenSvc: tokenSvc,
		audit:    audit,
	}
}

// Login validates the operator credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if s.creds.OperatorPasswordHash == "" {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.OperatorUsername)) != 1 {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, s.creds.OperatorPasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		s.audit.Log(ctx, &domain.AuditLog{
			Actor:      username,
			Action:     domain.AuditActionLogin,
			Severity:   domain.AuditSeveritySecurity,
			EntityType: "operator",
			Details:    auditDetails(map[string]any{"success": false}),
		})
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(username, s.nodeID)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	s.audit.Log(ctx, &domain.AuditLog{
		Actor:      username,
		Action:     domain.AuditActionLogin,
		EntityType: "operator",
		Details:    auditDetails(map[string]any{"success": true}),
	})
	return token, expiry, nil
}
