package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cbdc-settlement/config"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports/mocks"
	"cbdc-settlement/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupAuthService(t *testing.T, creds config.AuthConfig) (
	*AuthServiceImpl,
	*mocks.MockHashService,
	*mocks.MockTokenService,
	*mocks.MockAuditService,
	*gomock.Controller,
) {
	ctrl := gomock.NewController(t)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	audit := mocks.NewMockAuditService(ctrl)

	svc := NewAuthService(creds, "FI-A", hashSvc, tokenSvc, audit)
	return svc, hashSvc, tokenSvc, audit, ctrl
}

var operatorCreds = config.AuthConfig{OperatorUsername: "operator", OperatorPasswordHash: "$argon2id$hashed"}

func TestAuthService_Login_Success(t *testing.T) {
	svc, hashSvc, tokenSvc, audit, ctrl := setupAuthService(t, operatorCreds)
	defer ctrl.Finish()

	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)
	hashSvc.EXPECT().Verify("StrongP@ss123", "$argon2id$hashed").Return(true, nil)
	tokenSvc.EXPECT().Generate("operator", "FI-A").Return("jwt-token", expiry, nil)
	audit.EXPECT().Log(ctx, gomock.Any()).Do(func(_ context.Context, entry *domain.AuditLog) {
		assert.Equal(t, domain.AuditActionLogin, entry.Action)
		assert.Empty(t, entry.Severity)
	})

	token, exp, err := svc.Login(ctx, "operator", "StrongP@ss123")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, expiry, exp)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _, _, _, ctrl := setupAuthService(t, operatorCreds)
	defer ctrl.Finish()

	_, _, err := svc.Login(context.Background(), "intruder", "whatever")
	assert.Equal(t, "AUTH_001", apperror.Code(err))
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, hashSvc, _, audit, ctrl := setupAuthService(t, operatorCreds)
	defer ctrl.Finish()

	hashSvc.EXPECT().Verify("wrong", gomock.Any()).Return(false, nil)
	audit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ context.Context, entry *domain.AuditLog) {
		assert.Equal(t, domain.AuditSeveritySecurity, entry.Severity)
		assert.Equal(t, "operator", entry.Actor)
	})

	_, _, err := svc.Login(context.Background(), "operator", "wrong")
	assert.Equal(t, "AUTH_001", apperror.Code(err))
}

func TestAuthService_Login_NoOperatorConfigured(t *testing.T) {
	svc, _, _, _, ctrl := setupAuthService(t, config.AuthConfig{OperatorUsername: "operator"})
	defer ctrl.Finish()

	_, _, err := svc.Login(context.Background(), "operator", "anything")
	assert.Equal(t, "AUTH_001", apperror.Code(err))
}

func TestAuthService_Login_Failures(t *testing.T) {
	t.Run("hash error", func(t *testing.T) {
		svc, hashSvc, _, _, ctrl := setupAuthService(t, operatorCreds)
		defer ctrl.Finish()
		hashSvc.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(false, errors.New("malformed hash"))

		_, _, err := svc.Login(context.Background(), "operator", "pw")
		assert.Equal(t, "SYS_001", apperror.Code(err))
	})

	t.Run("token error", func(t *testing.T) {
		svc, hashSvc, tokenSvc, _, ctrl := setupAuthService(t, operatorCreds)
		defer ctrl.Finish()
		hashSvc.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(true, nil)
		tokenSvc.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", time.Time{}, errors.New("no key"))

		_, _, err := svc.Login(context.Background(), "operator", "pw")
		assert.Equal(t, "SYS_001", apperror.Code(err))
	})
}
