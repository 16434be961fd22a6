package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func operatorAs(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxOperator, name)
		c.Next()
	}
}

func TestAuditLog_OperatorWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAudit := mocks.NewMockAuditService(ctrl)
	mockAudit.EXPECT().Log(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, log *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionOperatorRequest, log.Action)
			assert.Equal(t, domain.AuditSeverityInfo, log.Severity)
			assert.Equal(t, "ops", log.Actor)
			assert.Equal(t, "account", log.EntityType)
			assert.Equal(t, "sub-1", log.EntityID)

			var details map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(log.Details), &details))
			assert.Equal(t, "/api/v1/accounts/:id/subwallets/:subId/allocate", details["route"])
			assert.Equal(t, float64(http.StatusCreated), details["status"])
		},
	)

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.POST("/api/v1/accounts/:id/subwallets/:subId/allocate", operatorAs("ops"), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/accounts/w-1/subwallets/sub-1/allocate", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAuditLog_FailedWriteStillRecorded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAudit := mocks.NewMockAuditService(ctrl)
	mockAudit.EXPECT().Log(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, log *domain.AuditLog) {
			assert.Equal(t, domain.AuditSeveritySecurity, log.Severity)
			assert.Equal(t, "fi", log.EntityType)
			assert.Equal(t, "FI-B", log.EntityID)
		},
	)

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.POST("/api/v1/fis/:id/allocate", operatorAs("ops"), func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{"error_code": "AUTH_004"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/fis/FI-B/allocate", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuditLog_SkipsReadsAndAnonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAudit := mocks.NewMockAuditService(ctrl)
	// No expectations - Log should NOT be called

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.GET("/api/v1/accounts/:id", operatorAs("ops"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"balance": 100})
	})
	r.POST("/api/v1/transfers", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"error_code": "AUTH_003"})
	})
	r.POST("/api/v1/auth/token", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"token": "t"})
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/v1/accounts/a-1", nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/transfers", nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func TestMapRouteToEntity(t *testing.T) {
	tests := []struct {
		route  string
		path   string
		entity string
		id     string
	}{
		{"/api/v1/accounts", "/api/v1/accounts", "account", ""},
		{"/api/v1/accounts/:id/status", "/api/v1/accounts/a-1/status", "account", "a-1"},
		{"/api/v1/accounts/:id/subwallets/:subId/return", "/api/v1/accounts/a-1/subwallets/s-1/return", "account", "s-1"},
		{"/api/v1/transfers", "/api/v1/transfers", "transaction", ""},
		{"/api/v1/offline", "/api/v1/offline", "pending", ""},
		{"/api/v1/offline/:id/commit", "/api/v1/offline/p-1/commit", "pending", "p-1"},
		{"/api/v1/sync/accounts/:id", "/api/v1/sync/accounts/a-1", "sync", "a-1"},
		{"/api/v1/sync/deliver", "/api/v1/sync/deliver", "sync", ""},
		{"/api/v1/fis", "/api/v1/fis", "fi", ""},
		{"/api/v1/fis/:id/status", "/api/v1/fis/FI-A/status", "fi", "FI-A"},
		{"/unknown", "/unknown", "", ""},
	}

	for _, tc := range tests {
		var entity, id string
		r := gin.New()
		r.PUT(tc.route, func(c *gin.Context) {
			entity, id = mapRouteToEntity(c)
		})
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, tc.path, nil))

		assert.Equal(t, tc.entity, entity, "route=%s", tc.route)
		assert.Equal(t, tc.id, id, "route=%s", tc.route)
	}
}
