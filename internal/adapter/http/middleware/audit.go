package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog records operator write requests after they complete. Services
// audit the business outcome; this entry records who asked for it.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		entityType, entityID := mapRouteToEntity(c)
		if entityType == "" {
			return
		}

		actor := c.GetString(CtxOperator)
		if actor == "" {
			actor = c.GetString(CtxNodeID)
		}
		if actor == "" {
			return
		}

		status := c.Writer.Status()
		severity := domain.AuditSeverityInfo
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			severity = domain.AuditSeveritySecurity
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"route":      c.FullPath(),
			"status":     status,
			"request_id": c.GetString(CtxRequestID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:         uuid.New(),
			Actor:      actor,
			Action:     domain.AuditActionOperatorRequest,
			Severity:   severity,
			EntityType: entityType,
			EntityID:   entityID,
			IPAddress:  c.ClientIP(),
			Details:    string(details),
			CreatedAt:  time.Now(),
		})
	}
}

// mapRouteToEntity names what a write route acts on, by its route template.
func mapRouteToEntity(c *gin.Context) (string, string) {
	switch c.FullPath() {
	case "/api/v1/accounts":
		return "account", ""
	case "/api/v1/accounts/:id/subwallets",
		"/api/v1/accounts/:id/allocate",
		"/api/v1/accounts/:id/status",
		"/api/v1/accounts/:id/mode":
		return "account", c.Param("id")
	case "/api/v1/accounts/:id/subwallets/:subId/allocate",
		"/api/v1/accounts/:id/subwallets/:subId/return":
		return "account", c.Param("subId")
	case "/api/v1/transfers":
		return "transaction", ""
	case "/api/v1/offline":
		return "pending", ""
	case "/api/v1/offline/:id/commit":
		return "pending", c.Param("id")
	case "/api/v1/sync", "/api/v1/sync/deliver":
		return "sync", ""
	case "/api/v1/sync/accounts/:id":
		return "sync", c.Param("id")
	case "/api/v1/fis":
		return "fi", ""
	case "/api/v1/fis/:id/status", "/api/v1/fis/:id/allocate":
		return "fi", c.Param("id")
	}
	return "", ""
}
