package handler

import (
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// SyncHandler triggers sync passes on demand. The background loop runs the
// same passes on a timer.
type SyncHandler struct {
	syncSvc ports.SyncService
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncSvc ports.SyncService) *SyncHandler {
	return &SyncHandler{syncSvc: syncSvc}
}

// SyncAccount handles POST /api/v1/sync/accounts/:id.
func (h *SyncHandler) SyncAccount(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	report, err := h.syncSvc.SyncAccount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// SyncAll handles POST /api/v1/sync.
func (h *SyncHandler) SyncAll(c *gin.Context) {
	report, err := h.syncSvc.SyncAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}
