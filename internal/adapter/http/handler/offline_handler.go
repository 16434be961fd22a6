package handler

import (
	"cbdc-settlement/internal/adapter/http/dto"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OfflineHandler handles offline reservation endpoints.
type OfflineHandler struct {
	offlineSvc ports.OfflineService
}

// NewOfflineHandler creates a new OfflineHandler.
func NewOfflineHandler(offlineSvc ports.OfflineService) *OfflineHandler {
	return &OfflineHandler{offlineSvc: offlineSvc}
}

// Create handles POST /api/v1/offline.
func (h *OfflineHandler) Create(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	p, err := h.offlineSvc.CreateOffline(c.Request.Context(), ports.OfflineRequest{
		FromAccountID: uuid.MustParse(req.FromAccountID),
		ToAccountID:   uuid.MustParse(req.ToAccountID),
		Amount:        req.Amount,
		TargetFI:      req.TargetFI,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toPendingResponse(p))
}

// Get handles GET /api/v1/offline/:id.
func (h *OfflineHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	p, err := h.offlineSvc.GetPending(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toPendingResponse(p))
}

// ListForAccount handles GET /api/v1/accounts/:id/offline?status=.
func (h *OfflineHandler) ListForAccount(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var status *domain.PendingStatus
	if s := c.Query("status"); s != "" {
		st := domain.PendingStatus(s)
		switch st {
		case domain.PendingStatusPending, domain.PendingStatusCommitted, domain.PendingStatusRejected:
		default:
			response.Error(c, apperror.Validation("status must be one of pending, committed, rejected"))
			return
		}
		status = &st
	}

	list, err := h.offlineSvc.ListPending(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]dto.PendingResponse, 0, len(list))
	for i := range list {
		items = append(items, toPendingResponse(&list[i]))
	}
	response.OK(c, items)
}

// Commit handles POST /api/v1/offline/:id/commit.
func (h *OfflineHandler) Commit(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	tx, err := h.offlineSvc.Commit(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionResponse(tx))
}
