package handler

import (
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// NodeHandler serves the FI endpoints the central bank calls.
type NodeHandler struct {
	settlementSvc ports.SettlementService
}

// NewNodeHandler creates a new NodeHandler.
func NewNodeHandler(settlementSvc ports.SettlementService) *NodeHandler {
	return &NodeHandler{settlementSvc: settlementSvc}
}

// ResolveAccount handles GET /api/v1/node/accounts/:id/resolve.
func (h *NodeHandler) ResolveAccount(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	res, err := h.settlementSvc.ResolveLocal(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// ReceiveSettlement handles POST /api/v1/node/settlements. Business
// rejections are returned as a 200 ack so the central bank stops redelivering.
func (h *NodeHandler) ReceiveSettlement(c *gin.Context) {
	var tx domain.Transaction
	if err := c.ShouldBindJSON(&tx); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	ack, err := h.settlementSvc.Receive(c.Request.Context(), &tx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ack)
}
