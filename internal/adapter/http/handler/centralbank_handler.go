package handler

import (
	"cbdc-settlement/internal/adapter/http/dto"
	"cbdc-settlement/internal/adapter/http/middleware"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// CentralBankHandler serves the central bank's operator and node endpoints.
type CentralBankHandler struct {
	cbSvc        ports.CentralBankService
	nullifierSvc ports.NullifierService
}

// NewCentralBankHandler creates a new CentralBankHandler.
func NewCentralBankHandler(cbSvc ports.CentralBankService, nullifierSvc ports.NullifierService) *CentralBankHandler {
	return &CentralBankHandler{cbSvc: cbSvc, nullifierSvc: nullifierSvc}
}

// RegisterFI handles POST /api/v1/fis.
func (h *CentralBankHandler) RegisterFI(c *gin.Context) {
	var req dto.RegisterFIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	fi, err := h.cbSvc.RegisterFI(c.Request.Context(), ports.RegisterFIRequest{
		ID:           req.ID,
		Name:         req.Name,
		Endpoint:     req.Endpoint,
		PublicKey:    req.PublicKey,
		SharedSecret: req.SharedSecret,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toFIResponse(fi))
}

// ListFIs handles GET /api/v1/fis.
func (h *CentralBankHandler) ListFIs(c *gin.Context) {
	fis, err := h.cbSvc.ListFIs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]dto.FIResponse, 0, len(fis))
	for i := range fis {
		items = append(items, toFIResponse(&fis[i]))
	}
	response.OK(c, items)
}

// GetFI handles GET /api/v1/fis/:id.
func (h *CentralBankHandler) GetFI(c *gin.Context) {
	fi, err := h.cbSvc.GetFI(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toFIResponse(fi))
}

// SetFIStatus handles PUT /api/v1/fis/:id/status.
func (h *CentralBankHandler) SetFIStatus(c *gin.Context) {
	var req dto.SetFIStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	fi, err := h.cbSvc.SetFIStatus(c.Request.Context(), c.Param("id"), domain.FIStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toFIResponse(fi))
}

// AllocateToFI handles POST /api/v1/fis/:id/allocate.
func (h *CentralBankHandler) AllocateToFI(c *gin.Context) {
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	tx, err := h.cbSvc.AllocateToFI(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toTransactionResponse(tx))
}

// MoneySupply handles GET /api/v1/reports/money-supply.
func (h *CentralBankHandler) MoneySupply(c *gin.Context) {
	ms, err := h.cbSvc.MoneySupply(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ms)
}

// Deliver handles POST /api/v1/sync/deliver.
func (h *CentralBankHandler) Deliver(c *gin.Context) {
	report, err := h.cbSvc.DeliverPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// GetNullifier handles GET /api/v1/nullifiers/:value.
func (h *CentralBankHandler) GetNullifier(c *gin.Context) {
	n, err := h.nullifierSvc.Get(c.Request.Context(), c.Param("value"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if n == nil {
		response.Error(c, apperror.ErrNotFound("Nullifier"))
		return
	}
	response.OK(c, n)
}

// ReceiveReports handles POST /api/v1/cb/reports. An FI may only report its
// own settlements.
func (h *CentralBankHandler) ReceiveReports(c *gin.Context) {
	var batch domain.SettlementBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if batch.SourceFI != c.GetString(middleware.CtxNodeID) {
		response.Error(c, apperror.ErrInvalidNodeID())
		return
	}

	acks, err := h.cbSvc.AdmitSettlements(c.Request.Context(), batch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, acks)
}

// ResolveForFI handles GET /api/v1/cb/fis/:fiId/accounts/:id, relaying the
// lookup to the owning FI.
func (h *CentralBankHandler) ResolveForFI(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	res, err := h.cbSvc.ResolveAccount(c.Request.Context(), c.Param("fiId"), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}
