package handler

import (
	"context"

	"cbdc-settlement/internal/adapter/http/dto"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler handles wallet and sub-wallet management on an FI node.
type AccountHandler struct {
	accountSvc    ports.AccountService
	complianceSvc ports.ComplianceService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc ports.AccountService, complianceSvc ports.ComplianceService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc, complianceSvc: complianceSvc}
}

// CreateWallet handles POST /api/v1/accounts.
func (h *AccountHandler) CreateWallet(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	acct, err := h.accountSvc.CreateWallet(c.Request.Context(), ports.CreateWalletRequest{
		Name:       req.Name,
		DailyLimit: req.DailyLimit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toAccountResponse(acct))
}

// RegisterSubWallet handles POST /api/v1/accounts/:id/subwallets.
func (h *AccountHandler) RegisterSubWallet(c *gin.Context) {
	walletID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.RegisterSubWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	acct, err := h.accountSvc.RegisterSubWallet(c.Request.Context(), ports.RegisterSubWalletRequest{
		WalletID:      walletID,
		DeviceType:    req.DeviceType,
		DeviceName:    req.DeviceName,
		SpendingLimit: req.SpendingLimit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toAccountResponse(acct))
}

// GetAccount handles GET /api/v1/accounts/:id.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	acct, err := h.accountSvc.GetAccount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toAccountResponse(acct))
}

// ListSubWallets handles GET /api/v1/accounts/:id/subwallets.
func (h *AccountHandler) ListSubWallets(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	subs, err := h.accountSvc.ListSubWallets(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toAccountList(subs))
}

// Allocate handles POST /api/v1/accounts/:id/allocate (treasury to wallet).
func (h *AccountHandler) Allocate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	tx, err := h.accountSvc.AllocateToWallet(c.Request.Context(), id, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toTransactionResponse(tx))
}

// AllocateToSubWallet handles POST /api/v1/accounts/:id/subwallets/:subId/allocate.
func (h *AccountHandler) AllocateToSubWallet(c *gin.Context) {
	h.moveSubWalletFunds(c, h.accountSvc.AllocateToSubWallet)
}

// ReturnFromSubWallet handles POST /api/v1/accounts/:id/subwallets/:subId/return.
func (h *AccountHandler) ReturnFromSubWallet(c *gin.Context) {
	h.moveSubWalletFunds(c, h.accountSvc.ReturnFromSubWallet)
}

type subWalletMove func(ctx context.Context, subWalletID uuid.UUID, amount int64) (*domain.Transaction, error)

func (h *AccountHandler) moveSubWalletFunds(c *gin.Context, move subWalletMove) {
	sub, ok := h.subWalletOf(c)
	if !ok {
		return
	}
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	tx, err := move(c.Request.Context(), sub.ID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toTransactionResponse(tx))
}

// subWalletOf loads :subId and checks it is delegated from :id, so a path
// cannot reach another owner's device.
func (h *AccountHandler) subWalletOf(c *gin.Context) (*domain.Account, bool) {
	walletID, ok := uuidParam(c, "id")
	if !ok {
		return nil, false
	}
	subID, ok := uuidParam(c, "subId")
	if !ok {
		return nil, false
	}
	sub, err := h.accountSvc.GetAccount(c.Request.Context(), subID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if !sub.IsSubWallet() || sub.OwnerAccountID == nil || *sub.OwnerAccountID != walletID {
		response.Error(c, apperror.ErrNotFound("Sub-wallet"))
		return nil, false
	}
	return sub, true
}

// SetStatus handles PUT /api/v1/accounts/:id/status.
func (h *AccountHandler) SetStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	acct, err := h.accountSvc.SetStatus(c.Request.Context(), id, domain.AccountStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toAccountResponse(acct))
}

// SetMode handles PUT /api/v1/accounts/:id/mode.
func (h *AccountHandler) SetMode(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.SetModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	acct, err := h.accountSvc.SetOfflineMode(c.Request.Context(), id, *req.Offline)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toAccountResponse(acct))
}

// GetCompliance handles GET /api/v1/accounts/:id/compliance.
func (h *AccountHandler) GetCompliance(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	status, err := h.complianceSvc.GetStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// Transfer handles POST /api/v1/transfers.
func (h *AccountHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	tx, err := h.accountSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		FromAccountID: uuid.MustParse(req.FromAccountID),
		ToAccountID:   uuid.MustParse(req.ToAccountID),
		Amount:        req.Amount,
		TargetFI:      req.TargetFI,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toTransactionResponse(tx))
}
