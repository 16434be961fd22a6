package handler

import (
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler serves ledger listings, conservation and audit reports.
type ReportHandler struct {
	reportingSvc ports.ReportingService
	auditSvc     ports.AuditService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportingSvc ports.ReportingService, auditSvc ports.AuditService) *ReportHandler {
	return &ReportHandler{reportingSvc: reportingSvc, auditSvc: auditSvc}
}

// ListTransactions handles GET /api/v1/transactions on an FI and
// GET /api/v1/ledger on the central bank.
func (h *ReportHandler) ListTransactions(c *gin.Context) {
	page, pageSize := pageParams(c)
	params := ports.TransactionListParams{
		FIID:     c.Query("fi_id"),
		Page:     page,
		PageSize: pageSize,
	}

	if a := c.Query("account_id"); a != "" {
		id, err := uuid.Parse(a)
		if err != nil {
			response.Error(c, apperror.Validation("account_id must be a UUID"))
			return
		}
		params.AccountID = &id
	}
	if k := c.Query("kind"); k != "" {
		kind := domain.TransactionKind(k)
		params.Kind = &kind
	}
	var err error
	if params.From, err = unixQuery(c, "from"); err != nil {
		response.Error(c, err)
		return
	}
	if params.To, err = unixQuery(c, "to"); err != nil {
		response.Error(c, err)
		return
	}

	txns, total, err := h.reportingSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, toTransactionList(txns), page, pageSize, total)
}

// Conservation handles GET /api/v1/reports/conservation.
func (h *ReportHandler) Conservation(c *gin.Context) {
	report, err := h.reportingSvc.Conservation(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// ListAudit handles GET /api/v1/audit.
func (h *ReportHandler) ListAudit(c *gin.Context) {
	page, pageSize := pageParams(c)
	if h.auditSvc == nil {
		response.Page(c, []domain.AuditLog{}, page, pageSize, 0)
		return
	}
	params := ports.AuditListParams{Page: page, PageSize: pageSize}

	if s := c.Query("severity"); s != "" {
		severity := domain.AuditSeverity(s)
		params.Severity = &severity
	}
	if a := c.Query("action"); a != "" {
		action := domain.AuditAction(a)
		params.Action = &action
	}

	logs, total, err := h.auditSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	if logs == nil {
		logs = []domain.AuditLog{}
	}
	response.Page(c, logs, page, pageSize, total)
}
