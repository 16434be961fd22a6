package handler

import (
	"net/http"
	"time"

	"cbdc-settlement/config"
	"cbdc-settlement/internal/adapter/http/middleware"
	redisStore "cbdc-settlement/internal/adapter/storage/redis"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes. Role selects
// which of the FI or central bank groups are mounted.
type RouterDeps struct {
	Role   string
	NodeID string

	AuthSvc         ports.AuthService
	TokenSvc        ports.TokenService
	SigSvc          ports.SignatureService
	NonceStore      ports.NonceStore
	SignatureWindow time.Duration
	ReportingSvc    ports.ReportingService
	AuditSvc        ports.AuditService              // nil = audit logging disabled
	RateLimitStore  *redisStore.RateLimitStore      // nil = rate limiting disabled
	RateLimits      config.RateLimitConfig
	HealthCheckers  []ports.HealthChecker
	Metrics         *metrics.Metrics
	MetricsHandler  http.Handler // nil = /metrics not served
	OpenAPISpec     []byte
	Logger          zerolog.Logger

	// FI node
	AccountSvc        ports.AccountService
	ComplianceSvc     ports.ComplianceService
	OfflineSvc        ports.OfflineService
	SyncSvc           ports.SyncService
	SettlementSvc     ports.SettlementService
	CentralBankNodeID string
	CentralBankSecret string

	// Central bank node
	CentralBankSvc ports.CentralBankService
	NullifierSvc   ports.NullifierService
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.MaxBodySize(4 << 20)) // 4 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep — verifies storage and peers)
	health := HealthCheck(deps.NodeID, deps.Role, deps.HealthCheckers...)
	r.GET("/health", health)
	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	docs := NewDocsHandler(deps.OpenAPISpec, "CBDC Settlement Engine")
	swagger := r.Group("/swagger")
	{
		swagger.GET("", docs.UI)
		swagger.GET("/spec", docs.Spec)
	}

	rules := middleware.DefaultRateLimitRules(deps.RateLimits)

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")
	v1.GET("/health", health)

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	v1.POST("/auth/token", rl("auth_token"), authHandler.Token)

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.NodeID, deps.Logger)
	reportHandler := NewReportHandler(deps.ReportingSvc, deps.AuditSvc)

	if deps.Role == config.RoleCentralBank {
		mountCentralBank(v1, deps, jwtAuth, rl, reportHandler)
	} else {
		mountFI(v1, deps, jwtAuth, rl, reportHandler)
	}

	return r
}

func mountFI(v1 *gin.RouterGroup, deps RouterDeps, jwtAuth gin.HandlerFunc, rl func(string) gin.HandlerFunc, reports *ReportHandler) {
	accountHandler := NewAccountHandler(deps.AccountSvc, deps.ComplianceSvc)
	offlineHandler := NewOfflineHandler(deps.OfflineSvc)
	syncHandler := NewSyncHandler(deps.SyncSvc)
	nodeHandler := NewNodeHandler(deps.SettlementSvc)

	// --- JWT-authenticated routes (FI operator) ---
	op := v1.Group("", jwtAuth)
	{
		op.POST("/accounts", rl("operator"), accountHandler.CreateWallet)
		op.GET("/accounts/:id", rl("operator"), accountHandler.GetAccount)
		op.POST("/accounts/:id/subwallets", rl("operator"), accountHandler.RegisterSubWallet)
		op.GET("/accounts/:id/subwallets", rl("operator"), accountHandler.ListSubWallets)
		op.POST("/accounts/:id/allocate", rl("operator"), accountHandler.Allocate)
		op.POST("/accounts/:id/subwallets/:subId/allocate", rl("operator"), accountHandler.AllocateToSubWallet)
		op.POST("/accounts/:id/subwallets/:subId/return", rl("operator"), accountHandler.ReturnFromSubWallet)
		op.PUT("/accounts/:id/status", rl("operator"), accountHandler.SetStatus)
		op.PUT("/accounts/:id/mode", rl("operator"), accountHandler.SetMode)
		op.GET("/accounts/:id/compliance", rl("operator"), accountHandler.GetCompliance)
		op.GET("/accounts/:id/offline", rl("operator"), offlineHandler.ListForAccount)
		op.POST("/transfers", rl("operator"), accountHandler.Transfer)

		op.POST("/offline", rl("operator"), offlineHandler.Create)
		op.GET("/offline/:id", rl("operator"), offlineHandler.Get)
		op.POST("/offline/:id/commit", rl("operator"), offlineHandler.Commit)

		op.POST("/sync", rl("sync"), syncHandler.SyncAll)
		op.POST("/sync/accounts/:id", rl("sync"), syncHandler.SyncAccount)

		op.GET("/transactions", rl("reports"), reports.ListTransactions)
		op.GET("/reports/conservation", rl("reports"), reports.Conservation)
		op.GET("/audit", rl("reports"), reports.ListAudit)
	}

	// --- HMAC-authenticated routes (central bank to FI) ---
	nodeAuth := middleware.NodeHMACAuth(
		middleware.StaticSecret(deps.CentralBankNodeID, deps.CentralBankSecret),
		deps.SigSvc, deps.NonceStore, deps.SignatureWindow, deps.Logger,
	)
	node := v1.Group("/node", nodeAuth, rl("node"))
	{
		node.GET("/accounts/:id/resolve", nodeHandler.ResolveAccount)
		node.POST("/settlements", nodeHandler.ReceiveSettlement)
	}
}

func mountCentralBank(v1 *gin.RouterGroup, deps RouterDeps, jwtAuth gin.HandlerFunc, rl func(string) gin.HandlerFunc, reports *ReportHandler) {
	cbHandler := NewCentralBankHandler(deps.CentralBankSvc, deps.NullifierSvc)

	// --- JWT-authenticated routes (central bank operator) ---
	op := v1.Group("", jwtAuth)
	{
		op.POST("/fis", rl("operator"), cbHandler.RegisterFI)
		op.GET("/fis", rl("operator"), cbHandler.ListFIs)
		op.GET("/fis/:id", rl("operator"), cbHandler.GetFI)
		op.PUT("/fis/:id/status", rl("operator"), cbHandler.SetFIStatus)
		op.POST("/fis/:id/allocate", rl("operator"), cbHandler.AllocateToFI)
		op.GET("/nullifiers/:value", rl("operator"), cbHandler.GetNullifier)

		op.POST("/sync/deliver", rl("sync"), cbHandler.Deliver)

		op.GET("/ledger", rl("reports"), reports.ListTransactions)
		op.GET("/reports/money-supply", rl("reports"), cbHandler.MoneySupply)
		op.GET("/audit", rl("reports"), reports.ListAudit)
	}

	// --- HMAC-authenticated routes (FI to central bank) ---
	nodeAuth := middleware.NodeHMACAuth(deps.CentralBankSvc.FISecret, deps.SigSvc, deps.NonceStore, deps.SignatureWindow, deps.Logger)
	node := v1.Group("/cb", nodeAuth, rl("node"))
	{
		node.POST("/reports", cbHandler.ReceiveReports)
		node.GET("/fis/:fiId/accounts/:id", cbHandler.ResolveForFI)
	}
}
