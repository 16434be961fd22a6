package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cbdc-settlement/config"
	httpHandler "cbdc-settlement/internal/adapter/http/handler"
	"cbdc-settlement/internal/adapter/remote"
	"cbdc-settlement/internal/adapter/storage/memory"
	pgStorage "cbdc-settlement/internal/adapter/storage/postgres"
	redisStorage "cbdc-settlement/internal/adapter/storage/redis"
	"cbdc-settlement/internal/core/ports"
	"cbdc-settlement/internal/service"
	"cbdc-settlement/pkg/logger"
	"cbdc-settlement/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// repositories is the ledger storage selected by storage.driver.
type repositories struct {
	accounts   ports.AccountRepository
	txns       ports.TransactionRepository
	pendings   ports.PendingRepository
	fis        ports.FIRepository
	nullifiers ports.NullifierStore
	audit      ports.AuditRepository
	transactor ports.DBTransactor
	health     []ports.HealthChecker
	close      func()
}

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("CBDC_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty).With().
		Str("node_id", cfg.Node.ID).
		Str("role", cfg.Node.Role).
		Logger()

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting CBDC settlement node")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Ledger storage
	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open ledger storage")
	}
	defer repos.close()

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	nullifierStore := repos.nullifiers
	if cfg.Storage.NullifierBackend == "redis" {
		nullifierStore = redisStorage.NewNullifierStore(rdb, cfg.Node.ID)
	}

	var locker ports.SyncLocker = memory.NewSyncLocker()
	if cfg.Storage.SyncLock == "redis" {
		locker = redisStorage.NewSyncLocker(rdb, log)
	}

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	proofSvc := service.NewEd25519ProofService(cfg.Proof)
	auditSvc := service.NewAuditService(repos.audit, log)
	defer auditSvc.Wait()
	authSvc := service.NewAuthService(cfg.Auth, cfg.Node.ID, hashSvc, tokenSvc, auditSvc)
	nullifierSvc := service.NewNullifierService(nullifierStore, cfg.Node.Role, m, log)

	remoteClient := remote.NewClient(cfg.Remote, cfg.Node.ID, sigSvc, m, log)

	deps := httpHandler.RouterDeps{
		Role:            cfg.Node.Role,
		NodeID:          cfg.Node.ID,
		AuthSvc:         authSvc,
		TokenSvc:        tokenSvc,
		SigSvc:          sigSvc,
		NonceStore:      redisStorage.NewNonceStore(rdb),
		SignatureWindow: cfg.Remote.SignatureWindow,
		AuditSvc:        auditSvc,
		RateLimitStore:  redisStorage.NewRateLimitStore(rdb),
		RateLimits:      cfg.RateLimit,
		HealthCheckers:  append(repos.health, redisStorage.NewHealthCheck(rdb)),
		Metrics:         m,
		MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Logger:          log,
	}

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		deps.OpenAPISpec = specBytes
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	var background []func(context.Context)

	if cfg.Node.IsCentralBank() {
		forwarder := remote.NewForwarder(remoteClient, encSvc)
		cbSvc := service.NewCentralBankService(
			repos.transactor,
			repos.fis,
			repos.txns,
			nullifierSvc,
			proofSvc,
			forwarder,
			encSvc,
			auditSvc,
			m,
			cfg.Sync.Concurrency,
			cfg.Sync.BatchSize,
			cfg.Node.ID,
			log,
		)
		deps.CentralBankSvc = cbSvc
		deps.NullifierSvc = nullifierSvc
		deps.ReportingSvc = service.NewReportingService(repos.accounts, repos.txns, nil)

		if cfg.Sync.Enabled {
			background = append(background, func(ctx context.Context) { cbSvc.RunDelivery(ctx, cfg.Sync.Interval) })
		}
	} else {
		treasury := service.NewTreasury(repos.fis, cfg.Node.ID)
		if _, err := treasury.Ensure(ctx, cfg.Node.Name, cfg.Node.PublicURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize FI treasury")
		}

		cbClient := remote.NewCentralBankClient(remoteClient, cfg.CentralBank.URL, cfg.CentralBank.SharedSecret)
		resolver := service.NewAccountResolver(repos.accounts, cbClient, cfg.Node.ID, cfg.Remote.Timeout, log)
		ledger := service.NewLedger(repos.transactor, repos.accounts)
		compliance := service.NewComplianceService(ledger, cfg.Compliance, m)

		accountSvc := service.NewAccountService(
			ledger, repos.accounts, repos.txns, treasury, compliance,
			nullifierSvc, proofSvc, resolver, encSvc, auditSvc,
			cfg.Compliance, cfg.Node.ID, log,
		)
		offlineSvc := service.NewOfflineService(
			ledger, treasury, repos.pendings, repos.txns, compliance,
			nullifierSvc, proofSvc, resolver, encSvc, auditSvc,
			m, cfg.Node.ID, log,
		)
		settlementSvc := service.NewSettlementService(
			ledger, treasury, repos.txns, nullifierSvc, proofSvc, resolver,
			redisStorage.NewAckCache(rdb), auditSvc, cfg.Node.ID, log,
		)
		syncSvc := service.NewSyncService(
			offlineSvc, ledger, treasury, repos.pendings, repos.txns, compliance,
			cbClient, locker, auditSvc, m, cfg.Sync, cfg.Node.ID, log,
		)

		deps.AccountSvc = accountSvc
		deps.ComplianceSvc = compliance
		deps.OfflineSvc = offlineSvc
		deps.SyncSvc = syncSvc
		deps.SettlementSvc = settlementSvc
		deps.ReportingSvc = service.NewReportingService(repos.accounts, repos.txns, treasury)
		deps.CentralBankNodeID = cfg.CentralBank.NodeID
		deps.CentralBankSecret = cfg.CentralBank.SharedSecret
		deps.HealthCheckers = append(deps.HealthCheckers, cbClient)

		if cfg.Sync.Enabled {
			background = append(background, func(ctx context.Context) { syncSvc.Run(ctx, cfg.Sync.Interval) })
		}
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(deps)

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	bgCtx, cancelBackground := context.WithCancel(ctx)
	done := make(chan struct{}, len(background))
	for _, run := range background {
		go func() {
			defer func() { done <- struct{}{} }()
			run(bgCtx)
		}()
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	cancelBackground()
	for range background {
		select {
		case <-done:
		case <-shutdownCtx.Done():
		}
	}

	log.Info().Msg("Server exited")
}

// openRepositories connects the configured ledger storage.
func openRepositories(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	if cfg.Storage.Driver == "memory" {
		log.Warn().Msg("Using in-memory ledger storage; balances are lost on restart")
		store := memory.NewStore()
		return &repositories{
			accounts:   memory.NewAccountRepo(store),
			txns:       memory.NewTransactionRepo(store),
			pendings:   memory.NewPendingRepo(store),
			fis:        memory.NewFIRepo(store),
			nullifiers: memory.NewNullifierStore(store),
			audit:      memory.NewAuditRepo(store),
			transactor: memory.NewTransactor(store),
			close:      func() {},
		}, nil
	}

	if cfg.Database.AutoMigrate {
		if err := pgStorage.RunMigrations(cfg.Database.MigrateURL(), log); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	log.Info().Msg("PostgreSQL connected")

	return &repositories{
		accounts:   pgStorage.NewAccountRepo(pool),
		txns:       pgStorage.NewTransactionRepo(pool),
		pendings:   pgStorage.NewPendingRepo(pool),
		fis:        pgStorage.NewFIRepo(pool),
		nullifiers: pgStorage.NewNullifierRepo(pool),
		audit:      pgStorage.NewAuditRepository(pool),
		transactor: pgStorage.NewTransactor(pool),
		health:     []ports.HealthChecker{pgStorage.NewHealthCheck(pool)},
		close:      pool.Close,
	}, nil
}
