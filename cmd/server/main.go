package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/squizz-sync/backend/internal/application/catalog"
	identityapp "github.com/squizz-sync/backend/internal/application/identity"
	tradeapp "github.com/squizz-sync/backend/internal/application/trade"
	"github.com/squizz-sync/backend/internal/infrastructure/cache"
	"github.com/squizz-sync/backend/internal/infrastructure/config"
	"github.com/squizz-sync/backend/internal/infrastructure/ecommerce"
	"github.com/squizz-sync/backend/internal/infrastructure/logger"
	"github.com/squizz-sync/backend/internal/infrastructure/persistence"
	"github.com/squizz-sync/backend/internal/infrastructure/scheduler"
	"github.com/squizz-sync/backend/internal/infrastructure/telemetry"
	"github.com/squizz-sync/backend/internal/interfaces/http/handler"
	"github.com/squizz-sync/backend/internal/interfaces/http/middleware"
	"github.com/squizz-sync/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Telemetry comes first so the bridged logger is used everywhere below
	providers, err := telemetry.Setup(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	log = providers.BridgeLogger(log)

	log.Info("Starting catalog sync service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("telemetry", providers.IsEnabled()),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	gateway := persistence.NewGateway(db.DB, cfg.Database.QueryTimeout)

	// Session cache is optional; without it every validation reads the database
	var sessionCache identityapp.SessionCache
	if cfg.Session.CacheEnabled {
		store, err := cache.NewSessionCacheFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(!cfg.IsProduction()),
		).CreateStore()
		if err != nil {
			log.Fatal("Failed to create session cache", zap.Error(err))
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Error("Error closing session cache", zap.Error(err))
			}
		}()
		sessionCache = store
	}

	// Identity
	verifier := identityapp.NewIdentityVerifier(gateway, 0, log)
	ledger := identityapp.NewSessionLedger(gateway, sessionCache, identityapp.SessionLedgerConfig{
		TTL:      cfg.Session.TTL,
		CacheTTL: cfg.Session.CacheTTL,
	}, log)

	// Catalog
	syncMetrics, err := telemetry.NewSyncMetrics(providers.Meter(telemetry.TracerName))
	if err != nil {
		log.Fatal("Failed to create sync metrics", zap.Error(err))
	}
	reconcilerCfg := catalogapp.ReconcilerConfig{
		SupplierOrgID: cfg.Supplier.OrgID,
		Workers:       cfg.Sync.Workers,
		Metrics:       syncMetrics,
	}
	productReconciler := catalogapp.NewProductReconciler(gateway, reconcilerCfg, log)
	priceReconciler := catalogapp.NewPriceReconciler(gateway, reconcilerCfg, log)
	productQueries := catalogapp.NewProductQueries(gateway)

	// Platform: without credentials sessions are issued locally and the
	// platform-backed endpoints answer 503 / 502.
	var (
		opener      identityapp.SessionOpener = identityapp.LocalSessionOpener{}
		syncer      handler.CatalogSyncer
		orderIntake handler.OrderService = unconfiguredOrders{}
		syncJobs    handler.SyncJobScheduler
	)
	if cfg.Platform.OrgID != "" {
		platform, err := ecommerce.NewSquizzAdapter(&ecommerce.SquizzConfig{
			BaseURL:           cfg.Platform.BaseURL,
			OrgID:             cfg.Platform.OrgID,
			OrgKey:            cfg.Platform.OrgKey,
			OrgPassword:       cfg.Platform.OrgPassword,
			SupplierOrgID:     cfg.Supplier.OrgID,
			Timeout:           cfg.Platform.Timeout,
			RequestsPerSecond: cfg.Platform.RequestsPerSecond,
		}, log)
		if err != nil {
			log.Fatal("Failed to create platform client", zap.Error(err))
		}
		opener = platform
		orderIntake = tradeapp.NewOrderIntake(platform, ledger, cfg.Supplier.OrgID, log)

		catalogSync := catalogapp.NewSyncService(platform, productReconciler, priceReconciler, log)
		syncer = catalogSync
		if cfg.Sync.Interval > 0 || cfg.Sync.RunOnStart {
			schedCfg := scheduler.DefaultCatalogSyncSchedulerConfig()
			schedCfg.Interval = cfg.Sync.Interval
			schedCfg.RunOnStart = cfg.Sync.RunOnStart
			schedCfg.JobTimeout = cfg.Sync.JobTimeout
			schedCfg.RetryAttempts = cfg.Sync.RetryAttempts
			schedCfg.RetryDelay = cfg.Sync.RetryDelay

			syncScheduler, err := scheduler.NewCatalogSyncScheduler(catalogSync, schedCfg, log)
			if err != nil {
				log.Fatal("Failed to create catalog sync scheduler", zap.Error(err))
			}
			if err := syncScheduler.Start(context.Background()); err != nil {
				log.Fatal("Failed to start catalog sync scheduler", zap.Error(err))
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := syncScheduler.Stop(ctx); err != nil {
					log.Error("Error stopping catalog sync scheduler", zap.Error(err))
				}
			}()
			syncJobs = syncScheduler
		}
	} else {
		log.Warn("Platform credentials not configured, catalog sync and orders are disabled")
	}

	authService := identityapp.NewAuthService(verifier, ledger, opener, log)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     providers.IsEnabled(),
		}),
		middleware.SpanAttributes(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		engine.Use(middleware.RateLimit(limiter))
	}

	router.Mount(engine, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Sync:     handler.NewSyncHandler(productReconciler, priceReconciler, syncer),
		SyncJobs: handler.NewSyncJobHandler(syncJobs),
		Products: handler.NewProductHandler(productQueries),
		Orders:   handler.NewOrderHandler(orderIntake),
		Health:   handler.NewHealthHandler(db),
	}, middleware.SessionAuth(ledger))
	router.MountDocs(engine, middleware.DocsProtection(middleware.DocsConfig{
		Enabled:        cfg.Docs.Enabled,
		RequireSession: cfg.Docs.RequireSession,
		AllowedIPs:     cfg.Docs.AllowedIPs,
	}, middleware.SessionAuth(ledger)))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
