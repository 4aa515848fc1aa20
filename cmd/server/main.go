package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appevent "github.com/fpfinfo/SODPA2026-V1-sub002/internal/application/event"
	appsupr "github.com/fpfinfo/SODPA2026-V1-sub002/internal/application/suprimento"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/infrastructure/auth"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/infrastructure/cache"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/infrastructure/config"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/infrastructure/event"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/infrastructure/persistence"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/infrastructure/rendering"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/infrastructure/telemetry"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/interfaces/http/handler"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/interfaces/http/middleware"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := telemetry.NewLogger(telemetry.LoggerConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting suprimento de fundos service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry providers: traces, metrics and log export over OTLP.
	// All of them degrade to no-ops when telemetry is disabled.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.TracingConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer shutdownProvider(log, "tracer", tracerProvider.Shutdown)

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdownProvider(log, "meter", meterProvider.Shutdown)

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer shutdownProvider(log, "logger", loggerProvider.Shutdown)

	if loggerProvider.IsEnabled() {
		log = loggerProvider.BridgeLogger(log, cfg.Telemetry.ServiceName)
	}

	// Database connection with zap-backed GORM logging
	gormLog := telemetry.NewGormLogger(log, telemetry.MapGormLogLevel(cfg.Log.Level))
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

	if tracerProvider.IsEnabled() {
		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{}, log); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	// Repositories
	caseRepo := persistence.NewGormCaseRepository(db.DB)
	docRepo := persistence.NewGormExecutionDocumentRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetAllocationRepository(db.DB)
	taskRepo := persistence.NewGormSigningTaskRepository(db.DB)
	tramRepo := persistence.NewGormTramitationRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	regularityChecker := persistence.NewGormRegularityChecker(db.DB)

	// Application services
	ledger := appsupr.NewBudgetLedger(budgetRepo)
	caseService := appsupr.NewCaseService(caseRepo, docRepo, tramRepo, outboxRepo)
	workflowService := appsupr.NewWorkflowService(caseRepo, docRepo, outboxRepo, regularityChecker, ledger, log)
	tramitationService := appsupr.NewTramitationService(caseRepo, docRepo, taskRepo, tramRepo, outboxRepo,
		workflowService.Workflow(), log)
	budgetService := appsupr.NewBudgetService(budgetRepo)
	outboxService := appevent.NewOutboxService(outboxRepo, log)

	// Business metrics on top of the OTEL meter
	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(
			meterProvider.Meter("sodpa.business"),
			persistence.NewBudgetTelemetryAdapter(db.DB),
			telemetry.DefaultBusinessMetricsConfig(),
			log,
		)
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		businessMetrics.StartPeriodicCollection()
		defer businessMetrics.Stop()

		workflowService.SetMetrics(businessMetrics)
		tramitationService.SetMetrics(businessMetrics)
	}

	// PDF rendering of execution documents
	var renderService *appsupr.RenderService
	if cfg.Render.Enabled {
		pdfRenderer, err := rendering.NewChromedpRenderer(&rendering.ChromedpConfig{
			DefaultTimeout: cfg.Render.Timeout,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
		}
		defer func() {
			if err := pdfRenderer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		docRenderer := rendering.NewDocumentRenderer(pdfRenderer, log)
		renderService = appsupr.NewRenderService(caseRepo, docRepo, docRenderer)
	} else {
		renderService = appsupr.NewRenderService(caseRepo, docRepo, nil)
		log.Info("PDF rendering disabled")
	}

	// Outbox processor delivering domain events to a webhook or the log
	var notifier event.Notifier
	if cfg.Event.WebhookURL != "" {
		notifier = event.NewWebhookNotifier(cfg.Event.WebhookURL, cfg.Event.WebhookTimeout, log)
	} else {
		notifier = event.NewLoggingNotifier(log)
	}
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		processorConfig.BatchSize = cfg.Event.BatchSize
		processorConfig.PollInterval = cfg.Event.PollInterval
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		processorConfig.CleanupRetention = cfg.Event.CleanupRetention

		outboxProcessor := event.NewOutboxProcessor(outboxRepo, notifier, processorConfig, log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	// Idempotency store for signature batch replays: Redis when enabled,
	// in-memory otherwise
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	idempotencyConfig := shared.DefaultIdempotencyConfig()

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers
	caseHandler := handler.NewCaseHandler(caseService)
	documentHandler := handler.NewDocumentHandler(workflowService, renderService)
	tramitationHandler := handler.NewTramitationHandler(tramitationService, idempotencyStore, idempotencyConfig, log)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	healthHandler := handler.NewHealthHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.AccessLog(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if tracerProvider.IsEnabled() {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  []string{"/healthz", "/readyz"},
		Logger:     log,
	}))
	engine.Use(middleware.TraceAttributes())
	if meterProvider.IsEnabled() {
		engine.Use(middleware.HTTPMetrics(meterProvider.Meter("sodpa.http")))
	}

	healthHandler.RegisterRoutes(engine)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(caseHandler).
		Register(documentHandler).
		Register(tramitationHandler).
		Register(budgetHandler).
		Register(outboxHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func shutdownProvider(log *zap.Logger, name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Error("Error shutting down telemetry provider",
			zap.String("provider", name), zap.Error(err))
	}
}
