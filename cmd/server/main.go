package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/prodtrack/backend/internal/application/catalog"
	exportapp "github.com/prodtrack/backend/internal/application/export"
	plantapp "github.com/prodtrack/backend/internal/application/plant"
	productionapp "github.com/prodtrack/backend/internal/application/production"
	transferapp "github.com/prodtrack/backend/internal/application/transfer"
	"github.com/prodtrack/backend/internal/domain/transfer"
	"github.com/prodtrack/backend/internal/infrastructure/auth"
	"github.com/prodtrack/backend/internal/infrastructure/cache"
	"github.com/prodtrack/backend/internal/infrastructure/config"
	"github.com/prodtrack/backend/internal/infrastructure/event"
	"github.com/prodtrack/backend/internal/infrastructure/logger"
	"github.com/prodtrack/backend/internal/infrastructure/persistence"
	"github.com/prodtrack/backend/internal/infrastructure/storage"
	"github.com/prodtrack/backend/internal/infrastructure/telemetry"
	"github.com/prodtrack/backend/internal/interfaces/http/handler"
	"github.com/prodtrack/backend/internal/interfaces/http/middleware"
	"github.com/prodtrack/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	hashKey := flag.String("hash-admin-key", "", "print the bcrypt hash of the given admin key and exit")
	flag.Parse()

	if *hashKey != "" {
		hash, err := auth.HashAdminKey(*hashKey)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to hash admin key:", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

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
		_ = log.Sync()
	}()

	log.Info("Starting production tracking backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold),
	)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// sqlite has no migration files, its schema comes from the models
	if cfg.Database.Driver == "sqlite" {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.SlowQueryThresh = cfg.Database.SlowThreshold
	if cfg.Database.Driver == "sqlite" {
		dbTracing.DBSystem = "sqlite"
	}
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Cache
	cacheStore, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.IsDevelopment()),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer func() {
		if err := cacheStore.Close(); err != nil {
			log.Error("Error closing cache store", zap.Error(err))
		}
	}()

	// Repositories
	materialRepo := cache.NewCachedMaterialRepository(
		persistence.NewGormMaterialRepository(db.DB), cacheStore, cfg.Redis.CacheTTL, log,
	)
	placeRepo := persistence.NewGormPlaceRepository(db.DB)
	labelerRepo := persistence.NewGormLabelerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)

	// Events
	eventBus := event.NewInMemoryEventBus(log)
	orderFinalizedHandler := event.NewIdempotentHandler(
		transferapp.NewOrderFinalizedHandler(transferRepo, eventBus, log),
		cacheStore, 0, log,
	)
	eventBus.Subscribe(orderFinalizedHandler)
	log.Info("Event handlers registered",
		zap.Strings("order_finalized_events", orderFinalizedHandler.EventTypes()),
	)

	// Application services
	materialService := catalogapp.NewMaterialService(materialRepo, eventBus)
	placeService := plantapp.NewPlaceService(placeRepo, eventBus)
	labelerService := plantapp.NewLabelerService(labelerRepo, eventBus)
	orderService := productionapp.NewOrderService(orderRepo, materialRepo, placeRepo, labelerRepo, eventBus)
	planService := productionapp.NewPlanService(planRepo, materialRepo, placeRepo, orderRepo, eventBus)
	transferService := transferapp.NewTransferService(transferRepo, materialRepo, labelerRepo, eventBus)

	exportOpts := []exportapp.Option{
		exportapp.WithMaxRows(cfg.Export.MaxRows),
		exportapp.WithLogger(log),
	}
	if cfg.Storage.Enabled {
		archive, err := newArchiveStorage(&cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize export storage", zap.Error(err))
		}
		exportOpts = append(exportOpts, exportapp.WithStorage(archive, cfg.Storage.PresignTTL))
		log.Info("Export archive storage enabled", zap.String("driver", cfg.Storage.Driver))
	}
	exportService := exportapp.NewExportService(materialService, orderService, planService, transferService, exportOpts...)

	// Admin key
	verifier, err := auth.NewAdminKeyVerifier(cfg.Admin, cfg.App.IsDevelopment())
	if err != nil {
		log.Fatal("Invalid admin key configuration", zap.Error(err))
	}
	if !verifier.Configured() {
		log.Warn("No admin key configured, admin actions are open in development")
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.TracingAttributeInjector())
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	healthHandler := handler.NewHealthHandler(telemetry.ServiceVersion, map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
		"cache": func(ctx context.Context) error {
			_, _, err := cacheStore.Get(ctx, "health:probe")
			return err
		},
	})

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAdminGuard(middleware.RequireAdminKey(verifier, cfg.Admin.HeaderName)),
	)
	router.RegisterAPI(r, router.Handlers{
		Health:            healthHandler,
		Materials:         handler.NewMaterialHandler(materialService),
		Places:            handler.NewPlaceHandler(placeService),
		Labelers:          handler.NewLabelerHandler(labelerService),
		Orders:            handler.NewProductionOrderHandler(orderService),
		Plans:             handler.NewProductionPlanHandler(planService),
		RawTransfers:      handler.NewTransferHandler(transfer.KindRawMaterial, transferService),
		FinishedTransfers: handler.NewTransferHandler(transfer.KindFinishedProduct, transferService),
		Exports:           handler.NewExportHandler(exportService),
	})
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

// newArchiveStorage builds the object store behind export archives
func newArchiveStorage(cfg *config.StorageConfig, log *zap.Logger) (exportapp.ArchiveStorage, error) {
	if cfg.Driver == "memory" {
		log.Warn("Export archives are kept in memory and lost on restart")
		return storage.NewMemoryObjectStorage(cfg.Endpoint), nil
	}

	s3Storage, err := storage.NewS3ObjectStorage(cfg, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s3Storage.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare bucket %s: %w", s3Storage.Bucket(), err)
	}
	return s3Storage, nil
}
