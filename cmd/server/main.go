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
	"github.com/google/uuid"
	catalogapp "github.com/petshop/backend/internal/application/catalog"
	identityapp "github.com/petshop/backend/internal/application/identity"
	orderapp "github.com/petshop/backend/internal/application/order"
	pricingapp "github.com/petshop/backend/internal/application/pricing"
	promotionapp "github.com/petshop/backend/internal/application/promotion"
	resellerapp "github.com/petshop/backend/internal/application/reseller"
	domainpricing "github.com/petshop/backend/internal/domain/pricing"
	"github.com/petshop/backend/internal/infrastructure/auth"
	"github.com/petshop/backend/internal/infrastructure/cache"
	"github.com/petshop/backend/internal/infrastructure/config"
	"github.com/petshop/backend/internal/infrastructure/event"
	"github.com/petshop/backend/internal/infrastructure/logger"
	"github.com/petshop/backend/internal/infrastructure/persistence"
	infrastrategy "github.com/petshop/backend/internal/infrastructure/strategy"
	strategypricing "github.com/petshop/backend/internal/infrastructure/strategy/pricing"
	"github.com/petshop/backend/internal/infrastructure/telemetry"
	"github.com/petshop/backend/internal/interfaces/http/handler"
	"github.com/petshop/backend/internal/interfaces/http/middleware"
	"github.com/petshop/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog := logger.New(logCfg)

	ctx := context.Background()
	telCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}

	// OTLP log export comes first so the final logger can tee into it
	logProvider, err := telemetry.NewLoggerProvider(ctx, telCfg, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log := logger.New(logCfg, logProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting petshop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	profCfg := cfg.Telemetry.Profiling
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:              profCfg.Enabled,
		ServerAddress:        profCfg.ServerAddress,
		ApplicationName:      profCfg.ApplicationName,
		BasicAuthUser:        profCfg.BasicAuthUser,
		BasicAuthPassword:    profCfg.BasicAuthPassword,
		ProfileTypes:         profCfg.ProfileTypes,
		MutexProfileFraction: profCfg.MutexProfileFraction,
		BlockProfileRate:     profCfg.BlockProfileRate,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && profCfg.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)
	pricingMetrics, err := telemetry.NewPricingMetrics(meter)
	if err != nil {
		log.Fatal("Failed to register pricing metrics", zap.Error(err))
	}

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	// Database with the zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Ping(ctx); err != nil {
		log.Fatal("Database is not reachable", zap.Error(err))
	}
	if cfg.Database.Driver == "sqlite" {
		// SQL migrations target postgres; local sqlite files get the models directly
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.App.Env == "development",
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	// Active-promotion snapshot cache: Redis when configured, memory otherwise
	promoCache, err := cache.NewPromotionCacheFactory(cfg.Redis, cache.WithLogger(log)).Create(ctx)
	if err != nil {
		log.Fatal("Failed to create promotion cache", zap.Error(err))
	}
	defer func() {
		if err := promoCache.Close(); err != nil {
			log.Error("Error closing promotion cache", zap.Error(err))
		}
	}()
	log.Info("Promotion cache ready", zap.String("backend", promoCache.Backend))

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	promotionRepo := persistence.NewGormPromotionRepository(db.DB)
	resellerRepo := persistence.NewGormResellerCategoryRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Pricing
	tierPolicy, err := domainpricing.ParseTierPolicy(cfg.Pricing.TierPolicy)
	if err != nil {
		log.Fatal("Invalid tier policy", zap.Error(err))
	}
	resolver := domainpricing.NewResolver(domainpricing.WithTierPolicy(tierPolicy))
	currencies := pricingapp.NewCurrencySelector(cfg.Pricing.DefaultCurrency, cfg.Pricing.SupportedCurrencies)
	promotionSource := pricingapp.NewActivePromotionSource(promotionRepo,
		pricingapp.WithSnapshotCache(promoCache),
		pricingapp.WithSnapshotTTL(cfg.Pricing.PromotionCacheTTL),
		pricingapp.WithSourceMetrics(pricingMetrics),
		pricingapp.WithSourceLogger(log),
	)
	strategies, err := infrastrategy.NewRegistryWithProvider(
		strategypricing.NewRepositoryResellerCategoryProvider(resellerRepo), tierPolicy)
	if err != nil {
		log.Fatal("Failed to build pricing strategies", zap.Error(err))
	}

	// Domain events are logged and counted in-process
	eventBus := event.NewInMemoryEventBus(log)
	activityLog, err := event.NewActivityLogHandler(log, meter)
	if err != nil {
		log.Fatal("Failed to create activity log handler", zap.Error(err))
	}
	eventBus.Subscribe(activityLog)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	storefrontService := pricingapp.NewStorefrontPricingService(
		productRepo, resellerRepo, promotionSource, resolver, currencies, pricingMetrics, log)
	orderService := orderapp.NewOrderService(orderRepo, persistence.NewGormTransactionScope(db.DB),
		strategies, promotionSource, nil, pricingMetrics, log)
	orderService.SetEventPublisher(eventBus)
	promotionService := promotionapp.NewPromotionService(promotionRepo, productRepo, promotionSource, nil, log)
	promotionService.SetEventPublisher(eventBus)
	resellerService := resellerapp.NewResellerCategoryService(resellerRepo, log)
	resellerService.SetEventPublisher(eventBus)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, log)
	userService := identityapp.NewUserService(userRepo, resellerRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := router.NewEngine(router.EngineOptions{
		HTTP:        cfg.HTTP,
		ServiceName: cfg.Telemetry.ServiceName,
		Tracing:     cfg.Telemetry.Enabled,
		Meter:       meter,
		Logger:      log,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	viewers := handler.NewViewerResolver(storefrontService, cfg.Pricing.GeoCountryHeader)
	loginLimiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)
	defer loginLimiter.Stop()

	router.Setup(engine, router.Handlers{
		Health: handler.NewHealthHandler(version, map[string]handler.Pinger{
			"database": db,
			"cache":    promoCache,
		}),
		Auth:             handler.NewAuthHandler(authService, userService),
		Storefront:       handler.NewStorefrontHandler(storefrontService, viewers),
		Order:            handler.NewOrderHandler(orderService, viewers),
		Category:         handler.NewCategoryHandler(categoryService),
		Product:          handler.NewProductHandler(productService),
		Promotion:        handler.NewPromotionHandler(promotionService),
		ResellerCategory: handler.NewResellerCategoryHandler(resellerService),
		User:             handler.NewUserHandler(userService),
	}, router.RouteConfig{
		Tokens:       jwtService,
		Tenant:       middleware.TenantConfig{DefaultTenant: defaultTenant(cfg.App.DefaultTenant, log), Logger: log},
		LoginLimiter: loginLimiter,
		Logger:       log,
	})

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down log provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// defaultTenant parses the configured fallback tenant. An empty value makes
// the tenant mandatory on every request.
func defaultTenant(raw string, log *zap.Logger) uuid.UUID {
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Fatal("Invalid app.default_tenant", zap.String("value", raw), zap.Error(err))
	}
	return id
}
