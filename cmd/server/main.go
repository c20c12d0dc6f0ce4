package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	financeapp "github.com/lucreapp/backend/internal/application/finance"
	integrationapp "github.com/lucreapp/backend/internal/application/integration"
	tenantapp "github.com/lucreapp/backend/internal/application/tenant"
	"github.com/lucreapp/backend/internal/infrastructure/config"
	"github.com/lucreapp/backend/internal/infrastructure/logger"
	"github.com/lucreapp/backend/internal/infrastructure/marketplace"
	"github.com/lucreapp/backend/internal/infrastructure/notifier"
	"github.com/lucreapp/backend/internal/infrastructure/persistence"
	"github.com/lucreapp/backend/internal/infrastructure/scheduler"
	"github.com/lucreapp/backend/internal/infrastructure/telemetry"
	"github.com/lucreapp/backend/internal/interfaces/http/handler"
	"github.com/lucreapp/backend/internal/interfaces/http/middleware"
	"github.com/lucreapp/backend/internal/interfaces/http/router"
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

	log.Info("Starting Lucre Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing before anything that emits spans
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
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

	// Register query tracing when enabled
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	taxProfileRepo := persistence.NewGormTaxProfileRepository(db.DB)
	productCostRepo := persistence.NewGormProductCostRepository(db.DB)
	logisticsRuleRepo := persistence.NewGormLogisticsRuleRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	credentialRepo := persistence.NewGormCredentialRepository(db.DB)
	errorLogRepo := persistence.NewGormErrorLogRepository(db.DB)

	// Marketplace API clients, shared by all tenants
	mlClient := marketplace.NewMercadoLivreClient(marketplace.MercadoLivreConfig{
		BaseURL:        cfg.Marketplace.MercadoLivre.BaseURL,
		RedirectURI:    cfg.Marketplace.MercadoLivre.RedirectURI,
		TimeoutSeconds: cfg.Marketplace.MercadoLivre.TimeoutSeconds,
	})
	shopeeClient := marketplace.NewShopeeClient(marketplace.ShopeeConfig{
		BaseURL:        cfg.Marketplace.Shopee.BaseURL,
		RedirectURI:    cfg.Marketplace.Shopee.RedirectURI,
		TimeoutSeconds: cfg.Marketplace.Shopee.TimeoutSeconds,
	})
	registry := marketplace.NewRegistry(mlClient, shopeeClient)

	// Failure alerts go out by email; persistence of the error log does not
	// depend on SMTP being configured
	alertNotifier := notifier.NewSMTPNotifier(notifier.Config{
		Host:     cfg.Alert.Host,
		Port:     cfg.Alert.Port,
		Username: cfg.Alert.Username,
		Password: cfg.Alert.Password,
		From:     cfg.Alert.From,
		To:       cfg.Alert.To,
	}, log)

	// Initialize application services
	orgService := tenantapp.NewOrganizationService(orgRepo, log)
	taxProfileService := financeapp.NewTaxProfileService(taxProfileRepo)
	logisticsService := financeapp.NewLogisticsService(logisticsRuleRepo)
	productCostService := financeapp.NewProductCostService(productCostRepo)
	analyticsService := financeapp.NewProfitabilityAnalyticsService(transactionRepo)
	simulationService := financeapp.NewTaxSimulationService(transactionRepo, taxProfileRepo)
	marginService := financeapp.NewMarginService(transactionRepo, taxProfileRepo, logisticsRuleRepo, log)
	oauthService := integrationapp.NewOAuthService(credentialRepo, orgRepo, registry, errorLogRepo, log)
	credentialManager := integrationapp.NewCredentialManager(credentialRepo, registry, errorLogRepo, alertNotifier, log)
	reconciler := integrationapp.NewOrderReconciler(
		credentialRepo, registry, errorLogRepo, alertNotifier,
		credentialManager, transactionRepo, logisticsRuleRepo, marginService, log,
	)

	// Background sweeps: token renewal and order sync. With Redis enabled the
	// job lock is distributed, otherwise it only guards within this process.
	var jobLocker scheduler.JobLocker
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		jobLocker = scheduler.NewRedisJobLock(redisClient)
		log.Info("Scheduler using Redis job locks", zap.String("host", cfg.Redis.Host))
	} else {
		jobLocker = scheduler.NewInMemoryJobLock()
	}
	defer func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	syncScheduler := scheduler.NewSyncScheduler(scheduler.SyncSchedulerConfig{
		Enabled:              cfg.Scheduler.Enabled,
		TokenRenewalSchedule: cfg.Scheduler.TokenRenewalSchedule,
		OrderSyncSchedule:    cfg.Scheduler.OrderSyncSchedule,
		JobTimeout:           cfg.Scheduler.JobTimeout,
		LockTTL:              cfg.Scheduler.LockTTL,
	}, jobLocker, credentialManager, reconciler, log)
	if err := syncScheduler.Start(); err != nil {
		log.Fatal("Failed to start sync scheduler", zap.Error(err))
	}
	defer syncScheduler.Stop()

	// Initialize HTTP handlers
	orgHandler := handler.NewOrganizationHandler(orgService)
	taxProfileHandler := handler.NewTaxProfileHandler(taxProfileService)
	logisticsHandler := handler.NewLogisticsHandler(logisticsService)
	productCostHandler := handler.NewProductCostHandler(productCostService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, simulationService, marginService)
	integrationHandler := handler.NewIntegrationHandler(oauthService, reconciler)
	systemHandler := handler.NewSystemHandler(db.DB)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanAnnotator())
	}

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
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

	// Liveness and readiness outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Tenant domain
	tenantRoutes := router.NewDomainGroup("tenant", "")
	tenantRoutes.POST("/organizations", orgHandler.Create)
	tenantRoutes.GET("/organizations", orgHandler.List)
	tenantRoutes.GET("/organizations/:organization_id", orgHandler.Get)
	tenantRoutes.PUT("/organizations/:organization_id", orgHandler.Update)
	tenantRoutes.DELETE("/organizations/:organization_id", orgHandler.Delete)

	// Finance domain, everything scoped per organization
	financeRoutes := router.NewDomainGroup("finance", "/organizations/:organization_id")
	financeRoutes.GET("/tax-profile", taxProfileHandler.Get)
	financeRoutes.PUT("/tax-profile", taxProfileHandler.Upsert)
	financeRoutes.DELETE("/tax-profile", taxProfileHandler.Delete)
	financeRoutes.POST("/logistics-rules", logisticsHandler.Create)
	financeRoutes.GET("/logistics-rules", logisticsHandler.List)
	financeRoutes.PUT("/logistics-rules/:id", logisticsHandler.Update)
	financeRoutes.DELETE("/logistics-rules/:id", logisticsHandler.Delete)
	financeRoutes.POST("/product-costs", productCostHandler.Create)
	financeRoutes.GET("/product-costs", productCostHandler.List)
	financeRoutes.GET("/product-costs/:id", productCostHandler.Get)
	financeRoutes.PUT("/product-costs/:id", productCostHandler.Update)
	financeRoutes.DELETE("/product-costs/:id", productCostHandler.Delete)
	financeRoutes.GET("/analytics/summary", analyticsHandler.Summary)
	financeRoutes.GET("/analytics/daily", analyticsHandler.DailySeries)
	financeRoutes.GET("/transactions", analyticsHandler.ListTransactions)
	financeRoutes.POST("/analytics/simulate-tax", analyticsHandler.SimulateTax)
	financeRoutes.POST("/margins/backfill", analyticsHandler.BackfillMargins)

	// Platform integration, credential lifecycle and sync per organization
	integrationRoutes := router.NewDomainGroup("integration", "/organizations/:organization_id/integrations")
	integrationRoutes.PUT("/credentials", integrationHandler.ConfigureCredentials)
	integrationRoutes.GET("/credentials", integrationHandler.GetCredentials)
	integrationRoutes.GET("/errors", integrationHandler.ListErrors)
	integrationRoutes.POST("/sync", integrationHandler.TriggerSync)

	// OAuth endpoints live outside the organization path: the start endpoints
	// take the tenant as a query parameter and the callbacks are hit by the
	// platforms with the tenant in the state parameter
	oauthRoutes := router.NewDomainGroup("oauth", "/integrations")
	oauthRoutes.GET("/ml/auth/start", integrationHandler.StartMLAuth)
	oauthRoutes.GET("/ml/auth/callback", integrationHandler.MLCallback)
	oauthRoutes.GET("/shopee/auth/start", integrationHandler.StartShopeeAuth)
	oauthRoutes.GET("/shopee/auth/callback", integrationHandler.ShopeeCallback)

	r.Register(tenantRoutes).
		Register(financeRoutes).
		Register(integrationRoutes).
		Register(oauthRoutes)

	r.Setup()

	// Create HTTP server with config
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Warn("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
