package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "pharmafind/docs"
	"pharmafind/internal/caching"
	"pharmafind/internal/config"
	"pharmafind/internal/handlers"
	"pharmafind/internal/jobs"
	"pharmafind/internal/jobs/background"
	"pharmafind/internal/middleware"
	"pharmafind/internal/repositories"
	"pharmafind/internal/services"
	"pharmafind/pkg/database"
	"pharmafind/pkg/logger"
)

const version = "1.0.0"

//	@title			pharmafind API
//	@version		1.0
//	@description	Medication search and pharmacy availability.
//	@BasePath		/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger, err := logger.New(logger.Config{
		Development: cfg.IsDevelopment(),
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.ClosePool(pool, appLogger)

	// Redis
	redisClient := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, appLogger)
	defer redisClient.Close()
	cacheSvc := caching.NewRedisCacheService(redisClient)

	// MinIO, used for package images only
	minioSvc, err := services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		appLogger.Fatal("Failed to initialize MinIO service", zap.Error(err))
	}
	if err := minioSvc.EnsureBucketExists(ctx, cfg.Minio.Bucket); err != nil {
		appLogger.Warn("Image bucket unavailable, images will be missing", zap.String("bucket", cfg.Minio.Bucket), zap.Error(err))
	}

	// Repositories
	inventoryRepo := repositories.NewInventoryRepo(pool)
	pharmacyRepo := repositories.NewPharmacyRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	packageRepo := repositories.NewPackageRepo(pool)
	translationRepo := repositories.NewTranslationRepo(pool)
	productImageRepo := repositories.NewProductImageRepo(pool)
	integrityRepo := repositories.NewIntegrityRepo(pool)

	// Services
	availabilitySvc := services.NewAvailabilityService(inventoryRepo, pharmacyRepo, services.AvailabilityOptions{
		DefaultRadiusKm: cfg.Search.DefaultRadiusKm,
		DefaultLimit:    cfg.Search.DefaultPharmacyLimit,
		MaxLimit:        cfg.Search.MaxPharmacyLimit,
		GeoPushdown:     cfg.Search.GeoPushdown,
	}, appLogger.Named("availability"))

	productSvc := services.NewProductService(
		productRepo,
		packageRepo,
		translationRepo,
		productImageRepo,
		availabilitySvc,
		cacheSvc,
		services.NewImageURLSigner(minioSvc, cfg.Minio.Bucket, cfg.PresignExpiry()),
		services.ProductSearchOptions{
			DefaultLimit:      cfg.Search.DefaultProductLimit,
			MaxLimit:          cfg.Search.MaxProductLimit,
			SearchCacheTTL:    cfg.SearchCacheTTL(),
			ProductCacheTTL:   cfg.ProductCacheTTL(),
			DetailConcurrency: cfg.Search.DetailConcurrency,
		},
		appLogger.Named("products"),
	)

	// Background jobs
	var auditor *jobs.IntegrityAuditor
	auditInterval := time.Duration(0)
	if cfg.Jobs.IntegrityAuditEnabled {
		auditor = jobs.NewIntegrityAuditor(integrityRepo, appLogger.Named("integrity"))
		auditInterval = cfg.IntegrityAuditInterval()
	}
	scheduler, err := background.NewJobScheduler(auditor, auditInterval, appLogger.Named("jobs"))
	if err != nil {
		appLogger.Fatal("Failed to create job scheduler", zap.Error(err))
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			appLogger.Warn("Job scheduler did not stop cleanly", zap.Error(err))
		}
	}()

	// Auth
	tokenVerifier := middleware.NewTokenVerifier(cfg.Auth.FirebaseProjectID,
		middleware.RemoteKeys(cfg.Auth.JWKSURL, appLogger), appLogger.Named("auth"))

	// Handlers
	productHandlers := handlers.NewProductHandlers(productSvc, appLogger)
	pharmacyHandlers := handlers.NewPharmacyHandlers(availabilitySvc, appLogger)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, minioSvc, cfg.Minio.Bucket, version)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.RequestLogger(appLogger.Named("http")))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoMiddleware.RemoveTrailingSlash())
	if timeout := cfg.RequestTimeout(); timeout > 0 {
		e.Use(echoMiddleware.ContextTimeout(timeout))
	}

	// Version middleware
	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API routes
	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))

	search := v1.Group("")
	if cfg.RateLimit.Enabled {
		search.Use(middleware.RateLimit(cacheSvc, cfg.RateLimit.Requests, cfg.RateLimitWindow(), appLogger))
	}
	search.GET("/products/search", productHandlers.SearchProducts)
	search.GET("/products/search/detailed", productHandlers.DetailedSearch)
	search.GET("/products/:id/availability", productHandlers.GetProductAvailability)
	search.POST("/pharmacies/search", pharmacyHandlers.SearchPharmacies)

	// Protected routes
	protected := v1.Group("")
	protected.Use(tokenVerifier.Middleware())
	protected.GET("/me", handlers.Me)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		appLogger.Info("pharmafind server starting", zap.String("version", version), zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
