package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"catalog-sync-service/internal/config"
	"catalog-sync-service/internal/database"
	"catalog-sync-service/internal/handlers"
	"catalog-sync-service/internal/middleware"
	"catalog-sync-service/internal/models"
	"catalog-sync-service/internal/repository"
	"catalog-sync-service/internal/secrets"
	"catalog-sync-service/internal/services"
	"catalog-sync-service/internal/storage"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(
		&models.Site{},
		&models.SyncRun{},
		&models.SyncLog{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductAttribute{},
		&models.ProductVariation{},
		&models.ProductCategory{},
		&models.Media{},
		&models.Currency{},
	); err != nil {
		log.Printf("Warning: Auto-migration failed: %v", err)
	}
	log.Println("Database models migrated")

	// Redis is optional; without it currency lookups hit the database
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: invalid REDIS_URL, caching disabled: %v", err)
		} else {
			redisClient = redis.NewClient(redisOpts)
		}
	}

	// Initialize GCP Secret Manager
	var secretManager *secrets.GCPSecretManager
	if cfg.GCPProjectID != "" {
		ctx := context.Background()
		secretManager, err = secrets.NewGCPSecretManager(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Printf("Warning: Failed to initialize GCP Secret Manager: %v", err)
		} else {
			defer secretManager.Close()
			log.Println("GCP Secret Manager initialized")
		}
	}

	// Storage backends
	localBackend := storage.NewLocalBackend(cfg.MediaDir, cfg.MediaBaseURL)
	var remoteBackend storage.Backend
	if cfg.GCSBucket != "" {
		gcsBackend, err := storage.NewGCSBackend(context.Background(), cfg.GCSBucket)
		if err != nil {
			log.Printf("Warning: Failed to initialize GCS backend: %v", err)
		} else {
			defer gcsBackend.Close()
			remoteBackend = gcsBackend
			log.Printf("GCS storage backend initialized (bucket %s)", cfg.GCSBucket)
		}
	}
	selector := storage.NewSelector(localBackend, remoteBackend)

	// Initialize repositories
	siteRepo := repository.NewSiteRepository(db)
	syncRepo := repository.NewSyncRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	currencyRepo := repository.NewCurrencyRepository(db, redisClient)

	// Initialize services
	clientFactory := services.NewWooClientFactory(secretManager)
	converter := services.NewConverter(currencyRepo)
	mediaService := services.NewMediaService(selector, mediaRepo, logger)
	variationImporter := services.NewVariationImporter(catalogRepo, syncRepo, mediaService, cfg.SyncPageSize, logger)
	productImporter := services.NewProductImporter(catalogRepo, syncRepo, mediaService, variationImporter, logger)
	categoryImporter := services.NewCategoryImporter(catalogRepo, syncRepo, mediaService, cfg.SyncPageSize, logger)
	locker := services.NewSiteLocker()
	syncService := services.NewSyncService(siteRepo, syncRepo, categoryImporter, productImporter, converter, locker, clientFactory, cfg.SyncPageSize, logger)
	siteService := services.NewSiteService(siteRepo, clientFactory, secretManager, logger)

	// Stale-run watchdog
	watchdog := services.NewWatchdog(syncRepo, cfg.WatchdogInterval, cfg.SyncStaleTimeout, logger)
	watchdogCtx, stopWatchdog := context.WithCancel(context.Background())
	defer stopWatchdog()
	go watchdog.Start(watchdogCtx)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	siteHandler := handlers.NewSiteHandler(siteService)
	syncHandler := handlers.NewSyncHandler(syncService, syncRepo)
	currencyHandler := handlers.NewCurrencyHandler(currencyRepo)
	catalogHandler := handlers.NewCatalogHandler(catalogRepo, mediaRepo)

	// Setup router
	router := setupRouter(cfg, logger, healthHandler, siteHandler, syncHandler, currencyHandler, catalogHandler)

	// Start server
	log.Printf("Catalog Sync Service starting on port %s (env: %s)", cfg.Port, cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter configures the HTTP router
func setupRouter(
	cfg *config.Config,
	logger *logrus.Logger,
	healthHandler *handlers.HealthHandler,
	siteHandler *handlers.SiteHandler,
	syncHandler *handlers.SyncHandler,
	currencyHandler *handlers.CurrencyHandler,
	catalogHandler *handlers.CatalogHandler,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	// Security headers middleware
	router.Use(middleware.SecurityHeaders())

	// CORS middleware
	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{
			"http://localhost:3000",
			"http://localhost:3001",
		}
	}
	router.Use(middleware.CORS(origins))

	// Health check
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Locally stored media
	router.Static(strings.TrimRight(cfg.MediaBaseURL, "/"), cfg.MediaDir)

	// API routes
	v1 := router.Group("/api/v1")
	{
		sites := v1.Group("/sites")
		{
			sites.GET("", siteHandler.List)
			sites.POST("", siteHandler.Create)
			sites.GET("/:id", siteHandler.Get)
			sites.PATCH("/:id", siteHandler.Update)
			sites.POST("/:id/test", siteHandler.TestConnection)
			sites.POST("/:id/sync", syncHandler.TriggerSync)
		}

		sync := v1.Group("/sync")
		{
			sync.GET("/runs", syncHandler.ListRuns)
			sync.GET("/runs/:id", syncHandler.GetRun)
			sync.GET("/runs/:id/logs", syncHandler.GetRunLogs)
			sync.GET("/stats", syncHandler.GetStats)
		}

		currencies := v1.Group("/currencies")
		{
			currencies.GET("", currencyHandler.List)
			currencies.GET("/:code", currencyHandler.Get)
		}

		v1.GET("/categories", catalogHandler.ListCategories)
		v1.GET("/media", catalogHandler.ListMedia)
	}

	return router
}
