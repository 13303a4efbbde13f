package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cryptowallet/internal/config"
	"cryptowallet/internal/database"
	"cryptowallet/internal/feed"
	"cryptowallet/internal/handlers"
	"cryptowallet/internal/logger"
	"cryptowallet/internal/middleware"
	"cryptowallet/internal/scheduler"
	"cryptowallet/internal/services"
	"cryptowallet/internal/validator"

	_ "cryptowallet/internal/docs" // Import swagger docs
)

// @title           Crypto Wallet Tracker API
// @version         1.0
// @description     Registers crypto wallets, values them against live market prices, and keeps tracked currency prices fresh in the background.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize price feed client
	priceFeed := feed.NewClient(
		appConfig.FeedBaseURL,
		&http.Client{Timeout: appConfig.FeedTimeout},
		appConfig.HistoryLookback,
	)

	// Initialize services
	db := dbManager.DB()
	currencyService := services.NewCurrencyService(db)
	resolverService := services.NewResolverService(priceFeed, currencyService)
	valuationService := services.NewValuationService(currencyService)
	walletService := services.NewWalletService(db, resolverService, valuationService)

	// Initialize handlers
	refreshScheduler := scheduler.New(priceFeed, currencyService,
		appConfig.RefreshInterval, appConfig.RefreshBatchSize)
	walletHandler := handlers.NewWalletHandler(walletService)
	currencyHandler := handlers.NewCurrencyHandler(currencyService, refreshScheduler)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Wallet routes
	wallets := v1.Group("/wallets")
	wallets.POST("", walletHandler.CreateWallet)
	wallets.GET("/:id", walletHandler.GetWallet)

	// Currency routes
	currencies := v1.Group("/currencies")
	currencies.GET("", currencyHandler.ListCurrencies)
	currencies.GET("/:symbol", currencyHandler.GetCurrency)
	currencies.POST("/refresh", currencyHandler.RefreshPrices)

	// Start the background price refresh loop
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	refreshScheduler.Start(ctx)
	defer refreshScheduler.Stop()

	log.Infof("Starting wallet tracker server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
