package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	campaignUseCase "github.com/tzedaka-labs/donation-processor/internal/domain/usecase/campaign"
	donationUseCase "github.com/tzedaka-labs/donation-processor/internal/domain/usecase/donation"
	gatewayUseCase "github.com/tzedaka-labs/donation-processor/internal/domain/usecase/gateway"
	lotteryUseCase "github.com/tzedaka-labs/donation-processor/internal/domain/usecase/lottery"

	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/api/handler"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/api/routes"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/database"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/database/migration"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/event"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/gateway"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/id"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/logger"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/scheduler"
	timeProvider "github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/time"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer func() { _ = appLogger.Flush() }()

	// Setup database configuration
	dbConfig := &database.Config{
		Driver:          "postgres",
		Host:            cfg.Database.Host,
		Port:            database.ParsePort(cfg.Database.Port),
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}

	// Initialize time provider and id generator
	tp := timeProvider.NewRealTimeProvider()
	idGen := id.NewUUIDGenerator()

	// Connect to the database
	conn, err := database.ConnectWithRetry(context.Background(), dbConfig, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	// Run migrations
	migrationMgr := migration.NewMigrationManager(conn.DB, appLogger)
	if err := migrationMgr.MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Unit of work and repositories. Outside an explicit transaction the unit
	// of work hands out repositories bound to the base connection.
	uow := database.NewUnitOfWork(conn.DB, appLogger, tp)
	donationRepo := uow.GetDonationRepository(context.Background())
	campaignRepo := uow.GetCampaignRepository(context.Background())
	lotteryRepo := uow.GetLotteryRepository(context.Background())

	// In-process event bus connecting donation completion to campaign
	// aggregation and lottery fulfillment
	bus := event.NewMemoryBus(appLogger)

	// Payment gateways and the routing layer
	primaryGateway := gateway.NewPrimaryGateway(gateway.Options{
		BaseURL: cfg.Gateway.Primary.BaseURL,
		APIKey:  cfg.Gateway.Primary.APIKey,
		Timeout: cfg.Gateway.Primary.Timeout,
	}, appLogger)
	regionalGateway := gateway.NewRegionalGateway(gateway.Options{
		BaseURL: cfg.Gateway.Regional.BaseURL,
		APIKey:  cfg.Gateway.Regional.APIKey,
		Timeout: cfg.Gateway.Regional.Timeout,
	}, appLogger)
	gatewayRouter := gatewayUseCase.NewRouter(
		primaryGateway, regionalGateway, gatewayUseCase.DefaultRouterConfig(), appLogger)

	// Initialize use cases
	retryPolicy := donationUseCase.RetryPolicy{
		MaxAttempts:    cfg.Donation.StatusQueryMaxAttempts,
		InitialBackoff: coreport.Duration(cfg.Donation.StatusQueryBackoffMs) * coreport.Millisecond,
		MaxBackoff:     coreport.Duration(cfg.Donation.StatusQueryMaxBackoffMs) * coreport.Millisecond,
	}
	donationService := donationUseCase.NewService(
		donationRepo,
		gatewayRouter,
		donationUseCase.NewAmountValidator(donationUseCase.DefaultAmountRules()),
		bus,
		appLogger,
		tp,
		idGen,
		coreport.Duration(cfg.Donation.ChargeTimeout),
		retryPolicy,
	)

	campaignService := campaignUseCase.NewService(campaignRepo, appLogger, tp, idGen)
	campaignAggregator := campaignUseCase.NewAggregator(campaignRepo, appLogger)
	campaignAggregator.RegisterHandlers(bus)

	rateLimit := lotteryUseCase.PurchaseRateLimit{
		MaxTickets: cfg.Lottery.PurchaseLimitTickets,
		Window:     coreport.Duration(cfg.Lottery.PurchaseLimitWindowMs) * coreport.Millisecond,
	}
	lotteryEngine := lotteryUseCase.NewEngine(
		lotteryRepo,
		campaignRepo,
		bus,
		appLogger,
		tp,
		idGen,
		rand.New(rand.NewSource(time.Now().UnixNano())),
		rateLimit,
	)
	lotteryEngine.RegisterHandlers(bus)

	// Scheduled draw sweep
	drawScheduler := scheduler.NewDrawScheduler(lotteryEngine, cfg.Lottery.DrawSweepSchedule, appLogger)
	if err := drawScheduler.Start(); err != nil {
		appLogger.Error("Failed to start draw scheduler", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize API handlers
	donationHandler := handler.NewDonationHandler(donationService, appLogger)
	campaignHandler := handler.NewCampaignHandler(campaignService, appLogger)
	lotteryHandler := handler.NewLotteryHandler(lotteryEngine, appLogger)

	// Initialize Gin router
	router := gin.New()

	// Setup middlewares
	routes.SetupMiddlewares(router, appLogger)

	// Setup routes
	routes.SetupRoutes(router, donationHandler, campaignHandler, lotteryHandler)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	// Stop the draw sweep before the server so no new draws start
	drawScheduler.Stop()

	// Create a deadline to wait for
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown the server
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missing []string

	if cfg.Server.Port == 0 {
		missing = append(missing, "server.port")
	}
	if cfg.Database.Host == "" {
		missing = append(missing, "database.host")
	}
	if cfg.Database.Username == "" {
		missing = append(missing, "database.username")
	}
	if cfg.Database.Password == "" {
		missing = append(missing, "database.password")
	}
	if cfg.Database.Database == "" {
		missing = append(missing, "database.database")
	}
	if cfg.Gateway.Primary.BaseURL == "" {
		missing = append(missing, "gateway.primary.baseUrl")
	}
	if cfg.Gateway.Regional.BaseURL == "" {
		missing = append(missing, "gateway.regional.baseUrl")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}
	return nil
}
