package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/perfectlystyled/service-checkout/internal/adapter"
	"github.com/perfectlystyled/service-checkout/internal/application"
	"github.com/perfectlystyled/service-checkout/internal/config"
	"github.com/perfectlystyled/service-checkout/internal/domain/discount"
	"github.com/perfectlystyled/service-checkout/internal/domain/order"
	"github.com/perfectlystyled/service-checkout/internal/handler"
	"github.com/perfectlystyled/service-checkout/internal/platform/auth"
	"github.com/perfectlystyled/service-checkout/internal/platform/database"
	"github.com/perfectlystyled/service-checkout/internal/platform/health"
	"github.com/perfectlystyled/service-checkout/internal/platform/kafka"
	"github.com/perfectlystyled/service-checkout/internal/platform/logger"
	"github.com/perfectlystyled/service-checkout/internal/platform/middleware"
	"github.com/perfectlystyled/service-checkout/internal/repository"
	"github.com/perfectlystyled/service-checkout/internal/saga"
)

const serviceName = "service-checkout"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("storage", cfg.StorageBackend),
	)

	ctx := context.Background()

	// Initialize storage
	discountRepo, orderRepo, pinger := openStorage(ctx, cfg, zapLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTTL)

	// Initialize Kafka producer (log-only when no brokers are configured)
	var publisher kafka.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = kafka.NewProducer(cfg.Kafka.Brokers, zapLogger)
	} else {
		zapLogger.Warn("KAFKA_BROKERS not set, order events will only be logged")
		publisher = kafka.NewNopPublisher(zapLogger)
	}
	defer publisher.Close()

	// Initialize payment provider (mock only in development without credentials)
	var provider adapter.PaymentProvider
	if cfg.PayPal.Enabled() || !cfg.IsDevelopment() {
		provider = adapter.NewPayPalAdapter(adapter.PayPalConfig{
			BaseURL:      cfg.PayPal.BaseURL,
			ClientID:     cfg.PayPal.ClientID,
			ClientSecret: cfg.PayPal.ClientSecret,
			ReturnURL:    cfg.PayPal.ReturnURL,
			CancelURL:    cfg.PayPal.CancelURL,
			Timeout:      cfg.PayPal.Timeout,
		}, zapLogger)
	} else {
		zapLogger.Warn("PayPal credentials not set, using mock payment provider")
		provider = adapter.NewMockPaymentProvider(zapLogger)
	}

	// Initialize report delivery
	archive := openReportArchive(ctx, cfg, zapLogger)
	mailer := adapter.NewLogMailer(zapLogger)

	// Initialize saga service
	sagaService := saga.NewSettlementSagaService(discountRepo, orderRepo, publisher, zapLogger)

	// Initialize application services
	discountService := application.NewDiscountService(discountRepo, zapLogger)
	checkoutService := application.NewCheckoutService(discountService, provider, cfg.Pricing.Currency, zapLogger)
	settlementService := application.NewSettlementService(sagaService, provider, application.SettlementConfig{
		ProductPrice:  cfg.Pricing.ProductPrice,
		Currency:      cfg.Pricing.Currency,
		VerifyCapture: cfg.PayPal.VerifyCapture,
	}, zapLogger)
	reportService := application.NewReportService(settlementService, archive, mailer, zapLogger)
	orderService := application.NewOrderService(orderRepo, zapLogger)

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CompressionMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(pinger, serviceName)
	healthHandler.RegisterRoutes(router)

	// Register API routes
	apiV1 := router.Group("/api/v1")
	handler.NewCheckoutHandler(checkoutService, settlementService).RegisterRoutes(apiV1)
	handler.NewDiscountHandler(discountService).RegisterRoutes(apiV1)
	handler.NewReportHandler(reportService).RegisterRoutes(apiV1)
	handler.NewAdminHandler(discountService, orderService).RegisterRoutes(apiV1, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down " + serviceName + "...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info(serviceName + " stopped")
}

// openStorage builds the repositories for the configured backend.
func openStorage(ctx context.Context, cfg *config.ServiceConfig, zapLogger *zap.Logger) (discount.DiscountRepository, order.OrderRepository, health.Pinger) {
	if cfg.StorageBackend == config.StorageDynamoDB {
		client, err := repository.NewDynamoDBClient(ctx, cfg.DynamoDB.Region, cfg.DynamoDB.Endpoint)
		if err != nil {
			zapLogger.Fatal("failed to create DynamoDB client", zap.Error(err))
		}
		return repository.NewDynamoDiscountRepository(client, cfg.DynamoDB.DiscountsTable),
			repository.NewDynamoOrderRepository(client, cfg.DynamoDB.OrdersTable),
			repository.NewDynamoDBPinger(client, cfg.DynamoDB.OrdersTable)
	}

	db, err := database.Connect(cfg.DBConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(&repository.DiscountCodeModel{}, &repository.OrderModel{}); err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		zapLogger.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), cfg.MigrationsDir, zapLogger); err != nil {
			zapLogger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	return repository.NewGormDiscountRepository(db),
		repository.NewGormOrderRepository(db),
		repository.NewGormPinger(db)
}

// openReportArchive returns an S3 archive when a bucket is configured.
func openReportArchive(ctx context.Context, cfg *config.ServiceConfig, zapLogger *zap.Logger) adapter.ReportArchive {
	if cfg.Reports.Bucket == "" {
		return adapter.NopReportArchive{}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Reports.AWSRegion))
	if err != nil {
		zapLogger.Fatal("failed to load AWS config", zap.Error(err))
	}
	return adapter.NewS3ReportArchive(s3.NewFromConfig(awsCfg), cfg.Reports.Bucket, zapLogger)
}
