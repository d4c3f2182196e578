package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/application"
	"github.com/Nestaway-Rentals/service-rental/internal/cache"
	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/database"
	"github.com/Nestaway-Rentals/service-rental/internal/common/health"
	"github.com/Nestaway-Rentals/service-rental/internal/common/kafka"
	"github.com/Nestaway-Rentals/service-rental/internal/common/logger"
	"github.com/Nestaway-Rentals/service-rental/internal/common/middleware"
	"github.com/Nestaway-Rentals/service-rental/internal/config"
	rentalEvents "github.com/Nestaway-Rentals/service-rental/internal/events"
	"github.com/Nestaway-Rentals/service-rental/internal/handler"
	"github.com/Nestaway-Rentals/service-rental/internal/i18n"
	"github.com/Nestaway-Rentals/service-rental/internal/repository"
	"github.com/Nestaway-Rentals/service-rental/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "service-rental"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(repository.Models()...); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.AccessTTL)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize listing cache
	var listingCache application.ListingCache = cache.NoopListingCache{}
	var redisClient *redis.Client
	if cfg.RedisConfig.URL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisConfig.URL)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		listingCache = cache.NewRedisListingCache(redisClient, cfg.RedisConfig.TTL)
		log.Info("listing cache enabled", zap.Duration("ttl", cfg.RedisConfig.TTL))
	}

	// Initialize image storage
	uploader, err := storage.NewS3Uploader(ctx, storage.Options{
		Bucket:        cfg.S3Config.Bucket,
		Region:        cfg.S3Config.Region,
		Endpoint:      cfg.S3Config.Endpoint,
		PublicBaseURL: cfg.S3Config.PublicBaseURL,
	})
	if err != nil {
		log.Fatal("failed to initialize image storage", zap.Error(err))
	}
	if !uploader.Enabled() {
		log.Warn("image uploads disabled: no S3 bucket configured")
	}

	// Load message catalogs
	catalog, err := i18n.Load()
	if err != nil {
		log.Fatal("failed to load message catalogs", zap.Error(err))
	}

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	listingRepo := repository.NewGormListingRepository(db)
	profileRepo := repository.NewGormProfileRepository(db)
	notificationRepo := repository.NewGormNotificationRepository(db)

	// Initialize application services
	bookingService := application.NewBookingService(bookingRepo, listingRepo, kafkaProducer, log)
	listingService := application.NewListingService(listingRepo, listingCache, uploader, log)
	authService := application.NewAuthService(profileRepo, jwtManager, log)
	profileService := application.NewProfileService(profileRepo, jwtManager, log)
	notificationService := application.NewNotificationService(notificationRepo, catalog, log)

	// Initialize and start booking event consumer in a goroutine
	bookingConsumer := rentalEvents.NewBookingEventConsumer(
		cfg.KafkaConfig.Brokers,
		cfg.KafkaConfig.GroupPrefix,
		notificationService,
		log,
	)
	defer func() { _ = bookingConsumer.Close() }()

	go func() {
		log.Info("starting booking event consumer")
		if err := bookingConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("booking event consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(i18n.LocaleMiddleware(catalog))

	// Register health check routes
	healthHandler := health.NewHandler(db, serviceName)
	if redisClient != nil {
		healthHandler.AddChecker("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	healthHandler.RegisterRoutes(router)

	// Register routes
	api := &router.RouterGroup
	handler.NewAuthHandler(authService).RegisterRoutes(api)
	handler.NewProfileHandler(profileService).RegisterRoutes(api, jwtManager)
	handler.NewListingHandler(listingService).RegisterRoutes(api, jwtManager)
	handler.NewBookingHandler(bookingService).RegisterRoutes(api, jwtManager)
	handler.NewNotificationHandler(notificationService).RegisterRoutes(api, jwtManager)
	handler.NewHostHandler(bookingService).RegisterRoutes(api, jwtManager)
	handler.NewI18nHandler(catalog).RegisterRoutes(api)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
