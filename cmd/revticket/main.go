package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harshWarbhe/revticket/internal/client"
	"github.com/harshWarbhe/revticket/internal/di"
	"github.com/harshWarbhe/revticket/internal/metrics"
	"github.com/harshWarbhe/revticket/internal/service"
	"github.com/harshWarbhe/revticket/pkg/config"
	"github.com/harshWarbhe/revticket/pkg/database"
	"github.com/harshWarbhe/revticket/pkg/logger"
	"github.com/harshWarbhe/revticket/pkg/middleware"
	pkgredis "github.com/harshWarbhe/revticket/pkg/redis"
	"github.com/harshWarbhe/revticket/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := &logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if cfg.App.Debug {
		logCfg.Level = "debug"
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting revticket", zap.String("version", cfg.App.Version))

	ctx := context.Background()

	// Telemetry
	telCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	_, err = telemetry.Init(ctx, telCfg)
	if err != nil {
		appLog.Warn("Telemetry init failed, continuing without tracing", zap.Error(err))
	} else {
		defer telemetry.Shutdown(ctx)
	}
	if err := telemetry.InitMetrics(ctx, telCfg); err != nil {
		appLog.Warn("Metrics init failed", zap.Error(err))
	} else {
		defer telemetry.ShutdownMetrics(ctx)
	}
	if err := metrics.Init(); err != nil {
		appLog.Warn("Booking metrics init failed", zap.Error(err))
	}

	// Database
	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
		ServiceName:     cfg.OTel.ServiceName,
	})
	if err != nil {
		appLog.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()
	appLog.Info("Database connected")

	// Redis
	redisClient, err := pkgredis.NewClient(ctx, &pkgredis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: 100 * time.Millisecond,
	})
	if err != nil {
		appLog.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()
	appLog.Info("Redis connected")

	// Event publisher; broker is optional
	var eventPublisher service.EventPublisher = service.NewNoOpEventPublisher()
	if cfg.Kafka.Enabled {
		pub, err := service.NewKafkaEventPublisher(&service.EventPublisherConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       cfg.Kafka.Topic,
			ServiceName: cfg.App.Name,
			ClientID:    cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn("Kafka setup failed, using no-op publisher", zap.Error(err))
		} else {
			eventPublisher = pub
			defer pub.Close()
			appLog.Info("Kafka event publisher ready")
		}
	}

	// Downstream collaborators
	notifier := client.NewNotificationClient(cfg.Services.NotificationURL, cfg.Booking.NotifyTimeout)
	stats := client.NewStatsClient(&client.StatsClientConfig{
		UserStatsURL:    cfg.Services.UserStatsURL,
		BookingStatsURL: cfg.Services.BookingStatsURL,
		CatalogStatsURL: cfg.Services.CatalogURL,
	})
	catalogs := client.NewSearchClient(&client.SearchClientConfig{
		MovieURL:    cfg.Services.CatalogURL,
		TheaterURL:  cfg.Services.CatalogURL,
		ShowtimeURL: cfg.Services.CatalogURL,
	})

	container := di.NewContainer(&di.ContainerConfig{
		DB:             db,
		Redis:          redisClient,
		EventPublisher: eventPublisher,
		Notifier:       notifier,
		Stats:          stats,
		Catalogs:       catalogs,
		BookingConfig: &service.BookingServiceConfig{
			ReleaseRetries:       cfg.Booking.ReleaseRetries,
			ReleaseRetryInterval: cfg.Booking.ReleaseRetryInterval,
			NotifyTimeout:        cfg.Booking.NotifyTimeout,
			NotifyRetries:        cfg.Booking.NotifyRetries,
		},
		SourceTimeout: cfg.Booking.SourceTimeout,
	})

	// Drain stuck seat releases alongside the server
	workerCtx, workerCancel := context.WithCancel(ctx)
	container.ReleaseWorker.Start(workerCtx)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(telemetry.TracingMiddleware(cfg.OTel.ServiceName))

	router.GET("/healthz", container.HealthHandler.Liveness)
	router.GET("/readyz", container.HealthHandler.Readiness)

	idempotency := middleware.IdempotencyMiddleware(&middleware.IdempotencyConfig{
		Redis: redisClient,
		TTL:   cfg.Booking.IdempotencyTTL,
	})

	v1 := router.Group("/api/v1")
	{
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
		{
			bookings.POST("", idempotency, container.BookingHandler.CreateBooking)
			bookings.POST("/:id/payment", idempotency, container.BookingHandler.AttachPayment)
			bookings.POST("/:id/cancel", idempotency, container.BookingHandler.CancelBooking)
			bookings.GET("", container.BookingHandler.GetUserBookings)
			bookings.GET("/:id", container.BookingHandler.GetBooking)
		}

		showtimes := v1.Group("/showtimes")
		{
			showtimes.GET("/conflict", container.ShowtimeHandler.CheckConflict)
			showtimes.GET("/:id", container.ShowtimeHandler.GetShowtime)
			showtimes.GET("/:id/seats", container.BookingHandler.GetSeatMap)
			showtimes.POST("",
				middleware.AuthMiddleware(cfg.JWT.Secret),
				middleware.RequireRole("admin"),
				container.ShowtimeHandler.CreateShowtime,
			)
		}

		v1.GET("/reports/overview", container.ReportHandler.GetSystemOverview)
		v1.GET("/search", container.ReportHandler.SearchAll)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLog.Info("HTTP server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down...")

	workerCancel()
	container.ReleaseWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Forced shutdown", zap.Error(err))
	}

	appLog.Info("Server exited")
}
