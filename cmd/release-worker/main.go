package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/harshWarbhe/revticket/internal/inventory"
	"github.com/harshWarbhe/revticket/internal/metrics"
	"github.com/harshWarbhe/revticket/internal/repository"
	"github.com/harshWarbhe/revticket/internal/worker"
	"github.com/harshWarbhe/revticket/pkg/config"
	"github.com/harshWarbhe/revticket/pkg/database"
	"github.com/harshWarbhe/revticket/pkg/logger"
	pkgredis "github.com/harshWarbhe/revticket/pkg/redis"
)

// Standalone drainer for seat releases that exhausted their inline
// retries. Runs instead of the embedded worker when bookings are served
// by multiple replicas.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := &logger.Config{
		Level:       "info",
		ServiceName: "release-worker",
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting release worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := metrics.Init(); err != nil {
		appLog.Warn("Booking metrics init failed", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:          cfg.Database.Host,
		Port:          cfg.Database.Port,
		User:          cfg.Database.User,
		Password:      cfg.Database.Password,
		Database:      cfg.Database.DBName,
		SSLMode:       cfg.Database.SSLMode,
		MaxConns:      10,
		MinConns:      2,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
	})
	if err != nil {
		appLog.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()
	appLog.Info("Database connected")

	redisClient, err := pkgredis.NewClient(ctx, &pkgredis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      20,
		MinIdleConns:  5,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
	})
	if err != nil {
		appLog.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()
	appLog.Info("Redis connected")

	seatRepo := repository.NewPostgresSeatRepository(db.Pool())
	queue := repository.NewRedisReleaseQueue(redisClient)
	inv := inventory.New(seatRepo)

	w := worker.NewReleaseWorker(queue, inv, &worker.ReleaseWorkerConfig{
		Interval: 5 * time.Second,
	})
	w.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down release worker")

	cancel()
	w.Stop()
	appLog.Info("Release worker exited")
}
