package di

import (
	"time"

	"github.com/harshWarbhe/revticket/internal/handler"
	"github.com/harshWarbhe/revticket/internal/inventory"
	"github.com/harshWarbhe/revticket/internal/repository"
	"github.com/harshWarbhe/revticket/internal/service"
	"github.com/harshWarbhe/revticket/internal/worker"
	"github.com/harshWarbhe/revticket/pkg/database"
	"github.com/harshWarbhe/revticket/pkg/redis"
)

// Container holds all dependencies for the booking platform
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	BookingRepo  repository.BookingRepository
	SeatRepo     repository.SeatRepository
	ShowtimeRepo repository.ShowtimeRepository
	ReleaseQueue repository.ReleaseQueue

	// Collaborators
	EventPublisher service.EventPublisher
	Notifier       service.Notifier
	Stats          service.StatsProvider
	Catalogs       service.CatalogSearcher

	// Core
	Inventory inventory.Inventory

	// Services
	BookingService   service.BookingService
	ShowtimeService  service.ShowtimeService
	DashboardService service.DashboardService
	SearchService    service.SearchService

	// Workers
	ReleaseWorker *worker.ReleaseWorker

	// Handlers
	HealthHandler   *handler.HealthHandler
	BookingHandler  *handler.BookingHandler
	ShowtimeHandler *handler.ShowtimeHandler
	ReportHandler   *handler.ReportHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB             *database.PostgresDB
	Redis          *redis.Client
	EventPublisher service.EventPublisher
	Notifier       service.Notifier
	Stats          service.StatsProvider
	Catalogs       service.CatalogSearcher

	BookingConfig         *service.BookingServiceConfig
	SourceTimeout         time.Duration
	ReleaseWorkerInterval time.Duration
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:             cfg.DB,
		Redis:          cfg.Redis,
		EventPublisher: cfg.EventPublisher,
		Notifier:       cfg.Notifier,
		Stats:          cfg.Stats,
		Catalogs:       cfg.Catalogs,
	}

	// Repositories
	c.BookingRepo = repository.NewPostgresBookingRepository(c.DB.Pool())
	c.SeatRepo = repository.NewPostgresSeatRepository(c.DB.Pool())
	c.ShowtimeRepo = repository.NewPostgresShowtimeRepository(c.DB.Pool())
	c.ReleaseQueue = repository.NewRedisReleaseQueue(c.Redis)

	// Core engine
	c.Inventory = inventory.New(c.SeatRepo)

	// Services
	c.BookingService = service.NewBookingService(
		c.BookingRepo,
		c.SeatRepo,
		c.Inventory,
		c.ReleaseQueue,
		c.EventPublisher,
		c.Notifier,
		cfg.BookingConfig,
	)
	c.ShowtimeService = service.NewShowtimeService(c.ShowtimeRepo, c.SeatRepo)
	c.DashboardService = service.NewDashboardService(c.Stats, cfg.SourceTimeout)
	c.SearchService = service.NewSearchService(c.Catalogs, cfg.SourceTimeout)

	// Workers
	c.ReleaseWorker = worker.NewReleaseWorker(c.ReleaseQueue, c.Inventory, &worker.ReleaseWorkerConfig{
		Interval: cfg.ReleaseWorkerInterval,
	})

	// Handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.BookingHandler = handler.NewBookingHandler(c.BookingService)
	c.ShowtimeHandler = handler.NewShowtimeHandler(c.ShowtimeService)
	c.ReportHandler = handler.NewReportHandler(c.DashboardService, c.SearchService)

	return c
}
