package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/harshWarbhe/revticket/internal/dto"
	"github.com/harshWarbhe/revticket/internal/metrics"
	"github.com/harshWarbhe/revticket/pkg/aggregate"
	"github.com/harshWarbhe/revticket/pkg/logger"
	"github.com/harshWarbhe/revticket/pkg/telemetry"
)

// UserStats are the user-service counts feeding the dashboard
type UserStats struct {
	TotalUsers int64
}

// BookingStats are the booking counts feeding the dashboard
type BookingStats struct {
	TotalBookings     int64
	ConfirmedBookings int64
	CancelledBookings int64
	TotalRevenue      float64
}

// CatalogStats are the movie/theater/showtime counts feeding the dashboard
type CatalogStats struct {
	TotalMovies    int64
	TotalTheaters  int64
	TotalShowtimes int64
	TotalReviews   int64
}

// StatsProvider fetches dashboard counts from the upstream services
type StatsProvider interface {
	GetUserStats(ctx context.Context) (UserStats, error)
	GetBookingStats(ctx context.Context) (BookingStats, error)
	GetCatalogStats(ctx context.Context) (CatalogStats, error)
}

// DashboardService assembles the system overview from independent
// sources. A slow or failing source degrades to zeros; the overview
// itself always succeeds.
type DashboardService interface {
	GetSystemOverview(ctx context.Context) (*dto.SystemOverviewResponse, error)
}

type dashboardService struct {
	stats         StatsProvider
	sourceTimeout time.Duration
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(stats StatsProvider, sourceTimeout time.Duration) DashboardService {
	if sourceTimeout <= 0 {
		sourceTimeout = 1500 * time.Millisecond
	}
	return &dashboardService{
		stats:         stats,
		sourceTimeout: sourceTimeout,
	}
}

// GetSystemOverview fetches every stat source concurrently and merges
// the results, substituting zero defaults for failed sources
func (s *dashboardService) GetSystemOverview(ctx context.Context) (*dto.SystemOverviewResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.dashboard.system_overview")
	defer span.End()

	var (
		users   UserStats
		booking BookingStats
		catalog CatalogStats
	)

	g := aggregate.NewGroup(s.sourceTimeout)
	aggregate.Assign(ctx, g, &users, "users", UserStats{}, s.stats.GetUserStats)
	aggregate.Assign(ctx, g, &booking, "bookings", BookingStats{}, s.stats.GetBookingStats)
	aggregate.Assign(ctx, g, &catalog, "catalog", CatalogStats{}, s.stats.GetCatalogStats)
	results := g.Wait()

	for _, r := range results {
		if r.FellBack {
			logger.Get().Warn("overview source degraded",
				zap.String("source", r.Source),
				zap.Duration("duration", r.Duration),
				zap.Error(r.Err),
			)
			metrics.RecordDegradedSource(ctx, "system_overview", r.Source)
		}
	}

	degraded := aggregate.FailedSources(results)
	span.SetAttributes(attribute.Int("degraded_sources", len(degraded)))
	span.SetStatus(codes.Ok, "")

	return &dto.SystemOverviewResponse{
		TotalUsers:        users.TotalUsers,
		TotalBookings:     booking.TotalBookings,
		ConfirmedBookings: booking.ConfirmedBookings,
		CancelledBookings: booking.CancelledBookings,
		TotalMovies:       catalog.TotalMovies,
		TotalTheaters:     catalog.TotalTheaters,
		TotalShowtimes:    catalog.TotalShowtimes,
		TotalReviews:      catalog.TotalReviews,
		TotalRevenue:      booking.TotalRevenue,
		DegradedSources:   degraded,
	}, nil
}
