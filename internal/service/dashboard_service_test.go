package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

// MockStatsProvider is a mock implementation of StatsProvider
type MockStatsProvider struct {
	GetUserStatsFunc    func(ctx context.Context) (UserStats, error)
	GetBookingStatsFunc func(ctx context.Context) (BookingStats, error)
	GetCatalogStatsFunc func(ctx context.Context) (CatalogStats, error)
}

func (m *MockStatsProvider) GetUserStats(ctx context.Context) (UserStats, error) {
	if m.GetUserStatsFunc != nil {
		return m.GetUserStatsFunc(ctx)
	}
	return UserStats{}, nil
}

func (m *MockStatsProvider) GetBookingStats(ctx context.Context) (BookingStats, error) {
	if m.GetBookingStatsFunc != nil {
		return m.GetBookingStatsFunc(ctx)
	}
	return BookingStats{}, nil
}

func (m *MockStatsProvider) GetCatalogStats(ctx context.Context) (CatalogStats, error) {
	if m.GetCatalogStatsFunc != nil {
		return m.GetCatalogStatsFunc(ctx)
	}
	return CatalogStats{}, nil
}

func TestDashboardService_GetSystemOverview(t *testing.T) {
	stats := &MockStatsProvider{
		GetUserStatsFunc: func(ctx context.Context) (UserStats, error) {
			return UserStats{TotalUsers: 1200}, nil
		},
		GetBookingStatsFunc: func(ctx context.Context) (BookingStats, error) {
			return BookingStats{
				TotalBookings:     540,
				ConfirmedBookings: 500,
				CancelledBookings: 40,
				TotalRevenue:      64200.50,
			}, nil
		},
		GetCatalogStatsFunc: func(ctx context.Context) (CatalogStats, error) {
			return CatalogStats{
				TotalMovies:    32,
				TotalTheaters:  5,
				TotalShowtimes: 210,
				TotalReviews:   890,
			}, nil
		},
	}

	svc := NewDashboardService(stats, time.Second)
	overview, err := svc.GetSystemOverview(context.Background())

	if err != nil {
		t.Fatalf("GetSystemOverview() unexpected error = %v", err)
	}
	if overview.TotalUsers != 1200 {
		t.Errorf("TotalUsers = %d, want 1200", overview.TotalUsers)
	}
	if overview.TotalRevenue != 64200.50 {
		t.Errorf("TotalRevenue = %.2f, want 64200.50", overview.TotalRevenue)
	}
	if overview.TotalShowtimes != 210 {
		t.Errorf("TotalShowtimes = %d, want 210", overview.TotalShowtimes)
	}
	if len(overview.DegradedSources) != 0 {
		t.Errorf("DegradedSources = %v, want none", overview.DegradedSources)
	}
}

func TestDashboardService_GetSystemOverview_FailedSourceFallsBack(t *testing.T) {
	stats := &MockStatsProvider{
		GetUserStatsFunc: func(ctx context.Context) (UserStats, error) {
			return UserStats{}, errors.New("user service down")
		},
		GetBookingStatsFunc: func(ctx context.Context) (BookingStats, error) {
			return BookingStats{TotalBookings: 540, TotalRevenue: 100}, nil
		},
	}

	svc := NewDashboardService(stats, time.Second)
	overview, err := svc.GetSystemOverview(context.Background())

	if err != nil {
		t.Fatalf("GetSystemOverview() must not fail on a degraded source: %v", err)
	}
	if overview.TotalUsers != 0 {
		t.Errorf("TotalUsers = %d, want zero fallback", overview.TotalUsers)
	}
	if overview.TotalBookings != 540 {
		t.Errorf("TotalBookings = %d, want 540 from healthy source", overview.TotalBookings)
	}
	if len(overview.DegradedSources) != 1 || overview.DegradedSources[0] != "users" {
		t.Errorf("DegradedSources = %v, want [users]", overview.DegradedSources)
	}
}

func TestDashboardService_GetSystemOverview_SlowSourceTimesOut(t *testing.T) {
	stats := &MockStatsProvider{
		GetUserStatsFunc: func(ctx context.Context) (UserStats, error) {
			select {
			case <-time.After(5 * time.Second):
				return UserStats{TotalUsers: 999}, nil
			case <-ctx.Done():
				return UserStats{}, ctx.Err()
			}
		},
	}

	svc := NewDashboardService(stats, 20*time.Millisecond)

	start := time.Now()
	overview, err := svc.GetSystemOverview(context.Background())
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("GetSystemOverview() must not fail on a slow source: %v", err)
	}
	if elapsed > time.Second {
		t.Errorf("GetSystemOverview() took %v, the per-source timeout did not apply", elapsed)
	}
	if overview.TotalUsers != 0 {
		t.Errorf("TotalUsers = %d, want zero fallback for timed-out source", overview.TotalUsers)
	}
	if len(overview.DegradedSources) != 1 || overview.DegradedSources[0] != "users" {
		t.Errorf("DegradedSources = %v, want [users]", overview.DegradedSources)
	}
}
