package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/harshWarbhe/revticket/internal/service"
)

// StatsClient fetches dashboard counts from the upstream stat services.
// Each Get* call hits one service; the dashboard aggregator applies its
// own per-source timeout and fallback.
type StatsClient struct {
	userStatsURL    string
	bookingStatsURL string
	catalogStatsURL string
	httpClient      *http.Client
}

// StatsClientConfig contains the upstream stat service URLs
type StatsClientConfig struct {
	UserStatsURL    string
	BookingStatsURL string
	CatalogStatsURL string
	Timeout         time.Duration
}

// NewStatsClient creates a new stats client
func NewStatsClient(cfg *StatsClientConfig) *StatsClient {
	timeout := 5 * time.Second
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	c := &StatsClient{
		httpClient: &http.Client{Timeout: timeout},
	}
	if cfg != nil {
		c.userStatsURL = cfg.UserStatsURL
		c.bookingStatsURL = cfg.BookingStatsURL
		c.catalogStatsURL = cfg.CatalogStatsURL
	}
	return c
}

// GetUserStats fetches user counts from the user service
func (c *StatsClient) GetUserStats(ctx context.Context) (service.UserStats, error) {
	var data struct {
		TotalUsers int64 `json:"total_users"`
	}
	if err := c.get(ctx, c.userStatsURL+"/api/v1/stats/users", &data); err != nil {
		return service.UserStats{}, err
	}
	return service.UserStats{TotalUsers: data.TotalUsers}, nil
}

// GetBookingStats fetches booking counts from the booking stats service
func (c *StatsClient) GetBookingStats(ctx context.Context) (service.BookingStats, error) {
	var data struct {
		TotalBookings     int64   `json:"total_bookings"`
		ConfirmedBookings int64   `json:"confirmed_bookings"`
		CancelledBookings int64   `json:"cancelled_bookings"`
		TotalRevenue      float64 `json:"total_revenue"`
	}
	if err := c.get(ctx, c.bookingStatsURL+"/api/v1/stats/bookings", &data); err != nil {
		return service.BookingStats{}, err
	}
	return service.BookingStats{
		TotalBookings:     data.TotalBookings,
		ConfirmedBookings: data.ConfirmedBookings,
		CancelledBookings: data.CancelledBookings,
		TotalRevenue:      data.TotalRevenue,
	}, nil
}

// GetCatalogStats fetches catalog counts from the catalog service
func (c *StatsClient) GetCatalogStats(ctx context.Context) (service.CatalogStats, error) {
	var data struct {
		TotalMovies    int64 `json:"total_movies"`
		TotalTheaters  int64 `json:"total_theaters"`
		TotalShowtimes int64 `json:"total_showtimes"`
		TotalReviews   int64 `json:"total_reviews"`
	}
	if err := c.get(ctx, c.catalogStatsURL+"/api/v1/stats/catalog", &data); err != nil {
		return service.CatalogStats{}, err
	}
	return service.CatalogStats{
		TotalMovies:    data.TotalMovies,
		TotalTheaters:  data.TotalTheaters,
		TotalShowtimes: data.TotalShowtimes,
		TotalReviews:   data.TotalReviews,
	}, nil
}

func (c *StatsClient) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// Stat services respond with { success: true, data: {...} }
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !envelope.Success {
		return fmt.Errorf("stats service returned unsuccessful response")
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode stats payload: %w", err)
	}
	return nil
}
