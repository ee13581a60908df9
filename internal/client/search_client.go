package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/harshWarbhe/revticket/internal/dto"
)

// SearchClient queries the upstream catalog services
type SearchClient struct {
	movieURL    string
	theaterURL  string
	showtimeURL string
	httpClient  *http.Client
}

// SearchClientConfig contains the upstream catalog service URLs
type SearchClientConfig struct {
	MovieURL    string
	TheaterURL  string
	ShowtimeURL string
	Timeout     time.Duration
}

// NewSearchClient creates a new search client
func NewSearchClient(cfg *SearchClientConfig) *SearchClient {
	timeout := 5 * time.Second
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	c := &SearchClient{
		httpClient: &http.Client{Timeout: timeout},
	}
	if cfg != nil {
		c.movieURL = cfg.MovieURL
		c.theaterURL = cfg.TheaterURL
		c.showtimeURL = cfg.ShowtimeURL
	}
	return c
}

// SearchMovies queries the movie catalog
func (c *SearchClient) SearchMovies(ctx context.Context, query string) ([]*dto.MovieSummary, error) {
	var hits []*dto.MovieSummary
	if err := c.search(ctx, c.movieURL+"/api/v1/movies/search", query, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

// SearchTheaters queries the theater catalog
func (c *SearchClient) SearchTheaters(ctx context.Context, query string) ([]*dto.TheaterSummary, error) {
	var hits []*dto.TheaterSummary
	if err := c.search(ctx, c.theaterURL+"/api/v1/theaters/search", query, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

// SearchShowtimes queries the showtime schedule
func (c *SearchClient) SearchShowtimes(ctx context.Context, query string) ([]*dto.ShowtimeSummary, error) {
	var hits []*dto.ShowtimeSummary
	if err := c.search(ctx, c.showtimeURL+"/api/v1/showtimes/search", query, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

func (c *SearchClient) search(ctx context.Context, endpoint, query string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !envelope.Success {
		return fmt.Errorf("catalog returned unsuccessful response")
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode search hits: %w", err)
	}
	return nil
}
