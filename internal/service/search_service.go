package service

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/harshWarbhe/revticket/internal/domain"
	"github.com/harshWarbhe/revticket/internal/dto"
	"github.com/harshWarbhe/revticket/internal/metrics"
	"github.com/harshWarbhe/revticket/pkg/aggregate"
	"github.com/harshWarbhe/revticket/pkg/logger"
	"github.com/harshWarbhe/revticket/pkg/telemetry"
)

// CatalogSearcher searches the upstream catalogs
type CatalogSearcher interface {
	SearchMovies(ctx context.Context, query string) ([]*dto.MovieSummary, error)
	SearchTheaters(ctx context.Context, query string) ([]*dto.TheaterSummary, error)
	SearchShowtimes(ctx context.Context, query string) ([]*dto.ShowtimeSummary, error)
}

// SearchService fans a query out across the catalogs. A failed catalog
// contributes an empty list; the search never fails as a whole.
type SearchService interface {
	SearchAll(ctx context.Context, query string) (*dto.SearchResponse, error)
}

type searchService struct {
	catalogs      CatalogSearcher
	sourceTimeout time.Duration
}

// NewSearchService creates a new search service
func NewSearchService(catalogs CatalogSearcher, sourceTimeout time.Duration) SearchService {
	if sourceTimeout <= 0 {
		sourceTimeout = 1500 * time.Millisecond
	}
	return &searchService{
		catalogs:      catalogs,
		sourceTimeout: sourceTimeout,
	}
}

// SearchAll queries every catalog concurrently and merges the hits
func (s *searchService) SearchAll(ctx context.Context, query string) (*dto.SearchResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.search.all")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		span.SetStatus(codes.Error, "empty query")
		return nil, domain.ErrInvalidQuery
	}

	span.SetAttributes(attribute.String("query", query))

	var (
		movies    []*dto.MovieSummary
		theaters  []*dto.TheaterSummary
		showtimes []*dto.ShowtimeSummary
	)

	g := aggregate.NewGroup(s.sourceTimeout)
	aggregate.Assign(ctx, g, &movies, "movies", []*dto.MovieSummary{}, func(ctx context.Context) ([]*dto.MovieSummary, error) {
		return s.catalogs.SearchMovies(ctx, query)
	})
	aggregate.Assign(ctx, g, &theaters, "theaters", []*dto.TheaterSummary{}, func(ctx context.Context) ([]*dto.TheaterSummary, error) {
		return s.catalogs.SearchTheaters(ctx, query)
	})
	aggregate.Assign(ctx, g, &showtimes, "showtimes", []*dto.ShowtimeSummary{}, func(ctx context.Context) ([]*dto.ShowtimeSummary, error) {
		return s.catalogs.SearchShowtimes(ctx, query)
	})
	results := g.Wait()

	for _, r := range results {
		if r.FellBack {
			logger.Get().Warn("search source degraded",
				zap.String("source", r.Source),
				zap.Duration("duration", r.Duration),
				zap.Error(r.Err),
			)
			metrics.RecordDegradedSource(ctx, "search_all", r.Source)
		}
	}

	// A nil slice from a healthy source still serializes as a list
	if movies == nil {
		movies = []*dto.MovieSummary{}
	}
	if theaters == nil {
		theaters = []*dto.TheaterSummary{}
	}
	if showtimes == nil {
		showtimes = []*dto.ShowtimeSummary{}
	}

	degraded := aggregate.FailedSources(results)
	span.SetAttributes(attribute.Int("degraded_sources", len(degraded)))
	span.SetStatus(codes.Ok, "")

	return &dto.SearchResponse{
		Query:           query,
		Movies:          movies,
		Theaters:        theaters,
		Showtimes:       showtimes,
		DegradedSources: degraded,
	}, nil
}
