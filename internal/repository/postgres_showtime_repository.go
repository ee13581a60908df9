package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/harshWarbhe/revticket/internal/domain"
	"github.com/harshWarbhe/revticket/pkg/telemetry"
)

// PostgresShowtimeRepository implements ShowtimeRepository using PostgreSQL with pgxpool
type PostgresShowtimeRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresShowtimeRepository creates a new PostgresShowtimeRepository
func NewPostgresShowtimeRepository(pool *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{pool: pool}
}

// GetByID retrieves a showtime by its ID
func (r *PostgresShowtimeRepository) GetByID(ctx context.Context, id string) (*domain.Showtime, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.showtime.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("showtime_id", id))

	query := `
		SELECT id, movie_id, screen_id, start_time, end_time, base_price, created_at
		FROM showtimes
		WHERE id = $1
	`

	showtime := &domain.Showtime{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.ScreenID,
		&showtime.StartTime,
		&showtime.EndTime,
		&showtime.BasePrice,
		&showtime.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrShowtimeNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get showtime: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return showtime, nil
}

// GetByScreenBetween returns showtimes on a screen whose interval
// intersects [start, end)
func (r *PostgresShowtimeRepository) GetByScreenBetween(ctx context.Context, screenID string, start, end time.Time) ([]*domain.Showtime, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.showtime.get_by_screen_between")
	defer span.End()

	span.SetAttributes(
		attribute.String("screen_id", screenID),
		attribute.String("start", start.Format(time.RFC3339)),
		attribute.String("end", end.Format(time.RFC3339)),
	)

	// Half-open interval overlap: existing.start < end AND start < existing.end
	query := `
		SELECT id, movie_id, screen_id, start_time, end_time, base_price, created_at
		FROM showtimes
		WHERE screen_id = $1 AND start_time < $3 AND $2 < end_time
		ORDER BY start_time ASC
	`

	rows, err := r.pool.Query(ctx, query, screenID, start, end)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list showtimes: %w", err)
	}
	defer rows.Close()

	var showtimes []*domain.Showtime
	for rows.Next() {
		showtime := &domain.Showtime{}
		if err := rows.Scan(
			&showtime.ID,
			&showtime.MovieID,
			&showtime.ScreenID,
			&showtime.StartTime,
			&showtime.EndTime,
			&showtime.BasePrice,
			&showtime.CreatedAt,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan showtime: %w", err)
		}
		showtimes = append(showtimes, showtime)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate showtimes: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(showtimes)))
	span.SetStatus(codes.Ok, "")
	return showtimes, nil
}

// Create inserts a showtime
func (r *PostgresShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.showtime.create")
	defer span.End()

	span.SetAttributes(attribute.String("showtime_id", showtime.ID))

	query := `
		INSERT INTO showtimes (id, movie_id, screen_id, start_time, end_time, base_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		showtime.ID,
		showtime.MovieID,
		showtime.ScreenID,
		showtime.StartTime,
		showtime.EndTime,
		showtime.BasePrice,
		showtime.CreatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create showtime: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
