package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/harshWarbhe/revticket/internal/domain"
	"github.com/harshWarbhe/revticket/pkg/telemetry"
)

// PostgresSeatRepository implements SeatRepository using PostgreSQL with pgxpool
type PostgresSeatRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSeatRepository creates a new PostgresSeatRepository
func NewPostgresSeatRepository(pool *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{pool: pool}
}

// GetByShowtime returns the seat map ordered by seat ID ascending
func (r *PostgresSeatRepository) GetByShowtime(ctx context.Context, showtimeID string) ([]*domain.Seat, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.seat.get_by_showtime")
	defer span.End()

	span.SetAttributes(attribute.String("showtime_id", showtimeID))

	query := `
		SELECT id, showtime_id, label, status, version, updated_at
		FROM seats
		WHERE showtime_id = $1
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query, showtimeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}
	defer rows.Close()

	var seats []*domain.Seat
	for rows.Next() {
		seat := &domain.Seat{}
		var status string
		if err := rows.Scan(&seat.ID, &seat.ShowtimeID, &seat.Label, &status, &seat.Version, &seat.UpdatedAt); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan seat: %w", err)
		}
		seat.Status = domain.SeatStatus(status)
		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate seats: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(seats)))
	span.SetStatus(codes.Ok, "")
	return seats, nil
}

// GetSeat returns one seat of a showtime
func (r *PostgresSeatRepository) GetSeat(ctx context.Context, showtimeID, seatID string) (*domain.Seat, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.seat.get")
	defer span.End()

	span.SetAttributes(
		attribute.String("showtime_id", showtimeID),
		attribute.String("seat_id", seatID),
	)

	query := `
		SELECT id, showtime_id, label, status, version, updated_at
		FROM seats
		WHERE showtime_id = $1 AND id = $2
	`

	seat := &domain.Seat{}
	var status string
	err := r.pool.QueryRow(ctx, query, showtimeID, seatID).Scan(
		&seat.ID, &seat.ShowtimeID, &seat.Label, &status, &seat.Version, &seat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrSeatNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}

	seat.Status = domain.SeatStatus(status)
	span.SetStatus(codes.Ok, "")
	return seat, nil
}

// Claim transitions the seat AVAILABLE -> BOOKED guarded by the version
// stamp. The rows-affected count tells us whether we won the race; a lost
// race is not an error.
func (r *PostgresSeatRepository) Claim(ctx context.Context, showtimeID, seatID string, version int) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.seat.claim")
	defer span.End()

	span.SetAttributes(
		attribute.String("showtime_id", showtimeID),
		attribute.String("seat_id", seatID),
		attribute.Int("version", version),
	)

	query := `
		UPDATE seats
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE showtime_id = $2 AND id = $3 AND version = $4 AND status = $5
	`

	tag, err := r.pool.Exec(ctx, query,
		string(domain.SeatStatusBooked),
		showtimeID,
		seatID,
		version,
		string(domain.SeatStatusAvailable),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to claim seat: %w", err)
	}

	claimed := tag.RowsAffected() == 1
	span.SetAttributes(attribute.Bool("claimed", claimed))
	span.SetStatus(codes.Ok, "")
	return claimed, nil
}

// Release transitions the seat back to AVAILABLE. Idempotent: releasing
// an AVAILABLE seat affects zero rows and succeeds.
func (r *PostgresSeatRepository) Release(ctx context.Context, showtimeID, seatID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.seat.release")
	defer span.End()

	span.SetAttributes(
		attribute.String("showtime_id", showtimeID),
		attribute.String("seat_id", seatID),
	)

	query := `
		UPDATE seats
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE showtime_id = $2 AND id = $3 AND status = $4
	`

	_, err := r.pool.Exec(ctx, query,
		string(domain.SeatStatusAvailable),
		showtimeID,
		seatID,
		string(domain.SeatStatusBooked),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to release seat: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// CreateSeats seeds the seat map for a showtime
func (r *PostgresSeatRepository) CreateSeats(ctx context.Context, seats []*domain.Seat) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.seat.create_seats")
	defer span.End()

	span.SetAttributes(attribute.Int("count", len(seats)))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO seats (id, showtime_id, label, status, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	for _, seat := range seats {
		if _, err := tx.Exec(ctx, query,
			seat.ID, seat.ShowtimeID, seat.Label, string(seat.Status), seat.Version,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to insert seat %s: %w", seat.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit seats: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetPrices returns the per-seat price list for a showtime
func (r *PostgresSeatRepository) GetPrices(ctx context.Context, showtimeID string) (domain.PriceList, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.seat.get_prices")
	defer span.End()

	span.SetAttributes(attribute.String("showtime_id", showtimeID))

	query := `
		SELECT seat_id, price
		FROM seat_prices
		WHERE showtime_id = $1
	`

	rows, err := r.pool.Query(ctx, query, showtimeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}
	defer rows.Close()

	prices := domain.PriceList{}
	for rows.Next() {
		var seatID string
		var price float64
		if err := rows.Scan(&seatID, &price); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		prices[seatID] = price
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate prices: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return prices, nil
}

// SetPrices seeds or replaces the per-seat price list for a showtime
func (r *PostgresSeatRepository) SetPrices(ctx context.Context, showtimeID string, prices domain.PriceList) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.seat.set_prices")
	defer span.End()

	span.SetAttributes(
		attribute.String("showtime_id", showtimeID),
		attribute.Int("count", len(prices)),
	)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO seat_prices (showtime_id, seat_id, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (showtime_id, seat_id) DO UPDATE SET price = EXCLUDED.price
	`

	for seatID, price := range prices {
		if _, err := tx.Exec(ctx, query, showtimeID, seatID, price); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to upsert price for seat %s: %w", seatID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit prices: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
