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

// PostgresBookingRepository implements BookingRepository using PostgreSQL with pgxpool
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

// Create creates a new booking record in the database
func (r *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("user_id", booking.UserID),
		attribute.String("showtime_id", booking.ShowtimeID),
	)

	query := `
		INSERT INTO bookings (
			id, user_id, showtime_id, seat_ids, seat_labels,
			total_price, status, customer_email, idempotency_key,
			transaction_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12
		)
	`

	_, err := r.pool.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.ShowtimeID,
		booking.SeatIDs,
		booking.SeatLabels,
		booking.TotalPrice,
		string(booking.Status),
		nullString(booking.CustomerEmail),
		nullString(booking.IdempotencyKey),
		nullString(booking.TransactionID),
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a booking by its ID
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", id))

	query := `
		SELECT
			id, user_id, showtime_id, seat_ids, seat_labels,
			total_price, status, customer_email, idempotency_key,
			transaction_id, created_at, updated_at, cancelled_at
		FROM bookings
		WHERE id = $1
	`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// GetByUserID retrieves bookings for a user, newest first
func (r *PostgresBookingRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_user_id")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)

	query := `
		SELECT
			id, user_id, showtime_id, seat_ids, seat_labels,
			total_price, status, customer_email, idempotency_key,
			transaction_id, created_at, updated_at, cancelled_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, nil
}

// GetByIdempotencyKey retrieves a booking by its idempotency key
func (r *PostgresBookingRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_idempotency_key")
	defer span.End()

	query := `
		SELECT
			id, user_id, showtime_id, seat_ids, seat_labels,
			total_price, status, customer_email, idempotency_key,
			transaction_id, created_at, updated_at, cancelled_at
		FROM bookings
		WHERE idempotency_key = $1
	`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking by idempotency key: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// UpdateStatus sets the booking status, stamping cancelled_at on CANCELLED
func (r *PostgresBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.update_status")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", id),
		attribute.String("status", string(status)),
	)

	var query string
	if status == domain.BookingStatusCancelled {
		query = `
			UPDATE bookings
			SET status = $1, cancelled_at = NOW(), updated_at = NOW()
			WHERE id = $2
		`
	} else {
		query = `
			UPDATE bookings
			SET status = $1, updated_at = NOW()
			WHERE id = $2
		`
	}

	tag, err := r.pool.Exec(ctx, query, string(status), id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrBookingNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// AttachPayment records the payment transaction against a booking
func (r *PostgresBookingRepository) AttachPayment(ctx context.Context, id, transactionID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.attach_payment")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", id),
		attribute.String("transaction_id", transactionID),
	)

	query := `
		UPDATE bookings
		SET transaction_id = $1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := r.pool.Exec(ctx, query, transactionID, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to attach payment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrBookingNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// scanBooking scans one booking row
func scanBooking(row pgx.Row) (*domain.Booking, error) {
	booking := &domain.Booking{}
	var (
		status        string
		customerEmail *string
		idemKey       *string
		transactionID *string
		cancelledAt   *time.Time
	)

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowtimeID,
		&booking.SeatIDs,
		&booking.SeatLabels,
		&booking.TotalPrice,
		&status,
		&customerEmail,
		&idemKey,
		&transactionID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	if customerEmail != nil {
		booking.CustomerEmail = *customerEmail
	}
	if idemKey != nil {
		booking.IdempotencyKey = *idemKey
	}
	if transactionID != nil {
		booking.TransactionID = *transactionID
	}
	booking.CancelledAt = cancelledAt

	return booking, nil
}

// nullString converts "" to NULL for optional columns
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
