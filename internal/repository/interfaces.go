package repository

import (
	"context"
	"time"

	"github.com/harshWarbhe/revticket/internal/domain"
)

// SeatRepository is the seat-map storage contract. Claim and Release are
// single-seat optimistic CAS operations; orchestration of multi-seat
// atomicity lives in the inventory engine.
type SeatRepository interface {
	// GetByShowtime returns the seat map ordered by seat ID ascending
	GetByShowtime(ctx context.Context, showtimeID string) ([]*domain.Seat, error)

	// GetSeat returns one seat of a showtime
	GetSeat(ctx context.Context, showtimeID, seatID string) (*domain.Seat, error)

	// Claim transitions the seat AVAILABLE -> BOOKED iff its version still
	// matches. Returns false (no error) when another writer won the race.
	Claim(ctx context.Context, showtimeID, seatID string, version int) (bool, error)

	// Release transitions the seat back to AVAILABLE. Releasing an already
	// AVAILABLE seat is a no-op, not an error.
	Release(ctx context.Context, showtimeID, seatID string) error

	// CreateSeats seeds the seat map for a showtime
	CreateSeats(ctx context.Context, seats []*domain.Seat) error

	// GetPrices returns the per-seat price list for a showtime
	GetPrices(ctx context.Context, showtimeID string) (domain.PriceList, error)

	// SetPrices seeds or replaces the per-seat price list for a showtime
	SetPrices(ctx context.Context, showtimeID string, prices domain.PriceList) error
}

// BookingRepository is the booking storage contract
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Booking, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
	AttachPayment(ctx context.Context, id, transactionID string) error
}

// ShowtimeRepository is the showtime schedule contract
type ShowtimeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Showtime, error)
	// GetByScreenBetween returns showtimes on a screen whose interval
	// intersects [start, end)
	GetByScreenBetween(ctx context.Context, screenID string, start, end time.Time) ([]*domain.Showtime, error)
	Create(ctx context.Context, showtime *domain.Showtime) error
}
