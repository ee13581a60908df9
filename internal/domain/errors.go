package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Booking errors
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBookingAlreadyExists = errors.New("booking already exists")
	ErrInvalidBookingStatus = errors.New("invalid booking status")
	ErrAlreadyCancelled     = errors.New("booking already cancelled")
	ErrAlreadyConfirmed     = errors.New("booking already confirmed")

	// Seat errors
	ErrSeatNotFound   = errors.New("seat not found")
	ErrSeatNotPriced  = errors.New("seat has no price entry")
	ErrSeatNotClaimed = errors.New("seat is not claimed")

	// Showtime errors
	ErrShowtimeNotFound      = errors.New("showtime not found")
	ErrShowtimeAlreadyExists = errors.New("showtime already exists")

	// Validation errors
	ErrInvalidUserID     = errors.New("invalid user id")
	ErrInvalidBookingID  = errors.New("invalid booking id")
	ErrInvalidShowtimeID = errors.New("invalid showtime id")
	ErrInvalidScreenID   = errors.New("invalid screen id")
	ErrInvalidSeats      = errors.New("seat list must be non-empty without duplicates")
	ErrInvalidTimeRange  = errors.New("time range end must be after start")
	ErrInvalidPayment    = errors.New("invalid payment transaction")
	ErrInvalidQuery      = errors.New("search query must not be empty")
)

// SeatUnavailableError reports the first seat that could not be claimed.
// Seats are checked in ascending seat-id order so concurrent callers see a
// stable conflict seat.
type SeatUnavailableError struct {
	SeatID string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s is not available", e.SeatID)
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrSeatNotFound) ||
		errors.Is(err, ErrShowtimeNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidBookingID) ||
		errors.Is(err, ErrInvalidShowtimeID) ||
		errors.Is(err, ErrInvalidScreenID) ||
		errors.Is(err, ErrInvalidSeats) ||
		errors.Is(err, ErrInvalidTimeRange) ||
		errors.Is(err, ErrInvalidPayment) ||
		errors.Is(err, ErrInvalidQuery) ||
		errors.Is(err, ErrSeatNotPriced) ||
		errors.Is(err, ErrInvalidBookingStatus)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	if IsSeatUnavailable(err) {
		return true
	}
	return errors.Is(err, ErrAlreadyConfirmed) ||
		errors.Is(err, ErrAlreadyCancelled) ||
		errors.Is(err, ErrBookingAlreadyExists) ||
		errors.Is(err, ErrShowtimeAlreadyExists)
}

// IsSeatUnavailable checks if the error is a seat claim conflict
func IsSeatUnavailable(err error) bool {
	var unavailable *SeatUnavailableError
	return errors.As(err, &unavailable)
}
