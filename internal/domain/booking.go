package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusFailed    BookingStatus = "FAILED"
)

// Booking represents a confirmed set of seats for a showtime.
// A booking is persisted CONFIRMED once its seat claim succeeds; payment
// attaches later through an independent flow.
type Booking struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	ShowtimeID     string        `json:"showtime_id"`
	SeatIDs        []string      `json:"seat_ids"`
	SeatLabels     []string      `json:"seat_labels,omitempty"`
	TotalPrice     float64       `json:"total_price"`
	Status         BookingStatus `json:"status"`
	CustomerEmail  string        `json:"customer_email,omitempty"`
	IdempotencyKey string        `json:"idempotency_key,omitempty"`
	TransactionID  string        `json:"transaction_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	CancelledAt    *time.Time    `json:"cancelled_at,omitempty"`
}

// BelongsToUser checks if the booking belongs to the given user
func (b *Booking) BelongsToUser(userID string) bool {
	return b.UserID == userID
}

// IsConfirmed checks if the booking is confirmed
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// IsCancelled checks if the booking is cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// HasPayment reports whether a payment transaction is attached
func (b *Booking) HasPayment() bool {
	return b.TransactionID != ""
}
