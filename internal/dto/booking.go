package dto

import (
	"time"

	"github.com/harshWarbhe/revticket/internal/domain"
)

// CreateBookingRequest represents a request to book seats for a showtime
type CreateBookingRequest struct {
	ShowtimeID     string   `json:"showtime_id" binding:"required"`
	SeatIDs        []string `json:"seat_ids" binding:"required,min=1"`
	CustomerEmail  string   `json:"customer_email,omitempty"`
	IdempotencyKey string   `json:"idempotency_key,omitempty"`
}

// AttachPaymentRequest represents the payment collaborator callback
type AttachPaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
}

// CancelBookingResponse represents response after cancelling a booking
type CancelBookingResponse struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// BookingResponse represents a booking in API response
type BookingResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	ShowtimeID    string     `json:"showtime_id"`
	SeatIDs       []string   `json:"seat_ids"`
	SeatLabels    []string   `json:"seat_labels,omitempty"`
	Status        string     `json:"status"`
	TotalPrice    float64    `json:"total_price"`
	TransactionID string     `json:"transaction_id,omitempty"`
	CustomerEmail string     `json:"customer_email,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
}

// PaginatedResponse wraps a page of booking responses
type PaginatedResponse struct {
	Data     []*BookingResponse `json:"data"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// SeatResponse represents a seat in a showtime seat map
type SeatResponse struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

// SeatMapResponse represents the seat map of a showtime
type SeatMapResponse struct {
	ShowtimeID string          `json:"showtime_id"`
	Seats      []*SeatResponse `json:"seats"`
}

// ConflictCheckResponse reports whether a screen interval is taken
type ConflictCheckResponse struct {
	ScreenID string    `json:"screen_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Conflict bool      `json:"conflict"`
}

// FromDomain converts domain Booking to BookingResponse
func FromDomain(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		ShowtimeID:    b.ShowtimeID,
		SeatIDs:       b.SeatIDs,
		SeatLabels:    b.SeatLabels,
		Status:        string(b.Status),
		TotalPrice:    b.TotalPrice,
		TransactionID: b.TransactionID,
		CustomerEmail: b.CustomerEmail,
		CreatedAt:     b.CreatedAt,
		CancelledAt:   b.CancelledAt,
	}
}

// SeatFromDomain converts a domain Seat to SeatResponse
func SeatFromDomain(s *domain.Seat) *SeatResponse {
	return &SeatResponse{
		ID:     s.ID,
		Label:  s.Label,
		Status: string(s.Status),
	}
}
