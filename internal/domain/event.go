package domain

import "time"

// BookingEventType identifies a booking lifecycle event
type BookingEventType string

const (
	BookingEventConfirmed       BookingEventType = "booking.confirmed"
	BookingEventCancelled       BookingEventType = "booking.cancelled"
	BookingEventPaymentAttached BookingEventType = "booking.payment_attached"
)

// BookingEvent is the wire form of a booking lifecycle event
type BookingEvent struct {
	EventID    string           `json:"event_id"`
	EventType  BookingEventType `json:"event_type"`
	BookingID  string           `json:"booking_id"`
	UserID     string           `json:"user_id"`
	ShowtimeID string           `json:"showtime_id"`
	SeatIDs    []string         `json:"seat_ids"`
	TotalPrice float64          `json:"total_price"`
	Status     BookingStatus    `json:"status"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewBookingEvent builds an event from a booking
func NewBookingEvent(eventType BookingEventType, booking *Booking, eventID string) *BookingEvent {
	return &BookingEvent{
		EventID:    eventID,
		EventType:  eventType,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		ShowtimeID: booking.ShowtimeID,
		SeatIDs:    booking.SeatIDs,
		TotalPrice: booking.TotalPrice,
		Status:     booking.Status,
		OccurredAt: time.Now(),
	}
}

// Key returns the partition key; events of one booking stay ordered
func (e *BookingEvent) Key() string {
	return e.BookingID
}
