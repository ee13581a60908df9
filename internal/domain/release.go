package domain

import "time"

// ReleaseTask is a seat release that failed its inline compensation and
// awaits retry by the release worker
type ReleaseTask struct {
	BookingID  string    `json:"booking_id"`
	ShowtimeID string    `json:"showtime_id"`
	SeatIDs    []string  `json:"seat_ids"`
	Attempts   int       `json:"attempts"`
	QueuedAt   time.Time `json:"queued_at"`
}
