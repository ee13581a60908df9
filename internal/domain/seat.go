package domain

import "time"

// SeatStatus represents the lifecycle state of a seat within a showtime
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusBooked    SeatStatus = "BOOKED"
)

// Seat is one seat in a showtime's seat map. Version is the optimistic
// concurrency stamp: every successful claim or release increments it, and
// a claim only succeeds against the version it read.
type Seat struct {
	ID         string     `json:"id"`
	ShowtimeID string     `json:"showtime_id"`
	Label      string     `json:"label"`
	Status     SeatStatus `json:"status"`
	Version    int        `json:"version"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsAvailable reports whether the seat can be claimed
func (s *Seat) IsAvailable() bool {
	return s.Status == SeatStatusAvailable
}

// PriceList maps seat IDs to their price for a showtime
type PriceList map[string]float64
