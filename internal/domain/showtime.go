package domain

import "time"

// Showtime is a scheduled screening on a screen
type Showtime struct {
	ID        string    `json:"id"`
	MovieID   string    `json:"movie_id"`
	ScreenID  string    `json:"screen_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	BasePrice float64   `json:"base_price"`
	CreatedAt time.Time `json:"created_at"`
}

// Overlaps reports whether the showtime's interval intersects [start, end).
// Back-to-back screenings sharing a boundary instant do not overlap.
func (s *Showtime) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && start.Before(s.EndTime)
}
