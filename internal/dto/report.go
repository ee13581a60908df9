package dto

// SystemOverviewResponse is the dashboard read model. Every field comes
// from an independent source and degrades to its zero default when that
// source fails; the overview itself always succeeds.
type SystemOverviewResponse struct {
	TotalUsers        int64   `json:"total_users"`
	TotalBookings     int64   `json:"total_bookings"`
	ConfirmedBookings int64   `json:"confirmed_bookings"`
	CancelledBookings int64   `json:"cancelled_bookings"`
	TotalMovies       int64   `json:"total_movies"`
	TotalTheaters     int64   `json:"total_theaters"`
	TotalShowtimes    int64   `json:"total_showtimes"`
	TotalReviews      int64   `json:"total_reviews"`
	TotalRevenue      float64 `json:"total_revenue"`

	// DegradedSources lists sources that fell back to defaults
	DegradedSources []string `json:"degraded_sources,omitempty"`
}

// MovieSummary is a search hit from the movie catalog
type MovieSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Genre string `json:"genre,omitempty"`
}

// TheaterSummary is a search hit from the theater catalog
type TheaterSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

// ShowtimeSummary is a search hit from the showtime schedule
type ShowtimeSummary struct {
	ID        string `json:"id"`
	MovieID   string `json:"movie_id"`
	TheaterID string `json:"theater_id"`
	StartTime string `json:"start_time"`
}

// SearchResponse aggregates hits across catalogs; a failed catalog
// contributes an empty list, never an error
type SearchResponse struct {
	Query     string             `json:"query"`
	Movies    []*MovieSummary    `json:"movies"`
	Theaters  []*TheaterSummary  `json:"theaters"`
	Showtimes []*ShowtimeSummary `json:"showtimes"`

	DegradedSources []string `json:"degraded_sources,omitempty"`
}
