package repository

import (
	"context"
	"sync"
	"time"

	"github.com/harshWarbhe/revticket/internal/domain"
)

// MemoryShowtimeRepository implements ShowtimeRepository in memory
type MemoryShowtimeRepository struct {
	mu        sync.RWMutex
	showtimes map[string]*domain.Showtime
}

// NewMemoryShowtimeRepository creates an empty in-memory showtime repository
func NewMemoryShowtimeRepository() *MemoryShowtimeRepository {
	return &MemoryShowtimeRepository{
		showtimes: make(map[string]*domain.Showtime),
	}
}

// GetByID retrieves a showtime by its ID
func (r *MemoryShowtimeRepository) GetByID(ctx context.Context, id string) (*domain.Showtime, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	showtime, ok := r.showtimes[id]
	if !ok {
		return nil, domain.ErrShowtimeNotFound
	}
	copied := *showtime
	return &copied, nil
}

// GetByScreenBetween returns showtimes on a screen whose interval
// intersects [start, end)
func (r *MemoryShowtimeRepository) GetByScreenBetween(ctx context.Context, screenID string, start, end time.Time) ([]*domain.Showtime, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var overlapping []*domain.Showtime
	for _, showtime := range r.showtimes {
		if showtime.ScreenID != screenID {
			continue
		}
		if showtime.Overlaps(start, end) {
			copied := *showtime
			overlapping = append(overlapping, &copied)
		}
	}
	return overlapping, nil
}

// Create inserts a showtime
func (r *MemoryShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.showtimes[showtime.ID]; exists {
		return domain.ErrShowtimeAlreadyExists
	}
	copied := *showtime
	r.showtimes[showtime.ID] = &copied
	return nil
}
