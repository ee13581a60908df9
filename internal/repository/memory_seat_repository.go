package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/harshWarbhe/revticket/internal/domain"
)

// MemorySeatRepository implements SeatRepository in memory with the same
// CAS semantics as the PostgreSQL implementation. Used by tests and local
// runs without a database.
type MemorySeatRepository struct {
	mu     sync.RWMutex
	seats  map[string]map[string]*domain.Seat // showtimeID -> seatID -> seat
	prices map[string]domain.PriceList        // showtimeID -> prices
}

// NewMemorySeatRepository creates an empty in-memory seat repository
func NewMemorySeatRepository() *MemorySeatRepository {
	return &MemorySeatRepository{
		seats:  make(map[string]map[string]*domain.Seat),
		prices: make(map[string]domain.PriceList),
	}
}

// GetByShowtime returns the seat map ordered by seat ID ascending
func (r *MemorySeatRepository) GetByShowtime(ctx context.Context, showtimeID string) ([]*domain.Seat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byID, ok := r.seats[showtimeID]
	if !ok {
		return nil, nil
	}

	seats := make([]*domain.Seat, 0, len(byID))
	for _, seat := range byID {
		copied := *seat
		seats = append(seats, &copied)
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].ID < seats[j].ID })
	return seats, nil
}

// GetSeat returns one seat of a showtime
func (r *MemorySeatRepository) GetSeat(ctx context.Context, showtimeID, seatID string) (*domain.Seat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seat, ok := r.seats[showtimeID][seatID]
	if !ok {
		return nil, domain.ErrSeatNotFound
	}
	copied := *seat
	return &copied, nil
}

// Claim transitions the seat AVAILABLE -> BOOKED iff its version matches
func (r *MemorySeatRepository) Claim(ctx context.Context, showtimeID, seatID string, version int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, ok := r.seats[showtimeID][seatID]
	if !ok {
		return false, domain.ErrSeatNotFound
	}

	if seat.Status != domain.SeatStatusAvailable || seat.Version != version {
		return false, nil
	}

	seat.Status = domain.SeatStatusBooked
	seat.Version++
	seat.UpdatedAt = time.Now()
	return true, nil
}

// Release transitions the seat back to AVAILABLE; no-op when already free
func (r *MemorySeatRepository) Release(ctx context.Context, showtimeID, seatID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, ok := r.seats[showtimeID][seatID]
	if !ok {
		return domain.ErrSeatNotFound
	}

	if seat.Status != domain.SeatStatusBooked {
		return nil
	}

	seat.Status = domain.SeatStatusAvailable
	seat.Version++
	seat.UpdatedAt = time.Now()
	return nil
}

// CreateSeats seeds the seat map for a showtime
func (r *MemorySeatRepository) CreateSeats(ctx context.Context, seats []*domain.Seat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, seat := range seats {
		byID, ok := r.seats[seat.ShowtimeID]
		if !ok {
			byID = make(map[string]*domain.Seat)
			r.seats[seat.ShowtimeID] = byID
		}
		copied := *seat
		if copied.UpdatedAt.IsZero() {
			copied.UpdatedAt = time.Now()
		}
		byID[seat.ID] = &copied
	}
	return nil
}

// SetPrices seeds or replaces the price list for a showtime
func (r *MemorySeatRepository) SetPrices(ctx context.Context, showtimeID string, prices domain.PriceList) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make(domain.PriceList, len(prices))
	for k, v := range prices {
		copied[k] = v
	}
	r.prices[showtimeID] = copied
	return nil
}

// GetPrices returns the per-seat price list for a showtime
func (r *MemorySeatRepository) GetPrices(ctx context.Context, showtimeID string) (domain.PriceList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prices, ok := r.prices[showtimeID]
	if !ok {
		return domain.PriceList{}, nil
	}
	copied := make(domain.PriceList, len(prices))
	for k, v := range prices {
		copied[k] = v
	}
	return copied, nil
}
