package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshWarbhe/revticket/internal/domain"
	"github.com/harshWarbhe/revticket/internal/repository"
)

func seedSeats(t *testing.T, repo *repository.MemorySeatRepository, showtimeID string, seatIDs ...string) {
	t.Helper()
	seats := make([]*domain.Seat, len(seatIDs))
	for i, id := range seatIDs {
		seats[i] = &domain.Seat{
			ID:         id,
			ShowtimeID: showtimeID,
			Label:      id,
			Status:     domain.SeatStatusAvailable,
			Version:    1,
		}
	}
	require.NoError(t, repo.CreateSeats(context.Background(), seats))
}

func seatStatus(t *testing.T, repo *repository.MemorySeatRepository, showtimeID, seatID string) domain.SeatStatus {
	t.Helper()
	seat, err := repo.GetSeat(context.Background(), showtimeID, seatID)
	require.NoError(t, err)
	return seat.Status
}

func TestTryClaim_Success(t *testing.T) {
	repo := repository.NewMemorySeatRepository()
	seedSeats(t, repo, "st-1", "A1", "A2", "A3")
	inv := New(repo)

	err := inv.TryClaim(context.Background(), "st-1", []string{"A1", "A3"})
	require.NoError(t, err)

	assert.Equal(t, domain.SeatStatusBooked, seatStatus(t, repo, "st-1", "A1"))
	assert.Equal(t, domain.SeatStatusAvailable, seatStatus(t, repo, "st-1", "A2"))
	assert.Equal(t, domain.SeatStatusBooked, seatStatus(t, repo, "st-1", "A3"))
}

func TestTryClaim_ConflictRollsBackPartialClaims(t *testing.T) {
	repo := repository.NewMemorySeatRepository()
	seedSeats(t, repo, "st-1", "A1", "A2", "A3")
	inv := New(repo)

	// A2 is taken by someone else
	require.NoError(t, inv.TryClaim(context.Background(), "st-1", []string{"A2"}))

	err := inv.TryClaim(context.Background(), "st-1", []string{"A1", "A2", "A3"})
	require.Error(t, err)

	var unavailable *domain.SeatUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "A2", unavailable.SeatID)

	// A1 was claimed before the conflict and must be rolled back; A3 was
	// never reached
	assert.Equal(t, domain.SeatStatusAvailable, seatStatus(t, repo, "st-1", "A1"))
	assert.Equal(t, domain.SeatStatusBooked, seatStatus(t, repo, "st-1", "A2"))
	assert.Equal(t, domain.SeatStatusAvailable, seatStatus(t, repo, "st-1", "A3"))
}

func TestTryClaim_ReportsFirstConflictInAscendingOrder(t *testing.T) {
	repo := repository.NewMemorySeatRepository()
	seedSeats(t, repo, "st-1", "A1", "A2", "A3")
	inv := New(repo)

	// Both A1 and A3 taken; request in scrambled order must still report A1
	require.NoError(t, inv.TryClaim(context.Background(), "st-1", []string{"A3", "A1"}))
	require.NoError(t, inv.Release(context.Background(), "st-1", []string{"A1"}))
	require.NoError(t, inv.TryClaim(context.Background(), "st-1", []string{"A1"}))

	err := inv.TryClaim(context.Background(), "st-1", []string{"A3", "A2", "A1"})
	var unavailable *domain.SeatUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "A1", unavailable.SeatID)
}

func TestTryClaim_ValidatesInput(t *testing.T) {
	repo := repository.NewMemorySeatRepository()
	inv := New(repo)

	err := inv.TryClaim(context.Background(), "", []string{"A1"})
	assert.ErrorIs(t, err, domain.ErrInvalidShowtimeID)

	err = inv.TryClaim(context.Background(), "st-1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidSeats)

	err = inv.TryClaim(context.Background(), "st-1", []string{"A1", "A1"})
	assert.ErrorIs(t, err, domain.ErrInvalidSeats)
}

func TestTryClaim_UnknownSeat(t *testing.T) {
	repo := repository.NewMemorySeatRepository()
	seedSeats(t, repo, "st-1", "A1")
	inv := New(repo)

	err := inv.TryClaim(context.Background(), "st-1", []string{"A1", "B9"})
	assert.ErrorIs(t, err, domain.ErrSeatNotFound)

	// The valid seat claimed before the failure is rolled back
	assert.Equal(t, domain.SeatStatusAvailable, seatStatus(t, repo, "st-1", "A1"))
}

func TestTryClaim_ConcurrentClaimsOneWinner(t *testing.T) {
	repo := repository.NewMemorySeatRepository()
	seedSeats(t, repo, "st-1", "A1", "A2")
	inv := New(repo)

	const claimants = 16
	var wg sync.WaitGroup
	errs := make([]error, claimants)

	for n := 0; n < claimants; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs[n] = inv.TryClaim(context.Background(), "st-1", []string{"A1", "A2"})
		}(n)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.True(t, domain.IsSeatUnavailable(err), "loser must see a seat conflict, got %v", err)
		}
	}
	assert.Equal(t, 1, winners, "exactly one claimant wins the full set")

	assert.Equal(t, domain.SeatStatusBooked, seatStatus(t, repo, "st-1", "A1"))
	assert.Equal(t, domain.SeatStatusBooked, seatStatus(t, repo, "st-1", "A2"))
}

func TestRelease_Idempotent(t *testing.T) {
	repo := repository.NewMemorySeatRepository()
	seedSeats(t, repo, "st-1", "A1", "A2")
	inv := New(repo)

	require.NoError(t, inv.TryClaim(context.Background(), "st-1", []string{"A1", "A2"}))

	require.NoError(t, inv.Release(context.Background(), "st-1", []string{"A1", "A2"}))
	// Second release of the same seats succeeds and changes nothing
	require.NoError(t, inv.Release(context.Background(), "st-1", []string{"A1", "A2"}))

	assert.Equal(t, domain.SeatStatusAvailable, seatStatus(t, repo, "st-1", "A1"))
	assert.Equal(t, domain.SeatStatusAvailable, seatStatus(t, repo, "st-1", "A2"))
}

func TestRelease_NeverClaimedSeatIsNoOp(t *testing.T) {
	repo := repository.NewMemorySeatRepository()
	seedSeats(t, repo, "st-1", "A1")
	inv := New(repo)

	require.NoError(t, inv.Release(context.Background(), "st-1", []string{"A1"}))
	assert.Equal(t, domain.SeatStatusAvailable, seatStatus(t, repo, "st-1", "A1"))
}

func TestSnapshot_OrderedBySeatID(t *testing.T) {
	repo := repository.NewMemorySeatRepository()
	seedSeats(t, repo, "st-1", "B1", "A2", "A1")
	inv := New(repo)

	require.NoError(t, inv.TryClaim(context.Background(), "st-1", []string{"A2"}))

	seats, err := inv.Snapshot(context.Background(), "st-1")
	require.NoError(t, err)
	require.Len(t, seats, 3)

	assert.Equal(t, "A1", seats[0].ID)
	assert.Equal(t, "A2", seats[1].ID)
	assert.Equal(t, "B1", seats[2].ID)
	assert.Equal(t, domain.SeatStatusBooked, seats[1].Status)
}
