package inventory

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/harshWarbhe/revticket/internal/domain"
	"github.com/harshWarbhe/revticket/internal/repository"
	"github.com/harshWarbhe/revticket/pkg/telemetry"
)

// Inventory is the seat claim engine. A claim is all-or-nothing: either
// every requested seat transitions AVAILABLE -> BOOKED, or none does.
type Inventory interface {
	// TryClaim claims the requested seats atomically. On conflict it rolls
	// back any seats already claimed in this call and returns
	// *domain.SeatUnavailableError naming the first conflicting seat in
	// ascending seat-id order.
	TryClaim(ctx context.Context, showtimeID string, seatIDs []string) error

	// Release reverts claimed seats to AVAILABLE. Idempotent; safe to call
	// on seats that were never claimed.
	Release(ctx context.Context, showtimeID string, seatIDs []string) error

	// Snapshot returns the current seat map, ordered by seat ID
	Snapshot(ctx context.Context, showtimeID string) ([]*domain.Seat, error)
}

type inventory struct {
	seatRepo repository.SeatRepository
}

// New creates a seat inventory over the given repository
func New(seatRepo repository.SeatRepository) Inventory {
	return &inventory{seatRepo: seatRepo}
}

func (i *inventory) TryClaim(ctx context.Context, showtimeID string, seatIDs []string) error {
	ctx, span := telemetry.StartSpan(ctx, "inventory.try_claim")
	defer span.End()

	span.SetAttributes(
		attribute.String("showtime_id", showtimeID),
		attribute.Int("seat_count", len(seatIDs)),
	)

	if showtimeID == "" {
		span.SetStatus(codes.Error, "invalid showtime_id")
		return domain.ErrInvalidShowtimeID
	}
	if len(seatIDs) == 0 || hasDuplicates(seatIDs) {
		span.SetStatus(codes.Error, "invalid seats")
		return domain.ErrInvalidSeats
	}

	// Ascending order keeps the reported conflict seat deterministic and
	// gives concurrent claimants a consistent locking order
	ordered := make([]string, len(seatIDs))
	copy(ordered, seatIDs)
	sort.Strings(ordered)

	var claimed []string
	for _, seatID := range ordered {
		seat, err := i.seatRepo.GetSeat(ctx, showtimeID, seatID)
		if err != nil {
			i.rollback(ctx, showtimeID, claimed)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}

		if !seat.IsAvailable() {
			i.rollback(ctx, showtimeID, claimed)
			span.SetStatus(codes.Error, "seat unavailable")
			span.SetAttributes(attribute.String("conflict_seat_id", seatID))
			return &domain.SeatUnavailableError{SeatID: seatID}
		}

		ok, err := i.seatRepo.Claim(ctx, showtimeID, seatID, seat.Version)
		if err != nil {
			i.rollback(ctx, showtimeID, claimed)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		if !ok {
			// Version moved between read and write: another claim won
			i.rollback(ctx, showtimeID, claimed)
			span.SetStatus(codes.Error, "seat unavailable")
			span.SetAttributes(attribute.String("conflict_seat_id", seatID))
			return &domain.SeatUnavailableError{SeatID: seatID}
		}

		claimed = append(claimed, seatID)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (i *inventory) Release(ctx context.Context, showtimeID string, seatIDs []string) error {
	ctx, span := telemetry.StartSpan(ctx, "inventory.release")
	defer span.End()

	span.SetAttributes(
		attribute.String("showtime_id", showtimeID),
		attribute.Int("seat_count", len(seatIDs)),
	)

	if showtimeID == "" {
		span.SetStatus(codes.Error, "invalid showtime_id")
		return domain.ErrInvalidShowtimeID
	}

	// Release every seat even when one fails, reporting the first error
	var firstErr error
	for _, seatID := range seatIDs {
		if err := i.seatRepo.Release(ctx, showtimeID, seatID); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		span.RecordError(firstErr)
		span.SetStatus(codes.Error, firstErr.Error())
		return firstErr
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (i *inventory) Snapshot(ctx context.Context, showtimeID string) ([]*domain.Seat, error) {
	ctx, span := telemetry.StartSpan(ctx, "inventory.snapshot")
	defer span.End()

	span.SetAttributes(attribute.String("showtime_id", showtimeID))

	if showtimeID == "" {
		span.SetStatus(codes.Error, "invalid showtime_id")
		return nil, domain.ErrInvalidShowtimeID
	}

	seats, err := i.seatRepo.GetByShowtime(ctx, showtimeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(seats)))
	span.SetStatus(codes.Ok, "")
	return seats, nil
}

// rollback undoes partial claims from a failed TryClaim. Best effort:
// a failed revert here surfaces later through the release worker path.
func (i *inventory) rollback(ctx context.Context, showtimeID string, claimed []string) {
	for _, seatID := range claimed {
		_ = i.seatRepo.Release(ctx, showtimeID, seatID)
	}
}

func hasDuplicates(seatIDs []string) bool {
	seen := make(map[string]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if _, dup := seen[id]; dup {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
