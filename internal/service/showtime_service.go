package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/harshWarbhe/revticket/internal/domain"
	"github.com/harshWarbhe/revticket/internal/repository"
	"github.com/harshWarbhe/revticket/pkg/telemetry"
)

// ShowtimeService defines the interface for showtime scheduling
type ShowtimeService interface {
	// CheckConflict reports whether [start, end) collides with an existing
	// showtime on the screen
	CheckConflict(ctx context.Context, screenID string, start, end time.Time) (bool, error)

	// CreateShowtime schedules a showtime, rejecting overlapping intervals,
	// and seeds its seat map and price list
	CreateShowtime(ctx context.Context, showtime *domain.Showtime, seats []*domain.Seat, prices domain.PriceList) (*domain.Showtime, error)

	// GetShowtime retrieves a showtime by ID
	GetShowtime(ctx context.Context, id string) (*domain.Showtime, error)
}

type showtimeService struct {
	showtimeRepo repository.ShowtimeRepository
	seatRepo     repository.SeatRepository
}

// NewShowtimeService creates a new showtime service
func NewShowtimeService(showtimeRepo repository.ShowtimeRepository, seatRepo repository.SeatRepository) ShowtimeService {
	return &showtimeService{
		showtimeRepo: showtimeRepo,
		seatRepo:     seatRepo,
	}
}

// CheckConflict reports whether [start, end) collides with an existing
// showtime on the screen
func (s *showtimeService) CheckConflict(ctx context.Context, screenID string, start, end time.Time) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.showtime.check_conflict")
	defer span.End()

	span.SetAttributes(
		attribute.String("screen_id", screenID),
		attribute.String("start", start.Format(time.RFC3339)),
		attribute.String("end", end.Format(time.RFC3339)),
	)

	if screenID == "" {
		span.SetStatus(codes.Error, "invalid screen_id")
		return false, domain.ErrInvalidScreenID
	}
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		span.SetStatus(codes.Error, "invalid time range")
		return false, domain.ErrInvalidTimeRange
	}

	existing, err := s.showtimeRepo.GetByScreenBetween(ctx, screenID, start, end)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	// The repository already filters by interval intersection; the domain
	// check keeps the half-open boundary rule authoritative
	for _, st := range existing {
		if st.Overlaps(start, end) {
			span.SetAttributes(attribute.String("conflict_showtime_id", st.ID))
			span.SetStatus(codes.Ok, "")
			return true, nil
		}
	}

	span.SetStatus(codes.Ok, "")
	return false, nil
}

// CreateShowtime schedules a showtime and seeds its seat map and prices
func (s *showtimeService) CreateShowtime(ctx context.Context, showtime *domain.Showtime, seats []*domain.Seat, prices domain.PriceList) (*domain.Showtime, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.showtime.create")
	defer span.End()

	if showtime == nil || showtime.ScreenID == "" {
		span.SetStatus(codes.Error, "invalid screen_id")
		return nil, domain.ErrInvalidScreenID
	}
	if showtime.StartTime.IsZero() || showtime.EndTime.IsZero() || !showtime.StartTime.Before(showtime.EndTime) {
		span.SetStatus(codes.Error, "invalid time range")
		return nil, domain.ErrInvalidTimeRange
	}

	conflict, err := s.CheckConflict(ctx, showtime.ScreenID, showtime.StartTime, showtime.EndTime)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if conflict {
		span.SetStatus(codes.Error, "screen conflict")
		return nil, domain.ErrShowtimeAlreadyExists
	}

	if showtime.ID == "" {
		showtime.ID = uuid.New().String()
	}
	showtime.CreatedAt = time.Now()

	if err := s.showtimeRepo.Create(ctx, showtime); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if len(seats) > 0 {
		for _, seat := range seats {
			seat.ShowtimeID = showtime.ID
			if seat.Status == "" {
				seat.Status = domain.SeatStatusAvailable
			}
		}
		if err := s.seatRepo.CreateSeats(ctx, seats); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	if len(prices) > 0 {
		if err := s.seatRepo.SetPrices(ctx, showtime.ID, prices); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	span.SetAttributes(attribute.String("showtime_id", showtime.ID))
	span.SetStatus(codes.Ok, "")
	return showtime, nil
}

// GetShowtime retrieves a showtime by ID
func (s *showtimeService) GetShowtime(ctx context.Context, id string) (*domain.Showtime, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.showtime.get")
	defer span.End()

	if id == "" {
		span.SetStatus(codes.Error, "invalid showtime_id")
		return nil, domain.ErrInvalidShowtimeID
	}

	showtime, err := s.showtimeRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return showtime, nil
}
