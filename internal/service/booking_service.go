package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/harshWarbhe/revticket/internal/domain"
	"github.com/harshWarbhe/revticket/internal/dto"
	"github.com/harshWarbhe/revticket/internal/inventory"
	"github.com/harshWarbhe/revticket/internal/metrics"
	"github.com/harshWarbhe/revticket/internal/pricing"
	"github.com/harshWarbhe/revticket/internal/repository"
	"github.com/harshWarbhe/revticket/pkg/logger"
	"github.com/harshWarbhe/revticket/pkg/retry"
	"github.com/harshWarbhe/revticket/pkg/telemetry"
)

// Notifier delivers booking notifications. Delivery is best-effort:
// callers never fail a booking on a notification error.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, booking *domain.Booking) error
	SendAdminAlert(ctx context.Context, booking *domain.Booking) error
}

// BookingService defines the interface for booking business logic
type BookingService interface {
	// CreateBooking claims seats, prices them, and persists a CONFIRMED
	// booking; all-or-nothing with compensation on failure
	CreateBooking(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)

	// AttachPayment records a payment transaction against a booking;
	// independent of the creation flow
	AttachPayment(ctx context.Context, bookingID, userID, transactionID string) (*dto.BookingResponse, error)

	// CancelBooking cancels a confirmed booking and releases its seats
	CancelBooking(ctx context.Context, bookingID, userID string) (*dto.CancelBookingResponse, error)

	// GetBooking retrieves a booking by ID
	GetBooking(ctx context.Context, bookingID, userID string) (*dto.BookingResponse, error)

	// GetUserBookings retrieves all bookings for a user
	GetUserBookings(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedResponse, error)

	// GetSeatMap returns the current seat map of a showtime
	GetSeatMap(ctx context.Context, showtimeID string) (*dto.SeatMapResponse, error)
}

// bookingService implements BookingService
type bookingService struct {
	bookingRepo    repository.BookingRepository
	seatRepo       repository.SeatRepository
	inventory      inventory.Inventory
	releaseQueue   repository.ReleaseQueue
	eventPublisher EventPublisher
	notifier       Notifier

	releaseRetries       int
	releaseRetryInterval time.Duration
	notifyTimeout        time.Duration
	notifyRetries        int
}

// BookingServiceConfig contains configuration for booking service
type BookingServiceConfig struct {
	ReleaseRetries       int
	ReleaseRetryInterval time.Duration
	NotifyTimeout        time.Duration
	NotifyRetries        int
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo repository.BookingRepository,
	seatRepo repository.SeatRepository,
	inv inventory.Inventory,
	releaseQueue repository.ReleaseQueue,
	eventPublisher EventPublisher,
	notifier Notifier,
	cfg *BookingServiceConfig,
) BookingService {
	releaseRetries := 3
	releaseRetryInterval := 200 * time.Millisecond
	notifyTimeout := 2 * time.Second
	notifyRetries := 1
	if cfg != nil {
		if cfg.ReleaseRetries > 0 {
			releaseRetries = cfg.ReleaseRetries
		}
		if cfg.ReleaseRetryInterval > 0 {
			releaseRetryInterval = cfg.ReleaseRetryInterval
		}
		if cfg.NotifyTimeout > 0 {
			notifyTimeout = cfg.NotifyTimeout
		}
		if cfg.NotifyRetries >= 0 {
			notifyRetries = cfg.NotifyRetries
		}
	}
	if eventPublisher == nil {
		eventPublisher = NewNoOpEventPublisher()
	}
	return &bookingService{
		bookingRepo:          bookingRepo,
		seatRepo:             seatRepo,
		inventory:            inv,
		releaseQueue:         releaseQueue,
		eventPublisher:       eventPublisher,
		notifier:             notifier,
		releaseRetries:       releaseRetries,
		releaseRetryInterval: releaseRetryInterval,
		notifyTimeout:        notifyTimeout,
		notifyRetries:        notifyRetries,
	}
}

// CreateBooking claims seats, prices them, and persists a CONFIRMED booking
func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.create")
	defer span.End()

	start := time.Now()

	// Validate request shape
	if userID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}
	if req == nil || req.ShowtimeID == "" {
		span.SetStatus(codes.Error, "invalid showtime_id")
		return nil, domain.ErrInvalidShowtimeID
	}
	if len(req.SeatIDs) == 0 || hasDuplicateSeats(req.SeatIDs) {
		span.SetStatus(codes.Error, "invalid seats")
		return nil, domain.ErrInvalidSeats
	}

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("showtime_id", req.ShowtimeID),
		attribute.Int("seat_count", len(req.SeatIDs)),
	)

	// Idempotency: only a CONFIRMED booking under this key is returned
	// as-is. A cancelled or failed booking does not pin the key, so the
	// retry falls through to a fresh claim.
	if req.IdempotencyKey != "" {
		existing, err := s.bookingRepo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if err == nil && existing != nil && existing.Status == domain.BookingStatusConfirmed {
			span.AddEvent("idempotent_replay", trace.WithAttributes(
				attribute.String("booking_id", existing.ID),
			))
			span.SetStatus(codes.Ok, "")
			return dto.FromDomain(existing), nil
		}
		if err != nil && !errors.Is(err, domain.ErrBookingNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	// Claim seats: all-or-nothing, conflict needs no compensation here
	if err := s.inventory.TryClaim(ctx, req.ShowtimeID, req.SeatIDs); err != nil {
		var unavailable *domain.SeatUnavailableError
		if errors.As(err, &unavailable) {
			metrics.RecordSeatConflict(ctx, req.ShowtimeID, unavailable.SeatID)
			metrics.RecordFailure(ctx, req.ShowtimeID, "seat_conflict")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Price the claimed seats; failure releases the claim
	prices, err := s.seatRepo.GetPrices(ctx, req.ShowtimeID)
	if err != nil {
		s.compensate(ctx, "", req.ShowtimeID, req.SeatIDs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	total, err := pricing.Total(req.SeatIDs, prices)
	if err != nil {
		s.compensate(ctx, "", req.ShowtimeID, req.SeatIDs)
		metrics.RecordFailure(ctx, req.ShowtimeID, "pricing")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Persist as CONFIRMED: claim success confirms the booking, payment
	// attaches later
	now := time.Now()
	booking := &domain.Booking{
		ID:             uuid.New().String(),
		UserID:         userID,
		ShowtimeID:     req.ShowtimeID,
		SeatIDs:        req.SeatIDs,
		SeatLabels:     s.seatLabels(ctx, req.ShowtimeID, req.SeatIDs),
		TotalPrice:     total,
		Status:         domain.BookingStatusConfirmed,
		CustomerEmail:  req.CustomerEmail,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		s.compensate(ctx, booking.ID, req.ShowtimeID, req.SeatIDs)
		metrics.RecordFailure(ctx, req.ShowtimeID, "persistence")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Publish + notify: best effort, the booking is already committed
	if pubErr := s.eventPublisher.PublishBookingConfirmed(ctx, booking); pubErr != nil {
		logger.Get().Warn("failed to publish booking confirmed event",
			zap.String("booking_id", booking.ID),
			zap.Error(pubErr),
		)
	}
	s.notify(ctx, booking)

	metrics.RecordConfirmation(ctx, booking.ShowtimeID, len(booking.SeatIDs), time.Since(start).Seconds())

	span.AddEvent("booking_confirmed", trace.WithAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.Float64("total_price", booking.TotalPrice),
	))
	span.SetAttributes(attribute.String("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	return dto.FromDomain(booking), nil
}

// AttachPayment records a payment transaction against a booking
func (s *bookingService) AttachPayment(ctx context.Context, bookingID, userID, transactionID string) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.attach_payment")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("transaction_id", transactionID),
	)

	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}
	if transactionID == "" {
		span.SetStatus(codes.Error, "invalid transaction")
		return nil, domain.ErrInvalidPayment
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if userID != "" && !booking.BelongsToUser(userID) {
		span.SetStatus(codes.Error, "invalid user")
		return nil, domain.ErrInvalidUserID
	}
	if booking.IsCancelled() {
		span.SetStatus(codes.Error, "already cancelled")
		return nil, domain.ErrAlreadyCancelled
	}

	if err := s.bookingRepo.AttachPayment(ctx, bookingID, transactionID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	booking.TransactionID = transactionID
	booking.UpdatedAt = time.Now()

	if pubErr := s.eventPublisher.PublishPaymentAttached(ctx, booking); pubErr != nil {
		logger.Get().Warn("failed to publish payment attached event",
			zap.String("booking_id", booking.ID),
			zap.Error(pubErr),
		)
	}

	span.SetStatus(codes.Ok, "")
	return dto.FromDomain(booking), nil
}

// CancelBooking cancels a confirmed booking and releases its seats
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*dto.CancelBookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.cancel")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("user_id", userID),
	)

	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}
	if userID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !booking.BelongsToUser(userID) {
		span.SetStatus(codes.Error, "invalid user")
		return nil, domain.ErrInvalidUserID
	}
	if booking.IsCancelled() {
		span.SetStatus(codes.Error, "already cancelled")
		return nil, domain.ErrAlreadyCancelled
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusCancelled); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Free the seats; a stuck release goes through the same escalation
	// path as creation compensation
	s.compensate(ctx, bookingID, booking.ShowtimeID, booking.SeatIDs)

	booking.Status = domain.BookingStatusCancelled
	now := time.Now()
	booking.CancelledAt = &now

	if pubErr := s.eventPublisher.PublishBookingCancelled(ctx, booking); pubErr != nil {
		logger.Get().Warn("failed to publish booking cancelled event",
			zap.String("booking_id", booking.ID),
			zap.Error(pubErr),
		)
	}

	metrics.RecordCancellation(ctx, booking.ShowtimeID)

	span.SetStatus(codes.Ok, "")
	return &dto.CancelBookingResponse{
		BookingID: bookingID,
		Status:    string(domain.BookingStatusCancelled),
		Message:   "Booking cancelled successfully",
	}, nil
}

// GetBooking retrieves a booking by ID
func (s *bookingService) GetBooking(ctx context.Context, bookingID, userID string) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("user_id", userID),
	)

	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}
	if userID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !booking.BelongsToUser(userID) {
		span.SetStatus(codes.Error, "invalid user")
		return nil, domain.ErrInvalidUserID
	}

	span.SetStatus(codes.Ok, "")
	return dto.FromDomain(booking), nil
}

// GetUserBookings retrieves all bookings for a user
func (s *bookingService) GetUserBookings(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.list_user")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.Int("page", page),
		attribute.Int("page_size", pageSize),
	)

	if userID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	bookings, err := s.bookingRepo.GetByUserID(ctx, userID, pageSize, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	responses := make([]*dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		responses[i] = dto.FromDomain(b)
	}

	span.SetAttributes(attribute.Int("count", len(responses)))
	span.SetStatus(codes.Ok, "")
	return &dto.PaginatedResponse{
		Data:     responses,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetSeatMap returns the current seat map of a showtime
func (s *bookingService) GetSeatMap(ctx context.Context, showtimeID string) (*dto.SeatMapResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.seat_map")
	defer span.End()

	seats, err := s.inventory.Snapshot(ctx, showtimeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	responses := make([]*dto.SeatResponse, len(seats))
	for i, seat := range seats {
		responses[i] = dto.SeatFromDomain(seat)
	}

	span.SetStatus(codes.Ok, "")
	return &dto.SeatMapResponse{
		ShowtimeID: showtimeID,
		Seats:      responses,
	}, nil
}

// compensate releases claimed seats with bounded retry. When retries are
// exhausted the task is parked on the release queue and flagged for
// operations; seats must never leak silently.
func (s *bookingService) compensate(ctx context.Context, bookingID, showtimeID string, seatIDs []string) {
	result := retry.Do(ctx, &retry.Config{
		MaxRetries:      s.releaseRetries,
		InitialInterval: s.releaseRetryInterval,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}, func(ctx context.Context) error {
		return s.inventory.Release(ctx, showtimeID, seatIDs)
	})

	if result.Err == nil {
		return
	}

	logger.Get().Error("seat release failed after retries, escalating",
		zap.String("booking_id", bookingID),
		zap.String("showtime_id", showtimeID),
		zap.Strings("seat_ids", seatIDs),
		zap.Int("attempts", result.Attempts),
		zap.Error(result.LastError),
	)
	metrics.RecordReleaseEscalation(ctx, showtimeID, len(seatIDs))

	if s.releaseQueue != nil {
		task := &domain.ReleaseTask{
			BookingID:  bookingID,
			ShowtimeID: showtimeID,
			SeatIDs:    seatIDs,
			Attempts:   result.Attempts,
			QueuedAt:   time.Now(),
		}
		if qErr := s.releaseQueue.Enqueue(ctx, task); qErr != nil {
			logger.Get().Error("failed to enqueue stuck seat release",
				zap.String("booking_id", bookingID),
				zap.Error(qErr),
			)
		}
	}
}

// notify sends the customer confirmation and admin alert. Bounded
// timeout, bounded retries, failures logged and swallowed.
func (s *bookingService) notify(ctx context.Context, booking *domain.Booking) {
	if s.notifier == nil {
		return
	}

	nctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	cfg := &retry.Config{
		MaxRetries:      s.notifyRetries,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}

	if result := retry.Do(nctx, cfg, func(ctx context.Context) error {
		return s.notifier.SendBookingConfirmation(ctx, booking)
	}); result.Err != nil {
		logger.Get().Warn("booking confirmation notification failed",
			zap.String("booking_id", booking.ID),
			zap.Error(result.LastError),
		)
	}

	if result := retry.Do(nctx, cfg, func(ctx context.Context) error {
		return s.notifier.SendAdminAlert(ctx, booking)
	}); result.Err != nil {
		logger.Get().Warn("admin booking alert failed",
			zap.String("booking_id", booking.ID),
			zap.Error(result.LastError),
		)
	}
}

// seatLabels resolves display labels for the booked seats; best effort
func (s *bookingService) seatLabels(ctx context.Context, showtimeID string, seatIDs []string) []string {
	labels := make([]string, 0, len(seatIDs))
	for _, seatID := range seatIDs {
		seat, err := s.seatRepo.GetSeat(ctx, showtimeID, seatID)
		if err != nil || seat.Label == "" {
			labels = append(labels, seatID)
			continue
		}
		labels = append(labels, seat.Label)
	}
	return labels
}

func hasDuplicateSeats(seatIDs []string) bool {
	seen := make(map[string]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if _, dup := seen[id]; dup {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
