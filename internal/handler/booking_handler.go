package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/harshWarbhe/revticket/internal/domain"
	"github.com/harshWarbhe/revticket/internal/dto"
	"github.com/harshWarbhe/revticket/internal/service"
	"github.com/harshWarbhe/revticket/pkg/middleware"
	"github.com/harshWarbhe/revticket/pkg/response"
	"github.com/harshWarbhe/revticket/pkg/telemetry"
)

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBooking handles POST /bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	// Header takes precedence so the idempotency middleware and service
	// agree on the key
	if key := c.GetHeader(middleware.IdempotencyKeyHeader); key != "" {
		req.IdempotencyKey = key
	}

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("showtime_id", req.ShowtimeID),
		attribute.Int("seat_count", len(req.SeatIDs)),
	)

	result, err := h.bookingService.CreateBooking(ctx, userID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("booking_id", result.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, result)
}

// AttachPayment handles POST /bookings/:id/payment
func (h *BookingHandler) AttachPayment(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.attach_payment")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		span.SetStatus(codes.Error, "booking id required")
		response.BadRequest(c, "booking id required")
		return
	}

	var req dto.AttachPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("transaction_id", req.TransactionID),
	)

	result, err := h.bookingService.AttachPayment(ctx, bookingID, userID, req.TransactionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// CancelBooking handles POST /bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.cancel")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		span.SetStatus(codes.Error, "booking id required")
		response.BadRequest(c, "booking id required")
		return
	}

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("user_id", userID),
	)

	result, err := h.bookingService.CancelBooking(ctx, bookingID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// GetBooking handles GET /bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		span.SetStatus(codes.Error, "booking id required")
		response.BadRequest(c, "booking id required")
		return
	}

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("user_id", userID),
	)

	result, err := h.bookingService.GetBooking(ctx, bookingID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// GetUserBookings handles GET /bookings
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	page := 1
	pageSize := 20
	if p := c.Query("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if n, err := strconv.Atoi(ps); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.Int("page", page),
		attribute.Int("page_size", pageSize),
	)

	result, err := h.bookingService.GetUserBookings(ctx, userID, page, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// GetSeatMap handles GET /showtimes/:id/seats
func (h *BookingHandler) GetSeatMap(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.seat_map")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	showtimeID := c.Param("id")
	if showtimeID == "" {
		span.SetStatus(codes.Error, "showtime id required")
		response.BadRequest(c, "showtime id required")
		return
	}

	span.SetAttributes(attribute.String("showtime_id", showtimeID))

	result, err := h.bookingService.GetSeatMap(ctx, showtimeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// handleError converts domain errors to HTTP responses
func handleError(c *gin.Context, err error) {
	switch {
	case domain.IsSeatUnavailable(err):
		response.Error(c, http.StatusConflict, "SEAT_UNAVAILABLE", err.Error(), "")
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsConflictError(err):
		response.Conflict(c, err.Error())
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
