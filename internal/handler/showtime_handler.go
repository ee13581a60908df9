package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/harshWarbhe/revticket/internal/domain"
	"github.com/harshWarbhe/revticket/internal/dto"
	"github.com/harshWarbhe/revticket/internal/service"
	"github.com/harshWarbhe/revticket/pkg/response"
	"github.com/harshWarbhe/revticket/pkg/telemetry"
)

// ShowtimeHandler handles showtime HTTP requests
type ShowtimeHandler struct {
	showtimeService service.ShowtimeService
}

// NewShowtimeHandler creates a new showtime handler
func NewShowtimeHandler(showtimeService service.ShowtimeService) *ShowtimeHandler {
	return &ShowtimeHandler{showtimeService: showtimeService}
}

// CheckConflict handles GET /showtimes/conflict
func (h *ShowtimeHandler) CheckConflict(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.showtime.check_conflict")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	screenID := c.Query("screen_id")
	startStr := c.Query("start")
	endStr := c.Query("end")

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		span.SetStatus(codes.Error, "invalid start")
		response.BadRequest(c, "start must be RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		span.SetStatus(codes.Error, "invalid end")
		response.BadRequest(c, "end must be RFC3339")
		return
	}

	span.SetAttributes(attribute.String("screen_id", screenID))

	conflict, err := h.showtimeService.CheckConflict(ctx, screenID, start, end)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Bool("conflict", conflict))
	span.SetStatus(codes.Ok, "")
	response.Success(c, &dto.ConflictCheckResponse{
		ScreenID: screenID,
		Start:    start,
		End:      end,
		Conflict: conflict,
	})
}

// CreateShowtimeRequest represents a request to schedule a showtime
type CreateShowtimeRequest struct {
	MovieID   string    `json:"movie_id" binding:"required"`
	ScreenID  string    `json:"screen_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	BasePrice float64   `json:"base_price"`
	// Seats seeds the seat map; labels double as IDs when IDs are omitted
	Seats []struct {
		ID    string  `json:"id"`
		Label string  `json:"label"`
		Price float64 `json:"price"`
	} `json:"seats"`
}

// CreateShowtime handles POST /showtimes
func (h *ShowtimeHandler) CreateShowtime(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.showtime.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req CreateShowtimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("movie_id", req.MovieID),
		attribute.String("screen_id", req.ScreenID),
	)

	showtime := &domain.Showtime{
		MovieID:   req.MovieID,
		ScreenID:  req.ScreenID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		BasePrice: req.BasePrice,
	}

	seats := make([]*domain.Seat, 0, len(req.Seats))
	prices := domain.PriceList{}
	for _, s := range req.Seats {
		id := s.ID
		if id == "" {
			id = s.Label
		}
		seats = append(seats, &domain.Seat{
			ID:     id,
			Label:  s.Label,
			Status: domain.SeatStatusAvailable,
		})
		if s.Price > 0 {
			prices[id] = s.Price
		} else if req.BasePrice > 0 {
			prices[id] = req.BasePrice
		}
	}

	result, err := h.showtimeService.CreateShowtime(ctx, showtime, seats, prices)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("showtime_id", result.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, result)
}

// GetShowtime handles GET /showtimes/:id
func (h *ShowtimeHandler) GetShowtime(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.showtime.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id := c.Param("id")
	span.SetAttributes(attribute.String("showtime_id", id))

	result, err := h.showtimeService.GetShowtime(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}
