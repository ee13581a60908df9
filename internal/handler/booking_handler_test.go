package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harshWarbhe/revticket/internal/domain"
	"github.com/harshWarbhe/revticket/internal/dto"
	"github.com/harshWarbhe/revticket/pkg/middleware"
	"github.com/harshWarbhe/revticket/pkg/response"
)

// MockBookingService is a mock implementation of BookingService for testing
type MockBookingService struct {
	CreateBookingFunc   func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	AttachPaymentFunc   func(ctx context.Context, bookingID, userID, transactionID string) (*dto.BookingResponse, error)
	CancelBookingFunc   func(ctx context.Context, bookingID, userID string) (*dto.CancelBookingResponse, error)
	GetBookingFunc      func(ctx context.Context, bookingID, userID string) (*dto.BookingResponse, error)
	GetUserBookingsFunc func(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedResponse, error)
	GetSeatMapFunc      func(ctx context.Context, showtimeID string) (*dto.SeatMapResponse, error)
}

func (m *MockBookingService) CreateBooking(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	if m.CreateBookingFunc != nil {
		return m.CreateBookingFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *MockBookingService) AttachPayment(ctx context.Context, bookingID, userID, transactionID string) (*dto.BookingResponse, error) {
	if m.AttachPaymentFunc != nil {
		return m.AttachPaymentFunc(ctx, bookingID, userID, transactionID)
	}
	return nil, nil
}

func (m *MockBookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*dto.CancelBookingResponse, error) {
	if m.CancelBookingFunc != nil {
		return m.CancelBookingFunc(ctx, bookingID, userID)
	}
	return nil, nil
}

func (m *MockBookingService) GetBooking(ctx context.Context, bookingID, userID string) (*dto.BookingResponse, error) {
	if m.GetBookingFunc != nil {
		return m.GetBookingFunc(ctx, bookingID, userID)
	}
	return nil, nil
}

func (m *MockBookingService) GetUserBookings(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedResponse, error) {
	if m.GetUserBookingsFunc != nil {
		return m.GetUserBookingsFunc(ctx, userID, page, pageSize)
	}
	return nil, nil
}

func (m *MockBookingService) GetSeatMap(ctx context.Context, showtimeID string) (*dto.SeatMapResponse, error) {
	if m.GetSeatMapFunc != nil {
		return m.GetSeatMapFunc(ctx, showtimeID)
	}
	return nil, nil
}

func setupTestRouter(handler *BookingHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	if userID != "" {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.ContextKeyUserID, userID)
			c.Next()
		})
	}

	bookings := router.Group("/bookings")
	{
		bookings.POST("", handler.CreateBooking)
		bookings.GET("", handler.GetUserBookings)
		bookings.GET("/:id", handler.GetBooking)
		bookings.POST("/:id/payment", handler.AttachPayment)
		bookings.POST("/:id/cancel", handler.CancelBooking)
	}
	router.GET("/showtimes/:id/seats", handler.GetSeatMap)

	return router
}

func decodeErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error == nil {
		t.Fatal("expected error envelope, got none")
	}
	return resp.Error.Code
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		request        *dto.CreateBookingRequest
		mockFunc       func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "successful booking",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				ShowtimeID: "show-001",
				SeatIDs:    []string{"A1", "A2"},
			},
			mockFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return &dto.BookingResponse{
					ID:         "booking-123",
					UserID:     userID,
					ShowtimeID: req.ShowtimeID,
					SeatIDs:    req.SeatIDs,
					Status:     string(domain.BookingStatusConfirmed),
					TotalPrice: 240.00,
					CreatedAt:  time.Now(),
				}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unauthorized - no user_id",
			userID:         "",
			request:        &dto.CreateBookingRequest{ShowtimeID: "show-001", SeatIDs: []string{"A1"}},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:   "seat already claimed",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				ShowtimeID: "show-001",
				SeatIDs:    []string{"A1", "A2"},
			},
			mockFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, &domain.SeatUnavailableError{SeatID: "A1"}
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "SEAT_UNAVAILABLE",
		},
		{
			name:   "unpriced seat",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				ShowtimeID: "show-001",
				SeatIDs:    []string{"A1"},
			},
			mockFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, domain.ErrSeatNotPriced
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name:   "showtime not found",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				ShowtimeID: "missing",
				SeatIDs:    []string{"A1"},
			},
			mockFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, domain.ErrSeatNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBookingHandler(&MockBookingService{CreateBookingFunc: tt.mockFunc})
			router := setupTestRouter(handler, tt.userID)

			body, _ := json.Marshal(tt.request)
			req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedCode != "" {
				if code := decodeErrorCode(t, w.Body.Bytes()); code != tt.expectedCode {
					t.Errorf("expected code %s, got %s", tt.expectedCode, code)
				}
			}
		})
	}
}

func TestBookingHandler_CreateBooking_HeaderKeyOverridesBody(t *testing.T) {
	var gotKey string
	handler := NewBookingHandler(&MockBookingService{
		CreateBookingFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
			gotKey = req.IdempotencyKey
			return &dto.BookingResponse{ID: "booking-123"}, nil
		},
	})
	router := setupTestRouter(handler, "user-123")

	body, _ := json.Marshal(&dto.CreateBookingRequest{
		ShowtimeID:     "show-001",
		SeatIDs:        []string{"A1"},
		IdempotencyKey: "body-key",
	})
	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.IdempotencyKeyHeader, "header-key")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if gotKey != "header-key" {
		t.Errorf("expected idempotency key from header, got %q", gotKey)
	}
}

func TestBookingHandler_AttachPayment(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		request        *dto.AttachPaymentRequest
		mockFunc       func(ctx context.Context, bookingID, userID, transactionID string) (*dto.BookingResponse, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:    "successful attachment",
			userID:  "user-123",
			request: &dto.AttachPaymentRequest{TransactionID: "txn-789"},
			mockFunc: func(ctx context.Context, bookingID, userID, transactionID string) (*dto.BookingResponse, error) {
				return &dto.BookingResponse{
					ID:            bookingID,
					TransactionID: transactionID,
					Status:        string(domain.BookingStatusConfirmed),
				}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorized - no user_id",
			userID:         "",
			request:        &dto.AttachPaymentRequest{TransactionID: "txn-789"},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "missing transaction id",
			userID:         "user-123",
			request:        &dto.AttachPaymentRequest{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name:    "cancelled booking",
			userID:  "user-123",
			request: &dto.AttachPaymentRequest{TransactionID: "txn-789"},
			mockFunc: func(ctx context.Context, bookingID, userID, transactionID string) (*dto.BookingResponse, error) {
				return nil, domain.ErrAlreadyCancelled
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "CONFLICT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBookingHandler(&MockBookingService{AttachPaymentFunc: tt.mockFunc})
			router := setupTestRouter(handler, tt.userID)

			body, _ := json.Marshal(tt.request)
			req := httptest.NewRequest(http.MethodPost, "/bookings/booking-123/payment", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedCode != "" {
				if code := decodeErrorCode(t, w.Body.Bytes()); code != tt.expectedCode {
					t.Errorf("expected code %s, got %s", tt.expectedCode, code)
				}
			}
		})
	}
}

func TestBookingHandler_CancelBooking(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		mockFunc       func(ctx context.Context, bookingID, userID string) (*dto.CancelBookingResponse, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "successful cancellation",
			userID: "user-123",
			mockFunc: func(ctx context.Context, bookingID, userID string) (*dto.CancelBookingResponse, error) {
				return &dto.CancelBookingResponse{
					BookingID: bookingID,
					Status:    string(domain.BookingStatusCancelled),
					Message:   "Booking cancelled successfully",
				}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorized - no user_id",
			userID:         "",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:   "booking not found",
			userID: "user-123",
			mockFunc: func(ctx context.Context, bookingID, userID string) (*dto.CancelBookingResponse, error) {
				return nil, domain.ErrBookingNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name:   "already cancelled",
			userID: "user-123",
			mockFunc: func(ctx context.Context, bookingID, userID string) (*dto.CancelBookingResponse, error) {
				return nil, domain.ErrAlreadyCancelled
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "CONFLICT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBookingHandler(&MockBookingService{CancelBookingFunc: tt.mockFunc})
			router := setupTestRouter(handler, tt.userID)

			req := httptest.NewRequest(http.MethodPost, "/bookings/booking-123/cancel", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedCode != "" {
				if code := decodeErrorCode(t, w.Body.Bytes()); code != tt.expectedCode {
					t.Errorf("expected code %s, got %s", tt.expectedCode, code)
				}
			}
		})
	}
}

func TestBookingHandler_GetUserBookings(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		query          string
		mockFunc       func(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedResponse, error)
		expectedStatus int
	}{
		{
			name:   "defaults applied",
			userID: "user-123",
			query:  "",
			mockFunc: func(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedResponse, error) {
				if page != 1 {
					t.Errorf("expected page 1, got %d", page)
				}
				if pageSize != 20 {
					t.Errorf("expected pageSize 20, got %d", pageSize)
				}
				return &dto.PaginatedResponse{Data: []*dto.BookingResponse{}, Page: page, PageSize: pageSize}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "explicit pagination",
			userID: "user-123",
			query:  "?page=3&page_size=50",
			mockFunc: func(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedResponse, error) {
				if page != 3 {
					t.Errorf("expected page 3, got %d", page)
				}
				if pageSize != 50 {
					t.Errorf("expected pageSize 50, got %d", pageSize)
				}
				return &dto.PaginatedResponse{Data: []*dto.BookingResponse{}, Page: page, PageSize: pageSize}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "oversized page_size falls back to default",
			userID: "user-123",
			query:  "?page_size=5000",
			mockFunc: func(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedResponse, error) {
				if pageSize != 20 {
					t.Errorf("expected pageSize 20, got %d", pageSize)
				}
				return &dto.PaginatedResponse{Data: []*dto.BookingResponse{}, Page: page, PageSize: pageSize}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorized - no user_id",
			userID:         "",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBookingHandler(&MockBookingService{GetUserBookingsFunc: tt.mockFunc})
			router := setupTestRouter(handler, tt.userID)

			req := httptest.NewRequest(http.MethodGet, "/bookings"+tt.query, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestBookingHandler_GetSeatMap(t *testing.T) {
	handler := NewBookingHandler(&MockBookingService{
		GetSeatMapFunc: func(ctx context.Context, showtimeID string) (*dto.SeatMapResponse, error) {
			return &dto.SeatMapResponse{
				ShowtimeID: showtimeID,
				Seats: []*dto.SeatResponse{
					{ID: "A1", Label: "A1", Status: string(domain.SeatStatusAvailable)},
					{ID: "A2", Label: "A2", Status: string(domain.SeatStatusBooked)},
				},
			}, nil
		},
	})
	// Seat map is public, no auth middleware
	router := setupTestRouter(handler, "")

	req := httptest.NewRequest(http.MethodGet, "/showtimes/show-001/seats", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp struct {
		Success bool                `json:"success"`
		Data    dto.SeatMapResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Data.Seats) != 2 {
		t.Errorf("expected 2 seats, got %d", len(resp.Data.Seats))
	}
}

func TestBookingHandler_InvalidRequestBody(t *testing.T) {
	handler := NewBookingHandler(&MockBookingService{})
	router := setupTestRouter(handler, "user-123")

	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString("invalid json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if code := decodeErrorCode(t, w.Body.Bytes()); code != "INVALID_REQUEST" {
		t.Errorf("expected code INVALID_REQUEST, got %s", code)
	}
}
