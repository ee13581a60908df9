package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harshWarbhe/revticket/internal/domain"
	"github.com/harshWarbhe/revticket/internal/dto"
)

// MockBookingRepository is a mock implementation of BookingRepository
type MockBookingRepository struct {
	CreateFunc              func(ctx context.Context, booking *domain.Booking) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Booking, error)
	GetByUserIDFunc         func(ctx context.Context, userID string, limit, offset int) ([]*domain.Booking, error)
	GetByIdempotencyKeyFunc func(ctx context.Context, key string) (*domain.Booking, error)
	UpdateStatusFunc        func(ctx context.Context, id string, status domain.BookingStatus) error
	AttachPaymentFunc       func(ctx context.Context, id, transactionID string) error
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, booking)
	}
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Booking, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID, limit, offset)
	}
	return []*domain.Booking{}, nil
}

func (m *MockBookingRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error) {
	if m.GetByIdempotencyKeyFunc != nil {
		return m.GetByIdempotencyKeyFunc(ctx, key)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockBookingRepository) AttachPayment(ctx context.Context, id, transactionID string) error {
	if m.AttachPaymentFunc != nil {
		return m.AttachPaymentFunc(ctx, id, transactionID)
	}
	return nil
}

// MockSeatRepository is a mock implementation of SeatRepository
type MockSeatRepository struct {
	GetByShowtimeFunc func(ctx context.Context, showtimeID string) ([]*domain.Seat, error)
	GetSeatFunc       func(ctx context.Context, showtimeID, seatID string) (*domain.Seat, error)
	ClaimFunc         func(ctx context.Context, showtimeID, seatID string, version int) (bool, error)
	ReleaseFunc       func(ctx context.Context, showtimeID, seatID string) error
	CreateSeatsFunc   func(ctx context.Context, seats []*domain.Seat) error
	GetPricesFunc     func(ctx context.Context, showtimeID string) (domain.PriceList, error)
	SetPricesFunc     func(ctx context.Context, showtimeID string, prices domain.PriceList) error
}

func (m *MockSeatRepository) GetByShowtime(ctx context.Context, showtimeID string) ([]*domain.Seat, error) {
	if m.GetByShowtimeFunc != nil {
		return m.GetByShowtimeFunc(ctx, showtimeID)
	}
	return []*domain.Seat{}, nil
}

func (m *MockSeatRepository) GetSeat(ctx context.Context, showtimeID, seatID string) (*domain.Seat, error) {
	if m.GetSeatFunc != nil {
		return m.GetSeatFunc(ctx, showtimeID, seatID)
	}
	return &domain.Seat{ID: seatID, ShowtimeID: showtimeID, Label: seatID, Status: domain.SeatStatusAvailable}, nil
}

func (m *MockSeatRepository) Claim(ctx context.Context, showtimeID, seatID string, version int) (bool, error) {
	if m.ClaimFunc != nil {
		return m.ClaimFunc(ctx, showtimeID, seatID, version)
	}
	return true, nil
}

func (m *MockSeatRepository) Release(ctx context.Context, showtimeID, seatID string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, showtimeID, seatID)
	}
	return nil
}

func (m *MockSeatRepository) CreateSeats(ctx context.Context, seats []*domain.Seat) error {
	if m.CreateSeatsFunc != nil {
		return m.CreateSeatsFunc(ctx, seats)
	}
	return nil
}

func (m *MockSeatRepository) GetPrices(ctx context.Context, showtimeID string) (domain.PriceList, error) {
	if m.GetPricesFunc != nil {
		return m.GetPricesFunc(ctx, showtimeID)
	}
	return domain.PriceList{}, nil
}

func (m *MockSeatRepository) SetPrices(ctx context.Context, showtimeID string, prices domain.PriceList) error {
	if m.SetPricesFunc != nil {
		return m.SetPricesFunc(ctx, showtimeID, prices)
	}
	return nil
}

// MockInventory is a mock implementation of the seat claim engine
type MockInventory struct {
	TryClaimFunc func(ctx context.Context, showtimeID string, seatIDs []string) error
	ReleaseFunc  func(ctx context.Context, showtimeID string, seatIDs []string) error
	SnapshotFunc func(ctx context.Context, showtimeID string) ([]*domain.Seat, error)
}

func (m *MockInventory) TryClaim(ctx context.Context, showtimeID string, seatIDs []string) error {
	if m.TryClaimFunc != nil {
		return m.TryClaimFunc(ctx, showtimeID, seatIDs)
	}
	return nil
}

func (m *MockInventory) Release(ctx context.Context, showtimeID string, seatIDs []string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, showtimeID, seatIDs)
	}
	return nil
}

func (m *MockInventory) Snapshot(ctx context.Context, showtimeID string) ([]*domain.Seat, error) {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(ctx, showtimeID)
	}
	return []*domain.Seat{}, nil
}

// MockReleaseQueue is a mock implementation of ReleaseQueue
type MockReleaseQueue struct {
	EnqueueFunc func(ctx context.Context, task *domain.ReleaseTask) error
	DequeueFunc func(ctx context.Context) (*domain.ReleaseTask, error)
	LenFunc     func(ctx context.Context) (int64, error)
}

func (m *MockReleaseQueue) Enqueue(ctx context.Context, task *domain.ReleaseTask) error {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, task)
	}
	return nil
}

func (m *MockReleaseQueue) Dequeue(ctx context.Context) (*domain.ReleaseTask, error) {
	if m.DequeueFunc != nil {
		return m.DequeueFunc(ctx)
	}
	return nil, nil
}

func (m *MockReleaseQueue) Len(ctx context.Context) (int64, error) {
	if m.LenFunc != nil {
		return m.LenFunc(ctx)
	}
	return 0, nil
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	SendBookingConfirmationFunc func(ctx context.Context, booking *domain.Booking) error
	SendAdminAlertFunc          func(ctx context.Context, booking *domain.Booking) error
}

func (m *MockNotifier) SendBookingConfirmation(ctx context.Context, booking *domain.Booking) error {
	if m.SendBookingConfirmationFunc != nil {
		return m.SendBookingConfirmationFunc(ctx, booking)
	}
	return nil
}

func (m *MockNotifier) SendAdminAlert(ctx context.Context, booking *domain.Booking) error {
	if m.SendAdminAlertFunc != nil {
		return m.SendAdminAlertFunc(ctx, booking)
	}
	return nil
}

func newTestBookingService(
	br *MockBookingRepository,
	sr *MockSeatRepository,
	inv *MockInventory,
	q *MockReleaseQueue,
	n *MockNotifier,
) BookingService {
	var notifier Notifier
	if n != nil {
		notifier = n
	}
	return NewBookingService(br, sr, inv, q, NewNoOpEventPublisher(), notifier, &BookingServiceConfig{
		ReleaseRetries:       1,
		ReleaseRetryInterval: time.Millisecond,
		NotifyTimeout:        50 * time.Millisecond,
		NotifyRetries:        0,
	})
}

func TestBookingService_CreateBooking(t *testing.T) {
	prices := domain.PriceList{"A1": 120.0, "A2": 150.0, "B5": 90.0}

	tests := []struct {
		name       string
		userID     string
		req        *dto.CreateBookingRequest
		setupMocks func(*MockBookingRepository, *MockSeatRepository, *MockInventory, *MockReleaseQueue)
		wantErr    error
		wantTotal  float64
	}{
		{
			name:   "successful booking confirms with summed price",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				ShowtimeID: "show-001",
				SeatIDs:    []string{"A1", "A2"},
			},
			setupMocks: func(br *MockBookingRepository, sr *MockSeatRepository, inv *MockInventory, q *MockReleaseQueue) {
				sr.GetPricesFunc = func(ctx context.Context, showtimeID string) (domain.PriceList, error) {
					return prices, nil
				}
			},
			wantTotal: 270.0,
		},
		{
			name:   "missing user id",
			userID: "",
			req: &dto.CreateBookingRequest{
				ShowtimeID: "show-001",
				SeatIDs:    []string{"A1"},
			},
			wantErr: domain.ErrInvalidUserID,
		},
		{
			name:    "missing showtime id",
			userID:  "user-001",
			req:     &dto.CreateBookingRequest{SeatIDs: []string{"A1"}},
			wantErr: domain.ErrInvalidShowtimeID,
		},
		{
			name:    "empty seat list",
			userID:  "user-001",
			req:     &dto.CreateBookingRequest{ShowtimeID: "show-001"},
			wantErr: domain.ErrInvalidSeats,
		},
		{
			name:   "duplicate seats",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				ShowtimeID: "show-001",
				SeatIDs:    []string{"A1", "A1"},
			},
			wantErr: domain.ErrInvalidSeats,
		},
		{
			name:   "seat conflict surfaces the losing seat",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				ShowtimeID: "show-001",
				SeatIDs:    []string{"A1", "A2"},
			},
			setupMocks: func(br *MockBookingRepository, sr *MockSeatRepository, inv *MockInventory, q *MockReleaseQueue) {
				inv.TryClaimFunc = func(ctx context.Context, showtimeID string, seatIDs []string) error {
					return &domain.SeatUnavailableError{SeatID: "A1"}
				}
				br.CreateFunc = func(ctx context.Context, booking *domain.Booking) error {
					t.Error("booking must not be persisted when the claim fails")
					return nil
				}
			},
			wantErr: &domain.SeatUnavailableError{SeatID: "A1"},
		},
		{
			name:   "missing price releases the claim",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				ShowtimeID: "show-001",
				SeatIDs:    []string{"A1", "Z9"},
			},
			setupMocks: func(br *MockBookingRepository, sr *MockSeatRepository, inv *MockInventory, q *MockReleaseQueue) {
				sr.GetPricesFunc = func(ctx context.Context, showtimeID string) (domain.PriceList, error) {
					return prices, nil
				}
				br.CreateFunc = func(ctx context.Context, booking *domain.Booking) error {
					t.Error("booking must not be persisted when pricing fails")
					return nil
				}
			},
			wantErr: domain.ErrSeatNotPriced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingRepo := &MockBookingRepository{}
			seatRepo := &MockSeatRepository{}
			inv := &MockInventory{}
			queue := &MockReleaseQueue{}

			if tt.setupMocks != nil {
				tt.setupMocks(bookingRepo, seatRepo, inv, queue)
			}

			svc := newTestBookingService(bookingRepo, seatRepo, inv, queue, nil)
			resp, err := svc.CreateBooking(context.Background(), tt.userID, tt.req)

			if tt.wantErr != nil {
				var wantUnavailable *domain.SeatUnavailableError
				if errors.As(tt.wantErr, &wantUnavailable) {
					var got *domain.SeatUnavailableError
					if !errors.As(err, &got) || got.SeatID != wantUnavailable.SeatID {
						t.Errorf("CreateBooking() error = %v, want seat %s unavailable", err, wantUnavailable.SeatID)
					}
					return
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateBooking() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("CreateBooking() unexpected error = %v", err)
			}
			if resp.Status != string(domain.BookingStatusConfirmed) {
				t.Errorf("CreateBooking() status = %s, want CONFIRMED", resp.Status)
			}
			if resp.TotalPrice != tt.wantTotal {
				t.Errorf("CreateBooking() total = %.2f, want %.2f", resp.TotalPrice, tt.wantTotal)
			}
		})
	}
}

func TestBookingService_CreateBooking_MissingPriceReleasesSeats(t *testing.T) {
	released := false
	inv := &MockInventory{
		ReleaseFunc: func(ctx context.Context, showtimeID string, seatIDs []string) error {
			released = true
			return nil
		},
	}
	seatRepo := &MockSeatRepository{
		GetPricesFunc: func(ctx context.Context, showtimeID string) (domain.PriceList, error) {
			return domain.PriceList{}, nil
		},
	}

	svc := newTestBookingService(&MockBookingRepository{}, seatRepo, inv, &MockReleaseQueue{}, nil)
	_, err := svc.CreateBooking(context.Background(), "user-001", &dto.CreateBookingRequest{
		ShowtimeID: "show-001",
		SeatIDs:    []string{"A1"},
	})

	if !errors.Is(err, domain.ErrSeatNotPriced) {
		t.Fatalf("CreateBooking() error = %v, want ErrSeatNotPriced", err)
	}
	if !released {
		t.Error("claimed seats must be released when pricing fails")
	}
}

func TestBookingService_CreateBooking_PersistenceFailureReleasesSeats(t *testing.T) {
	released := false
	inv := &MockInventory{
		ReleaseFunc: func(ctx context.Context, showtimeID string, seatIDs []string) error {
			released = true
			return nil
		},
	}
	seatRepo := &MockSeatRepository{
		GetPricesFunc: func(ctx context.Context, showtimeID string) (domain.PriceList, error) {
			return domain.PriceList{"A1": 100}, nil
		},
	}
	dbErr := errors.New("connection reset")
	bookingRepo := &MockBookingRepository{
		CreateFunc: func(ctx context.Context, booking *domain.Booking) error {
			return dbErr
		},
	}

	svc := newTestBookingService(bookingRepo, seatRepo, inv, &MockReleaseQueue{}, nil)
	_, err := svc.CreateBooking(context.Background(), "user-001", &dto.CreateBookingRequest{
		ShowtimeID: "show-001",
		SeatIDs:    []string{"A1"},
	})

	if !errors.Is(err, dbErr) {
		t.Fatalf("CreateBooking() error = %v, want persistence error", err)
	}
	if !released {
		t.Error("claimed seats must be released when persistence fails")
	}
}

func TestBookingService_CreateBooking_ReleaseExhaustionEscalates(t *testing.T) {
	var enqueued *domain.ReleaseTask
	inv := &MockInventory{
		ReleaseFunc: func(ctx context.Context, showtimeID string, seatIDs []string) error {
			return errors.New("redis down")
		},
	}
	queue := &MockReleaseQueue{
		EnqueueFunc: func(ctx context.Context, task *domain.ReleaseTask) error {
			enqueued = task
			return nil
		},
	}
	seatRepo := &MockSeatRepository{
		GetPricesFunc: func(ctx context.Context, showtimeID string) (domain.PriceList, error) {
			return domain.PriceList{"A1": 100}, nil
		},
	}
	bookingRepo := &MockBookingRepository{
		CreateFunc: func(ctx context.Context, booking *domain.Booking) error {
			return errors.New("insert failed")
		},
	}

	svc := newTestBookingService(bookingRepo, seatRepo, inv, queue, nil)
	_, err := svc.CreateBooking(context.Background(), "user-001", &dto.CreateBookingRequest{
		ShowtimeID: "show-001",
		SeatIDs:    []string{"A1"},
	})

	if err == nil {
		t.Fatal("CreateBooking() must fail when persistence fails")
	}
	if enqueued == nil {
		t.Fatal("exhausted release must be parked on the queue")
	}
	if enqueued.ShowtimeID != "show-001" || len(enqueued.SeatIDs) != 1 || enqueued.SeatIDs[0] != "A1" {
		t.Errorf("queued task = %+v, want show-001/A1", enqueued)
	}
}

func TestBookingService_CreateBooking_IdempotentReplay(t *testing.T) {
	existing := &domain.Booking{
		ID:         "booking-123",
		UserID:     "user-001",
		ShowtimeID: "show-001",
		SeatIDs:    []string{"A1"},
		TotalPrice: 120.0,
		Status:     domain.BookingStatusConfirmed,
	}
	bookingRepo := &MockBookingRepository{
		GetByIdempotencyKeyFunc: func(ctx context.Context, key string) (*domain.Booking, error) {
			return existing, nil
		},
	}
	inv := &MockInventory{
		TryClaimFunc: func(ctx context.Context, showtimeID string, seatIDs []string) error {
			t.Error("idempotent replay must not claim seats again")
			return nil
		},
	}

	svc := newTestBookingService(bookingRepo, &MockSeatRepository{}, inv, &MockReleaseQueue{}, nil)
	resp, err := svc.CreateBooking(context.Background(), "user-001", &dto.CreateBookingRequest{
		ShowtimeID:     "show-001",
		SeatIDs:        []string{"A1"},
		IdempotencyKey: "key-123",
	})

	if err != nil {
		t.Fatalf("CreateBooking() unexpected error = %v", err)
	}
	if resp.ID != "booking-123" {
		t.Errorf("CreateBooking() id = %s, want booking-123", resp.ID)
	}
}

func TestBookingService_CreateBooking_CancelledKeyIsNotReplayed(t *testing.T) {
	cancelled := &domain.Booking{
		ID:         "booking-old",
		UserID:     "user-001",
		ShowtimeID: "show-001",
		SeatIDs:    []string{"A1"},
		Status:     domain.BookingStatusCancelled,
	}
	bookingRepo := &MockBookingRepository{
		GetByIdempotencyKeyFunc: func(ctx context.Context, key string) (*domain.Booking, error) {
			return cancelled, nil
		},
	}
	claimCalled := false
	inv := &MockInventory{
		TryClaimFunc: func(ctx context.Context, showtimeID string, seatIDs []string) error {
			claimCalled = true
			return nil
		},
	}
	seatRepo := &MockSeatRepository{
		GetPricesFunc: func(ctx context.Context, showtimeID string) (domain.PriceList, error) {
			return domain.PriceList{"A1": 120}, nil
		},
	}

	svc := newTestBookingService(bookingRepo, seatRepo, inv, &MockReleaseQueue{}, nil)
	resp, err := svc.CreateBooking(context.Background(), "user-001", &dto.CreateBookingRequest{
		ShowtimeID:     "show-001",
		SeatIDs:        []string{"A1"},
		IdempotencyKey: "key-123",
	})

	if err != nil {
		t.Fatalf("CreateBooking() unexpected error = %v", err)
	}
	if !claimCalled {
		t.Error("retry under a cancelled booking's key must claim seats afresh")
	}
	if resp.ID == cancelled.ID {
		t.Error("cancelled booking must not be replayed")
	}
	if resp.Status != string(domain.BookingStatusConfirmed) {
		t.Errorf("CreateBooking() status = %s, want CONFIRMED", resp.Status)
	}
}

func TestBookingService_CreateBooking_NotifyFailureIsSwallowed(t *testing.T) {
	notifier := &MockNotifier{
		SendBookingConfirmationFunc: func(ctx context.Context, booking *domain.Booking) error {
			return errors.New("smtp timeout")
		},
		SendAdminAlertFunc: func(ctx context.Context, booking *domain.Booking) error {
			return errors.New("webhook 500")
		},
	}
	seatRepo := &MockSeatRepository{
		GetPricesFunc: func(ctx context.Context, showtimeID string) (domain.PriceList, error) {
			return domain.PriceList{"A1": 100}, nil
		},
	}

	svc := newTestBookingService(&MockBookingRepository{}, seatRepo, &MockInventory{}, &MockReleaseQueue{}, notifier)
	resp, err := svc.CreateBooking(context.Background(), "user-001", &dto.CreateBookingRequest{
		ShowtimeID: "show-001",
		SeatIDs:    []string{"A1"},
	})

	if err != nil {
		t.Fatalf("CreateBooking() failed on notification error: %v", err)
	}
	if resp.Status != string(domain.BookingStatusConfirmed) {
		t.Errorf("CreateBooking() status = %s, want CONFIRMED", resp.Status)
	}
}

func TestBookingService_AttachPayment(t *testing.T) {
	confirmed := &domain.Booking{
		ID:     "booking-123",
		UserID: "user-001",
		Status: domain.BookingStatusConfirmed,
	}
	cancelled := &domain.Booking{
		ID:     "booking-456",
		UserID: "user-001",
		Status: domain.BookingStatusCancelled,
	}

	tests := []struct {
		name          string
		bookingID     string
		userID        string
		transactionID string
		booking       *domain.Booking
		wantErr       error
	}{
		{
			name:          "attaches transaction",
			bookingID:     "booking-123",
			userID:        "user-001",
			transactionID: "txn-789",
			booking:       confirmed,
		},
		{
			name:          "rejects empty transaction",
			bookingID:     "booking-123",
			userID:        "user-001",
			transactionID: "",
			booking:       confirmed,
			wantErr:       domain.ErrInvalidPayment,
		},
		{
			name:          "rejects cancelled booking",
			bookingID:     "booking-456",
			userID:        "user-001",
			transactionID: "txn-789",
			booking:       cancelled,
			wantErr:       domain.ErrAlreadyCancelled,
		},
		{
			name:          "rejects other user's booking",
			bookingID:     "booking-123",
			userID:        "user-999",
			transactionID: "txn-789",
			booking:       confirmed,
			wantErr:       domain.ErrInvalidUserID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingRepo := &MockBookingRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
					b := *tt.booking
					return &b, nil
				},
			}

			svc := newTestBookingService(bookingRepo, &MockSeatRepository{}, &MockInventory{}, &MockReleaseQueue{}, nil)
			resp, err := svc.AttachPayment(context.Background(), tt.bookingID, tt.userID, tt.transactionID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("AttachPayment() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AttachPayment() unexpected error = %v", err)
			}
			if resp.TransactionID != tt.transactionID {
				t.Errorf("AttachPayment() transaction = %s, want %s", resp.TransactionID, tt.transactionID)
			}
		})
	}
}

func TestBookingService_CancelBooking(t *testing.T) {
	released := false
	inv := &MockInventory{
		ReleaseFunc: func(ctx context.Context, showtimeID string, seatIDs []string) error {
			released = true
			return nil
		},
	}
	bookingRepo := &MockBookingRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
			return &domain.Booking{
				ID:         id,
				UserID:     "user-001",
				ShowtimeID: "show-001",
				SeatIDs:    []string{"A1", "A2"},
				Status:     domain.BookingStatusConfirmed,
			}, nil
		},
	}

	svc := newTestBookingService(bookingRepo, &MockSeatRepository{}, inv, &MockReleaseQueue{}, nil)
	resp, err := svc.CancelBooking(context.Background(), "booking-123", "user-001")

	if err != nil {
		t.Fatalf("CancelBooking() unexpected error = %v", err)
	}
	if resp.Status != string(domain.BookingStatusCancelled) {
		t.Errorf("CancelBooking() status = %s, want CANCELLED", resp.Status)
	}
	if !released {
		t.Error("cancellation must release the booked seats")
	}
}

func TestBookingService_CancelBooking_AlreadyCancelled(t *testing.T) {
	bookingRepo := &MockBookingRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
			return &domain.Booking{
				ID:     id,
				UserID: "user-001",
				Status: domain.BookingStatusCancelled,
			}, nil
		},
	}

	svc := newTestBookingService(bookingRepo, &MockSeatRepository{}, &MockInventory{}, &MockReleaseQueue{}, nil)
	_, err := svc.CancelBooking(context.Background(), "booking-123", "user-001")

	if !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Errorf("CancelBooking() error = %v, want ErrAlreadyCancelled", err)
	}
}

func TestBookingService_GetUserBookings_ClampsPagination(t *testing.T) {
	var gotLimit, gotOffset int
	bookingRepo := &MockBookingRepository{
		GetByUserIDFunc: func(ctx context.Context, userID string, limit, offset int) ([]*domain.Booking, error) {
			gotLimit, gotOffset = limit, offset
			return []*domain.Booking{}, nil
		},
	}

	svc := newTestBookingService(bookingRepo, &MockSeatRepository{}, &MockInventory{}, &MockReleaseQueue{}, nil)
	resp, err := svc.GetUserBookings(context.Background(), "user-001", -3, 5000)

	if err != nil {
		t.Fatalf("GetUserBookings() unexpected error = %v", err)
	}
	if gotLimit != 20 || gotOffset != 0 {
		t.Errorf("GetUserBookings() limit=%d offset=%d, want 20/0", gotLimit, gotOffset)
	}
	if resp.Page != 1 || resp.PageSize != 20 {
		t.Errorf("GetUserBookings() page=%d size=%d, want 1/20", resp.Page, resp.PageSize)
	}
}
