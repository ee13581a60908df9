package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/harshWarbhe/revticket/internal/domain"
)

// NotificationClient delivers booking notifications over HTTP to the
// notification service. Callers treat delivery as best-effort.
type NotificationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNotificationClient creates a new notification client
func NewNotificationClient(baseURL string, timeout time.Duration) *NotificationClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NotificationClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type notificationPayload struct {
	BookingID     string   `json:"booking_id"`
	UserID        string   `json:"user_id"`
	ShowtimeID    string   `json:"showtime_id"`
	SeatLabels    []string `json:"seat_labels,omitempty"`
	TotalPrice    float64  `json:"total_price"`
	CustomerEmail string   `json:"customer_email,omitempty"`
}

// SendBookingConfirmation notifies the customer of a confirmed booking
func (c *NotificationClient) SendBookingConfirmation(ctx context.Context, booking *domain.Booking) error {
	return c.post(ctx, "/api/v1/notifications/booking-confirmation", booking)
}

// SendAdminAlert notifies operations of a new booking
func (c *NotificationClient) SendAdminAlert(ctx context.Context, booking *domain.Booking) error {
	return c.post(ctx, "/api/v1/notifications/admin-alert", booking)
}

func (c *NotificationClient) post(ctx context.Context, path string, booking *domain.Booking) error {
	payload := notificationPayload{
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		ShowtimeID:    booking.ShowtimeID,
		SeatLabels:    booking.SeatLabels,
		TotalPrice:    booking.TotalPrice,
		CustomerEmail: booking.CustomerEmail,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	return nil
}
