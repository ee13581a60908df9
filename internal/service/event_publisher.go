package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/harshWarbhe/revticket/internal/domain"
)

// EventPublisher defines the interface for publishing booking events
type EventPublisher interface {
	// PublishBookingConfirmed publishes a booking confirmed event
	PublishBookingConfirmed(ctx context.Context, booking *domain.Booking) error

	// PublishBookingCancelled publishes a booking cancelled event
	PublishBookingCancelled(ctx context.Context, booking *domain.Booking) error

	// PublishPaymentAttached publishes a payment attached event
	PublishPaymentAttached(ctx context.Context, booking *domain.Booking) error

	// Close closes the event publisher
	Close() error
}

// KafkaEventPublisher implements EventPublisher using kafka-go
type KafkaEventPublisher struct {
	writer      *kafka.Writer
	serviceName string
}

// EventPublisherConfig contains configuration for the event publisher
type EventPublisherConfig struct {
	Brokers     []string
	Topic       string
	ServiceName string
	ClientID    string
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(cfg *EventPublisherConfig) (*KafkaEventPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("event publisher config is required")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = "booking-events"
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "revticket"
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaEventPublisher{
		writer:      writer,
		serviceName: serviceName,
	}, nil
}

// PublishBookingConfirmed publishes a booking confirmed event
func (p *KafkaEventPublisher) PublishBookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	return p.publishEvent(ctx, domain.BookingEventConfirmed, booking)
}

// PublishBookingCancelled publishes a booking cancelled event
func (p *KafkaEventPublisher) PublishBookingCancelled(ctx context.Context, booking *domain.Booking) error {
	return p.publishEvent(ctx, domain.BookingEventCancelled, booking)
}

// PublishPaymentAttached publishes a payment attached event
func (p *KafkaEventPublisher) PublishPaymentAttached(ctx context.Context, booking *domain.Booking) error {
	return p.publishEvent(ctx, domain.BookingEventPaymentAttached, booking)
}

// Close closes the event publisher
func (p *KafkaEventPublisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

func (p *KafkaEventPublisher) publishEvent(ctx context.Context, eventType domain.BookingEventType, booking *domain.Booking) error {
	eventID := uuid.New().String()
	event := domain.NewBookingEvent(eventType, booking, eventID)

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Key()),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "event_id", Value: []byte(eventID)},
			{Key: "source", Value: []byte(p.serviceName)},
			{Key: "content_type", Value: []byte("application/json")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	return nil
}

// NoOpEventPublisher is a no-op implementation of EventPublisher for
// testing and for deployments without a broker
type NoOpEventPublisher struct{}

// NewNoOpEventPublisher creates a new no-op event publisher
func NewNoOpEventPublisher() *NoOpEventPublisher {
	return &NoOpEventPublisher{}
}

// PublishBookingConfirmed is a no-op
func (p *NoOpEventPublisher) PublishBookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	return nil
}

// PublishBookingCancelled is a no-op
func (p *NoOpEventPublisher) PublishBookingCancelled(ctx context.Context, booking *domain.Booking) error {
	return nil
}

// PublishPaymentAttached is a no-op
func (p *NoOpEventPublisher) PublishPaymentAttached(ctx context.Context, booking *domain.Booking) error {
	return nil
}

// Close is a no-op
func (p *NoOpEventPublisher) Close() error {
	return nil
}
