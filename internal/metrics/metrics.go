package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/harshWarbhe/revticket/pkg/telemetry"
)

var (
	// Booking counters
	BookingsConfirmed *telemetry.Counter
	BookingsFailed    *telemetry.Counter
	BookingsCancelled *telemetry.Counter

	// Seat claim counters
	SeatConflicts      *telemetry.Counter
	ReleaseEscalations *telemetry.Counter

	// Aggregation counters
	DegradedSources *telemetry.Counter

	// Histograms
	BookingDuration *telemetry.Histogram

	// Gauges
	StuckSeatQueueDepth *telemetry.UpDownCounter

	initOnce sync.Once
	initErr  error
)

// Init initializes all booking metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	BookingsConfirmed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_confirmations_total",
		Description: "Total number of bookings confirmed",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_failures_total",
		Description: "Total number of failed bookings",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsCancelled, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_cancellations_total",
		Description: "Total number of cancelled bookings",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	SeatConflicts, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "seat_claim_conflicts_total",
		Description: "Total number of seat claims lost to a concurrent booking",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	ReleaseEscalations, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "seat_release_escalations_total",
		Description: "Total number of seat releases that exhausted their retries",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	DegradedSources, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "aggregation_degraded_sources_total",
		Description: "Total number of aggregation sources that fell back to defaults",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingDuration, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "booking_create_duration_seconds",
		Description: "End-to-end duration of booking creation",
		Unit:        "s",
	}, []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5})
	if err != nil {
		return err
	}

	StuckSeatQueueDepth, err = telemetry.NewUpDownCounter(telemetry.MetricOpts{
		Name:        "stuck_seat_queue_depth",
		Description: "Current number of seat releases awaiting retry",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	return nil
}

// RecordConfirmation records a confirmed booking
func RecordConfirmation(ctx context.Context, showtimeID string, seats int, durationSeconds float64) {
	if BookingsConfirmed != nil {
		BookingsConfirmed.Inc(ctx,
			attribute.String("showtime_id", showtimeID),
			attribute.Int("seats", seats),
		)
	}
	if BookingDuration != nil {
		BookingDuration.Record(ctx, durationSeconds,
			attribute.String("showtime_id", showtimeID),
		)
	}
}

// RecordFailure records a failed booking
func RecordFailure(ctx context.Context, showtimeID, reason string) {
	if BookingsFailed != nil {
		BookingsFailed.Inc(ctx,
			attribute.String("showtime_id", showtimeID),
			attribute.String("reason", reason),
		)
	}
}

// RecordCancellation records a cancelled booking
func RecordCancellation(ctx context.Context, showtimeID string) {
	if BookingsCancelled != nil {
		BookingsCancelled.Inc(ctx,
			attribute.String("showtime_id", showtimeID),
		)
	}
}

// RecordSeatConflict records a claim lost to a concurrent booking
func RecordSeatConflict(ctx context.Context, showtimeID, seatID string) {
	if SeatConflicts != nil {
		SeatConflicts.Inc(ctx,
			attribute.String("showtime_id", showtimeID),
			attribute.String("seat_id", seatID),
		)
	}
}

// RecordReleaseEscalation records a compensation that exhausted its retries
func RecordReleaseEscalation(ctx context.Context, showtimeID string, seats int) {
	if ReleaseEscalations != nil {
		ReleaseEscalations.Inc(ctx,
			attribute.String("showtime_id", showtimeID),
			attribute.Int("seats", seats),
		)
	}
	if StuckSeatQueueDepth != nil {
		StuckSeatQueueDepth.Inc(ctx)
	}
}

// RecordStuckSeatDrained records a queued release finally succeeding
func RecordStuckSeatDrained(ctx context.Context) {
	if StuckSeatQueueDepth != nil {
		StuckSeatQueueDepth.Dec(ctx)
	}
}

// RecordDegradedSource records an aggregation source falling back
func RecordDegradedSource(ctx context.Context, aggregation, source string) {
	if DegradedSources != nil {
		DegradedSources.Inc(ctx,
			attribute.String("aggregation", aggregation),
			attribute.String("source", source),
		)
	}
}
