package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// MeterName identifies instruments created by this package
const MeterName = "revticket"

var meterProvider *sdkmetric.MeterProvider

// MetricOpts describes an instrument
type MetricOpts struct {
	Name        string
	Description string
	Unit        string
}

// InitMetrics initializes the global meter provider. Without it,
// instruments fall back to the otel global no-op provider, which is what
// tests want.
func InitMetrics(ctx context.Context, cfg *Config) error {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create metrics resource: %w", err)
	}

	meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithResource(res))
	otel.SetMeterProvider(meterProvider)
	return nil
}

// ShutdownMetrics flushes and stops the meter provider
func ShutdownMetrics(ctx context.Context) error {
	if meterProvider != nil {
		return meterProvider.Shutdown(ctx)
	}
	return nil
}

func meter() metric.Meter {
	return otel.Meter(MeterName)
}

// Counter wraps an Int64 counter
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a counter instrument
func NewCounter(opts MetricOpts) (*Counter, error) {
	c, err := meter().Int64Counter(opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", opts.Name, err)
	}
	return &Counter{counter: c}, nil
}

// Inc increments the counter by one
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Add increments the counter by the given amount
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Histogram wraps a Float64 histogram
type Histogram struct {
	histogram metric.Float64Histogram
}

// NewHistogram creates a histogram instrument
func NewHistogram(opts MetricOpts) (*Histogram, error) {
	h, err := meter().Float64Histogram(opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", opts.Name, err)
	}
	return &Histogram{histogram: h}, nil
}

// NewHistogramWithBuckets creates a histogram with explicit bucket boundaries
func NewHistogramWithBuckets(opts MetricOpts, buckets []float64) (*Histogram, error) {
	h, err := meter().Float64Histogram(opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", opts.Name, err)
	}
	return &Histogram{histogram: h}, nil
}

// Record records a value in the histogram
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// UpDownCounter wraps an Int64 up-down counter
type UpDownCounter struct {
	counter metric.Int64UpDownCounter
}

// NewUpDownCounter creates an up-down counter instrument
func NewUpDownCounter(opts MetricOpts) (*UpDownCounter, error) {
	c, err := meter().Int64UpDownCounter(opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create updown counter %s: %w", opts.Name, err)
	}
	return &UpDownCounter{counter: c}, nil
}

// Inc increments the counter by one
func (c *UpDownCounter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Dec decrements the counter by one
func (c *UpDownCounter) Dec(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, -1, metric.WithAttributes(attrs...))
}

// Add adjusts the counter by the given amount
func (c *UpDownCounter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}
