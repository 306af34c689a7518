package provider

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/KKamx0/TREMM/internal/provider"

// Metrics records provider request timings and lookup outcomes.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	lookupOutcomes  metric.Int64Counter
}

// NewMetrics creates the provider instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	requestDuration, err := meter.Float64Histogram(
		"provider.request.duration",
		metric.WithDescription("Duration of provider requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"provider.request.total",
		metric.WithDescription("Total number of provider requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	lookupOutcomes, err := meter.Int64Counter(
		"weather.lookup.total",
		metric.WithDescription("Weather lookups by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		lookupOutcomes:  lookupOutcomes,
	}, nil
}

// RecordRequest records one provider call. A nil receiver is a no-op.
func (m *Metrics) RecordRequest(ctx context.Context, providerName, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("provider.name", providerName),
		attribute.String("provider.operation", operation),
	}
	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}

	// Detached from ctx so an abandoned call still gets counted.
	ctx = context.WithoutCancel(ctx)
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordOutcome counts a finished lookup ("ok", "not_found", "ambiguous",
// "error"). A nil receiver is a no-op.
func (m *Metrics) RecordOutcome(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.lookupOutcomes.Add(context.WithoutCancel(ctx), 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))
}
