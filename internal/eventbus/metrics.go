package eventbus

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	dispatchLatency metric.Float64Histogram
	handlerFailures metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.dispatchLatency, err = meter.Float64Histogram(
		"eventbus_dispatch_latency_seconds",
		metric.WithDescription("Time spent fanning an event out to all of its handlers"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create eventbus_dispatch_latency histogram: %w", err)
	}

	m.handlerFailures, err = meter.Int64Counter(
		"eventbus_handler_failures_total",
		metric.WithDescription("Total number of handler errors and panics caught by the bus"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create eventbus_handler_failures counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordDispatch(ctx context.Context, eventType string, durationSeconds float64, handlerCount int) {
	m.dispatchLatency.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.Int("handler_count", handlerCount),
	))
}

func (m *Metrics) RecordHandlerFailure(ctx context.Context, eventType string) {
	m.handlerFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
	))
}
