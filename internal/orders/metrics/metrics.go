package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	ordersCreatedTotal metric.Int64Counter
	transitionsTotal   metric.Int64Counter
	operationDuration  metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.ordersCreatedTotal, err = meter.Int64Counter(
		"orders_created_total",
		metric.WithDescription("Total number of orders created"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_created_total counter: %w", err)
	}

	m.transitionsTotal, err = meter.Int64Counter(
		"order_transitions_total",
		metric.WithDescription("Total number of order lifecycle transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_transitions_total counter: %w", err)
	}

	m.operationDuration, err = meter.Float64Histogram(
		"order_operation_duration_seconds",
		metric.WithDescription("Duration of order lifecycle operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_operation_duration histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordOrderCreated(ctx context.Context, success bool) {
	m.ordersCreatedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", statusLabel(success)),
	))
}

func (m *Metrics) RecordTransition(ctx context.Context, toStatus string, success bool) {
	m.transitionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("to_status", toStatus),
		attribute.String("status", statusLabel(success)),
	))
}

func (m *Metrics) RecordOperationDuration(ctx context.Context, operation string, durationSeconds float64) {
	m.operationDuration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
