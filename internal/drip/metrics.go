package drip

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	emailsScheduled metric.Int64Counter
	emailsSent      metric.Int64Counter
	sendFailures    metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.emailsScheduled, err = meter.Int64Counter(
		"drip_emails_scheduled_total",
		metric.WithDescription("Total number of drip emails scheduled"),
		metric.WithUnit("{email}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create drip_emails_scheduled counter: %w", err)
	}

	m.emailsSent, err = meter.Int64Counter(
		"drip_emails_sent_total",
		metric.WithDescription("Total number of drip emails sent"),
		metric.WithUnit("{email}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create drip_emails_sent counter: %w", err)
	}

	m.sendFailures, err = meter.Int64Counter(
		"drip_send_failures_total",
		metric.WithDescription("Total number of drip email send failures"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create drip_send_failures counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordScheduled(ctx context.Context, count int) {
	m.emailsScheduled.Add(ctx, int64(count))
}

func (m *Metrics) RecordSent(ctx context.Context, stage string) {
	m.emailsSent.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
	))
}

func (m *Metrics) RecordSendFailure(ctx context.Context, stage string) {
	m.sendFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
	))
}
