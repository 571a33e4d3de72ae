package adapters

import (
	"context"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
	"github.com/dejobratic/orderpulse/internal/orders/ports"
	"github.com/dejobratic/orderpulse/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ObservableEventBus wraps an event bus with a dispatch span so notification
// handler work shows up under the command that triggered it.
type ObservableEventBus struct {
	bus ports.EventBus
}

func NewObservableEventBus(bus ports.EventBus) *ObservableEventBus {
	return &ObservableEventBus{bus: bus}
}

func (e *ObservableEventBus) Emit(ctx context.Context, eventType domain.EventType, order domain.Order) {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.Emit")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("event.type", string(eventType)),
	)

	e.bus.Emit(ctx, eventType, order)

	telemetry.SetSpanSuccess(span)
}
