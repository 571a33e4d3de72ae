package ports

import (
	"context"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
)

// EventBus defines the contract for publishing order lifecycle events.
// Emit returns only after every handler registered for the event type has
// finished; handler failures are isolated inside the bus and never surface
// to the publisher.
type EventBus interface {
	Emit(ctx context.Context, eventType domain.EventType, order domain.Order)
}
