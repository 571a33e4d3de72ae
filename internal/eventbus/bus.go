// Package eventbus provides the in-process publish/subscribe dispatcher for
// order lifecycle events. Delivery is at-most-once per process lifetime;
// there is no persistence underneath the bus, and everything registered here
// is lost on restart. For durable fan-out this would be replaced with Kafka
// or a similar broker by adopting the outbox pattern.
package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
)

// Handler reacts to a lifecycle event. A handler performs its effect and
// either returns nil or an error; the bus logs failures and never lets them
// reach the publisher or sibling handlers.
type Handler interface {
	Handle(ctx context.Context, event domain.Event) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, event domain.Event) error

func (f HandlerFunc) Handle(ctx context.Context, event domain.Event) error {
	return f(ctx, event)
}

// Subscription identifies one registration and is the capability to undo it.
// Go functions are not comparable, so removal goes through the subscription
// token rather than the handler value itself.
type Subscription struct {
	eventType domain.EventType
	id        uint64
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus dispatches events to registered handlers. All methods are safe for
// concurrent use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[domain.EventType][]registration
	nextID   uint64
	logger   *slog.Logger
	metrics  *Metrics
}

// Option configures a Bus.
type Option func(*Bus)

// WithMetrics attaches dispatch metrics to the bus.
func WithMetrics(metrics *Metrics) Option {
	return func(b *Bus) {
		b.metrics = metrics
	}
}

// New constructs an empty bus.
func New(logger *slog.Logger, opts ...Option) *Bus {
	bus := &Bus{
		handlers: make(map[domain.EventType][]registration),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(bus)
	}
	return bus
}

// Subscribe registers a handler for an event type and returns the
// subscription used to remove it. The same handler may be registered for
// several types, or twice for the same type; each registration is tracked
// separately.
func (b *Bus) Subscribe(eventType domain.EventType, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: b.nextID, handler: handler})

	b.logger.Debug("handler subscribed",
		slog.String("event_type", string(eventType)),
		slog.Int("handler_count", len(b.handlers[eventType])),
	)

	return &Subscription{eventType: eventType, id: b.nextID}
}

// Unsubscribe removes exactly the registration identified by sub. Removing a
// subscription twice is a no-op.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[sub.eventType]
	for i, reg := range regs {
		if reg.id == sub.id {
			b.handlers[sub.eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// RemoveAll clears every handler for the given event types, or for all
// types when none are named.
func (b *Bus) RemoveAll(eventTypes ...domain.EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(eventTypes) == 0 {
		b.handlers = make(map[domain.EventType][]registration)
		return
	}
	for _, eventType := range eventTypes {
		delete(b.handlers, eventType)
	}
}

// ListenerCount returns the number of handlers registered for an event type.
func (b *Bus) ListenerCount(eventType domain.EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Emit builds the event and dispatches it to every handler currently
// registered for its type, each in its own goroutine. It returns only after
// all handlers have settled. The handler set is snapshotted up front, so
// handlers registered during the dispatch do not run in the same dispatch.
//
// A handler that fails or panics is logged and counted; it cannot prevent a
// sibling handler from running and cannot fail the emit itself.
func (b *Bus) Emit(ctx context.Context, eventType domain.EventType, order domain.Order) {
	b.mu.RLock()
	snapshot := make([]registration, len(b.handlers[eventType]))
	copy(snapshot, b.handlers[eventType])
	b.mu.RUnlock()

	event := domain.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Order:     order,
		Timestamp: time.Now().UTC(),
	}

	b.logger.Debug("dispatching event",
		slog.String("event_type", string(eventType)),
		slog.String("event_id", event.ID),
		slog.String("order_id", order.ID),
		slog.Int("handler_count", len(snapshot)),
	)

	start := time.Now()
	var wg sync.WaitGroup
	for _, reg := range snapshot {
		wg.Add(1)
		go func(reg registration) {
			defer wg.Done()
			b.invoke(ctx, reg.handler, event)
		}(reg)
	}
	wg.Wait()

	if b.metrics != nil {
		b.metrics.RecordDispatch(ctx, string(eventType), time.Since(start).Seconds(), len(snapshot))
	}
}

// invoke runs a single handler, converting panics into logged failures.
func (b *Bus) invoke(ctx context.Context, handler Handler, event domain.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			b.recordFailure(ctx, event, fmt.Errorf("handler panic: %v", rec))
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		b.recordFailure(ctx, event, err)
	}
}

func (b *Bus) recordFailure(ctx context.Context, event domain.Event, err error) {
	b.logger.Error("event handler failed",
		slog.String("event_type", string(event.Type)),
		slog.String("event_id", event.ID),
		slog.String("order_id", event.Order.ID),
		slog.Any("error", err),
	)
	if b.metrics != nil {
		b.metrics.RecordHandlerFailure(ctx, string(event.Type))
	}
}
