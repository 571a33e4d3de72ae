package domain

import "time"

// EventType identifies a lifecycle event emitted on the bus.
type EventType string

const (
	EventOrderCreated   EventType = "order.created"
	EventOrderPaid      EventType = "order.paid"
	EventOrderCompleted EventType = "order.completed"
)

// EventFor returns the event type emitted when an order enters status.
func EventFor(status OrderStatus) EventType {
	switch status {
	case StatusPaid:
		return EventOrderPaid
	case StatusCompleted:
		return EventOrderCompleted
	default:
		return EventOrderCreated
	}
}

// Event is a lifecycle notification. It carries the order value as it was at
// the moment of emission; the ID and timestamp are stamped by the bus, not
// the caller. Events are not persisted and exist only for the duration of a
// dispatch.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Order     Order     `json:"order"`
	Timestamp time.Time `json:"timestamp"`
}
