package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// OrderStatus captures the lifecycle of an order in the system.
type OrderStatus string

const (
	StatusCreated   OrderStatus = "created"
	StatusPaid      OrderStatus = "paid"
	StatusCompleted OrderStatus = "completed"
)

// nextStatus is the single source of truth for lifecycle ordering. An order
// only ever moves forward through created -> paid -> completed.
var nextStatus = map[OrderStatus]OrderStatus{
	StatusCreated: StatusPaid,
	StatusPaid:    StatusCompleted,
}

// ValidTransition reports whether moving from one status to another follows
// the single legal path.
func ValidTransition(from, to OrderStatus) bool {
	next, ok := nextStatus[from]
	return ok && next == to
}

// NextStatus returns the status that legally follows from, if any.
func NextStatus(from OrderStatus) (OrderStatus, bool) {
	next, ok := nextStatus[from]
	return next, ok
}

// TransitionError signals an attempt to skip or reverse a lifecycle step.
// It names the current and the expected status so callers can see exactly
// which precondition was violated.
type TransitionError struct {
	Current  OrderStatus
	Expected OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid order transition: status is %q, expected %q", e.Current, e.Expected)
}

// OrderItem is a single purchased line. Immutable once attached to an order.
type OrderItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// Order represents a purchase moving through the lifecycle.
type Order struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	Items         []OrderItem `json:"items"`
	AmountCents   int64       `json:"amount_cents"`
	Currency      string      `json:"currency"`
	PaymentMethod string      `json:"payment_method"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NewOrder constructs an order in the created status. The item list is
// copied so later mutation of the caller's slice cannot affect the order.
func NewOrder(id, email string, items []OrderItem, amountCents int64, currency, paymentMethod string) Order {
	copied := make([]OrderItem, len(items))
	copy(copied, items)

	now := time.Now().UTC()
	return Order{
		ID:            id,
		Email:         email,
		Items:         copied,
		AmountCents:   amountCents,
		Currency:      currency,
		PaymentMethod: paymentMethod,
		Status:        StatusCreated,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate ensures the order adheres to structural constraints.
func (o Order) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return errors.New("id is required")
	}
	if strings.TrimSpace(o.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(o.Email, "@") {
		return errors.New("email must be valid")
	}
	return nil
}

// CanBePaid reports whether the order may move to paid.
func (o Order) CanBePaid() bool {
	return o.Status == StatusCreated
}

// CanBeCompleted reports whether the order may move to completed.
func (o Order) CanBeCompleted() bool {
	return o.Status == StatusPaid
}

// IsCompleted reports whether the order reached the terminal status.
func (o Order) IsCompleted() bool {
	return o.Status == StatusCompleted
}

// Paid returns a new order value in the paid status. The receiver is not
// mutated.
func (o Order) Paid() (Order, error) {
	if !o.CanBePaid() {
		return Order{}, &TransitionError{Current: o.Status, Expected: StatusCreated}
	}
	o.Status = StatusPaid
	o.UpdatedAt = time.Now().UTC()
	return o, nil
}

// Completed returns a new order value in the completed status. The receiver
// is not mutated.
func (o Order) Completed() (Order, error) {
	if !o.CanBeCompleted() {
		return Order{}, &TransitionError{Current: o.Status, Expected: StatusPaid}
	}
	o.Status = StatusCompleted
	o.UpdatedAt = time.Now().UTC()
	return o, nil
}
