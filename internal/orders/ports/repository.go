package ports

import (
	"context"
	"errors"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
)

// OrderRepository exposes persistence operations required by the application layer.
//
// UpdateStatus is a conditional write: the status moves to `to` only if it
// still is `from` at write time. A concurrent transition that got there first
// surfaces as a *domain.TransitionError, never as a silent second update.
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error
}

// ListFilter narrows list queries by status and pagination.
type ListFilter struct {
	Status   *domain.OrderStatus
	Page     int
	PageSize int
}

var (
	// ErrNotFound is returned when the requested order does not exist.
	ErrNotFound = errors.New("order not found")

	// ErrDuplicateID is returned when an order with the same ID already exists.
	ErrDuplicateID = errors.New("order id already exists")
)
