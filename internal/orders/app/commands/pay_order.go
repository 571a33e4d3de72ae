package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
	"github.com/dejobratic/orderpulse/internal/orders/ports"
)

type PayOrderCommand struct {
	OrderID string
}

func (c PayOrderCommand) Validate() error {
	if strings.TrimSpace(c.OrderID) == "" {
		return errors.New("order_id is required")
	}
	return nil
}

type PayOrderHandler interface {
	Handle(ctx context.Context, cmd PayOrderCommand) (*domain.Order, error)
}

type PayOrderCommandHandler struct {
	repo   ports.OrderRepository
	events ports.EventBus
}

func NewPayOrderCommandHandler(
	repo ports.OrderRepository,
	events ports.EventBus,
) *PayOrderCommandHandler {
	return &PayOrderCommandHandler{
		repo:   repo,
		events: events,
	}
}

// Handle moves an order from created to paid and publishes order.paid. Any
// other starting status yields a *domain.TransitionError naming the current
// and expected statuses.
//
// The domain check alone would race under concurrent requests: two of them
// can both read the order while it is still created. The conditional write
// settles the race in the repository, so exactly one request wins and the
// event fires once.
func (h *PayOrderCommandHandler) Handle(ctx context.Context, cmd PayOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	order, err := h.repo.GetByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	paid, err := order.Paid()
	if err != nil {
		return nil, err
	}

	if err := h.repo.UpdateStatus(ctx, paid.ID, domain.StatusCreated, domain.StatusPaid); err != nil {
		return nil, err
	}

	h.events.Emit(ctx, domain.EventOrderPaid, paid)

	return &paid, nil
}
