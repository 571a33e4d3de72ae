package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
	"github.com/dejobratic/orderpulse/internal/orders/ports"
)

type CompleteOrderCommand struct {
	OrderID string
}

func (c CompleteOrderCommand) Validate() error {
	if strings.TrimSpace(c.OrderID) == "" {
		return errors.New("order_id is required")
	}
	return nil
}

type CompleteOrderHandler interface {
	Handle(ctx context.Context, cmd CompleteOrderCommand) (*domain.Order, error)
}

type CompleteOrderCommandHandler struct {
	repo   ports.OrderRepository
	events ports.EventBus
}

func NewCompleteOrderCommandHandler(
	repo ports.OrderRepository,
	events ports.EventBus,
) *CompleteOrderCommandHandler {
	return &CompleteOrderCommandHandler{
		repo:   repo,
		events: events,
	}
}

// Handle moves an order from paid to completed and publishes
// order.completed, which is what enters the order into the drip campaign.
// The write is conditional on the order still being paid, so concurrent
// completions resolve to a single winner and a single event.
func (h *CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	order, err := h.repo.GetByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	completed, err := order.Completed()
	if err != nil {
		return nil, err
	}

	if err := h.repo.UpdateStatus(ctx, completed.ID, domain.StatusPaid, domain.StatusCompleted); err != nil {
		return nil, err
	}

	h.events.Emit(ctx, domain.EventOrderCompleted, completed)

	return &completed, nil
}
