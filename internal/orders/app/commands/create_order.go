package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
	"github.com/dejobratic/orderpulse/internal/orders/ports"
)

type CreateOrderCommand struct {
	ID            string
	Email         string
	Items         []domain.OrderItem
	AmountCents   int64
	Currency      string
	PaymentMethod string
}

func (c CreateOrderCommand) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("id is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(c.Email, "@") {
		return errors.New("email must be valid")
	}
	return nil
}

type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
}

type CreateOrderCommandHandler struct {
	repo   ports.OrderRepository
	events ports.EventBus
}

func NewCreateOrderCommandHandler(
	repo ports.OrderRepository,
	events ports.EventBus,
) *CreateOrderCommandHandler {
	return &CreateOrderCommandHandler{
		repo:   repo,
		events: events,
	}
}

// Handle constructs the order, persists it and publishes order.created. The
// emit is synchronous: this method does not return until every subscribed
// handler has finished.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	order := domain.NewOrder(cmd.ID, cmd.Email, cmd.Items, cmd.AmountCents, cmd.Currency, cmd.PaymentMethod)

	if err := order.Validate(); err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	h.events.Emit(ctx, domain.EventOrderCreated, order)

	return &order, nil
}
