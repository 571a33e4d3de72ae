package app

import (
	"context"
	"log/slog"

	"github.com/dejobratic/orderpulse/internal/orders/app/commands"
	"github.com/dejobratic/orderpulse/internal/orders/app/queries"
	"github.com/dejobratic/orderpulse/internal/orders/domain"
	"github.com/dejobratic/orderpulse/internal/orders/metrics"
	"github.com/dejobratic/orderpulse/internal/orders/ports"
)

// Service bundles use cases for handling orders via the API.
type Service struct {
	repo            ports.OrderRepository
	events          ports.EventBus
	createHandler   commands.CreateOrderHandler
	payHandler      commands.PayOrderHandler
	completeHandler commands.CompleteOrderHandler
	getOrderHandler *queries.GetOrderQueryHandler
}

// NewService wires required dependencies.
func NewService(
	repo ports.OrderRepository,
	events ports.EventBus,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		repo:   repo,
		events: events,
		createHandler: commands.NewObservableCreateOrderHandler(
			commands.NewCreateOrderCommandHandler(repo, events), logger, metrics),
		payHandler: commands.NewObservablePayOrderHandler(
			commands.NewPayOrderCommandHandler(repo, events), logger, metrics),
		completeHandler: commands.NewObservableCompleteOrderHandler(
			commands.NewCompleteOrderCommandHandler(repo, events), logger, metrics),
		getOrderHandler: queries.NewGetOrderQueryHandler(repo),
	}
}

// CreateOrderInput captures payload for creating an order.
type CreateOrderInput struct {
	ID            string             `json:"id"`
	Email         string             `json:"email"`
	Items         []domain.OrderItem `json:"items"`
	AmountCents   int64              `json:"amount_cents"`
	Currency      string             `json:"currency"`
	PaymentMethod string             `json:"payment_method"`
}

// CreateOrder orchestrates order creation and event emission.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	cmd := commands.CreateOrderCommand{
		ID:            input.ID,
		Email:         input.Email,
		Items:         input.Items,
		AmountCents:   input.AmountCents,
		Currency:      input.Currency,
		PaymentMethod: input.PaymentMethod,
	}
	return s.createHandler.Handle(ctx, cmd)
}

// PayOrder marks an order as paid.
func (s *Service) PayOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.payHandler.Handle(ctx, commands.PayOrderCommand{OrderID: id})
}

// CompleteOrder marks an order as completed.
func (s *Service) CompleteOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.completeHandler.Handle(ctx, commands.CompleteOrderCommand{OrderID: id})
}

// GetOrder retrieves an order by ID.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.getOrderHandler.Handle(ctx, queries.GetOrderQuery{OrderID: id})
}

// ListOrders returns orders using a filter.
func (s *Service) ListOrders(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	return s.repo.List(ctx, filter)
}
