package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
	"github.com/dejobratic/orderpulse/internal/orders/metrics"
	"github.com/dejobratic/orderpulse/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// transitionFunc is the shape shared by the pay and complete handlers once
// the command envelope is stripped away.
type transitionFunc func(ctx context.Context, orderID string) (*domain.Order, error)

type observableTransition struct {
	spanName  string
	operation string
	toStatus  domain.OrderStatus
	inner     transitionFunc
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func (o *observableTransition) handle(ctx context.Context, orderID string) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, o.spanName)
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordOperationDuration(ctx, o.operation, duration)
		o.metrics.RecordTransition(ctx, string(o.toStatus), success)
	}()

	o.logger.InfoContext(ctx, "transitioning order",
		"order_id", orderID,
		"to_status", string(o.toStatus),
	)

	order, err := o.inner(ctx, orderID)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "order transition failed",
			"error", err,
			"order_id", orderID,
			"to_status", string(o.toStatus),
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("order.status", string(order.Status)),
	)

	o.logger.InfoContext(ctx, "order transitioned",
		"order_id", order.ID,
		"status", string(order.Status),
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return order, nil
}

type ObservablePayOrderHandler struct {
	obs *observableTransition
}

func NewObservablePayOrderHandler(handler PayOrderHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservablePayOrderHandler {
	return &ObservablePayOrderHandler{
		obs: &observableTransition{
			spanName:  "PayOrderCommand.Handle",
			operation: "pay_order",
			toStatus:  domain.StatusPaid,
			inner: func(ctx context.Context, orderID string) (*domain.Order, error) {
				return handler.Handle(ctx, PayOrderCommand{OrderID: orderID})
			},
			logger:  logger,
			metrics: metrics,
		},
	}
}

func (h *ObservablePayOrderHandler) Handle(ctx context.Context, cmd PayOrderCommand) (*domain.Order, error) {
	return h.obs.handle(ctx, cmd.OrderID)
}

type ObservableCompleteOrderHandler struct {
	obs *observableTransition
}

func NewObservableCompleteOrderHandler(handler CompleteOrderHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCompleteOrderHandler {
	return &ObservableCompleteOrderHandler{
		obs: &observableTransition{
			spanName:  "CompleteOrderCommand.Handle",
			operation: "complete_order",
			toStatus:  domain.StatusCompleted,
			inner: func(ctx context.Context, orderID string) (*domain.Order, error) {
				return handler.Handle(ctx, CompleteOrderCommand{OrderID: orderID})
			},
			logger:  logger,
			metrics: metrics,
		},
	}
}

func (h *ObservableCompleteOrderHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (*domain.Order, error) {
	return h.obs.handle(ctx, cmd.OrderID)
}
