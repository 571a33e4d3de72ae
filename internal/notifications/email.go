// Package notifications contains the bus subscribers that drive every
// downstream side effect of an order lifecycle event: transactional email,
// CRM contact sync, spreadsheet logging and drip scheduling. Handlers are
// independent and failure-isolated; none of them can block or roll back a
// purchase.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
	"github.com/dejobratic/orderpulse/internal/orders/ports"
)

// ReceiptHandler sends the transactional email matching each lifecycle
// event. It also remembers, per order, whether a receipt went out, so the
// spreadsheet sync can record the flag. That memory is process-local and
// best-effort.
type ReceiptHandler struct {
	mailer ports.Mailer
	logger *slog.Logger

	mu   sync.RWMutex
	sent map[string]struct{}
}

// NewReceiptHandler constructs the transactional email subscriber.
func NewReceiptHandler(mailer ports.Mailer, logger *slog.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		mailer: mailer,
		logger: logger,
		sent:   make(map[string]struct{}),
	}
}

// Handle sends the email for the event. A mailer failure is returned to the
// bus, which logs and swallows it; the purchase is never affected.
func (h *ReceiptHandler) Handle(ctx context.Context, event domain.Event) error {
	subject, body := receiptContent(event)

	if err := h.mailer.SendEmail(ctx, event.Order.Email, subject, body); err != nil {
		return fmt.Errorf("send %s email for order %s: %w", event.Type, event.Order.ID, err)
	}

	h.mu.Lock()
	h.sent[event.Order.ID] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("transactional email sent",
		slog.String("order_id", event.Order.ID),
		slog.String("event_type", string(event.Type)),
	)
	return nil
}

// EmailSent reports whether a receipt was sent for the order in this
// process.
func (h *ReceiptHandler) EmailSent(orderID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.sent[orderID]
	return ok
}

func receiptContent(event domain.Event) (subject, htmlBody string) {
	order := event.Order
	switch event.Type {
	case domain.EventOrderPaid:
		subject = fmt.Sprintf("Payment received for order %s", order.ID)
		htmlBody = fmt.Sprintf(
			"<p>We received your payment of %d %s via %s. We are preparing your order now.</p>",
			order.AmountCents, order.Currency, order.PaymentMethod,
		)
	case domain.EventOrderCompleted:
		subject = fmt.Sprintf("Your order %s is complete", order.ID)
		htmlBody = fmt.Sprintf("<p>Order %s is complete. Thank you for shopping with us!</p>", order.ID)
	default:
		subject = fmt.Sprintf("Order confirmation %s", order.ID)
		htmlBody = fmt.Sprintf(
			"<p>We received your order %s with %d item(s), totalling %d %s.</p>",
			order.ID, len(order.Items), order.AmountCents, order.Currency,
		)
	}
	return subject, htmlBody
}
