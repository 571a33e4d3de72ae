package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
	"github.com/dejobratic/orderpulse/internal/orders/ports"
)

// EmailStatus reports whether a receipt email went out for an order. The
// receipt handler implements it; handlers of the same dispatch run
// concurrently, so the flag is best-effort and may lag one event behind.
type EmailStatus interface {
	EmailSent(orderID string) bool
}

// SheetSyncHandler mirrors every lifecycle event into the operational
// spreadsheet row for the order.
type SheetSyncHandler struct {
	sheet  ports.SheetClient
	status EmailStatus
	logger *slog.Logger
}

// NewSheetSyncHandler constructs the spreadsheet subscriber. status may be
// nil, in which case the email-sent column is always false.
func NewSheetSyncHandler(sheet ports.SheetClient, status EmailStatus, logger *slog.Logger) *SheetSyncHandler {
	return &SheetSyncHandler{
		sheet:  sheet,
		status: status,
		logger: logger,
	}
}

func (h *SheetSyncHandler) Handle(ctx context.Context, event domain.Event) error {
	emailSent := false
	if h.status != nil {
		emailSent = h.status.EmailSent(event.Order.ID)
	}

	if err := h.sheet.UpsertOrderRow(ctx, event.Order, emailSent); err != nil {
		return fmt.Errorf("upsert sheet row for order %s: %w", event.Order.ID, err)
	}

	h.logger.Info("sheet row synced",
		slog.String("order_id", event.Order.ID),
		slog.String("event_type", string(event.Type)),
	)
	return nil
}
