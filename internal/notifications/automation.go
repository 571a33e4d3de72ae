package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dejobratic/orderpulse/internal/drip"
	"github.com/dejobratic/orderpulse/internal/orders/domain"
)

// AutomationHandler enters a completed order into the drip campaign. It is
// only wired to the completed event; the scheduler itself rejects any other
// status as a second line of defense.
type AutomationHandler struct {
	scheduler *drip.Scheduler
	logger    *slog.Logger
}

// NewAutomationHandler constructs the drip-scheduling subscriber.
func NewAutomationHandler(scheduler *drip.Scheduler, logger *slog.Logger) *AutomationHandler {
	return &AutomationHandler{
		scheduler: scheduler,
		logger:    logger,
	}
}

func (h *AutomationHandler) Handle(ctx context.Context, event domain.Event) error {
	if err := h.scheduler.ScheduleAll(ctx, event.Order); err != nil {
		return fmt.Errorf("schedule automations for order %s: %w", event.Order.ID, err)
	}

	h.logger.Debug("automation scheduling handled",
		slog.String("order_id", event.Order.ID),
	)
	return nil
}
