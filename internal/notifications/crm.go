package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
	"github.com/dejobratic/orderpulse/internal/orders/ports"
)

// crmSyncConcern keys the idempotency guard for the CRM upsert.
const crmSyncConcern = "crm-sync"

// CRMSyncHandler makes sure the buyer exists in the CRM. All three lifecycle
// events map to the same "this buyer exists" concern, so the guard keeps the
// external upsert to at most one call per order. If the upsert fails the
// order is not marked, and the next lifecycle event retries it.
type CRMSyncHandler struct {
	crm     ports.CRMClient
	guard   ports.ProcessedStore
	consent ports.ConsentProvider
	geo     ports.GeoProvider
	logger  *slog.Logger
}

// NewCRMSyncHandler constructs the CRM subscriber.
func NewCRMSyncHandler(
	crm ports.CRMClient,
	guard ports.ProcessedStore,
	consent ports.ConsentProvider,
	geo ports.GeoProvider,
	logger *slog.Logger,
) *CRMSyncHandler {
	return &CRMSyncHandler{
		crm:     crm,
		guard:   guard,
		consent: consent,
		geo:     geo,
		logger:  logger,
	}
}

func (h *CRMSyncHandler) Handle(ctx context.Context, event domain.Event) error {
	order := event.Order

	processed, err := h.guard.Has(ctx, crmSyncConcern, order.ID)
	if err != nil {
		return fmt.Errorf("check crm guard for order %s: %w", order.ID, err)
	}
	if processed {
		h.logger.Debug("crm sync already done for order",
			slog.String("order_id", order.ID),
			slog.String("event_type", string(event.Type)),
		)
		return nil
	}

	allowed, err := h.consent.MarketingAllowed(ctx, order.Email)
	if err != nil {
		return fmt.Errorf("resolve consent for order %s: %w", order.ID, err)
	}

	country, err := h.geo.Country(ctx, order.Email)
	if err != nil {
		// Country is enrichment only; sync without it.
		h.logger.Debug("geo lookup failed, syncing without country",
			slog.String("order_id", order.ID),
			slog.Any("error", err),
		)
		country = ""
	}

	attrs := ports.ContactAttributes{
		OrderID:       order.ID,
		AmountCents:   order.AmountCents,
		Currency:      order.Currency,
		PaymentMethod: order.PaymentMethod,
		Country:       country,
		Consent:       allowed,
	}

	if err := h.crm.UpsertContact(ctx, order.Email, attrs); err != nil {
		return fmt.Errorf("upsert crm contact for order %s: %w", order.ID, err)
	}

	if err := h.guard.Mark(ctx, crmSyncConcern, order.ID); err != nil {
		// The upsert already happened; a failed mark only risks a harmless
		// duplicate on the next event.
		h.logger.Error("failed to mark order in crm guard",
			slog.String("order_id", order.ID),
			slog.Any("error", err),
		)
	}

	h.logger.Info("crm contact synced",
		slog.String("order_id", order.ID),
		slog.String("event_type", string(event.Type)),
	)
	return nil
}
