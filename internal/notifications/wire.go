package notifications

import (
	"errors"
	"log/slog"

	"github.com/dejobratic/orderpulse/internal/drip"
	"github.com/dejobratic/orderpulse/internal/eventbus"
	"github.com/dejobratic/orderpulse/internal/orders/domain"
	"github.com/dejobratic/orderpulse/internal/orders/ports"
)

// Deps carries everything the notification handlers need. Consent and Geo
// may be nil; the permissive defaults are used then.
type Deps struct {
	Mailer    ports.Mailer
	CRM       ports.CRMClient
	Sheet     ports.SheetClient
	Guard     ports.ProcessedStore
	Scheduler *drip.Scheduler
	Consent   ports.ConsentProvider
	Geo       ports.GeoProvider
	Logger    *slog.Logger
}

var lifecycleEvents = []domain.EventType{
	domain.EventOrderCreated,
	domain.EventOrderPaid,
	domain.EventOrderCompleted,
}

// Wire registers every notification handler on the bus, once, at startup.
// Nothing in this package registers itself as a side effect of being
// imported; this function is the single place the dependency graph is
// composed. It returns a teardown that removes all of its registrations.
func Wire(bus *eventbus.Bus, deps Deps) (func(), error) {
	if bus == nil {
		return nil, errors.New("bus is required")
	}
	if deps.Mailer == nil || deps.CRM == nil || deps.Sheet == nil {
		return nil, errors.New("mailer, crm and sheet adapters are required")
	}
	if deps.Guard == nil {
		return nil, errors.New("processed-orders guard is required")
	}
	if deps.Scheduler == nil {
		return nil, errors.New("drip scheduler is required")
	}
	if deps.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if deps.Consent == nil {
		deps.Consent = AllowAllConsent{}
	}
	if deps.Geo == nil {
		deps.Geo = UnknownGeo{}
	}

	receipt := NewReceiptHandler(deps.Mailer, deps.Logger)
	crm := NewCRMSyncHandler(deps.CRM, deps.Guard, deps.Consent, deps.Geo, deps.Logger)
	sheet := NewSheetSyncHandler(deps.Sheet, receipt, deps.Logger)
	automation := NewAutomationHandler(deps.Scheduler, deps.Logger)

	var subs []*eventbus.Subscription
	for _, eventType := range lifecycleEvents {
		subs = append(subs,
			bus.Subscribe(eventType, receipt),
			bus.Subscribe(eventType, crm),
			bus.Subscribe(eventType, sheet),
		)
	}
	subs = append(subs, bus.Subscribe(domain.EventOrderCompleted, automation))

	teardown := func() {
		for _, sub := range subs {
			bus.Unsubscribe(sub)
		}
	}
	return teardown, nil
}
