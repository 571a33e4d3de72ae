package notifications_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	idemmemory "github.com/dejobratic/orderpulse/internal/idempotency/memory"
	"github.com/dejobratic/orderpulse/internal/notifications"
	"github.com/dejobratic/orderpulse/internal/orders/domain"
	"github.com/dejobratic/orderpulse/internal/orders/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func lifecycleEvent(eventType domain.EventType, order domain.Order) domain.Event {
	return domain.Event{
		ID:        "evt-1",
		Type:      eventType,
		Order:     order,
		Timestamp: time.Now().UTC(),
	}
}

func TestCRMSyncSkipsAlreadyProcessedOrders(t *testing.T) {
	crm := &mockCRM{}
	guard := idemmemory.NewStore()
	handler := notifications.NewCRMSyncHandler(
		crm, guard, notifications.AllowAllConsent{}, notifications.UnknownGeo{}, discardLogger(),
	)

	order := domain.NewOrder("o1", "a@b.com", nil, 1000, "EUR", "card")
	if err := guard.Mark(context.Background(), "crm-sync", order.ID); err != nil {
		t.Fatalf("mark: %v", err)
	}

	if err := handler.Handle(context.Background(), lifecycleEvent(domain.EventOrderCreated, order)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if crm.Calls() != 0 {
		t.Errorf("expected no crm call for processed order, got %d", crm.Calls())
	}
}

func TestCRMSyncCarriesOrderAttributes(t *testing.T) {
	crm := &mockCRM{}
	handler := notifications.NewCRMSyncHandler(
		crm, idemmemory.NewStore(), notifications.AllowAllConsent{}, notifications.UnknownGeo{}, discardLogger(),
	)

	order := domain.NewOrder("o1", "a@b.com", nil, 2500, "USD", "paypal")
	if err := handler.Handle(context.Background(), lifecycleEvent(domain.EventOrderCreated, order)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	crm.mu.Lock()
	attrs := crm.lastAttr
	crm.mu.Unlock()

	if attrs.OrderID != "o1" || attrs.AmountCents != 2500 || attrs.Currency != "USD" || attrs.PaymentMethod != "paypal" {
		t.Errorf("unexpected attributes: %+v", attrs)
	}
}

func TestCRMSyncDoesNotMarkOnFailure(t *testing.T) {
	crm := &mockCRM{
		upsertFn: func(_ string, _ ports.ContactAttributes) error {
			return errors.New("crm down")
		},
	}
	guard := idemmemory.NewStore()
	handler := notifications.NewCRMSyncHandler(
		crm, guard, notifications.AllowAllConsent{}, notifications.UnknownGeo{}, discardLogger(),
	)

	order := domain.NewOrder("o1", "a@b.com", nil, 1000, "EUR", "card")
	if err := handler.Handle(context.Background(), lifecycleEvent(domain.EventOrderCreated, order)); err == nil {
		t.Fatal("expected handler to report the adapter failure")
	}

	processed, err := guard.Has(context.Background(), "crm-sync", order.ID)
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if processed {
		t.Error("a failed upsert must not mark the order as processed")
	}
}

func TestReceiptHandlerTracksSentOrders(t *testing.T) {
	mailer := &mockMailer{}
	handler := notifications.NewReceiptHandler(mailer, discardLogger())

	order := domain.NewOrder("o1", "a@b.com", nil, 1000, "EUR", "card")

	if handler.EmailSent(order.ID) {
		t.Error("expected no email recorded before sending")
	}

	if err := handler.Handle(context.Background(), lifecycleEvent(domain.EventOrderCreated, order)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !handler.EmailSent(order.ID) {
		t.Error("expected email to be recorded after sending")
	}
}

func TestReceiptHandlerDoesNotTrackFailedSends(t *testing.T) {
	mailer := &mockMailer{
		sendFn: func(_, _ string) error {
			return errors.New("smtp down")
		},
	}
	handler := notifications.NewReceiptHandler(mailer, discardLogger())

	order := domain.NewOrder("o1", "a@b.com", nil, 1000, "EUR", "card")
	if err := handler.Handle(context.Background(), lifecycleEvent(domain.EventOrderCreated, order)); err == nil {
		t.Fatal("expected handler to report the mailer failure")
	}

	if handler.EmailSent(order.ID) {
		t.Error("a failed send must not be recorded")
	}
}

func TestSheetSyncReportsEmailFlag(t *testing.T) {
	mailer := &mockMailer{}
	receipt := notifications.NewReceiptHandler(mailer, discardLogger())

	var gotFlag bool
	sheet := &mockSheet{
		upsertFn: func(_ domain.Order, emailSent bool) error {
			gotFlag = emailSent
			return nil
		},
	}
	handler := notifications.NewSheetSyncHandler(sheet, receipt, discardLogger())

	order := domain.NewOrder("o1", "a@b.com", nil, 1000, "EUR", "card")
	event := lifecycleEvent(domain.EventOrderCreated, order)

	if err := handler.Handle(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFlag {
		t.Error("expected email flag false before any send")
	}

	if err := receipt.Handle(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := handler.Handle(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotFlag {
		t.Error("expected email flag true after the receipt went out")
	}
}
