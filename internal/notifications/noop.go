package notifications

import (
	"context"
	"log/slog"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
	"github.com/dejobratic/orderpulse/internal/orders/ports"
)

// NoopMailer logs emails without sending them. Useful for local dev before
// wiring a real provider.
type NoopMailer struct{}

func NewNoopMailer() *NoopMailer {
	return &NoopMailer{}
}

func (n *NoopMailer) SendEmail(_ context.Context, to, subject, _ string) error {
	slog.Debug("mail::send", "to", to, "subject", subject)
	return nil
}

// NoopCRM logs contact upserts without calling a CRM.
type NoopCRM struct{}

func NewNoopCRM() *NoopCRM {
	return &NoopCRM{}
}

func (n *NoopCRM) UpsertContact(_ context.Context, email string, _ ports.ContactAttributes) error {
	slog.Debug("crm::upsert_contact", "email", email)
	return nil
}

// NoopSheet logs row upserts without touching a spreadsheet.
type NoopSheet struct{}

func NewNoopSheet() *NoopSheet {
	return &NoopSheet{}
}

func (n *NoopSheet) UpsertOrderRow(_ context.Context, order domain.Order, emailSent bool) error {
	slog.Debug("sheet::upsert_row", "order_id", order.ID, "email_sent", emailSent)
	return nil
}
