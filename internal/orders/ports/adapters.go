package ports

import (
	"context"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
)

// Mailer sends a transactional email. A nil error means the provider
// accepted the message; any error is treated by callers as "did not happen".
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// ContactAttributes carries the CRM fields synced for a buyer.
type ContactAttributes struct {
	OrderID       string
	AmountCents   int64
	Currency      string
	PaymentMethod string
	Country       string
	Consent       bool
}

// CRMClient upserts a contact in the external CRM. Upsert semantics are
// required: calling it twice for the same email must be harmless.
type CRMClient interface {
	UpsertContact(ctx context.Context, email string, attrs ContactAttributes) error
}

// SheetClient appends or updates the operational spreadsheet row for an
// order. emailSent records whether the receipt email went out.
type SheetClient interface {
	UpsertOrderRow(ctx context.Context, order domain.Order, emailSent bool) error
}

// ConsentProvider answers whether a buyer consented to marketing contact.
// The default implementation allows everyone; a real policy source can be
// substituted without touching the handlers.
type ConsentProvider interface {
	MarketingAllowed(ctx context.Context, email string) (bool, error)
}

// GeoProvider resolves a buyer's country code. The default implementation
// returns an empty country.
type GeoProvider interface {
	Country(ctx context.Context, email string) (string, error)
}
