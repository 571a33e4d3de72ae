package drip

import (
	"fmt"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
)

// Content renders the subject and HTML body for a drip stage. The order may
// be nil when the lookup could not enrich the record; rendering falls back
// to the order ID alone.
func Content(stage Stage, orderID string, order *domain.Order) (subject, htmlBody string) {
	firstItem := ""
	if order != nil && len(order.Items) > 0 {
		firstItem = order.Items[0].Title
	}

	switch stage {
	case StageThankYou:
		subject = "Thank you for your purchase"
		htmlBody = fmt.Sprintf(
			"<p>Thanks for your order %s! We hope everything arrived in perfect shape.</p>",
			orderID,
		)
	case StageCareTips:
		subject = "Getting the most out of your gear"
		if firstItem != "" {
			htmlBody = fmt.Sprintf(
				"<p>A few tips to keep your %s in top condition for years to come.</p>",
				firstItem,
			)
		} else {
			htmlBody = "<p>A few tips to keep your gear in top condition for years to come.</p>"
		}
	case StageReviewRequest:
		subject = "How was your order?"
		htmlBody = fmt.Sprintf(
			"<p>You have had your order %s for a week now. Would you share a quick review?</p>",
			orderID,
		)
	case StageComebackOffer:
		subject = "A little something for your next adventure"
		htmlBody = "<p>It has been two weeks since your last order. Here is 10% off your next one.</p>"
	default:
		subject = "An update on your order"
		htmlBody = fmt.Sprintf("<p>An update on your order %s.</p>", orderID)
	}

	return subject, htmlBody
}
