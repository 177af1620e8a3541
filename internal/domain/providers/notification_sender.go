package providers

import (
	"context"
)

// NotificationSender defines the interface for outbound message delivery
// (WhatsApp, SMS, email). Dispatch failures are surfaced to the caller but
// are never fatal to a booking.
type NotificationSender interface {
	// SendTemplate sends a pre-approved template message with positional
	// body parameters and returns the provider message id
	SendTemplate(ctx context.Context, to, templateName, languageCode string, params []string) (string, error)

	// SendText sends a plain text message and returns the provider message id
	SendText(ctx context.Context, to, body string) (string, error)
}
