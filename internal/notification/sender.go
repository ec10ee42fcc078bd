// Package notification delivers re-sent order confirmations to customers.
// It is consumed by the queue worker, never by the request path.
package notification

import "context"

// OrderConfirmation is the message content delivered to a customer.
type OrderConfirmation struct {
	OrderID      string
	CustomerName string
	TotalCents   int64
}

// ConfirmationSender delivers an order confirmation over email.
type ConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, recipient string, confirmation OrderConfirmation) error
}

// NopSender drops messages; used when email delivery is disabled.
type NopSender struct{}

// SendOrderConfirmation discards the message.
func (NopSender) SendOrderConfirmation(context.Context, string, OrderConfirmation) error {
	return nil
}
