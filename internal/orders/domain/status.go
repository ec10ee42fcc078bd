// Package domain holds order status rules for platform-admin interventions.
package domain

// Order lifecycle statuses. The admin core only ever writes StatusCancelled
// and StatusPending (on reopen); the rest are owned by order management.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ReopenTarget is the status a cancelled order returns to.
const ReopenTarget = StatusPending

// MaxReasonLength bounds operator-supplied reasons before they reach the
// audit payload.
const MaxReasonLength = 500

var cancellable = map[string]bool{
	StatusPending:   true,
	StatusAccepted:  true,
	StatusPreparing: true,
	StatusReady:     true,
}

// CanCancel reports whether an order in the given status may be cancelled.
func CanCancel(status string) bool {
	return cancellable[status]
}

// CanReopen reports whether an order in the given status may be reopened.
func CanReopen(status string) bool {
	return status == StatusCancelled
}

// Confirmation resend channels.
const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// ValidChannel reports whether the given resend channel is supported.
func ValidChannel(channel string) bool {
	return channel == ChannelSMS || channel == ChannelEmail
}
