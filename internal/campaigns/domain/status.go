// Package domain holds campaign moderation rules.
package domain

import "time"

// Campaign lifecycle statuses.
const (
	StatusDraft                = "draft"
	StatusPendingOwnerApproval = "pending_owner_approval"
	StatusApproved             = "approved"
	StatusScheduled            = "scheduled"
	StatusRejected             = "rejected"
	StatusSent                 = "sent"
)

// Moderation actions.
const (
	ActionApprove    = "approve"
	ActionDisapprove = "disapprove"
)

// MaxReasonLength caps stored rejection reasons.
const MaxReasonLength = 500

// ApprovalTarget resolves where an approval lands: scheduled when the
// campaign carries a future send time, approved otherwise.
func ApprovalTarget(scheduledAt *time.Time, now time.Time) string {
	if scheduledAt != nil && scheduledAt.After(now) {
		return StatusScheduled
	}
	return StatusApproved
}

// CanApprove reports whether approval is legal from the given status.
func CanApprove(status string) bool {
	return status == StatusPendingOwnerApproval
}

// CanDisapprove reports whether rejection is legal from the given status.
func CanDisapprove(status string) bool {
	return status == StatusPendingOwnerApproval || status == StatusApproved
}
