// Package domain defines the audit ledger's entry model and the closed set of
// per-action detail payloads. Entries are append-only: nothing in this
// codebase updates or deletes an audit row once written.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Action names recorded in the ledger. Every admin mutation maps to exactly
// one of these.
const (
	ActionOrderCancel             = "order.cancel"
	ActionOrderReopen             = "order.reopen"
	ActionOrderResendConfirmation = "order.resend_confirmation"
	ActionOrderBulkCancelStale    = "order.bulk_cancel_stale"
	ActionCampaignApprove         = "campaign.approve"
	ActionCampaignDisapprove      = "campaign.disapprove"
	ActionRestaurantActivate      = "restaurant.activate"
	ActionRestaurantDeactivate    = "restaurant.deactivate"
	ActionTaskCreate              = "task.create"
	ActionTaskGroupCreate         = "task.group_create"
	ActionTaskGroupUpdate         = "task.group_update"
	ActionTaskGroupDelete         = "task.group_delete"
	ActionLeadConvert             = "demo_booking.convert"
)

// Entity types referenced by audit entries.
const (
	EntityOrder       = "order"
	EntityCampaign    = "campaign"
	EntityRestaurant  = "restaurant"
	EntityTask        = "task"
	EntityTaskGroup   = "task_group"
	EntityDemoBooking = "demo_booking"
	// EntityPlatform scopes platform-wide actions such as bulk stale
	// cancellation, which target no single row.
	EntityPlatform = "platform"
)

// Entry is one immutable row of the audit ledger.
type Entry struct {
	ID           uuid.UUID
	RestaurantID *uuid.UUID // nil for platform-wide actions
	ActorID      *uuid.UUID // nil for system-originated entries
	Action       string
	EntityType   *string
	EntityID     *uuid.UUID
	Details      json.RawMessage
	CreatedAt    time.Time
}
