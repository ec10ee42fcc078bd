// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"resto_admin_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Order Domain Events
// =============================================================================

// OrderCancelled is published when a platform admin cancels an order.
type OrderCancelled struct {
	BaseEvent
	OrderID      uuid.UUID `json:"orderId"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	Reason       string    `json:"reason"`
	ActorID      uuid.UUID `json:"actorId"`
}

func (e OrderCancelled) EventName() string { return "orders.cancelled" }

// OrderReopened is published when a platform admin reopens a cancelled order.
type OrderReopened struct {
	BaseEvent
	OrderID      uuid.UUID `json:"orderId"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	Reason       string    `json:"reason"`
	ActorID      uuid.UUID `json:"actorId"`
}

func (e OrderReopened) EventName() string { return "orders.reopened" }

// =============================================================================
// Campaign Domain Events
// =============================================================================

// CampaignModerated is published when a campaign is approved or rejected.
type CampaignModerated struct {
	BaseEvent
	CampaignID     uuid.UUID `json:"campaignId"`
	RestaurantID   uuid.UUID `json:"restaurantId"`
	Action         string    `json:"action"` // "approve" or "disapprove"
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	ActorID        uuid.UUID `json:"actorId"`
}

func (e CampaignModerated) EventName() string { return "campaigns.moderated" }

// =============================================================================
// Restaurant Domain Events
// =============================================================================

// RestaurantStatusChanged is published after a cascading (de)activation.
type RestaurantStatusChanged struct {
	BaseEvent
	RestaurantID     uuid.UUID `json:"restaurantId"`
	IsActive         bool      `json:"isActive"`
	UsersUpdated     int       `json:"usersUpdated"`
	CampaignsUpdated int       `json:"campaignsUpdated"`
	ActorID          uuid.UUID `json:"actorId"`
}

func (e RestaurantStatusChanged) EventName() string { return "restaurants.status_changed" }

// =============================================================================
// Task Domain Events
// =============================================================================

// TaskGroupCreated is published after a company-scope task fan-out.
type TaskGroupCreated struct {
	BaseEvent
	GroupID      uuid.UUID   `json:"groupId"`
	CompanyID    uuid.UUID   `json:"companyId"`
	TaskIDs      []uuid.UUID `json:"taskIds"`
	CreatedCount int         `json:"createdCount"`
	ActorID      uuid.UUID   `json:"actorId"`
}

func (e TaskGroupCreated) EventName() string { return "tasks.group_created" }

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadConverted is published when a demo booking becomes an onboarding task.
type LeadConverted struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	TaskID       uuid.UUID `json:"taskId"`
	ActorID      uuid.UUID `json:"actorId"`
}

func (e LeadConverted) EventName() string { return "demo_bookings.converted" }
