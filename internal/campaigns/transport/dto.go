package transport

import (
	"time"

	"resto_admin_backend/internal/campaigns/repository"

	"github.com/google/uuid"
)

// DisapproveCampaignRequest carries the optional rejection reason.
type DisapproveCampaignRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

// ListCampaignsRequest holds filters for the moderation queue.
type ListCampaignsRequest struct {
	RestaurantID *uuid.UUID `form:"restaurant_id"`
	Status       string     `form:"status" validate:"omitempty,oneof=draft pending_owner_approval approved scheduled rejected sent"`
	Limit        int        `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset       int        `form:"offset" validate:"omitempty,min=0"`
}

// CampaignStatusResponse is the moderation outcome.
type CampaignStatusResponse struct {
	CampaignID uuid.UUID `json:"campaign_id"`
	Status     string    `json:"status"`
}

// CampaignResponse is the list item for the moderation queue.
type CampaignResponse struct {
	ID              uuid.UUID  `json:"id"`
	RestaurantID    uuid.UUID  `json:"restaurant_id"`
	Name            string     `json:"name"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ListCampaignsResponse is the paginated moderation queue.
type ListCampaignsResponse struct {
	Campaigns []CampaignResponse `json:"campaigns"`
	Total     int                `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// ToCampaignResponse maps a storage row to its API shape.
func ToCampaignResponse(cp repository.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:              cp.ID,
		RestaurantID:    cp.RestaurantID,
		Name:            cp.Name,
		Status:          cp.Status,
		RejectionReason: cp.RejectionReason,
		ScheduledAt:     cp.ScheduledAt,
		CreatedAt:       cp.CreatedAt,
		UpdatedAt:       cp.UpdatedAt,
	}
}
