package transport

import (
	"time"

	"resto_admin_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// ConvertLeadRequest turns a demo booking into an onboarding task. All
// fields are optional; the tenant falls back to an organization-name match
// and title/description are derived from the lead when absent.
type ConvertLeadRequest struct {
	RestaurantID *uuid.UUID `json:"restaurant_id"`
	AssignedTo   *uuid.UUID `json:"assigned_to"`
	DueDate      *time.Time `json:"due_date"`
	Title        string     `json:"title" validate:"omitempty,max=200"`
	Description  string     `json:"description" validate:"omitempty,max=2000"`
}

// ConvertLeadResponse summarizes the created conversion task.
type ConvertLeadResponse struct {
	LeadID       uuid.UUID `json:"lead_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	TaskID       uuid.UUID `json:"task_id"`
	LeadStatus   string    `json:"lead_status"`
}

// ListLeadsRequest holds filters for the lead listing.
type ListLeadsRequest struct {
	Status string `form:"status" validate:"omitempty,max=50"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" validate:"omitempty,min=0"`
}

// LeadResponse is the list item for the lead listing.
type LeadResponse struct {
	ID               uuid.UUID  `json:"id"`
	ContactName      string     `json:"contact_name"`
	ContactEmail     string     `json:"contact_email"`
	ContactPhone     *string    `json:"contact_phone,omitempty"`
	OrganizationName string     `json:"organization_name"`
	Status           string     `json:"status"`
	ConversionStage  *string    `json:"conversion_stage,omitempty"`
	ConvertedTaskID  *uuid.UUID `json:"converted_task_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ListLeadsResponse is the paginated lead listing.
type ListLeadsResponse struct {
	Leads  []LeadResponse `json:"leads"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ToLeadResponse maps a storage row to its API shape.
func ToLeadResponse(lead repository.DemoBooking) LeadResponse {
	return LeadResponse{
		ID:               lead.ID,
		ContactName:      lead.ContactName,
		ContactEmail:     lead.ContactEmail,
		ContactPhone:     lead.ContactPhone,
		OrganizationName: lead.OrganizationName,
		Status:           lead.Status,
		ConversionStage:  lead.ConversionStage,
		ConvertedTaskID:  lead.ConvertedTaskID,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
}
