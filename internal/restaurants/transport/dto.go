package transport

import (
	"time"

	"resto_admin_backend/internal/restaurants/repository"

	"github.com/google/uuid"
)

// SetStatusRequest flips a tenant between active and inactive.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// ListRestaurantsRequest holds filters for the tenant listing.
type ListRestaurantsRequest struct {
	Active *bool `form:"active"`
	Limit  int   `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset int   `form:"offset" validate:"omitempty,min=0"`
}

// RestaurantSummary is the tenant portion of the status response.
type RestaurantSummary struct {
	ID       uuid.UUID `json:"id"`
	IsActive bool      `json:"is_active"`
}

// RelatedUpdates reports cascade counts from a status change.
type RelatedUpdates struct {
	UsersUpdated     int `json:"users_updated"`
	CampaignsUpdated int `json:"campaigns_updated"`
}

// SetStatusResponse is the cascading status change outcome.
type SetStatusResponse struct {
	Restaurant     RestaurantSummary `json:"restaurant"`
	RelatedUpdates RelatedUpdates    `json:"relatedUpdates"`
}

// RestaurantResponse is the list item for the tenant listing.
type RestaurantResponse struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListRestaurantsResponse is the paginated tenant listing.
type ListRestaurantsResponse struct {
	Restaurants []RestaurantResponse `json:"restaurants"`
	Total       int                  `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

// ToRestaurantResponse maps a storage row to its API shape.
func ToRestaurantResponse(rest repository.Restaurant) RestaurantResponse {
	return RestaurantResponse{
		ID:        rest.ID,
		CompanyID: rest.CompanyID,
		Name:      rest.Name,
		IsActive:  rest.IsActive,
		CreatedAt: rest.CreatedAt,
		UpdatedAt: rest.UpdatedAt,
	}
}
