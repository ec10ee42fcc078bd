// Package service implements tenant lifecycle operations, most notably the
// cascading status change with its last-active-tenant safety check.
package service

import (
	"context"

	auditdomain "resto_admin_backend/internal/audit/domain"
	auditsvc "resto_admin_backend/internal/audit/service"
	"resto_admin_backend/internal/events"
	"resto_admin_backend/internal/restaurants/domain"
	"resto_admin_backend/internal/restaurants/repository"
	"resto_admin_backend/internal/restaurants/transport"
	"resto_admin_backend/platform/apperr"
	"resto_admin_backend/platform/logger"
	"resto_admin_backend/platform/schema"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Auditor is the slice of the audit recorder this service depends on.
type Auditor interface {
	Mutate(ctx context.Context, fn auditsvc.MutateFn) (uuid.UUID, error)
}

// Service provides tenant lifecycle logic.
type Service struct {
	repo    repository.Repository
	auditor Auditor
	caps    schema.Capabilities
	bus     events.Bus
	log     *logger.Logger
}

// New creates the restaurants service.
func New(repo repository.Repository, auditor Auditor, caps schema.Capabilities, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, auditor: auditor, caps: caps, bus: bus, log: log}
}

// SetStatus flips a tenant's active flag and cascades it to the tenant's
// users and, when the schema supports it, campaigns. Deactivating the last
// active tenant is rejected with Conflict; the platform never reaches zero
// active tenants.
func (s *Service) SetStatus(ctx context.Context, actorID, restaurantID uuid.UUID, req transport.SetStatusRequest) (transport.SetStatusResponse, error) {
	if !domain.ValidStatus(req.Status) {
		return transport.SetStatusResponse{}, apperr.Validationf("unknown status %q, expected active or inactive", req.Status)
	}
	targetActive := domain.IsActive(req.Status)

	var applied auditdomain.CascadeDetail

	_, err := s.auditor.Mutate(ctx, func(ctx context.Context, tx pgx.Tx) (auditdomain.Entry, error) {
		// Serialize status flips so two concurrent deactivations of
		// distinct tenants cannot both pass the last-active check.
		if err := s.repo.AcquireStatusLockTx(ctx, tx); err != nil {
			return auditdomain.Entry{}, err
		}

		rest, err := s.repo.GetForUpdateTx(ctx, tx, restaurantID)
		if err != nil {
			return auditdomain.Entry{}, err
		}

		if !targetActive && rest.IsActive {
			peers, err := s.repo.CountActivePeersTx(ctx, tx, restaurantID)
			if err != nil {
				return auditdomain.Entry{}, err
			}
			if peers == 0 {
				return auditdomain.Entry{}, apperr.Conflict("cannot deactivate the last active restaurant")
			}
		}

		if err := s.repo.SetActiveTx(ctx, tx, restaurantID, targetActive); err != nil {
			return auditdomain.Entry{}, err
		}

		usersUpdated, err := s.repo.SetUsersActiveTx(ctx, tx, restaurantID, targetActive)
		if err != nil {
			return auditdomain.Entry{}, err
		}

		campaignsUpdated := 0
		if s.caps.SupportsCampaignActivation() {
			campaignsUpdated, err = s.repo.SetCampaignsActiveTx(ctx, tx, restaurantID, targetActive)
			if err != nil {
				return auditdomain.Entry{}, err
			}
		}

		applied = auditdomain.CascadeDetail{
			IsActive:         targetActive,
			UsersUpdated:     usersUpdated,
			CampaignsUpdated: campaignsUpdated,
		}

		action := auditdomain.ActionRestaurantDeactivate
		if targetActive {
			action = auditdomain.ActionRestaurantActivate
		}
		details, err := auditdomain.EncodeDetail(action, "", applied)
		if err != nil {
			return auditdomain.Entry{}, err
		}

		entityType := auditdomain.EntityRestaurant
		entityID := restaurantID
		return auditdomain.Entry{
			RestaurantID: &restaurantID,
			ActorID:      &actorID,
			Action:       action,
			EntityType:   &entityType,
			EntityID:     &entityID,
			Details:      details,
		}, nil
	})
	if err != nil {
		return transport.SetStatusResponse{}, err
	}

	s.bus.Publish(ctx, events.RestaurantStatusChanged{
		BaseEvent:        events.NewBaseEvent(),
		RestaurantID:     restaurantID,
		IsActive:         applied.IsActive,
		UsersUpdated:     applied.UsersUpdated,
		CampaignsUpdated: applied.CampaignsUpdated,
		ActorID:          actorID,
	})

	s.log.Info("restaurant status changed",
		"restaurant_id", restaurantID,
		"is_active", applied.IsActive,
		"users_updated", applied.UsersUpdated,
		"campaigns_updated", applied.CampaignsUpdated,
	)

	return transport.SetStatusResponse{
		Restaurant: transport.RestaurantSummary{ID: restaurantID, IsActive: applied.IsActive},
		RelatedUpdates: transport.RelatedUpdates{
			UsersUpdated:     applied.UsersUpdated,
			CampaignsUpdated: applied.CampaignsUpdated,
		},
	}, nil
}

// List retrieves tenants for the admin console.
func (s *Service) List(ctx context.Context, req transport.ListRestaurantsRequest) (transport.ListRestaurantsResponse, error) {
	limit := req.Limit
	if limit < 1 {
		limit = 50
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	restaurants, total, err := s.repo.List(ctx, repository.ListParams{
		Active: req.Active,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return transport.ListRestaurantsResponse{}, err
	}

	items := make([]transport.RestaurantResponse, 0, len(restaurants))
	for _, rest := range restaurants {
		items = append(items, transport.ToRestaurantResponse(rest))
	}
	return transport.ListRestaurantsResponse{Restaurants: items, Total: total, Limit: limit, Offset: offset}, nil
}

// Lookup exposes tenant and membership resolution to sibling modules.
type Lookup struct {
	repo repository.Repository
}

// NewLookup creates the cross-module tenant lookup.
func NewLookup(repo repository.Repository) *Lookup {
	return &Lookup{repo: repo}
}

// GetByID resolves a tenant by id.
func (l *Lookup) GetByID(ctx context.Context, id uuid.UUID) (repository.Restaurant, error) {
	return l.repo.GetByID(ctx, id)
}

// FindActiveByName resolves an active tenant by exact, case-insensitive name.
func (l *Lookup) FindActiveByName(ctx context.Context, name string) (repository.Restaurant, error) {
	return l.repo.FindActiveByName(ctx, name)
}

// ActiveByCompany lists a company's active tenants.
func (l *Lookup) ActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]repository.Restaurant, error) {
	return l.repo.ActiveByCompany(ctx, companyID)
}

// UserIsActiveInRestaurant reports active membership of a user in a tenant.
func (l *Lookup) UserIsActiveInRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) (bool, error) {
	return l.repo.UserIsActiveInRestaurant(ctx, userID, restaurantID)
}
