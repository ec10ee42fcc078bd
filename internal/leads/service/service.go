// Package service implements the demo booking conversion workflow: tenant
// resolution, conversion task creation through the tasks module, and the
// lead status flip with its audit entry.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	auditdomain "resto_admin_backend/internal/audit/domain"
	auditsvc "resto_admin_backend/internal/audit/service"
	"resto_admin_backend/internal/events"
	"resto_admin_backend/internal/leads/domain"
	"resto_admin_backend/internal/leads/repository"
	"resto_admin_backend/internal/leads/transport"
	"resto_admin_backend/platform/apperr"
	"resto_admin_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Tenant is the slice of a restaurant this module needs.
type Tenant struct {
	ID   uuid.UUID
	Name string
}

// TenantResolver resolves conversion targets. Implemented by the restaurants
// module through an adapter.
type TenantResolver interface {
	TenantByID(ctx context.Context, id uuid.UUID) (Tenant, error)
	FindActiveTenantByName(ctx context.Context, name string) (Tenant, error)
}

// TaskCreator creates the conversion task. Implemented by the tasks module
// through an adapter; the task side carries its own audit entry and
// assignee validation.
type TaskCreator interface {
	CreateConversion(ctx context.Context, actorID, restaurantID uuid.UUID, assignedTo *uuid.UUID, dueDate *time.Time, title, description string) (uuid.UUID, error)
}

// Auditor is the slice of the audit recorder this service depends on.
type Auditor interface {
	Mutate(ctx context.Context, fn auditsvc.MutateFn) (uuid.UUID, error)
}

// Service provides lead conversion logic.
type Service struct {
	repo    repository.Repository
	tenants TenantResolver
	tasks   TaskCreator
	auditor Auditor
	bus     events.Bus
	log     *logger.Logger
}

// New creates the leads service.
func New(repo repository.Repository, tenants TenantResolver, tasks TaskCreator, auditor Auditor, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, tenants: tenants, tasks: tasks, auditor: auditor, bus: bus, log: log}
}

// Convert turns a demo booking into a high-priority onboarding task and
// marks the lead won. The target tenant is the explicit restaurant_id when
// given, otherwise an exact case-insensitive match of the lead's recorded
// organization name against active tenants.
func (s *Service) Convert(ctx context.Context, actorID, leadID uuid.UUID, req transport.ConvertLeadRequest) (transport.ConvertLeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return transport.ConvertLeadResponse{}, err
	}
	if lead.ConvertedTaskID != nil {
		return transport.ConvertLeadResponse{}, apperr.Conflict("demo booking is already converted")
	}

	tenant, err := s.resolveTenant(ctx, lead, req.RestaurantID)
	if err != nil {
		return transport.ConvertLeadResponse{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultTitle(lead)
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = defaultDescription(lead)
	}

	taskID, err := s.tasks.CreateConversion(ctx, actorID, tenant.ID, req.AssignedTo, req.DueDate, title, description)
	if err != nil {
		return transport.ConvertLeadResponse{}, err
	}

	_, err = s.auditor.Mutate(ctx, func(ctx context.Context, tx pgx.Tx) (auditdomain.Entry, error) {
		locked, err := s.repo.GetForUpdateTx(ctx, tx, leadID)
		if err != nil {
			return auditdomain.Entry{}, err
		}
		if locked.ConvertedTaskID != nil {
			return auditdomain.Entry{}, apperr.Conflict("demo booking is already converted")
		}
		if err := s.repo.MarkConvertedTx(ctx, tx, leadID, taskID); err != nil {
			return auditdomain.Entry{}, err
		}

		details, err := auditdomain.EncodeDetail(auditdomain.ActionLeadConvert, "", auditdomain.ConversionDetail{
			LeadID:       leadID,
			RestaurantID: tenant.ID,
			TaskID:       taskID,
		})
		if err != nil {
			return auditdomain.Entry{}, err
		}

		entityType := auditdomain.EntityDemoBooking
		entityID := leadID
		restaurantID := tenant.ID
		return auditdomain.Entry{
			RestaurantID: &restaurantID,
			ActorID:      &actorID,
			Action:       auditdomain.ActionLeadConvert,
			EntityType:   &entityType,
			EntityID:     &entityID,
			Details:      details,
		}, nil
	})
	if err != nil {
		return transport.ConvertLeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadConverted{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       leadID,
		RestaurantID: tenant.ID,
		TaskID:       taskID,
		ActorID:      actorID,
	})

	s.log.Info("demo booking converted", "lead_id", leadID, "restaurant_id", tenant.ID, "task_id", taskID)
	return transport.ConvertLeadResponse{
		LeadID:       leadID,
		RestaurantID: tenant.ID,
		TaskID:       taskID,
		LeadStatus:   domain.StatusConverted,
	}, nil
}

func (s *Service) resolveTenant(ctx context.Context, lead repository.DemoBooking, explicitID *uuid.UUID) (Tenant, error) {
	if explicitID != nil {
		return s.tenants.TenantByID(ctx, *explicitID)
	}

	name := strings.TrimSpace(lead.OrganizationName)
	if name == "" {
		return Tenant{}, apperr.Validation("no restaurant_id given and the demo booking has no organization name to match")
	}

	tenant, err := s.tenants.FindActiveTenantByName(ctx, name)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return Tenant{}, apperr.Validationf("no restaurant_id given and no active restaurant matches organization %q", name)
		}
		return Tenant{}, err
	}
	return tenant, nil
}

func defaultTitle(lead repository.DemoBooking) string {
	title := fmt.Sprintf("Onboard %s", lead.OrganizationName)
	if len(title) > domain.MaxTitleLength {
		title = title[:domain.MaxTitleLength]
	}
	return title
}

func defaultDescription(lead repository.DemoBooking) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Converted from demo booking %s.\n", lead.ID)
	fmt.Fprintf(&b, "Contact: %s <%s>", lead.ContactName, lead.ContactEmail)
	if lead.ContactPhone != nil && *lead.ContactPhone != "" {
		fmt.Fprintf(&b, ", %s", *lead.ContactPhone)
	}
	return b.String()
}

// List retrieves leads for the admin console.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.ListLeadsResponse, error) {
	limit := req.Limit
	if limit < 1 {
		limit = 50
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	leads, total, err := s.repo.List(ctx, repository.ListParams{
		Status: req.Status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return transport.ListLeadsResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, transport.ToLeadResponse(lead))
	}
	return transport.ListLeadsResponse{Leads: items, Total: total, Limit: limit, Offset: offset}, nil
}
