package service

import (
	"context"
	"strings"
	"testing"
	"time"

	auditdomain "resto_admin_backend/internal/audit/domain"
	auditsvc "resto_admin_backend/internal/audit/service"
	"resto_admin_backend/internal/leads/domain"
	"resto_admin_backend/internal/leads/repository"
	"resto_admin_backend/internal/leads/transport"
	"resto_admin_backend/platform/apperr"
	"resto_admin_backend/platform/events"
	"resto_admin_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeRepo struct {
	leads map[uuid.UUID]repository.DemoBooking
}

func newFakeRepo(leads ...repository.DemoBooking) *fakeRepo {
	r := &fakeRepo{leads: make(map[uuid.UUID]repository.DemoBooking)}
	for _, l := range leads {
		r.leads[l.ID] = l
	}
	return r
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.DemoBooking, error) {
	l, ok := r.leads[id]
	if !ok {
		return repository.DemoBooking{}, apperr.NotFound("demo booking not found")
	}
	return l, nil
}

func (r *fakeRepo) GetForUpdateTx(ctx context.Context, _ pgx.Tx, id uuid.UUID) (repository.DemoBooking, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRepo) MarkConvertedTx(_ context.Context, _ pgx.Tx, id, taskID uuid.UUID) error {
	l := r.leads[id]
	l.Status = domain.StatusConverted
	stage := domain.StageWon
	l.ConversionStage = &stage
	l.ConvertedTaskID = &taskID
	r.leads[id] = l
	return nil
}

func (r *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.DemoBooking, int, error) {
	return nil, 0, nil
}

type fakeResolver struct {
	byID   map[uuid.UUID]Tenant
	byName map[string]Tenant
}

func (d *fakeResolver) TenantByID(_ context.Context, id uuid.UUID) (Tenant, error) {
	t, ok := d.byID[id]
	if !ok {
		return Tenant{}, apperr.NotFound("restaurant not found")
	}
	return t, nil
}

func (d *fakeResolver) FindActiveTenantByName(_ context.Context, name string) (Tenant, error) {
	t, ok := d.byName[strings.ToLower(name)]
	if !ok {
		return Tenant{}, apperr.NotFound("restaurant not found")
	}
	return t, nil
}

type fakeTaskCreator struct {
	created      []uuid.UUID
	lastTitle    string
	lastDesc     string
	lastDue      *time.Time
	lastTenant   uuid.UUID
	lastAssignee *uuid.UUID
}

func (c *fakeTaskCreator) CreateConversion(_ context.Context, _, restaurantID uuid.UUID, assignedTo *uuid.UUID, dueDate *time.Time, title, description string) (uuid.UUID, error) {
	id := uuid.New()
	c.created = append(c.created, id)
	c.lastTenant = restaurantID
	c.lastAssignee = assignedTo
	c.lastDue = dueDate
	c.lastTitle = title
	c.lastDesc = description
	return id, nil
}

type fakeAuditor struct {
	entries []auditdomain.Entry
}

func (a *fakeAuditor) Mutate(ctx context.Context, fn auditsvc.MutateFn) (uuid.UUID, error) {
	entry, err := fn(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	entry.ID = uuid.New()
	a.entries = append(a.entries, entry)
	return entry.ID, nil
}

type fakeBus struct {
	published []events.Event
}

func (b *fakeBus) Publish(_ context.Context, event events.Event) { b.published = append(b.published, event) }
func (b *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}
func (b *fakeBus) Subscribe(string, events.Handler) {}

func lead(org string) repository.DemoBooking {
	phone := "+31612345678"
	return repository.DemoBooking{
		ID:               uuid.New(),
		ContactName:      "Jamie Visser",
		ContactEmail:     "jamie@example.com",
		ContactPhone:     &phone,
		OrganizationName: org,
		Status:           "demo_completed",
	}
}

func TestConvertByOrganizationMatch(t *testing.T) {
	booking := lead("De Gouden Lepel")
	tenant := Tenant{ID: uuid.New(), Name: "De Gouden Lepel"}
	repo := newFakeRepo(booking)
	resolver := &fakeResolver{byName: map[string]Tenant{"de gouden lepel": tenant}}
	creator := &fakeTaskCreator{}
	auditor := &fakeAuditor{}
	bus := &fakeBus{}
	svc := New(repo, resolver, creator, auditor, bus, logger.New("test"))

	resp, err := svc.Convert(context.Background(), uuid.New(), booking.ID, transport.ConvertLeadRequest{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if resp.RestaurantID != tenant.ID {
		t.Errorf("RestaurantID = %v, want %v", resp.RestaurantID, tenant.ID)
	}
	if resp.LeadStatus != domain.StatusConverted {
		t.Errorf("LeadStatus = %q, want converted", resp.LeadStatus)
	}
	if len(creator.created) != 1 || resp.TaskID != creator.created[0] {
		t.Errorf("TaskID = %v, created = %v", resp.TaskID, creator.created)
	}
	if creator.lastTitle != "Onboard De Gouden Lepel" {
		t.Errorf("task title = %q", creator.lastTitle)
	}
	if !strings.Contains(creator.lastDesc, "jamie@example.com") || !strings.Contains(creator.lastDesc, "+31612345678") {
		t.Errorf("task description = %q, missing contact details", creator.lastDesc)
	}

	stored := repo.leads[booking.ID]
	if stored.ConvertedTaskID == nil || *stored.ConvertedTaskID != resp.TaskID {
		t.Errorf("stored ConvertedTaskID = %v, want %v", stored.ConvertedTaskID, resp.TaskID)
	}
	if stored.ConversionStage == nil || *stored.ConversionStage != domain.StageWon {
		t.Errorf("stored ConversionStage = %v, want won", stored.ConversionStage)
	}
	if len(auditor.entries) != 1 || auditor.entries[0].Action != auditdomain.ActionLeadConvert {
		t.Errorf("audit entries = %+v, want one demo_booking.convert", auditor.entries)
	}
	if len(bus.published) != 1 {
		t.Errorf("events published = %d, want 1", len(bus.published))
	}
}

func TestConvertWithExplicitRestaurant(t *testing.T) {
	booking := lead("No Such Place")
	tenant := Tenant{ID: uuid.New(), Name: "Bistro Noord"}
	assignee := uuid.New()
	due := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo(booking)
	resolver := &fakeResolver{byID: map[uuid.UUID]Tenant{tenant.ID: tenant}}
	creator := &fakeTaskCreator{}
	svc := New(repo, resolver, creator, &fakeAuditor{}, &fakeBus{}, logger.New("test"))

	resp, err := svc.Convert(context.Background(), uuid.New(), booking.ID, transport.ConvertLeadRequest{
		RestaurantID: &tenant.ID,
		AssignedTo:   &assignee,
		DueDate:      &due,
		Title:        "  Custom onboarding  ",
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if creator.lastTenant != tenant.ID {
		t.Errorf("task restaurant = %v, want %v", creator.lastTenant, tenant.ID)
	}
	if creator.lastAssignee == nil || *creator.lastAssignee != assignee {
		t.Errorf("task assignee = %v, want %v", creator.lastAssignee, assignee)
	}
	if creator.lastDue == nil || !creator.lastDue.Equal(due) {
		t.Errorf("task due date = %v, want %v", creator.lastDue, due)
	}
	if creator.lastTitle != "Custom onboarding" {
		t.Errorf("task title = %q, want trimmed custom title", creator.lastTitle)
	}
	if resp.RestaurantID != tenant.ID {
		t.Errorf("RestaurantID = %v, want %v", resp.RestaurantID, tenant.ID)
	}
}

func TestConvertUnresolvableTenant(t *testing.T) {
	tests := []struct {
		name    string
		booking repository.DemoBooking
	}{
		{"no organization name", lead("")},
		{"no matching active restaurant", lead("Ghost Kitchen")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo(tt.booking)
			creator := &fakeTaskCreator{}
			auditor := &fakeAuditor{}
			svc := New(repo, &fakeResolver{}, creator, auditor, &fakeBus{}, logger.New("test"))

			_, err := svc.Convert(context.Background(), uuid.New(), tt.booking.ID, transport.ConvertLeadRequest{})
			if apperr.GetKind(err) != apperr.KindValidation {
				t.Fatalf("error kind = %v, want validation", apperr.GetKind(err))
			}
			if len(creator.created) != 0 {
				t.Error("conversion task created despite unresolvable tenant")
			}
			if len(auditor.entries) != 0 {
				t.Error("audit entry written despite unresolvable tenant")
			}
			stored := repo.leads[tt.booking.ID]
			if stored.ConvertedTaskID != nil || stored.Status != "demo_completed" {
				t.Errorf("lead mutated: %+v", stored)
			}
		})
	}
}

func TestConvertAlreadyConverted(t *testing.T) {
	booking := lead("De Gouden Lepel")
	taskID := uuid.New()
	booking.Status = domain.StatusConverted
	booking.ConvertedTaskID = &taskID
	repo := newFakeRepo(booking)
	creator := &fakeTaskCreator{}
	svc := New(repo, &fakeResolver{}, creator, &fakeAuditor{}, &fakeBus{}, logger.New("test"))

	_, err := svc.Convert(context.Background(), uuid.New(), booking.ID, transport.ConvertLeadRequest{})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("error kind = %v, want conflict", apperr.GetKind(err))
	}
	if len(creator.created) != 0 {
		t.Error("conversion task created for an already converted lead")
	}
}

func TestConvertUnknownLead(t *testing.T) {
	svc := New(newFakeRepo(), &fakeResolver{}, &fakeTaskCreator{}, &fakeAuditor{}, &fakeBus{}, logger.New("test"))

	_, err := svc.Convert(context.Background(), uuid.New(), uuid.New(), transport.ConvertLeadRequest{})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("error kind = %v, want not found", apperr.GetKind(err))
	}
}
