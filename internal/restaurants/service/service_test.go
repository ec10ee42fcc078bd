package service

import (
	"context"
	"testing"

	auditdomain "resto_admin_backend/internal/audit/domain"
	auditsvc "resto_admin_backend/internal/audit/service"
	"resto_admin_backend/internal/restaurants/repository"
	"resto_admin_backend/internal/restaurants/transport"
	"resto_admin_backend/platform/apperr"
	"resto_admin_backend/platform/events"
	"resto_admin_backend/platform/logger"
	"resto_admin_backend/platform/schema"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeRepo struct {
	restaurants map[uuid.UUID]repository.Restaurant
	userCounts  map[uuid.UUID]int
	campCounts  map[uuid.UUID]int

	usersCascaded     int
	campaignsCascaded int
}

func newFakeRepo(restaurants ...repository.Restaurant) *fakeRepo {
	r := &fakeRepo{
		restaurants: make(map[uuid.UUID]repository.Restaurant),
		userCounts:  make(map[uuid.UUID]int),
		campCounts:  make(map[uuid.UUID]int),
	}
	for _, rest := range restaurants {
		r.restaurants[rest.ID] = rest
	}
	return r
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Restaurant, error) {
	rest, ok := r.restaurants[id]
	if !ok {
		return repository.Restaurant{}, apperr.NotFound("restaurant not found")
	}
	return rest, nil
}

func (r *fakeRepo) GetForUpdateTx(ctx context.Context, _ pgx.Tx, id uuid.UUID) (repository.Restaurant, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRepo) AcquireStatusLockTx(context.Context, pgx.Tx) error { return nil }

func (r *fakeRepo) CountActivePeersTx(_ context.Context, _ pgx.Tx, excludeID uuid.UUID) (int, error) {
	count := 0
	for id, rest := range r.restaurants {
		if id != excludeID && rest.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) SetActiveTx(_ context.Context, _ pgx.Tx, id uuid.UUID, active bool) error {
	rest := r.restaurants[id]
	rest.IsActive = active
	r.restaurants[id] = rest
	return nil
}

func (r *fakeRepo) SetUsersActiveTx(_ context.Context, _ pgx.Tx, restaurantID uuid.UUID, _ bool) (int, error) {
	r.usersCascaded++
	return r.userCounts[restaurantID], nil
}

func (r *fakeRepo) SetCampaignsActiveTx(_ context.Context, _ pgx.Tx, restaurantID uuid.UUID, _ bool) (int, error) {
	r.campaignsCascaded++
	return r.campCounts[restaurantID], nil
}

func (r *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Restaurant, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) FindActiveByName(_ context.Context, _ string) (repository.Restaurant, error) {
	return repository.Restaurant{}, apperr.NotFound("restaurant not found")
}

func (r *fakeRepo) ActiveByCompany(_ context.Context, _ uuid.UUID) ([]repository.Restaurant, error) {
	return nil, nil
}

func (r *fakeRepo) UserIsActiveInRestaurant(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return false, nil
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

func testRestaurant(active bool) repository.Restaurant {
	return repository.Restaurant{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		Name:      "Trattoria Nonna",
		IsActive:  active,
	}
}

func TestDeactivateLastActiveRestaurant(t *testing.T) {
	only := testRestaurant(true)
	inactive := testRestaurant(false)
	repo := newFakeRepo(only, inactive)
	auditor := &fakeAuditor{}
	svc := New(repo, auditor, schema.Capabilities{}, &fakeBus{}, logger.New("test"))

	_, err := svc.SetStatus(context.Background(), uuid.New(), only.ID,
		transport.SetStatusRequest{Status: "inactive"})

	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("error kind = %v, want conflict", apperr.GetKind(err))
	}
	if !repo.restaurants[only.ID].IsActive {
		t.Error("last active restaurant was deactivated")
	}
	if len(auditor.entries) != 0 {
		t.Error("audit entry appended on rejected deactivation")
	}
}

func TestDeactivateCascades(t *testing.T) {
	target := testRestaurant(true)
	peer := testRestaurant(true)
	repo := newFakeRepo(target, peer)
	repo.userCounts[target.ID] = 4
	auditor := &fakeAuditor{}
	bus := &fakeBus{}
	svc := New(repo, auditor, schema.Capabilities{}, bus, logger.New("test"))

	resp, err := svc.SetStatus(context.Background(), uuid.New(), target.ID,
		transport.SetStatusRequest{Status: "inactive"})
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}

	if repo.restaurants[target.ID].IsActive {
		t.Error("restaurant still active after deactivation")
	}
	if resp.Restaurant.IsActive {
		t.Error("response reports restaurant active")
	}
	if resp.RelatedUpdates.UsersUpdated != 4 {
		t.Errorf("UsersUpdated = %d, want 4", resp.RelatedUpdates.UsersUpdated)
	}
	// Campaign cascade is gated on the schema capability, absent here.
	if repo.campaignsCascaded != 0 {
		t.Error("campaigns cascaded without schema support")
	}
	if resp.RelatedUpdates.CampaignsUpdated != 0 {
		t.Errorf("CampaignsUpdated = %d, want 0", resp.RelatedUpdates.CampaignsUpdated)
	}
	if len(auditor.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(auditor.entries))
	}
	if auditor.entries[0].Action != auditdomain.ActionRestaurantDeactivate {
		t.Errorf("audit action = %q, want restaurant.deactivate", auditor.entries[0].Action)
	}
	if len(bus.published) != 1 {
		t.Errorf("events published = %d, want 1", len(bus.published))
	}
}

func TestDeactivateCascadesCampaignsWhenSupported(t *testing.T) {
	target := testRestaurant(true)
	peer := testRestaurant(true)
	repo := newFakeRepo(target, peer)
	repo.campCounts[target.ID] = 2
	svc := New(repo, &fakeAuditor{}, schema.Capabilities{CampaignActivation: true}, &fakeBus{}, logger.New("test"))

	resp, err := svc.SetStatus(context.Background(), uuid.New(), target.ID,
		transport.SetStatusRequest{Status: "inactive"})
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if repo.campaignsCascaded != 1 {
		t.Errorf("campaign cascades = %d, want 1", repo.campaignsCascaded)
	}
	if resp.RelatedUpdates.CampaignsUpdated != 2 {
		t.Errorf("CampaignsUpdated = %d, want 2", resp.RelatedUpdates.CampaignsUpdated)
	}
}

func TestActivateDoesNotCheckPeers(t *testing.T) {
	target := testRestaurant(false)
	repo := newFakeRepo(target)
	auditor := &fakeAuditor{}
	svc := New(repo, auditor, schema.Capabilities{}, &fakeBus{}, logger.New("test"))

	resp, err := svc.SetStatus(context.Background(), uuid.New(), target.ID,
		transport.SetStatusRequest{Status: "active"})
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if !resp.Restaurant.IsActive {
		t.Error("restaurant not active after activation")
	}
	if auditor.entries[0].Action != auditdomain.ActionRestaurantActivate {
		t.Errorf("audit action = %q, want restaurant.activate", auditor.entries[0].Action)
	}
}

func TestSetStatusUnknownRestaurant(t *testing.T) {
	svc := New(newFakeRepo(), &fakeAuditor{}, schema.Capabilities{}, &fakeBus{}, logger.New("test"))

	_, err := svc.SetStatus(context.Background(), uuid.New(), uuid.New(),
		transport.SetStatusRequest{Status: "inactive"})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("error kind = %v, want not found", apperr.GetKind(err))
	}
}
