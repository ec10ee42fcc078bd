package service

import (
	"context"
	"testing"
	"time"

	auditdomain "resto_admin_backend/internal/audit/domain"
	auditsvc "resto_admin_backend/internal/audit/service"
	"resto_admin_backend/internal/campaigns/domain"
	"resto_admin_backend/internal/campaigns/repository"
	"resto_admin_backend/internal/campaigns/transport"
	"resto_admin_backend/platform/apperr"
	"resto_admin_backend/platform/events"
	"resto_admin_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeRepo struct {
	campaigns map[uuid.UUID]repository.Campaign
	reasons   map[uuid.UUID]*string
}

func newFakeRepo(campaigns ...repository.Campaign) *fakeRepo {
	r := &fakeRepo{campaigns: make(map[uuid.UUID]repository.Campaign), reasons: make(map[uuid.UUID]*string)}
	for _, cp := range campaigns {
		r.campaigns[cp.ID] = cp
	}
	return r
}

func (r *fakeRepo) GetForUpdateTx(_ context.Context, _ pgx.Tx, id uuid.UUID) (repository.Campaign, error) {
	cp, ok := r.campaigns[id]
	if !ok {
		return repository.Campaign{}, apperr.NotFound("campaign not found")
	}
	return cp, nil
}

func (r *fakeRepo) UpdateStatusTx(_ context.Context, _ pgx.Tx, id uuid.UUID, status string, reason *string) error {
	cp := r.campaigns[id]
	cp.Status = status
	r.campaigns[id] = cp
	r.reasons[id] = reason
	return nil
}

func (r *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Campaign, int, error) {
	return nil, 0, nil
}

// fakeAuditor runs the mutation with a nil transaction and keeps the entries
// it would have appended.
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

func testCampaign(status string, scheduledAt *time.Time) repository.Campaign {
	return repository.Campaign{
		ID:           uuid.New(),
		RestaurantID: uuid.New(),
		Name:         "Spring Menu Launch",
		Status:       status,
		ScheduledAt:  scheduledAt,
	}
}

func TestApprove(t *testing.T) {
	future := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name        string
		status      string
		scheduledAt *time.Time
		want        string
		wantErr     apperr.Kind
	}{
		{"pending with future schedule", domain.StatusPendingOwnerApproval, &future, domain.StatusScheduled, apperr.KindUnknown},
		{"pending without schedule", domain.StatusPendingOwnerApproval, nil, domain.StatusApproved, apperr.KindUnknown},
		{"draft rejected", domain.StatusDraft, nil, "", apperr.KindConflict},
		{"already approved", domain.StatusApproved, nil, "", apperr.KindConflict},
		{"sent rejected", domain.StatusSent, nil, "", apperr.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaign := testCampaign(tt.status, tt.scheduledAt)
			repo := newFakeRepo(campaign)
			auditor := &fakeAuditor{}
			svc := New(repo, auditor, &fakeBus{}, logger.New("test"))

			resp, err := svc.Approve(context.Background(), uuid.New(), campaign.ID)

			if tt.wantErr != apperr.KindUnknown {
				if apperr.GetKind(err) != tt.wantErr {
					t.Fatalf("Approve() error kind = %v, want %v", apperr.GetKind(err), tt.wantErr)
				}
				if repo.campaigns[campaign.ID].Status != tt.status {
					t.Error("campaign mutated on rejected moderation")
				}
				if len(auditor.entries) != 0 {
					t.Error("audit entry appended on rejected moderation")
				}
				return
			}

			if err != nil {
				t.Fatalf("Approve() error = %v", err)
			}
			if resp.Status != tt.want {
				t.Errorf("Status = %q, want %q", resp.Status, tt.want)
			}
			if len(auditor.entries) != 1 {
				t.Fatalf("audit entries = %d, want 1", len(auditor.entries))
			}
			if auditor.entries[0].Action != auditdomain.ActionCampaignApprove {
				t.Errorf("audit action = %q, want campaign.approve", auditor.entries[0].Action)
			}
		})
	}
}

func TestDisapprove(t *testing.T) {
	t.Run("from pending persists reason", func(t *testing.T) {
		campaign := testCampaign(domain.StatusPendingOwnerApproval, nil)
		repo := newFakeRepo(campaign)
		auditor := &fakeAuditor{}
		bus := &fakeBus{}
		svc := New(repo, auditor, bus, logger.New("test"))

		reason := "imagery violates brand guidelines"
		resp, err := svc.Disapprove(context.Background(), uuid.New(), campaign.ID,
			transport.DisapproveCampaignRequest{Reason: &reason})
		if err != nil {
			t.Fatalf("Disapprove() error = %v", err)
		}
		if resp.Status != domain.StatusRejected {
			t.Errorf("Status = %q, want rejected", resp.Status)
		}
		if stored := repo.reasons[campaign.ID]; stored == nil || *stored != reason {
			t.Errorf("stored reason = %v, want %q", stored, reason)
		}
		if len(bus.published) != 1 {
			t.Errorf("events published = %d, want 1", len(bus.published))
		}
	})

	t.Run("from approved", func(t *testing.T) {
		campaign := testCampaign(domain.StatusApproved, nil)
		svc := New(newFakeRepo(campaign), &fakeAuditor{}, &fakeBus{}, logger.New("test"))

		resp, err := svc.Disapprove(context.Background(), uuid.New(), campaign.ID, transport.DisapproveCampaignRequest{})
		if err != nil {
			t.Fatalf("Disapprove() error = %v", err)
		}
		if resp.Status != domain.StatusRejected {
			t.Errorf("Status = %q, want rejected", resp.Status)
		}
	})

	t.Run("from rejected is a conflict", func(t *testing.T) {
		campaign := testCampaign(domain.StatusRejected, nil)
		auditor := &fakeAuditor{}
		svc := New(newFakeRepo(campaign), auditor, &fakeBus{}, logger.New("test"))

		_, err := svc.Disapprove(context.Background(), uuid.New(), campaign.ID, transport.DisapproveCampaignRequest{})
		if apperr.GetKind(err) != apperr.KindConflict {
			t.Errorf("error kind = %v, want conflict", apperr.GetKind(err))
		}
		if len(auditor.entries) != 0 {
			t.Error("audit entry appended on rejected moderation")
		}
	})
}

func TestModerateUnknownCampaign(t *testing.T) {
	svc := New(newFakeRepo(), &fakeAuditor{}, &fakeBus{}, logger.New("test"))

	_, err := svc.Approve(context.Background(), uuid.New(), uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("error kind = %v, want not found", apperr.GetKind(err))
	}
}
