// Package service implements campaign moderation: guarded approve and
// disapprove transitions with an audit entry per applied change.
package service

import (
	"context"
	"time"

	auditdomain "resto_admin_backend/internal/audit/domain"
	auditsvc "resto_admin_backend/internal/audit/service"
	"resto_admin_backend/internal/campaigns/domain"
	"resto_admin_backend/internal/campaigns/repository"
	"resto_admin_backend/internal/campaigns/transport"
	"resto_admin_backend/internal/events"
	"resto_admin_backend/platform/apperr"
	"resto_admin_backend/platform/logger"
	"resto_admin_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Auditor is the slice of the audit recorder this service depends on.
type Auditor interface {
	Mutate(ctx context.Context, fn auditsvc.MutateFn) (uuid.UUID, error)
}

// Service provides campaign moderation logic.
type Service struct {
	repo    repository.Repository
	auditor Auditor
	bus     events.Bus
	log     *logger.Logger
	now     func() time.Time
}

// New creates the campaigns service.
func New(repo repository.Repository, auditor Auditor, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, auditor: auditor, bus: bus, log: log, now: time.Now}
}

// Approve moves a campaign out of the moderation queue. Campaigns with a
// future scheduled_at go to scheduled, everything else to approved.
func (s *Service) Approve(ctx context.Context, actorID, campaignID uuid.UUID) (transport.CampaignStatusResponse, error) {
	return s.moderate(ctx, actorID, campaignID, domain.ActionApprove, nil)
}

// Disapprove rejects a campaign, persisting the optional reason.
func (s *Service) Disapprove(ctx context.Context, actorID, campaignID uuid.UUID, req transport.DisapproveCampaignRequest) (transport.CampaignStatusResponse, error) {
	var reason *string
	if req.Reason != nil {
		cleaned := sanitize.Reason(*req.Reason, domain.MaxReasonLength)
		if cleaned != "" {
			reason = &cleaned
		}
	}
	return s.moderate(ctx, actorID, campaignID, domain.ActionDisapprove, reason)
}

func (s *Service) moderate(ctx context.Context, actorID, campaignID uuid.UUID, action string, reason *string) (transport.CampaignStatusResponse, error) {
	var (
		restaurantID uuid.UUID
		previous     string
		target       string
	)

	_, err := s.auditor.Mutate(ctx, func(ctx context.Context, tx pgx.Tx) (auditdomain.Entry, error) {
		campaign, err := s.repo.GetForUpdateTx(ctx, tx, campaignID)
		if err != nil {
			return auditdomain.Entry{}, err
		}

		switch action {
		case domain.ActionApprove:
			if !domain.CanApprove(campaign.Status) {
				return auditdomain.Entry{}, apperr.Conflictf("cannot approve a campaign in status %q", campaign.Status)
			}
			target = domain.ApprovalTarget(campaign.ScheduledAt, s.now())
		case domain.ActionDisapprove:
			if !domain.CanDisapprove(campaign.Status) {
				return auditdomain.Entry{}, apperr.Conflictf("cannot disapprove a campaign in status %q", campaign.Status)
			}
			target = domain.StatusRejected
		default:
			return auditdomain.Entry{}, apperr.Validationf("unknown moderation action %q", action)
		}

		if err := s.repo.UpdateStatusTx(ctx, tx, campaignID, target, reason); err != nil {
			return auditdomain.Entry{}, err
		}

		restaurantID = campaign.RestaurantID
		previous = campaign.Status

		auditAction := auditdomain.ActionCampaignApprove
		if action == domain.ActionDisapprove {
			auditAction = auditdomain.ActionCampaignDisapprove
		}
		details, err := auditdomain.EncodeDetail(auditAction, "", auditdomain.ModerationDetail{
			PreviousStatus: previous,
			NewStatus:      target,
			Reason:         reason,
		})
		if err != nil {
			return auditdomain.Entry{}, err
		}

		entityType := auditdomain.EntityCampaign
		entityID := campaignID
		return auditdomain.Entry{
			RestaurantID: &restaurantID,
			ActorID:      &actorID,
			Action:       auditAction,
			EntityType:   &entityType,
			EntityID:     &entityID,
			Details:      details,
		}, nil
	})
	if err != nil {
		return transport.CampaignStatusResponse{}, err
	}

	s.bus.Publish(ctx, events.CampaignModerated{
		BaseEvent:      events.NewBaseEvent(),
		CampaignID:     campaignID,
		RestaurantID:   restaurantID,
		Action:         action,
		PreviousStatus: previous,
		NewStatus:      target,
		ActorID:        actorID,
	})

	s.log.Info("campaign moderated", "campaign_id", campaignID, "action", action, "new_status", target)
	return transport.CampaignStatusResponse{CampaignID: campaignID, Status: target}, nil
}

// List retrieves campaigns for the moderation queue.
func (s *Service) List(ctx context.Context, req transport.ListCampaignsRequest) (transport.ListCampaignsResponse, error) {
	limit := req.Limit
	if limit < 1 {
		limit = 50
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	campaigns, total, err := s.repo.List(ctx, repository.ListParams{
		RestaurantID: req.RestaurantID,
		Status:       req.Status,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return transport.ListCampaignsResponse{}, err
	}

	items := make([]transport.CampaignResponse, 0, len(campaigns))
	for _, cp := range campaigns {
		items = append(items, transport.ToCampaignResponse(cp))
	}
	return transport.ListCampaignsResponse{Campaigns: items, Total: total, Limit: limit, Offset: offset}, nil
}
