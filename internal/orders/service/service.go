// Package service implements platform-admin order interventions: guarded
// cancel/reopen transitions, confirmation redelivery, and the stale sweep.
package service

import (
	"context"
	"time"

	auditdomain "resto_admin_backend/internal/audit/domain"
	auditsvc "resto_admin_backend/internal/audit/service"
	"resto_admin_backend/internal/events"
	"resto_admin_backend/internal/orders/domain"
	"resto_admin_backend/internal/orders/repository"
	"resto_admin_backend/internal/orders/transport"
	"resto_admin_backend/internal/scheduler"
	"resto_admin_backend/platform/apperr"
	"resto_admin_backend/platform/logger"
	"resto_admin_backend/platform/phone"
	"resto_admin_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IdempotencyGuard is the slice of the audit guard this service depends on.
type IdempotencyGuard interface {
	Run(ctx context.Context, req auditsvc.Request, fn auditsvc.ExecFn) (auditsvc.Result, error)
}

// Service provides order intervention logic.
type Service struct {
	repo  repository.Repository
	guard IdempotencyGuard
	queue scheduler.DeliveryQueue
	bus   events.Bus
	log   *logger.Logger
}

// New creates the orders service.
func New(repo repository.Repository, guard IdempotencyGuard, queue scheduler.DeliveryQueue, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, guard: guard, queue: queue, bus: bus, log: log}
}

// Cancel transitions an order to cancelled. Legal from pending, accepted,
// preparing, and ready only; one audit entry records the transition.
func (s *Service) Cancel(ctx context.Context, actorID, orderID uuid.UUID, req transport.CancelOrderRequest, idempotencyKey string) (transport.OrderStatusResponse, error) {
	reason := sanitize.Reason(req.Reason, domain.MaxReasonLength)
	if reason == "" {
		return transport.OrderStatusResponse{}, apperr.Validation("cancellation reason is required")
	}

	return s.transition(ctx, actorID, orderID, idempotencyKey, auditdomain.ActionOrderCancel, reason,
		func(current string) (string, error) {
			if !domain.CanCancel(current) {
				return "", apperr.Conflictf("cannot cancel an order in status %q", current)
			}
			return domain.StatusCancelled, nil
		})
}

// Reopen returns a cancelled order to pending.
func (s *Service) Reopen(ctx context.Context, actorID, orderID uuid.UUID, req transport.ReopenOrderRequest, idempotencyKey string) (transport.OrderStatusResponse, error) {
	reason := sanitize.Reason(req.Reason, domain.MaxReasonLength)
	if reason == "" {
		return transport.OrderStatusResponse{}, apperr.Validation("reopen reason is required")
	}

	return s.transition(ctx, actorID, orderID, idempotencyKey, auditdomain.ActionOrderReopen, reason,
		func(current string) (string, error) {
			if !domain.CanReopen(current) {
				return "", apperr.Conflictf("cannot reopen an order in status %q", current)
			}
			return domain.ReopenTarget, nil
		})
}

// transition runs one guarded status change. next decides the target status
// from the locked current status or rejects with Conflict.
func (s *Service) transition(ctx context.Context, actorID, orderID uuid.UUID, idempotencyKey, action, reason string, next func(current string) (string, error)) (transport.OrderStatusResponse, error) {
	var restaurantID uuid.UUID
	var applied auditdomain.StatusChangeDetail

	result, err := s.guard.Run(ctx, auditsvc.Request{
		EntityType: auditdomain.EntityOrder,
		EntityID:   orderID,
		Action:     action,
		Key:        idempotencyKey,
		ActorID:    actorID,
	}, func(ctx context.Context, tx pgx.Tx) (auditsvc.Execution, error) {
		order, err := s.repo.GetForUpdateTx(ctx, tx, orderID)
		if err != nil {
			return auditsvc.Execution{}, err
		}

		target, err := next(order.Status)
		if err != nil {
			return auditsvc.Execution{}, err
		}

		if err := s.repo.UpdateStatusTx(ctx, tx, orderID, target); err != nil {
			return auditsvc.Execution{}, err
		}

		restaurantID = order.RestaurantID
		applied = auditdomain.StatusChangeDetail{
			PreviousStatus: order.Status,
			NewStatus:      target,
			Reason:         reason,
		}
		return auditsvc.Execution{RestaurantID: &order.RestaurantID, Detail: applied}, nil
	})
	if err != nil {
		return transport.OrderStatusResponse{}, err
	}

	if result.Replayed {
		var stored auditdomain.StatusChangeDetail
		if err := decodeStored(result.Details, &stored); err != nil {
			return transport.OrderStatusResponse{}, err
		}
		return transport.OrderStatusResponse{OrderID: orderID, Status: stored.NewStatus, Replayed: true}, nil
	}

	s.publishTransition(ctx, action, orderID, restaurantID, reason, actorID)
	return transport.OrderStatusResponse{OrderID: orderID, Status: applied.NewStatus}, nil
}

func (s *Service) publishTransition(ctx context.Context, action string, orderID, restaurantID uuid.UUID, reason string, actorID uuid.UUID) {
	switch action {
	case auditdomain.ActionOrderCancel:
		s.bus.Publish(ctx, events.OrderCancelled{
			BaseEvent:    events.NewBaseEvent(),
			OrderID:      orderID,
			RestaurantID: restaurantID,
			Reason:       reason,
			ActorID:      actorID,
		})
	case auditdomain.ActionOrderReopen:
		s.bus.Publish(ctx, events.OrderReopened{
			BaseEvent:    events.NewBaseEvent(),
			OrderID:      orderID,
			RestaurantID: restaurantID,
			Reason:       reason,
			ActorID:      actorID,
		})
	}
}

// ResendConfirmation validates the channel and recipient, then queues one
// redelivery. Cancelled orders are rejected with Conflict.
func (s *Service) ResendConfirmation(ctx context.Context, actorID, orderID uuid.UUID, req transport.ResendConfirmationRequest, idempotencyKey string) (transport.ResendConfirmationResponse, error) {
	if !domain.ValidChannel(req.Channel) {
		return transport.ResendConfirmationResponse{}, apperr.Validationf("unsupported channel %q, expected sms or email", req.Channel)
	}

	result, err := s.guard.Run(ctx, auditsvc.Request{
		EntityType: auditdomain.EntityOrder,
		EntityID:   orderID,
		Action:     auditdomain.ActionOrderResendConfirmation,
		Key:        idempotencyKey,
		ActorID:    actorID,
	}, func(ctx context.Context, tx pgx.Tx) (auditsvc.Execution, error) {
		order, err := s.repo.GetForUpdateTx(ctx, tx, orderID)
		if err != nil {
			return auditsvc.Execution{}, err
		}
		if order.Status == domain.StatusCancelled {
			return auditsvc.Execution{}, apperr.Conflict("cannot resend confirmation for a cancelled order")
		}

		recipient, err := resolveRecipient(order, req.Channel)
		if err != nil {
			return auditsvc.Execution{}, err
		}

		// Queued before commit: a failed commit can produce a duplicate
		// delivery, which the at-least-once queue contract already allows.
		if err := s.queue.EnqueueConfirmationResend(ctx, scheduler.ConfirmationResendPayload{
			OrderID:      order.ID.String(),
			RestaurantID: order.RestaurantID.String(),
			Channel:      req.Channel,
			Recipient:    recipient,
			CustomerName: order.CustomerName,
			TotalCents:   order.TotalCents,
		}); err != nil {
			return auditsvc.Execution{}, apperr.Wrap(apperr.KindInternal, "failed to queue confirmation delivery", err)
		}

		return auditsvc.Execution{
			RestaurantID: &order.RestaurantID,
			Detail: auditdomain.ResendConfirmationDetail{
				Channel:        req.Channel,
				Recipient:      recipient,
				DeliveryStatus: "queued",
			},
		}, nil
	})
	if err != nil {
		return transport.ResendConfirmationResponse{}, err
	}

	if result.Replayed {
		var stored auditdomain.ResendConfirmationDetail
		if err := decodeStored(result.Details, &stored); err != nil {
			return transport.ResendConfirmationResponse{}, err
		}
		return transport.ResendConfirmationResponse{
			OrderID:        orderID,
			Channel:        stored.Channel,
			DeliveryStatus: stored.DeliveryStatus,
			Replayed:       true,
		}, nil
	}

	return transport.ResendConfirmationResponse{
		OrderID:        orderID,
		Channel:        req.Channel,
		DeliveryStatus: "queued",
	}, nil
}

func resolveRecipient(order repository.Order, channel string) (string, error) {
	switch channel {
	case domain.ChannelEmail:
		if order.CustomerEmail == "" {
			return "", apperr.Validation("order has no customer email on file")
		}
		return order.CustomerEmail, nil
	case domain.ChannelSMS:
		normalized, err := phone.ValidateE164(order.CustomerPhone)
		if err != nil {
			return "", apperr.Validation("order has no deliverable customer phone number")
		}
		return normalized, nil
	default:
		return "", apperr.Validationf("unsupported channel %q", channel)
	}
}

// BulkCancelStale cancels every pending order older than staleMinutes in one
// guarded transaction, keyed on the platform-wide sentinel entity.
func (s *Service) BulkCancelStale(ctx context.Context, actorID uuid.UUID, req transport.BulkCancelStaleRequest, idempotencyKey string) (transport.BulkCancelStaleResponse, error) {
	if req.StaleMinutes < 1 {
		return transport.BulkCancelStaleResponse{}, apperr.Validation("staleMinutes must be at least 1")
	}

	var applied auditdomain.BulkCancelDetail

	result, err := s.guard.Run(ctx, auditsvc.Request{
		EntityType: auditdomain.EntityPlatform,
		EntityID:   uuid.Nil,
		Action:     auditdomain.ActionOrderBulkCancelStale,
		Key:        idempotencyKey,
		ActorID:    actorID,
	}, func(ctx context.Context, tx pgx.Tx) (auditsvc.Execution, error) {
		cutoff := time.Now().Add(-time.Duration(req.StaleMinutes) * time.Minute)

		stale, err := s.repo.SelectStalePendingTx(ctx, tx, cutoff)
		if err != nil {
			return auditsvc.Execution{}, err
		}

		ids := make([]uuid.UUID, 0, len(stale))
		for _, o := range stale {
			ids = append(ids, o.ID)
		}

		if err := s.repo.CancelManyTx(ctx, tx, ids); err != nil {
			return auditsvc.Execution{}, err
		}

		applied = auditdomain.BulkCancelDetail{
			StaleMinutes:      req.StaleMinutes,
			CancelledOrderIDs: ids,
			TotalCancelled:    len(ids),
		}
		return auditsvc.Execution{Detail: applied}, nil
	})
	if err != nil {
		return transport.BulkCancelStaleResponse{}, err
	}

	if result.Replayed {
		var stored auditdomain.BulkCancelDetail
		if err := decodeStored(result.Details, &stored); err != nil {
			return transport.BulkCancelStaleResponse{}, err
		}
		return transport.BulkCancelStaleResponse{
			CancelledOrderIDs: stored.CancelledOrderIDs,
			TotalCancelled:    stored.TotalCancelled,
			Replayed:          true,
		}, nil
	}

	s.log.Info("stale orders cancelled", "count", applied.TotalCancelled, "stale_minutes", req.StaleMinutes)
	return transport.BulkCancelStaleResponse{
		CancelledOrderIDs: applied.CancelledOrderIDs,
		TotalCancelled:    applied.TotalCancelled,
	}, nil
}

// List retrieves orders for the admin console.
func (s *Service) List(ctx context.Context, req transport.ListOrdersRequest) (transport.OrderListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}

	orders, total, err := s.repo.List(ctx, repository.ListParams{
		RestaurantID: req.RestaurantID,
		Status:       req.Status,
		Limit:        pageSize,
		Offset:       (page - 1) * pageSize,
	})
	if err != nil {
		return transport.OrderListResponse{}, err
	}

	items := make([]transport.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, transport.OrderResponse{
			ID:            o.ID,
			RestaurantID:  o.RestaurantID,
			Status:        o.Status,
			CustomerName:  o.CustomerName,
			CustomerEmail: o.CustomerEmail,
			CustomerPhone: o.CustomerPhone,
			TotalCents:    o.TotalCents,
			CreatedAt:     o.CreatedAt.Format(time.RFC3339),
			UpdatedAt:     o.UpdatedAt.Format(time.RFC3339),
		})
	}

	return transport.OrderListResponse{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// decodeStored rebuilds a response from a replayed audit payload.
func decodeStored(raw []byte, out interface{}) error {
	envelope, ok := auditdomain.DecodeDetail(raw)
	if !ok {
		return apperr.Internal("stored outcome is unreadable; contact support before retrying")
	}
	if err := auditdomain.DecodeData(envelope, out); err != nil {
		return apperr.Wrap(apperr.KindInternal, "stored outcome is unreadable", err)
	}
	return nil
}
