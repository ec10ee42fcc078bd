package service

import (
	"context"
	"testing"
	"time"

	auditdomain "resto_admin_backend/internal/audit/domain"
	auditsvc "resto_admin_backend/internal/audit/service"
	"resto_admin_backend/internal/orders/domain"
	"resto_admin_backend/internal/orders/repository"
	"resto_admin_backend/internal/orders/transport"
	"resto_admin_backend/internal/scheduler"
	"resto_admin_backend/platform/apperr"
	"resto_admin_backend/platform/events"
	"resto_admin_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeRepo struct {
	orders   map[uuid.UUID]repository.Order
	statuses map[uuid.UUID]string
}

func newFakeRepo(orders ...repository.Order) *fakeRepo {
	r := &fakeRepo{orders: make(map[uuid.UUID]repository.Order), statuses: make(map[uuid.UUID]string)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return repository.Order{}, apperr.NotFound("order not found")
	}
	return o, nil
}

func (r *fakeRepo) GetForUpdateTx(ctx context.Context, _ pgx.Tx, id uuid.UUID) (repository.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRepo) UpdateStatusTx(_ context.Context, _ pgx.Tx, id uuid.UUID, status string) error {
	o := r.orders[id]
	o.Status = status
	r.orders[id] = o
	r.statuses[id] = status
	return nil
}

func (r *fakeRepo) SelectStalePendingTx(_ context.Context, _ pgx.Tx, cutoff time.Time) ([]repository.Order, error) {
	var stale []repository.Order
	for _, o := range r.orders {
		if o.Status == domain.StatusPending && o.CreatedAt.Before(cutoff) {
			stale = append(stale, o)
		}
	}
	return stale, nil
}

func (r *fakeRepo) CancelManyTx(_ context.Context, _ pgx.Tx, ids []uuid.UUID) error {
	for _, id := range ids {
		o := r.orders[id]
		o.Status = domain.StatusCancelled
		r.orders[id] = o
	}
	return nil
}

func (r *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Order, int, error) {
	return nil, 0, nil
}

// fakeGuard runs fn immediately and records the audit payload the way the
// real guard would, so replay behavior can be simulated.
type fakeGuard struct {
	runs    int
	stored  map[string][]byte
	lastReq auditsvc.Request
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{stored: make(map[string][]byte)}
}

func guardKey(req auditsvc.Request) string {
	return req.EntityID.String() + "|" + req.Action + "|" + req.Key
}

func (g *fakeGuard) Run(ctx context.Context, req auditsvc.Request, fn auditsvc.ExecFn) (auditsvc.Result, error) {
	if req.Key == "" {
		return auditsvc.Result{}, apperr.Validation("idempotency key is required")
	}
	g.lastReq = req

	if prior, ok := g.stored[guardKey(req)]; ok {
		return auditsvc.Result{Replayed: true, Details: prior}, nil
	}

	exec, err := fn(ctx, nil)
	if err != nil {
		return auditsvc.Result{}, err
	}
	g.runs++

	details, err := auditdomain.EncodeDetail(req.Action, req.Key, exec.Detail)
	if err != nil {
		return auditsvc.Result{}, err
	}
	g.stored[guardKey(req)] = details
	return auditsvc.Result{EntryID: uuid.New(), Details: details}, nil
}

type fakeQueue struct {
	enqueued []scheduler.ConfirmationResendPayload
}

func (q *fakeQueue) EnqueueConfirmationResend(_ context.Context, payload scheduler.ConfirmationResendPayload) error {
	q.enqueued = append(q.enqueued, payload)
	return nil
}

type fakeBus struct {
	published []events.Event
}

func (b *fakeBus) Publish(_ context.Context, event events.Event)          { b.published = append(b.published, event) }
func (b *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}
func (b *fakeBus) Subscribe(string, events.Handler) {}

func newTestService(repo *fakeRepo, guard *fakeGuard) (*Service, *fakeQueue, *fakeBus) {
	queue := &fakeQueue{}
	bus := &fakeBus{}
	return New(repo, guard, queue, bus, logger.New("test")), queue, bus
}

func testOrder(status string) repository.Order {
	return repository.Order{
		ID:            uuid.New(),
		RestaurantID:  uuid.New(),
		Status:        status,
		CustomerName:  "Dana Osei",
		CustomerEmail: "dana@example.com",
		CustomerPhone: "+14155552671",
		TotalCents:    4250,
		CreatedAt:     time.Now().Add(-time.Hour),
	}
}

func TestCancelTransitions(t *testing.T) {
	tests := []struct {
		status   string
		wantErr  apperr.Kind
		wantRuns int
	}{
		{domain.StatusPending, apperr.KindUnknown, 1},
		{domain.StatusAccepted, apperr.KindUnknown, 1},
		{domain.StatusPreparing, apperr.KindUnknown, 1},
		{domain.StatusReady, apperr.KindUnknown, 1},
		{domain.StatusCompleted, apperr.KindConflict, 0},
		{domain.StatusCancelled, apperr.KindConflict, 0},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			order := testOrder(tt.status)
			repo := newFakeRepo(order)
			guard := newFakeGuard()
			svc, _, _ := newTestService(repo, guard)

			resp, err := svc.Cancel(context.Background(), uuid.New(), order.ID,
				transport.CancelOrderRequest{Reason: "customer no-show"}, "key-1")

			if tt.wantErr != apperr.KindUnknown {
				if apperr.GetKind(err) != tt.wantErr {
					t.Fatalf("Cancel() error kind = %v, want %v", apperr.GetKind(err), tt.wantErr)
				}
				if repo.statuses[order.ID] != "" {
					t.Error("order mutated on rejected transition")
				}
			} else {
				if err != nil {
					t.Fatalf("Cancel() error = %v", err)
				}
				if resp.Status != domain.StatusCancelled {
					t.Errorf("Status = %q, want cancelled", resp.Status)
				}
			}
			if guard.runs != tt.wantRuns {
				t.Errorf("guard runs = %d, want %d", guard.runs, tt.wantRuns)
			}
		})
	}
}

func TestCancelRequiresReason(t *testing.T) {
	order := testOrder(domain.StatusPending)
	repo := newFakeRepo(order)
	guard := newFakeGuard()
	svc, _, _ := newTestService(repo, guard)

	for _, reason := range []string{"", "   ", "<p></p>"} {
		_, err := svc.Cancel(context.Background(), uuid.New(), order.ID,
			transport.CancelOrderRequest{Reason: reason}, "key-1")
		if apperr.GetKind(err) != apperr.KindValidation {
			t.Errorf("Cancel(reason=%q) error kind = %v, want validation", reason, apperr.GetKind(err))
		}
	}
	if guard.runs != 0 {
		t.Errorf("guard runs = %d, want 0 before reason validation", guard.runs)
	}
}

func TestCancelReplayIsResponseEquivalent(t *testing.T) {
	order := testOrder(domain.StatusPending)
	repo := newFakeRepo(order)
	guard := newFakeGuard()
	svc, _, bus := newTestService(repo, guard)

	actor := uuid.New()
	first, err := svc.Cancel(context.Background(), actor, order.ID,
		transport.CancelOrderRequest{Reason: "kitchen closed"}, "key-7")
	if err != nil {
		t.Fatalf("first Cancel() error = %v", err)
	}

	second, err := svc.Cancel(context.Background(), actor, order.ID,
		transport.CancelOrderRequest{Reason: "kitchen closed"}, "key-7")
	if err != nil {
		t.Fatalf("replayed Cancel() error = %v", err)
	}

	if guard.runs != 1 {
		t.Errorf("guard runs = %d, want 1", guard.runs)
	}
	if !second.Replayed {
		t.Error("Replayed = false on replay, want true")
	}
	if second.Status != first.Status || second.OrderID != first.OrderID {
		t.Errorf("replay outcome = %+v, want same as first %+v", second, first)
	}
	if len(bus.published) != 1 {
		t.Errorf("events published = %d, want 1 (no event on replay)", len(bus.published))
	}
}

func TestReopenOnlyFromCancelled(t *testing.T) {
	cancelled := testOrder(domain.StatusCancelled)
	pending := testOrder(domain.StatusPending)
	repo := newFakeRepo(cancelled, pending)
	guard := newFakeGuard()
	svc, _, _ := newTestService(repo, guard)

	resp, err := svc.Reopen(context.Background(), uuid.New(), cancelled.ID,
		transport.ReopenOrderRequest{Reason: "cancelled by mistake"}, "key-1")
	if err != nil {
		t.Fatalf("Reopen() error = %v", err)
	}
	if resp.Status != domain.StatusPending {
		t.Errorf("Status = %q, want pending", resp.Status)
	}

	_, err = svc.Reopen(context.Background(), uuid.New(), pending.ID,
		transport.ReopenOrderRequest{Reason: "oops"}, "key-2")
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("Reopen(pending) error kind = %v, want conflict", apperr.GetKind(err))
	}
}

func TestResendConfirmation(t *testing.T) {
	t.Run("invalid channel", func(t *testing.T) {
		order := testOrder(domain.StatusAccepted)
		svc, queue, _ := newTestService(newFakeRepo(order), newFakeGuard())

		_, err := svc.ResendConfirmation(context.Background(), uuid.New(), order.ID,
			transport.ResendConfirmationRequest{Channel: "fax"}, "key-1")
		if apperr.GetKind(err) != apperr.KindValidation {
			t.Errorf("error kind = %v, want validation", apperr.GetKind(err))
		}
		if len(queue.enqueued) != 0 {
			t.Error("delivery queued despite invalid channel")
		}
	})

	t.Run("cancelled order rejected", func(t *testing.T) {
		order := testOrder(domain.StatusCancelled)
		svc, queue, _ := newTestService(newFakeRepo(order), newFakeGuard())

		_, err := svc.ResendConfirmation(context.Background(), uuid.New(), order.ID,
			transport.ResendConfirmationRequest{Channel: domain.ChannelEmail}, "key-1")
		if apperr.GetKind(err) != apperr.KindConflict {
			t.Errorf("error kind = %v, want conflict", apperr.GetKind(err))
		}
		if len(queue.enqueued) != 0 {
			t.Error("delivery queued despite cancelled order")
		}
	})

	t.Run("email queued", func(t *testing.T) {
		order := testOrder(domain.StatusAccepted)
		svc, queue, _ := newTestService(newFakeRepo(order), newFakeGuard())

		resp, err := svc.ResendConfirmation(context.Background(), uuid.New(), order.ID,
			transport.ResendConfirmationRequest{Channel: domain.ChannelEmail}, "key-1")
		if err != nil {
			t.Fatalf("ResendConfirmation() error = %v", err)
		}
		if resp.DeliveryStatus != "queued" {
			t.Errorf("DeliveryStatus = %q, want queued", resp.DeliveryStatus)
		}
		if len(queue.enqueued) != 1 || queue.enqueued[0].Recipient != order.CustomerEmail {
			t.Errorf("enqueued = %+v, want one delivery to %s", queue.enqueued, order.CustomerEmail)
		}
	})

	t.Run("sms requires deliverable phone", func(t *testing.T) {
		order := testOrder(domain.StatusAccepted)
		order.CustomerPhone = "not a number"
		svc, queue, _ := newTestService(newFakeRepo(order), newFakeGuard())

		_, err := svc.ResendConfirmation(context.Background(), uuid.New(), order.ID,
			transport.ResendConfirmationRequest{Channel: domain.ChannelSMS}, "key-1")
		if apperr.GetKind(err) != apperr.KindValidation {
			t.Errorf("error kind = %v, want validation", apperr.GetKind(err))
		}
		if len(queue.enqueued) != 0 {
			t.Error("delivery queued despite undeliverable phone")
		}
	})
}

func TestBulkCancelStale(t *testing.T) {
	stale := testOrder(domain.StatusPending)
	stale.CreatedAt = time.Now().Add(-2 * time.Hour)
	fresh := testOrder(domain.StatusPending)
	fresh.CreatedAt = time.Now()
	accepted := testOrder(domain.StatusAccepted)
	accepted.CreatedAt = time.Now().Add(-2 * time.Hour)

	repo := newFakeRepo(stale, fresh, accepted)
	guard := newFakeGuard()
	svc, _, _ := newTestService(repo, guard)

	resp, err := svc.BulkCancelStale(context.Background(), uuid.New(),
		transport.BulkCancelStaleRequest{StaleMinutes: 30}, "sweep-1")
	if err != nil {
		t.Fatalf("BulkCancelStale() error = %v", err)
	}
	if resp.TotalCancelled != 1 || len(resp.CancelledOrderIDs) != 1 {
		t.Fatalf("TotalCancelled = %d, want 1", resp.TotalCancelled)
	}
	if resp.CancelledOrderIDs[0] != stale.ID {
		t.Errorf("cancelled %v, want %v", resp.CancelledOrderIDs[0], stale.ID)
	}
	if repo.orders[fresh.ID].Status != domain.StatusPending {
		t.Error("fresh pending order was cancelled")
	}
	if guard.lastReq.EntityType != auditdomain.EntityPlatform {
		t.Errorf("guard entity type = %q, want platform sentinel", guard.lastReq.EntityType)
	}

	_, err = svc.BulkCancelStale(context.Background(), uuid.New(),
		transport.BulkCancelStaleRequest{StaleMinutes: 0}, "sweep-2")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("StaleMinutes=0 error kind = %v, want validation", apperr.GetKind(err))
	}
}
