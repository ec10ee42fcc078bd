package service

import (
	"context"
	"encoding/json"
	"strings"

	"resto_admin_backend/internal/audit/domain"
	"resto_admin_backend/internal/audit/repository"
	"resto_admin_backend/platform/apperr"
	"resto_admin_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Request identifies one guarded execution: the (entity, action, key) triple
// plus the attribution recorded on the audit entry.
type Request struct {
	EntityType string
	EntityID   uuid.UUID
	Action     string
	Key        string
	ActorID    uuid.UUID
}

// Execution is what a guarded function reports back on success: the tenant the
// mutation belonged to (resolved during execution) and the typed detail
// payload for the audit entry.
type Execution struct {
	RestaurantID *uuid.UUID
	Detail       interface{}
}

// ExecFn performs the guarded mutation inside the given transaction.
type ExecFn func(ctx context.Context, tx pgx.Tx) (Execution, error)

// Result reports how a guarded call concluded. On a replay, Details carries
// the originally stored payload so callers can reconstruct the first
// response; on a fresh run it carries the payload that was just written.
type Result struct {
	Replayed bool
	EntryID  uuid.UUID
	Details  json.RawMessage
}

// Guard applies each (entity, action, key) triple at most once. The replay
// marker is inserted in the same transaction as the mutation and the audit
// entry, so two concurrent requests with the same key cannot both commit: the
// loser hits the unique index, rolls back its mutation entirely, and is
// answered from the winner's audit entry.
type Guard struct {
	pool *pgxpool.Pool
	repo repository.Repository
	log  *logger.Logger
}

// NewGuard creates the idempotency guard.
func NewGuard(pool *pgxpool.Pool, repo repository.Repository, log *logger.Logger) *Guard {
	return &Guard{pool: pool, repo: repo, log: log}
}

// Run executes fn at most once for the request's (entity, action, key) triple.
func (g *Guard) Run(ctx context.Context, req Request, fn ExecFn) (Result, error) {
	if strings.TrimSpace(req.Key) == "" {
		return Result{}, apperr.Validation("idempotency key is required")
	}

	if prior, found, err := g.repo.FindByIdempotencyKey(ctx, req.EntityID, req.Action, req.Key); err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, "idempotency lookup failed", err)
	} else if found {
		g.log.AdminAction(req.Action, req.ActorID.String(), req.EntityID.String(), true)
		return Result{Replayed: true, EntryID: prior.ID, Details: prior.Details}, nil
	}

	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, "failed to start transaction", err)
	}
	defer tx.Rollback(ctx)

	exec, err := fn(ctx, tx)
	if err != nil {
		return Result{}, err
	}

	details, err := domain.EncodeDetail(req.Action, req.Key, exec.Detail)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, "failed to encode audit detail", err)
	}

	entityType := req.EntityType
	entityID := req.EntityID
	entry := domain.Entry{
		RestaurantID: exec.RestaurantID,
		ActorID:      &req.ActorID,
		Action:       req.Action,
		EntityType:   &entityType,
		EntityID:     &entityID,
		Details:      details,
	}

	entryID, err := g.repo.AppendTx(ctx, tx, entry)
	if err != nil {
		g.log.DatabaseError("audit append", err)
		return Result{}, apperr.Wrap(apperr.KindInternal, "failed to record audit entry", err)
	}

	if err := g.repo.InsertIdempotencyKeyTx(ctx, tx, req.EntityID, req.Action, req.Key, entryID); err != nil {
		if repository.IsUniqueViolation(err) {
			return g.resolveRace(ctx, tx, req)
		}
		return Result{}, apperr.Wrap(apperr.KindInternal, "failed to record idempotency key", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, "failed to commit mutation", err)
	}

	g.log.AdminAction(req.Action, req.ActorID.String(), req.EntityID.String(), false)
	return Result{Replayed: false, EntryID: entryID, Details: details}, nil
}

// resolveRace answers the loser of a concurrent duplicate from the winner's
// audit entry after rolling back the losing transaction.
func (g *Guard) resolveRace(ctx context.Context, tx pgx.Tx, req Request) (Result, error) {
	_ = tx.Rollback(ctx)

	prior, found, err := g.repo.FindByIdempotencyKey(ctx, req.EntityID, req.Action, req.Key)
	if err != nil || !found {
		return Result{}, apperr.Internal("concurrent duplicate detected but prior outcome unavailable; retry with the same key")
	}

	g.log.AdminAction(req.Action, req.ActorID.String(), req.EntityID.String(), true)
	return Result{Replayed: true, EntryID: prior.ID, Details: prior.Details}, nil
}
