// Package service implements the audit ledger surface: a Recorder that every
// admin mutation writes through, and the idempotency Guard for keyed actions.
package service

import (
	"context"
	"fmt"

	"resto_admin_backend/internal/audit/domain"
	"resto_admin_backend/internal/audit/repository"
	"resto_admin_backend/internal/audit/transport"
	"resto_admin_backend/platform/apperr"
	"resto_admin_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MutateFn performs an entity mutation inside the given transaction and
// returns the audit entry documenting it. If it returns an error nothing is
// persisted, including the entry.
type MutateFn func(ctx context.Context, tx pgx.Tx) (domain.Entry, error)

// Recorder appends to and reads from the audit ledger.
type Recorder struct {
	pool *pgxpool.Pool
	repo repository.Repository
	log  *logger.Logger
}

// NewRecorder creates the audit recorder.
func NewRecorder(pool *pgxpool.Pool, repo repository.Repository, log *logger.Logger) *Recorder {
	return &Recorder{pool: pool, repo: repo, log: log}
}

// Append writes a single entry outside any caller transaction.
func (r *Recorder) Append(ctx context.Context, entry domain.Entry) (uuid.UUID, error) {
	id, err := r.repo.Append(ctx, entry)
	if err != nil {
		r.log.DatabaseError("audit append", err)
		return uuid.Nil, apperr.Wrap(apperr.KindInternal, "failed to record audit entry", err)
	}
	return id, nil
}

// Mutate runs fn and appends the entry it returns in one transaction, so the
// entity mutation and its audit record persist together or not at all.
func (r *Recorder) Mutate(ctx context.Context, fn MutateFn) (uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.KindInternal, "failed to start transaction", err)
	}
	defer tx.Rollback(ctx)

	entry, err := fn(ctx, tx)
	if err != nil {
		return uuid.Nil, err
	}

	entryID, err := r.repo.AppendTx(ctx, tx, entry)
	if err != nil {
		r.log.DatabaseError("audit append", err)
		return uuid.Nil, apperr.Wrap(apperr.KindInternal, "failed to record audit entry", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, apperr.Wrap(apperr.KindInternal, "failed to commit mutation", err)
	}
	return entryID, nil
}

// List returns audit entries for the console listing surface. Structured
// details are decoded into their envelope; anything unparseable is passed
// through as raw text rather than failing the read.
func (r *Recorder) List(ctx context.Context, req transport.ListAuditLogsRequest) (transport.AuditLogListResponse, error) {
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

	filters := repository.ListFilters{
		RestaurantID: req.RestaurantID,
		ActorID:      req.ActorID,
		Action:       req.Action,
		EntityType:   req.EntityType,
		EntityID:     req.EntityID,
		From:         req.From,
		To:           req.To,
		Limit:        pageSize,
		Offset:       (page - 1) * pageSize,
	}

	entries, total, err := r.repo.List(ctx, filters)
	if err != nil {
		return transport.AuditLogListResponse{}, fmt.Errorf("list audit log: %w", err)
	}

	items := make([]transport.AuditLogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, transport.ToEntryResponse(entry))
	}

	return transport.AuditLogListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
