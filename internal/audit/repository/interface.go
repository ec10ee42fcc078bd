package repository

import (
	"context"
	"time"

	"resto_admin_backend/internal/audit/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListFilters narrows the audit listing surface.
type ListFilters struct {
	RestaurantID *uuid.UUID
	ActorID      *uuid.UUID
	Action       string
	EntityType   string
	EntityID     *uuid.UUID
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// Repository is the storage contract for the append-only audit ledger and its
// idempotency marker table.
type Repository interface {
	// Append writes one entry in its own transaction.
	Append(ctx context.Context, entry domain.Entry) (uuid.UUID, error)
	// AppendTx writes one entry inside a caller-owned transaction.
	AppendTx(ctx context.Context, tx pgx.Tx, entry domain.Entry) (uuid.UUID, error)
	// InsertIdempotencyKeyTx records the (entity, action, key) marker inside a
	// caller-owned transaction. A unique violation signals a replay.
	InsertIdempotencyKeyTx(ctx context.Context, tx pgx.Tx, entityID uuid.UUID, action, key string, auditLogID uuid.UUID) error
	// FindByIdempotencyKey returns the audit entry a prior execution with the
	// same (entity, action, key) triple linked to, if any.
	FindByIdempotencyKey(ctx context.Context, entityID uuid.UUID, action, key string) (domain.Entry, bool, error)
	// List returns entries newest first with a total count.
	List(ctx context.Context, filters ListFilters) ([]domain.Entry, int, error)
}
