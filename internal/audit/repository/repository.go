package repository

import (
	"context"
	"errors"
	"fmt"

	"resto_admin_backend/internal/audit/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const insertEntry = `
	INSERT INTO audit_log (id, restaurant_id, actor_id, action, entity_type, entity_id, details, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	RETURNING id, created_at`

// Append writes one entry in its own transaction.
func (r *Repo) Append(ctx context.Context, entry domain.Entry) (uuid.UUID, error) {
	return r.append(ctx, r.pool, entry)
}

// AppendTx writes one entry inside a caller-owned transaction.
func (r *Repo) AppendTx(ctx context.Context, tx pgx.Tx, entry domain.Entry) (uuid.UUID, error) {
	return r.append(ctx, tx, entry)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *Repo) append(ctx context.Context, q queryRower, entry domain.Entry) (uuid.UUID, error) {
	id := entry.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var insertedID uuid.UUID
	err := q.QueryRow(ctx, insertEntry,
		id, entry.RestaurantID, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID, entry.Details,
	).Scan(&insertedID, &entry.CreatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("append audit entry: %w", err)
	}
	return insertedID, nil
}

// InsertIdempotencyKeyTx records the replay marker. The unique index on
// (entity_id, action, idem_key) makes the first writer win; losers roll back.
func (r *Repo) InsertIdempotencyKeyTx(ctx context.Context, tx pgx.Tx, entityID uuid.UUID, action, key string, auditLogID uuid.UUID) error {
	query := `
		INSERT INTO idempotency_keys (entity_id, action, idem_key, audit_log_id, created_at)
		VALUES ($1, $2, $3, $4, now())`

	if _, err := tx.Exec(ctx, query, entityID, action, key, auditLogID); err != nil {
		return fmt.Errorf("insert idempotency key: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation, which the guard treats as a concurrent replay.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// FindByIdempotencyKey resolves a prior execution of the (entity, action, key)
// triple to its audit entry via an indexed equality lookup.
func (r *Repo) FindByIdempotencyKey(ctx context.Context, entityID uuid.UUID, action, key string) (domain.Entry, bool, error) {
	query := `
		SELECT a.id, a.restaurant_id, a.actor_id, a.action, a.entity_type, a.entity_id, a.details, a.created_at
		FROM idempotency_keys k
		JOIN audit_log a ON a.id = k.audit_log_id
		WHERE k.entity_id = $1 AND k.action = $2 AND k.idem_key = $3`

	var entry domain.Entry
	err := r.pool.QueryRow(ctx, query, entityID, action, key).Scan(
		&entry.ID, &entry.RestaurantID, &entry.ActorID, &entry.Action, &entry.EntityType, &entry.EntityID, &entry.Details, &entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Entry{}, false, nil
		}
		return domain.Entry{}, false, fmt.Errorf("find idempotency key: %w", err)
	}
	return entry, true, nil
}

// List returns entries newest first with a total count.
func (r *Repo) List(ctx context.Context, filters ListFilters) ([]domain.Entry, int, error) {
	var action, entityType any
	if filters.Action != "" {
		action = filters.Action
	}
	if filters.EntityType != "" {
		entityType = filters.EntityType
	}

	args := []any{filters.RestaurantID, filters.ActorID, action, entityType, filters.EntityID, filters.From, filters.To}

	where := `
		WHERE ($1::uuid IS NULL OR restaurant_id = $1)
			AND ($2::uuid IS NULL OR actor_id = $2)
			AND ($3::text IS NULL OR action = $3)
			AND ($4::text IS NULL OR entity_type = $4)
			AND ($5::uuid IS NULL OR entity_id = $5)
			AND ($6::timestamptz IS NULL OR created_at >= $6)
			AND ($7::timestamptz IS NULL OR created_at <= $7)`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, restaurant_id, actor_id, action, entity_type, entity_id, details, created_at
		FROM audit_log` + where + `
		ORDER BY created_at DESC
		LIMIT $8 OFFSET $9`

	rows, err := r.pool.Query(ctx, query, append(args, limit, filters.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var entry domain.Entry
		if err := rows.Scan(
			&entry.ID, &entry.RestaurantID, &entry.ActorID, &entry.Action, &entry.EntityType, &entry.EntityID, &entry.Details, &entry.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate audit entries: %w", err)
	}

	return entries, total, nil
}
