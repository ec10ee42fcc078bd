package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resto_admin_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const campaignNotFoundMessage = "campaign not found"

// Campaign is the moderation read model.
type Campaign struct {
	ID              uuid.UUID
	RestaurantID    uuid.UUID
	Name            string
	Status          string
	RejectionReason *string
	ScheduledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListParams narrows the moderation queue listing.
type ListParams struct {
	RestaurantID *uuid.UUID
	Status       string
	Limit        int
	Offset       int
}

// Repository is the storage contract for campaign moderation.
type Repository interface {
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (Campaign, error)
	// UpdateStatusTx writes the new status and, when reason is non-nil, the
	// rejection reason.
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, reason *string) error
	List(ctx context.Context, params ListParams) ([]Campaign, int, error)
}

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new campaigns repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const campaignColumns = `id, restaurant_id, name, status, rejection_reason, scheduled_at, created_at, updated_at`

func scanCampaign(row pgx.Row) (Campaign, error) {
	var cp Campaign
	err := row.Scan(
		&cp.ID, &cp.RestaurantID, &cp.Name, &cp.Status, &cp.RejectionReason, &cp.ScheduledAt,
		&cp.CreatedAt, &cp.UpdatedAt,
	)
	return cp, err
}

// GetForUpdateTx loads the campaign with a row lock inside the transaction.
func (r *Repo) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1 FOR UPDATE`

	cp, err := scanCampaign(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, apperr.NotFound(campaignNotFoundMessage)
		}
		return Campaign{}, fmt.Errorf("get campaign for update: %w", err)
	}
	return cp, nil
}

// UpdateStatusTx writes the moderation outcome inside the transaction.
func (r *Repo) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, reason *string) error {
	query := `
		UPDATE campaigns
		SET status = $2, rejection_reason = COALESCE($3, rejection_reason), updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, status, reason)
	if err != nil {
		return fmt.Errorf("update campaign status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(campaignNotFoundMessage)
	}
	return nil
}

// List retrieves campaigns for the moderation queue, oldest submissions first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Campaign, int, error) {
	var status any
	if params.Status != "" {
		status = params.Status
	}
	args := []any{params.RestaurantID, status}

	where := `
		WHERE ($1::uuid IS NULL OR restaurant_id = $1)
			AND ($2::text IS NULL OR status = $2)`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM campaigns`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count campaigns: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns` + where + `
		ORDER BY created_at ASC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, append(args, limit, params.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		cp, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate campaigns: %w", err)
	}
	return campaigns, total, nil
}
