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

const leadNotFoundMessage = "demo booking not found"

// DemoBooking is one lead row.
type DemoBooking struct {
	ID               uuid.UUID
	ContactName      string
	ContactEmail     string
	ContactPhone     *string
	OrganizationName string
	Status           string
	ConversionStage  *string
	ConvertedTaskID  *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ListParams narrows the lead listing.
type ListParams struct {
	Status string
	Limit  int
	Offset int
}

// Repository is the storage contract for the conversion workflow.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (DemoBooking, error)
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (DemoBooking, error)
	MarkConvertedTx(ctx context.Context, tx pgx.Tx, id, taskID uuid.UUID) error
	List(ctx context.Context, params ListParams) ([]DemoBooking, int, error)
}

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const leadColumns = `id, contact_name, contact_email, contact_phone, organization_name,
	status, conversion_stage, converted_task_id, created_at, updated_at`

func scanLead(row pgx.Row) (DemoBooking, error) {
	var lead DemoBooking
	err := row.Scan(
		&lead.ID, &lead.ContactName, &lead.ContactEmail, &lead.ContactPhone, &lead.OrganizationName,
		&lead.Status, &lead.ConversionStage, &lead.ConvertedTaskID, &lead.CreatedAt, &lead.UpdatedAt,
	)
	return lead, err
}

// GetByID loads a lead outside any transaction.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (DemoBooking, error) {
	query := `SELECT ` + leadColumns + ` FROM demo_bookings WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DemoBooking{}, apperr.NotFound(leadNotFoundMessage)
		}
		return DemoBooking{}, fmt.Errorf("get demo booking: %w", err)
	}
	return lead, nil
}

// GetForUpdateTx loads the lead with a row lock inside the transaction.
func (r *Repo) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (DemoBooking, error) {
	query := `SELECT ` + leadColumns + ` FROM demo_bookings WHERE id = $1 FOR UPDATE`

	lead, err := scanLead(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DemoBooking{}, apperr.NotFound(leadNotFoundMessage)
		}
		return DemoBooking{}, fmt.Errorf("get demo booking for update: %w", err)
	}
	return lead, nil
}

// MarkConvertedTx records the conversion outcome on the lead.
func (r *Repo) MarkConvertedTx(ctx context.Context, tx pgx.Tx, id, taskID uuid.UUID) error {
	query := `
		UPDATE demo_bookings
		SET status = 'converted', conversion_stage = 'won', converted_task_id = $2, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, taskID)
	if err != nil {
		return fmt.Errorf("mark demo booking converted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// List retrieves leads for the admin console, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]DemoBooking, int, error) {
	var status any
	if params.Status != "" {
		status = params.Status
	}
	where := ` WHERE ($1::text IS NULL OR status = $1)`
	args := []any{status}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM demo_bookings`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count demo bookings: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + leadColumns + `
		FROM demo_bookings` + where + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, append(args, limit, params.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list demo bookings: %w", err)
	}
	defer rows.Close()

	var leads []DemoBooking
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan demo booking: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate demo bookings: %w", err)
	}
	return leads, total, nil
}
