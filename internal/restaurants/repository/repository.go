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

const restaurantNotFoundMessage = "restaurant not found"

// deactivationLockKey is the platform-wide advisory lock serializing
// last-active-tenant checks across concurrent deactivations.
const deactivationLockKey = 0x7265_7374 // "rest"

// Restaurant is one tenant row.
type Restaurant struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListParams narrows the tenant listing.
type ListParams struct {
	Active *bool
	Limit  int
	Offset int
}

// Repository is the storage contract for tenant lifecycle operations.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Restaurant, error)
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (Restaurant, error)
	// AcquireStatusLockTx takes the platform-wide advisory lock that
	// serializes the last-active-tenant check. Released on tx end.
	AcquireStatusLockTx(ctx context.Context, tx pgx.Tx) error
	CountActivePeersTx(ctx context.Context, tx pgx.Tx, excludeID uuid.UUID) (int, error)
	SetActiveTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, active bool) error
	SetUsersActiveTx(ctx context.Context, tx pgx.Tx, restaurantID uuid.UUID, active bool) (int, error)
	SetCampaignsActiveTx(ctx context.Context, tx pgx.Tx, restaurantID uuid.UUID, active bool) (int, error)
	List(ctx context.Context, params ListParams) ([]Restaurant, int, error)
	FindActiveByName(ctx context.Context, name string) (Restaurant, error)
	ActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]Restaurant, error)
	UserIsActiveInRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) (bool, error)
}

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new restaurants repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const restaurantColumns = `id, company_id, name, is_active, created_at, updated_at`

func scanRestaurant(row pgx.Row) (Restaurant, error) {
	var rest Restaurant
	err := row.Scan(&rest.ID, &rest.CompanyID, &rest.Name, &rest.IsActive, &rest.CreatedAt, &rest.UpdatedAt)
	return rest, err
}

// GetByID loads a tenant outside any transaction.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`

	rest, err := scanRestaurant(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Restaurant{}, apperr.NotFound(restaurantNotFoundMessage)
		}
		return Restaurant{}, fmt.Errorf("get restaurant: %w", err)
	}
	return rest, nil
}

// GetForUpdateTx loads the tenant with a row lock inside the transaction.
func (r *Repo) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1 FOR UPDATE`

	rest, err := scanRestaurant(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Restaurant{}, apperr.NotFound(restaurantNotFoundMessage)
		}
		return Restaurant{}, fmt.Errorf("get restaurant for update: %w", err)
	}
	return rest, nil
}

// AcquireStatusLockTx serializes concurrent status flips platform-wide so two
// deactivations of distinct tenants cannot both pass the last-active check.
func (r *Repo) AcquireStatusLockTx(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, deactivationLockKey); err != nil {
		return fmt.Errorf("acquire status lock: %w", err)
	}
	return nil
}

// CountActivePeersTx counts active tenants other than the given one.
func (r *Repo) CountActivePeersTx(ctx context.Context, tx pgx.Tx, excludeID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM restaurants WHERE is_active AND id <> $1`
	if err := tx.QueryRow(ctx, query, excludeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active restaurants: %w", err)
	}
	return count, nil
}

// SetActiveTx flips the tenant flag inside the transaction.
func (r *Repo) SetActiveTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, active bool) error {
	query := `UPDATE restaurants SET is_active = $2, updated_at = now() WHERE id = $1`
	tag, err := tx.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("set restaurant active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(restaurantNotFoundMessage)
	}
	return nil
}

// SetUsersActiveTx cascades the flag to the tenant's users.
func (r *Repo) SetUsersActiveTx(ctx context.Context, tx pgx.Tx, restaurantID uuid.UUID, active bool) (int, error) {
	query := `UPDATE users SET is_active = $2 WHERE restaurant_id = $1 AND is_active <> $2`
	tag, err := tx.Exec(ctx, query, restaurantID, active)
	if err != nil {
		return 0, fmt.Errorf("cascade users active: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// SetCampaignsActiveTx cascades the flag to the tenant's campaigns. Callers
// gate this on the schema capability flag.
func (r *Repo) SetCampaignsActiveTx(ctx context.Context, tx pgx.Tx, restaurantID uuid.UUID, active bool) (int, error) {
	query := `UPDATE campaigns SET is_active = $2 WHERE restaurant_id = $1 AND is_active <> $2`
	tag, err := tx.Exec(ctx, query, restaurantID, active)
	if err != nil {
		return 0, fmt.Errorf("cascade campaigns active: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// List retrieves tenants for the admin console.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Restaurant, int, error) {
	where := ` WHERE ($1::boolean IS NULL OR is_active = $1)`
	args := []any{params.Active}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM restaurants`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count restaurants: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + restaurantColumns + `
		FROM restaurants` + where + `
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, append(args, limit, params.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []Restaurant
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate restaurants: %w", err)
	}
	return restaurants, total, nil
}

// FindActiveByName resolves an active tenant by exact, case-insensitive name.
func (r *Repo) FindActiveByName(ctx context.Context, name string) (Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE lower(name) = lower($1) AND is_active LIMIT 1`

	rest, err := scanRestaurant(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Restaurant{}, apperr.NotFound(restaurantNotFoundMessage)
		}
		return Restaurant{}, fmt.Errorf("find restaurant by name: %w", err)
	}
	return rest, nil
}

// ActiveByCompany returns the active tenants under a company.
func (r *Repo) ActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE company_id = $1 AND is_active ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []Restaurant
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", err)
	}
	return restaurants, nil
}

// UserIsActiveInRestaurant reports whether the user exists, is active, and
// belongs to the given tenant.
func (r *Repo) UserIsActiveInRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) (bool, error) {
	var ok bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND restaurant_id = $2 AND is_active)`
	if err := r.pool.QueryRow(ctx, query, userID, restaurantID).Scan(&ok); err != nil {
		return false, fmt.Errorf("check user membership: %w", err)
	}
	return ok, nil
}
