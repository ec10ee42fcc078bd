package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Order is the read model the admin core works with. Only Status is ever
// mutated here; the remaining fields are inputs owned by order management.
type Order struct {
	ID            uuid.UUID
	RestaurantID  uuid.UUID
	Status        string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	TotalCents    int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListParams narrows the admin order listing.
type ListParams struct {
	RestaurantID *uuid.UUID
	Status       string
	Limit        int
	Offset       int
}

// Repository is the storage contract for order interventions.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Order, error)
	// GetForUpdateTx loads the order with a row lock so the transition check
	// and the status write are serialized against concurrent interventions.
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (Order, error)
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error
	// SelectStalePendingTx locks and returns all pending orders created
	// before the cutoff.
	SelectStalePendingTx(ctx context.Context, tx pgx.Tx, cutoff time.Time) ([]Order, error)
	CancelManyTx(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) error
	List(ctx context.Context, params ListParams) ([]Order, int, error)
}
