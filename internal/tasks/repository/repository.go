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

const taskNotFoundMessage = "task not found"

// Task is one task row. Restaurant-scoped rows carry RestaurantID;
// company-scoped rows carry CompanyID and a ParentTaskGroupID shared with
// their fan-out siblings.
type Task struct {
	ID                uuid.UUID
	Scope             string
	RestaurantID      *uuid.UUID
	CompanyID         *uuid.UUID
	ParentTaskGroupID *uuid.UUID
	Title             string
	Description       string
	Status            string
	Priority          string
	TaskType          string
	AssignedTo        *uuid.UUID
	DueDate           *time.Time
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Updates carries the field changes of one update request. Nil pointers
// leave the column untouched. CompletedAt is tri-state: applied only when
// SetCompletedAt is true, so completion timestamps can be both stamped and
// cleared.
type Updates struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	AssignedTo     *uuid.UUID
	DueDate        *time.Time
	CompletedAt    *time.Time
	SetCompletedAt bool
}

// ListParams narrows the task listing.
type ListParams struct {
	RestaurantID *uuid.UUID
	CompanyID    *uuid.UUID
	GroupID      *uuid.UUID
	Scope        string
	Status       string
	Limit        int
	Offset       int
}

// GroupSummary is one aggregated fan-out group for the dashboard listing.
type GroupSummary struct {
	GroupID    uuid.UUID
	CompanyID  *uuid.UUID
	Title      string
	Total      int
	Pending    int
	InProgress int
	Completed  int
	CreatedAt  time.Time
}

// Repository is the storage contract for the task fan-out engine.
type Repository interface {
	InsertManyTx(ctx context.Context, tx pgx.Tx, tasks []Task) error
	GetByID(ctx context.Context, id uuid.UUID) (Task, error)
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (Task, error)
	GroupMemberIDsTx(ctx context.Context, tx pgx.Tx, groupID uuid.UUID) ([]uuid.UUID, error)
	ApplyUpdatesTx(ctx context.Context, tx pgx.Tx, ids []uuid.UUID, u Updates) (int, error)
	DeleteTx(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) (int, error)
	List(ctx context.Context, params ListParams) ([]Task, int, error)
	ListGroups(ctx context.Context) ([]GroupSummary, error)
}

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tasks repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const taskColumns = `id, scope, restaurant_id, company_id, parent_task_group_id, title, description,
	status, priority, task_type, assigned_to, due_date, completed_at, created_at, updated_at`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(
		&t.ID, &t.Scope, &t.RestaurantID, &t.CompanyID, &t.ParentTaskGroupID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.TaskType, &t.AssignedTo, &t.DueDate, &t.CompletedAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// InsertManyTx inserts all given tasks inside one transaction, so a fan-out
// either creates the whole group or nothing.
func (r *Repo) InsertManyTx(ctx context.Context, tx pgx.Tx, tasks []Task) error {
	query := `
		INSERT INTO tasks (id, scope, restaurant_id, company_id, parent_task_group_id, title,
			description, status, priority, task_type, assigned_to, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	batch := &pgx.Batch{}
	for _, t := range tasks {
		batch.Queue(query,
			t.ID, t.Scope, t.RestaurantID, t.CompanyID, t.ParentTaskGroupID, t.Title,
			t.Description, t.Status, t.Priority, t.TaskType, t.AssignedTo, t.DueDate,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range tasks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
	}
	return nil
}

// GetByID loads a task outside any transaction.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, apperr.NotFound(taskNotFoundMessage)
		}
		return Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// GetForUpdateTx loads the task with a row lock inside the transaction.
func (r *Repo) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 FOR UPDATE`

	t, err := scanTask(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, apperr.NotFound(taskNotFoundMessage)
		}
		return Task{}, fmt.Errorf("get task for update: %w", err)
	}
	return t, nil
}

// GroupMemberIDsTx locks and returns every task sharing the group id.
func (r *Repo) GroupMemberIDsTx(ctx context.Context, tx pgx.Tx, groupID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM tasks WHERE parent_task_group_id = $1 ORDER BY id FOR UPDATE`

	rows, err := tx.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("select group members: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ApplyUpdatesTx applies the same field changes to every given task.
func (r *Repo) ApplyUpdatesTx(ctx context.Context, tx pgx.Tx, ids []uuid.UUID, u Updates) (int, error) {
	query := `
		UPDATE tasks
		SET title = COALESCE($2, title),
			description = COALESCE($3, description),
			status = COALESCE($4, status),
			priority = COALESCE($5, priority),
			assigned_to = COALESCE($6, assigned_to),
			due_date = COALESCE($7, due_date),
			completed_at = CASE WHEN $8 THEN $9 ELSE completed_at END,
			updated_at = now()
		WHERE id = ANY($1)`

	tag, err := tx.Exec(ctx, query, ids,
		u.Title, u.Description, u.Status, u.Priority, u.AssignedTo, u.DueDate,
		u.SetCompletedAt, u.CompletedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("update tasks: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteTx removes the given tasks inside the transaction.
func (r *Repo) DeleteTx(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) (int, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete tasks: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// List retrieves tasks for the admin console, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Task, int, error) {
	var scope, status any
	if params.Scope != "" {
		scope = params.Scope
	}
	if params.Status != "" {
		status = params.Status
	}
	args := []any{params.RestaurantID, params.CompanyID, params.GroupID, scope, status}

	where := `
		WHERE ($1::uuid IS NULL OR restaurant_id = $1)
			AND ($2::uuid IS NULL OR company_id = $2)
			AND ($3::uuid IS NULL OR parent_task_group_id = $3)
			AND ($4::text IS NULL OR scope = $4)
			AND ($5::text IS NULL OR status = $5)`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks` + where + `
		ORDER BY created_at DESC
		LIMIT $6 OFFSET $7`

	rows, err := r.pool.Query(ctx, query, append(args, limit, params.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, total, nil
}

// ListGroups aggregates fan-out groups with per-status counts.
func (r *Repo) ListGroups(ctx context.Context) ([]GroupSummary, error) {
	query := `
		SELECT parent_task_group_id,
			MIN(company_id::text)::uuid,
			MIN(title),
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			MIN(created_at)
		FROM tasks
		WHERE parent_task_group_id IS NOT NULL
		GROUP BY parent_task_group_id
		ORDER BY MIN(created_at) DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list task groups: %w", err)
	}
	defer rows.Close()

	var groups []GroupSummary
	for rows.Next() {
		var g GroupSummary
		if err := rows.Scan(&g.GroupID, &g.CompanyID, &g.Title, &g.Total, &g.Pending, &g.InProgress, &g.Completed, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task groups: %w", err)
	}
	return groups, nil
}
