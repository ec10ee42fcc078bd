package transport

import (
	"time"

	"resto_admin_backend/internal/tasks/repository"

	"github.com/google/uuid"
)

// CreateTaskRequest creates a single restaurant task or a company fan-out.
type CreateTaskRequest struct {
	Scope        string     `json:"scope" validate:"required,oneof=restaurant company"`
	RestaurantID *uuid.UUID `json:"restaurant_id"`
	CompanyID    *uuid.UUID `json:"company_id"`
	Title        string     `json:"title" validate:"required,max=200"`
	Description  string     `json:"description" validate:"max=2000"`
	Status       string     `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority     string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	TaskType     string     `json:"task_type" validate:"omitempty,max=100"`
	AssignedTo   *uuid.UUID `json:"assigned_to"`
	DueDate      *time.Time `json:"due_date"`
}

// UpdateTaskRequest carries optional field changes. Absent fields stay
// untouched.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

// ListTasksRequest holds filters for the task listing.
type ListTasksRequest struct {
	RestaurantID *uuid.UUID `form:"restaurant_id"`
	CompanyID    *uuid.UUID `form:"company_id"`
	GroupID      *uuid.UUID `form:"group_id"`
	Scope        string     `form:"scope" validate:"omitempty,oneof=restaurant company"`
	Status       string     `form:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Limit        int        `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset       int        `form:"offset" validate:"omitempty,min=0"`
}

// TaskResponse is the API shape of one task.
type TaskResponse struct {
	ID                uuid.UUID  `json:"id"`
	Scope             string     `json:"scope"`
	RestaurantID      *uuid.UUID `json:"restaurant_id,omitempty"`
	CompanyID         *uuid.UUID `json:"company_id,omitempty"`
	ParentTaskGroupID *uuid.UUID `json:"parent_task_group_id,omitempty"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Status            string     `json:"status"`
	Priority          string     `json:"priority"`
	TaskType          string     `json:"task_type"`
	AssignedTo        *uuid.UUID `json:"assigned_to,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CreateTaskResponse is the creation outcome: Task for restaurant scope,
// the group fields for a company fan-out.
type CreateTaskResponse struct {
	Task              *TaskResponse `json:"task,omitempty"`
	ParentTaskGroupID *uuid.UUID    `json:"parent_task_group_id,omitempty"`
	CreatedCount      int           `json:"created_count,omitempty"`
	TaskIDs           []uuid.UUID   `json:"task_ids,omitempty"`
}

// UpdateTaskResponse is the update outcome.
type UpdateTaskResponse struct {
	Task           TaskResponse `json:"task"`
	AppliedToGroup bool         `json:"applied_to_group"`
	UpdatedCount   int          `json:"updated_count"`
}

// DeleteTaskResponse is the deletion outcome.
type DeleteTaskResponse struct {
	DeletedCount   int  `json:"deleted_count"`
	AppliedToGroup bool `json:"applied_to_group"`
}

// ListTasksResponse is the paginated task listing.
type ListTasksResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// GroupSummaryResponse is one aggregated fan-out group.
type GroupSummaryResponse struct {
	GroupID    uuid.UUID  `json:"group_id"`
	CompanyID  *uuid.UUID `json:"company_id,omitempty"`
	Title      string     `json:"title"`
	Total      int        `json:"total"`
	Pending    int        `json:"pending"`
	InProgress int        `json:"in_progress"`
	Completed  int        `json:"completed"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ListGroupsResponse is the grouped task dashboard listing.
type ListGroupsResponse struct {
	Groups []GroupSummaryResponse `json:"groups"`
}

// ToTaskResponse maps a storage row to its API shape.
func ToTaskResponse(t repository.Task) TaskResponse {
	return TaskResponse{
		ID:                t.ID,
		Scope:             t.Scope,
		RestaurantID:      t.RestaurantID,
		CompanyID:         t.CompanyID,
		ParentTaskGroupID: t.ParentTaskGroupID,
		Title:             t.Title,
		Description:       t.Description,
		Status:            t.Status,
		Priority:          t.Priority,
		TaskType:          t.TaskType,
		AssignedTo:        t.AssignedTo,
		DueDate:           t.DueDate,
		CompletedAt:       t.CompletedAt,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}
