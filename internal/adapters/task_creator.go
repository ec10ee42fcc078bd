package adapters

import (
	"context"
	"time"

	leadssvc "resto_admin_backend/internal/leads/service"
	taskssvc "resto_admin_backend/internal/tasks/service"

	"github.com/google/uuid"
)

// TaskCreator adapts the tasks service to the leads conversion port.
type TaskCreator struct {
	tasks *taskssvc.Service
}

// NewTaskCreator creates the task creator adapter.
func NewTaskCreator(tasks *taskssvc.Service) *TaskCreator {
	return &TaskCreator{tasks: tasks}
}

// CreateConversion creates the high-priority conversion task.
func (a *TaskCreator) CreateConversion(ctx context.Context, actorID, restaurantID uuid.UUID, assignedTo *uuid.UUID, dueDate *time.Time, title, description string) (uuid.UUID, error) {
	return a.tasks.CreateConversion(ctx, actorID, restaurantID, assignedTo, dueDate, title, description)
}

// Compile-time check against the leads port.
var _ leadssvc.TaskCreator = (*TaskCreator)(nil)
