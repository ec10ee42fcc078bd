// Package service implements the task fan-out engine: single-tenant task
// creation, company-wide fan-out groups, and group-scoped updates/deletes.
package service

import (
	"context"
	"time"

	auditdomain "resto_admin_backend/internal/audit/domain"
	auditsvc "resto_admin_backend/internal/audit/service"
	"resto_admin_backend/internal/events"
	"resto_admin_backend/internal/tasks/domain"
	"resto_admin_backend/internal/tasks/repository"
	"resto_admin_backend/internal/tasks/transport"
	"resto_admin_backend/platform/apperr"
	"resto_admin_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Tenant is the slice of a restaurant this module needs.
type Tenant struct {
	ID       uuid.UUID
	Name     string
	IsActive bool
}

// TenantDirectory resolves tenants and memberships. Implemented by the
// restaurants module through an adapter.
type TenantDirectory interface {
	TenantByID(ctx context.Context, id uuid.UUID) (Tenant, error)
	ActiveTenantsByCompany(ctx context.Context, companyID uuid.UUID) ([]Tenant, error)
	UserIsActiveInTenant(ctx context.Context, userID, tenantID uuid.UUID) (bool, error)
}

// Auditor is the slice of the audit recorder this service depends on.
type Auditor interface {
	Mutate(ctx context.Context, fn auditsvc.MutateFn) (uuid.UUID, error)
}

// TxRunner starts the transactions unaudited single-task mutations run in.
// Satisfied by pgxpool.Pool.
type TxRunner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Service provides task fan-out logic.
type Service struct {
	db      TxRunner
	repo    repository.Repository
	tenants TenantDirectory
	auditor Auditor
	bus     events.Bus
	log     *logger.Logger
	now     func() time.Time
}

// New creates the tasks service.
func New(db TxRunner, repo repository.Repository, tenants TenantDirectory, auditor Auditor, bus events.Bus, log *logger.Logger) *Service {
	return &Service{db: db, repo: repo, tenants: tenants, auditor: auditor, bus: bus, log: log, now: time.Now}
}

// Create creates one restaurant-scoped task or fans a company-scoped task
// out to every active tenant under the company.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req transport.CreateTaskRequest) (transport.CreateTaskResponse, error) {
	if !domain.ValidScope(req.Scope) {
		return transport.CreateTaskResponse{}, apperr.Validationf("unknown scope %q, expected restaurant or company", req.Scope)
	}

	status := req.Status
	if status == "" {
		status = domain.DefaultStatus
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.DefaultPriority
	}

	switch req.Scope {
	case domain.ScopeRestaurant:
		return s.createSingle(ctx, actorID, req, status, priority)
	default:
		return s.createFanout(ctx, actorID, req, status, priority)
	}
}

func (s *Service) createSingle(ctx context.Context, actorID uuid.UUID, req transport.CreateTaskRequest, status, priority string) (transport.CreateTaskResponse, error) {
	if req.RestaurantID == nil {
		return transport.CreateTaskResponse{}, apperr.Validation("restaurant_id is required for restaurant scope")
	}

	tenant, err := s.tenants.TenantByID(ctx, *req.RestaurantID)
	if err != nil {
		return transport.CreateTaskResponse{}, err
	}
	if err := s.checkAssignee(ctx, req.AssignedTo, tenant.ID); err != nil {
		return transport.CreateTaskResponse{}, err
	}

	task := repository.Task{
		ID:           uuid.New(),
		Scope:        domain.ScopeRestaurant,
		RestaurantID: &tenant.ID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       status,
		Priority:     priority,
		TaskType:     req.TaskType,
		AssignedTo:   req.AssignedTo,
		DueDate:      req.DueDate,
	}

	_, err = s.auditor.Mutate(ctx, func(ctx context.Context, tx pgx.Tx) (auditdomain.Entry, error) {
		if err := s.repo.InsertManyTx(ctx, tx, []repository.Task{task}); err != nil {
			return auditdomain.Entry{}, err
		}
		return taskAuditEntry(actorID, &tenant.ID, auditdomain.ActionTaskCreate, auditdomain.EntityTask, task.ID,
			auditdomain.TaskCreateDetail{TaskID: task.ID, Title: task.Title})
	})
	if err != nil {
		return transport.CreateTaskResponse{}, err
	}

	created, err := s.repo.GetByID(ctx, task.ID)
	if err != nil {
		return transport.CreateTaskResponse{}, err
	}
	resp := transport.ToTaskResponse(created)
	return transport.CreateTaskResponse{Task: &resp}, nil
}

func (s *Service) createFanout(ctx context.Context, actorID uuid.UUID, req transport.CreateTaskRequest, status, priority string) (transport.CreateTaskResponse, error) {
	if req.CompanyID == nil {
		return transport.CreateTaskResponse{}, apperr.Validation("company_id is required for company scope")
	}
	if req.AssignedTo != nil {
		return transport.CreateTaskResponse{}, apperr.Validation("assignee is not allowed for company scope")
	}

	tenants, err := s.tenants.ActiveTenantsByCompany(ctx, *req.CompanyID)
	if err != nil {
		return transport.CreateTaskResponse{}, err
	}
	if len(tenants) == 0 {
		return transport.CreateTaskResponse{}, apperr.NotFound("company has no active restaurants")
	}

	groupID := uuid.New()
	tasks := make([]repository.Task, 0, len(tenants))
	taskIDs := make([]uuid.UUID, 0, len(tenants))
	for _, tenant := range tenants {
		restaurantID := tenant.ID
		task := repository.Task{
			ID:                uuid.New(),
			Scope:             domain.ScopeCompany,
			RestaurantID:      &restaurantID,
			CompanyID:         req.CompanyID,
			ParentTaskGroupID: &groupID,
			Title:             req.Title,
			Description:       req.Description,
			Status:            status,
			Priority:          priority,
			TaskType:          req.TaskType,
			DueDate:           req.DueDate,
		}
		tasks = append(tasks, task)
		taskIDs = append(taskIDs, task.ID)
	}

	_, err = s.auditor.Mutate(ctx, func(ctx context.Context, tx pgx.Tx) (auditdomain.Entry, error) {
		if err := s.repo.InsertManyTx(ctx, tx, tasks); err != nil {
			return auditdomain.Entry{}, err
		}
		return taskAuditEntry(actorID, nil, auditdomain.ActionTaskGroupCreate, auditdomain.EntityTaskGroup, groupID,
			auditdomain.TaskGroupDetail{GroupID: groupID, TaskIDs: taskIDs, AffectedCount: len(taskIDs), Title: req.Title})
	})
	if err != nil {
		return transport.CreateTaskResponse{}, err
	}

	s.bus.Publish(ctx, events.TaskGroupCreated{
		BaseEvent:    events.NewBaseEvent(),
		GroupID:      groupID,
		CompanyID:    *req.CompanyID,
		TaskIDs:      taskIDs,
		CreatedCount: len(taskIDs),
		ActorID:      actorID,
	})

	s.log.Info("task group created", "group_id", groupID, "company_id", *req.CompanyID, "count", len(taskIDs))
	return transport.CreateTaskResponse{
		ParentTaskGroupID: &groupID,
		CreatedCount:      len(taskIDs),
		TaskIDs:           taskIDs,
	}, nil
}

// CreateConversion creates the high-priority conversion task that the lead
// workflow links to. Exposed to the leads module through an adapter.
func (s *Service) CreateConversion(ctx context.Context, actorID, restaurantID uuid.UUID, assignedTo *uuid.UUID, dueDate *time.Time, title, description string) (uuid.UUID, error) {
	if err := s.checkAssignee(ctx, assignedTo, restaurantID); err != nil {
		return uuid.Nil, err
	}

	task := repository.Task{
		ID:           uuid.New(),
		Scope:        domain.ScopeRestaurant,
		RestaurantID: &restaurantID,
		Title:        title,
		Description:  description,
		Status:       domain.DefaultStatus,
		Priority:     domain.PriorityHigh,
		TaskType:     domain.TaskTypeDemoConversion,
		AssignedTo:   assignedTo,
		DueDate:      dueDate,
	}

	_, err := s.auditor.Mutate(ctx, func(ctx context.Context, tx pgx.Tx) (auditdomain.Entry, error) {
		if err := s.repo.InsertManyTx(ctx, tx, []repository.Task{task}); err != nil {
			return auditdomain.Entry{}, err
		}
		return taskAuditEntry(actorID, &restaurantID, auditdomain.ActionTaskCreate, auditdomain.EntityTask, task.ID,
			auditdomain.TaskCreateDetail{TaskID: task.ID, Title: task.Title})
	})
	if err != nil {
		return uuid.Nil, err
	}
	return task.ID, nil
}

// Get retrieves one task.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.TaskResponse, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TaskResponse{}, err
	}
	return transport.ToTaskResponse(task), nil
}

// Update applies the requested field changes to one task or, when
// applyToGroup is set, identically to every sibling in the task's group.
// Siblings of a fan-out group belong to different restaurants, so an
// assignee can never be applied group-wide: membership only holds for one
// tenant.
func (s *Service) Update(ctx context.Context, actorID, taskID uuid.UUID, req transport.UpdateTaskRequest, applyToGroup bool) (transport.UpdateTaskResponse, error) {
	if applyToGroup && req.AssignedTo != nil {
		return transport.UpdateTaskResponse{}, apperr.Validation("assignee cannot be applied to a task group, update tasks individually")
	}

	var updatedCount int

	apply := func(ctx context.Context, tx pgx.Tx) (repository.Task, []uuid.UUID, error) {
		task, err := s.repo.GetForUpdateTx(ctx, tx, taskID)
		if err != nil {
			return repository.Task{}, nil, err
		}

		ids, err := s.resolveTargets(ctx, tx, task, applyToGroup)
		if err != nil {
			return repository.Task{}, nil, err
		}

		if req.AssignedTo != nil {
			if task.RestaurantID == nil {
				return repository.Task{}, nil, apperr.Validation("task has no restaurant to validate the assignee against")
			}
			if err := s.checkAssignee(ctx, req.AssignedTo, *task.RestaurantID); err != nil {
				return repository.Task{}, nil, err
			}
		}

		updates := repository.Updates{
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
			Priority:    req.Priority,
			AssignedTo:  req.AssignedTo,
			DueDate:     req.DueDate,
		}
		// Completion timestamps follow the status transition: entering
		// completed stamps one, leaving it clears it.
		if req.Status != nil {
			updates.SetCompletedAt = true
			if *req.Status == domain.StatusCompleted {
				completedAt := s.now()
				updates.CompletedAt = &completedAt
			}
		}

		updatedCount, err = s.repo.ApplyUpdatesTx(ctx, tx, ids, updates)
		if err != nil {
			return repository.Task{}, nil, err
		}
		return task, ids, nil
	}

	if applyToGroup {
		_, err := s.auditor.Mutate(ctx, func(ctx context.Context, tx pgx.Tx) (auditdomain.Entry, error) {
			task, ids, err := apply(ctx, tx)
			if err != nil {
				return auditdomain.Entry{}, err
			}
			return taskAuditEntry(actorID, nil, auditdomain.ActionTaskGroupUpdate, auditdomain.EntityTaskGroup, *task.ParentTaskGroupID,
				auditdomain.TaskGroupDetail{GroupID: *task.ParentTaskGroupID, TaskIDs: ids, AffectedCount: updatedCount})
		})
		if err != nil {
			return transport.UpdateTaskResponse{}, err
		}
	} else {
		if err := s.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			_, _, err := apply(ctx, tx)
			return err
		}); err != nil {
			return transport.UpdateTaskResponse{}, err
		}
	}

	updated, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return transport.UpdateTaskResponse{}, err
	}
	return transport.UpdateTaskResponse{
		Task:           transport.ToTaskResponse(updated),
		AppliedToGroup: applyToGroup,
		UpdatedCount:   updatedCount,
	}, nil
}

// Delete removes one task or, when applyToGroup is set, the whole group.
func (s *Service) Delete(ctx context.Context, actorID, taskID uuid.UUID, applyToGroup bool) (transport.DeleteTaskResponse, error) {
	var deletedCount int

	remove := func(ctx context.Context, tx pgx.Tx) (repository.Task, []uuid.UUID, error) {
		task, err := s.repo.GetForUpdateTx(ctx, tx, taskID)
		if err != nil {
			return repository.Task{}, nil, err
		}
		ids, err := s.resolveTargets(ctx, tx, task, applyToGroup)
		if err != nil {
			return repository.Task{}, nil, err
		}
		deletedCount, err = s.repo.DeleteTx(ctx, tx, ids)
		if err != nil {
			return repository.Task{}, nil, err
		}
		return task, ids, nil
	}

	if applyToGroup {
		_, err := s.auditor.Mutate(ctx, func(ctx context.Context, tx pgx.Tx) (auditdomain.Entry, error) {
			task, ids, err := remove(ctx, tx)
			if err != nil {
				return auditdomain.Entry{}, err
			}
			return taskAuditEntry(actorID, nil, auditdomain.ActionTaskGroupDelete, auditdomain.EntityTaskGroup, *task.ParentTaskGroupID,
				auditdomain.TaskGroupDetail{GroupID: *task.ParentTaskGroupID, TaskIDs: ids, AffectedCount: deletedCount})
		})
		if err != nil {
			return transport.DeleteTaskResponse{}, err
		}
	} else {
		if err := s.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			_, _, err := remove(ctx, tx)
			return err
		}); err != nil {
			return transport.DeleteTaskResponse{}, err
		}
	}

	return transport.DeleteTaskResponse{DeletedCount: deletedCount, AppliedToGroup: applyToGroup}, nil
}

// resolveTargets decides which task ids an operation touches. Group scoping
// of an ungrouped task is a caller error.
func (s *Service) resolveTargets(ctx context.Context, tx pgx.Tx, task repository.Task, applyToGroup bool) ([]uuid.UUID, error) {
	if !applyToGroup {
		return []uuid.UUID{task.ID}, nil
	}
	if task.ParentTaskGroupID == nil {
		return nil, apperr.Validation("applyToGroup requested but the task belongs to no group")
	}
	ids, err := s.repo.GroupMemberIDsTx(ctx, tx, *task.ParentTaskGroupID)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to start transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to commit mutation", err)
	}
	return nil
}

func (s *Service) checkAssignee(ctx context.Context, assignedTo *uuid.UUID, restaurantID uuid.UUID) error {
	if assignedTo == nil {
		return nil
	}
	ok, err := s.tenants.UserIsActiveInTenant(ctx, *assignedTo, restaurantID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("assignee must be an active user of the restaurant")
	}
	return nil
}

// List retrieves tasks for the admin console.
func (s *Service) List(ctx context.Context, req transport.ListTasksRequest) (transport.ListTasksResponse, error) {
	limit := req.Limit
	if limit < 1 {
		limit = 50
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	tasks, total, err := s.repo.List(ctx, repository.ListParams{
		RestaurantID: req.RestaurantID,
		CompanyID:    req.CompanyID,
		GroupID:      req.GroupID,
		Scope:        req.Scope,
		Status:       req.Status,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return transport.ListTasksResponse{}, err
	}

	items := make([]transport.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, transport.ToTaskResponse(t))
	}
	return transport.ListTasksResponse{Tasks: items, Total: total, Limit: limit, Offset: offset}, nil
}

// ListGroups retrieves the aggregated fan-out group dashboard.
func (s *Service) ListGroups(ctx context.Context) (transport.ListGroupsResponse, error) {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return transport.ListGroupsResponse{}, err
	}

	items := make([]transport.GroupSummaryResponse, 0, len(groups))
	for _, g := range groups {
		items = append(items, transport.GroupSummaryResponse{
			GroupID:    g.GroupID,
			CompanyID:  g.CompanyID,
			Title:      g.Title,
			Total:      g.Total,
			Pending:    g.Pending,
			InProgress: g.InProgress,
			Completed:  g.Completed,
			CreatedAt:  g.CreatedAt,
		})
	}
	return transport.ListGroupsResponse{Groups: items}, nil
}

func taskAuditEntry(actorID uuid.UUID, restaurantID *uuid.UUID, action, entityType string, entityID uuid.UUID, detail interface{}) (auditdomain.Entry, error) {
	details, err := auditdomain.EncodeDetail(action, "", detail)
	if err != nil {
		return auditdomain.Entry{}, err
	}
	id := entityID
	et := entityType
	return auditdomain.Entry{
		RestaurantID: restaurantID,
		ActorID:      &actorID,
		Action:       action,
		EntityType:   &et,
		EntityID:     &id,
		Details:      details,
	}, nil
}
