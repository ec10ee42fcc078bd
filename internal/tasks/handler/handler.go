package handler

import (
	"net/http"
	"strconv"

	"resto_admin_backend/internal/tasks/service"
	"resto_admin_backend/internal/tasks/transport"
	"resto_admin_backend/platform/httpkit"
	"resto_admin_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidTaskID    = "invalid task ID"
)

// Handler handles HTTP requests for the task fan-out engine.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new tasks handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create creates a single task or a company-wide fan-out group.
// POST /api/v1/admin/tasks
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Get retrieves one task.
// GET /api/v1/admin/tasks/:id
func (h *Handler) Get(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidTaskID, nil)
		return
	}

	result, err := h.svc.Get(c.Request.Context(), taskID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Update applies field changes to a task or its whole group.
// PATCH /api/v1/admin/tasks/:id?applyToGroup=true
func (h *Handler) Update(c *gin.Context) {
	taskID, identity, applyToGroup, ok := h.taskContext(c)
	if !ok {
		return
	}

	var req transport.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Update(c.Request.Context(), identity.UserID(), taskID, req, applyToGroup)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a task or its whole group.
// DELETE /api/v1/admin/tasks/:id?applyToGroup=true
func (h *Handler) Delete(c *gin.Context) {
	taskID, identity, applyToGroup, ok := h.taskContext(c)
	if !ok {
		return
	}

	result, err := h.svc.Delete(c.Request.Context(), identity.UserID(), taskID, applyToGroup)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List retrieves the task listing.
// GET /api/v1/admin/tasks
func (h *Handler) List(c *gin.Context) {
	var req transport.ListTasksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListGroups retrieves the aggregated fan-out group dashboard.
// GET /api/v1/admin/tasks/groups
func (h *Handler) ListGroups(c *gin.Context) {
	result, err := h.svc.ListGroups(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) taskContext(c *gin.Context) (uuid.UUID, httpkit.Identity, bool, bool) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidTaskID, nil)
		return uuid.Nil, nil, false, false
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.Nil, nil, false, false
	}

	applyToGroup := false
	if raw := c.Query("applyToGroup"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid applyToGroup value", nil)
			return uuid.Nil, nil, false, false
		}
		applyToGroup = parsed
	}
	return taskID, identity, applyToGroup, true
}
