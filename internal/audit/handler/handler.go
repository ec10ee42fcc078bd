package handler

import (
	"net/http"

	"resto_admin_backend/internal/audit/service"
	"resto_admin_backend/internal/audit/transport"
	"resto_admin_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the audit log read surface.
type Handler struct {
	recorder *service.Recorder
}

// New creates a new audit handler.
func New(recorder *service.Recorder) *Handler {
	return &Handler{recorder: recorder}
}

// List returns audit entries newest first.
// GET /api/v1/admin/audit-logs
func (h *Handler) List(c *gin.Context) {
	var req transport.ListAuditLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	result, err := h.recorder.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
