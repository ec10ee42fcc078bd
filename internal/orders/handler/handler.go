package handler

import (
	"net/http"

	"resto_admin_backend/internal/orders/service"
	"resto_admin_backend/internal/orders/transport"
	"resto_admin_backend/platform/httpkit"
	"resto_admin_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader carries the caller-supplied dedup token for every
// destructive order action.
const IdempotencyKeyHeader = "X-Idempotency-Key"

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidOrderID   = "invalid order ID"
)

// Handler handles HTTP requests for order interventions.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new orders handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Cancel cancels an order.
// POST /api/v1/admin/orders/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	orderID, identity, ok := h.orderContext(c)
	if !ok {
		return
	}

	var req transport.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Cancel(c.Request.Context(), identity.UserID(), orderID, req, c.GetHeader(IdempotencyKeyHeader))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Reopen returns a cancelled order to pending.
// POST /api/v1/admin/orders/:id/reopen
func (h *Handler) Reopen(c *gin.Context) {
	orderID, identity, ok := h.orderContext(c)
	if !ok {
		return
	}

	var req transport.ReopenOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Reopen(c.Request.Context(), identity.UserID(), orderID, req, c.GetHeader(IdempotencyKeyHeader))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ResendConfirmation queues a confirmation redelivery.
// POST /api/v1/admin/orders/:id/resend-confirmation
func (h *Handler) ResendConfirmation(c *gin.Context) {
	orderID, identity, ok := h.orderContext(c)
	if !ok {
		return
	}

	var req transport.ResendConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.ResendConfirmation(c.Request.Context(), identity.UserID(), orderID, req, c.GetHeader(IdempotencyKeyHeader))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// BulkCancelStale cancels all pending orders older than the given age.
// POST /api/v1/admin/orders/bulk/cancel-stale
func (h *Handler) BulkCancelStale(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.BulkCancelStaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.BulkCancelStale(c.Request.Context(), identity.UserID(), req, c.GetHeader(IdempotencyKeyHeader))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List retrieves orders for the console.
// GET /api/v1/admin/orders
func (h *Handler) List(c *gin.Context) {
	var req transport.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) orderContext(c *gin.Context) (uuid.UUID, httpkit.Identity, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidOrderID, nil)
		return uuid.Nil, nil, false
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.Nil, nil, false
	}
	return orderID, identity, true
}
