package handler

import (
	"net/http"

	"resto_admin_backend/internal/restaurants/service"
	"resto_admin_backend/internal/restaurants/transport"
	"resto_admin_backend/platform/httpkit"
	"resto_admin_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest      = "invalid request"
	msgValidationFailed    = "validation failed"
	msgInvalidRestaurantID = "invalid restaurant ID"
)

// Handler handles HTTP requests for tenant lifecycle operations.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new restaurants handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// SetStatus flips a tenant between active and inactive with cascades.
// PATCH /api/v1/admin/restaurants/:id/status
func (h *Handler) SetStatus(c *gin.Context) {
	restaurantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRestaurantID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.SetStatus(c.Request.Context(), identity.UserID(), restaurantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List retrieves the tenant listing.
// GET /api/v1/admin/restaurants
func (h *Handler) List(c *gin.Context) {
	var req transport.ListRestaurantsRequest
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
