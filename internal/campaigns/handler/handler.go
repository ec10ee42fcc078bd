package handler

import (
	"net/http"

	"resto_admin_backend/internal/campaigns/service"
	"resto_admin_backend/internal/campaigns/transport"
	"resto_admin_backend/platform/httpkit"
	"resto_admin_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest    = "invalid request"
	msgValidationFailed  = "validation failed"
	msgInvalidCampaignID = "invalid campaign ID"
)

// Handler handles HTTP requests for campaign moderation.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new campaigns handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Approve approves a pending campaign.
// POST /api/v1/admin/campaigns/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	campaignID, identity, ok := h.campaignContext(c)
	if !ok {
		return
	}

	result, err := h.svc.Approve(c.Request.Context(), identity.UserID(), campaignID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Disapprove rejects a campaign with an optional reason.
// POST /api/v1/admin/campaigns/:id/disapprove
func (h *Handler) Disapprove(c *gin.Context) {
	campaignID, identity, ok := h.campaignContext(c)
	if !ok {
		return
	}

	var req transport.DisapproveCampaignRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.val.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
			return
		}
	}

	result, err := h.svc.Disapprove(c.Request.Context(), identity.UserID(), campaignID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List retrieves the moderation queue.
// GET /api/v1/admin/campaigns
func (h *Handler) List(c *gin.Context) {
	var req transport.ListCampaignsRequest
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

func (h *Handler) campaignContext(c *gin.Context) (uuid.UUID, httpkit.Identity, bool) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCampaignID, nil)
		return uuid.Nil, nil, false
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.Nil, nil, false
	}
	return campaignID, identity, true
}
