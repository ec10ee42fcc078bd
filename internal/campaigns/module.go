// Package campaigns provides the campaign moderation bounded context:
// approve/disapprove transitions and the moderation queue listing.
package campaigns

import (
	"resto_admin_backend/internal/campaigns/handler"
	"resto_admin_backend/internal/campaigns/repository"
	"resto_admin_backend/internal/campaigns/service"
	"resto_admin_backend/internal/events"
	apphttp "resto_admin_backend/internal/http"
	"resto_admin_backend/platform/logger"
	"resto_admin_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the campaigns bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the campaigns module with all its dependencies.
func NewModule(pool *pgxpool.Pool, auditor service.Auditor, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, auditor, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "campaigns"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts campaign moderation routes on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Admin.Group("/campaigns")
	group.GET("", m.handler.List)
	group.POST("/:id/approve", m.handler.Approve)
	group.POST("/:id/disapprove", m.handler.Disapprove)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
