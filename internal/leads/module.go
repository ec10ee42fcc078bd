// Package leads provides the demo booking bounded context: the conversion
// workflow into onboarding tasks and the lead listing.
package leads

import (
	"resto_admin_backend/internal/events"
	apphttp "resto_admin_backend/internal/http"
	"resto_admin_backend/internal/leads/handler"
	"resto_admin_backend/internal/leads/repository"
	"resto_admin_backend/internal/leads/service"
	"resto_admin_backend/platform/logger"
	"resto_admin_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, tenants service.TenantResolver, tasks service.TaskCreator, auditor service.Auditor, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, tenants, tasks, auditor, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead conversion routes on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Admin.Group("/demo-bookings")
	group.GET("", m.handler.List)
	group.POST("/:id/convert", m.handler.Convert)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
