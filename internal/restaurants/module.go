// Package restaurants provides the tenant lifecycle bounded context:
// cascading activation/deactivation and the tenant listing, plus a lookup
// surface other modules use to resolve tenants and memberships.
package restaurants

import (
	"resto_admin_backend/internal/events"
	apphttp "resto_admin_backend/internal/http"
	"resto_admin_backend/internal/restaurants/handler"
	"resto_admin_backend/internal/restaurants/repository"
	"resto_admin_backend/internal/restaurants/service"
	"resto_admin_backend/platform/logger"
	"resto_admin_backend/platform/schema"
	"resto_admin_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the restaurants bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	lookup  *service.Lookup
	repo    repository.Repository
}

// NewModule creates and initializes the restaurants module with all its dependencies.
func NewModule(pool *pgxpool.Pool, auditor service.Auditor, caps schema.Capabilities, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, auditor, caps, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		lookup:  service.NewLookup(repo),
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "restaurants"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Lookup returns the cross-module tenant lookup.
func (m *Module) Lookup() *service.Lookup {
	return m.lookup
}

// RegisterRoutes mounts tenant lifecycle routes on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Admin.Group("/restaurants")
	group.GET("", m.handler.List)
	group.PATCH("/:id/status", m.handler.SetStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
