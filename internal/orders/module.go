// Package orders provides the order intervention bounded context: guarded
// cancel/reopen transitions, confirmation redelivery, and the stale sweep.
package orders

import (
	"resto_admin_backend/internal/events"
	apphttp "resto_admin_backend/internal/http"
	"resto_admin_backend/internal/orders/handler"
	"resto_admin_backend/internal/orders/repository"
	"resto_admin_backend/internal/orders/service"
	"resto_admin_backend/internal/scheduler"
	"resto_admin_backend/platform/logger"
	"resto_admin_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the orders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the orders module with all its dependencies.
func NewModule(pool *pgxpool.Pool, guard service.IdempotencyGuard, queue scheduler.DeliveryQueue, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, guard, queue, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orders"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts order intervention routes on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Admin.Group("/orders")
	group.GET("", m.handler.List)
	group.POST("/bulk/cancel-stale", m.handler.BulkCancelStale)
	group.POST("/:id/cancel", m.handler.Cancel)
	group.POST("/:id/reopen", m.handler.Reopen)
	group.POST("/:id/resend-confirmation", m.handler.ResendConfirmation)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
