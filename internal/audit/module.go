// Package audit provides the append-only admin action ledger and the
// idempotency guard every destructive endpoint is wrapped in.
package audit

import (
	"resto_admin_backend/internal/audit/handler"
	"resto_admin_backend/internal/audit/repository"
	"resto_admin_backend/internal/audit/service"
	apphttp "resto_admin_backend/internal/http"
	"resto_admin_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the audit bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	recorder *service.Recorder
	guard    *service.Guard
	repo     repository.Repository
}

// NewModule creates and initializes the audit module with all its dependencies.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	recorder := service.NewRecorder(pool, repo, log)
	guard := service.NewGuard(pool, repo, log)
	h := handler.New(recorder)

	return &Module{
		handler:  h,
		recorder: recorder,
		guard:    guard,
		repo:     repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "audit"
}

// Recorder returns the ledger writer for other modules.
func (m *Module) Recorder() *service.Recorder {
	return m.recorder
}

// Guard returns the idempotency guard for other modules.
func (m *Module) Guard() *service.Guard {
	return m.guard
}

// RegisterRoutes mounts the audit read surface on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/audit-logs", m.handler.List)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
