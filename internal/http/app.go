// Package http holds the server assembly types: the App composition root
// output and the Module contract domain packages implement.
package http

import (
	"context"

	"resto_admin_backend/internal/events"
	"resto_admin_backend/platform/config"
	"resto_admin_backend/platform/logger"
)

// RouterConfig is the slice of configuration the router needs.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker answers the readiness probe, typically a DB ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App carries everything cmd/api wires together for the router: config,
// logging, the readiness check, the event bus, and the domain modules whose
// routes get mounted.
type App struct {
	Config   RouterConfig
	Logger   *logger.Logger
	Health   HealthChecker
	EventBus events.Bus
	Modules  []Module
}
