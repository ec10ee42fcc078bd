package http

import (
	"resto_admin_backend/platform/config"
	"resto_admin_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is one bounded context mounting its own routes. The router stays
// ignorant of individual endpoints; each module owns its slice of the API.
type Module interface {
	// Name identifies the module in startup logs.
	Name() string
	// RegisterRoutes mounts the module's endpoints on the shared groups.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext bundles the route groups and shared middleware a module can
// mount on, so RegisterRoutes keeps a single parameter.
type RouterContext struct {
	// Engine is the root engine, for modules needing engine-level routes.
	Engine *gin.Engine
	// V1 is /api/v1, unauthenticated.
	V1 *gin.RouterGroup
	// Protected is /api/v1 behind token auth.
	Protected *gin.RouterGroup
	// Admin is /api/v1/admin behind token auth plus the platform_admin
	// role. Every intervention endpoint in this service mounts here.
	Admin *gin.RouterGroup
	// Config exposes the JWT settings for modules adding their own auth.
	Config config.JWTConfig
	// AuthMiddleware is the shared token check.
	AuthMiddleware gin.HandlerFunc
	// RateLimiter is the shared per-IP limiter.
	RateLimiter *httpkit.IPRateLimiter
}
