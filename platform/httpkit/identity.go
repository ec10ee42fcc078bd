package httpkit

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RolePlatformAdmin is the role required for every intervention endpoint.
const RolePlatformAdmin = "platform_admin"

// Identity is the authenticated caller as seen by handlers. It hides the
// gin context so services and handlers stay framework-agnostic about auth.
type Identity interface {
	// UserID is the caller's platform user id, used for audit attribution.
	UserID() uuid.UUID
	// Roles lists the caller's token roles.
	Roles() []string
	// HasRole reports whether the caller holds the role.
	HasRole(role string) bool
	// IsAuthenticated reports whether a valid token was presented.
	IsAuthenticated() bool
}

type caller struct {
	userID uuid.UUID
	roles  []string
	valid  bool
}

func (c *caller) UserID() uuid.UUID        { return c.userID }
func (c *caller) Roles() []string          { return c.roles }
func (c *caller) HasRole(role string) bool { return slices.Contains(c.roles, role) }
func (c *caller) IsAuthenticated() bool    { return c.valid }

// GetIdentity reads the caller the auth middleware stored on the context.
// An anonymous identity is returned when no valid token was presented.
func GetIdentity(c *gin.Context) Identity {
	stored, ok := c.Get(ContextUserIDKey)
	if !ok {
		return &caller{}
	}
	userID, ok := stored.(uuid.UUID)
	if !ok {
		return &caller{}
	}

	var roles []string
	if raw, ok := c.Get(ContextRolesKey); ok {
		roles, _ = raw.([]string)
	}
	return &caller{userID: userID, roles: roles, valid: true}
}

// MustGetIdentity is GetIdentity that aborts with 401 for anonymous callers.
// Callers must stop handling the request when it returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
