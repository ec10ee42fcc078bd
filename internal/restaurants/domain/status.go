// Package domain holds restaurant tenant lifecycle rules.
package domain

// Tenant statuses accepted on the status endpoint.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ValidStatus reports whether the requested status is one the endpoint accepts.
func ValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}

// IsActive maps the wire status to the stored flag.
func IsActive(status string) bool {
	return status == StatusActive
}
