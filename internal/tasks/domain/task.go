// Package domain holds task scoping and field rules for the fan-out engine.
package domain

// Task scopes. Restaurant-scoped tasks belong to one tenant; company-scoped
// tasks fan out to every active tenant under the company.
const (
	ScopeRestaurant = "restaurant"
	ScopeCompany    = "company"
)

// Task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// TaskTypeDemoConversion marks tasks created by the lead conversion workflow.
const TaskTypeDemoConversion = "demo_conversion"

// DefaultStatus and DefaultPriority apply when creation omits them.
const (
	DefaultStatus   = StatusPending
	DefaultPriority = PriorityMedium
)

// ValidScope reports whether the scope is one the engine accepts.
func ValidScope(scope string) bool {
	return scope == ScopeRestaurant || scope == ScopeCompany
}

// ValidStatus reports whether the status is a legal task status.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ValidPriority reports whether the priority is a legal task priority.
func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
