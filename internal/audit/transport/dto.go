package transport

import (
	"encoding/json"
	"time"

	"resto_admin_backend/internal/audit/domain"

	"github.com/google/uuid"
)

// ListAuditLogsRequest narrows the audit listing query.
type ListAuditLogsRequest struct {
	RestaurantID *uuid.UUID `form:"restaurantId"`
	ActorID      *uuid.UUID `form:"actorId"`
	Action       string     `form:"action"`
	EntityType   string     `form:"entityType"`
	EntityID     *uuid.UUID `form:"entityId"`
	From         *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To           *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page         int        `form:"page"`
	PageSize     int        `form:"pageSize"`
}

// AuditLogEntryResponse represents one ledger row in API responses.
// Details is either the decoded structured payload or, for legacy rows that
// predate the envelope, the raw stored value under a "raw" key.
type AuditLogEntryResponse struct {
	ID           uuid.UUID              `json:"id"`
	RestaurantID *uuid.UUID             `json:"restaurantId,omitempty"`
	ActorID      *uuid.UUID             `json:"actorId,omitempty"`
	Action       string                 `json:"action"`
	EntityType   *string                `json:"entityType,omitempty"`
	EntityID     *uuid.UUID             `json:"entityId,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
	CreatedAt    string                 `json:"createdAt"`
}

// AuditLogListResponse wraps a page of audit entries.
type AuditLogListResponse struct {
	Items    []AuditLogEntryResponse `json:"items"`
	Total    int                     `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"pageSize"`
}

// ToEntryResponse maps a ledger row for the API, decoding structured details
// and degrading to the raw value for anything unparseable.
func ToEntryResponse(entry domain.Entry) AuditLogEntryResponse {
	resp := AuditLogEntryResponse{
		ID:           entry.ID,
		RestaurantID: entry.RestaurantID,
		ActorID:      entry.ActorID,
		Action:       entry.Action,
		EntityType:   entry.EntityType,
		EntityID:     entry.EntityID,
		CreatedAt:    entry.CreatedAt.Format(time.RFC3339),
	}

	if len(entry.Details) == 0 {
		return resp
	}

	if envelope, ok := domain.DecodeDetail(entry.Details); ok {
		details := map[string]interface{}{
			"schemaVersion": envelope.SchemaVersion,
			"action":        envelope.Action,
		}
		if envelope.IdempotencyKey != "" {
			details["idempotencyKey"] = envelope.IdempotencyKey
		}
		var data map[string]interface{}
		if err := json.Unmarshal(envelope.Data, &data); err == nil {
			details["data"] = data
		}
		resp.Details = details
		return resp
	}

	// Legacy free-text or ad hoc payload: surface it untouched.
	resp.Details = map[string]interface{}{"raw": string(entry.Details)}
	return resp
}
