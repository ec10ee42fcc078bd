package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// detailSchemaVersion is bumped whenever a payload shape changes incompatibly.
const detailSchemaVersion = 1

// Payload is the envelope every structured detail blob is wrapped in.
// The Action field tags which Data shape the blob carries; the idempotency
// key, when the action was keyed, lives here so replay detection can match
// on an indexed value rather than a substring of the blob.
type Payload struct {
	SchemaVersion  int             `json:"schemaVersion"`
	Action         string          `json:"action"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
}

// The closed set of per-action payload shapes. Adding an action means adding
// a shape here, never writing ad hoc maps.

// StatusChangeDetail records a guarded order status transition.
type StatusChangeDetail struct {
	PreviousStatus string `json:"previousStatus"`
	NewStatus      string `json:"newStatus"`
	Reason         string `json:"reason,omitempty"`
}

// ResendConfirmationDetail records a queued confirmation redelivery.
type ResendConfirmationDetail struct {
	Channel        string `json:"channel"`
	Recipient      string `json:"recipient"`
	DeliveryStatus string `json:"deliveryStatus"`
}

// BulkCancelDetail records a platform-wide stale order sweep.
type BulkCancelDetail struct {
	StaleMinutes      int         `json:"staleMinutes"`
	CancelledOrderIDs []uuid.UUID `json:"cancelledOrderIds"`
	TotalCancelled    int         `json:"totalCancelled"`
}

// ModerationDetail records a campaign approval or rejection.
type ModerationDetail struct {
	PreviousStatus string  `json:"previousStatus"`
	NewStatus      string  `json:"newStatus"`
	Reason         *string `json:"reason,omitempty"`
}

// CascadeDetail records a restaurant (de)activation and its fan-out counts.
type CascadeDetail struct {
	IsActive         bool `json:"isActive"`
	UsersUpdated     int  `json:"usersUpdated"`
	CampaignsUpdated int  `json:"campaignsUpdated"`
}

// TaskCreateDetail records a single-restaurant task creation.
type TaskCreateDetail struct {
	TaskID uuid.UUID `json:"taskId"`
	Title  string    `json:"title"`
}

// TaskGroupDetail records a group-scoped task mutation.
type TaskGroupDetail struct {
	GroupID       uuid.UUID   `json:"groupId"`
	TaskIDs       []uuid.UUID `json:"taskIds,omitempty"`
	AffectedCount int         `json:"affectedCount"`
	Title         string      `json:"title,omitempty"`
}

// ConversionDetail records a demo booking converted into an onboarding task.
type ConversionDetail struct {
	LeadID       uuid.UUID `json:"leadId"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	TaskID       uuid.UUID `json:"taskId"`
}

// EncodeDetail wraps a typed detail struct in the tagged envelope.
func EncodeDetail(action, idempotencyKey string, data interface{}) (json.RawMessage, error) {
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s detail: %w", action, err)
		}
		raw = encoded
	}

	envelope := Payload{
		SchemaVersion:  detailSchemaVersion,
		Action:         action,
		IdempotencyKey: idempotencyKey,
		Data:           raw,
	}
	out, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", action, err)
	}
	return out, nil
}

// DecodeDetail unpacks a stored detail blob into its envelope. Legacy rows
// written before the envelope existed (free text, ad hoc maps) are reported
// with ok=false; callers must fall back to the raw value and must not fail
// the read path.
func DecodeDetail(raw json.RawMessage) (Payload, bool) {
	if len(raw) == 0 {
		return Payload{}, false
	}
	var envelope Payload
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Payload{}, false
	}
	if envelope.SchemaVersion == 0 || envelope.Action == "" {
		return Payload{}, false
	}
	return envelope, true
}

// DecodeData unmarshals the envelope's data into the given typed shape.
func DecodeData(p Payload, out interface{}) error {
	if len(p.Data) == 0 {
		return fmt.Errorf("%s detail has no data", p.Action)
	}
	if err := json.Unmarshal(p.Data, out); err != nil {
		return fmt.Errorf("decode %s detail: %w", p.Action, err)
	}
	return nil
}
