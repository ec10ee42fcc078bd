package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestEncodeDecodeDetail(t *testing.T) {
	detail := StatusChangeDetail{
		PreviousStatus: "pending",
		NewStatus:      "cancelled",
		Reason:         "duplicate order",
	}

	raw, err := EncodeDetail(ActionOrderCancel, "key-123", detail)
	if err != nil {
		t.Fatalf("EncodeDetail() error = %v", err)
	}

	envelope, ok := DecodeDetail(raw)
	if !ok {
		t.Fatal("DecodeDetail() ok = false, want true")
	}
	if envelope.Action != ActionOrderCancel {
		t.Errorf("Action = %q, want %q", envelope.Action, ActionOrderCancel)
	}
	if envelope.IdempotencyKey != "key-123" {
		t.Errorf("IdempotencyKey = %q, want %q", envelope.IdempotencyKey, "key-123")
	}

	var decoded StatusChangeDetail
	if err := DecodeData(envelope, &decoded); err != nil {
		t.Fatalf("DecodeData() error = %v", err)
	}
	if decoded != detail {
		t.Errorf("decoded = %+v, want %+v", decoded, detail)
	}
}

func TestDecodeDetailLegacyPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
	}{
		{"empty", nil},
		{"free text", json.RawMessage(`"cancelled by admin"`)},
		{"ad hoc map", json.RawMessage(`{"reason":"stale","by":"yasmin"}`)},
		{"not json", json.RawMessage(`cancelled`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := DecodeDetail(tt.raw); ok {
				t.Error("DecodeDetail() ok = true for a legacy payload, want false")
			}
		})
	}
}

func TestEncodeDetailNilData(t *testing.T) {
	raw, err := EncodeDetail(ActionOrderReopen, "", nil)
	if err != nil {
		t.Fatalf("EncodeDetail() error = %v", err)
	}

	envelope, ok := DecodeDetail(raw)
	if !ok {
		t.Fatal("DecodeDetail() ok = false, want true")
	}
	if len(envelope.Data) != 0 {
		t.Errorf("Data = %s, want empty", envelope.Data)
	}
	if err := DecodeData(envelope, &StatusChangeDetail{}); err == nil {
		t.Error("DecodeData() on empty data = nil error, want error")
	}
}

func TestBulkCancelDetailRoundTrip(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	raw, err := EncodeDetail(ActionOrderBulkCancelStale, "sweep-1", BulkCancelDetail{
		StaleMinutes:      30,
		CancelledOrderIDs: ids,
		TotalCancelled:    2,
	})
	if err != nil {
		t.Fatalf("EncodeDetail() error = %v", err)
	}

	envelope, ok := DecodeDetail(raw)
	if !ok {
		t.Fatal("DecodeDetail() ok = false, want true")
	}

	var decoded BulkCancelDetail
	if err := DecodeData(envelope, &decoded); err != nil {
		t.Fatalf("DecodeData() error = %v", err)
	}
	if decoded.TotalCancelled != 2 || len(decoded.CancelledOrderIDs) != 2 {
		t.Errorf("decoded = %+v, want 2 cancelled ids", decoded)
	}
}
