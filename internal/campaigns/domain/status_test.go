package domain

import (
	"testing"
	"time"
)

func TestApprovalTarget(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name        string
		scheduledAt *time.Time
		want        string
	}{
		{"future schedule", &future, StatusScheduled},
		{"past schedule", &past, StatusApproved},
		{"no schedule", nil, StatusApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApprovalTarget(tt.scheduledAt, now); got != tt.want {
				t.Errorf("ApprovalTarget() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanApprove(t *testing.T) {
	if !CanApprove(StatusPendingOwnerApproval) {
		t.Error("CanApprove(pending_owner_approval) = false, want true")
	}
	for _, status := range []string{StatusDraft, StatusApproved, StatusScheduled, StatusRejected, StatusSent} {
		if CanApprove(status) {
			t.Errorf("CanApprove(%q) = true, want false", status)
		}
	}
}

func TestCanDisapprove(t *testing.T) {
	for _, status := range []string{StatusPendingOwnerApproval, StatusApproved} {
		if !CanDisapprove(status) {
			t.Errorf("CanDisapprove(%q) = false, want true", status)
		}
	}
	for _, status := range []string{StatusDraft, StatusScheduled, StatusRejected, StatusSent} {
		if CanDisapprove(status) {
			t.Errorf("CanDisapprove(%q) = true, want false", status)
		}
	}
}
