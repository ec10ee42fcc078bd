package scheduler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type stubConfig struct {
	redisURL    string
	tlsInsecure bool
	queue       string
}

func (c stubConfig) GetRedisURL() string       { return c.redisURL }
func (c stubConfig) GetRedisTLSInsecure() bool { return c.tlsInsecure }
func (c stubConfig) GetAsynqQueueName() string { return c.queue }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(stubConfig{}); err == nil {
		t.Fatal("NewClient() with empty redis url succeeded")
	}
	if _, err := NewClient(stubConfig{redisURL: "not a url"}); err == nil {
		t.Fatal("NewClient() with a malformed redis url succeeded")
	}
}

func TestEnqueueConfirmationResend(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(stubConfig{redisURL: "redis://" + mr.Addr(), queue: "delivery"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	payload := ConfirmationResendPayload{
		OrderID:      "7b3c9a10-0000-0000-0000-000000000001",
		RestaurantID: "7b3c9a10-0000-0000-0000-000000000002",
		Channel:      "email",
		Recipient:    "guest@example.com",
		CustomerName: "Sam de Vries",
		TotalCents:   2450,
	}
	if err := client.EnqueueConfirmationResend(context.Background(), payload); err != nil {
		t.Fatalf("EnqueueConfirmationResend() error = %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	pending, err := inspector.ListPendingTasks("delivery")
	if err != nil {
		t.Fatalf("ListPendingTasks() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending tasks = %d, want 1", len(pending))
	}
	if pending[0].Type != TaskConfirmationResend {
		t.Errorf("task type = %q, want %q", pending[0].Type, TaskConfirmationResend)
	}

	var decoded ConfirmationResendPayload
	if err := json.Unmarshal(pending[0].Payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded != payload {
		t.Errorf("payload = %+v, want %+v", decoded, payload)
	}
}
