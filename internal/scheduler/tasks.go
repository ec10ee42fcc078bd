package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskConfirmationResend delivers a re-sent order confirmation to a customer.
const TaskConfirmationResend = "orders.confirmation.resend"

// ConfirmationResendPayload carries everything the worker needs to deliver a
// confirmation without reading the order back.
type ConfirmationResendPayload struct {
	OrderID      string `json:"orderId"`
	RestaurantID string `json:"restaurantId"`
	Channel      string `json:"channel"` // "sms" or "email"
	Recipient    string `json:"recipient"`
	CustomerName string `json:"customerName"`
	TotalCents   int64  `json:"totalCents"`
}

// NewConfirmationResendTask builds the asynq task for a confirmation redelivery.
func NewConfirmationResendTask(payload ConfirmationResendPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskConfirmationResend, data), nil
}

// ParseConfirmationResendPayload decodes the task payload.
func ParseConfirmationResendPayload(task *asynq.Task) (ConfirmationResendPayload, error) {
	var payload ConfirmationResendPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ConfirmationResendPayload{}, err
	}
	return payload, nil
}
