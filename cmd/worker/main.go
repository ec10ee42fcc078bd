// Command worker consumes the delivery queue and sends resent order
// confirmations.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"resto_admin_backend/internal/notification"
	"resto_admin_backend/internal/scheduler"
	"resto_admin_backend/platform/config"
	"resto_admin_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Env)

	var sender notification.ConfirmationSender = notification.NopSender{}
	if cfg.GetEmailEnabled() {
		sender = notification.NewSMTPSender(cfg)
	} else {
		log.Warn("email delivery disabled, confirmations are logged only")
	}

	worker, err := scheduler.NewWorker(cfg, sender, log)
	if err != nil {
		log.Error("worker init failed", "error", err)
		os.Exit(1)
	}

	done := make(chan error, 1)
	go func() {
		log.Info("worker started", "queue", cfg.AsynqQueueName)
		done <- worker.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
		worker.Shutdown()
	case err := <-done:
		if err != nil {
			log.Error("worker failed", "error", err)
			os.Exit(1)
		}
	}
}
