// Command api runs the platform-admin HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resto_admin_backend/internal/adapters"
	"resto_admin_backend/internal/audit"
	"resto_admin_backend/internal/campaigns"
	"resto_admin_backend/internal/events"
	apphttp "resto_admin_backend/internal/http"
	"resto_admin_backend/internal/http/router"
	"resto_admin_backend/internal/leads"
	"resto_admin_backend/internal/orders"
	"resto_admin_backend/internal/restaurants"
	"resto_admin_backend/internal/scheduler"
	"resto_admin_backend/internal/tasks"
	"resto_admin_backend/platform/config"
	"resto_admin_backend/platform/db"
	"resto_admin_backend/platform/logger"
	"resto_admin_backend/platform/schema"
	"resto_admin_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := connectWithRetry(ctx, cfg, log)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg, cfg.MigrationsDir, log); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// The schema contract is verified once here; modules receive resolved
	// capabilities instead of probing columns per request.
	caps, err := schema.Verify(ctx, pool)
	if err != nil {
		log.Error("schema verification failed", "error", err)
		os.Exit(1)
	}

	queue, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("delivery queue init failed", "error", err)
		os.Exit(1)
	}
	defer queue.Close()

	val := validator.New()
	bus := events.NewInMemoryBus(log)
	events.SubscribeObserver(bus, events.NewLogObserver(log))

	auditModule := audit.NewModule(pool, log)
	restaurantsModule := restaurants.NewModule(pool, auditModule.Recorder(), caps, bus, val, log)

	tenantDirectory := adapters.NewTenantDirectory(restaurantsModule.Lookup())
	tasksModule := tasks.NewModule(pool, tenantDirectory, auditModule.Recorder(), bus, val, log)

	ordersModule := orders.NewModule(pool, auditModule.Guard(), queue, bus, val, log)
	campaignsModule := campaigns.NewModule(pool, auditModule.Recorder(), bus, val, log)
	leadsModule := leads.NewModule(pool,
		adapters.NewTenantResolver(restaurantsModule.Lookup()),
		adapters.NewTaskCreator(tasksModule.Service()),
		auditModule.Recorder(), bus, val, log)

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: bus,
		Modules: []apphttp.Module{
			auditModule,
			restaurantsModule,
			ordersModule,
			campaignsModule,
			tasksModule,
			leadsModule,
		},
	}

	engine := router.New(app)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}

// connectWithRetry gives the database a short window to come up, which keeps
// container orchestration restarts quiet.
func connectWithRetry(ctx context.Context, cfg *config.Config, log *logger.Logger) (*pgxpool.Pool, error) {
	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err := db.NewPool(ctx, cfg)
		if err == nil {
			return pool, nil
		}
		lastErr = err
		log.Warn("database not ready", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return nil, lastErr
}
