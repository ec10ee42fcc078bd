package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resto_admin_backend/platform/config"
	"resto_admin_backend/platform/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all pending migrations from migrationsDir. An empty
// directory setting disables migrations, for deployments that run them out
// of band.
func RunMigrations(_ context.Context, cfg config.DatabaseConfig, migrationsDir string, log *logger.Logger) error {
	if strings.TrimSpace(migrationsDir) == "" {
		log.Info("migrations disabled, no directory configured")
		return nil
	}

	m, err := migrate.New("file://"+migrationsDir, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("open migration source %q: %w", migrationsDir, err)
	}
	defer m.Close()

	err = m.Up()
	switch {
	case err == nil:
	case errors.Is(err, migrate.ErrNoChange):
		log.Info("schema up to date")
	default:
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration version %d is dirty, manual repair required", version)
	}

	log.Info("migrations applied", "version", version)
	return nil
}
