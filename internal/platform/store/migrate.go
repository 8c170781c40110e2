package store

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/mwozniak/jobrank/internal/config"
	"github.com/mwozniak/jobrank/internal/platform/logger"
)

// RunMigrations executes idempotent schema migrations at startup.
func RunMigrations(cfg config.StoreConfig, client *Client, log *logger.Logger) error {
	log.Info(fmt.Sprintf("starting database migrations from %s", cfg.MigrationsPath))

	driver, err := sqlite3.WithInstance(client.DB.DB, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	sourceURL := fmt.Sprintf("file://%s", cfg.MigrationsPath)
	m, err := migrate.NewWithDatabaseInstance(sourceURL, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("database schema is already up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		log.Warn(fmt.Sprintf("could not get migration version after completion: %v", err))
	} else {
		log.Info(fmt.Sprintf("database migrations completed successfully (version=%d dirty=%v)", version, dirty))
	}

	return nil
}
