package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"spin-raffle-backend/internal/common/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewMigrator returns a migrator over the embedded schema for dsn.
func NewMigrator(dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

// MigrateUp applies every pending migration. No pending migration is not an error.
func MigrateUp(dsn string) error {
	m, err := NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("Database schema is up to date")
	return nil
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		logger.Warn().AnErr("source_error", srcErr).AnErr("database_error", dbErr).Msg("Failed to close migrator")
	}
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	logger.Info().Msgf("migrate: "+format, v...)
}

func (migrateLogger) Verbose() bool {
	return false
}
