package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"spin-raffle-backend/internal/common/config"
	"spin-raffle-backend/internal/common/logger"
	"spin-raffle-backend/internal/platform/postgres"
)

func main() {
	rootCmd := cobra.Command{
		Use:          "migrate",
		Short:        "manage the raffle database schema",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		upCommand(),
		downCommand(),
		versionCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadDSN() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	logger.Init("spin-raffle-migrate", cfg.Debug)
	return cfg.Postgres.GetDSN(), nil
}

func upCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "apply every pending migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := loadDSN()
			if err != nil {
				return err
			}
			return postgres.MigrateUp(dsn)
		},
	}
}

func downCommand() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := loadDSN()
			if err != nil {
				return err
			}
			m, err := postgres.NewMigrator(dsn)
			if err != nil {
				return err
			}
			defer m.Close()

			if steps > 0 {
				err = m.Steps(-steps)
			} else {
				err = m.Down()
			}
			if err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("failed to roll back migrations: %w", err)
			}
			logger.Info().Int("steps", steps).Msg("Migrations rolled back")
			return nil
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back, 0 for all")
	return cmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := loadDSN()
			if err != nil {
				return err
			}
			m, err := postgres.NewMigrator(dsn)
			if err != nil {
				return err
			}
			defer m.Close()

			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Println("no migrations applied")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}
			fmt.Printf("version %d (dirty: %t)\n", version, dirty)
			return nil
		},
	}
}
