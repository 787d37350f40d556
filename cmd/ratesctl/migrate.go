package main

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/currency_api/internal/platform/config"
	"github.com/SscSPs/currency_api/pkg/database"
	"github.com/spf13/cobra"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply all pending migrations, or revert the last one",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			direction := database.MigrationDirection(args[0])
			changed, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, direction)
			if err != nil {
				return err
			}
			if !changed {
				logger.Info("No migrations to apply.", slog.String("direction", string(direction)))
				return nil
			}
			logger.Info("Migrations applied.", slog.String("direction", string(direction)))
			return nil
		},
	}
}
