package main

import (
	"errors"

	"github.com/spf13/cobra"

	"arogyakrishi/internal/config"
	"arogyakrishi/internal/database"
	"arogyakrishi/internal/logging"
)

func migrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if !cfg.DatabaseConfigured() {
				return errors.New("no database configured: set DATABASE_URL or DB_HOST")
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := database.Connect(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			logger.Info("schema applied")
			return nil
		},
	}
}
