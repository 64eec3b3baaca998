package main

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/aigymos/gym-console/internal/infrastructure/database"
	"github.com/aigymos/gym-console/pkg/config"
)

func newMigrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	var dir string
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations using the DB_* settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Config{}
			if err := envconfig.Process("DB", &cfg.Database); err != nil {
				return err
			}

			db, err := database.NewPostgresDB(cfg, opts.logger)
			if err != nil {
				return err
			}
			defer func() { _ = database.CloseDB(db) }()

			return database.Migrate(db, dir, opts.logger)
		},
	}
	up.Flags().StringVar(&dir, "dir", database.DefaultMigrationsDir, "migrations directory")

	cmd.AddCommand(up)
	return cmd
}
