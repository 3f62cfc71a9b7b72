package cli

import (
	"context"
	"database/sql"

	"social_games_backend/config"
	"social_games_backend/db"
	"social_games_backend/logging"

	"github.com/spf13/cobra"
)

// NewMigrateCmd applies or rolls back database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var rollback bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath, rollback)
		},
	}
	cmd.Flags().BoolVar(&rollback, "rollback", false, "roll back the last migration group")
	return cmd
}

func runMigrations(ctx context.Context, configPath string, rollback bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Environment)

	database, err := db.Initialize(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	defer database.Close()

	if rollback {
		group, err := db.RollbackSchema(ctx, database)
		if err != nil {
			return err
		}
		if group.IsZero() {
			logger.Info("no migrations to roll back")
			return nil
		}
		logger.Info("migrations rolled back", "group", group.String())
		return nil
	}

	return migrate(ctx, database, logger)
}

func migrate(ctx context.Context, database *sql.DB, logger logging.Logger) error {
	group, err := db.InitSchema(ctx, database)
	if err != nil {
		return err
	}
	if group.IsZero() {
		logger.Info("schema is up to date")
		return nil
	}
	logger.Info("migrations applied", "group", group.String())
	return nil
}
