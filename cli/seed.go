package cli

import (
	"context"

	"social_games_backend/config"
	"social_games_backend/db"
	"social_games_backend/logging"

	"github.com/spf13/cobra"
)

// NewSeedCmd loads the compatibility catalog: templates, categories and the
// template questions offered while authoring.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the compatibility catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
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

	if err := migrate(ctx, database, logger); err != nil {
		return err
	}
	if err := db.SeedData(ctx, database); err != nil {
		return err
	}
	logger.Info("catalog seeded")
	return nil
}
