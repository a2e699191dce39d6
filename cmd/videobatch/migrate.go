package main

import (
	"github.com/spf13/cobra"

	"videobatch/internal/db"
	"videobatch/pkg/store"
	"videobatch/pkg/ui"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables",
	Long: `Create the channel, channel_video_batch_event and video tables and their
indexes if they do not exist. Safe to run repeatedly.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	log, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	pool, err := db.NewPool(cmd.Context(), cfg.Database, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := store.NewPostgres(pool).Migrate(cmd.Context()); err != nil {
		return err
	}

	ui.PrintSuccess("Schema applied")
	return nil
}
