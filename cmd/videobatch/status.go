package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"videobatch/internal/db"
	"videobatch/pkg/store"
	"videobatch/pkg/ui"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest window of every channel",
	Long: `Show the most recent batch window recorded for each channel.

The LAST column is where the channel's next run will start.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	log, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	loc, err := cfg.Batch.Location()
	if err != nil {
		return err
	}

	pool, err := db.NewPool(cmd.Context(), cfg.Database, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	windows, err := store.NewPostgres(pool).LatestWindows(cmd.Context())
	if err != nil {
		return err
	}

	if len(windows) == 0 {
		ui.PrintWarning("No batch windows recorded yet")
		return nil
	}

	fmt.Fprintln(ui.Output, ui.WindowTable(windows, loc))
	return nil
}
