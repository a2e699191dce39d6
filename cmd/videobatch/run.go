package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"videobatch/internal/db"
	"videobatch/pkg/auth"
	"videobatch/pkg/batch"
	"videobatch/pkg/checkpoint"
	"videobatch/pkg/config"
	errs "videobatch/pkg/errors"
	"videobatch/pkg/fetcher"
	"videobatch/pkg/logger"
	"videobatch/pkg/ratelimit"
	"videobatch/pkg/store"
	"videobatch/pkg/youtube"
)

var (
	runChannels    []string
	failOnError    bool
	databaseURL    string
	timezone       string
	requestsPerMin int
	maxSpanMonths  int
	maxPages       int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch new videos for every tracked channel",
	Long: `Run one batch: for each channel in the channel table, record the next
window, fetch every video published in it and store the videos, all in one
transaction per channel.

The API key is read from VIDEOBATCH_API_KEY (or NUXT_GOOGLE_API_KEY), then
from the system keyring (see 'videobatch auth set-key'), then from the
config file.

Channel failures are logged and counted but do not change the exit status
unless --fail-on-error is given.`,
	Example: `  # Process every channel
  videobatch run

  # Process two channels only
  videobatch run --channel UCxxxx --channel UCyyyy

  # Fail the job when any channel fails
  videobatch run --fail-on-error`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringArrayVar(&runChannels, "channel", nil, "only process this channel id (repeatable)")
	runCmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "exit with status 1 if any channel fails")
	runCmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection url")
	runCmd.Flags().StringVar(&timezone, "timezone", "", "timezone for window arithmetic and timestamps")
	runCmd.Flags().IntVar(&requestsPerMin, "requests-per-minute", 0, "search API requests per minute")
	runCmd.Flags().IntVar(&maxSpanMonths, "max-span-months", 0, "maximum window length in months")
	runCmd.Flags().IntVar(&maxPages, "max-pages", 0, "maximum search pages per channel (0 = no limit)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(map[string]interface{}{
		"database-url":        databaseURL,
		"timezone":            timezone,
		"requests-per-minute": requestsPerMin,
		"max-span-months":     maxSpanMonths,
		"max-pages":           maxPages,
	})
	if err != nil {
		return errs.Bootstrap("failed to load configuration", err)
	}

	log, err := setupLogging(cfg)
	if err != nil {
		return errs.Bootstrap("failed to set up logging", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, closeFn, err := buildRunner(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("Batch could not start")
		return err
	}
	defer closeFn()

	result, err := runner.Run(ctx, time.Now())
	fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
	if err != nil {
		return err
	}

	if failOnError && result.Failed > 0 {
		return fmt.Errorf("%d of %d channels failed", result.Failed, result.Total())
	}

	log.Info("Done.")
	return nil
}

// buildRunner wires the runner's collaborators from cfg. The returned func
// releases the database pool.
func buildRunner(ctx context.Context, cfg *config.Config, log logger.Logger) (*batch.Runner, func(), error) {
	cred, err := auth.NewManager(cfg.YouTube.APIKey).Resolve()
	if err != nil {
		return nil, nil, errs.Bootstrap("no YouTube API key found, set VIDEOBATCH_API_KEY or run 'videobatch auth set-key'", err)
	}
	log.InfoWithFields("API key resolved", map[string]interface{}{
		"source": cred.Source,
		"key":    cred.Masked(),
	})

	policy, err := checkpoint.PolicyFromConfig(cfg.Batch)
	if err != nil {
		return nil, nil, errs.Bootstrap("invalid batch settings", err)
	}

	pool, err := db.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, errs.Bootstrap("failed to connect to database", err)
	}

	client := youtube.NewClient(cred.APIKey,
		youtube.WithBaseURL(cfg.YouTube.BaseURL),
		youtube.WithTimeout(cfg.YouTube.RequestTimeout),
		youtube.WithLogger(log),
	)

	var limiter ratelimit.Limiter = ratelimit.Unlimited{}
	if cfg.RateLimit.RequestsPerMinute > 0 {
		limiter = ratelimit.PerMinute(cfg.RateLimit.RequestsPerMinute)
	}

	f := fetcher.New(client, limiter, fetcher.Options{
		CategoryID:        cfg.YouTube.CategoryID,
		RelevanceLanguage: cfg.YouTube.RelevanceLanguage,
		PageSize:          cfg.YouTube.PageSize,
		MaxPages:          cfg.YouTube.MaxPages,
		Location:          policy.Location,
	}, log)

	runner := batch.NewRunner(
		store.NewPostgres(pool),
		checkpoint.NewAdvancer(policy, log),
		f,
		batch.Options{
			ProgramID: policy.ProgramID,
			Location:  policy.Location,
			Channels:  runChannels,
		},
		log,
	)

	return runner, pool.Close, nil
}
