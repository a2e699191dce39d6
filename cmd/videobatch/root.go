package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"videobatch/pkg/config"
	"videobatch/pkg/logger"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "videobatch",
	Short: "Incremental YouTube video batch for tracked channels",
	Long: `videobatch fetches the videos each tracked channel published since its
previous run from the YouTube Data API and stores them in PostgreSQL.

Every run advances each channel by at most one window (6 months by default),
so channels that have not been processed for a long time catch up over
several runs. A channel that fails is rolled back and retried by the next run
without affecting the others.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .videobatch.yaml or ~/.config/videobatch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`videobatch {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig loads configuration with the global flags merged over extra
func loadConfig(extra map[string]interface{}) (*config.Config, error) {
	flags := make(map[string]interface{}, len(extra)+1)
	for k, v := range extra {
		flags[k] = v
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return config.Load(configFile, flags)
}

// setupLogging initialises the global logger from cfg and returns it
func setupLogging(cfg *config.Config) (logger.Logger, error) {
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialise logger: %w", err)
	}
	return logger.GetLogger(), nil
}
