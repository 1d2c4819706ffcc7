// Package cmd provides the CLI commands of ghcollector.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/e-comet/ghcollector/internal/config"
)

var (
	cfgFile string
	v       *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:   "ghcollector",
	Short: "ghcollector - GitHub top repositories collector",
	Long: `ghcollector collects the most starred GitHub repositories with the
commits of the last day grouped by author.

Every call to the GitHub API goes through a shared concurrency limit and a
token bucket rate limit.

Configuration:
  Config is loaded from the file passed with --config (YAML) and from the
  environment with the GHCOLLECTOR_ prefix.
  Example: GHCOLLECTOR_GITHUB_ACCESS_TOKEN=... ghcollector collect --limit 10

Commands:
  collect     Collect the top repositories and print them as JSON
  version     Print version information`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
}

func initConfig() {
	v = config.NewViper(cfgFile)
}

// newLogger builds the logger of the configured level and format.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
