package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/e-comet/ghcollector/collector"
	"github.com/e-comet/ghcollector/fetch"
	"github.com/e-comet/ghcollector/github"
	"github.com/e-comet/ghcollector/internal/config"
	"github.com/e-comet/ghcollector/metrics"
	"github.com/e-comet/ghcollector/permit"
	"github.com/e-comet/ghcollector/transport"
)

var (
	collectLimit       int
	collectMetricsFile string
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect the top repositories and print them as JSON",
	Long: `Collect lists the most starred repositories, fetches the details and the
commits of the last day of every one of them and prints the result as JSON.

Repositories whose details could not be fetched are left out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}

		logger := newLogger(cfg.Log, os.Stderr)
		if f := v.ConfigFileUsed(); f != "" {
			logger.Info("loaded config", "file", f)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		if err := collect(ctx, cfg, collectLimit, cmd.OutOrStdout(), reg, logger); err != nil {
			return err
		}

		if collectMetricsFile != "" {
			if err := prometheus.WriteToTextfile(collectMetricsFile, reg); err != nil {
				return fmt.Errorf("could not write metrics file: %w", err)
			}
		}

		return nil
	},
}

func init() {
	collectCmd.Flags().IntVar(&collectLimit, "limit", 0, "number of repositories to collect (default: github.top_repositories_limit)")
	collectCmd.Flags().StringVar(&collectMetricsFile, "metrics-file", "", "write the run metrics to this node exporter textfile")
	rootCmd.AddCommand(collectCmd)
}

// collectOutput is the JSON document printed by collect.
type collectOutput struct {
	Total        int                    `json:"total"`
	Repositories []collector.Repository `json:"repositories"`
}

// collect wires the whole pipeline for a single session and writes the
// result to out.
func collect(ctx context.Context, cfg *config.Config, limit int, out io.Writer, reg prometheus.Registerer, logger *slog.Logger) error {
	if limit == 0 {
		limit = cfg.GitHub.TopRepositoriesLimit
	}

	rec := metrics.NewPrometheusRecorder(reg)
	permitRec := rec.WithID("github")

	// A single permit gates every call of the session.
	limiter := permit.NewCompositeLimiter(
		permit.NewConcurrencyLimiter(permit.ConcurrencyConfig{
			Max:             cfg.GitHub.MaxConcurrentRequests,
			MetricsRecorder: permitRec,
			Logger:          logger,
		}),
		permit.NewTokenBucketLimiter(permit.TokenBucketConfig{
			Rate:            cfg.GitHub.RequestsPerSecond,
			Burst:           cfg.GitHub.Burst,
			MetricsRecorder: permitRec,
			Logger:          logger,
		}),
	)

	client, err := transport.New(transport.Config{
		BaseURL:   cfg.GitHub.APIBaseURL,
		Token:     cfg.GitHub.AccessToken,
		UserAgent: "ghcollector/" + Version,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	if err := client.Open(); err != nil {
		return err
	}
	defer client.Close()

	fetcher, err := fetch.New(fetch.Config{
		Transport:       client,
		Permit:          limiter,
		Timeout:         cfg.GitHub.RequestTimeout,
		ID:              "github",
		MetricsRecorder: rec,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	src := github.NewSource(fetcher)
	col, err := collector.New(collector.Config{
		Lister:          src,
		Enricher:        src,
		MaxLimit:        cfg.GitHub.TopRepositoriesLimit,
		MetricsRecorder: rec,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	repos, err := col.Collect(ctx, limit)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(collectOutput{Total: len(repos), Repositories: repos})
}
