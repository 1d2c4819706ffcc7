package collector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/e-comet/ghcollector/errors"
	"github.com/e-comet/ghcollector/metrics"
)

const (
	defaultMaxLimit = 100

	resultSuccess  = "success"
	resultDropped  = "dropped"
	resultDegraded = "degraded"
)

// Lister returns the ordered listing of the items to collect.
type Lister interface {
	List(ctx context.Context, limit int) ([]Item, error)
}

// Enricher fetches the per item data of a listed item.
type Enricher interface {
	// Detail returns the item details. A failure drops the item.
	Detail(ctx context.Context, item Item) (Detail, error)
	// Activity returns the recent commits of the item. A failure is
	// tolerated as no activity.
	Activity(ctx context.Context, item Item) ([]Commit, error)
}

// Config is the configuration of the Collector.
type Config struct {
	// Lister is the listing source. Required.
	Lister Lister
	// Enricher is the per item source. Required.
	Enricher Enricher
	// MaxLimit is the max number of items a single collection accepts.
	MaxLimit int
	// ID identifies the collector on the metrics.
	ID string
	// MetricsRecorder is the metrics recorder.
	MetricsRecorder metrics.Recorder
	// Logger is the logger.
	Logger *slog.Logger
}

func (c *Config) defaults() error {
	if c.Lister == nil {
		return fmt.Errorf("%w: lister is required", errors.ErrInvalidConfig)
	}

	if c.Enricher == nil {
		return fmt.Errorf("%w: enricher is required", errors.ErrInvalidConfig)
	}

	if c.MaxLimit <= 0 {
		c.MaxLimit = defaultMaxLimit
	}

	if c.ID == "" {
		c.ID = "collector"
	}

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Dummy
	}

	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return nil
}

// Collector runs the listing and then enriches every listed item
// concurrently. How many upstream calls are in flight at once is decided by
// the permit the sources fetch with, not by the collector.
type Collector struct {
	cfg Config
	rec metrics.Recorder
}

// New returns a new Collector.
func New(cfg Config) (*Collector, error) {
	if err := cfg.defaults(); err != nil {
		return nil, err
	}

	return &Collector{
		cfg: cfg,
		rec: cfg.MetricsRecorder.WithID(cfg.ID),
	}, nil
}

// outcome is the result of the detail stage of a single item.
type outcome struct {
	repo Repository
	err  error
}

// Collect lists up to limit items and returns the enriched ones in listing
// order. Items whose detail could not be fetched are left out.
func (c *Collector) Collect(ctx context.Context, limit int) (_ []Repository, err error) {
	if limit < 1 || limit > c.cfg.MaxLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d, got %d", errors.ErrInvalidConfig, c.cfg.MaxLimit, limit)
	}

	start := time.Now()
	defer func() { c.rec.ObserveCollection(start, err == nil) }()

	logger := c.cfg.Logger.With(slog.String("run_id", uuid.NewString()))
	logger.InfoContext(ctx, "collection started", slog.Int("limit", limit))

	items, err := c.cfg.Lister.List(ctx, limit)
	if err != nil {
		logger.ErrorContext(ctx, "listing failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: listing: %w", errors.ErrCollectionFailed, err)
	}
	if len(items) > limit {
		items = items[:limit]
	}

	// Every task writes only its own slot, the join orders the reads.
	outcomes := make([]outcome, len(items))
	var g errgroup.Group
	for i, item := range items {
		g.Go(func() error {
			repo, err := c.enrich(ctx, logger, item, i+1)
			outcomes[i] = outcome{repo: repo, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		logger.WarnContext(ctx, "collection cancelled", slog.Any("error", err))
		return nil, err
	}

	repos := make([]Repository, 0, len(outcomes))
	for i, o := range outcomes {
		if o.err != nil {
			c.rec.IncCollectedItem(resultDropped)
			logger.WarnContext(ctx, "item dropped",
				slog.Int("position", i+1),
				slog.String("repository", items[i].FullName()),
				slog.Any("error", o.err))
			continue
		}

		c.rec.IncCollectedItem(resultSuccess)
		repos = append(repos, o.repo)
	}

	logger.InfoContext(ctx, "collection finished",
		slog.Int("listed", len(items)),
		slog.Int("collected", len(repos)),
		slog.Duration("duration", time.Since(start)))

	return repos, nil
}

func (c *Collector) enrich(ctx context.Context, logger *slog.Logger, item Item, position int) (Repository, error) {
	detail, err := c.cfg.Enricher.Detail(ctx, item)
	if err != nil {
		return Repository{}, err
	}

	commits, err := c.cfg.Enricher.Activity(ctx, item)
	if err != nil {
		c.rec.IncCollectedItem(resultDegraded)
		logger.WarnContext(ctx, "activity fetch failed, assuming no commits",
			slog.Int("position", position),
			slog.String("repository", item.FullName()),
			slog.Any("error", err))
		commits = nil
	}

	return Repository{
		Name:                   item.Name,
		Owner:                  item.Owner,
		Position:               position,
		Stars:                  detail.Stars,
		Watchers:               detail.Watchers,
		Forks:                  detail.Forks,
		Language:               detail.Language,
		AuthorsCommitsNumToday: SummarizeAuthors(commits),
	}, nil
}
