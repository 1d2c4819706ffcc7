package fetch

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/e-comet/ghcollector"
	"github.com/e-comet/ghcollector/errors"
	"github.com/e-comet/ghcollector/metrics"
	"github.com/e-comet/ghcollector/permit"
	"github.com/e-comet/ghcollector/timeout"
)

// Transport knows how to make a single call to the upstream API.
type Transport interface {
	// Active reports if the transport has been opened and not closed yet.
	Active() bool
	// Fetch returns the raw body of target called with params. Network and
	// non successful status failures are returned as errors.
	Fetch(ctx context.Context, target string, params url.Values) ([]byte, error)
}

// UpstreamError is returned when a single upstream call fails on transport
// or decoding. It matches errors.ErrUpstreamFetch.
type UpstreamError struct {
	Target string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s: %v", errors.ErrUpstreamFetch, e.Target, e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *UpstreamError) Unwrap() []error {
	return []error{errors.ErrUpstreamFetch, e.Err}
}

// Config is the configuration of the Fetcher.
type Config struct {
	// Transport is the upstream transport. Required.
	Transport Transport
	// Permit gates every call. Usually a composite of a concurrency and a
	// rate limiter shared by every caller of the session. Required.
	Permit permit.Permit
	// Timeout is the max duration of a single call once the permit is held.
	Timeout time.Duration
	// ID identifies the fetcher on the metrics.
	ID string
	// MetricsRecorder is the metrics recorder.
	MetricsRecorder metrics.Recorder
	// Logger is the logger.
	Logger *slog.Logger
}

func (c *Config) defaults() error {
	if c.Transport == nil {
		return fmt.Errorf("%w: transport is required", errors.ErrInvalidConfig)
	}

	if c.Permit == nil {
		return fmt.Errorf("%w: permit is required", errors.ErrInvalidConfig)
	}

	if c.ID == "" {
		c.ID = "fetch"
	}

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Dummy
	}

	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return nil
}

// Fetcher makes rate limited calls to the upstream: every call holds the
// permit from before the transport is called until the response is decoded.
type Fetcher struct {
	cfg    Config
	rec    metrics.Recorder
	runner ghcollector.Runner
}

// New returns a new Fetcher.
func New(cfg Config) (*Fetcher, error) {
	if err := cfg.defaults(); err != nil {
		return nil, err
	}

	rec := cfg.MetricsRecorder.WithID(cfg.ID)

	return &Fetcher{
		cfg: cfg,
		rec: rec,
		runner: ghcollector.RunnerChain(
			metrics.NewMiddleware(cfg.ID, cfg.MetricsRecorder),
			permit.NewMiddleware(cfg.Permit),
			timeout.NewMiddleware(timeout.Config{Timeout: cfg.Timeout}),
		),
	}, nil
}

// Get calls target with params and decodes the JSON response into out.
func (f *Fetcher) Get(ctx context.Context, target string, params url.Values, out any) error {
	if !f.cfg.Transport.Active() {
		f.rec.IncFetchFailure("not_initialized")
		return errors.ErrNotInitialized
	}

	logger := f.cfg.Logger.With(slog.String("target", target))
	logger.DebugContext(ctx, "fetching upstream")

	err := f.runner.Run(ctx, func(ctx context.Context) error {
		body, err := f.cfg.Transport.Fetch(ctx, target, params)
		if err != nil {
			f.rec.IncFetchFailure("transport")
			return &UpstreamError{Target: target, Err: err}
		}

		if err := json.Unmarshal(body, out); err != nil {
			f.rec.IncFetchFailure("decode")
			return &UpstreamError{Target: target, Err: fmt.Errorf("could not decode response: %w", err)}
		}

		return nil
	})

	switch {
	case err == nil:
		logger.DebugContext(ctx, "upstream fetched")
		return nil
	case stderrors.Is(err, errors.ErrTimeout):
		err = &UpstreamError{Target: target, Err: err}
	case stderrors.Is(err, errors.ErrUpstreamFetch):
	default:
		// Permit or cancellation failures, nothing reached the upstream.
		return err
	}

	logger.ErrorContext(ctx, "upstream fetch failed", slog.Any("error", err))
	return err
}
