package timeout

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/e-comet/ghcollector"
	"github.com/e-comet/ghcollector/errors"
	"github.com/e-comet/ghcollector/metrics"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config is the configuration of the timeout.
type Config struct {
	// Timeout is the max duration of a single execution.
	Timeout time.Duration
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// New returns a new timeout runner.
func New(cfg Config) ghcollector.Runner {
	return NewMiddleware(cfg)(nil)
}

// NewMiddleware returns a middleware that cuts the execution of the rest of
// the chain using a context deadline. Unlike a detached timeout it waits for
// the execution to return, so anything the caller holds around it (a permit)
// outlives the execution.
func NewMiddleware(cfg Config) ghcollector.Middleware {
	cfg.defaults()

	return func(next ghcollector.Runner) ghcollector.Runner {
		next = ghcollector.SanitizeRunner(next)

		return ghcollector.RunnerFunc(func(ctx context.Context, f ghcollector.Func) error {
			metricsRecorder, _ := metrics.RecorderFromContext(ctx)

			tctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()

			err := next.Run(tctx, f)
			if err == nil {
				return nil
			}

			// Only our own deadline is a timeout, a parent deadline or
			// cancellation belongs to the caller.
			if ctx.Err() == nil && stderrors.Is(tctx.Err(), context.DeadlineExceeded) {
				metricsRecorder.IncTimeout()
				return errors.ErrTimeout
			}

			return err
		})
	}
}
