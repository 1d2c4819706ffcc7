package permit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/e-comet/ghcollector/errors"
	"github.com/e-comet/ghcollector/metrics"
)

const concurrencyKind = "concurrency"

// ConcurrencyConfig is the configuration of the ConcurrencyLimiter.
type ConcurrencyConfig struct {
	// Max is the maximum number of simultaneous holders.
	Max int
	// MetricsRecorder will record the held permits and the wait times.
	MetricsRecorder metrics.Recorder
	// Logger is used for acquire/release diagnostics.
	Logger *slog.Logger
}

func (c *ConcurrencyConfig) defaults() {
	if c.Max <= 0 {
		c.Max = 10
	}

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Dummy
	}

	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// ConcurrencyLimiter bounds the number of simultaneous holders to Max.
// Suspended acquirers are admitted in FIFO order.
type ConcurrencyLimiter struct {
	cfg  ConcurrencyConfig
	sem  *semaphore.Weighted
	mu   sync.Mutex
	held int
}

// NewConcurrencyLimiter returns a new ConcurrencyLimiter.
func NewConcurrencyLimiter(cfg ConcurrencyConfig) *ConcurrencyLimiter {
	cfg.defaults()

	return &ConcurrencyLimiter{
		cfg: cfg,
		sem: semaphore.NewWeighted(int64(cfg.Max)),
	}
}

// Acquire satisfies Permit interface.
func (c *ConcurrencyLimiter) Acquire(ctx context.Context) error {
	// A done context never takes a slot, even if one is free.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrContextCanceled, err)
	}

	start := time.Now()
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrContextCanceled, err)
	}
	c.cfg.MetricsRecorder.ObservePermitWait(concurrencyKind, start)

	c.mu.Lock()
	c.held++
	held := c.held
	c.mu.Unlock()

	c.cfg.MetricsRecorder.SetPermitsHeld(concurrencyKind, held)
	c.cfg.Logger.Debug("concurrency permit acquired", slog.Int("available", c.cfg.Max-held))

	return nil
}

// Release satisfies Permit interface.
func (c *ConcurrencyLimiter) Release() {
	c.mu.Lock()
	if c.held == 0 {
		c.mu.Unlock()
		c.cfg.Logger.Debug("concurrency permit released without being held, ignoring")
		return
	}
	c.held--
	held := c.held
	c.sem.Release(1)
	c.mu.Unlock()

	c.cfg.MetricsRecorder.SetPermitsHeld(concurrencyKind, held)
	c.cfg.Logger.Debug("concurrency permit released", slog.Int("available", c.cfg.Max-held))
}

// Max returns the maximum number of simultaneous holders.
func (c *ConcurrencyLimiter) Max() int {
	return c.cfg.Max
}

// Held returns the number of outstanding acquisitions.
func (c *ConcurrencyLimiter) Held() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.held
}

// Available returns the number of free slots.
func (c *ConcurrencyLimiter) Available() int {
	return c.cfg.Max - c.Held()
}
