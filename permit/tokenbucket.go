package permit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/e-comet/ghcollector/errors"
	"github.com/e-comet/ghcollector/metrics"
)

const (
	tokenBucketKind = "token_bucket"

	// tokenEpsilon absorbs float rounding on the refill that follows a wait.
	tokenEpsilon = 1e-9
)

// TokenBucketConfig is the configuration of the TokenBucketLimiter.
type TokenBucketConfig struct {
	// Rate is the number of tokens refilled per second.
	Rate float64
	// Burst is the capacity of the bucket. Defaults to Rate (at least 1).
	Burst int
	// MetricsRecorder will record the wait times.
	MetricsRecorder metrics.Recorder
	// Logger is used for wait diagnostics.
	Logger *slog.Logger
}

func (c *TokenBucketConfig) defaults() {
	if c.Rate <= 0 {
		c.Rate = 5
	}

	if c.Burst <= 0 {
		c.Burst = int(math.Max(1, math.Ceil(c.Rate)))
	}

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Dummy
	}

	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// TokenBucketLimiter bounds the sustained throughput to Rate acquisitions per
// second allowing bursts of up to Burst acquisitions.
type TokenBucketLimiter struct {
	cfg   TokenBucketConfig
	burst float64

	// turn is the single owner slot: only its holder may refill, wait and
	// consume, so two callers never observe the same token.
	turn chan struct{}

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time

	waitLog rate.Sometimes
}

// NewTokenBucketLimiter returns a new TokenBucketLimiter with a full bucket.
func NewTokenBucketLimiter(cfg TokenBucketConfig) *TokenBucketLimiter {
	cfg.defaults()

	return &TokenBucketLimiter{
		cfg:        cfg,
		burst:      float64(cfg.Burst),
		turn:       make(chan struct{}, 1),
		tokens:     float64(cfg.Burst),
		lastRefill: time.Now(),
		waitLog:    rate.Sometimes{First: 1, Interval: time.Second},
	}
}

// Acquire satisfies Permit interface.
func (t *TokenBucketLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrContextCanceled, err)
	}

	start := time.Now()
	select {
	case t.turn <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", errors.ErrContextCanceled, ctx.Err())
	}
	defer func() { <-t.turn }()

	if tokens := t.refill(); tokens < 1-tokenEpsilon {
		wait := t.waitFor(tokens)
		t.waitLog.Do(func() {
			t.cfg.Logger.Debug("rate limit reached, waiting for token",
				slog.Duration("wait", wait),
				slog.Float64("tokens", tokens))
		})

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %w", errors.ErrContextCanceled, ctx.Err())
		}
	}

	if err := t.take(); err != nil {
		return err
	}
	t.cfg.MetricsRecorder.ObservePermitWait(tokenBucketKind, start)

	return nil
}

// Release satisfies Permit interface. A consumed token is never refunded.
func (t *TokenBucketLimiter) Release() {}

// Tokens returns the number of tokens available right now.
func (t *TokenBucketLimiter) Tokens() float64 {
	return t.refill()
}

// Rate returns the refill rate in tokens per second.
func (t *TokenBucketLimiter) Rate() float64 {
	return t.cfg.Rate
}

// Burst returns the capacity of the bucket.
func (t *TokenBucketLimiter) Burst() int {
	return t.cfg.Burst
}

// refill adds the tokens accumulated since the last refill, capped at burst,
// and returns the resulting amount.
func (t *TokenBucketLimiter) refill() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refillLocked()
	return t.tokens
}

func (t *TokenBucketLimiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(t.lastRefill)
	if elapsed > 0 {
		t.tokens = math.Min(t.tokens+elapsed.Seconds()*t.cfg.Rate, t.burst)
		t.lastRefill = now
	}
}

// take refills once more and consumes one token.
func (t *TokenBucketLimiter) take() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refillLocked()
	if t.tokens < 1-tokenEpsilon {
		return fmt.Errorf("%w: %.6f tokens available", errors.ErrRateLimitExhausted, t.tokens)
	}
	t.tokens = math.Max(0, t.tokens-1)

	return nil
}

// waitFor returns the time needed to refill from tokens up to one token,
// rounded up to the next nanosecond.
func (t *TokenBucketLimiter) waitFor(tokens float64) time.Duration {
	secs := (1 - tokens) / t.cfg.Rate
	return time.Duration(math.Ceil(secs * float64(time.Second)))
}
