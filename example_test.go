package ghcollector_test

import (
	"context"
	"fmt"
	"time"

	"github.com/e-comet/ghcollector"
	"github.com/e-comet/ghcollector/permit"
	"github.com/e-comet/ghcollector/timeout"
)

func myFunc(ctx context.Context) error { return nil }

// Will use only one of the utilities, a concurrency limiter that lets a
// single execution run at a time.
func Example_basic() {
	limiter := permit.NewConcurrencyLimiter(permit.ConcurrencyConfig{Max: 1})

	var result string
	err := permit.Run(context.TODO(), limiter, func(ctx context.Context) error {
		result = fmt.Sprintf("running with %d permit held", limiter.Held())
		return nil
	})
	if err != nil {
		result = "no permit"
	}

	fmt.Println(result)
	// Output: running with 1 permit held
}

// Chains the same pieces the upstream fetches use: every execution needs a
// concurrency slot and a rate token before it runs with a deadline.
func Example_chain() {
	limiter := permit.NewCompositeLimiter(
		permit.NewConcurrencyLimiter(permit.ConcurrencyConfig{Max: 2}),
		permit.NewTokenBucketLimiter(permit.TokenBucketConfig{Rate: 10, Burst: 2}),
	)

	runner := ghcollector.RunnerChain(
		permit.NewMiddleware(limiter),
		timeout.NewMiddleware(timeout.Config{Timeout: 50 * time.Millisecond}),
	)

	err := runner.Run(context.TODO(), func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	fmt.Printf("slow execution: %v\n", err)
	fmt.Printf("fast execution: %v\n", runner.Run(context.TODO(), myFunc))
	// Output:
	// slow execution: timeout while executing
	// fast execution: <nil>
}
