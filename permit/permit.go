package permit

import (
	"context"

	"github.com/e-comet/ghcollector"
)

// Permit gates access to a constrained resource like a concurrency slot or a
// request rate budget.
type Permit interface {
	// Acquire suspends the caller until the permit is granted. It only fails
	// when the context is done or the limiter can't honor its own guarantees.
	Acquire(ctx context.Context) error
	// Release returns the permit. It never blocks and never fails.
	Release()
}

// Run acquires p, executes f and releases p on every exit path of f,
// including panics.
func Run(ctx context.Context, p Permit, f ghcollector.Func) error {
	if err := p.Acquire(ctx); err != nil {
		return err
	}
	defer p.Release()

	return f(ctx)
}

// NewMiddleware returns a middleware that holds p while the rest of the
// runner chain is executed.
func NewMiddleware(p Permit) ghcollector.Middleware {
	return func(next ghcollector.Runner) ghcollector.Runner {
		next = ghcollector.SanitizeRunner(next)

		return ghcollector.RunnerFunc(func(ctx context.Context, f ghcollector.Func) error {
			return Run(ctx, p, func(ctx context.Context) error {
				return next.Run(ctx, f)
			})
		})
	}
}
