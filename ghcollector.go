package ghcollector

import (
	"context"

	"github.com/e-comet/ghcollector/errors"
)

// Func is the unit of work executed by a Runner, usually a single upstream call.
type Func func(ctx context.Context) error

// Command is the last link of a runner chain, it executes the Func.
type Command struct{}

// Run satisfies Runner interface.
func (Command) Run(ctx context.Context, f Func) error {
	// Only execute if the context has not been cancelled while we were
	// waiting on the upper links of the chain (e.g. waiting for a permit).
	select {
	case <-ctx.Done():
		return errors.ErrContextCanceled
	default:
		return f(ctx)
	}
}

// Runner knows how to execute a Func and returns its error.
type Runner interface {
	// Run will run the unit of execution passed on f.
	Run(ctx context.Context, f Func) error
}

// RunnerFunc is a helper that will satisfy the Runner interface by using a function.
type RunnerFunc func(ctx context.Context, f Func) error

// Run satisfies Runner interface.
func (r RunnerFunc) Run(ctx context.Context, f Func) error {
	select {
	case <-ctx.Done():
		return errors.ErrContextCanceled
	default:
		return r(ctx, f)
	}
}

// Middleware represents a middleware for a runner, it takes a runner and
// returns a runner.
type Middleware func(Runner) Runner

// RunnerChain will get N middlewares and will create a Runner chain with them
// in the order that have been passed. The first middleware is the outermost one.
func RunnerChain(middlewares ...Middleware) Runner {
	// The bottom one is the one that executes the Func.
	var runner Runner = &Command{}

	for i := len(middlewares) - 1; i >= 0; i-- {
		runner = middlewares[i](runner)
	}

	return runner
}

// SanitizeRunner returns a safe execution Runner if the runner is nil.
// Usually this helper will be used for the last part of the runner chain
// when the runner is nil, so instead of acting on a nil Runner it will
// execute a Command.
func SanitizeRunner(r Runner) Runner {
	// In case of end of execution chain.
	if r == nil {
		return &Command{}
	}
	return r
}
