package metrics

import (
	"context"
	"time"

	"github.com/e-comet/ghcollector"
)

var ctxRecorderKey contextKey = "recorder"

type contextKey string

func (c contextKey) String() string {
	return "metrics-ctx-key" + string(c)
}

// RecorderFromContext will get the metrics recorder from the context.
// If there is not context it will return also a dummy recorder that is
// safe to use it.
func RecorderFromContext(ctx context.Context) (recorder Recorder, ok bool) {
	rec, ok := ctx.Value(ctxRecorderKey).(Recorder)

	if !ok {
		return Dummy, false
	}

	return rec, true
}

// ContextWithRecorder returns a copy of ctx carrying the recorder, every
// runner down the chain will measure on it.
func ContextWithRecorder(ctx context.Context, r Recorder) context.Context {
	return context.WithValue(ctx, ctxRecorderKey, r)
}

// NewMiddleware returns a middleware that measures the execution of the
// rest of the runner chain and sets the recorder on the context.
func NewMiddleware(id string, rec Recorder) ghcollector.Middleware {
	if rec == nil {
		rec = Dummy
	}
	rec = rec.WithID(id)

	return func(next ghcollector.Runner) ghcollector.Runner {
		next = ghcollector.SanitizeRunner(next)

		return ghcollector.RunnerFunc(func(ctx context.Context, f ghcollector.Func) (err error) {
			defer func(start time.Time) {
				rec.ObserveCommandExecution(start, err == nil)
			}(time.Now())

			ctx = ContextWithRecorder(ctx, rec)

			err = next.Run(ctx, f)

			return err
		})
	}
}
