package ghcollector_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/e-comet/ghcollector"
	"github.com/e-comet/ghcollector/errors"
)

type spy struct {
	next   ghcollector.Runner
	called bool
	order  *[]int
	id     int
}

func (s *spy) Run(ctx context.Context, f ghcollector.Func) error {
	s.called = true
	*s.order = append(*s.order, s.id)
	return s.next.Run(ctx, f)
}

func newSpyMiddleware(spy *spy) ghcollector.Middleware {
	return func(next ghcollector.Runner) ghcollector.Runner {
		spy.next = next
		return spy
	}
}

func TestRunnerChain(t *testing.T) {
	tests := []struct {
		name    string
		runners int
	}{
		{
			name:    "A chain of 5 runners should call all of them in declaration order.",
			runners: 5,
		},
		{
			name:    "An empty chain should execute the command directly.",
			runners: 0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert := assert.New(t)

			order := []int{}
			spies := []*spy{}
			middlewares := []ghcollector.Middleware{}
			for i := 0; i < test.runners; i++ {
				spy := &spy{order: &order, id: i}
				spies = append(spies, spy)
				middlewares = append(middlewares, newSpyMiddleware(spy))
			}

			executed := false
			runner := ghcollector.RunnerChain(middlewares...)
			err := runner.Run(context.TODO(), func(ctx context.Context) error {
				executed = true
				return nil
			})

			assert.NoError(err)
			assert.True(executed)
			for i, spy := range spies {
				assert.True(spy.called)
				assert.Equal(i, order[i])
			}
		})
	}
}

func TestCommandCanceledContext(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executed := false
	err := ghcollector.SanitizeRunner(nil).Run(ctx, func(ctx context.Context) error {
		executed = true
		return nil
	})

	assert.Equal(errors.ErrContextCanceled, err)
	assert.False(executed)
}
