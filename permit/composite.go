package permit

import (
	"context"
)

// CompositeLimiter enforces an ordered list of permits as one. The strictest
// constituent governs the observed throughput.
type CompositeLimiter struct {
	permits []Permit
}

// NewCompositeLimiter returns a CompositeLimiter over permits. The order is
// fixed at construction: acquired in declaration order, released in reverse.
func NewCompositeLimiter(permits ...Permit) *CompositeLimiter {
	ps := make([]Permit, len(permits))
	copy(ps, permits)

	return &CompositeLimiter{permits: ps}
}

// Acquire satisfies Permit interface. Acquisition is all or nothing: when a
// constituent fails, every constituent already acquired is released in reverse
// order before the error is returned.
func (c *CompositeLimiter) Acquire(ctx context.Context) error {
	for i, p := range c.permits {
		if err := p.Acquire(ctx); err != nil {
			c.releaseFrom(i - 1)
			return err
		}
	}

	return nil
}

// Release satisfies Permit interface.
func (c *CompositeLimiter) Release() {
	c.releaseFrom(len(c.permits) - 1)
}

func (c *CompositeLimiter) releaseFrom(last int) {
	for i := last; i >= 0; i-- {
		c.permits[i].Release()
	}
}
