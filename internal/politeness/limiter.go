// Package politeness implements the two pieces of shared, cross-request
// state in the middleware stack: the ConcurrencyLimiter (§4.3) and the
// SlowdownCoordinator (§4.4).
package politeness

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter caps the number of simultaneously in-flight fetches to a fixed
// capacity N via a counting permit. Acquire suspends until a permit is free
// or ctx is cancelled; Release must be called exactly once per successful
// Acquire, typically via defer so it runs on every exit path (success,
// error, or cancellation).
type Limiter struct {
	sem *semaphore.Weighted
}

// NewLimiter builds a Limiter with capacity n. n must be > 0.
func NewLimiter(n int) *Limiter {
	return &Limiter{sem: semaphore.NewWeighted(int64(n))}
}

func (l *Limiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

func (l *Limiter) Release() {
	l.sem.Release(1)
}
