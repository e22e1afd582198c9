// Package retry implements the RetryPolicy of spec §4.5: transient
// failures (connection errors, 5xx, 429) are retried with exponential
// backoff and bounded jitter; everything else propagates immediately.
package retry

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/OscartGiles/spider-crab/internal/fetcher"
	"github.com/OscartGiles/spider-crab/internal/timeutil"
)

// Params configures the backoff schedule. Mirrors the teacher's
// pkg/retry.RetryParam / config backoff fields.
type Params struct {
	MaxAttempts        int
	BaseDelay          time.Duration
	Jitter             time.Duration
	BackoffMultiplier  float64
	BackoffMaxDuration time.Duration
	RandomSeed         int64
}

// Policy retries a fetch attempt according to Params. It holds its own RNG
// (seeded, mutex-guarded) so retry delays are reproducible in tests without
// requiring a global rand source to be shared across goroutines.
type Policy struct {
	params Params
	mu     sync.Mutex
	rng    *rand.Rand
}

func NewPolicy(params Params) *Policy {
	if params.MaxAttempts <= 0 {
		params.MaxAttempts = 1
	}
	return &Policy{
		params: params,
		rng:    rand.New(rand.NewSource(params.RandomSeed)),
	}
}

// Do calls attempt until it succeeds, exhausts MaxAttempts, or produces a
// non-retryable outcome. Do only sleeps between attempts; it performs no
// permit or slowdown waits itself. The caller (fetchchain.Chain) passes an
// attempt that runs the full inner chain (slowdown wait, permit, transport),
// so every retry re-enters those from the top.
func (p *Policy) Do(ctx context.Context, attempt func(ctx context.Context) (fetcher.PageContent, error)) (fetcher.PageContent, error) {
	var (
		pc  fetcher.PageContent
		err error
	)

	for n := 1; n <= p.params.MaxAttempts; n++ {
		pc, err = attempt(ctx)
		if !p.retryable(pc, err) {
			return pc, err
		}
		if n == p.params.MaxAttempts {
			return pc, err
		}

		delay := p.nextDelay(n)
		select {
		case <-ctx.Done():
			return pc, err
		case <-time.After(delay):
		}
	}
	return pc, err
}

func (p *Policy) nextDelay(attempt int) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return timeutil.ExponentialBackoffDelay(attempt, p.params.BaseDelay, p.params.BackoffMultiplier, p.params.BackoffMaxDuration, p.params.Jitter, p.rng)
}

func (p *Policy) retryable(pc fetcher.PageContent, err error) bool {
	if err != nil {
		if r, ok := err.(interface{ IsRetryable() bool }); ok {
			return r.IsRetryable()
		}
		return false
	}
	return pc.IsTransientStatus()
}
