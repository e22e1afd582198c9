package politeness

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const maxSlowdown = 60 * time.Second

// Coordinator implements the SlowdownCoordinator of spec §4.4: a single
// shared "not-before" timestamp observed by every fetch. A 429 response
// from any worker pauses every worker until the instant passes.
//
// notBefore is guarded by a sync.RWMutex rather than a hand-rolled lock:
// Go's RWMutex already blocks new readers once a writer is waiting, which
// is the write-preferring behavior spec §4.4/§9 calls for.
type Coordinator struct {
	mu                sync.RWMutex
	notBefore         *time.Time
	defaultRetryAfter time.Duration
}

func NewCoordinator(defaultRetryAfter time.Duration) *Coordinator {
	return &Coordinator{defaultRetryAfter: defaultRetryAfter}
}

// Wait blocks the caller until any active slowdown has passed. It must run
// before the inner fetch, and must not be called while holding a Limiter
// permit (spec §4.6).
func (c *Coordinator) Wait(ctx context.Context) error {
	c.mu.RLock()
	t := c.notBefore
	c.mu.RUnlock()

	if t == nil {
		return nil
	}

	now := time.Now()
	if t.After(now) {
		timer := time.NewTimer(t.Sub(now))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		return nil
	}

	c.mu.Lock()
	if c.notBefore != nil && c.notBefore.Equal(*t) {
		c.notBefore = nil
	}
	c.mu.Unlock()
	return nil
}

// Observe examines a response's status and Retry-After header. Non-429
// responses are ignored. A 429 unconditionally overwrites the shared
// not-before timestamp — the most recent signal always wins.
func (c *Coordinator) Observe(status int, headers http.Header, respondedAt time.Time) {
	if status != http.StatusTooManyRequests {
		return
	}

	delay := c.parseRetryAfter(headers.Get("Retry-After"))
	if delay > maxSlowdown {
		delay = maxSlowdown
	}

	t := respondedAt.Add(delay)
	c.mu.Lock()
	c.notBefore = &t
	c.mu.Unlock()
}

func (c *Coordinator) parseRetryAfter(raw string) time.Duration {
	if raw == "" {
		return c.defaultRetryAfter
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return c.defaultRetryAfter
		}
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return c.defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}
