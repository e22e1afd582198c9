// Package fetchchain composes the politeness middleware into the fixed
// order spec §4.6 requires: Retry -> Slowdown -> Limiter -> Transport.
//
// Retry sits outermost so a retried attempt re-acquires a permit and
// re-observes the slowdown state from scratch. Slowdown sits above Limiter
// so a slowdown wait never holds a permit. Limiter sits directly above
// Transport so the permit covers only the network-active window.
package fetchchain

import (
	"context"
	"net/url"
	"time"

	"github.com/OscartGiles/spider-crab/internal/fetcher"
	"github.com/OscartGiles/spider-crab/internal/politeness"
	"github.com/OscartGiles/spider-crab/internal/retry"
)

// Chain is the composed Fetcher the traversal engine is parameterized
// over.
type Chain struct {
	retryPolicy *retry.Policy
	slowdown    *politeness.Coordinator
	limiter     *politeness.Limiter
	transport   fetcher.Fetcher
}

func New(retryPolicy *retry.Policy, slowdown *politeness.Coordinator, limiter *politeness.Limiter, transport fetcher.Fetcher) *Chain {
	return &Chain{
		retryPolicy: retryPolicy,
		slowdown:    slowdown,
		limiter:     limiter,
		transport:   transport,
	}
}

func (c *Chain) Fetch(ctx context.Context, u url.URL) (fetcher.PageContent, error) {
	return c.retryPolicy.Do(ctx, func(ctx context.Context) (fetcher.PageContent, error) {
		if err := c.slowdown.Wait(ctx); err != nil {
			return fetcher.PageContent{}, err
		}

		if err := c.limiter.Acquire(ctx); err != nil {
			return fetcher.PageContent{}, err
		}
		defer c.limiter.Release()

		pc, err := c.transport.Fetch(ctx, u)
		if err == nil {
			c.slowdown.Observe(pc.Status(), pc.Headers(), time.Now())
		}
		return pc, err
	})
}
