// Package fetcher defines the Fetcher boundary and its default net/http
// backed transport. Fetcher is the pluggable contract the traversal engine
// is parameterized over (spec §6): Fetch(ctx, url) -> (PageContent, error).
package fetcher

import (
	"context"
	"net/url"
)

// Fetcher retrieves a single page. Implementations may be a bare transport
// or a composed middleware chain (see fetchchain.Chain).
type Fetcher interface {
	Fetch(ctx context.Context, u url.URL) (PageContent, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, u url.URL) (PageContent, error)

func (f FetcherFunc) Fetch(ctx context.Context, u url.URL) (PageContent, error) {
	return f(ctx, u)
}
