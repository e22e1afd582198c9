package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

const maxRedirects = 10

// redirectCapKey scopes a per-request *redirectCap into that request's
// context, so CheckRedirect (shared across all concurrent requests on the
// one *http.Client) can signal back to the Fetch call that started it
// without a client-wide flag racing other in-flight requests.
type redirectCapKey struct{}

type redirectCap struct {
	hit bool
}

// Transport is the innermost link of the middleware chain (spec §4.6): a
// bare net/http client. It never retries and never waits on a permit or
// slowdown signal — those are the outer middleware's job.
type Transport struct {
	client    *http.Client
	userAgent string
}

// NewTransport builds a Transport over client (whose Timeout applies per
// request) with the given user agent. If client has no CheckRedirect of its
// own, one is installed that follows up to 10 redirects per spec §6.
func NewTransport(client *http.Client, userAgent string) *Transport {
	if client.CheckRedirect == nil {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				if rc, ok := req.Context().Value(redirectCapKey{}).(*redirectCap); ok {
					rc.hit = true
				}
				return http.ErrUseLastResponse
			}
			return nil
		}
	}
	return &Transport{client: client, userAgent: userAgent}
}

func (t *Transport) Fetch(ctx context.Context, u url.URL) (PageContent, error) {
	rc := &redirectCap{}
	req, err := http.NewRequestWithContext(context.WithValue(ctx, redirectCapKey{}, rc), http.MethodGet, u.String(), nil)
	if err != nil {
		return PageContent{}, NewFetchError(u.String(), CauseInvalidRequest, err, false)
	}
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := t.client.Do(req)
	if err != nil {
		return PageContent{}, classifyTransportError(u.String(), err)
	}
	defer resp.Body.Close()

	if rc.hit {
		return PageContent{}, NewFetchError(u.String(), CauseTooManyRedirects, fmt.Errorf("stopped following redirects after %d hops", maxRedirects), false)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return PageContent{}, NewFetchError(u.String(), CauseReadBody, err, true)
	}

	return NewPageContent(u, resp.StatusCode, string(body), resp.Header.Get("Content-Type"), resp.Header), nil
}

func classifyTransportError(u string, err error) *FetchError {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewFetchError(u, CauseTimeout, err, true)
	}
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return NewFetchError(u, CauseTimeout, err, true)
	}
	if errors.Is(err, context.Canceled) {
		return NewFetchError(u, CauseConnection, err, false)
	}
	return NewFetchError(u, CauseConnection, err, true)
}
