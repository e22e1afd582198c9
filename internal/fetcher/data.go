package fetcher

import (
	"net/http"
	"net/url"
)

// PageContent is the raw result of fetching a single URL: the response
// status, body, and content type, plus the URL that was requested. When
// the transport follows redirects, this remains the requested URL, not the
// final one.
type PageContent struct {
	url         url.URL
	status      int
	body        string
	contentType string
	headers     http.Header
}

func NewPageContent(u url.URL, status int, body string, contentType string, headers http.Header) PageContent {
	return PageContent{
		url:         u,
		status:      status,
		body:        body,
		contentType: contentType,
		headers:     headers,
	}
}

func (p PageContent) URL() url.URL { return p.url }

func (p PageContent) Status() int { return p.status }

func (p PageContent) Body() string { return p.body }

func (p PageContent) ContentType() string { return p.contentType }

func (p PageContent) Headers() http.Header { return p.headers }

// IsTransientStatus reports whether this response's status code is one the
// RetryPolicy treats as a transient failure: a 429 or any 5xx.
func (p PageContent) IsTransientStatus() bool {
	return p.status == http.StatusTooManyRequests || p.status >= 500
}
