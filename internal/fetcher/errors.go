package fetcher

import (
	"fmt"

	"github.com/OscartGiles/spider-crab/pkg/failure"
)

// FetchErrorCause classifies why a fetch failed at the transport level, below
// HTTP status codes (those are carried on PageContent, not as errors).
type FetchErrorCause int

const (
	CauseUnknown FetchErrorCause = iota
	CauseConnection
	CauseTimeout
	CauseTooManyRedirects
	CauseReadBody
	CauseInvalidRequest
)

// FetchError is the error surfaced by a Fetcher when the request could not
// be completed at all (as opposed to completing with a non-2xx status,
// which is represented on PageContent).
type FetchError struct {
	URL       string
	Cause     FetchErrorCause
	Err       error
	retryable bool
}

func NewFetchError(u string, cause FetchErrorCause, err error, retryable bool) *FetchError {
	return &FetchError{URL: u, Cause: cause, Err: err, retryable: retryable}
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed: %s", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Severity is always SeverityRecoverable: a fetch failure, retryable or not,
// never aborts the crawl (spec: permanent fetch failures are logged and the
// URL is dropped, not propagated to the caller).
func (e *FetchError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// IsRetryable reports whether the RetryPolicy should attempt this request
// again. Transport-level failures (timeouts, connection resets) are
// retryable; malformed requests are not.
func (e *FetchError) IsRetryable() bool {
	return e.retryable
}
