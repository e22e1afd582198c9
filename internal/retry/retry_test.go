package retry_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/OscartGiles/spider-crab/internal/fetcher"
	"github.com/OscartGiles/spider-crab/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() retry.Params {
	return retry.Params{
		MaxAttempts:        4,
		BaseDelay:          time.Millisecond,
		Jitter:             0,
		BackoffMultiplier:  2.0,
		BackoffMaxDuration: 10 * time.Millisecond,
		RandomSeed:         1,
	}
}

func TestDoRetriesTransientErrorUntilSuccess(t *testing.T) {
	u, _ := url.Parse("https://example.com/")
	policy := retry.NewPolicy(testParams())

	calls := 0
	pc, err := policy.Do(context.Background(), func(ctx context.Context) (fetcher.PageContent, error) {
		calls++
		if calls < 3 {
			return fetcher.PageContent{}, fetcher.NewFetchError(u.String(), fetcher.CauseConnection, assertErr, true)
		}
		return fetcher.NewPageContent(*u, 200, "ok", "text/html", nil), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 200, pc.Status())
}

func TestDoRetries429Status(t *testing.T) {
	u, _ := url.Parse("https://example.com/")
	policy := retry.NewPolicy(testParams())

	calls := 0
	pc, err := policy.Do(context.Background(), func(ctx context.Context) (fetcher.PageContent, error) {
		calls++
		if calls < 2 {
			return fetcher.NewPageContent(*u, 429, "", "", nil), nil
		}
		return fetcher.NewPageContent(*u, 200, "ok", "text/html", nil), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 200, pc.Status())
}

func TestDoDoesNotRetryNonRetryableError(t *testing.T) {
	u, _ := url.Parse("https://example.com/")
	policy := retry.NewPolicy(testParams())

	calls := 0
	_, err := policy.Do(context.Background(), func(ctx context.Context) (fetcher.PageContent, error) {
		calls++
		return fetcher.PageContent{}, fetcher.NewFetchError(u.String(), fetcher.CauseInvalidRequest, assertErr, false)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoGivesUpAfterMaxAttempts(t *testing.T) {
	u, _ := url.Parse("https://example.com/")
	policy := retry.NewPolicy(testParams())

	calls := 0
	_, err := policy.Do(context.Background(), func(ctx context.Context) (fetcher.PageContent, error) {
		calls++
		return fetcher.PageContent{}, fetcher.NewFetchError(u.String(), fetcher.CauseConnection, assertErr, true)
	})

	require.Error(t, err)
	assert.Equal(t, 4, calls)
}

func TestDoStopsOnContextCancellation(t *testing.T) {
	u, _ := url.Parse("https://example.com/")
	params := testParams()
	params.BaseDelay = time.Hour
	policy := retry.NewPolicy(params)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan struct{})
	go func() {
		_, _ = policy.Do(ctx, func(ctx context.Context) (fetcher.PageContent, error) {
			calls++
			return fetcher.PageContent{}, fetcher.NewFetchError(u.String(), fetcher.CauseConnection, assertErr, true)
		})
		close(done)
	}()
	cancel()
	<-done
	assert.Equal(t, 1, calls)
}

var assertErr = errDummy{}

type errDummy struct{}

func (errDummy) Error() string { return "dummy" }
