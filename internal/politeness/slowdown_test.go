package politeness_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/OscartGiles/spider-crab/internal/politeness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinatorWaitNoopWithoutSlowdown(t *testing.T) {
	c := politeness.NewCoordinator(time.Second)
	start := time.Now()
	require.NoError(t, c.Wait(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestCoordinatorObserveSetsWait(t *testing.T) {
	c := politeness.NewCoordinator(time.Second)
	headers := http.Header{"Retry-After": []string{"1"}}
	c.Observe(http.StatusTooManyRequests, headers, time.Now())

	start := time.Now()
	require.NoError(t, c.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}

func TestCoordinatorIgnoresNon429(t *testing.T) {
	c := politeness.NewCoordinator(time.Second)
	headers := http.Header{"Retry-After": []string{"5"}}
	c.Observe(http.StatusOK, headers, time.Now())

	start := time.Now()
	require.NoError(t, c.Wait(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestCoordinatorClampsRetryAfterTo60Seconds(t *testing.T) {
	c := politeness.NewCoordinator(time.Second)
	headers := http.Header{"Retry-After": []string{"600"}}
	// Observed 59.95s ago: clamped to 60s the pause ends ~50ms from now;
	// unclamped it would last another ~9 minutes and the deadline would fire.
	respondedAt := time.Now().Add(-60*time.Second + 50*time.Millisecond)
	c.Observe(http.StatusTooManyRequests, headers, respondedAt)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := c.Wait(ctx)
	assert.NoError(t, err)
}

func TestCoordinatorFallsBackToDefaultOnInvalidHeader(t *testing.T) {
	c := politeness.NewCoordinator(50 * time.Millisecond)
	headers := http.Header{"Retry-After": []string{"not-a-number"}}
	c.Observe(http.StatusTooManyRequests, headers, time.Now())

	start := time.Now()
	require.NoError(t, c.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestCoordinatorMostRecentSignalWins(t *testing.T) {
	c := politeness.NewCoordinator(time.Second)
	now := time.Now()
	c.Observe(http.StatusTooManyRequests, http.Header{"Retry-After": []string{"5"}}, now)
	c.Observe(http.StatusTooManyRequests, http.Header{"Retry-After": []string{"0"}}, now)

	start := time.Now()
	require.NoError(t, c.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
