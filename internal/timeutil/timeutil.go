// Package timeutil provides small duration helpers: taking the larger of two
// durations, and computing the retry machinery's exponential backoff with
// jitter.
package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// MaxDuration returns the larger of a and b. It does not mutate either
// argument.
func MaxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

// ExponentialBackoffDelay computes the delay to wait before the backoffCount-th
// retry attempt (1-indexed): initial * multiplier^(backoffCount-1), capped at
// max, plus a uniformly distributed jitter in [0, jitter).
//
// backoffCount <= 0 is treated as 1. A nil rng uses the package-level source.
func ExponentialBackoffDelay(backoffCount int, initial time.Duration, multiplier float64, max time.Duration, jitter time.Duration, rng *rand.Rand) time.Duration {
	if backoffCount <= 0 {
		backoffCount = 1
	}

	base := float64(initial) * math.Pow(multiplier, float64(backoffCount-1))
	delay := time.Duration(base)
	if max > 0 && delay > max {
		delay = max
	}
	if delay < 0 {
		delay = 0
	}

	if jitter > 0 {
		var n int64
		if rng != nil {
			n = rng.Int63n(int64(jitter))
		} else {
			n = rand.Int63n(int64(jitter))
		}
		delay += time.Duration(n)
	}

	return delay
}
