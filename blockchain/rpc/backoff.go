package rpc

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// BackoffPolicy creates the delay schedule for the retries of one call.
type BackoffPolicy func() backoff.BackOff

// FixedBackoff waits the same delay between attempts.
func FixedBackoff(delay time.Duration) BackoffPolicy {
	return func() backoff.BackOff {
		return backoff.NewConstantBackOff(delay)
	}
}

// ExponentialBackoff doubles the delay after each attempt starting from
// initial and never waits longer than max.
func ExponentialBackoff(initial, max time.Duration) BackoffPolicy {
	return func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = initial
		b.MaxInterval = max
		b.Multiplier = 2
		b.RandomizationFactor = 0
		b.MaxElapsedTime = 0 // attempts are bounded by the retry budget
		b.Reset()
		return b
	}
}

// NoDelay retries immediately.
func NoDelay() BackoffPolicy {
	return func() backoff.BackOff {
		return &backoff.ZeroBackOff{}
	}
}

// PolicyByName returns a policy for the rpc-backoff flag value.
func PolicyByName(name string, delay time.Duration) (BackoffPolicy, bool) {
	switch name {
	case "", "fixed":
		return FixedBackoff(delay), true
	case "exponential":
		return ExponentialBackoff(delay, 32*delay), true
	case "none":
		return NoDelay(), true
	default:
		return nil, false
	}
}
