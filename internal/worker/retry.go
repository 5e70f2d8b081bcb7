package worker

import (
	"math/rand"
	"time"
)

// RetryPolicy spaces out repeated sheet sync attempts. BaseDelay doubles
// per prior failure up to MaxDelay; Jitter adds a random slice on top so
// tasks failed by one sheets outage do not all come back at once.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     time.Duration
}

// DefaultRetryPolicy fits the sheets API quota behavior: a rejected
// write is usually retryable within seconds, and a task still failing
// after a minute of backoff belongs in the dead letter queue.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 5,
		BaseDelay:  2 * time.Second,
		MaxDelay:   time.Minute,
		Jitter:     500 * time.Millisecond,
	}
}

// withDefaults fills unset fields from DefaultRetryPolicy. Jitter is
// kept as given; zero means deterministic delays.
func (r RetryPolicy) withDefaults() RetryPolicy {
	def := DefaultRetryPolicy()
	if r.MaxRetries <= 0 {
		r.MaxRetries = def.MaxRetries
	}
	if r.BaseDelay <= 0 {
		r.BaseDelay = def.BaseDelay
	}
	if r.MaxDelay <= 0 {
		r.MaxDelay = def.MaxDelay
	}
	return r
}

// NextDelay returns the wait before re-running a task that has failed
// attempt times (1-based). Out-of-range attempts clamp to the nearest
// bound.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := r.BaseDelay
	if base <= 0 {
		base = time.Second
	}

	shift := uint(attempt - 1)
	if shift > 20 {
		shift = 20
	}
	d := base << shift
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if r.Jitter > 0 {
		d += time.Duration(rand.Int63n(int64(r.Jitter)))
	}
	return d
}
