package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseWait    = 1 * time.Second
)

// Func is a function that can be retried.
type Func func() error

// Options configures retry behavior.
type Options struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseWait is the backoff before the second attempt; later waits grow
	// exponentially with ~10% jitter.
	BaseWait time.Duration

	// Retryable reports whether an error is worth retrying. All errors are
	// retried when nil.
	Retryable func(err error) bool
}

// Do executes f with bounded retries and exponential backoff.
func Do(ctx context.Context, opts Options, f Func) error {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	baseWait := opts.BaseWait
	if baseWait <= 0 {
		baseWait = DefaultBaseWait
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(float64(baseWait) * math.Pow(2, float64(attempt-1)))
			jitter := time.Duration(rand.Float64() * float64(backoff) * 0.1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}
		err := f()
		if err == nil {
			return nil
		}
		lastErr = err
		if opts.Retryable != nil && !opts.Retryable(err) {
			return err
		}
	}
	return lastErr
}
