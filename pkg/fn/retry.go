package fn

import (
	"context"
	"math/rand"
	"time"
)

// RetryOpts configures retry behavior. ShouldRetry, when set, classifies
// errors: returning false stops immediately so permanent failures are not
// hammered.
type RetryOpts struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Jitter      bool
	ShouldRetry func(error) bool
}

// DefaultRetry retries once with a short backoff. Query fragments are
// user-facing; long retry ladders just move the timeout around.
var DefaultRetry = RetryOpts{
	MaxAttempts: 2,
	InitialWait: 100 * time.Millisecond,
	MaxWait:     time.Second,
	Jitter:      true,
}

// Retry runs f up to MaxAttempts times with exponential backoff, honoring
// context cancellation between attempts.
func Retry[T any](ctx context.Context, opts RetryOpts, f func(context.Context) Result[T]) Result[T] {
	var result Result[T]
	wait := opts.InitialWait

	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		result = f(ctx)
		if result.IsOk() {
			return result
		}
		if attempt == opts.MaxAttempts-1 {
			break
		}
		if opts.ShouldRetry != nil {
			if _, err := result.Unwrap(); !opts.ShouldRetry(err) {
				return result
			}
		}

		sleep := wait
		if opts.Jitter {
			sleep = time.Duration(float64(wait) * (0.5 + rand.Float64()))
		}
		if sleep > opts.MaxWait {
			sleep = opts.MaxWait
		}

		select {
		case <-ctx.Done():
			return Err[T](ctx.Err())
		case <-time.After(sleep):
		}

		wait *= 2
		if wait > opts.MaxWait {
			wait = opts.MaxWait
		}
	}
	return result
}
