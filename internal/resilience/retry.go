package resilience

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Retry runs fn with exponential backoff, giving up after attempts tries.
// Every error from fn is treated as retryable; the last error is returned
// once the budget is exhausted or ctx is done.
func Retry(ctx context.Context, attempts uint64, base time.Duration, fn func(context.Context) error) error {
	if attempts == 0 {
		attempts = 1
	}
	backoff := retry.WithMaxRetries(attempts-1, retry.NewExponential(base))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
