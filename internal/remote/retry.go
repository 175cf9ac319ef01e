package remote

import (
	"context"
	"fmt"
	"time"
)

// RetryWithBackoff calls fn up to maxRetries times, doubling the wait
// between attempts. It stops early when ctx is done.
func RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int, baseBackoff time.Duration) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	var lastErr error
	wait := baseBackoff
	for i := 0; i < maxRetries; i++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if i == maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}
	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
