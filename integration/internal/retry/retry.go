// Package retry runs connection attempts with linear backoff.
package retry

import (
	"context"
	"time"
)

// Do calls fn up to attempts times, waiting interval*n after the n-th failure.
// It returns nil on the first success, otherwise the last error, or ctx.Err()
// if ctx ends while waiting.
func Do(ctx context.Context, attempts int, interval time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := range attempts {
		if err = fn(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		t := time.NewTimer(time.Duration(i+1) * interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}
