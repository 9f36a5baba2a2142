package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/relay/integration/internal/retry"
)

func TestDoSucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Do(context.Background(), 3, time.Millisecond, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoReturnsLastError(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Do(context.Background(), 2, time.Millisecond, func(context.Context) error {
		calls++
		return errors.New("refused")
	})

	assert.EqualError(t, err, "refused")
	assert.Equal(t, 2, calls)
}

func TestDoStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry.Do(ctx, 5, time.Hour, func(context.Context) error {
		calls++
		cancel()
		return errors.New("refused")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoRunsAtLeastOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	_ = retry.Do(context.Background(), 0, 0, func(context.Context) error {
		calls++
		return nil
	})
	assert.Equal(t, 1, calls)
}
