package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Options{MaxAttempts: 3}, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Options{MaxAttempts: 3, BaseWait: time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Options{MaxAttempts: 3, BaseWait: time.Millisecond}, func() error {
		calls++
		return fmt.Errorf("always failing")
	})
	require.ErrorContains(t, err, "always failing")
	require.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	calls := 0
	opts := Options{
		MaxAttempts: 5,
		BaseWait:    time.Millisecond,
		Retryable:   func(err error) bool { return false },
	}
	err := Do(context.Background(), opts, func() error {
		calls++
		return fmt.Errorf("permanent")
	})
	require.ErrorContains(t, err, "permanent")
	require.Equal(t, 1, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, Options{MaxAttempts: 3, BaseWait: time.Minute}, func() error {
		calls++
		return fmt.Errorf("transient")
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}
