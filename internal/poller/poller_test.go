package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// sequence returns an observer that yields 1, 2, 3, ... and counts calls.
func sequence(calls *int) func(context.Context) (int, error) {
	return func(context.Context) (int, error) {
		*calls++
		return *calls, nil
	}
}

func TestUntil_ReturnsOnNthObservation(t *testing.T) {
	tests := []struct {
		name     string
		target   int
		interval time.Duration
	}{
		{"first call", 1, time.Second},
		{"third call", 3, 3 * time.Second},
		{"tenth call", 10, 500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := NewFakeClock(t0)
			calls := 0

			got, err := Until(context.Background(), sequence(&calls),
				func(v int) bool { return v == tt.target },
				Options{Timeout: time.Minute, Interval: tt.interval, Clock: clock})

			require.NoError(t, err)
			assert.Equal(t, tt.target, got)
			assert.Equal(t, tt.target, calls)

			slept, naps := clock.Slept()
			assert.Equal(t, time.Duration(tt.target-1)*tt.interval, slept)
			assert.Equal(t, tt.target-1, naps)
		})
	}
}

func TestUntil_Timeout(t *testing.T) {
	clock := NewFakeClock(t0)
	calls := 0

	last, err := Until(context.Background(), sequence(&calls),
		func(int) bool { return false },
		Options{Timeout: 10 * time.Second, Interval: 3 * time.Second, Description: "status RESOLVED", Clock: clock})

	require.Error(t, err)
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.GreaterOrEqual(t, te.Elapsed, 10*time.Second)
	assert.Equal(t, 10*time.Second, te.Timeout)
	assert.Equal(t, 4, te.Attempts)
	assert.Equal(t, 4, te.Last)
	assert.Equal(t, 4, last)
	assert.Equal(t, "status RESOLVED", te.Description)
	assert.True(t, IsTimeout(err))
	assert.Equal(t, apperrors.ErrCodeTimeoutWaitingForStatus, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "last observed: 4")
}

func TestUntil_Defaults(t *testing.T) {
	clock := NewFakeClock(t0)
	calls := 0

	_, err := Until(context.Background(), sequence(&calls), func(int) bool { return false }, Options{Clock: clock})

	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, DefaultTimeout, te.Timeout)
	// 120s / 3s = 40 sleeps, one observation before each
	assert.Equal(t, 40, calls)
	slept, _ := clock.Slept()
	assert.Equal(t, DefaultTimeout, slept)
}

func TestUntil_ObserveErrorPropagates(t *testing.T) {
	clock := NewFakeClock(t0)
	boom := errors.New("connection refused")
	calls := 0

	_, err := Until(context.Background(), func(context.Context) (int, error) {
		calls++
		if calls == 2 {
			return 0, boom
		}
		return calls, nil
	}, func(int) bool { return false }, Options{Timeout: time.Minute, Interval: time.Second, Clock: clock})

	assert.ErrorIs(t, err, boom)
	assert.False(t, IsTimeout(err))
	assert.Equal(t, 2, calls)
}

func TestUntil_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := NewFakeClock(t0)
	calls := 0

	_, err := Until(ctx, func(context.Context) (int, error) {
		calls++
		cancel()
		return calls, nil
	}, func(int) bool { return false }, Options{Timeout: time.Minute, Interval: time.Second, Clock: clock})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsTimeout(err))
}

func TestUntil_ContextDeadlineIsTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Until(ctx, func(context.Context) (string, error) { return "OPEN", nil },
		func(string) bool { return false },
		Options{Timeout: time.Hour, Interval: time.Hour})

	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "OPEN", te.Last)
}
