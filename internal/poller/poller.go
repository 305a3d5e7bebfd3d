// Package poller waits for asynchronously changing state to satisfy a
// condition. Every wait loop in the module goes through Until.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
)

// Defaults used when Options leaves a field zero
const (
	DefaultTimeout  = 120 * time.Second
	DefaultInterval = 3 * time.Second
)

// Clock abstracts time so tests can run without sleeping
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RealClock is the wall clock
var RealClock Clock = realClock{}

// Options configures a wait
type Options struct {
	Timeout     time.Duration
	Interval    time.Duration
	Description string
	Clock       Clock
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Clock == nil {
		o.Clock = RealClock
	}
	if o.Description == "" {
		o.Description = "condition"
	}
	return o
}

// TimeoutError is returned when the predicate did not hold within the timeout
type TimeoutError struct {
	Description string
	Elapsed     time.Duration
	Timeout     time.Duration
	Attempts    int
	Last        any
	// Err is the context error when the wait ended because of a context deadline.
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s (timeout %s, %d attempts, last observed: %+v)",
		e.Elapsed, e.Description, e.Timeout, e.Attempts, e.Last)
}

// Code returns the error code of a polling timeout.
func (e *TimeoutError) Code() string {
	return apperrors.ErrCodeTimeoutWaitingForStatus
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is, or wraps, a polling timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// Until calls observe until predicate accepts its result, sleeping
// opts.Interval between attempts. A satisfying value is returned as soon as
// it is observed. Errors from observe are returned unchanged. When the
// elapsed time reaches opts.Timeout after a sleep, a *TimeoutError carrying
// the last observed value is returned. Cancelling ctx returns ctx.Err(); a
// context deadline is reported as a *TimeoutError.
func Until[T any](ctx context.Context, observe func(context.Context) (T, error), predicate func(T) bool, opts Options) (T, error) {
	opts = opts.withDefaults()
	start := opts.Clock.Now()

	var zero, last T
	attempts := 0
	timeout := func(cause error) *TimeoutError {
		return &TimeoutError{
			Description: opts.Description,
			Elapsed:     opts.Clock.Now().Sub(start),
			Timeout:     opts.Timeout,
			Attempts:    attempts,
			Last:        last,
			Err:         cause,
		}
	}

	for {
		v, err := observe(ctx)
		attempts++
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, context.DeadlineExceeded) {
				return last, timeout(err)
			}
			return zero, err
		}
		if predicate(v) {
			return v, nil
		}
		last = v

		if err := opts.Clock.Sleep(ctx, opts.Interval); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return last, timeout(err)
			}
			return last, err
		}

		if opts.Clock.Now().Sub(start) >= opts.Timeout {
			return last, timeout(nil)
		}
	}
}
