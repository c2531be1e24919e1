// Package clock provides the waits used by pollers and job workers.
package clock

import (
	"context"
	"time"
)

// SleepWithContext waits for the duration or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	return WaitOrWake(ctx, d, nil)
}

// WaitOrWake waits for the duration, returning nil early when wake fires.
// A nil wake channel never fires.
func WaitOrWake(ctx context.Context, d time.Duration, wake <-chan struct{}) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-wake:
		return nil
	case <-timer.C:
		return nil
	}
}

// Waiter returns a sleep function bound to wake, for components that take a plain sleep hook.
func Waiter(wake <-chan struct{}) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		return WaitOrWake(ctx, d, wake)
	}
}
