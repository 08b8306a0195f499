package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/bft-labs/linehost/internal/domain"
)

// runBounded runs fn on its own goroutine and waits at most d for it.
// When the wait ends first fn keeps running; its result is discarded.
// A panic in fn is returned as an error.
func runBounded(ctx context.Context, clock clockwork.Clock, d time.Duration, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- safeCall(fn)
	}()

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.Chan():
		return fmt.Errorf("%w after %s", domain.ErrShutdownTimeout, d)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// safeCall runs fn and converts a panic into an error.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
