package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/linehost/internal/ports"
)

// Timer is a recurring timer whose callback is marshaled onto the loop.
// The priority is carried for diagnostics; the loop has a single queue.
type Timer struct {
	loop     *Loop
	interval time.Duration
	priority ports.Priority
	fn       func()

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTimer creates a stopped timer.
func (l *Loop) NewTimer(interval time.Duration, priority ports.Priority, fn func()) ports.Timer {
	return &Timer{
		loop:     l,
		interval: interval,
		priority: priority,
		fn:       fn,
	}
}

// Start begins ticking. Calling Start on a running timer does nothing.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil || t.interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	ticker := t.loop.clock.NewTicker(t.interval)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.loop.done:
				return
			case <-ticker.Chan():
				err := t.loop.Invoke(ctx, t.fn)
				if errors.Is(err, ErrStopped) {
					return
				}
				if err != nil && ctx.Err() == nil && t.loop.logger != nil {
					t.loop.logger.Warn("dispatcher timer tick failed",
						ports.String("priority", t.priority.String()),
						ports.Err(err))
				}
			}
		}
	}()
}

// Stop halts the timer and waits for an in-flight tick to return.
func (t *Timer) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	t.wg.Wait()
}

// Running reports whether the timer is started.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}
