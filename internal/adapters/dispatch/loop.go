// Package dispatch provides the UI/dispatch goroutine: a single OS-thread
// pinned loop that owns every window object, plus recurring timers whose
// callbacks run on that loop.
package dispatch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/bft-labs/linehost/internal/domain"
	"github.com/bft-labs/linehost/internal/ports"
)

// ErrStopped is returned by Invoke once the loop has exited.
var ErrStopped = domain.ErrDispatcherStopped

// Loop runs marshaled work on one goroutine. It implements both
// ports.Dispatcher and ports.Application.
type Loop struct {
	tasks chan func()
	quit  chan struct{}
	done  chan struct{}

	quitOnce sync.Once

	mu           sync.Mutex
	exitCode     int
	exitHandlers []func(int) int

	clock  clockwork.Clock
	logger ports.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithClock sets the clock used by timers. Defaults to the real clock.
func WithClock(c clockwork.Clock) Option {
	return func(l *Loop) {
		l.clock = c
	}
}

// New creates a loop. Call Run to start processing.
func New(logger ports.Logger, opts ...Option) *Loop {
	l := &Loop{
		tasks:  make(chan func()),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		clock:  clockwork.NewRealClock(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes marshaled work on the calling goroutine until Shutdown is
// requested, then raises the exit event and returns the final exit code.
func (l *Loop) Run() int {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.done)

	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.quit:
			return l.raiseExit()
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Invoke runs fn on the loop goroutine and waits for it to complete.
// A panic inside fn is recovered and returned as an error.
func (l *Loop) Invoke(ctx context.Context, fn func()) error {
	errCh := make(chan error, 1)
	task := func() {
		defer func() {
			if r := recover(); r != nil {
				errCh <- fmt.Errorf("dispatch: panic: %v", r)
			}
		}()
		fn()
		errCh <- nil
	}

	select {
	case l.tasks <- task:
	case <-l.quit:
		return ErrStopped
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown asks the loop to exit with the given code. Only the first call
// sets the code.
func (l *Loop) Shutdown(exitCode int) {
	l.quitOnce.Do(func() {
		l.mu.Lock()
		l.exitCode = exitCode
		l.mu.Unlock()
		close(l.quit)
	})
}

// OnExit registers a handler for the exit event. Handlers run on the loop
// goroutine in registration order and may override the exit code.
func (l *Loop) OnExit(fn func(exitCode int) int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exitHandlers = append(l.exitHandlers, fn)
}

func (l *Loop) raiseExit() int {
	l.mu.Lock()
	code := l.exitCode
	handlers := append([]func(int) int{}, l.exitHandlers...)
	l.mu.Unlock()

	for _, h := range handlers {
		code = l.runExitHandler(h, code)
	}
	return code
}

func (l *Loop) runExitHandler(h func(int) int, code int) (out int) {
	out = code
	defer func() {
		if r := recover(); r != nil && l.logger != nil {
			l.logger.Error("exit handler panicked", ports.Any("panic", r))
		}
	}()
	return h(code)
}
