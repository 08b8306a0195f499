package app

import (
	"context"
	"sync"
)

// Signal is a fire-once cancellation broadcast.
// Every holder observes the same context; firing never blocks.
type Signal struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewSignal creates a signal whose context derives from parent.
func NewSignal(parent context.Context) *Signal {
	ctx, cancel := context.WithCancel(parent)
	return &Signal{ctx: ctx, cancel: cancel}
}

// Context returns the context cancelled when the signal fires.
func (s *Signal) Context() context.Context {
	return s.ctx
}

// Done is shorthand for Context().Done().
func (s *Signal) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Fire broadcasts cancellation. Calls after the first are no-ops.
func (s *Signal) Fire() {
	s.once.Do(s.cancel)
}

// Fired reports whether the signal context has been cancelled.
func (s *Signal) Fired() bool {
	return s.ctx.Err() != nil
}
