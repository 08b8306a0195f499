package ports

import (
	"context"
	"time"

	"github.com/bft-labs/linehost/internal/domain"
)

// Priority is the dispatcher priority used for recurring production work.
type Priority int

const (
	PriorityBackground Priority = iota
	PriorityNormal
	PriorityRender
	PrioritySend
)

// String returns a human-readable representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityBackground:
		return "Background"
	case PriorityNormal:
		return "Normal"
	case PriorityRender:
		return "Render"
	case PrioritySend:
		return "Send"
	default:
		return "Unknown"
	}
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p >= PriorityBackground && p <= PrioritySend
}

// Dispatcher marshals work onto the UI/dispatch goroutine.
type Dispatcher interface {
	// Invoke runs fn on the dispatch goroutine and waits for it to finish,
	// or for ctx to end, whichever comes first.
	Invoke(ctx context.Context, fn func()) error

	// NewTimer creates a stopped recurring timer whose callback runs on the
	// dispatch goroutine.
	NewTimer(interval time.Duration, priority Priority, fn func()) Timer
}

// Timer is a recurring dispatcher-driven timer.
type Timer interface {
	Start()
	Stop()
	Running() bool
}

// Application is the hosting application instance.
type Application interface {
	// Shutdown asks the application to stop with the given exit code.
	// It is idempotent and must be called on the dispatch goroutine.
	Shutdown(exitCode int)

	// OnExit registers a handler for the application exit event.
	// The handler may override the exit code.
	OnExit(fn func(exitCode int) int)
}

// Window is the main visual surface.
type Window interface {
	// Bind attaches the view-model.
	Bind(vm ViewModel)

	// Configure hands the initial settings to the window.
	Configure(ctx context.Context, settings *domain.Settings) error
}
