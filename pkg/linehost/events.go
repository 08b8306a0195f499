package linehost

import (
	"sync/atomic"
	"time"

	"github.com/bft-labs/linehost/internal/app"
	"github.com/bft-labs/linehost/internal/domain"
)

// State is the lifecycle state of a Host.
type State int

const (
	StateUninitialized State = iota
	StateStarting
	StateRunning
	StateShuttingDown
	StateTerminated
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	return app.State(s).String()
}

// StateChangeEvent is emitted on every lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// StartupFailedEvent is emitted once when startup aborts.
type StartupFailedEvent struct {
	// Reason names the abort reason, e.g. "AlreadyRunning".
	Reason string
}

// ShutdownEvent is emitted when the graceful shutdown phase ends.
type ShutdownEvent struct {
	Duration time.Duration
	TimedOut bool

	// FailedSteps names the teardown steps that returned an error.
	FailedSteps []string
}

// EventHandler receives lifecycle events.
type EventHandler interface {
	OnStateChange(e StateChangeEvent)
	OnStartupFailed(e StartupFailedEvent)
	OnShutdown(e ShutdownEvent)
}

// handlerObserver adapts an EventHandler to app.Observer.
type handlerObserver struct {
	handler EventHandler
}

func (h handlerObserver) OnStateChange(previous, current app.State, reason string) {
	h.handler.OnStateChange(StateChangeEvent{
		Previous: State(previous),
		Current:  State(current),
		Reason:   reason,
	})
}

func (h handlerObserver) OnStage(string, time.Duration, error) {}

func (h handlerObserver) OnStartupFailed(reason domain.Reason) {
	h.handler.OnStartupFailed(StartupFailedEvent{Reason: reason.String()})
}

func (h handlerObserver) OnTeardownStep(app.StepResult) {}

func (h handlerObserver) OnShutdown(report *app.ShutdownReport) {
	e := ShutdownEvent{Duration: report.Duration(), TimedOut: report.TimedOut()}
	for _, s := range report.Failed() {
		e.FailedSteps = append(e.FailedSteps, s.Name)
	}
	h.handler.OnShutdown(e)
}

// BaseEventHandler implements EventHandler with no-ops. Embed it to handle
// only the events you need.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent)     {}
func (BaseEventHandler) OnStartupFailed(StartupFailedEvent) {}
func (BaseEventHandler) OnShutdown(ShutdownEvent)           {}

// statusObserver tracks the current lifecycle state for Host.Status.
type statusObserver struct {
	state *atomic.Int32
}

func (s statusObserver) OnStateChange(_, current app.State, _ string) {
	s.state.Store(int32(current))
}

func (statusObserver) OnStage(string, time.Duration, error) {}
func (statusObserver) OnStartupFailed(domain.Reason)        {}
func (statusObserver) OnTeardownStep(app.StepResult)        {}
func (statusObserver) OnShutdown(*app.ShutdownReport)       {}
