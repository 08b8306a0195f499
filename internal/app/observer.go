package app

import (
	"time"

	"github.com/bft-labs/linehost/internal/domain"
)

// Observer receives startup and shutdown measurements.
type Observer interface {
	EventEmitter

	// OnStage is called after each startup stage.
	OnStage(stage string, d time.Duration, err error)

	// OnStartupFailed is called once when startup aborts.
	OnStartupFailed(reason domain.Reason)

	// OnTeardownStep is called for each recorded shutdown step.
	OnTeardownStep(step StepResult)

	// OnShutdown is called when the graceful phase ends.
	OnShutdown(report *ShutdownReport)
}

type nopObserver struct{}

func (nopObserver) OnStateChange(State, State, string)   {}
func (nopObserver) OnStage(string, time.Duration, error) {}
func (nopObserver) OnStartupFailed(domain.Reason)        {}
func (nopObserver) OnTeardownStep(StepResult)            {}
func (nopObserver) OnShutdown(*ShutdownReport)           {}

// JoinObservers returns an Observer that forwards every call to each
// non-nil observer in order.
func JoinObservers(observers ...Observer) Observer {
	out := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type multiObserver []Observer

func (m multiObserver) OnStateChange(previous, current State, reason string) {
	for _, o := range m {
		o.OnStateChange(previous, current, reason)
	}
}

func (m multiObserver) OnStage(stage string, d time.Duration, err error) {
	for _, o := range m {
		o.OnStage(stage, d, err)
	}
}

func (m multiObserver) OnStartupFailed(reason domain.Reason) {
	for _, o := range m {
		o.OnStartupFailed(reason)
	}
}

func (m multiObserver) OnTeardownStep(step StepResult) {
	for _, o := range m {
		o.OnTeardownStep(step)
	}
}

func (m multiObserver) OnShutdown(report *ShutdownReport) {
	for _, o := range m {
		o.OnShutdown(report)
	}
}
