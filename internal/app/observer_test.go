package app

import (
	"testing"
	"time"

	"github.com/bft-labs/linehost/internal/domain"
)

func TestJoinObservers(t *testing.T) {
	a, b := &mockObserver{}, &mockObserver{}
	obs := JoinObservers(a, nil, b)

	obs.OnStage("construct", time.Millisecond, nil)
	obs.OnStartupFailed(domain.ReasonNoDatabase)
	obs.OnTeardownStep(StepResult{Name: "cancel-signal"})
	obs.OnShutdown(&ShutdownReport{})
	obs.OnStateChange(StateRunning, StateShuttingDown, "signal")

	for i, o := range []*mockObserver{a, b} {
		if len(o.stages) != 1 || o.stages[0] != "construct" {
			t.Errorf("observer %d: stages = %v", i, o.stages)
		}
		if len(o.failures) != 1 || o.failures[0] != domain.ReasonNoDatabase {
			t.Errorf("observer %d: failures = %v", i, o.failures)
		}
		if len(o.steps) != 1 || o.reports != 1 {
			t.Errorf("observer %d: steps = %d, reports = %d", i, len(o.steps), o.reports)
		}
	}
}
