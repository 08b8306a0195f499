package app

import (
	"sync"
	"time"
)

// StepResult is the outcome of one teardown step.
type StepResult struct {
	Name     string
	Err      error
	Duration time.Duration
	TimedOut bool
}

// ShutdownReport collects step results. Steps cut off by the graceful
// bound may still be added after the phase has finished.
type ShutdownReport struct {
	mu       sync.Mutex
	start    time.Time
	steps    []StepResult
	timedOut bool
	duration time.Duration
}

func (r *ShutdownReport) begin(start time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.start = start
}

func (r *ShutdownReport) add(s StepResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, s)
}

func (r *ShutdownReport) markTimedOut() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timedOut = true
}

func (r *ShutdownReport) finish(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.duration = d
}

// Start returns when shutdown began.
func (r *ShutdownReport) Start() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.start
}

// Steps returns a copy of the recorded steps in completion order.
func (r *ShutdownReport) Steps() []StepResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StepResult(nil), r.steps...)
}

// Step returns the named step result.
func (r *ShutdownReport) Step(name string) (StepResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Failed returns the steps that ended with an error.
func (r *ShutdownReport) Failed() []StepResult {
	var out []StepResult
	for _, s := range r.Steps() {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// TimedOut reports whether the graceful phase hit its bound.
func (r *ShutdownReport) TimedOut() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timedOut
}

// Duration is the length of the graceful phase.
func (r *ShutdownReport) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.duration
}
