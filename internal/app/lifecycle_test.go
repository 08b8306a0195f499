package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/bft-labs/linehost/internal/domain"
)

// mockEmitter tracks state change events for testing.
type mockEmitter struct {
	mu     sync.Mutex
	events []stateChangeEvent
}

type stateChangeEvent struct {
	previous State
	current  State
	reason   string
}

func (m *mockEmitter) OnStateChange(previous, current State, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, stateChangeEvent{previous, current, reason})
}

func (m *mockEmitter) Events() []stateChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]stateChangeEvent{}, m.events...)
}

func TestNewLifecycle(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	if l == nil {
		t.Fatal("NewLifecycle returned nil")
	}
	if l.State() != StateUninitialized {
		t.Errorf("initial state = %v, want StateUninitialized", l.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUninitialized, "Uninitialized"},
		{StateStarting, "Starting"},
		{StateRunning, "Running"},
		{StateShuttingDown, "ShuttingDown"},
		{StateTerminated, "Terminated"},
		{StateFailed, "Failed"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		got := tt.state.String()
		if got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestLifecycle_TransitionTo_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
	}{
		{"uninitialized to starting", StateUninitialized, StateStarting},
		{"uninitialized to shutting down", StateUninitialized, StateShuttingDown},
		{"starting to running", StateStarting, StateRunning},
		{"starting to failed", StateStarting, StateFailed},
		{"starting to shutting down", StateStarting, StateShuttingDown},
		{"running to shutting down", StateRunning, StateShuttingDown},
		{"failed to shutting down", StateFailed, StateShuttingDown},
		{"shutting down to terminated", StateShuttingDown, StateTerminated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(&mockLogger{}, nil)
			l.state = tt.from

			if err := l.TransitionTo(tt.to, "test"); err != nil {
				t.Fatalf("TransitionTo() error = %v", err)
			}
			if l.State() != tt.to {
				t.Errorf("state = %v after transition, want %v", l.State(), tt.to)
			}
		})
	}
}

func TestLifecycle_TransitionTo_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
	}{
		{"uninitialized to running", StateUninitialized, StateRunning},
		{"starting to terminated", StateStarting, StateTerminated},
		{"running to starting", StateRunning, StateStarting},
		{"running to failed", StateRunning, StateFailed},
		{"failed to running", StateFailed, StateRunning},
		{"shutting down to running", StateShuttingDown, StateRunning},
		{"shutting down twice", StateShuttingDown, StateShuttingDown},
		{"terminated to starting", StateTerminated, StateStarting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(&mockLogger{}, nil)
			l.state = tt.from

			err := l.TransitionTo(tt.to, "test")

			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Errorf("TransitionTo() error = %v, want ErrInvalidTransition", err)
			}
			// State should not change on invalid transition
			if l.State() != tt.from {
				t.Errorf("state changed to %v on invalid transition, want %v", l.State(), tt.from)
			}
		})
	}
}

func TestLifecycle_TransitionTo_EmitsEvents(t *testing.T) {
	emitter := &mockEmitter{}
	l := NewLifecycle(&mockLogger{}, emitter)

	_ = l.TransitionTo(StateStarting, "start test")
	_ = l.TransitionTo(StateRunning, "running test")
	_ = l.TransitionTo(StateStarting, "rejected")

	events := emitter.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	if events[0].previous != StateUninitialized || events[0].current != StateStarting {
		t.Errorf("event 0: got %v->%v, want Uninitialized->Starting", events[0].previous, events[0].current)
	}
	if events[1].previous != StateStarting || events[1].current != StateRunning || events[1].reason != "running test" {
		t.Errorf("event 1: got %+v", events[1])
	}
}

func TestLifecycle_IsTerminal(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)
	for _, s := range []State{StateUninitialized, StateStarting, StateRunning, StateFailed, StateShuttingDown} {
		l.state = s
		if l.IsTerminal() {
			t.Errorf("IsTerminal() = true for %v", s)
		}
	}
	l.state = StateTerminated
	if !l.IsTerminal() {
		t.Error("IsTerminal() = false for Terminated")
	}
}

func TestLifecycle_Concurrency(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = l.State()
				_ = l.IsTerminal()
			}
		}()
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TransitionTo(StateStarting, "test") == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if succeeded != 1 {
		t.Errorf("%d goroutines entered Starting, want exactly 1", succeeded)
	}
}
