package domain

import "time"

// ProcessState is the state attached to an event log record.
type ProcessState int

const (
	StateInfo ProcessState = iota
	StateDone
	StateWarning
	StateError
	StateReadyToExit
)

// String returns a human-readable representation of the state.
func (s ProcessState) String() string {
	switch s {
	case StateInfo:
		return "Info"
	case StateDone:
		return "Done"
	case StateWarning:
		return "Warning"
	case StateError:
		return "Error"
	case StateReadyToExit:
		return "ReadyToExit"
	default:
		return "Unknown"
	}
}

// Event is one record in the operator-visible event log.
type Event struct {
	Time   time.Time
	Title  string
	Origin string
	State  ProcessState
}
