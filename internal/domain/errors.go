package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent the startup abort reasons.
// They are matched against an *InitFailure with errors.Is.
var (
	// ErrValidation is returned when a required post-construction field is absent.
	ErrValidation = errors.New("linehost: required field missing")

	// ErrAlreadyRunning is returned when another instance of the application is running.
	ErrAlreadyRunning = errors.New("linehost: already running")

	// ErrConfigLoad is returned when the main settings could not be loaded.
	ErrConfigLoad = errors.New("linehost: settings load failed")

	// ErrNoDatabase is returned when the database registry is empty after loading.
	ErrNoDatabase = errors.New("linehost: no database configured")

	// ErrArgumentInvalid is returned when startup arguments fail validation.
	ErrArgumentInvalid = errors.New("linehost: invalid startup arguments")

	// ErrWindow is returned when the main window could not be constructed or configured.
	ErrWindow = errors.New("linehost: main window setup failed")

	// ErrPostInit is returned when the application post-initialization hook fails.
	ErrPostInit = errors.New("linehost: post-initialization failed")

	// ErrNotRunning is returned by lifecycle transitions out of an inactive state.
	ErrNotRunning = errors.New("linehost: not running")

	// ErrInvalidTransition is returned when a lifecycle transition is not allowed.
	ErrInvalidTransition = errors.New("linehost: invalid lifecycle transition")

	// ErrShutdownTimeout is returned when a bounded wait expires.
	ErrShutdownTimeout = errors.New("linehost: shutdown timeout")

	// ErrDispatcherStopped is returned when work is marshaled onto a dispatch loop that has exited.
	ErrDispatcherStopped = errors.New("linehost: dispatcher stopped")
)

// Reason identifies which startup stage aborted.
type Reason int

const (
	ReasonValidation Reason = iota + 1
	ReasonAlreadyRunning
	ReasonConfigLoad
	ReasonNoDatabase
	ReasonArgumentInvalid
	ReasonWindow
	ReasonPostInit
)

// String returns a human-readable representation of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonValidation:
		return "ValidationFailure"
	case ReasonAlreadyRunning:
		return "AlreadyRunning"
	case ReasonConfigLoad:
		return "ConfigLoadFailed"
	case ReasonNoDatabase:
		return "NoDatabaseConfigured"
	case ReasonArgumentInvalid:
		return "ArgumentInvalid"
	case ReasonWindow:
		return "WindowFailed"
	case ReasonPostInit:
		return "PostInitFailed"
	default:
		return "Unknown"
	}
}

// sentinel maps a reason to its package-level error.
func (r Reason) sentinel() error {
	switch r {
	case ReasonValidation:
		return ErrValidation
	case ReasonAlreadyRunning:
		return ErrAlreadyRunning
	case ReasonConfigLoad:
		return ErrConfigLoad
	case ReasonNoDatabase:
		return ErrNoDatabase
	case ReasonArgumentInvalid:
		return ErrArgumentInvalid
	case ReasonWindow:
		return ErrWindow
	case ReasonPostInit:
		return ErrPostInit
	default:
		return nil
	}
}

// InitFailure describes why startup aborted.
type InitFailure struct {
	// Reason is the typed abort reason.
	Reason Reason

	// Stage is the name of the stage that aborted.
	Stage string

	// Field names the missing value for ReasonValidation failures.
	Field string

	// Message is the text surfaced to the operator.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements error.
func (f *InitFailure) Error() string {
	msg := fmt.Sprintf("startup %s failed: %s", f.Stage, f.Reason)
	if f.Field != "" {
		msg += " (" + f.Field + ")"
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (f *InitFailure) Unwrap() error {
	return f.Err
}

// Is reports whether target is the sentinel error for the failure reason.
func (f *InitFailure) Is(target error) bool {
	s := f.Reason.sentinel()
	return s != nil && s == target
}

// AsInitFailure extracts an *InitFailure from err.
func AsInitFailure(err error) (*InitFailure, bool) {
	var f *InitFailure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
