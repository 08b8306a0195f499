package ports

import "context"

// DialogKind classifies an error dialog.
type DialogKind int

const (
	DialogConfigurationError DialogKind = iota
	DialogConfigReadError
	DialogArgumentError
)

// String returns a human-readable representation of the kind.
func (k DialogKind) String() string {
	switch k {
	case DialogConfigurationError:
		return "ConfigurationError"
	case DialogConfigReadError:
		return "ConfigReadError"
	case DialogArgumentError:
		return "ArgumentError"
	default:
		return "Unknown"
	}
}

// Severity is the severity shown on an error dialog.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityCritical
)

// String returns a human-readable representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	case SeverityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// Dialog presents errors and messages to the operator.
type Dialog interface {
	// ShowError displays an error dialog and returns once it is dismissed.
	ShowError(ctx context.Context, kind DialogKind, message, title string, severity Severity) error

	// ShowBlocking displays a modal message and returns once it is acknowledged.
	ShowBlocking(ctx context.Context, title, body string) error
}
