package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/bft-labs/linehost/internal/domain"
	"github.com/bft-labs/linehost/internal/ports"
)

// Kind classifies a startup error report.
type Kind int

const (
	// KindRegistration reports a missing required field.
	KindRegistration Kind = iota
	// KindConfiguration reports an invalid configuration or environment.
	KindConfiguration
	// KindConfigRead reports a settings load failure.
	KindConfigRead
	// KindArguments reports invalid startup arguments.
	KindArguments
	// KindArgumentNotice logs invalid arguments when validation is disabled.
	KindArgumentNotice
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindRegistration:
		return "Registration"
	case KindConfiguration:
		return "Configuration"
	case KindConfigRead:
		return "ConfigRead"
	case KindArguments:
		return "Arguments"
	case KindArgumentNotice:
		return "ArgumentNotice"
	default:
		return "Unknown"
	}
}

// Disposition tells startup whether to go on after a report.
type Disposition int

const (
	Continue Disposition = iota
	Abort
)

// ExpectedArguments is the example shown when arguments are invalid.
const ExpectedArguments = "FULLSCREEN"

// Dialog titles.
const (
	titleNotRegistered  = "Application is not registered, contact the developers"
	titleAlreadyRunning = "Application is already running"
	titleConfiguration  = "Configuration error"
	titleConfigRead     = "Settings could not be read"
	titleArguments      = "App arguments"
)

// ErrorContext carries what a report needs to build the operator message.
type ErrorContext struct {
	OSInfo     string
	AppName    string
	AppVersion string

	// Condition is the failing condition, shown last.
	Condition string

	// Title overrides the dialog title for the kind.
	Title string

	Settings *domain.Settings
}

// Reporter presents startup errors to the operator.
// It never requests application shutdown; startup does that once.
type Reporter struct {
	dialog ports.Dialog
	logger ports.Logger
}

// NewReporter creates a reporter.
func NewReporter(dialog ports.Dialog, logger ports.Logger) *Reporter {
	return &Reporter{dialog: dialog, logger: logger}
}

// Report presents the error for kind and returns the disposition.
// Dialog failures are logged; they do not change the disposition.
func (r *Reporter) Report(ctx context.Context, kind Kind, ec ErrorContext) Disposition {
	var err error
	switch kind {
	case KindRegistration:
		err = r.dialog.ShowBlocking(ctx, pick(ec.Title, titleNotRegistered), ec.Condition)
	case KindConfiguration:
		err = r.dialog.ShowError(ctx, ports.DialogConfigurationError, header(ec)+ec.Condition, pick(ec.Title, titleConfiguration), ports.SeverityCritical)
	case KindConfigRead:
		err = r.dialog.ShowError(ctx, ports.DialogConfigReadError, ec.Condition, pick(ec.Title, titleConfigRead), ports.SeverityError)
	case KindArguments:
		err = r.dialog.ShowError(ctx, ports.DialogArgumentError, argumentMessage(ec), pick(ec.Title, titleArguments), ports.SeverityCritical)
	case KindArgumentNotice:
		r.logger.Warn("startup arguments are not valid, continuing",
			ports.String("arguments", argumentList(ec.Settings)),
			ports.String("condition", ec.Condition),
		)
		return Continue
	}
	if err != nil {
		r.logger.Error("failed to show startup error",
			ports.String("kind", kind.String()),
			ports.Err(err),
		)
	}
	return Abort
}

// header is the OS and application identity block that prefixes messages.
func header(ec ErrorContext) string {
	return fmt.Sprintf("%s\n%s %s\n", ec.OSInfo, ec.AppName, ec.AppVersion)
}

func argumentMessage(ec ErrorContext) string {
	var b strings.Builder
	b.WriteString(header(ec))
	b.WriteString("The arguments are not set up correctly.\n")
	if ec.Condition != "" {
		b.WriteString(ec.Condition + "\n")
	}
	fmt.Fprintf(&b, "For example, set the arguments: %s\n", ExpectedArguments)
	fmt.Fprintf(&b, "Actual args: %s\n", argumentList(ec.Settings))
	if s := ec.Settings; s != nil {
		fmt.Fprintf(&b, "Fullscreen: %t\n", s.Window.Fullscreen)
		fmt.Fprintf(&b, "CLEARBUFFER: %t\n", s.Arguments.ClearBuffer)
		fmt.Fprintf(&b, "BCSDELAY: %d", s.Arguments.SerialDelay)
	}
	return b.String()
}

func argumentList(s *domain.Settings) string {
	if s == nil {
		return ""
	}
	return s.Arguments.List
}

func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
