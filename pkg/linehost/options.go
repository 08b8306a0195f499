package linehost

import (
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/linehost/internal/ports"
)

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// Plugin is a background service started once the application is running.
type Plugin = ports.Plugin

// PluginConfig is handed to plugins when they are initialized.
type PluginConfig = ports.PluginConfig

// Dialog presents errors to the operator.
type Dialog = ports.Dialog

// Window is the main visual surface.
type Window = ports.Window

// Option configures optional behavior of a Host.
type Option func(*options)

// options holds the optional configuration for a Host instance.
type options struct {
	logger       ports.Logger
	eventHandler EventHandler
	plugins      []ports.Plugin
	dialog       ports.Dialog
	loader       ports.ConfigLoader
	system       ports.SystemInfo
	databases    ports.DatabaseProvider
	terminator   ports.Terminator
	newWindow    func() (ports.Window, error)
	registry     *prometheus.Registry
	clock        clockwork.Clock
	appVersion   string
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for lifecycle events.
// Events are called synchronously from the lifecycle goroutines.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized once startup completes.
// Plugins are initialized in registration order and shut down in reverse
// order when the cancellation signal fires.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithDialog replaces the console dialog.
func WithDialog(d Dialog) Option {
	return func(o *options) {
		o.dialog = d
	}
}

// WithConfigLoader replaces the settings file loader.
func WithConfigLoader(l ports.ConfigLoader) Option {
	return func(o *options) {
		o.loader = l
	}
}

// WithSystemInfo replaces the process table and OS description source.
func WithSystemInfo(s ports.SystemInfo) Option {
	return func(o *options) {
		o.system = s
	}
}

// WithDatabaseProvider replaces the database handle provider.
func WithDatabaseProvider(p ports.DatabaseProvider) Option {
	return func(o *options) {
		o.databases = p
	}
}

// WithTerminator replaces the process terminator used by the shutdown
// watchdog. The default kills the current process.
func WithTerminator(t ports.Terminator) Option {
	return func(o *options) {
		o.terminator = t
	}
}

// WithWindow sets the main window factory. It runs on the dispatch goroutine.
// The default is a headless window.
func WithWindow(newWindow func() (Window, error)) Option {
	return func(o *options) {
		o.newWindow = newWindow
	}
}

// WithMetricsRegistry sets the Prometheus registry lifecycle metrics are
// registered on. The default is a fresh registry with Go and process collectors.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithClock sets the clock used by dispatcher timers and the shutdown watchdog.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithAppVersion sets the version shown in error dialogs.
func WithAppVersion(v string) Option {
	return func(o *options) {
		o.appVersion = v
	}
}
