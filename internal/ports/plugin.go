package ports

import "context"

// PluginConfig is handed to plugins when they are initialized.
type PluginConfig struct {
	// SettingsPath is the path of the main settings file.
	SettingsPath string

	// EventLog is the operator-visible event log.
	EventLog EventLog

	Logger Logger
}

// Plugin is a background service started after the application is running.
// Plugins observe the context passed to Initialize for cancellation.
type Plugin interface {
	// Name returns the plugin identifier.
	Name() string

	// Initialize starts the plugin. It must not block.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown stops the plugin and waits for its goroutines.
	Shutdown(ctx context.Context) error
}
