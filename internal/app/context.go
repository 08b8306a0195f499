package app

import (
	"github.com/google/uuid"

	"github.com/bft-labs/linehost/internal/domain"
	"github.com/bft-labs/linehost/internal/ports"
)

// SerialPorts is the serial-port registry keyed by description.
type SerialPorts = Registry[*domain.SerialPortEntry]

// Databases is the database registry keyed by description.
type Databases = Registry[*domain.DatabaseEntry]

// Resources holds the runtime objects owned by the application.
type Resources struct {
	ViewModel ports.ViewModel

	// AppType is the application identity, also used as the process name
	// for the single-instance check.
	AppType    string
	AppVersion string

	Application ports.Application
	Window      ports.Window
	Timer       ports.Timer

	// RuntimeVersion is filled by startup.
	RuntimeVersion string
}

// Config holds the application configuration assembled during startup.
type Config struct {
	Settings *domain.Settings

	// Priority is the dispatcher priority for recurring production work.
	Priority ports.Priority

	// ImageFolder is the resolved image folder path.
	ImageFolder string

	SerialPorts *SerialPorts
	Databases   *Databases
}

// ResourceFactory creates the application resources.
type ResourceFactory func() *Resources

// ConfigFactory creates the empty application configuration.
type ConfigFactory func() *Config

// WindowFactory creates the main window. It runs on the dispatch goroutine.
type WindowFactory func() (ports.Window, error)

// LifecycleContext is created once per process by startup and handed
// explicitly to every later lifecycle step.
type LifecycleContext struct {
	// ID identifies this run in logs and events.
	ID uuid.UUID

	Signal    *Signal
	Lifecycle *Lifecycle
	Resources *Resources
	Config    *Config
}

// EventLog returns the view-model's event log, or nil.
func (lc *LifecycleContext) EventLog() ports.EventLog {
	if lc == nil || lc.Resources == nil || lc.Resources.ViewModel == nil {
		return nil
	}
	return lc.Resources.ViewModel.EventLog()
}

// Application returns the application instance, or nil.
func (lc *LifecycleContext) Application() ports.Application {
	if lc == nil || lc.Resources == nil {
		return nil
	}
	return lc.Resources.Application
}
