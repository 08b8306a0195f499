package linehost

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/bft-labs/linehost/internal/adapters/database"
	"github.com/bft-labs/linehost/internal/adapters/dialog"
	"github.com/bft-labs/linehost/internal/adapters/dispatch"
	"github.com/bft-labs/linehost/internal/adapters/eventlog"
	logAdapter "github.com/bft-labs/linehost/internal/adapters/log"
	"github.com/bft-labs/linehost/internal/adapters/sysinfo"
	"github.com/bft-labs/linehost/internal/adapters/window"
	"github.com/bft-labs/linehost/internal/adapters/workers"
	"github.com/bft-labs/linehost/internal/app"
	"github.com/bft-labs/linehost/internal/cliconfig"
	"github.com/bft-labs/linehost/internal/metrics"
	"github.com/bft-labs/linehost/internal/ports"
	"github.com/bft-labs/linehost/internal/station"
)

// ErrAlreadyRan is returned when Run is called more than once.
var ErrAlreadyRan = errors.New("linehost: host already ran")

// releaseTimeout bounds waiting for busy workers after shutdown.
const releaseTimeout = time.Second

// exitCodeError is returned alongside an error when Run cannot start.
const exitCodeError = 1

// Config holds the host configuration.
type Config = cliconfig.Config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Host runs the line station through startup and shutdown.
// Use New() to create an instance, then Run() from the main goroutine.
type Host struct {
	config   Config
	opts     options
	logger   ports.Logger
	priority ports.Priority
	observer app.Observer

	ran   atomic.Bool
	state atomic.Int32
}

// New creates a Host with the given configuration.
// Returns an error if the configuration is invalid.
func New(cfg Config, opts ...Option) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	priority, _ := cliconfig.ParsePriority(cfg.ProductionPriority)

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logAdapter.NewNoopLogger()
	}
	logger := o.logger
	if o.dialog == nil {
		o.dialog = dialog.NewConsole(os.Stderr, os.Stdin, cfg.Interactive)
	}
	if o.loader == nil {
		o.loader = cliconfig.NewFileLoader(cfg.SettingsPath)
	}
	if o.system == nil {
		o.system = sysinfo.New()
	}
	if o.databases == nil {
		o.databases = database.NewProvider(logger)
	}
	if o.terminator == nil {
		o.terminator = sysinfo.NewSelfTerminator()
	}
	if o.newWindow == nil {
		o.newWindow = func() (ports.Window, error) {
			return window.NewHeadless(logger), nil
		}
	}
	if o.registry == nil {
		o.registry = metrics.NewRegistry()
	}
	if o.clock == nil {
		o.clock = clockwork.NewRealClock()
	}
	if o.appVersion == "" {
		o.appVersion = Version
	}

	var handler app.Observer
	if o.eventHandler != nil {
		handler = handlerObserver{handler: o.eventHandler}
	}

	h := &Host{
		config:   cfg,
		opts:     o,
		logger:   logger,
		priority: priority,
	}
	h.observer = app.JoinObservers(statusObserver{state: &h.state}, metrics.NewLifecycleMetrics(o.registry), handler)
	return h, nil
}

// Run starts the application and blocks until it has shut down. It must be
// called from the main goroutine, which becomes the dispatch goroutine.
//
// Cancelling ctx begins shutdown and arms the watchdog at once. Run returns
// the exit code once the graceful phase has ended; the caller should exit
// the process with it. A startup that is still running OuterTimeout after
// the signal is abandoned and Run returns without tearing it down. If the
// process is still alive when the grace period expires, the watchdog kills
// it.
func (h *Host) Run(ctx context.Context, args []string) (int, error) {
	if !h.ran.CompareAndSwap(false, true) {
		return exitCodeError, ErrAlreadyRan
	}

	pool, err := workers.New(h.config.WorkerPoolSize, h.logger)
	if err != nil {
		return exitCodeError, err
	}
	defer func() {
		if err := pool.Release(releaseTimeout); err != nil {
			h.logger.Warn("worker pool still busy after shutdown", ports.Err(err))
		}
	}()

	loop := dispatch.New(h.logger, dispatch.WithClock(h.opts.clock))
	vm := station.NewViewModel(h.config.AppName,
		eventlog.New(eventlog.NewStore(h.config.EventLogCapacity), h.logger))

	st := station.New(station.Config{
		ValidateArgs:    h.config.ValidateArgs,
		OpenSerialPorts: h.config.OpenSerialPorts,
		SettingsPath:    h.config.SettingsPath,
		MetricsAddr:     h.config.MetricsAddr,
	}, h.logger,
		station.WithPlugins(h.opts.plugins...),
		station.WithMetricsHandler(metrics.Handler(h.opts.registry)),
	)

	startup := app.NewStartup(app.StartupDeps{
		Loader:        h.opts.loader,
		Databases:     h.opts.databases,
		Dialog:        h.opts.dialog,
		System:        h.opts.system,
		Dispatcher:    loop,
		Runner:        pool,
		Logger:        h.logger,
		Observer:      h.observer,
		TimerInterval: h.config.TimerInterval,
	})
	shutdown := app.NewShutdown(app.ShutdownConfig{
		PortTimeout:  h.config.PortTimeout,
		OuterBound:   h.config.OuterTimeout,
		Grace:        h.config.GracePeriod,
		PollInterval: h.config.PollInterval,
	}, app.ShutdownDeps{
		Dispatcher: loop,
		Pool:       pool,
		Terminator: h.opts.terminator,
		Clock:      h.opts.clock,
		Logger:     h.logger,
		Observer:   h.observer,
	})

	req := app.Request{
		Host:      st,
		ViewModel: vm,
		Args:      args,
		NewResources: func() *app.Resources {
			return &app.Resources{
				ViewModel:   vm,
				AppType:     h.config.AppName,
				AppVersion:  h.opts.appVersion,
				Application: loop,
			}
		},
		NewConfig: func() *app.Config {
			return &app.Config{Priority: h.priority}
		},
		NewWindow: h.opts.newWindow,
	}

	// lc is written once by the startup goroutine before ready closes.
	var lc *app.LifecycleContext
	ready := make(chan struct{})
	go func() {
		defer close(ready)
		var err error
		lc, err = startup.Initialize(context.WithoutCancel(ctx), req)
		if err != nil {
			h.logger.Error("startup failed", ports.Err(err))
		}
	}()

	// abandoned is closed when startup is still running OuterTimeout after
	// the signal. The watchdog is already armed by then.
	abandoned := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-loop.Done():
			return
		}
		h.logger.Info("received signal, shutting down")
		shutdown.Arm()

		timer := h.opts.clock.NewTimer(h.config.OuterTimeout)
		defer timer.Stop()
		select {
		case <-ready:
			shutdown.Begin(lc)
		case <-timer.Chan():
			h.logger.Error("startup did not finish after signal, stopping dispatch loop",
				ports.Duration("bound", h.config.OuterTimeout),
			)
			close(abandoned)
			loop.Shutdown(0)
		}
	}()

	code := loop.Run()
	select {
	case <-ready:
		<-shutdown.Begin(lc)
	case <-abandoned:
	}

	h.logger.Info("application exited", ports.Int("exit_code", code))
	return code, nil
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (h *Host) Status() State {
	return State(h.state.Load())
}
