// Package station is the line station application hosted by the lifecycle.
// It takes over once startup completes: serial ports are opened, the
// production timer is started and background services run until the
// cancellation signal fires.
package station

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bft-labs/linehost/internal/adapters/serial"
	"github.com/bft-labs/linehost/internal/app"
	"github.com/bft-labs/linehost/internal/domain"
	"github.com/bft-labs/linehost/internal/ports"
)

// stopTimeout bounds plugin and metrics server shutdown after cancellation.
const stopTimeout = time.Second

// Config holds station options.
type Config struct {
	// ValidateArgs makes invalid startup arguments abort startup.
	ValidateArgs bool

	// OpenSerialPorts opens every registered serial port after startup.
	OpenSerialPorts bool

	// SettingsPath is handed to plugins.
	SettingsPath string

	// MetricsAddr is the listen address of the metrics endpoint. Empty disables it.
	MetricsAddr string
}

// PortOpener opens a serial port.
type PortOpener func(conf domain.SerialPortConf) (domain.Resource, error)

// Station implements app.Host.
type Station struct {
	cfg     Config
	logger  ports.Logger
	plugins []ports.Plugin
	metrics http.Handler
	open    PortOpener

	ticks atomic.Int64

	mu       sync.Mutex
	listener net.Listener
	stopped  chan struct{}
}

// Option configures a Station.
type Option func(*Station)

// WithPlugins registers background plugins. They are initialized in order
// and shut down in reverse order.
func WithPlugins(plugins ...ports.Plugin) Option {
	return func(s *Station) {
		s.plugins = append(s.plugins, plugins...)
	}
}

// WithMetricsHandler sets the handler served on Config.MetricsAddr.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Station) {
		s.metrics = h
	}
}

// WithPortOpener replaces the serial port opener.
func WithPortOpener(open PortOpener) Option {
	return func(s *Station) {
		s.open = open
	}
}

// New creates a station.
func New(cfg Config, logger ports.Logger, opts ...Option) *Station {
	s := &Station{
		cfg:     cfg,
		logger:  logger,
		open:    openSerial,
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ArgumentValidation reports whether invalid arguments abort startup.
func (s *Station) ArgumentValidation() bool {
	return s.cfg.ValidateArgs
}

// PostInit starts the station. Everything it starts is stopped when ctx
// is cancelled.
func (s *Station) PostInit(ctx context.Context, lc *app.LifecycleContext) error {
	if s.cfg.OpenSerialPorts {
		s.openPorts(ctx, lc)
	}

	started, err := s.initPlugins(ctx, lc)
	if err != nil {
		s.shutdownPlugins(started)
		return err
	}

	if err := s.serveMetrics(ctx); err != nil {
		s.shutdownPlugins(started)
		return err
	}

	if lc.Resources.Timer != nil {
		lc.Resources.Timer.Start()
	}

	go func() {
		defer close(s.stopped)
		<-ctx.Done()
		if lc.Resources.Timer != nil {
			lc.Resources.Timer.Stop()
		}
		s.shutdownPlugins(started)
		s.logger.Info("station stopped", ports.Int("ticks", int(s.ticks.Load())))
	}()

	s.logger.Info("station running",
		ports.String("line", lc.Config.Settings.Line),
		ports.Int("position", lc.Config.Settings.Position),
		ports.Int("serial_ports", lc.Config.SerialPorts.Len()),
	)
	return nil
}

// Tick is the production timer callback.
func (s *Station) Tick(lc *app.LifecycleContext) {
	n := s.ticks.Add(1)
	s.logger.Debug("production tick",
		ports.Int("tick", int(n)),
		ports.String("priority", lc.Config.Priority.String()),
	)
}

// Ticks returns how many times the production timer fired.
func (s *Station) Ticks() int64 {
	return s.ticks.Load()
}

// Stopped is closed once the station has released what PostInit started.
func (s *Station) Stopped() <-chan struct{} {
	return s.stopped
}

// MetricsAddr returns the bound metrics address, or "" when not serving.
func (s *Station) MetricsAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// openPorts opens the registered serial ports. A port that fails to open
// stays closed and is reported as a warning.
func (s *Station) openPorts(ctx context.Context, lc *app.LifecycleContext) {
	for _, entry := range lc.Config.SerialPorts.Values() {
		if entry.Port != nil {
			continue
		}
		port, err := s.open(entry.Conf)
		if err != nil {
			s.logger.Warn("failed to open serial port",
				ports.String("description", entry.Conf.Description),
				ports.String("port", entry.Conf.PortName),
				ports.Err(err))
			s.record(ctx, lc, domain.Event{
				Title:  fmt.Sprintf("Serial port %s (%s) unavailable", entry.Conf.Description, entry.Conf.PortName),
				Origin: "station",
				State:  domain.StateWarning,
			})
			continue
		}
		entry.Port = port
		s.logger.Info("serial port open",
			ports.String("description", entry.Conf.Description),
			ports.String("port", entry.Conf.PortName))
	}
}

func (s *Station) initPlugins(ctx context.Context, lc *app.LifecycleContext) ([]ports.Plugin, error) {
	cfg := ports.PluginConfig{
		SettingsPath: s.cfg.SettingsPath,
		EventLog:     lc.EventLog(),
		Logger:       s.logger,
	}
	started := make([]ports.Plugin, 0, len(s.plugins))
	for _, p := range s.plugins {
		if err := p.Initialize(ctx, cfg); err != nil {
			s.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			return started, fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		started = append(started, p)
		s.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
	}
	return started, nil
}

func (s *Station) shutdownPlugins(started []ports.Plugin) {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	for i := len(started) - 1; i >= 0; i-- {
		p := started[i]
		if err := p.Shutdown(ctx); err != nil {
			s.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			continue
		}
		s.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
	}
}

// serveMetrics starts the metrics endpoint. The listener is bound before
// returning so address errors fail startup.
func (s *Station) serveMetrics(ctx context.Context) error {
	if s.cfg.MetricsAddr == "" || s.metrics == nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.cfg.MetricsAddr)
	if err != nil {
		return fmt.Errorf("metrics listen %s: %w", s.cfg.MetricsAddr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", ports.Err(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("metrics endpoint listening", ports.String("addr", ln.Addr().String()))
	return nil
}

func (s *Station) record(ctx context.Context, lc *app.LifecycleContext, e domain.Event) {
	log := lc.EventLog()
	if log == nil {
		return
	}
	if err := log.Record(ctx, e); err != nil {
		s.logger.Warn("failed to record event", ports.Err(err))
	}
}

func openSerial(conf domain.SerialPortConf) (domain.Resource, error) {
	p, err := serial.Open(conf)
	if err != nil {
		return nil, err
	}
	return p, nil
}
