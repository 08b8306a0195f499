package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/bft-labs/linehost/internal/domain"
	"github.com/bft-labs/linehost/internal/ports"
)

// Default shutdown bounds.
const (
	DefaultPortTimeout  = 2 * time.Second
	DefaultOuterBound   = 4 * time.Second
	DefaultGrace        = 5 * time.Second
	DefaultPollInterval = time.Millisecond
)

// ShutdownConfig bounds the shutdown sequence.
type ShutdownConfig struct {
	// PortTimeout bounds closing one serial port.
	PortTimeout time.Duration

	// OuterBound bounds the whole graceful phase.
	OuterBound time.Duration

	// Grace is added to OuterBound to form the hard kill deadline.
	Grace time.Duration

	// PollInterval is how often the watchdog checks the deadline.
	PollInterval time.Duration
}

// DefaultShutdownConfig returns the standard bounds.
func DefaultShutdownConfig() ShutdownConfig {
	return ShutdownConfig{
		PortTimeout:  DefaultPortTimeout,
		OuterBound:   DefaultOuterBound,
		Grace:        DefaultGrace,
		PollInterval: DefaultPollInterval,
	}
}

// Pool runs teardown work concurrently.
type Pool interface {
	// Go submits fn and returns a channel that receives its result once.
	Go(ctx context.Context, fn func(ctx context.Context) error) <-chan error
}

// ShutdownDeps are the collaborators used by shutdown.
type ShutdownDeps struct {
	Dispatcher ports.Dispatcher
	Pool       Pool

	// Terminator is called when the hard deadline passes. When nil the
	// watchdog is not armed.
	Terminator ports.Terminator

	Clock    clockwork.Clock
	Logger   ports.Logger
	Observer Observer
}

// Shutdown tears the application down once.
type Shutdown struct {
	cfg  ShutdownConfig
	deps ShutdownDeps

	once     sync.Once
	graceful chan struct{}

	armOnce   sync.Once
	deadline  time.Time
	watchOnce sync.Once

	killed   chan struct{}
	report   *ShutdownReport
}

// NewShutdown creates a shutdown orchestrator.
func NewShutdown(cfg ShutdownConfig, deps ShutdownDeps) *Shutdown {
	def := DefaultShutdownConfig()
	if cfg.PortTimeout <= 0 {
		cfg.PortTimeout = def.PortTimeout
	}
	if cfg.OuterBound <= 0 {
		cfg.OuterBound = def.OuterBound
	}
	if cfg.Grace <= 0 {
		cfg.Grace = def.Grace
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	if deps.Pool == nil {
		deps.Pool = goPool{}
	}
	return &Shutdown{
		cfg:      cfg,
		deps:     deps,
		graceful: make(chan struct{}),
		killed:   make(chan struct{}),
		report:   &ShutdownReport{},
	}
}

// Arm fixes the hard kill deadline and starts the watchdog without running
// any teardown. It is used when shutdown is requested before a lifecycle
// context exists. Begin arms implicitly; only the first call fixes the
// deadline.
func (s *Shutdown) Arm() {
	s.fixDeadline()
	s.startWatch()
}

// Begin starts the shutdown sequence once and returns a channel closed when
// the graceful phase has ended, either complete or cut off by OuterBound.
// Later calls return the same channel.
func (s *Shutdown) Begin(lc *LifecycleContext) <-chan struct{} {
	s.once.Do(func() {
		s.fixDeadline()
		start := s.deps.Clock.Now()
		s.report.begin(start)
		go s.run(lc, start)
	})
	return s.graceful
}

func (s *Shutdown) fixDeadline() {
	s.armOnce.Do(func() {
		s.deadline = s.deps.Clock.Now().Add(s.cfg.OuterBound + s.cfg.Grace)
	})
}

func (s *Shutdown) startWatch() {
	if s.deps.Terminator == nil {
		return
	}
	s.watchOnce.Do(func() {
		go s.watch(s.deadline)
	})
}

// Terminate runs the shutdown sequence and waits for the watchdog. With a
// real terminator installed it never returns.
func (s *Shutdown) Terminate(lc *LifecycleContext) {
	<-s.Begin(lc)
	<-s.killed
}

// Killed is closed after the watchdog has called the terminator.
func (s *Shutdown) Killed() <-chan struct{} {
	return s.killed
}

// Report returns the shutdown report. It fills in while the sequence runs.
func (s *Shutdown) Report() *ShutdownReport {
	return s.report
}

func (s *Shutdown) run(lc *LifecycleContext, start time.Time) {
	logger := s.deps.Logger
	logger.Info("shutdown started")

	if lc != nil && lc.Lifecycle != nil {
		if err := lc.Lifecycle.TransitionTo(StateShuttingDown, "shutdown"); err != nil {
			logger.Warn("lifecycle transition rejected", ports.Err(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.teardown(ctx, lc)
	}()

	timer := s.deps.Clock.NewTimer(s.cfg.OuterBound)
	select {
	case <-done:
	case <-timer.Chan():
		s.report.markTimedOut()
		logger.Warn("graceful shutdown exceeded its bound, proceeding",
			ports.Duration("bound", s.cfg.OuterBound),
		)
		cancel()
	}
	timer.Stop()

	s.report.finish(s.deps.Clock.Since(start))
	s.logReport()
	s.deps.Observer.OnShutdown(s.report)

	if lc != nil && lc.Lifecycle != nil {
		if err := lc.Lifecycle.TransitionTo(StateTerminated, "shutdown"); err != nil {
			logger.Warn("lifecycle transition rejected", ports.Err(err))
		}
	}
	close(s.graceful)
	s.startWatch()
}

// teardown performs the graceful steps. Every step runs regardless of the
// outcome of earlier ones.
func (s *Shutdown) teardown(ctx context.Context, lc *LifecycleContext) {
	if lc == nil {
		return
	}

	if lc.Signal != nil {
		s.step("cancel-signal", func() error {
			lc.Signal.Fire()
			return nil
		})
	}

	if lc.Config != nil {
		for _, e := range lc.Config.Databases.Values() {
			if e.Conn == nil {
				continue
			}
			conn := e.Conn
			s.step("database:"+e.Conf.Description+":close", conn.Close)
			s.step("database:"+e.Conf.Description+":dispose", conn.Dispose)
		}
		s.closeSerialPorts(ctx, lc.Config.SerialPorts.Values())
	}

	if log := lc.EventLog(); log != nil {
		s.step("record-exit", func() error {
			return log.Record(ctx, domain.Event{
				Title:  "Terminated by operator",
				Origin: "shutdown",
				State:  domain.StateReadyToExit,
			})
		})
	}

	if app := lc.Application(); app != nil && s.deps.Dispatcher != nil {
		s.step("application-shutdown", func() error {
			err := s.deps.Dispatcher.Invoke(ctx, func() { app.Shutdown(0) })
			if errors.Is(err, domain.ErrDispatcherStopped) {
				// The application already exited.
				return nil
			}
			return err
		})
	}
}

// closeSerialPorts closes every open port concurrently, each bounded by
// PortTimeout, and waits for all results.
func (s *Shutdown) closeSerialPorts(ctx context.Context, entries []*domain.SerialPortEntry) {
	type pending struct {
		name  string
		start time.Time
		res   <-chan error
	}
	var waits []pending
	for _, e := range entries {
		if e.Port == nil {
			continue
		}
		port := e.Port
		waits = append(waits, pending{
			name:  "serial:" + e.Conf.Description,
			start: s.deps.Clock.Now(),
			res: s.deps.Pool.Go(ctx, func(ctx context.Context) error {
				return runBounded(ctx, s.deps.Clock, s.cfg.PortTimeout, func() error {
					return closeAndDispose(port)
				})
			}),
		})
	}
	for _, w := range waits {
		var err error
		select {
		case err = <-w.res:
		case <-ctx.Done():
			err = ctx.Err()
		}
		s.record(StepResult{
			Name:     w.name,
			Err:      err,
			Duration: s.deps.Clock.Since(w.start),
			TimedOut: errors.Is(err, domain.ErrShutdownTimeout),
		})
	}
}

// closeAndDispose attempts both calls and joins their errors.
func closeAndDispose(r domain.Resource) error {
	return errors.Join(safeCall(r.Close), safeCall(r.Dispose))
}

// step runs fn with panic recovery and records its result.
func (s *Shutdown) step(name string, fn func() error) {
	start := s.deps.Clock.Now()
	err := safeCall(fn)
	s.record(StepResult{Name: name, Err: err, Duration: s.deps.Clock.Since(start)})
}

func (s *Shutdown) record(r StepResult) {
	s.report.add(r)
	s.deps.Observer.OnTeardownStep(r)
	if r.Err != nil {
		s.deps.Logger.Warn("teardown step failed",
			ports.String("step", r.Name),
			ports.Bool("timed_out", r.TimedOut),
			ports.Err(r.Err),
		)
	}
}

func (s *Shutdown) logReport() {
	s.deps.Logger.Info("shutdown graceful phase finished",
		ports.Int("steps", len(s.report.Steps())),
		ports.Int("failed", len(s.report.Failed())),
		ports.Bool("timed_out", s.report.TimedOut()),
		ports.Duration("duration", s.report.Duration()),
	)
}

// goPool runs each task on a fresh goroutine.
type goPool struct{}

func (goPool) Go(ctx context.Context, fn func(ctx context.Context) error) <-chan error {
	out := make(chan error, 1)
	go func() { out <- safeCall(func() error { return fn(ctx) }) }()
	return out
}
