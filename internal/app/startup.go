package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bft-labs/linehost/internal/cliconfig"
	"github.com/bft-labs/linehost/internal/domain"
	"github.com/bft-labs/linehost/internal/ports"
)

// DefaultTimerInterval is the production timer interval used when none is configured.
const DefaultTimerInterval = time.Second

// Host is the application-specific part of the lifecycle.
type Host interface {
	// ArgumentValidation reports whether invalid startup arguments abort startup.
	ArgumentValidation() bool

	// PostInit runs once every startup stage has succeeded. ctx is cancelled
	// when shutdown begins.
	PostInit(ctx context.Context, lc *LifecycleContext) error

	// Tick is the production timer callback. It runs on the dispatch goroutine.
	Tick(lc *LifecycleContext)
}

// Runner executes work off the calling goroutine.
type Runner interface {
	// Do runs fn and waits for it or for ctx to end.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Request is the input to Startup.Initialize.
type Request struct {
	Host Host

	// ViewModel is used when the resource factory does not set one.
	ViewModel ports.ViewModel

	// Args are the raw startup arguments.
	Args []string

	NewResources ResourceFactory
	NewConfig    ConfigFactory
	NewWindow    WindowFactory
}

// StartupDeps are the collaborators used by startup.
type StartupDeps struct {
	Loader     ports.ConfigLoader
	Databases  ports.DatabaseProvider
	Dialog     ports.Dialog
	System     ports.SystemInfo
	Dispatcher ports.Dispatcher
	Runner     Runner
	Logger     ports.Logger

	// Observer defaults to a no-op.
	Observer Observer

	// Tracer defaults to the global tracer provider.
	Tracer trace.Tracer

	// Getwd resolves application-relative paths. Defaults to os.Getwd.
	Getwd func() (string, error)

	TimerInterval time.Duration
}

// Startup runs the ordered initialization stages.
type Startup struct {
	deps     StartupDeps
	reporter *Reporter
	validate *validator.Validate
}

// stage is one initialization step. A non-nil error aborts startup and
// must be an *domain.InitFailure.
type stage struct {
	name string
	run  func(ctx context.Context, lc *LifecycleContext, req *Request) error
}

// NewStartup creates a startup orchestrator.
func NewStartup(deps StartupDeps) *Startup {
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	if deps.Tracer == nil {
		deps.Tracer = otel.Tracer("github.com/bft-labs/linehost/internal/app")
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	if deps.Runner == nil {
		deps.Runner = goRunner{}
	}
	if deps.TimerInterval <= 0 {
		deps.TimerInterval = DefaultTimerInterval
	}
	return &Startup{
		deps:     deps,
		reporter: NewReporter(deps.Dialog, deps.Logger),
		validate: validator.New(),
	}
}

func (s *Startup) stages() []stage {
	return []stage{
		{"construct", s.construct},
		{"validate", s.validateRequired},
		{"single-instance", s.singleInstance},
		{"runtime-version", s.runtimeVersion},
		{"load-settings", s.loadSettings},
		{"registries", s.buildRegistries},
		{"merge-arguments", s.mergeArguments},
		{"database-required", s.requireDatabase},
		{"image-folder", s.resolveImageFolder},
		{"validate-arguments", s.validateArguments},
		{"main-window", s.mainWindow},
		{"ready", s.ready},
	}
}

// Initialize runs every stage in order and stops at the first failure.
// The returned context is never nil, so a failed startup can still be
// torn down. The error, when non-nil, is always an *domain.InitFailure.
func (s *Startup) Initialize(ctx context.Context, req Request) (*LifecycleContext, error) {
	lc := &LifecycleContext{
		ID:        uuid.New(),
		Lifecycle: NewLifecycle(s.deps.Logger, s.deps.Observer),
	}
	_ = lc.Lifecycle.TransitionTo(StateStarting, "startup")

	ctx, span := s.deps.Tracer.Start(ctx, "startup",
		trace.WithAttributes(attribute.String("run_id", lc.ID.String())))
	defer span.End()

	s.deps.Logger.Info("starting application", ports.String("run_id", lc.ID.String()))

	for _, st := range s.stages() {
		if err := s.runStage(ctx, st, lc, &req); err != nil {
			span.SetStatus(codes.Error, st.name)
			return lc, s.abort(ctx, lc, st.name, err)
		}
	}
	return lc, nil
}

func (s *Startup) runStage(ctx context.Context, st stage, lc *LifecycleContext, req *Request) error {
	ctx, span := s.deps.Tracer.Start(ctx, "startup."+st.name)
	defer span.End()

	start := time.Now()
	err := st.run(ctx, lc, req)
	d := time.Since(start)

	s.deps.Observer.OnStage(st.name, d, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	s.deps.Logger.Debug("startup stage complete",
		ports.String("stage", st.name),
		ports.Duration("duration", d),
	)
	return nil
}

// abort reports the failure, marks startup failed and asks the application
// to shut down when one is known.
func (s *Startup) abort(ctx context.Context, lc *LifecycleContext, stageName string, err error) error {
	f, ok := domain.AsInitFailure(err)
	if !ok {
		f = &domain.InitFailure{Reason: domain.ReasonPostInit, Stage: stageName, Message: err.Error(), Err: err}
	}
	if f.Stage == "" {
		f.Stage = stageName
	}

	// Dialogs must still be shown when the caller gave up waiting.
	ctx = context.WithoutCancel(ctx)

	s.deps.Logger.Error("startup aborted",
		ports.String("stage", f.Stage),
		ports.String("reason", f.Reason.String()),
		ports.String("field", f.Field),
		ports.Err(f),
	)

	kind, title := reportKind(f.Reason)
	s.reporter.Report(ctx, kind, s.errorContext(lc, f.Message, title))

	s.deps.Observer.OnStartupFailed(f.Reason)
	if terr := lc.Lifecycle.TransitionTo(StateFailed, f.Reason.String()); terr != nil {
		s.deps.Logger.Warn("lifecycle transition rejected", ports.Err(terr))
	}

	if app := lc.Application(); app != nil {
		if ierr := s.deps.Dispatcher.Invoke(ctx, func() { app.Shutdown(0) }); ierr != nil {
			s.deps.Logger.Error("failed to request application shutdown", ports.Err(ierr))
		}
	}
	return f
}

func reportKind(r domain.Reason) (Kind, string) {
	switch r {
	case domain.ReasonValidation:
		return KindRegistration, ""
	case domain.ReasonAlreadyRunning:
		return KindConfiguration, titleAlreadyRunning
	case domain.ReasonConfigLoad:
		return KindConfigRead, ""
	case domain.ReasonArgumentInvalid:
		return KindArguments, ""
	default:
		return KindConfiguration, ""
	}
}

func (s *Startup) errorContext(lc *LifecycleContext, condition, title string) ErrorContext {
	ec := ErrorContext{Condition: condition, Title: title}
	if s.deps.System != nil {
		ec.OSInfo = s.deps.System.OSInfo()
	}
	if lc.Resources != nil {
		ec.AppName = lc.Resources.AppType
		ec.AppVersion = lc.Resources.AppVersion
	}
	if lc.Config != nil {
		ec.Settings = lc.Config.Settings
	}
	return ec
}

func fail(reason domain.Reason, message string, err error) error {
	return &domain.InitFailure{Reason: reason, Message: message, Err: err}
}

func (s *Startup) construct(_ context.Context, lc *LifecycleContext, req *Request) error {
	lc.Signal = NewSignal(context.Background())

	// A panicking factory leaves its value nil; validation reports it.
	if req.NewResources != nil {
		_ = safeCall(func() error {
			lc.Resources = req.NewResources()
			return nil
		})
	}
	if lc.Resources != nil && lc.Resources.ViewModel == nil {
		lc.Resources.ViewModel = req.ViewModel
	}
	if req.NewConfig != nil {
		_ = safeCall(func() error {
			lc.Config = req.NewConfig()
			return nil
		})
	}
	return nil
}

func (s *Startup) validateRequired(_ context.Context, lc *LifecycleContext, _ *Request) error {
	if field := firstMissing(lc); field != "" {
		return &domain.InitFailure{
			Reason:  domain.ReasonValidation,
			Field:   field,
			Message: field + " is nil",
		}
	}
	registerExitHandler(lc, s.deps.Logger)
	return nil
}

func (s *Startup) singleInstance(ctx context.Context, lc *LifecycleContext, _ *Request) error {
	name := lc.Resources.AppType
	running, err := onRunner(ctx, s.deps.Runner, func(context.Context) (bool, error) {
		return s.deps.System.IsAlreadyRunning(name)
	})
	if err != nil {
		s.deps.Logger.Warn("single-instance check failed, continuing",
			ports.String("process", name),
			ports.Err(err),
		)
		return nil
	}
	if running {
		return fail(domain.ReasonAlreadyRunning, "Application is already running", nil)
	}
	return nil
}

func (s *Startup) runtimeVersion(_ context.Context, lc *LifecycleContext, _ *Request) error {
	err := safeCall(func() error {
		lc.Resources.RuntimeVersion = runtime.Version()
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return errors.New("build info unavailable")
		}
		if lc.Resources.AppVersion == "" && info.Main.Version != "" {
			lc.Resources.AppVersion = info.Main.Version
		}
		return nil
	})
	if err != nil {
		s.deps.Logger.Warn("runtime version not recorded", ports.Err(err))
	}
	return nil
}

func (s *Startup) loadSettings(ctx context.Context, lc *LifecycleContext, _ *Request) error {
	settings, err := onRunner(ctx, s.deps.Runner, s.deps.Loader.Load)
	if err != nil {
		return fail(domain.ReasonConfigLoad, err.Error(), err)
	}
	if settings == nil {
		return fail(domain.ReasonConfigLoad, "settings are empty", nil)
	}
	lc.Config.Settings = settings
	return nil
}

func (s *Startup) buildRegistries(_ context.Context, lc *LifecycleContext, _ *Request) error {
	settings := lc.Config.Settings

	serial := NewRegistry[*domain.SerialPortEntry]()
	confs := settings.SerialPorts
	if len(confs) == 0 {
		confs = []domain.SerialPortConf{domain.DefaultSerialPortConf()}
	}
	for _, c := range confs {
		if !serial.Add(c.Description, &domain.SerialPortEntry{Conf: c}) {
			s.deps.Logger.Warn("duplicate serial port description, keeping the first",
				ports.String("description", c.Description),
				ports.String("port", c.PortName),
			)
		}
	}

	dbs := NewRegistry[*domain.DatabaseEntry]()
	for _, c := range settings.Databases {
		if _, dup := dbs.Get(c.Description); dup {
			s.deps.Logger.Warn("duplicate database description, keeping the first",
				ports.String("description", c.Description),
			)
			continue
		}
		dbs.Add(c.Description, &domain.DatabaseEntry{
			Conf: c,
			Conn: s.deps.Databases.Provision(c.ConnectionString),
		})
	}

	lc.Config.SerialPorts = serial
	lc.Config.Databases = dbs
	return nil
}

func (s *Startup) mergeArguments(_ context.Context, lc *LifecycleContext, req *Request) error {
	args := cliconfig.ParseArguments(req.Args)
	cliconfig.MergeArguments(lc.Config.Settings, args)
	for _, e := range lc.Config.SerialPorts.Values() {
		cliconfig.ApplySerialArguments(&e.Conf, args)
	}
	return nil
}

func (s *Startup) requireDatabase(_ context.Context, lc *LifecycleContext, _ *Request) error {
	if lc.Config.Databases.Len() == 0 {
		return fail(domain.ReasonNoDatabase, "ConnectionString is not set", nil)
	}
	return nil
}

func (s *Startup) resolveImageFolder(_ context.Context, lc *LifecycleContext, _ *Request) error {
	folder := &lc.Config.Settings.ImageFolder
	resolved := folder.FolderLocation
	if folder.UseAppLocation {
		wd, err := s.deps.Getwd()
		if err != nil {
			s.deps.Logger.Warn("working directory unavailable, using image folder as configured",
				ports.String("folder", resolved),
				ports.Err(err),
			)
		} else {
			resolved = filepath.Join(wd, folder.FolderLocation)
		}
	}
	folder.FolderLocation = resolved
	lc.Config.ImageFolder = resolved
	return nil
}

// argumentCheck is the shape startup arguments must satisfy after merging.
type argumentCheck struct {
	Line     string `validate:"required"`
	Position int    `validate:"gt=0"`
}

func (s *Startup) validateArguments(ctx context.Context, lc *LifecycleContext, req *Request) error {
	settings := lc.Config.Settings
	err := s.validate.Struct(argumentCheck{Line: settings.Line, Position: settings.Position})
	if err == nil {
		return nil
	}
	condition := describeValidation(err)
	if req.Host.ArgumentValidation() {
		return fail(domain.ReasonArgumentInvalid, condition, err)
	}
	s.reporter.Report(ctx, KindArgumentNotice, s.errorContext(lc, condition, ""))
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func (s *Startup) mainWindow(ctx context.Context, lc *LifecycleContext, req *Request) error {
	if req.NewWindow == nil {
		return fail(domain.ReasonWindow, "no main window", nil)
	}
	settings := lc.Config.Settings
	err := invoke(ctx, s.deps.Dispatcher, func() error {
		w, err := req.NewWindow()
		if err != nil {
			return err
		}
		w.Bind(lc.Resources.ViewModel)
		lc.Resources.Window = w
		lc.Resources.Timer = s.deps.Dispatcher.NewTimer(s.deps.TimerInterval, lc.Config.Priority, func() {
			req.Host.Tick(lc)
		})
		return w.Configure(ctx, settings)
	})
	if err != nil {
		return fail(domain.ReasonWindow, "main window setup failed: "+err.Error(), err)
	}
	return nil
}

func (s *Startup) ready(ctx context.Context, lc *LifecycleContext, req *Request) error {
	if err := lc.EventLog().Record(ctx, domain.Event{
		Title:  "Startup complete",
		Origin: "startup",
		State:  domain.StateDone,
	}); err != nil {
		s.deps.Logger.Warn("failed to record startup event", ports.Err(err))
	}

	if err := safeCall(func() error { return req.Host.PostInit(lc.Signal.Context(), lc) }); err != nil {
		return fail(domain.ReasonPostInit, "post-initialization failed: "+err.Error(), err)
	}

	if err := lc.Lifecycle.TransitionTo(StateRunning, "startup complete"); err != nil {
		// Shutdown began while post-init ran.
		s.deps.Logger.Warn("startup finished after shutdown began", ports.Err(err))
	}
	s.deps.Logger.Info("application running",
		ports.String("run_id", lc.ID.String()),
		ports.String("runtime", lc.Resources.RuntimeVersion),
	)
	return nil
}

// onRunner runs fn on r and returns its value. The value is only read
// when fn has finished.
func onRunner[T any](ctx context.Context, r Runner, fn func(context.Context) (T, error)) (T, error) {
	out := make(chan T, 1)
	err := r.Do(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		out <- v
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return <-out, nil
}

// invoke runs fn on the dispatch goroutine and returns its error.
func invoke(ctx context.Context, d ports.Dispatcher, fn func() error) error {
	out := make(chan error, 1)
	if err := d.Invoke(ctx, func() { out <- safeCall(fn) }); err != nil {
		return err
	}
	return <-out
}

// goRunner runs work on a fresh goroutine.
type goRunner struct{}

func (goRunner) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	done := make(chan error, 1)
	go func() { done <- safeCall(func() error { return fn(ctx) }) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
