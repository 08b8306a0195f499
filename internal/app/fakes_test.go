package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/linehost/internal/domain"
	"github.com/bft-labs/linehost/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// dialogCall records one dialog shown.
type dialogCall struct {
	blocking bool
	kind     ports.DialogKind
	title    string
	message  string
	severity ports.Severity
}

type mockDialog struct {
	mu    sync.Mutex
	calls []dialogCall
}

func (d *mockDialog) ShowError(_ context.Context, kind ports.DialogKind, message, title string, severity ports.Severity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, dialogCall{kind: kind, title: title, message: message, severity: severity})
	return nil
}

func (d *mockDialog) ShowBlocking(_ context.Context, title, body string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, dialogCall{blocking: true, title: title, message: body})
	return nil
}

func (d *mockDialog) Calls() []dialogCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dialogCall{}, d.calls...)
}

type mockSystem struct {
	running bool
	err     error
	checked string
}

func (s *mockSystem) IsAlreadyRunning(name string) (bool, error) {
	s.checked = name
	return s.running, s.err
}

func (s *mockSystem) OSInfo() string { return "TestOS 1.0 (amd64)" }

type mockLoader struct {
	settings *domain.Settings
	err      error
	calls    int
}

func (l *mockLoader) Load(context.Context) (*domain.Settings, error) {
	l.calls++
	return l.settings, l.err
}

// mockResource is a closable handle with configurable behavior.
type mockResource struct {
	mu         sync.Mutex
	closeErr   error
	disposeErr error
	panicOn    string
	block      chan struct{}
	closed     int
	disposed   int
	calls      []string
}

func (r *mockResource) Close() error {
	if r.block != nil {
		<-r.block
	}
	if r.panicOn == "close" {
		panic("close exploded")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
	r.calls = append(r.calls, "close")
	return r.closeErr
}

func (r *mockResource) Dispose() error {
	if r.panicOn == "dispose" {
		panic("dispose exploded")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disposed++
	r.calls = append(r.calls, "dispose")
	return r.disposeErr
}

// Calls returns the close and dispose calls in the order they happened.
func (r *mockResource) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.calls...)
}

func (r *mockResource) Counts() (closed, disposed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed, r.disposed
}

type mockProvider struct {
	provisioned []string
}

func (p *mockProvider) Provision(conn string) domain.Resource {
	p.provisioned = append(p.provisioned, conn)
	return &mockResource{}
}

type mockTimer struct {
	interval time.Duration
	priority ports.Priority
	fn       func()
	running  bool
}

func (t *mockTimer) Start()        { t.running = true }
func (t *mockTimer) Stop()         { t.running = false }
func (t *mockTimer) Running() bool { return t.running }

// mockDispatcher runs work inline on the calling goroutine.
type mockDispatcher struct {
	mu      sync.Mutex
	stopped bool
	block   chan struct{}
	invokes int
	timers  []*mockTimer
}

func (d *mockDispatcher) Invoke(ctx context.Context, fn func()) error {
	d.mu.Lock()
	d.invokes++
	stopped, block := d.stopped, d.block
	d.mu.Unlock()

	if stopped {
		return domain.ErrDispatcherStopped
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	fn()
	return nil
}

func (d *mockDispatcher) NewTimer(interval time.Duration, priority ports.Priority, fn func()) ports.Timer {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := &mockTimer{interval: interval, priority: priority, fn: fn}
	d.timers = append(d.timers, t)
	return t
}

type mockApp struct {
	mu       sync.Mutex
	codes    []int
	handlers []func(int) int
}

func (a *mockApp) Shutdown(code int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.codes = append(a.codes, code)
}

func (a *mockApp) OnExit(fn func(int) int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handlers = append(a.handlers, fn)
}

func (a *mockApp) ShutdownCodes() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]int{}, a.codes...)
}

// exit raises the exit event the way the dispatch loop does.
func (a *mockApp) exit(code int) int {
	a.mu.Lock()
	handlers := append([]func(int) int{}, a.handlers...)
	a.mu.Unlock()
	for _, h := range handlers {
		code = h(code)
	}
	return code
}

type mockEntries struct {
	mu     sync.Mutex
	events []domain.Event
}

func (e *mockEntries) Append(ev domain.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

func (e *mockEntries) Snapshot() []domain.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Event{}, e.events...)
}

func (e *mockEntries) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

type mockEventLog struct {
	entries *mockEntries
	err     error
}

func (l *mockEventLog) Record(_ context.Context, e domain.Event) error {
	if l.err != nil {
		return l.err
	}
	l.entries.Append(e)
	return nil
}

func (l *mockEventLog) Entries() ports.EntryStore {
	if l.entries == nil {
		return nil
	}
	return l.entries
}

type mockViewModel struct {
	mu    sync.Mutex
	title string
	log   ports.EventLog
}

func (v *mockViewModel) Title() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.title
}

func (v *mockViewModel) SetTitle(t string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.title = t
}

func (v *mockViewModel) EventLog() ports.EventLog { return v.log }

func newViewModel() (*mockViewModel, *mockEntries) {
	entries := &mockEntries{}
	return &mockViewModel{log: &mockEventLog{entries: entries}}, entries
}

func titles(events []domain.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Title)
	}
	return out
}

type mockWindow struct {
	bound      ports.ViewModel
	configured *domain.Settings
	err        error
}

func (w *mockWindow) Bind(vm ports.ViewModel) { w.bound = vm }

func (w *mockWindow) Configure(_ context.Context, s *domain.Settings) error {
	w.configured = s
	return w.err
}

type mockHost struct {
	validate    bool
	postInitErr error
	postInit    int
	postInitCtx context.Context
	ticks       int
}

func (h *mockHost) ArgumentValidation() bool { return h.validate }

func (h *mockHost) PostInit(ctx context.Context, _ *LifecycleContext) error {
	h.postInit++
	h.postInitCtx = ctx
	return h.postInitErr
}

func (h *mockHost) Tick(*LifecycleContext) { h.ticks++ }

type mockTerminator struct {
	mu     sync.Mutex
	killed int
}

func (t *mockTerminator) Kill() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.killed++
}

func (t *mockTerminator) Killed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.killed
}

// mockObserver counts observer callbacks.
type mockObserver struct {
	mu       sync.Mutex
	stages   []string
	failures []domain.Reason
	steps    []StepResult
	reports  int
}

func (o *mockObserver) OnStateChange(State, State, string) {}

func (o *mockObserver) OnStage(stage string, _ time.Duration, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stages = append(o.stages, stage)
}

func (o *mockObserver) OnStartupFailed(r domain.Reason) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, r)
}

func (o *mockObserver) OnTeardownStep(s StepResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.steps = append(o.steps, s)
}

func (o *mockObserver) OnShutdown(*ShutdownReport) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reports++
}

var errBoom = errors.New("boom")
