package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/linehost/internal/app"
	"github.com/bft-labs/linehost/internal/domain"
)

// LifecycleMetrics records startup and shutdown measurements.
// It implements app.Observer.
type LifecycleMetrics struct {
	State           prometheus.Gauge
	StageDuration   *prometheus.HistogramVec
	StartupFailures *prometheus.CounterVec
	TeardownSteps   *prometheus.CounterVec
	ShutdownTotal   *prometheus.CounterVec
	ShutdownSeconds prometheus.Histogram
}

// NewLifecycleMetrics creates and registers lifecycle metrics on the given registry.
func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	m := &LifecycleMetrics{
		State: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lifecycle_state",
			Help:      "Current lifecycle state (0=uninitialized, 1=starting, 2=running, 3=shutting down, 4=terminated, 5=failed).",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "startup",
			Name:      "stage_duration_seconds",
			Help:      "Startup stage duration in seconds, by stage and outcome.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"stage", "outcome"}),
		StartupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "startup",
			Name:      "failures_total",
			Help:      "Total aborted startups, by reason.",
		}, []string{"reason"}),
		TeardownSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shutdown",
			Name:      "steps_total",
			Help:      "Total teardown steps, by outcome (ok, error, timeout).",
		}, []string{"outcome"}),
		ShutdownTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shutdown",
			Name:      "total",
			Help:      "Total graceful phases, by outcome (complete, timeout).",
		}, []string{"outcome"}),
		ShutdownSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "shutdown",
			Name:      "duration_seconds",
			Help:      "Graceful shutdown phase duration in seconds.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 2, 4, 8},
		}),
	}

	reg.MustRegister(m.State, m.StageDuration, m.StartupFailures, m.TeardownSteps, m.ShutdownTotal, m.ShutdownSeconds)
	return m
}

// OnStateChange implements app.EventEmitter.
func (m *LifecycleMetrics) OnStateChange(_, current app.State, _ string) {
	m.State.Set(float64(current))
}

// OnStage implements app.Observer.
func (m *LifecycleMetrics) OnStage(stage string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.StageDuration.WithLabelValues(stage, outcome).Observe(d.Seconds())
}

// OnStartupFailed implements app.Observer.
func (m *LifecycleMetrics) OnStartupFailed(reason domain.Reason) {
	m.StartupFailures.WithLabelValues(reason.String()).Inc()
}

// OnTeardownStep implements app.Observer.
func (m *LifecycleMetrics) OnTeardownStep(step app.StepResult) {
	switch {
	case step.TimedOut:
		m.TeardownSteps.WithLabelValues("timeout").Inc()
	case step.Err != nil:
		m.TeardownSteps.WithLabelValues("error").Inc()
	default:
		m.TeardownSteps.WithLabelValues("ok").Inc()
	}
}

// OnShutdown implements app.Observer.
func (m *LifecycleMetrics) OnShutdown(report *app.ShutdownReport) {
	outcome := "complete"
	if report.TimedOut() {
		outcome = "timeout"
	}
	m.ShutdownTotal.WithLabelValues(outcome).Inc()
	m.ShutdownSeconds.Observe(report.Duration().Seconds())
}
