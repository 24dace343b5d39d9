package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/stackcalc/internal/runtime"
	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// numberLabel replaces literal values in the command label to bound its cardinality.
const numberLabel = "<number>"

// Metrics holds the calculator's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	events     *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	stackDepth prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on a private registry,
// together with the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stackcalc_command_events_total",
				Help: "Commands executed, undone and redone.",
			},
			[]string{"command", "event"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stackcalc_command_failures_total",
				Help: "Commands that failed to execute, undo or redo.",
			},
			[]string{"command"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stackcalc_command_duration_seconds",
				Help:    "Time spent applying a command.",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"event"},
		),
		stackDepth: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stackcalc_stack_depth",
				Help:    "Operand stack size after each successful command.",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
			},
		),
	}

	m.registry.MustRegister(
		m.events,
		m.failures,
		m.duration,
		m.stackDepth,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, e.g. to gather in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record every event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	record := func(_ context.Context, e *domain.CommandEvent) {
		m.events.WithLabelValues(commandLabel(e.Command), string(e.Type)).Inc()
		m.duration.WithLabelValues(string(e.Type)).Observe(e.Duration.Seconds())
		m.stackDepth.Observe(float64(e.StackSize))
	}
	return domain.LifecycleHooks{
		OnExecute: record,
		OnUndo:    record,
		OnRedo:    record,
		OnFailure: func(_ context.Context, e *domain.CommandEvent) {
			m.failures.WithLabelValues(commandLabel(e.Command)).Inc()
		},
	}
}

func commandLabel(name string) string {
	if runtime.IsNumber(name) {
		return numberLabel
	}
	return name
}
