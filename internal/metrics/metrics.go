// Package metrics exposes Prometheus counters for compilations and executed actions.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clickflow"

// Metrics owns a private registry so several servers (and tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	compilations    *prometheus.CounterVec
	specErrors      *prometheus.CounterVec
	compileDuration prometheus.Histogram
	compiledActions prometheus.Counter
	executed        *prometheus.CounterVec
}

// New creates the collectors and registers them, plus the Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		compilations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compilations_total",
			Help:      "Plan compilations by result.",
		}, []string{"result"}),
		specErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spec_errors_total",
			Help:      "Document defects reported by kind.",
		}, []string{"kind"}),
		compileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Time spent compiling plans.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		compiledActions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compiled_actions_total",
			Help:      "Actions emitted by successful compilations.",
		}),
		executed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executed_actions_total",
			Help:      "Actions executed by the runner, by kind.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		m.compilations,
		m.specErrors,
		m.compileDuration,
		m.compiledActions,
		m.executed,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveCompile records one compilation.
func (m *Metrics) ObserveCompile(elapsed time.Duration, plan *domain.Plan, err error) {
	m.compileDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.compilations.WithLabelValues("error").Inc()
		var se *domain.SpecError
		if errors.As(err, &se) {
			m.specErrors.WithLabelValues(string(se.Kind)).Inc()
		}
		return
	}
	m.compilations.WithLabelValues("ok").Inc()
	if plan != nil {
		m.compiledActions.Add(float64(plan.ActionCount()))
	}
}

// RunnerObserver counts executed actions. Pass it to runner.WithObserver.
func (m *Metrics) RunnerObserver() func(flowID string, e runner.Executed) {
	return func(_ string, e runner.Executed) {
		m.executed.WithLabelValues(string(e.Action.Kind)).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
