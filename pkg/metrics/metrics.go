// Package metrics instruments the Solver Driver with a prometheus registry,
// grounded in the teacher's MetricsService: a solve-duration histogram, a
// solve-status counter, and an objective-value gauge. The engine has no HTTP
// surface of its own, but a host process can scrape Registry().
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder wraps the collectors a solve pass reports into.
type Recorder struct {
	registry       *prometheus.Registry
	solveDuration  *prometheus.HistogramVec
	solveStatus    *prometheus.CounterVec
	objectiveValue prometheus.Gauge
}

// New builds a Recorder on a fresh registry.
func New() *Recorder {
	registry := prometheus.NewRegistry()

	solveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_solve_duration_seconds",
		Help:    "Duration of MILP solve calls in seconds, labeled by terminal status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	solveStatus := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_solve_status_total",
		Help: "Count of solve calls by terminal status.",
	}, []string{"status"})

	objectiveValue := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_objective_value",
		Help: "Objective value of the most recently solved timetable.",
	})

	registry.MustRegister(solveDuration, solveStatus, objectiveValue)

	return &Recorder{
		registry:       registry,
		solveDuration:  solveDuration,
		solveStatus:    solveStatus,
		objectiveValue: objectiveValue,
	}
}

// ObserveSolve records one solve call's terminal status and wall-clock time.
func (r *Recorder) ObserveSolve(status string, d time.Duration) {
	r.solveDuration.WithLabelValues(status).Observe(d.Seconds())
	r.solveStatus.WithLabelValues(status).Inc()
}

// ObserveObjective records the objective value of the most recent solve.
func (r *Recorder) ObserveObjective(value float64) {
	r.objectiveValue.Set(value)
}

// Registry exposes the underlying registry so a host process can serve it
// over /metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
