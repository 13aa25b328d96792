package main

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// promMetrics implements circpack.MetricsCollector on a private prometheus
// registry that is dumped to a textfile when the run ends.
type promMetrics struct {
	reg *prometheus.Registry

	ralgoRuns  prometheus.Counter
	ralgoIters prometheus.Counter
	ralgoEvals prometheus.Counter
	ralgoTime  prometheus.Histogram
	steps      *prometheus.CounterVec
	rounds     *prometheus.CounterVec
	roundTime  prometheus.Histogram
}

func newPromMetrics() *promMetrics {
	m := &promMetrics{
		reg: prometheus.NewRegistry(),
		ralgoRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "circpack_ralgo_runs_total",
			Help: "Total r-algorithm runs",
		}),
		ralgoIters: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "circpack_ralgo_iterations_total",
			Help: "Total r-algorithm outer iterations",
		}),
		ralgoEvals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "circpack_penalty_evaluations_total",
			Help: "Total penalty function evaluations",
		}),
		ralgoTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "circpack_ralgo_duration_seconds",
			Help:    "Duration of single r-algorithm runs",
			Buckets: prometheus.ExponentialBuckets(1e-4, 4, 10),
		}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "circpack_dichotomy_steps_total",
			Help: "Step-size controller decisions",
		}, []string{"accepted"}),
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "circpack_search_rounds_total",
			Help: "Packing search rounds",
		}, []string{"feasible", "improved"}),
		roundTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "circpack_search_round_duration_seconds",
			Help:    "Duration of single packing search rounds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.reg.MustRegister(m.ralgoRuns)
	m.reg.MustRegister(m.ralgoIters)
	m.reg.MustRegister(m.ralgoEvals)
	m.reg.MustRegister(m.ralgoTime)
	m.reg.MustRegister(m.steps)
	m.reg.MustRegister(m.rounds)
	m.reg.MustRegister(m.roundTime)
	return m
}

func (m *promMetrics) RecordRalgo(iterations, evals int, d time.Duration) {
	m.ralgoRuns.Inc()
	m.ralgoIters.Add(float64(iterations))
	m.ralgoEvals.Add(float64(evals))
	m.ralgoTime.Observe(d.Seconds())
}

func (m *promMetrics) RecordStep(step float64, accepted bool) {
	m.steps.WithLabelValues(strconv.FormatBool(accepted)).Inc()
}

func (m *promMetrics) RecordRound(feasible, improved bool, d time.Duration) {
	m.rounds.WithLabelValues(strconv.FormatBool(feasible), strconv.FormatBool(improved)).Inc()
	m.roundTime.Observe(d.Seconds())
}

// Dump writes every metric in the text exposition format to path.
func (m *promMetrics) Dump(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
