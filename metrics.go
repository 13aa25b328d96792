package circpack

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives counters from the packer and the optimizer.
// Implement it to forward them to a monitoring system.
type MetricsCollector interface {
	// RecordRalgo is called after each r-algorithm run with the number of
	// outer iterations and objective evaluations it used.
	RecordRalgo(iterations, evals int, duration time.Duration)

	// RecordStep is called for each step-size controller decision.
	RecordStep(step float64, accepted bool)

	// RecordRound is called after each bisection round of the packing
	// search.
	RecordRound(feasible, improved bool, duration time.Duration)
}

type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRalgo(int, int, time.Duration)   {}
func (NoopMetricsCollector) RecordStep(float64, bool)              {}
func (NoopMetricsCollector) RecordRound(bool, bool, time.Duration) {}

// BasicMetricsCollector keeps in-memory totals.  It is safe for concurrent
// use.
type BasicMetricsCollector struct {
	RalgoCalls      atomic.Int64
	RalgoIterations atomic.Int64
	RalgoEvals      atomic.Int64
	RalgoNanos      atomic.Int64
	StepsAccepted   atomic.Int64
	StepsRejected   atomic.Int64
	Rounds          atomic.Int64
	RoundsFeasible  atomic.Int64
	RoundsImproved  atomic.Int64
	RoundNanos      atomic.Int64
}

func (m *BasicMetricsCollector) RecordRalgo(iterations, evals int, d time.Duration) {
	m.RalgoCalls.Add(1)
	m.RalgoIterations.Add(int64(iterations))
	m.RalgoEvals.Add(int64(evals))
	m.RalgoNanos.Add(d.Nanoseconds())
}

func (m *BasicMetricsCollector) RecordStep(step float64, accepted bool) {
	if accepted {
		m.StepsAccepted.Add(1)
	} else {
		m.StepsRejected.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordRound(feasible, improved bool, d time.Duration) {
	m.Rounds.Add(1)
	if feasible {
		m.RoundsFeasible.Add(1)
	}
	if improved {
		m.RoundsImproved.Add(1)
	}
	m.RoundNanos.Add(d.Nanoseconds())
}
