package ralgo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rwcarlsen/circpack"
)

const (
	// InitialStep is the first (and, with ResetStep, the reset) initial step
	// handed to Minimize.
	InitialStep = 40.96
	// MinStep ends the dichotomy once the step drops below it.
	MinStep = 0.01
)

// Result is the outcome of a step-size dichotomy together with counters
// summed over every r-algorithm run it made.
type Result struct {
	RalgoCalls  int
	Iterations  int
	CalcfgCalls int
	Radius      float64
	Circles     []circpack.Circle
}

type Option func(*Controller)

// ResetStep makes every accepted improvement restart the dichotomy from
// InitialStep instead of continuing to shrink the step.
func ResetStep(reset bool) Option {
	return func(c *Controller) {
		c.ResetStep = reset
	}
}

// Eps sets the relative radius improvement a run must exceed to be
// accepted.
func Eps(eps float64) Option {
	return func(c *Controller) {
		c.Eps = eps
	}
}

// PenaltyEps sets the constraint slack of the penalty function.
func PenaltyEps(eps float64) Option {
	return func(c *Controller) {
		c.PenaltyEps = eps
	}
}

// Validate sets whether candidate arrangements must pass
// circpack.IsValidPack before they are accepted.
func Validate(validate bool) Option {
	return func(c *Controller) {
		c.Validate = validate
	}
}

// DB records every controller decision into the TblSteps table of db.
func DB(db *sql.DB) Option {
	return func(c *Controller) {
		c.Db = db
	}
}

func WithLogger(l *circpack.Logger) Option {
	return func(c *Controller) {
		c.Logger = l
	}
}

func WithMetrics(m circpack.MetricsCollector) Option {
	return func(c *Controller) {
		c.Metrics = m
	}
}

// Controller repeatedly runs the r-algorithm from the current best
// arrangement, halving the initial step every time a run fails to shrink
// the enclosing radius by more than Eps (relative).
type Controller struct {
	Params     Params
	ResetStep  bool
	Eps        float64
	PenaltyEps float64
	Validate   bool
	Db         *sql.DB
	Logger     *circpack.Logger
	Metrics    circpack.MetricsCollector

	// RunID identifies this controller's rows in the trace table.
	RunID string
}

func NewController(p Params, opts ...Option) *Controller {
	c := &Controller{
		Params:     p,
		PenaltyEps: DefaultPenaltyEps,
		Validate:   true,
		Logger:     circpack.NoopLogger(),
		Metrics:    circpack.NoopMetricsCollector{},
		RunID:      uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run refines the arrangement (R, circles).  Every circle must be placed.
// The returned radius is never larger than R.
func (c *Controller) Run(R float64, circles []circpack.Circle) (Result, error) {
	ctx := context.Background()
	if err := c.Params.Validate(); err != nil {
		return Result{}, err
	}
	x, err := circpack.ToVector(R, circles)
	if err != nil {
		return Result{}, err
	}
	if err := c.initdb(ctx); err != nil {
		return Result{}, err
	}

	radii := circpack.Radii(circles)
	obj := NewObjectiveCounter(NewPenalty(radii, c.PenaltyEps))
	log := c.Logger.WithRun(c.RunID).WithCircles(len(radii))

	res := Result{}
	step := InitialStep
	for step >= MinStep {
		start := time.Now()
		m := Minimize(obj, x, step, c.Params)
		c.Metrics.RecordRalgo(m.Iterations, m.Evals, time.Since(start))
		res.RalgoCalls++
		res.Iterations += m.Iterations

		curr, cand := last(x), last(m.X)
		accepted := (curr-cand)/curr > c.Eps
		if accepted && c.Validate {
			_, circs, _ := circpack.FromVector(m.X, radii)
			accepted = circpack.IsValidPack(cand, circs)
		}

		log.LogStep(ctx, step, curr, cand, accepted, m.Iterations, m.Evals)
		c.Metrics.RecordStep(step, accepted)
		if err := c.updateDb(ctx, res.RalgoCalls, step, curr, cand, accepted, m); err != nil {
			return Result{}, err
		}

		if accepted {
			x = m.X
			if c.ResetStep {
				step = InitialStep
			}
		} else {
			step /= 2
		}
	}

	res.CalcfgCalls = obj.Count
	res.Radius, res.Circles, err = circpack.FromVector(x, radii)
	return res, err
}

// Dichotomy refines (R, circles) with the step-size dichotomy and returns
// the resulting radius and arrangement.
func Dichotomy(R float64, circles []circpack.Circle, resetStep bool, eps float64, p Params) (float64, []circpack.Circle, error) {
	res, err := NewController(p, ResetStep(resetStep), Eps(eps)).Run(R, circles)
	if err != nil {
		return 0, nil, err
	}
	return res.Radius, res.Circles, nil
}

func last(x []float64) float64 { return x[len(x)-1] }
