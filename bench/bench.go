// Package bench provides tools for testing the packer and the optimizer
// against packing instances with known (or best known) enclosing radii.
package bench

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/rwcarlsen/circpack"
	"github.com/rwcarlsen/circpack/pack"
	"github.com/rwcarlsen/circpack/pop"
	"github.com/rwcarlsen/circpack/ralgo"
)

var (
	ErrFormat    = errors.New("bench: malformed input")
	ErrNoPacking = errors.New("bench: heuristic found no valid packing")
)

// Instance is a set of radii with the smallest enclosing radius known for
// it.  Best is zero when no reference value is known.
type Instance struct {
	Name  string
	Radii []float64
	Best  float64
}

var (
	Single     = Instance{Name: "Single", Radii: []float64{1}, Best: 1}
	TwoEqual   = Instance{Name: "TwoEqual", Radii: []float64{1, 1}, Best: 2}
	ThreeEqual = Instance{Name: "ThreeEqual", Radii: []float64{1, 1, 1}, Best: 1 + 2/math.Sqrt(3)}
	FourEqual  = Instance{Name: "FourEqual", Radii: []float64{1, 1, 1, 1}, Best: 1 + math.Sqrt2}
	SevenEqual = Instance{Name: "SevenEqual", Radii: []float64{1, 1, 1, 1, 1, 1, 1}, Best: 3}
	OneToFive  = Instance{Name: "OneToFive", Radii: []float64{1, 2, 3, 4, 5}, Best: 9.0014}
)

var AllInstances = []Instance{
	Single,
	TwoEqual,
	ThreeEqual,
	FourEqual,
	SevenEqual,
	OneToFive,
}

// ReadRadii parses a radius list: the number of circles n on the first
// line followed by n lines holding one radius each.
func ReadRadii(r io.Reader) ([]float64, error) {
	lines, err := fields(r)
	if err != nil {
		return nil, err
	} else if len(lines) == 0 {
		return nil, fmt.Errorf("empty radius list: %w", ErrFormat)
	}

	n, err := strconv.Atoi(lines[0][0])
	if err != nil || n < 0 {
		return nil, fmt.Errorf("bad circle count %q: %w", lines[0][0], ErrFormat)
	} else if len(lines)-1 != n {
		return nil, fmt.Errorf("got %v radii, want %v: %w", len(lines)-1, n, ErrFormat)
	}

	radii := make([]float64, n)
	for i, line := range lines[1:] {
		if radii[i], err = strconv.ParseFloat(line[0], 64); err != nil {
			return nil, fmt.Errorf("radius %v: %v: %w", i, err, ErrFormat)
		}
	}
	if err := circpack.CheckRadii(radii); err != nil {
		return nil, err
	}
	return radii, nil
}

// ReadAnswer parses a reference radius from the first line of r.
func ReadAnswer(r io.Reader) (float64, error) {
	lines, err := fields(r)
	if err != nil {
		return 0, err
	} else if len(lines) == 0 {
		return 0, fmt.Errorf("empty answer: %w", ErrFormat)
	}

	R, err := strconv.ParseFloat(lines[0][0], 64)
	if err != nil || !(R > 0) {
		return 0, fmt.Errorf("bad reference radius %q: %w", lines[0][0], ErrFormat)
	}
	return R, nil
}

// ReadPacking parses a published packing: the enclosing radius on the first
// line followed by one "radius x y" line per circle, with the center
// coordinates given as fractions of the enclosing radius.
func ReadPacking(r io.Reader) (float64, []circpack.Circle, error) {
	lines, err := fields(r)
	if err != nil {
		return 0, nil, err
	} else if len(lines) == 0 {
		return 0, nil, fmt.Errorf("empty packing: %w", ErrFormat)
	}

	R, err := strconv.ParseFloat(lines[0][0], 64)
	if err != nil {
		return 0, nil, fmt.Errorf("bad enclosing radius %q: %w", lines[0][0], ErrFormat)
	}

	circles := make([]circpack.Circle, 0, len(lines)-1)
	for i, line := range lines[1:] {
		if len(line) != 3 {
			return 0, nil, fmt.Errorf("circle %v: want 3 fields, got %v: %w", i, len(line), ErrFormat)
		}
		var v [3]float64
		for j, s := range line {
			if v[j], err = strconv.ParseFloat(s, 64); err != nil {
				return 0, nil, fmt.Errorf("circle %v: %v: %w", i, err, ErrFormat)
			}
		}
		circles = append(circles, circpack.At(v[0], circpack.Point{X: v[1] * R, Y: v[2] * R}))
	}
	return R, circles, nil
}

// fields returns the whitespace separated fields of every non-blank line.
func fields(r io.Reader) ([][]string, error) {
	var lines [][]string
	s := bufio.NewScanner(r)
	for s.Scan() {
		if f := strings.Fields(s.Text()); len(f) > 0 {
			lines = append(lines, f)
		}
	}
	return lines, s.Err()
}

// Points scores answer against the reference radius: 100 for matching it,
// more for beating it, and nothing for answers twice as large or worse.
func Points(answer, reference float64) float64 {
	return math.Round(math.Max(0, (2-answer/reference)*100))
}

// Variant selects how the step-size controller is run.
type Variant struct {
	ResetStep bool    `yaml:"reset_step" mapstructure:"reset_step"`
	Eps       float64 `yaml:"eps" mapstructure:"eps"`
}

func (v Variant) String() string {
	mode := "B"
	if v.ResetStep {
		mode = "P"
	}
	return fmt.Sprintf("%v EPS=%v", mode, v.Eps)
}

var DefaultVariants = []Variant{
	{ResetStep: false, Eps: 0},
	{ResetStep: true, Eps: 0},
	{ResetStep: false, Eps: 1e-3},
	{ResetStep: true, Eps: 1e-3},
}

// Outcome is the result of one method on one instance.
type Outcome struct {
	Method      string        `yaml:"method"`
	Radius      float64       `yaml:"radius"`
	Points      float64       `yaml:"points"`
	Valid       bool          `yaml:"valid"`
	RalgoCalls  int           `yaml:"ralgo_calls,omitempty"`
	Iterations  int           `yaml:"iterations,omitempty"`
	CalcfgCalls int           `yaml:"calcfg_calls,omitempty"`
	Duration    time.Duration `yaml:"duration"`
	Circles     []Placement   `yaml:"circles,omitempty"`
}

// Placement is a circle in a form fit for reports.
type Placement struct {
	R float64 `yaml:"r"`
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func placements(circles []circpack.Circle) []Placement {
	ps := make([]Placement, 0, len(circles))
	for _, c := range circles {
		if p, ok := c.Center(); ok {
			ps = append(ps, Placement{R: c.Radius, X: p.X, Y: p.Y})
		}
	}
	return ps
}

func newOutcome(method string, R float64, circles []circpack.Circle, reference float64, d time.Duration) Outcome {
	o := Outcome{
		Method:   method,
		Radius:   R,
		Valid:    circpack.IsValidPack(R, circles),
		Duration: d,
		Circles:  placements(circles),
	}
	if reference > 0 && !math.IsInf(R, 1) {
		o.Points = Points(R, reference)
	}
	return o
}

// Report collects every outcome for one instance.
type Report struct {
	Instance  string    `yaml:"instance"`
	Best      float64   `yaml:"best,omitempty"`
	Heuristic Outcome   `yaml:"heuristic"`
	Variants  []Outcome `yaml:"variants"`
	Random    *Outcome  `yaml:"random,omitempty"`
}

// Heuristic runs the packing search on a copy of inst.Radii.
func Heuristic(inst Instance, rounds int, opts ...pack.Option) (Outcome, []circpack.Circle, error) {
	radii := append([]float64{}, inst.Radii...)
	start := time.Now()
	p, err := pack.NewSearcher(rounds, opts...).Run(radii)
	if err != nil {
		return Outcome{}, nil, err
	}
	return newOutcome("heuristic", p.Radius, p.Circles, inst.Best, time.Since(start)), p.Circles, nil
}

// Refine runs the step-size controller in the given variant from the
// arrangement (R, circles).
func Refine(inst Instance, R float64, circles []circpack.Circle, v Variant, p ralgo.Params, opts ...ralgo.Option) (Outcome, error) {
	opts = append(opts[:len(opts):len(opts)], ralgo.ResetStep(v.ResetStep), ralgo.Eps(v.Eps))
	start := time.Now()
	res, err := ralgo.NewController(p, opts...).Run(R, circles)
	if err != nil {
		return Outcome{}, err
	}

	o := newOutcome(v.String(), res.Radius, res.Circles, inst.Best, time.Since(start))
	o.RalgoCalls = res.RalgoCalls
	o.Iterations = res.Iterations
	o.CalcfgCalls = res.CalcfgCalls
	return o, nil
}

// RandomStarts refines the n least overlapping of up to 100*n random
// arrangements and returns the smallest valid result, or the smallest
// result if none is valid.
func RandomStarts(inst Instance, rng *rand.Rand, n int, v Variant, p ralgo.Params, opts ...ralgo.Option) (Outcome, error) {
	start := time.Now()
	arrangements, _, _ := pop.Sample(rng, inst.Radii, pop.GenRadius(inst.Radii), n, 100*n)

	var best *Outcome
	for _, circles := range arrangements {
		o, err := Refine(inst, pop.Enclosing(circles), circles, v, p, opts...)
		if err != nil {
			return Outcome{}, err
		}
		if best == nil || (o.Valid && !best.Valid) || (o.Valid == best.Valid && o.Radius < best.Radius) {
			best = &o
		}
	}
	if best == nil {
		return Outcome{}, fmt.Errorf("no random arrangements: %w", circpack.ErrNoCircles)
	}

	best.Method = "random " + v.String()
	best.Duration = time.Since(start)
	return *best, nil
}

// Benchmark runs the heuristic on inst and refines its best packing with
// every variant in turn.
func Benchmark(inst Instance, rounds int, rng *rand.Rand, variants []Variant, p ralgo.Params) (Report, error) {
	rep := Report{Instance: inst.Name, Best: inst.Best}

	h, circles, err := Heuristic(inst, rounds, pack.Rand(rng))
	if err != nil {
		return rep, err
	} else if math.IsInf(h.Radius, 1) {
		return rep, fmt.Errorf("%v: %w", inst.Name, ErrNoPacking)
	}
	rep.Heuristic = h

	for _, v := range variants {
		o, err := Refine(inst, h.Radius, circles, v, p)
		if err != nil {
			return rep, err
		}
		rep.Variants = append(rep.Variants, o)
	}
	return rep, nil
}
