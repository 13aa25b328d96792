package pack

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/petar/GoLLRB/llrb"
	"github.com/rwcarlsen/circpack"
	"gonum.org/v1/gonum/floats"
)

const (
	// BisectTol ends the bisection on the enclosing radius.
	BisectTol = 1e-4
	// Inflate scales the smallest feasible radius found by a round so that
	// the reported enclosing circle has a little room to spare.
	Inflate = 1.001
	// DefaultKeep is the default number of packings kept by a Searcher.
	DefaultKeep = 5

	maxGrow = 8
)

// Packing is a complete arrangement together with its enclosing radius.
type Packing struct {
	Radius  float64
	Circles []circpack.Circle
}

func (p Packing) Less(than llrb.Item) bool {
	return p.Radius < than.(Packing).Radius
}

type Option func(*Searcher)

// Rand sets the random number generator used to reorder the radii between
// rounds.
func Rand(rng *rand.Rand) Option {
	return func(s *Searcher) {
		s.Rng = rng
	}
}

// Seed is shorthand for Rand(rand.New(rand.NewSource(seed))).
func Seed(seed int64) Option {
	return Rand(rand.New(rand.NewSource(seed)))
}

// Keep sets how many of the smallest distinct valid packings the Searcher
// remembers.
func Keep(n int) Option {
	return func(s *Searcher) {
		s.Nkeep = n
	}
}

// DB records every round into the TblRounds table of db and the circles of
// every improving round into TblCircles.
func DB(db *sql.DB) Option {
	return func(s *Searcher) {
		s.Db = db
	}
}

func WithLogger(l *circpack.Logger) Option {
	return func(s *Searcher) {
		s.Logger = l
	}
}

func WithMetrics(m circpack.MetricsCollector) Option {
	return func(s *Searcher) {
		s.Metrics = m
	}
}

// Searcher looks for a small enclosing radius by running PackCircles inside
// a bisection on the radius, once per round, and swapping two randomly
// chosen radii between rounds.  Fields left unset in a Searcher literal get
// the NewSearcher defaults when Run starts, except Nkeep.
type Searcher struct {
	Rounds  int
	Rng     *rand.Rand
	Nkeep   int
	Db      *sql.DB
	Logger  *circpack.Logger
	Metrics circpack.MetricsCollector

	// RunID identifies this searcher's rows in the trace tables.
	RunID string
	best  *llrb.LLRB
}

func NewSearcher(rounds int, opts ...Option) *Searcher {
	s := &Searcher{Rounds: rounds, Nkeep: DefaultKeep}
	for _, opt := range opts {
		opt(s)
	}
	s.setDefaults()
	return s
}

// setDefaults fills in the fields a Searcher literal may leave unset.
func (s *Searcher) setDefaults() {
	if s.Rng == nil {
		s.Rng = rand.New(rand.NewSource(0))
	}
	if s.Logger == nil {
		s.Logger = circpack.NoopLogger()
	}
	if s.Metrics == nil {
		s.Metrics = circpack.NoopMetricsCollector{}
	}
	if s.RunID == "" {
		s.RunID = uuid.NewString()
	}
	if s.best == nil {
		s.best = llrb.New()
	}
}

// Run searches for Rounds rounds and returns the best packing found.  radii
// is reordered in place between rounds.  If no round produced a valid
// packing, the returned radius is +Inf and the circles are unplaced.  Run
// panics if radii is empty or holds a non-positive radius; errors come only
// from the trace database.
func (s *Searcher) Run(radii []float64) (Packing, error) {
	if err := circpack.CheckRadii(radii); err != nil {
		panic(fmt.Sprintf("pack: %v", err))
	}

	s.setDefaults()
	ctx := context.Background()
	if err := s.initdb(ctx); err != nil {
		return Packing{}, err
	}
	log := s.Logger.WithRun(s.RunID).WithCircles(len(radii))

	best := Packing{Radius: math.Inf(1)}
	for round := 0; round < s.Rounds; round++ {
		start := time.Now()
		R, circles, feasible := bisect(radii)

		improved := false
		if feasible && circpack.IsValidPack(R, circles) {
			s.remember(Packing{Radius: R, Circles: circles})
			if R < best.Radius {
				best = Packing{Radius: R, Circles: circles}
				improved = true
			}
		}

		log.LogRound(ctx, round, R, feasible, improved)
		s.Metrics.RecordRound(feasible, improved, time.Since(start))
		if err := s.updateDb(ctx, round, R, feasible, improved, best); err != nil {
			return Packing{}, err
		}

		i, j := s.Rng.Intn(len(radii)), s.Rng.Intn(len(radii))
		radii[i], radii[j] = radii[j], radii[i]
	}

	if best.Circles == nil {
		best.Circles = make([]circpack.Circle, len(radii))
		for i, r := range radii {
			best.Circles[i] = circpack.Unplaced(r)
		}
	}
	return best, nil
}

// bisect finds (approximately) the smallest radius for which PackCircles
// succeeds with radii in their current order.  The upper bound starts at
// the sum of the radii and is doubled while packing at it fails.  The
// returned radius is inflated by Inflate.
func bisect(radii []float64) (R float64, circles []circpack.Circle, ok bool) {
	lo, hi := 0.0, math.Ceil(floats.Sum(radii))
	circles, ok = PackCircles(radii, hi)
	for n := 0; !ok && n < maxGrow; n++ {
		lo, hi = hi, 2*hi
		circles, ok = PackCircles(radii, hi)
	}
	if !ok {
		return Inflate * hi, nil, false
	}

	for hi-lo > BisectTol {
		mid := (lo + hi) / 2
		if c, feasible := PackCircles(radii, mid); feasible {
			hi, circles = mid, c
		} else {
			lo = mid
		}
	}
	return Inflate * hi, circles, true
}

func (s *Searcher) remember(p Packing) {
	if s.Nkeep <= 0 {
		return
	}
	s.best.InsertNoReplace(p)
	for s.best.Len() > s.Nkeep {
		s.best.DeleteMax()
	}
}

// Best returns the distinct valid packings found so far, smallest radius
// first.  Packings with equal radii are kept once.
func (s *Searcher) Best() []Packing {
	if s.best == nil || s.best.Len() == 0 {
		return []Packing{}
	}
	packings := make([]Packing, 0, s.best.Len())
	s.best.AscendGreaterOrEqual(s.best.Min(), func(item llrb.Item) bool {
		packings = append(packings, item.(Packing))
		return true
	})
	return packings
}

// FindAnswer runs a Searcher with the given random number generator for the
// given number of rounds and returns the best enclosing radius and
// arrangement.  The radius is +Inf if no valid packing was found.
func FindAnswer(radii []float64, rounds int, rng *rand.Rand) (float64, []circpack.Circle) {
	p, _ := NewSearcher(rounds, Rand(rng)).Run(radii)
	return p.Radius, p.Circles
}
