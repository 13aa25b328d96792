package circpack

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircleState(t *testing.T) {
	c := Unplaced(2)
	_, ok := c.Center()
	assert.False(t, ok)
	assert.False(t, c.Placed())
	assert.Contains(t, c.String(), "unplaced")

	p := Point{X: 1, Y: -1}
	placed := c.Place(p)
	got, ok := placed.Center()
	require.True(t, ok)
	assert.Equal(t, p, got)
	assert.Equal(t, 2.0, placed.Radius)
	assert.False(t, c.Placed(), "Place returns a copy")
}

func TestOverlap(t *testing.T) {
	a := At(1, Point{})
	for _, tt := range []struct {
		b    Circle
		want bool
	}{
		{At(1, Point{X: 2}), true}, // touching
		{At(1, Point{X: 2.0001}), false},
		{At(0.5, Point{X: 1, Y: 1}), true},
		{At(3, Point{X: 10, Y: 10}), false},
		{Unplaced(100), false},
	} {
		assert.Equal(t, tt.want, Overlap(a, tt.b), "%v", tt.b)
	}
}

func TestOverlapSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		a := At(rng.Float64()*3, Point{X: rng.NormFloat64() * 3, Y: rng.NormFloat64() * 3})
		b := At(rng.Float64()*3, Point{X: rng.NormFloat64() * 3, Y: rng.NormFloat64() * 3})
		require.Equal(t, Overlap(a, b), Overlap(b, a), "%v %v", a, b)
	}
}

func TestIsInside(t *testing.T) {
	assert.True(t, IsInside(At(1, Point{X: 3}), 4), "touching the enclosing circle is inside")
	assert.True(t, IsInside(At(1, Point{X: 0, Y: -2.5}), 4))
	assert.False(t, IsInside(At(1, Point{X: 3.0001}), 4))
	assert.False(t, IsInside(At(5, Point{}), 4))
	assert.False(t, IsInside(Unplaced(1), 4))
}

func TestIsOverlap(t *testing.T) {
	circles := []Circle{At(1, Point{X: -5}), At(1, Point{X: 5}), Unplaced(1)}
	assert.True(t, IsOverlap(At(1, Point{X: 4}), circles))
	assert.False(t, IsOverlap(At(1, Point{}), circles))
	assert.False(t, IsOverlap(At(1, Point{}), nil))
}

func TestIsValidPack(t *testing.T) {
	two := []Circle{At(1, Point{X: -1}), At(1, Point{X: 1.5})}
	assert.True(t, IsValidPack(2.5, two))
	assert.False(t, IsValidPack(1.99, two))
	assert.False(t, IsValidPack(3, []Circle{At(1, Point{X: -1}), At(1, Point{X: 1})}), "tangent circles overlap")
	assert.False(t, IsValidPack(3, []Circle{At(1, Point{}), Unplaced(1)}))
	assert.True(t, IsValidPack(0, nil))
}

func TestCheckRadii(t *testing.T) {
	require.NoError(t, CheckRadii([]float64{1, 0.5}))
	assert.True(t, errors.Is(CheckRadii(nil), ErrNoCircles))
	assert.True(t, errors.Is(CheckRadii([]float64{1, 0}), ErrBadRadius))
	assert.True(t, errors.Is(CheckRadii([]float64{math.NaN()}), ErrBadRadius))
}

func TestVector(t *testing.T) {
	circles := []Circle{At(1, Point{X: 1, Y: 2}), At(2, Point{X: -3, Y: 4}), At(0.5, Point{X: 5, Y: -6})}
	x, err := ToVector(7, circles)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -3, 5, 2, 4, -6, 7}, x)

	R, back, err := FromVector(x, Radii(circles))
	require.NoError(t, err)
	assert.Equal(t, 7.0, R)
	assert.Equal(t, circles, back)
}

func TestVectorErrors(t *testing.T) {
	_, err := ToVector(1, nil)
	assert.True(t, errors.Is(err, ErrNoCircles))
	_, err = ToVector(1, []Circle{At(1, Point{}), Unplaced(1)})
	assert.True(t, errors.Is(err, ErrUnplaced))
	_, err = ToVector(1, []Circle{At(-1, Point{})})
	assert.True(t, errors.Is(err, ErrBadRadius))

	_, _, err = FromVector([]float64{1, 2}, []float64{1})
	assert.True(t, errors.Is(err, ErrVectorLength))
	_, _, err = FromVector([]float64{1}, nil)
	assert.True(t, errors.Is(err, ErrNoCircles))
}

func TestLogger(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	l := NewTextLogger(&buf, slog.LevelInfo).WithRun("abc").WithCircles(3)

	l.LogRound(ctx, 1, 5, true, false)
	assert.Empty(t, buf.String(), "plain rounds log at debug")

	l.LogRound(ctx, 2, 4.5, true, true)
	out := buf.String()
	assert.Contains(t, out, "packing improved")
	assert.Contains(t, out, "run=abc")
	assert.Contains(t, out, "circles=3")
	assert.Contains(t, out, "radius=4.5")

	buf.Reset()
	NewJSONLogger(&buf, slog.LevelDebug).LogStep(ctx, 0.32, 5, 4.9, true, 10, 40)
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"accepted":true`)

	NoopLogger().LogError(ctx, "ignored", errors.New("boom"))
}

func TestBasicMetrics(t *testing.T) {
	m := &BasicMetricsCollector{}
	var _ MetricsCollector = m
	var _ MetricsCollector = NoopMetricsCollector{}

	m.RecordRalgo(10, 30, time.Millisecond)
	m.RecordRalgo(5, 12, time.Millisecond)
	m.RecordStep(1, true)
	m.RecordStep(0.5, false)
	m.RecordStep(0.25, false)
	m.RecordRound(true, true, time.Second)
	m.RecordRound(false, false, time.Second)

	assert.EqualValues(t, 2, m.RalgoCalls.Load())
	assert.EqualValues(t, 15, m.RalgoIterations.Load())
	assert.EqualValues(t, 42, m.RalgoEvals.Load())
	assert.EqualValues(t, 2*time.Millisecond, m.RalgoNanos.Load())
	assert.EqualValues(t, 1, m.StepsAccepted.Load())
	assert.EqualValues(t, 2, m.StepsRejected.Load())
	assert.EqualValues(t, 2, m.Rounds.Load())
	assert.EqualValues(t, 1, m.RoundsFeasible.Load())
	assert.EqualValues(t, 1, m.RoundsImproved.Load())
}
