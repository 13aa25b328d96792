package pop

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rwcarlsen/circpack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenRadius(t *testing.T) {
	assert.InDelta(t, 1.2*5, GenRadius([]float64{3, 4}), 1e-12)
	assert.InDelta(t, 1.2, GenRadius([]float64{1}), 1e-12)
}

func TestRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	radii := []float64{1, 2, 3, 4, 5}
	Rg := GenRadius(radii)

	for i := 0; i < 100; i++ {
		circles := Random(rng, radii, Rg)
		require.Equal(t, radii, circpack.Radii(circles))
		for _, c := range circles {
			p, ok := c.Center()
			require.True(t, ok)
			require.LessOrEqual(t, p.Norm(), Rg)
		}
		assert.LessOrEqual(t, Enclosing(circles), Rg+5)
	}
}

func TestRandomDeterministic(t *testing.T) {
	radii := []float64{1, 1, 2}
	a := Random(rand.New(rand.NewSource(9)), radii, 4)
	b := Random(rand.New(rand.NewSource(9)), radii, 4)
	assert.Equal(t, a, b)
}

func TestEnclosing(t *testing.T) {
	circles := []circpack.Circle{
		circpack.At(1, circpack.Point{X: 3, Y: 4}),
		circpack.At(2, circpack.Point{X: -1}),
		circpack.Unplaced(100),
	}
	assert.InDelta(t, 6, Enclosing(circles), 1e-12)
	assert.Equal(t, 0.0, Enclosing(nil))
}

func TestOverlap(t *testing.T) {
	apart := []circpack.Circle{circpack.At(1, circpack.Point{X: -2}), circpack.At(1, circpack.Point{X: 2})}
	assert.Equal(t, 0.0, Overlap(apart))

	deep := []circpack.Circle{circpack.At(1, circpack.Point{X: -0.5}), circpack.At(1, circpack.Point{X: 0.5})}
	assert.InDelta(t, 1, Overlap(deep), 1e-12)
}

func TestSample(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	radii := []float64{1, 1, 1, 1, 1, 1, 1}
	n := 10

	arrangements, nbad, iter := Sample(rng, radii, GenRadius(radii), n, 500)
	require.Len(t, arrangements, n)
	assert.LessOrEqual(t, iter, 500)
	assert.LessOrEqual(t, nbad, n)

	prev := -1.0
	for i, circles := range arrangements[n-nbad:] {
		howbad := Overlap(circles)
		assert.Greater(t, howbad, 0.0, "arrangement %v", i)
		assert.GreaterOrEqual(t, howbad, prev, "overlapping arrangements come least-bad first")
		prev = howbad
	}
	for _, circles := range arrangements[:n-nbad] {
		assert.Equal(t, 0.0, Overlap(circles))
		assert.True(t, circpack.IsValidPack(Enclosing(circles)+1e-9, circles))
	}
}

func TestSampleEasy(t *testing.T) {
	// tiny circles in a big disk almost never overlap
	rng := rand.New(rand.NewSource(3))
	radii := []float64{0.01, 0.01}
	arrangements, nbad, iter := Sample(rng, radii, 100, 5, math.MaxInt32)
	assert.Len(t, arrangements, 5)
	assert.Equal(t, 0, nbad)
	assert.Less(t, iter, 100)
}
