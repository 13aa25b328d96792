package pack

import (
	"math/rand"
	"testing"

	"github.com/rwcarlsen/circpack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackCirclesSingle(t *testing.T) {
	circles, ok := PackCircles([]float64{1}, 1)
	require.True(t, ok)
	require.Len(t, circles, 1)
	assert.True(t, circpack.IsValidPack(1, circles))

	p, placed := circles[0].Center()
	require.True(t, placed)
	assert.InDelta(t, 0, p.Norm(), 1e-9)
}

func TestPackCirclesTooSmall(t *testing.T) {
	for _, tt := range []struct {
		radii []float64
		R     float64
	}{
		{[]float64{1}, 0.999},
		{[]float64{1, 2, 3, 4, 5}, 4.9},
		{[]float64{1, 1}, 1.9},
		{[]float64{2, 1}, 0},
	} {
		circles, ok := PackCircles(tt.radii, tt.R)
		assert.False(t, ok, "%v in R=%v", tt.radii, tt.R)
		assert.Nil(t, circles)
	}
}

func TestPackCirclesTwoEqual(t *testing.T) {
	R := 2.001
	circles, ok := PackCircles([]float64{1, 1}, R)
	require.True(t, ok)
	assert.True(t, circpack.IsValidPack(R, circles))
}

func TestPackCirclesPreservesOrder(t *testing.T) {
	radii := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	circles, ok := PackCircles(radii, 40)
	require.True(t, ok)
	assert.Equal(t, radii, circpack.Radii(circles))
	for _, c := range circles {
		assert.True(t, c.Placed())
	}
}

func TestPackCirclesAlwaysValid(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(12)
		radii := make([]float64, n)
		sum := 0.0
		for i := range radii {
			radii[i] = 0.1 + 3*rng.Float64()
			sum += radii[i]
		}

		R := sum * (0.3 + rng.Float64())
		circles, ok := PackCircles(radii, R)
		if ok {
			assert.True(t, circpack.IsValidPack(R, circles), "radii %v, R=%v", radii, R)
		}
	}
}

func TestPackCirclesFitsAtSum(t *testing.T) {
	radii := []float64{1, 2, 3, 4, 5}
	circles, ok := PackCircles(radii, 15)
	require.True(t, ok)
	assert.True(t, circpack.IsValidPack(15, circles))
}

func TestPackCirclesPanics(t *testing.T) {
	assert.Panics(t, func() { PackCircles(nil, 1) })
	assert.Panics(t, func() { PackCircles([]float64{1, 0}, 3) })
	assert.Panics(t, func() { PackCircles([]float64{-1}, 3) })
}
