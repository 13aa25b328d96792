package pack

import (
	"database/sql"
	"math"
	"math/rand"
	"testing"

	_ "github.com/mxk/go-sqlite/sqlite3"
	"github.com/rwcarlsen/circpack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAnswerSingle(t *testing.T) {
	R, circles := FindAnswer([]float64{1}, 10, rand.New(rand.NewSource(1)))
	assert.InDelta(t, 1, R, 0.01)
	require.Len(t, circles, 1)
	require.True(t, circpack.IsValidPack(R, circles))

	p, _ := circles[0].Center()
	assert.InDelta(t, 0, p.Norm(), 0.01)
}

func TestFindAnswerTwoEqual(t *testing.T) {
	for seed := int64(0); seed < 3; seed++ {
		for _, rounds := range []int{1, 10} {
			R, circles := FindAnswer([]float64{1, 1}, rounds, rand.New(rand.NewSource(seed)))
			assert.InDelta(t, 2, R, 0.01, "seed %v rounds %v", seed, rounds)
			assert.True(t, circpack.IsValidPack(R, circles), "seed %v rounds %v", seed, rounds)
		}
	}
}

func TestBisectMinimumAtSum(t *testing.T) {
	// the smallest enclosing radius equals the sum of the radii, which is
	// also the first upper bound tried
	for _, radii := range [][]float64{{1, 1}, {0.5, 0.5}, {1}} {
		sum := 0.0
		for _, r := range radii {
			sum += r
		}
		R, circles, ok := bisect(radii)
		require.True(t, ok, "%v", radii)
		assert.GreaterOrEqual(t, R, sum, "%v", radii)
		assert.InDelta(t, sum, R, 0.01, "%v", radii)
		assert.True(t, circpack.IsValidPack(R, circles), "%v", radii)
	}
}

func TestFindAnswerOneToFive(t *testing.T) {
	radii := []float64{1, 2, 3, 4, 5}
	R, circles := FindAnswer(radii, 50, rand.New(rand.NewSource(1)))
	t.Logf("[INFO] heuristic radius %v (best known 9.0014)", R)

	require.True(t, circpack.IsValidPack(R, circles))
	assert.GreaterOrEqual(t, R, 9.0)
	assert.Less(t, R, Inflate*15)
	assert.ElementsMatch(t, []float64{1, 2, 3, 4, 5}, radii, "rounds only reorder the radii")
}

func TestFindAnswerDeterministic(t *testing.T) {
	radii := []float64{1, 2, 3, 4, 5, 1.5, 2.5}
	r1 := append([]float64{}, radii...)
	r2 := append([]float64{}, radii...)

	R1, c1 := FindAnswer(r1, 30, rand.New(rand.NewSource(42)))
	R2, c2 := FindAnswer(r2, 30, rand.New(rand.NewSource(42)))
	assert.Equal(t, R1, R2)
	assert.Equal(t, c1, c2)
	assert.Equal(t, r1, r2)
}

func TestSearcherNeverWorse(t *testing.T) {
	radii := []float64{2, 1, 1, 3, 0.5, 2}
	few, err := NewSearcher(5, Seed(3)).Run(append([]float64{}, radii...))
	require.NoError(t, err)
	many, err := NewSearcher(40, Seed(3)).Run(append([]float64{}, radii...))
	require.NoError(t, err)
	assert.LessOrEqual(t, many.Radius, few.Radius)
}

func TestSearcherNoRounds(t *testing.T) {
	p, err := NewSearcher(0).Run([]float64{1, 2})
	require.NoError(t, err)
	assert.True(t, math.IsInf(p.Radius, 1))
	require.Len(t, p.Circles, 2)
	for _, c := range p.Circles {
		assert.False(t, c.Placed())
	}
}

func TestSearcherBest(t *testing.T) {
	s := NewSearcher(30, Seed(5), Keep(3))
	best, err := s.Run([]float64{1, 2, 3, 1, 2, 3})
	require.NoError(t, err)

	kept := s.Best()
	require.NotEmpty(t, kept)
	assert.LessOrEqual(t, len(kept), 3)
	assert.Equal(t, best.Radius, kept[0].Radius)
	for i := 1; i < len(kept); i++ {
		assert.Less(t, kept[i-1].Radius, kept[i].Radius, "kept packings are distinct and ascending")
	}
	for _, p := range kept {
		assert.True(t, circpack.IsValidPack(p.Radius, p.Circles))
	}

	assert.Empty(t, NewSearcher(10, Keep(0)).Best())
}

func TestSearcherMetrics(t *testing.T) {
	m := &circpack.BasicMetricsCollector{}
	_, err := NewSearcher(12, WithMetrics(m)).Run([]float64{1, 1, 1})
	require.NoError(t, err)
	assert.EqualValues(t, 12, m.Rounds.Load())
	assert.EqualValues(t, 12, m.RoundsFeasible.Load())
	assert.GreaterOrEqual(t, m.RoundsImproved.Load(), int64(1))
}

func TestSearcherPanics(t *testing.T) {
	assert.Panics(t, func() { NewSearcher(1).Run(nil) })
	assert.Panics(t, func() { NewSearcher(1).Run([]float64{1, -2}) })
}

func TestDb(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rounds := 15
	s := NewSearcher(rounds, Seed(1), DB(db))
	if _, err := s.Run([]float64{1, 2, 3}); err != nil {
		t.Fatal(err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM "+TblRounds+" WHERE run=?", s.RunID).Scan(&count)
	if err != nil {
		t.Errorf("[ERROR] rounds table query failed: %v", err)
	} else if count != rounds {
		t.Errorf("[ERROR] rounds table has %v rows, want %v", count, rounds)
	}

	count = 0
	err = db.QueryRow("SELECT COUNT(*) FROM " + TblCircles).Scan(&count)
	if err != nil {
		t.Errorf("[ERROR] circles table query failed: %v", err)
	} else if count == 0 || count%3 != 0 {
		t.Errorf("[ERROR] circles table has %v rows, want a positive multiple of 3", count)
	}
}

func TestSearcherZeroValue(t *testing.T) {
	assert.Empty(t, (&Searcher{}).Best())

	s := &Searcher{Rounds: 3}
	p, err := s.Run([]float64{1, 2})
	require.NoError(t, err)
	assert.True(t, circpack.IsValidPack(p.Radius, p.Circles))
	assert.NotEmpty(t, s.RunID)
	assert.Empty(t, s.Best(), "Nkeep is zero")
}
