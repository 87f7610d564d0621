package tree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

func dense(rows [][]float64) *mat.Dense {
	m := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, r := range rows {
		m.SetRow(i, r)
	}
	return m
}

func randomData(rng *rand.Rand, n, d int) (*mat.Dense, []float64) {
	X := mat.NewDense(n, d, nil)
	g := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			// coarse grid so equal values are common
			X.Set(i, j, float64(rng.Intn(20)))
		}
		g[i] = rng.NormFloat64()
	}
	return X, g
}

// samplesAt returns the rows of X routed to every node.
func samplesAt(t *Tree, X *mat.Dense) map[int][]int {
	out := map[int][]int{}
	rows, _ := X.Dims()
	for i := 0; i < rows; i++ {
		x := X.RawRowView(i)
		idx := 0
		for {
			out[idx] = append(out[idx], i)
			n := t.Nodes[idx]
			if n.Kind == Leaf {
				break
			}
			if x[n.Feature] <= n.Threshold {
				idx = n.Left
			} else {
				idx = n.Right
			}
		}
	}
	return out
}

func TestBuild_SimpleSplit(t *testing.T) {
	X := dense([][]float64{{0}, {1}, {10}, {11}})
	g := []float64{-1, -1, 2, 2}

	tr, err := NewBuilder(3, 1).Build(X, g)
	require.NoError(t, err)

	root := tr.Nodes[0]
	require.Equal(t, Split, root.Kind)
	assert.Equal(t, 0, root.Feature)
	assert.Equal(t, 5.5, root.Threshold)
	assert.Equal(t, 4, root.Count)
	assert.InDelta(t, 9.0, root.Gain, 1e-6)

	left, right := tr.Nodes[root.Left], tr.Nodes[root.Right]
	assert.Equal(t, Leaf, left.Kind)
	assert.Equal(t, Leaf, right.Kind)
	assert.InDelta(t, -1.0, left.Value, 1e-9)
	assert.InDelta(t, 2.0, right.Value, 1e-9)
	assert.Equal(t, 2, tr.NumLeaves())
	assert.Equal(t, 1, tr.Depth())
}

func TestBuild_LeafValueFormula(t *testing.T) {
	X := dense([][]float64{{1}, {2}, {3}})
	g := []float64{0.2, 0.3, 0.4}

	tr, err := NewBuilder(0, 1).Build(X, g)
	require.NoError(t, err)
	require.Len(t, tr.Nodes, 1)
	assert.InDelta(t, 0.9/(3+Epsilon), tr.Nodes[0].Value, 1e-12)
}

func TestBuild_StopRules(t *testing.T) {
	X := dense([][]float64{{0}, {10}})

	t.Run("max depth zero", func(t *testing.T) {
		tr, err := NewBuilder(0, 1).Build(X, []float64{-1, 2})
		require.NoError(t, err)
		assert.Len(t, tr.Nodes, 1)
	})
	t.Run("min child weight", func(t *testing.T) {
		tr, err := NewBuilder(5, 3).Build(X, []float64{-1, 2})
		require.NoError(t, err)
		assert.Len(t, tr.Nodes, 1)
		assert.InDelta(t, 0.5, tr.Nodes[0].Value, 1e-9)
	})
	t.Run("zero gradient sum", func(t *testing.T) {
		tr, err := NewBuilder(5, 1).Build(X, []float64{-0.5, 0.5})
		require.NoError(t, err)
		require.Len(t, tr.Nodes, 1)
		assert.Equal(t, 0.0, tr.Nodes[0].Value)
	})
	t.Run("constant feature", func(t *testing.T) {
		C := dense([][]float64{{3}, {3}, {3}})
		tr, err := NewBuilder(5, 1).Build(C, []float64{1, 2, 3})
		require.NoError(t, err)
		require.Len(t, tr.Nodes, 1)
		assert.InDelta(t, 2.0, tr.Nodes[0].Value, 1e-9)
	})
	t.Run("single sample", func(t *testing.T) {
		tr, err := NewBuilder(5, 0).Build(dense([][]float64{{1, 2}}), []float64{0.7})
		require.NoError(t, err)
		require.Len(t, tr.Nodes, 1)
		assert.InDelta(t, 0.7, tr.Nodes[0].Value, 1e-9)
	})
}

func TestBuild_TieBreaking(t *testing.T) {
	// both features separate the gradients identically; the lower index wins
	X := dense([][]float64{{0, 0}, {1, 1}, {2, 2}, {3, 3}})
	g := []float64{-1, -1, 2, 2}

	tr, err := NewBuilder(1, 1).Build(X, g)
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Nodes[0].Feature)

	// symmetric gradients give equal gain at two thresholds; the lowest wins
	X2 := dense([][]float64{{0}, {1}, {2}})
	tr2, err := NewBuilder(1, 1).Build(X2, []float64{1, 0, 1})
	require.NoError(t, err)
	require.Equal(t, Split, tr2.Nodes[0].Kind)
	assert.Equal(t, 0.5, tr2.Nodes[0].Threshold)
}

func TestBuild_SplitValidityAndDepth(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	X, g := randomData(rng, 300, 4)

	for _, depth := range []int{0, 1, 3, 6} {
		tr, err := NewBuilder(depth, 2).Build(X, g)
		require.NoError(t, err)
		assert.LessOrEqual(t, tr.Depth(), depth)

		routed := samplesAt(tr, X)
		for idx, n := range tr.Nodes {
			rows := routed[idx]
			require.NotEmpty(t, rows, "node %d receives no sample", idx)
			assert.Equal(t, len(rows), n.Count)
			if n.Kind == Leaf {
				sum := 0.0
				for _, r := range rows {
					sum += g[r]
				}
				assert.InDelta(t, sum/(float64(len(rows))+Epsilon), n.Value, 1e-9)
				continue
			}
			assert.NotEmpty(t, routed[n.Left])
			assert.NotEmpty(t, routed[n.Right])
			assert.Equal(t, len(rows), len(routed[n.Left])+len(routed[n.Right]))
			assert.GreaterOrEqual(t, n.Gain, MinGain)
		}
	}
}

func TestBuild_ParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	X, g := randomData(rng, 500, 8)

	seq := &Builder{MaxDepth: 5, MinChildWeight: 1, ParallelThreshold: -1}
	par := &Builder{MaxDepth: 5, MinChildWeight: 1, ParallelThreshold: 1}

	a, err := seq.Build(X, g)
	require.NoError(t, err)
	b, err := par.Build(X, g)
	require.NoError(t, err)
	assert.Equal(t, a.Nodes, b.Nodes)
}

func TestBuild_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	X, g := randomData(rng, 200, 3)
	b := NewBuilder(4, 1)

	first, err := b.Build(X, g)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := b.Build(X, g)
		require.NoError(t, err)
		assert.Equal(t, first.Nodes, again.Nodes)
	}
}

func TestBuild_InvalidInput(t *testing.T) {
	X := dense([][]float64{{1}, {2}})

	_, err := NewBuilder(2, 1).Build(X, []float64{1})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 1, dimErr.Got)

	_, err = NewBuilder(2, 1).Build(nil, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = NewBuilder(-1, 1).Build(X, []float64{1, 2})
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestSplitPoint(t *testing.T) {
	assert.Equal(t, 1.5, splitPoint(1, 2))
	lo := 1.0
	hi := math.Nextafter(lo, 2)
	assert.Equal(t, lo, splitPoint(lo, hi))
	assert.Equal(t, math.MaxFloat64, splitPoint(math.MaxFloat64, math.Inf(1)))

	// lo+hi overflows but the halves do not
	big := 0.75 * math.MaxFloat64
	mid := splitPoint(big, math.MaxFloat64)
	assert.Greater(t, mid, big)
	assert.Less(t, mid, math.MaxFloat64)
	mid = splitPoint(-math.MaxFloat64, -big)
	assert.Greater(t, mid, -math.MaxFloat64)
	assert.Less(t, mid, -big)
}
