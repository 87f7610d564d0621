package tree

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/core/parallel"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

const (
	// Epsilon keeps gain and leaf denominators away from zero.
	Epsilon = 1e-10

	// MinGain is the smallest split gain accepted.
	MinGain = 1e-10

	// DefaultParallelThreshold is the rows*features product above which the
	// per-feature split scans run concurrently.
	DefaultParallelThreshold = 1 << 14
)

// Builder grows one regression tree from a feature matrix and per-sample
// gradients. A Builder holds no per-build state and may be reused.
type Builder struct {
	MaxDepth       int
	MinChildWeight float64

	// ParallelThreshold overrides DefaultParallelThreshold when positive.
	// A negative value forces the sequential scan.
	ParallelThreshold int
}

// NewBuilder returns a Builder with the given stopping rules.
func NewBuilder(maxDepth int, minChildWeight float64) *Builder {
	return &Builder{MaxDepth: maxDepth, MinChildWeight: minChildWeight}
}

// Build grows a tree over every row of X. gradients[i] is the residual of row i.
func (b *Builder) Build(X *mat.Dense, gradients []float64) (*Tree, error) {
	if X == nil || X.IsEmpty() {
		return nil, errors.NewInvalidInputError("Builder.Build", "empty feature matrix")
	}
	rows, cols := X.Dims()
	if len(gradients) != rows {
		return nil, errors.NewDimensionError("Builder.Build", rows, len(gradients), 0)
	}
	if b.MaxDepth < 0 {
		return nil, errors.NewValidationError("max_depth", "must be >= 0", b.MaxDepth)
	}
	if b.MinChildWeight < 0 || math.IsNaN(b.MinChildWeight) {
		return nil, errors.NewValidationError("min_child_weight", "must be >= 0", b.MinChildWeight)
	}

	raw := X.RawMatrix()
	s := &buildState{
		builder:   b,
		data:      raw.Data,
		stride:    raw.Stride,
		nFeatures: cols,
		grad:      gradients,
		idx:       make([]int, rows),
		scratch:   make([]int, rows),
	}
	for i := range s.idx {
		s.idx[i] = i
	}
	s.build(0, rows, 0)
	return &Tree{Nodes: s.nodes}, nil
}

type buildState struct {
	builder   *Builder
	data      []float64
	stride    int
	nFeatures int
	grad      []float64

	// idx holds sample indices; each node owns the contiguous range idx[lo:hi].
	idx     []int
	scratch []int
	nodes   []Node
}

func (s *buildState) value(row, feature int) float64 {
	return s.data[row*s.stride+feature]
}

type candidate struct {
	found     bool
	feature   int
	threshold float64
	gain      float64
}

// build fills the node for idx[lo:hi] and returns its arena index.
func (s *buildState) build(lo, hi, depth int) int {
	self := len(s.nodes)
	s.nodes = append(s.nodes, Node{Left: -1, Right: -1})

	samples := s.idx[lo:hi]
	sumGrad := 0.0
	for _, i := range samples {
		sumGrad += s.grad[i]
	}
	count := len(samples)

	if depth >= s.builder.MaxDepth ||
		float64(count) < s.builder.MinChildWeight ||
		math.Abs(sumGrad) < Epsilon {
		s.setLeaf(self, sumGrad, count)
		return self
	}

	best := s.findBestSplit(samples, sumGrad)
	if !best.found || best.gain < MinGain {
		s.setLeaf(self, sumGrad, count)
		return self
	}

	mid := s.partition(lo, hi, best.feature, best.threshold)
	left := s.build(lo, mid, depth+1)
	right := s.build(mid, hi, depth+1)

	s.nodes[self] = Node{
		Kind:      Split,
		Feature:   best.feature,
		Threshold: best.threshold,
		Left:      left,
		Right:     right,
		Count:     count,
		Gain:      best.gain,
	}
	return self
}

func (s *buildState) setLeaf(at int, sumGrad float64, count int) {
	s.nodes[at] = Node{
		Kind:  Leaf,
		Value: sumGrad / (float64(count) + Epsilon),
		Left:  -1,
		Right: -1,
		Count: count,
	}
}

// findBestSplit scans every feature and keeps the first strictly best
// candidate in feature order, so concurrent scans agree with a sequential one.
func (s *buildState) findBestSplit(samples []int, sumGrad float64) candidate {
	results := make([]candidate, s.nFeatures)
	scan := func(start, end int) {
		order := make([]int, len(samples))
		for f := start; f < end; f++ {
			results[f] = s.scanFeature(f, samples, order, sumGrad)
		}
	}

	threshold := s.builder.ParallelThreshold
	if threshold == 0 {
		threshold = DefaultParallelThreshold
	}
	if threshold < 0 || len(samples)*s.nFeatures <= threshold {
		scan(0, s.nFeatures)
	} else {
		parallel.Parallelize(s.nFeatures, scan)
	}

	var best candidate
	for _, c := range results {
		if c.found && (!best.found || c.gain > best.gain) {
			best = c
		}
	}
	return best
}

func (s *buildState) scanFeature(f int, samples, order []int, sumGrad float64) candidate {
	copy(order, samples)
	slices.SortStableFunc(order, func(a, b int) int {
		va, vb := s.value(a, f), s.value(b, f)
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		default:
			return 0
		}
	})

	n := len(order)
	parentScore := sumGrad * sumGrad / (float64(n) + Epsilon)
	best := candidate{feature: f}
	leftSum := 0.0
	for k := 0; k < n-1; k++ {
		leftSum += s.grad[order[k]]
		cur, next := s.value(order[k], f), s.value(order[k+1], f)
		if cur == next {
			continue
		}
		nLeft := float64(k + 1)
		nRight := float64(n - k - 1)
		rightSum := sumGrad - leftSum
		gain := leftSum*leftSum/(nLeft+Epsilon) + rightSum*rightSum/(nRight+Epsilon) - parentScore
		if !best.found || gain > best.gain {
			best.found = true
			best.gain = gain
			best.threshold = splitPoint(cur, next)
		}
	}
	return best
}

// splitPoint returns the midpoint of lo < hi, or lo when the midpoint is not
// strictly below hi in floating point.
func splitPoint(lo, hi float64) float64 {
	mid := (lo + hi) / 2
	if math.IsInf(mid, 0) {
		mid = lo/2 + hi/2
	}
	if mid < hi && mid >= lo {
		return mid
	}
	return lo
}

// partition stably reorders idx[lo:hi] so samples with value <= threshold come
// first and returns the boundary.
func (s *buildState) partition(lo, hi, feature int, threshold float64) int {
	seg := s.idx[lo:hi]
	right := s.scratch[:0]
	w := 0
	for _, i := range seg {
		if s.value(i, feature) <= threshold {
			seg[w] = i
			w++
		} else {
			right = append(right, i)
		}
	}
	copy(seg[w:], right)
	return lo + w
}
