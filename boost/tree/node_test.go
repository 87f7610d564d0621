package tree

import (
	"bytes"
	"testing"

	"github.com/goccy/go-graphviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// stump splits feature f at th into leaves lo and hi.
func stump(f int, th, lo, hi float64) *Tree {
	return &Tree{Nodes: []Node{
		{Kind: Split, Feature: f, Threshold: th, Left: 1, Right: 2, Count: 2, Gain: 1},
		{Kind: Leaf, Value: lo, Left: -1, Right: -1, Count: 1},
		{Kind: Leaf, Value: hi, Left: -1, Right: -1, Count: 1},
	}}
}

func TestTraverse(t *testing.T) {
	tr := stump(1, 5, -1, 1)

	v, err := tr.Traverse([]float64{100, 5})
	require.NoError(t, err)
	assert.Equal(t, -1.0, v, "equal to threshold goes left")

	v, err = tr.Traverse([]float64{-100, 5.0001})
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	_, err = tr.Traverse([]float64{1})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	var inErr *errors.InvalidInputError
	assert.True(t, errors.As(err, &inErr))

	v, err = NewLeaf(0.25).Traverse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)
}

func TestTraverse_Malformed(t *testing.T) {
	_, err := (&Tree{}).Traverse([]float64{1})
	var modelErr *errors.ModelError
	assert.True(t, errors.As(err, &modelErr))

	loop := &Tree{Nodes: []Node{{Kind: Split, Feature: 0, Left: 0, Right: 0}}}
	_, err = loop.Traverse([]float64{1})
	assert.True(t, errors.As(err, &modelErr))
}

func TestSplitCounts(t *testing.T) {
	assert.Empty(t, SplitCounts(nil))
	assert.Empty(t, SplitCounts([]*Tree{NewLeaf(1), NewLeaf(2)}))

	deep := &Tree{Nodes: []Node{
		{Kind: Split, Feature: 3, Left: 1, Right: 2},
		{Kind: Split, Feature: 0, Left: 3, Right: 4},
		{Kind: Leaf, Left: -1, Right: -1},
		{Kind: Leaf, Left: -1, Right: -1},
		{Kind: Leaf, Left: -1, Right: -1},
	}}
	counts := SplitCounts([]*Tree{stump(0, 1, 0, 0), deep, NewLeaf(0)})
	assert.Equal(t, []int{2, 0, 0, 1}, counts)

	total := 0
	for _, c := range counts {
		total += c
	}
	splits := 0
	for _, tr := range []*Tree{stump(0, 1, 0, 0), deep} {
		splits += len(tr.Nodes) - tr.NumLeaves()
	}
	assert.Equal(t, splits, total)
}

func TestRecordRoundTrip(t *testing.T) {
	tr := &Tree{Nodes: []Node{
		{Kind: Split, Feature: 2, Threshold: 0.1, Left: 1, Right: 4, Count: 10, Gain: 3.5},
		{Kind: Split, Feature: 0, Threshold: -7, Left: 2, Right: 3, Count: 6, Gain: 0.5},
		{Kind: Leaf, Value: 0.3333333333333333, Left: -1, Right: -1, Count: 2},
		{Kind: Leaf, Value: -1e-12, Left: -1, Right: -1, Count: 4},
		{Kind: Leaf, Value: 0, Left: -1, Right: -1, Count: 4},
	}}
	back, err := FromRecord(tr.Record())
	require.NoError(t, err)
	assert.Equal(t, tr.Nodes, back.Nodes)
}

func TestFromRecord_Rejects(t *testing.T) {
	one := 1.0
	neg := -1
	zero := 0
	cases := map[string]*NodeRecord{
		"nil":           nil,
		"unknown type":  {Type: "branch"},
		"leaf no value": {Type: "leaf"},
		"split missing child": {Type: "split", FeatureIndex: &zero, Threshold: &one,
			Left: &NodeRecord{Type: "leaf", Value: &one}},
		"negative feature": {Type: "split", FeatureIndex: &neg, Threshold: &one,
			Left: &NodeRecord{Type: "leaf", Value: &one}, Right: &NodeRecord{Type: "leaf", Value: &one}},
		"bad nested": {Type: "split", FeatureIndex: &zero, Threshold: &one,
			Left: &NodeRecord{Type: "leaf", Value: &one}, Right: &NodeRecord{Type: "?"}},
	}
	for name, rec := range cases {
		_, err := FromRecord(rec)
		assert.Error(t, err, name)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, stump(0, 2.5, -1, 1).Render(&buf, graphviz.XDOT, []string{"age"}))
	out := buf.String()
	assert.Contains(t, out, "age <= 2.5")
	assert.Contains(t, out, "value=-1")

	assert.Error(t, (&Tree{}).Render(&buf, graphviz.XDOT, nil))
	assert.Equal(t, "f3", featureName(nil, 3))
}
