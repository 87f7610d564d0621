// Package tree builds and evaluates the regression trees of a boosted ensemble.
//
// A Tree stores its nodes in a flat arena: the root is Nodes[0] and split
// nodes refer to their children by index. Every index is owned by exactly one
// parent, so a tree has no shared subtrees and no cycles.
package tree

import (
	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// Kind distinguishes leaf nodes from split nodes.
type Kind uint8

const (
	// Leaf nodes carry a prediction value.
	Leaf Kind = iota
	// Split nodes route samples on Feature <= Threshold.
	Split
)

func (k Kind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Split:
		return "split"
	default:
		return "unknown"
	}
}

// Node is one arena slot. Leaves use Value; splits use Feature, Threshold,
// Left and Right. Count and Gain are diagnostics and never affect routing.
type Node struct {
	Kind      Kind
	Feature   int
	Threshold float64
	Value     float64
	Left      int
	Right     int

	Count int
	Gain  float64
}

// IsLeaf reports whether the node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Kind == Leaf
}

// Tree is a single regression tree.
type Tree struct {
	Nodes []Node
}

// NewLeaf returns a tree made of a single leaf.
func NewLeaf(value float64) *Tree {
	return &Tree{Nodes: []Node{{Kind: Leaf, Value: value, Left: -1, Right: -1}}}
}

// Traverse walks x from the root to a leaf and returns the leaf value.
// A sample goes left when x[feature] <= threshold. A split on a feature
// index beyond len(x) is an InvalidInputError.
func (t *Tree) Traverse(x []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, errors.NewModelError("Tree.Traverse", "empty tree", nil)
	}

	idx := 0
	for steps := 0; steps < len(t.Nodes); steps++ {
		n := &t.Nodes[idx]
		if n.Kind == Leaf {
			return n.Value, nil
		}
		if n.Feature < 0 || n.Feature >= len(x) {
			return 0, errors.NewInvalidInputErrorf("Tree.Traverse",
				"split on feature %d but sample has %d features", n.Feature, len(x))
		}
		if x[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
		if idx <= 0 || idx >= len(t.Nodes) {
			return 0, errors.NewModelError("Tree.Traverse", "child index out of range", nil)
		}
	}
	return 0, errors.NewModelError("Tree.Traverse", "cycle detected", nil)
}

// NumLeaves returns the number of leaf nodes.
func (t *Tree) NumLeaves() int {
	n := 0
	for i := range t.Nodes {
		if t.Nodes[i].Kind == Leaf {
			n++
		}
	}
	return n
}

// Depth returns the number of split levels on the longest root-to-leaf path.
// A single-leaf tree has depth 0.
func (t *Tree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	type frame struct{ idx, depth int }
	maxDepth := 0
	stack := []frame{{0, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.Nodes[f.idx]
		if n.Kind == Leaf {
			if f.depth > maxDepth {
				maxDepth = f.depth
			}
			continue
		}
		stack = append(stack, frame{n.Right, f.depth + 1}, frame{n.Left, f.depth + 1})
	}
	return maxDepth
}
