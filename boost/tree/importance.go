package tree

// SplitCounts counts how many split nodes use each feature across trees.
// The result has length 1 + the largest split feature index, or is empty when
// no tree contains a split.
func SplitCounts(trees []*Tree) []int {
	counts := []int{}
	var stack []int
	for _, t := range trees {
		if t == nil || len(t.Nodes) == 0 {
			continue
		}
		stack = append(stack[:0], 0)
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n := &t.Nodes[idx]
			if n.Kind != Split {
				continue
			}
			for len(counts) <= n.Feature {
				counts = append(counts, 0)
			}
			counts[n.Feature]++
			stack = append(stack, n.Right, n.Left)
		}
	}
	return counts
}
