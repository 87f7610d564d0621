package tree

import (
	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// NodeRecord is the nested, self-describing form of a node used on the wire.
// Leaves set Value; splits set FeatureIndex, Threshold, Left and Right.
type NodeRecord struct {
	Type         string      `json:"type"`
	FeatureIndex *int        `json:"feature_index,omitempty"`
	Threshold    *float64    `json:"threshold,omitempty"`
	Value        *float64    `json:"value,omitempty"`
	Left         *NodeRecord `json:"left,omitempty"`
	Right        *NodeRecord `json:"right,omitempty"`
	Count        int         `json:"count,omitempty"`
	Gain         float64     `json:"gain,omitempty"`
}

const (
	leafType  = "leaf"
	splitType = "split"
)

// Record converts the arena tree rooted at Nodes[0] into a nested record.
func (t *Tree) Record() *NodeRecord {
	if len(t.Nodes) == 0 {
		return nil
	}
	return t.record(0)
}

func (t *Tree) record(idx int) *NodeRecord {
	n := &t.Nodes[idx]
	if n.Kind == Leaf {
		v := n.Value
		return &NodeRecord{Type: leafType, Value: &v, Count: n.Count}
	}
	f, th := n.Feature, n.Threshold
	return &NodeRecord{
		Type:         splitType,
		FeatureIndex: &f,
		Threshold:    &th,
		Left:         t.record(n.Left),
		Right:        t.record(n.Right),
		Count:        n.Count,
		Gain:         n.Gain,
	}
}

// FromRecord rebuilds an arena tree from a nested record. Nodes are laid out
// in pre-order, matching the layout produced by Builder.
func FromRecord(rec *NodeRecord) (*Tree, error) {
	if rec == nil {
		return nil, errors.New("missing root node")
	}
	t := &Tree{}
	if _, err := t.appendRecord(rec, "root"); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) appendRecord(rec *NodeRecord, path string) (int, error) {
	self := len(t.Nodes)
	switch rec.Type {
	case leafType:
		if rec.Value == nil {
			return 0, errors.Newf("%s: leaf without value", path)
		}
		t.Nodes = append(t.Nodes, Node{Kind: Leaf, Value: *rec.Value, Left: -1, Right: -1, Count: rec.Count})
		return self, nil
	case splitType:
		if rec.FeatureIndex == nil || rec.Threshold == nil {
			return 0, errors.Newf("%s: split without feature_index or threshold", path)
		}
		if *rec.FeatureIndex < 0 {
			return 0, errors.Newf("%s: negative feature_index %d", path, *rec.FeatureIndex)
		}
		if rec.Left == nil || rec.Right == nil {
			return 0, errors.Newf("%s: split without both children", path)
		}
		t.Nodes = append(t.Nodes, Node{
			Kind:      Split,
			Feature:   *rec.FeatureIndex,
			Threshold: *rec.Threshold,
			Count:     rec.Count,
			Gain:      rec.Gain,
		})
		left, err := t.appendRecord(rec.Left, path+".left")
		if err != nil {
			return 0, err
		}
		right, err := t.appendRecord(rec.Right, path+".right")
		if err != nil {
			return 0, err
		}
		t.Nodes[self].Left = left
		t.Nodes[self].Right = right
		return self, nil
	default:
		return 0, errors.Newf("%s: unknown node type %q", path, rec.Type)
	}
}
