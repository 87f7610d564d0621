package tree

import (
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// Format is a Graphviz output format.
type Format = graphviz.Format

// Formats maps file extensions to Graphviz output formats.
var Formats = map[string]Format{
	"dot": graphviz.XDOT,
	"svg": graphviz.SVG,
	"png": graphviz.PNG,
	"jpg": graphviz.JPG,
}

// Render draws the tree with Graphviz and writes it to w in the given format.
// featureNames is optional; missing names fall back to f<index>.
func (t *Tree) Render(w io.Writer, format Format, featureNames []string) (err error) {
	if len(t.Nodes) == 0 {
		return errors.NewModelError("Tree.Render", "empty tree", nil)
	}

	g := graphviz.New()
	graph, err := g.Graph()
	if err != nil {
		return errors.Wrap(err, "create graph")
	}
	defer func() {
		if cerr := graph.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close graph")
		}
		g.Close()
	}()

	if err := t.draw(graph, featureNames); err != nil {
		return err
	}
	if err := g.Render(graph, format, w); err != nil {
		return errors.Wrapf(err, "render %s", format)
	}
	return nil
}

func (t *Tree) draw(graph *cgraph.Graph, featureNames []string) error {
	type frame struct {
		idx    int
		parent *cgraph.Node
		label  string
	}
	stack := []frame{{idx: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.Nodes[f.idx]
		gn, err := graph.CreateNode(fmt.Sprintf("n%d", f.idx))
		if err != nil {
			return errors.Wrap(err, "create node")
		}
		if f.parent != nil {
			e, err := graph.CreateEdge("", f.parent, gn)
			if err != nil {
				return errors.Wrap(err, "create edge")
			}
			e.Set("label", f.label)
		}

		if n.Kind == Leaf {
			gn.Set("shape", "box")
			gn.Set("label", fmt.Sprintf("value=%.6g\\nn=%d", n.Value, n.Count))
			continue
		}
		gn.Set("label", fmt.Sprintf("%s <= %.6g\\ngain=%.4g\\nn=%d",
			featureName(featureNames, n.Feature), n.Threshold, n.Gain, n.Count))
		stack = append(stack,
			frame{idx: n.Right, parent: gn, label: "no"},
			frame{idx: n.Left, parent: gn, label: "yes"},
		)
	}
	return nil
}

func featureName(names []string, f int) string {
	if f < len(names) && names[f] != "" {
		return names[f]
	}
	return fmt.Sprintf("f%d", f)
}
