package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/treeboost/boost"
	"github.com/YuminosukeSato/treeboost/boost/tree"
	"github.com/YuminosukeSato/treeboost/dataset"
	"github.com/YuminosukeSato/treeboost/metrics"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
)

func runTrain(args []string, stdout io.Writer) error {
	fs := commonFlags("train")
	bindings := map[string]string{
		"train.features":    "features",
		"train.labels":      "labels",
		"train.model":       "model",
		"train.loss_plot":   "loss-plot",
		"train.tree_dir":    "tree-dir",
		"train.tree_format": "tree-format",
		"train.max_trees":   "max-trees",
		"train.log_every":   "log-every",
	}
	fs.String("features", "", "feature matrix (.npy, n×d float64)")
	fs.String("labels", "", "label vector (.npy, n float64 in {0,1})")
	fs.String("model", "", "output model path (JSON)")
	fs.String("loss-plot", "", "write the training loss curve to this PNG/SVG/PDF file")
	fs.String("tree-dir", "", "render the first trees into this directory")
	fs.String("tree-format", "", "tree image format: dot, svg, png or jpg")
	fs.Int("max-trees", 0, "number of trees to render")
	fs.Int("log-every", 0, "log the training loss every N rounds")
	paramFlags(fs, bindings)

	cfg, err := loadConfig(fs, args, bindings)
	if err != nil {
		return err
	}
	tc := cfg.Train
	if tc.Features == "" || tc.Labels == "" {
		return errors.New("train: --features and --labels are required")
	}

	logger := log.GetLoggerWithName("cmd.train")
	X, err := dataset.LoadMatrix(tc.Features)
	if err != nil {
		return err
	}
	y, err := dataset.LoadVector(tc.Labels)
	if err != nil {
		return err
	}

	e, err := boost.NewWithParams(cfg.Params,
		boost.WithLogger(logger),
		boost.WithCallbacks(boost.LogEvaluation(logger, tc.LogEvery)),
	)
	if err != nil {
		return err
	}
	rows := dataset.Rows(X)
	if err := e.Fit(rows, y); err != nil {
		return err
	}
	if err := e.Save(tc.Model); err != nil {
		return err
	}

	if tc.LossPlot != "" {
		if err := writeLossPlot(e.LossHistory(), tc.LossPlot); err != nil {
			return err
		}
	}
	if tc.TreeDir != "" {
		if err := renderTrees(e.Trees(), tc.TreeDir, tc.TreeFormat, tc.MaxTrees); err != nil {
			return err
		}
	}

	losses := e.LossHistory()
	fmt.Fprintf(stdout, "trained %d trees on %d samples, final loss %.6f, model saved to %s\n",
		e.NumTrees(), len(y), losses[len(losses)-1], tc.Model)
	return reportFit(stdout, e, rows, y)
}

// reportFit prints accuracy and AUC on the training data.
func reportFit(stdout io.Writer, e *boost.Ensemble, rows [][]float64, y []float64) error {
	probs, err := e.PredictBatch(rows)
	if err != nil {
		return err
	}
	acc, err := metrics.Accuracy(y, probs, 0.5)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "train accuracy %.4f", acc)
	if auc, err := metrics.AUC(y, probs); err == nil {
		fmt.Fprintf(stdout, ", AUC %.4f", auc)
	}
	fmt.Fprintln(stdout)
	return nil
}

func renderTrees(trees []*tree.Tree, dir, format string, limit int) error {
	gvFormat, ok := tree.Formats[format]
	if !ok {
		return errors.Newf("unknown tree format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	if limit > len(trees) {
		limit = len(trees)
	}
	for i := 0; i < limit; i++ {
		path := filepath.Join(dir, fmt.Sprintf("tree_%05d.%s", i, format))
		if err := renderTree(trees[i], path, gvFormat); err != nil {
			return err
		}
	}
	return nil
}

func renderTree(t *tree.Tree, path string, format tree.Format) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return t.Render(f, format, nil)
}
