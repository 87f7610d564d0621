package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/YuminosukeSato/treeboost/boost"
	"github.com/YuminosukeSato/treeboost/dataset"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
)

func loadModel(path string) (*boost.Ensemble, error) {
	e, err := boost.New(boost.WithLogger(log.GetLoggerWithName("cmd")))
	if err != nil {
		return nil, err
	}
	if err := e.Load(path); err != nil {
		return nil, err
	}
	if err := e.RequireFitted("load " + path); err != nil {
		return nil, err
	}
	return e, nil
}

func runPredict(args []string, stdout io.Writer) error {
	fs := commonFlags("predict")
	bindings := map[string]string{
		"predict.features": "features",
		"predict.model":    "model",
		"predict.output":   "output",
	}
	fs.String("features", "", "feature matrix (.npy, n×d float64)")
	fs.String("model", "", "model path (JSON)")
	fs.String("output", "", "output probabilities (.npy)")

	cfg, err := loadConfig(fs, args, bindings)
	if err != nil {
		return err
	}
	pc := cfg.Predict
	if pc.Features == "" {
		return errors.New("predict: --features is required")
	}

	e, err := loadModel(pc.Model)
	if err != nil {
		return err
	}
	X, err := dataset.LoadMatrix(pc.Features)
	if err != nil {
		return err
	}
	probs, err := e.PredictBatch(dataset.Rows(X))
	if err != nil {
		return err
	}
	if err := dataset.SaveVector(pc.Output, probs); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %d predictions to %s\n", len(probs), pc.Output)
	return nil
}

func runImportance(args []string, stdout io.Writer) error {
	fs := commonFlags("importance")
	bindings := map[string]string{"predict.model": "model"}
	fs.String("model", "", "model path (JSON)")

	cfg, err := loadConfig(fs, args, bindings)
	if err != nil {
		return err
	}
	e, err := loadModel(cfg.Predict.Model)
	if err != nil {
		return err
	}

	counts := e.FeatureImportance()
	shares := e.FeatureImportanceNormalized()
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "feature\tsplits\tshare")
	for i, c := range counts {
		fmt.Fprintf(tw, "%d\t%d\t%.4f\n", i, c, shares[i])
	}
	return tw.Flush()
}
