// Package treeboost is a small gradient boosted tree engine for binary
// targets, designed for services that train and score in process.
//
// # Packages
//
//   - boost: hyperparameters, the Ensemble (fit, predict, feature
//     importance, JSON persistence), training callbacks and Prometheus
//     training metrics
//   - boost/tree: regression tree construction, traversal and rendering
//   - dataset: NumPy .npy input and output
//   - metrics: log-loss, accuracy, Brier score and AUC
//   - core/model, core/parallel: fitted-state bookkeeping and worker fan-out
//   - pkg/errors, pkg/log: structured errors and zerolog-backed logging
//
// # Quick Start
//
//	e, err := boost.New(boost.WithNumRounds(50), boost.WithMaxDepth(3))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := e.Fit(X, y); err != nil {
//	    log.Fatal(err)
//	}
//	p, err := e.PredictSingle([]float64{1.5, 0.2})
//
// Every tree is fit to the residuals y - prediction of the ensemble so far,
// scaled by the learning rate and added to a raw score that starts at 0.5.
// Probabilities are the logistic sigmoid of the raw score.
//
// # Errors
//
// Input problems match errors.ErrInvalidInput; malformed saved models are
// reported as *errors.ModelError; out-of-range hyperparameters as
// *errors.ValidationError.
//
// The treeboost command (cmd/treeboost) trains and scores models from .npy
// files with YAML or environment configuration.
package treeboost
