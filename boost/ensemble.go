// Package boost trains and evaluates additive ensembles of regression trees
// for binary targets.
//
// Each round fits a tree to the residuals y - prediction, scales it by the
// learning rate and adds it to the running raw score, which starts at a fixed
// base score of 0.5. A logistic sigmoid turns the raw score into a probability.
//
//	e, err := boost.New(boost.WithNumRounds(50), boost.WithMaxDepth(3))
//	if err != nil { ... }
//	if err := e.Fit(X, y); err != nil { ... }
//	p, err := e.PredictSingle(x)
package boost

import (
	"sync"

	"github.com/YuminosukeSato/treeboost/boost/tree"
	"github.com/YuminosukeSato/treeboost/core/model"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
)

// BaseScore is the constant starting raw score of every prediction.
const BaseScore = 0.5

// Ensemble is an ordered sequence of regression trees plus the
// hyperparameters used to build them. Predictions may run concurrently with
// each other; Fit is exclusive.
type Ensemble struct {
	mu    sync.RWMutex
	state *model.StateManager

	params      Params
	trees       []*tree.Tree
	lossHistory []float64

	logger            log.Logger
	callbacks         []Callback
	metrics           *TrainingMetrics
	parallelThreshold int
}

var (
	_ model.Estimator          = (*Ensemble)(nil)
	_ model.ParameterGetter    = (*Ensemble)(nil)
	_ model.ParameterSetter    = (*Ensemble)(nil)
	_ model.ImportanceReporter = (*Ensemble)(nil)
	_ model.Persistable        = (*Ensemble)(nil)
)

// New creates an untrained Ensemble from the default parameters and opts.
func New(opts ...Option) (*Ensemble, error) {
	e := &Ensemble{
		state:  model.NewStateManager(),
		params: DefaultParams(),
		logger: log.GetLoggerWithName("boost.ensemble"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.params.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// NewWithParams creates an untrained Ensemble with explicit parameters.
func NewWithParams(p Params, opts ...Option) (*Ensemble, error) {
	return New(append([]Option{WithParams(p)}, opts...)...)
}

// Params returns the hyperparameters.
func (e *Ensemble) Params() Params {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.params
}

// GetParams returns the hyperparameters keyed by their JSON names.
func (e *Ensemble) GetParams() map[string]interface{} {
	return e.Params().asMap()
}

// SetParams updates hyperparameters by name. The result is validated as a
// whole and nothing changes on error. It fails with ErrTrainingInProgress
// while Fit is running.
func (e *Ensemble) SetParams(values map[string]interface{}) error {
	if e.state.IsTraining() {
		return errors.WithStack(errors.ErrTrainingInProgress)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := e.params.apply(values)
	if err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	e.params = next
	return nil
}

// IsFitted reports whether Fit completed or a trained model was loaded.
func (e *Ensemble) IsFitted() bool {
	return e.state.IsFitted()
}

// RequireFitted returns a ModelError naming op when the ensemble is not fitted.
func (e *Ensemble) RequireFitted(op string) error {
	return e.state.RequireFitted(op)
}

// NumTrees returns the number of trees.
func (e *Ensemble) NumTrees() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.trees)
}

// NumFeatures returns the number of features seen in training, 0 when unknown.
func (e *Ensemble) NumFeatures() int {
	n, _ := e.state.GetDimensions()
	return n
}

// Trees returns the trees in training order. The trees are shared and must
// not be modified.
func (e *Ensemble) Trees() []*tree.Tree {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*tree.Tree, len(e.trees))
	copy(out, e.trees)
	return out
}

// LossHistory returns the training log-loss recorded after every round.
func (e *Ensemble) LossHistory() []float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]float64, len(e.lossHistory))
	copy(out, e.lossHistory)
	return out
}

// FeatureImportance returns how many split nodes use each feature across all
// trees. Its length is one more than the largest split feature index, and it
// is empty when no tree splits.
func (e *Ensemble) FeatureImportance() []int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return tree.SplitCounts(e.trees)
}

// FeatureImportanceNormalized returns FeatureImportance divided by its sum.
func (e *Ensemble) FeatureImportanceNormalized() []float64 {
	counts := e.FeatureImportance()
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make([]float64, len(counts))
	if total == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = float64(c) / float64(total)
	}
	return out
}
