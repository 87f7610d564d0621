package boost

import (
	"github.com/YuminosukeSato/treeboost/pkg/log"
)

// Option configures an Ensemble at construction time.
type Option func(*Ensemble)

// WithLearningRate sets the shrinkage applied to every tree.
func WithLearningRate(lr float64) Option {
	return func(e *Ensemble) { e.params.LearningRate = lr }
}

// WithMaxDepth sets the maximum depth of every tree.
func WithMaxDepth(depth int) Option {
	return func(e *Ensemble) { e.params.MaxDepth = depth }
}

// WithMinChildWeight sets the minimum sample count for a node to be split.
func WithMinChildWeight(w float64) Option {
	return func(e *Ensemble) { e.params.MinChildWeight = w }
}

// WithNumRounds sets the number of boosting rounds.
func WithNumRounds(n int) Option {
	return func(e *Ensemble) { e.params.NumRounds = n }
}

// WithParams replaces all hyperparameters.
func WithParams(p Params) Option {
	return func(e *Ensemble) { e.params = p }
}

// WithLogger sets the logger used during training.
func WithLogger(logger log.Logger) Option {
	return func(e *Ensemble) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCallbacks appends training callbacks, run after every round in order.
func WithCallbacks(callbacks ...Callback) Option {
	return func(e *Ensemble) { e.callbacks = append(e.callbacks, callbacks...) }
}

// WithParallelThreshold overrides when work fans out to multiple goroutines:
// split search compares it with rows*features of a node, batch prediction
// with the number of rows. A negative value disables concurrency.
func WithParallelThreshold(n int) Option {
	return func(e *Ensemble) { e.parallelThreshold = n }
}
