package boost

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/core/parallel"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// defaultBatchThreshold is the row count above which PredictBatch fans out.
const defaultBatchThreshold = 256

func sigmoid(raw float64) float64 {
	if raw >= 0 {
		return 1 / (1 + math.Exp(-raw))
	}
	z := math.Exp(raw)
	return z / (1 + z)
}

// PredictRaw returns the additive score 0.5 + Σ lr·tree(x) before the sigmoid.
func (e *Ensemble) PredictRaw(x []float64) (float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.raw(x)
}

// raw evaluates x; the caller holds e.mu for reading.
func (e *Ensemble) raw(x []float64) (float64, error) {
	score := BaseScore
	for _, t := range e.trees {
		v, err := t.Traverse(x)
		if err != nil {
			return 0, err
		}
		score += e.params.LearningRate * v
	}
	return score, nil
}

// PredictSingle returns the probability for one sample. An ensemble without
// trees returns sigmoid(0.5).
func (e *Ensemble) PredictSingle(x []float64) (float64, error) {
	raw, err := e.PredictRaw(x)
	if err != nil {
		return 0, err
	}
	return sigmoid(raw), nil
}

// PredictBatch returns one probability per row of X, in row order. When
// several rows fail, the error of the lowest row is returned.
func (e *Ensemble) PredictBatch(X [][]float64) ([]float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]float64, len(X))
	errs := make([]error, len(X))
	threshold := e.parallelThreshold
	if threshold == 0 {
		threshold = defaultBatchThreshold
	}
	if threshold < 0 {
		threshold = len(X)
	}
	parallel.ParallelizeWithThreshold(len(X), threshold, func(start, end int) {
		for i := start; i < end; i++ {
			raw, err := e.raw(X[i])
			if err != nil {
				errs[i] = err
				continue
			}
			out[i] = sigmoid(raw)
		}
	})
	for i, err := range errs {
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
	}
	return out, nil
}

// PredictMatrix returns the probabilities of every row of X as an n×1 matrix.
func (e *Ensemble) PredictMatrix(X mat.Matrix) (mat.Matrix, error) {
	rows, _ := X.Dims()
	if rows == 0 {
		return nil, errors.NewInvalidInputError("Ensemble.PredictMatrix", "empty dataset")
	}
	samples := make([][]float64, rows)
	for i := range samples {
		samples[i] = mat.Row(nil, i, X)
	}
	probs, err := e.PredictBatch(samples)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(rows, 1, probs), nil
}
