package boost

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/boost/tree"
	"github.com/YuminosukeSato/treeboost/metrics"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
)

// Fit trains the ensemble on X (one row per sample) and binary labels y.
// Trees from a previous Fit are discarded. On error the trees built so far
// are kept but the ensemble is not marked fitted.
func (e *Ensemble) Fit(X [][]float64, y []float64) (err error) {
	defer errors.Recover(&err, "Ensemble.Fit")

	data, err := denseFromRows("Ensemble.Fit", X, y)
	if err != nil {
		return err
	}
	return e.fit(data, y)
}

// FitMatrix is Fit for gonum matrices. y must be an n×1 column.
func (e *Ensemble) FitMatrix(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "Ensemble.FitMatrix")

	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewInvalidInputError("Ensemble.FitMatrix", "empty dataset")
	}
	yRows, yCols := y.Dims()
	if yCols != 1 {
		return errors.NewInvalidInputErrorf("Ensemble.FitMatrix", "y must be a column vector, got %d columns", yCols)
	}
	if rows != yRows {
		return errors.NewDimensionError("Ensemble.FitMatrix", rows, yRows, 0)
	}
	data := mat.NewDense(rows, cols, nil)
	data.Copy(X)
	labels := make([]float64, yRows)
	for i := range labels {
		labels[i] = y.At(i, 0)
	}
	return e.fit(data, labels)
}

func denseFromRows(op string, X [][]float64, y []float64) (*mat.Dense, error) {
	if len(X) == 0 {
		return nil, errors.NewInvalidInputError(op, "empty dataset")
	}
	if len(X) != len(y) {
		return nil, errors.NewDimensionError(op, len(X), len(y), 0)
	}
	cols := len(X[0])
	if cols == 0 {
		return nil, errors.NewInvalidInputError(op, "samples have no features")
	}
	data := make([]float64, 0, len(X)*cols)
	for i, row := range X {
		if len(row) != cols {
			return nil, errors.NewRowDimensionError(op, i, cols, len(row))
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(X), cols, data), nil
}

func (e *Ensemble) fit(X *mat.Dense, y []float64) error {
	if err := e.state.BeginTraining(); err != nil {
		return err
	}
	defer e.state.EndTraining()

	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.boost(X, y)
	if e.metrics != nil {
		e.metrics.observeFit(err)
	}
	if err != nil {
		e.logger.Error("Training failed", err, log.TreesKey, len(e.trees))
	}
	return err
}

// boost runs the rounds. The caller holds e.mu; it is released while
// callbacks run.
func (e *Ensemble) boost(X *mat.Dense, y []float64) error {
	start := time.Now()
	rows, cols := X.Dims()
	p := e.params

	e.trees = nil
	e.lossHistory = nil
	e.state.Reset()
	e.state.SetDimensions(cols, rows)

	checkLabels(y)

	logger := e.logger.With(log.OperationKey, log.OperationFit, log.PhaseKey, log.PhaseTraining)
	logger.Info("Training started",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.NumRoundsKey, p.NumRounds,
		log.LearningRateKey, p.LearningRate,
		log.MaxDepthKey, p.MaxDepth,
		log.HyperParamsKey, p.asMap(),
	)

	builder := &tree.Builder{
		MaxDepth:          p.MaxDepth,
		MinChildWeight:    p.MinChildWeight,
		ParallelThreshold: e.parallelThreshold,
	}
	preds := make([]float64, rows)
	for i := range preds {
		preds[i] = BaseScore
	}
	grads := make([]float64, rows)
	probs := make([]float64, rows)
	env := &CallbackEnv{Params: p}

	for round := 0; round < p.NumRounds; round++ {
		roundStart := time.Now()

		floats.SubTo(grads, y, preds)
		t, err := builder.Build(X, grads)
		if err != nil {
			return errors.Wrapf(err, "round %d", round)
		}
		e.trees = append(e.trees, t)

		for i := 0; i < rows; i++ {
			v, err := t.Traverse(X.RawRowView(i))
			if err != nil {
				return errors.Wrapf(err, "round %d", round)
			}
			preds[i] += p.LearningRate * v
		}
		if err := errors.CheckNumericalStability("update_predictions", preds, round); err != nil {
			return err
		}

		loss, err := logLoss(y, preds, probs)
		if err != nil {
			return err
		}
		if err := errors.CheckScalar("log_loss", loss, round); err != nil {
			return err
		}
		e.lossHistory = append(e.lossHistory, loss)
		logger.Debug("Round finished",
			log.IterationKey, round,
			log.LossKey, loss,
			log.TreeNodesKey, len(t.Nodes),
			log.TreeLeavesKey, t.NumLeaves(),
			log.TreeDepthKey, t.Depth(),
		)

		if len(e.callbacks) > 0 {
			env.Iteration = round
			env.NumTrees = len(e.trees)
			env.Loss = loss
			env.RoundDuration = time.Since(roundStart)
			env.Elapsed = time.Since(start)
			// callbacks may read the ensemble; the training flag keeps
			// writers out while the lock is released
			e.mu.Unlock()
			err := e.runCallbacks(env)
			e.mu.Lock()
			if err != nil {
				return err
			}
			if env.StopTraining {
				logger.Info("Training stopped by callback", log.IterationKey, round)
				break
			}
		}
	}

	e.state.SetFitted()
	logger.Info("Training finished",
		log.TreesKey, len(e.trees),
		log.LossKey, lastOrNaN(e.lossHistory),
		log.DurationMsKey, time.Since(start),
	)
	return nil
}

func (e *Ensemble) runCallbacks(env *CallbackEnv) error {
	for _, cb := range e.callbacks {
		err := errors.SafeExecute("boost.Callback", func() error { return cb(env) })
		if err != nil {
			return errors.Wrapf(err, "callback at round %d", env.Iteration)
		}
		if env.StopTraining {
			return nil
		}
	}
	return nil
}

// checkLabels warns once when labels fall outside [0, 1].
func checkLabels(y []float64) {
	count := 0
	minLabel, maxLabel := math.Inf(1), math.Inf(-1)
	for _, v := range y {
		if v < 0 || v > 1 {
			count++
		}
		minLabel = math.Min(minLabel, v)
		maxLabel = math.Max(maxLabel, v)
	}
	if count > 0 {
		errors.Warn(errors.NewLabelRangeWarning("Ensemble.Fit", count, minLabel, maxLabel))
	}
}

// logLoss is the mean binary cross-entropy of sigmoid(raw) against y.
func logLoss(y, raw, probs []float64) (float64, error) {
	for i, r := range raw {
		probs[i] = sigmoid(r)
	}
	return metrics.LogLoss(y, probs)
}

func lastOrNaN(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return v[len(v)-1]
}
