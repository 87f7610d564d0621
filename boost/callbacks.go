package boost

import (
	"math"
	"time"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
)

// CallbackEnv describes the state of training after a round.
type CallbackEnv struct {
	Params        Params
	Iteration     int
	NumTrees      int
	Loss          float64
	RoundDuration time.Duration
	Elapsed       time.Duration

	// StopTraining ends training after the current round when set.
	StopTraining bool
}

// Callback is invoked after every boosting round. A returned error aborts Fit.
//
// Iteration restarts at 0 on every Fit, so callbacks that keep state across
// rounds clear it there. Callbacks run without the ensemble's lock held and
// may read the ensemble, for example PredictBatch on a validation set, which
// then sees the trees built so far. They must not call Fit or SetParams.
type Callback func(env *CallbackEnv) error

// RecordLoss records the training loss of every round of the latest Fit into
// history.
func RecordLoss(history *[]float64) Callback {
	return func(env *CallbackEnv) error {
		if env.Iteration == 0 {
			*history = (*history)[:0]
		}
		*history = append(*history, env.Loss)
		return nil
	}
}

// LogEvaluation logs the loss every period rounds at Info level.
func LogEvaluation(logger log.Logger, period int) Callback {
	if period < 1 {
		period = 1
	}
	return func(env *CallbackEnv) error {
		if (env.Iteration+1)%period == 0 {
			logger.Info("Evaluation",
				log.IterationKey, env.Iteration,
				log.LossKey, env.Loss,
				log.TreesKey, env.NumTrees,
			)
		}
		return nil
	}
}

// EarlyStopping stops training once the loss has not improved by more than
// minDelta for rounds consecutive rounds.
func EarlyStopping(rounds int, minDelta float64) Callback {
	best := math.Inf(1)
	bestIteration := 0
	stale := 0
	return func(env *CallbackEnv) error {
		if rounds < 1 {
			return errors.NewValidationError("early_stopping_rounds", "must be >= 1", rounds)
		}
		if env.Iteration == 0 {
			best = math.Inf(1)
			bestIteration = 0
			stale = 0
		}
		if env.Loss < best-minDelta {
			best = env.Loss
			bestIteration = env.Iteration
			stale = 0
			return nil
		}
		stale++
		if stale >= rounds {
			log.GetLoggerWithName("boost.callbacks").Info("Early stopping",
				log.IterationKey, env.Iteration,
				"best_iteration", bestIteration,
				"best_loss", best,
			)
			env.StopTraining = true
		}
		return nil
	}
}

// TimeLimit stops training once the elapsed time exceeds limit.
func TimeLimit(limit time.Duration) Callback {
	return func(env *CallbackEnv) error {
		if env.Elapsed > limit {
			env.StopTraining = true
		}
		return nil
	}
}
