package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is implemented by models trained on a feature matrix and a label column.
type Fitter interface {
	FitMatrix(X, y mat.Matrix) error
}

// Predictor is implemented by models that score a feature matrix.
// The result is an n×1 column.
type Predictor interface {
	PredictMatrix(X mat.Matrix) (mat.Matrix, error)
}

// Estimator combines Fitter and Predictor with fitted-state reporting.
type Estimator interface {
	Fitter
	Predictor
	IsFitted() bool
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	SetParams(params map[string]interface{}) error
}

// ImportanceReporter exposes per-feature split counts.
type ImportanceReporter interface {
	FeatureImportance() []int
}

// Persistable is the interface for models that can be saved and loaded.
type Persistable interface {
	Save(path string) error
	Load(path string) error
}
