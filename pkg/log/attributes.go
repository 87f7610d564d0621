// Package log defines standard attribute keys for training and inference logs.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so log pipelines can filter on them.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model.
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "serialize", "deserialize"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component is emitting the log.
	// Examples: "boost.ensemble", "boost.tree"
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records the training loss.
	LossKey = "metrics.loss"

	// IterationKey records the current boosting round.
	IterationKey = "training.iteration"
)

// Tree Structure
const (
	// TreesKey records the number of trees in the ensemble.
	TreesKey = "tree.count"

	// TreeNodesKey records the number of nodes in a tree.
	TreeNodesKey = "tree.nodes"

	// TreeLeavesKey records the number of leaves in a tree.
	TreeLeavesKey = "tree.leaves"

	// TreeDepthKey records the depth of a tree.
	TreeDepthKey = "tree.depth"
)

// Error and Warning Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Hyperparameters and Configuration
const (
	// HyperParamsKey contains model hyperparameters as a structured object.
	HyperParamsKey = "model.hyperparams"

	// LearningRateKey records the shrinkage applied to every tree.
	LearningRateKey = "hyperparams.learning_rate"

	// MaxDepthKey records the depth cap of every tree.
	MaxDepthKey = "hyperparams.max_depth"

	// NumRoundsKey records the number of boosting rounds requested.
	NumRoundsKey = "hyperparams.num_rounds"
)

// Standard attribute values.
const (
	OperationFit         = "fit"
	OperationPredict     = "predict"
	OperationSerialize   = "serialize"
	OperationDeserialize = "deserialize"

	PhaseTraining  = "training"
	PhaseInference = "inference"
)
