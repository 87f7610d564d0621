package boost_test

import (
	"fmt"

	"github.com/YuminosukeSato/treeboost/boost"
	"github.com/YuminosukeSato/treeboost/pkg/log"
)

func ExampleEnsemble_Fit() {
	quiet, _ := log.NewTestLogger(log.LevelError)
	e, err := boost.New(
		boost.WithNumRounds(20),
		boost.WithMaxDepth(2),
		boost.WithLearningRate(0.3),
		boost.WithLogger(quiet),
	)
	if err != nil {
		panic(err)
	}

	X := [][]float64{{1, 0}, {2, 1}, {3, 0}, {7, 1}, {8, 0}, {9, 1}, {10, 0}}
	y := []float64{0, 0, 0, 1, 1, 1, 1}
	if err := e.Fit(X, y); err != nil {
		panic(err)
	}

	low, _ := e.PredictSingle([]float64{1.5, 0})
	high, _ := e.PredictSingle([]float64{9.5, 0})
	fmt.Println(e.NumTrees(), low < high)
	fmt.Println(e.FeatureImportance()[0] > 0)
	// Output:
	// 20 true
	// true
}
