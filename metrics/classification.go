// Package metrics evaluates probabilistic binary predictions.
package metrics

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// ProbEpsilon clips probabilities away from 0 and 1 before taking logs.
const ProbEpsilon = 1e-15

func checkPair(op string, yTrue, yPred []float64) error {
	if len(yTrue) == 0 {
		return errors.NewInvalidInputError(op, "empty vector")
	}
	if len(yPred) != len(yTrue) {
		return errors.NewDimensionError(op, len(yTrue), len(yPred), 0)
	}
	return nil
}

// LogLoss は二値交差エントロピーの平均を計算する
//
// prob は陽性クラスの確率。0 と 1 は ProbEpsilon でクリップされる。
func LogLoss(yTrue, prob []float64) (float64, error) {
	if err := checkPair("LogLoss", yTrue, prob); err != nil {
		return 0, err
	}
	sum := 0.0
	for i, y := range yTrue {
		p := errors.ClipValue(prob[i], ProbEpsilon, 1-ProbEpsilon)
		sum -= y*errors.StabilizeLog(p) + (1-y)*errors.StabilizeLog(1-p)
	}
	return sum / float64(len(yTrue)), nil
}

// Accuracy は prob > threshold を陽性とみなした正解率を計算する
func Accuracy(yTrue, prob []float64, threshold float64) (float64, error) {
	if err := checkPair("Accuracy", yTrue, prob); err != nil {
		return 0, err
	}
	hits := 0
	for i, y := range yTrue {
		predicted := 0.0
		if prob[i] > threshold {
			predicted = 1
		}
		if predicted == y {
			hits++
		}
	}
	return float64(hits) / float64(len(yTrue)), nil
}

// Brier は確率予測の平均二乗誤差（Brier score）を計算する
func Brier(yTrue, prob []float64) (float64, error) {
	if err := checkPair("Brier", yTrue, prob); err != nil {
		return 0, err
	}
	diff := make([]float64, len(yTrue))
	floats.SubTo(diff, yTrue, prob)
	return floats.Dot(diff, diff) / float64(len(diff)), nil
}

// AUC はROC曲線下面積を順位統計量（Mann-Whitney U）から計算する
//
// 同じスコアには平均順位を割り当てる。陽性または陰性が存在しない場合はエラー。
func AUC(yTrue, score []float64) (float64, error) {
	if err := checkPair("AUC", yTrue, score); err != nil {
		return 0, err
	}

	idx := make([]int, len(score))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return score[idx[a]] < score[idx[b]] })

	ranks := make([]float64, len(score))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && score[idx[j+1]] == score[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}

	var nPos, nNeg, rankSum float64
	for i, y := range yTrue {
		if y == 1 {
			nPos++
			rankSum += ranks[i]
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0, errors.NewInvalidInputError("AUC", "both classes must be present")
	}
	return (rankSum - nPos*(nPos+1)/2) / (nPos * nNeg), nil
}
