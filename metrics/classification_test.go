package metrics

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

func TestAUC(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect classifier",
			yTrue: []float64{0, 0, 0, 1, 1, 1},
			yPred: []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9},
			want:  1.0,
		},
		{
			name:  "Worst classifier",
			yTrue: []float64{0, 0, 0, 1, 1, 1},
			yPred: []float64{0.9, 0.8, 0.7, 0.3, 0.2, 0.1},
			want:  0.0,
		},
		{
			name:  "Random classifier",
			yTrue: []float64{0, 1, 0, 1},
			yPred: []float64{0.5, 0.5, 0.5, 0.5},
			want:  0.5,
		},
		{
			name:  "Typical case",
			yTrue: []float64{0, 0, 1, 1},
			yPred: []float64{0.1, 0.4, 0.35, 0.8},
			want:  0.75,
		},
		{
			name:    "Single class",
			yTrue:   []float64{1, 1},
			yPred:   []float64{0.2, 0.3},
			wantErr: true,
		},
		{
			name:    "Length mismatch",
			yTrue:   []float64{0, 1},
			yPred:   []float64{0.2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUC(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AUC() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("AUC() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogLoss(t *testing.T) {
	got, err := LogLoss([]float64{1, 0}, []float64{0.8, 0.4})
	if err != nil {
		t.Fatal(err)
	}
	want := -(math.Log(0.8) + math.Log(0.6)) / 2
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("LogLoss() = %v, want %v", got, want)
	}

	got, err = LogLoss([]float64{1}, []float64{0})
	if err != nil {
		t.Fatal(err)
	}
	if math.IsInf(got, 0) || math.Abs(got+math.Log(ProbEpsilon)) > 1e-9 {
		t.Errorf("LogLoss() with p=0 = %v, want clipped value", got)
	}

	if _, err := LogLoss(nil, nil); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("LogLoss(nil) error = %v, want invalid input", err)
	}
}

func TestAccuracyAndBrier(t *testing.T) {
	y := []float64{0, 1, 1, 0}
	p := []float64{0.2, 0.9, 0.4, 0.6}

	acc, err := Accuracy(y, p, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if acc != 0.5 {
		t.Errorf("Accuracy() = %v, want 0.5", acc)
	}

	brier, err := Brier(y, p)
	if err != nil {
		t.Fatal(err)
	}
	want := (0.04 + 0.01 + 0.36 + 0.36) / 4
	if math.Abs(brier-want) > 1e-12 {
		t.Errorf("Brier() = %v, want %v", brier, want)
	}

	var dimErr *errors.DimensionError
	if _, err := Brier(y, p[:3]); !errors.As(err, &dimErr) {
		t.Errorf("Brier() error = %v, want DimensionError", err)
	}
}
