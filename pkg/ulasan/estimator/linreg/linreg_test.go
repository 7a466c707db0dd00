package linreg

import (
	"errors"
	"math"
	"testing"

	"github.com/cognicore/ulasan/pkg/ulasan/estimator"
	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
)

var _ estimator.Regressor = (*Model)(nil)

func TestFitExactLinearRelation(t *testing.T) {
	// y = 1 + 2*x0 - 3*x1
	X := [][]float64{
		{0, 0}, {1, 0}, {0, 1}, {2, 1}, {3, 2}, {1, 4}, {5, 3},
	}
	y := make([]float64, len(X))
	for i, row := range X {
		y[i] = 1 + 2*row[0] - 3*row[1]
	}

	m := New()
	if err := m.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	coeff := m.Coefficients()
	want := []float64{1, 2, -3}
	for i := range want {
		if math.Abs(coeff[i]-want[i]) > 1e-6 {
			t.Errorf("coefficient %d = %v, want %v", i, coeff[i], want[i])
		}
	}

	pred, err := m.Predict([][]float64{{10, 10}})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(pred[0]-(-9)) > 1e-6 {
		t.Errorf("Predict = %v, want -9", pred[0])
	}
	if m.R2() < 0.999 {
		t.Errorf("R2 = %v on exact data", m.R2())
	}
}

func TestWithRegressionClassifier(t *testing.T) {
	// ratings 1..5 as a function of one feature; X spans [1, 5]
	X := [][]float64{{1}, {2}, {3}, {4}, {5}, {1.5}, {4.5}}
	y := []float64{1, 2, 3, 4, 5, 1.5, 4.5}

	c, err := estimator.NewRegressionClassifier(New())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	got, err := c.Predict([][]float64{{-20}, {2.9}, {40}})
	if err != nil {
		t.Fatal(err)
	}
	want := []int8{1, 3, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Predict()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestErrors(t *testing.T) {
	m := New()
	if _, err := m.Predict([][]float64{{1}}); !errors.Is(err, internalerr.ErrNotFitted) {
		t.Errorf("predict before fit: got %v", err)
	}
	if err := m.Fit([][]float64{{1}}, []float64{1, 2}); !errors.Is(err, internalerr.ErrShapeMismatch) {
		t.Errorf("target mismatch: got %v", err)
	}
	if err := m.Fit(nil, nil); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("empty X: got %v", err)
	}
	if err := m.Fit([][]float64{{1, 2}, {3}}, []float64{1, 2}); !errors.Is(err, internalerr.ErrShapeMismatch) {
		t.Errorf("ragged X: got %v", err)
	}
}
