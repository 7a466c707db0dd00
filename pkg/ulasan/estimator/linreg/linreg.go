// Package linreg is an ordinary least squares Regressor.
package linreg

import (
	"fmt"

	"github.com/sajari/regression"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
)

// Model fits y = c0 + c1*x1 + ... + cn*xn.
type Model struct {
	r        *regression.Regression
	features int
}

// New creates an untrained model.
func New() *Model {
	return &Model{}
}

// Fit trains on the rows of X. Every row must have the same width.
func (m *Model) Fit(X [][]float64, y []float64) error {
	if len(X) != len(y) {
		return &internalerr.ShapeMismatchError{What: "linreg targets", Got: len(y), Want: len(X)}
	}
	if len(X) == 0 || len(X[0]) == 0 {
		return fmt.Errorf("linreg fit: empty X: %w", internalerr.ErrInvalidInput)
	}

	features := len(X[0])
	r := new(regression.Regression)
	r.SetObserved("y")
	for j := 0; j < features; j++ {
		r.SetVar(j, fmt.Sprintf("x%d", j))
	}

	dp := make(regression.DataPoints, 0, len(X))
	for i, row := range X {
		if len(row) != features {
			return &internalerr.ShapeMismatchError{What: fmt.Sprintf("linreg row %d width", i), Got: len(row), Want: features}
		}
		dp = append(dp, regression.DataPoint(y[i], row))
	}
	r.Train(dp...)
	if err := r.Run(); err != nil {
		return fmt.Errorf("linreg run: %w", err)
	}

	m.r = r
	m.features = features
	return nil
}

// Predict returns one value per row of X.
func (m *Model) Predict(X [][]float64) ([]float64, error) {
	if m.r == nil {
		return nil, fmt.Errorf("linreg predict: %w", internalerr.ErrNotFitted)
	}

	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != m.features {
			return nil, &internalerr.ShapeMismatchError{What: fmt.Sprintf("linreg row %d width", i), Got: len(row), Want: m.features}
		}
		p, err := m.r.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("linreg predict row %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// Coefficients returns the intercept followed by one weight per feature.
func (m *Model) Coefficients() []float64 {
	if m.r == nil {
		return nil
	}
	out := make([]float64, m.features+1)
	for i := range out {
		out[i] = m.r.Coeff(i)
	}
	return out
}

// R2 returns the coefficient of determination of the last fit.
func (m *Model) R2() float64 {
	if m.r == nil {
		return 0
	}
	return m.r.R2
}
