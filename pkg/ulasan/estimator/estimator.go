// Package estimator adapts regressors and probability models into
// classifiers with well-defined output shapes.
package estimator

import (
	"fmt"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
)

// Regressor is a model producing one real value per row of X.
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]float64, error)
}

// ProbabilisticModel emits OutputWidth probabilities per row of X.
// Fit receives targets one-hot encoded to OutputWidth columns.
type ProbabilisticModel interface {
	Fit(X [][]float64, Y [][]float64) error
	Predict(X [][]float64) ([][]float64, error)
	OutputWidth() int
}

// RegressionExtractor exposes a regressor as a feature transformer
// producing a single column.
type RegressionExtractor struct {
	reg Regressor
}

// NewRegressionExtractor wraps reg.
func NewRegressionExtractor(reg Regressor) *RegressionExtractor {
	return &RegressionExtractor{reg: reg}
}

// Fit trains the wrapped regressor.
func (e *RegressionExtractor) Fit(X [][]float64, y []float64) error {
	if len(X) != len(y) {
		return &internalerr.ShapeMismatchError{What: "extractor targets", Got: len(y), Want: len(X)}
	}
	return e.reg.Fit(X, y)
}

// Transform returns the predictions as an n×1 matrix.
func (e *RegressionExtractor) Transform(X [][]float64) ([][]float64, error) {
	pred, err := e.reg.Predict(X)
	if err != nil {
		return nil, fmt.Errorf("extractor predict: %w", err)
	}
	if len(pred) != len(X) {
		return nil, &internalerr.ShapeMismatchError{What: "regressor predictions", Got: len(pred), Want: len(X)}
	}

	out := make([][]float64, len(pred))
	for i, p := range pred {
		out[i] = []float64{p}
	}
	return out, nil
}

// FitTransform trains on X and y and transforms X.
func (e *RegressionExtractor) FitTransform(X [][]float64, y []float64) ([][]float64, error) {
	if err := e.Fit(X, y); err != nil {
		return nil, err
	}
	return e.Transform(X)
}
