package estimator

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
)

// Bounds is the inclusive class range of a RegressionClassifier.
type Bounds struct {
	Min float64
	Max float64
}

// RegressionClassifier turns regressor output into bounded integer classes.
//
// Bounds not given at construction are inferred from the feature matrix X
// of the first Fit, not from y, and never change afterwards.
type RegressionClassifier struct {
	reg    Regressor
	bounds Bounds
	minSet bool
	maxSet bool
	frozen bool
}

// RegressionOption configures a RegressionClassifier.
type RegressionOption func(*RegressionClassifier)

// WithMin fixes the lowest class.
func WithMin(v float64) RegressionOption {
	return func(c *RegressionClassifier) {
		c.bounds.Min = v
		c.minSet = true
	}
}

// WithMax fixes the highest class.
func WithMax(v float64) RegressionOption {
	return func(c *RegressionClassifier) {
		c.bounds.Max = v
		c.maxSet = true
	}
}

// NewRegressionClassifier wraps reg.
func NewRegressionClassifier(reg Regressor, opts ...RegressionOption) (*RegressionClassifier, error) {
	c := &RegressionClassifier{reg: reg}
	for _, opt := range opts {
		opt(c)
	}
	if c.minSet && c.maxSet {
		if c.bounds.Min > c.bounds.Max {
			return nil, fmt.Errorf("class bounds [%v, %v]: %w", c.bounds.Min, c.bounds.Max, internalerr.ErrInvalidConfig)
		}
		c.frozen = true
	}
	return c, nil
}

// Bounds returns the class range and whether it is known yet.
func (c *RegressionClassifier) Bounds() (Bounds, bool) {
	return c.bounds, c.frozen
}

// Fit trains the regressor, then fills in missing bounds from X on the
// first call.
func (c *RegressionClassifier) Fit(X [][]float64, y []float64) error {
	if len(X) != len(y) {
		return &internalerr.ShapeMismatchError{What: "regression targets", Got: len(y), Want: len(X)}
	}
	if err := c.reg.Fit(X, y); err != nil {
		return fmt.Errorf("regressor fit: %w", err)
	}
	if c.frozen {
		return nil
	}

	lo, hi, ok := matrixRange(X)
	if !ok {
		return fmt.Errorf("infer class bounds from empty X: %w", internalerr.ErrInvalidInput)
	}
	if !c.minSet {
		c.bounds.Min = lo
	}
	if !c.maxSet {
		c.bounds.Max = hi
	}
	if c.bounds.Min > c.bounds.Max {
		return fmt.Errorf("class bounds [%v, %v]: %w", c.bounds.Min, c.bounds.Max, internalerr.ErrInvalidConfig)
	}
	c.frozen = true
	slog.Debug("regression classifier bounds", "min", c.bounds.Min, "max", c.bounds.Max)
	return nil
}

// Predict rounds each regressor output to the nearest integer (halves away
// from zero), clips it into the bounds and converts it to int8, saturating
// at the int8 range.
func (c *RegressionClassifier) Predict(X [][]float64) ([]int8, error) {
	if !c.frozen {
		return nil, fmt.Errorf("regression classifier: %w", internalerr.ErrNotFitted)
	}

	pred, err := c.reg.Predict(X)
	if err != nil {
		return nil, fmt.Errorf("regressor predict: %w", err)
	}
	if len(pred) != len(X) {
		return nil, &internalerr.ShapeMismatchError{What: "regressor predictions", Got: len(pred), Want: len(X)}
	}

	out := make([]int8, len(pred))
	for i, p := range pred {
		out[i] = toClass(p, c.bounds)
	}
	return out, nil
}

func toClass(p float64, b Bounds) int8 {
	v := math.Round(p)
	switch {
	case math.IsNaN(v), v < b.Min:
		v = b.Min
	case v > b.Max:
		v = b.Max
	}
	v = math.Trunc(v)
	switch {
	case v < math.MinInt8:
		return math.MinInt8
	case v > math.MaxInt8:
		return math.MaxInt8
	}
	return int8(v)
}

func matrixRange(X [][]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range X {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	return lo, hi, ok
}
