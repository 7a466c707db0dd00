package estimator

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
)

// ProbabilisticClassifier decodes the probability rows of a model into
// labels observed at fit time.
//
// A model of width 1 is a binary head fitted on a single label. Its column is
// thresholded into 0/1 by PredictBinary; Predict rejects it.
type ProbabilisticClassifier[L cmp.Ordered] struct {
	model  ProbabilisticModel
	width  int
	labels []L
}

// NewProbabilisticClassifier wraps model, reading its output width once.
func NewProbabilisticClassifier[L cmp.Ordered](model ProbabilisticModel) (*ProbabilisticClassifier[L], error) {
	width := model.OutputWidth()
	if width < 1 {
		return nil, fmt.Errorf("model output width %d: %w", width, internalerr.ErrInvalidConfig)
	}
	return &ProbabilisticClassifier[L]{model: model, width: width}, nil
}

// Width returns the model output width.
func (c *ProbabilisticClassifier[L]) Width() int { return c.width }

// Labels returns the fitted labels in index order.
func (c *ProbabilisticClassifier[L]) Labels() []L {
	return slices.Clone(c.labels)
}

// Fit derives the sorted label set from y, one-hot encodes y against it and
// trains the model. The number of labels must equal the model width.
func (c *ProbabilisticClassifier[L]) Fit(X [][]float64, y []L) error {
	if len(X) != len(y) {
		return &internalerr.ShapeMismatchError{What: "classifier targets", Got: len(y), Want: len(X)}
	}

	labels := slices.Clone(y)
	slices.Sort(labels)
	labels = slices.Compact(labels)

	if len(labels) != c.width {
		return &internalerr.ShapeMismatchError{What: "label count vs model width", Got: len(labels), Want: c.width}
	}

	Y := make([][]float64, len(y))
	for i, v := range y {
		idx, _ := slices.BinarySearch(labels, v)
		row := make([]float64, c.width)
		row[idx] = 1
		Y[i] = row
	}

	if err := c.model.Fit(X, Y); err != nil {
		return fmt.Errorf("model fit: %w", err)
	}
	c.labels = labels
	return nil
}

// PredictProba returns the raw probability matrix of the model.
func (c *ProbabilisticClassifier[L]) PredictProba(X [][]float64) ([][]float64, error) {
	proba, err := c.model.Predict(X)
	if err != nil {
		return nil, fmt.Errorf("model predict: %w", err)
	}
	if len(proba) != len(X) {
		return nil, &internalerr.ShapeMismatchError{What: "probability rows", Got: len(proba), Want: len(X)}
	}
	for _, row := range proba {
		if len(row) != c.width {
			return nil, &internalerr.ShapeMismatchError{What: "probability columns", Got: len(row), Want: c.width}
		}
	}
	return proba, nil
}

// Predict returns one label per row, taking the first column with the
// highest probability. A width-1 model has no label decoding; use
// PredictBinary instead.
func (c *ProbabilisticClassifier[L]) Predict(X [][]float64) ([]L, error) {
	if c.width == 1 {
		return nil, fmt.Errorf("binary head predicts 0/1, use PredictBinary: %w", internalerr.ErrInvalidConfig)
	}
	if c.labels == nil {
		return nil, fmt.Errorf("probabilistic classifier: %w", internalerr.ErrNotFitted)
	}

	proba, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}

	out := make([]L, len(proba))
	for i, row := range proba {
		label, err := c.decode(Decide(row))
		if err != nil {
			return nil, err
		}
		out[i] = label
	}
	return out, nil
}

// PredictBinary thresholds a width-1 model at p > 0.5 and returns 1 or 0
// per row.
func (c *ProbabilisticClassifier[L]) PredictBinary(X [][]float64) ([]int, error) {
	if c.width != 1 {
		return nil, fmt.Errorf("model width %d is not a binary head: %w", c.width, internalerr.ErrInvalidConfig)
	}
	if c.labels == nil {
		return nil, fmt.Errorf("probabilistic classifier: %w", internalerr.ErrNotFitted)
	}

	proba, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, row := range proba {
		out[i] = Decide(row)
	}
	return out, nil
}

// Decide maps one probability row to a class index: a single column is
// thresholded at 0.5, otherwise the first maximum wins.
func Decide(row []float64) int {
	if len(row) == 1 {
		if row[0] > 0.5 {
			return 1
		}
		return 0
	}
	best := 0
	for j := 1; j < len(row); j++ {
		if row[j] > row[best] {
			best = j
		}
	}
	return best
}

func (c *ProbabilisticClassifier[L]) decode(idx int) (L, error) {
	if idx < 0 || idx >= len(c.labels) {
		var zero L
		return zero, fmt.Errorf("class index %d of %d labels: %w", idx, len(c.labels), internalerr.ErrUnseenLabel)
	}
	return c.labels[idx], nil
}
