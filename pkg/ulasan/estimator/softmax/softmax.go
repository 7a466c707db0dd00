// Package softmax is a ProbabilisticModel trained by batch gradient descent:
// multinomial logistic regression for width >= 2, plain logistic regression
// for width 1.
package softmax

import (
	"log/slog"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
)

// Model holds a (features+1)×width weight matrix; the last row is the bias.
type Model struct {
	width      int
	epochs     int
	learnRate  float64
	randomInit bool

	features int
	w        *tensor.Dense
}

// Option configures a Model.
type Option func(*Model)

// WithEpochs sets the number of gradient steps (default 200).
func WithEpochs(n int) Option {
	return func(m *Model) { m.epochs = n }
}

// WithLearningRate sets the step size (default 0.1).
func WithLearningRate(lr float64) Option {
	return func(m *Model) { m.learnRate = lr }
}

// WithRandomInit starts from small uniform weights instead of zeros.
func WithRandomInit() Option {
	return func(m *Model) { m.randomInit = true }
}

// New creates a model emitting width probabilities per row.
func New(width int, opts ...Option) *Model {
	m := &Model{width: width, epochs: 200, learnRate: 0.1}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OutputWidth implements estimator.ProbabilisticModel.
func (m *Model) OutputWidth() int { return m.width }

// Fit trains on X against one-hot targets Y.
func (m *Model) Fit(X, Y [][]float64) error {
	if m.width < 1 {
		return errors.Wrapf(internalerr.ErrInvalidConfig, "softmax width %d", m.width)
	}
	if len(X) != len(Y) {
		return &internalerr.ShapeMismatchError{What: "softmax targets", Got: len(Y), Want: len(X)}
	}
	if len(X) == 0 || len(X[0]) == 0 {
		return errors.Wrap(internalerr.ErrInvalidInput, "softmax fit: empty X")
	}

	n, f := len(X), len(X[0])
	x, err := design(X, f)
	if err != nil {
		return err
	}
	yBack := make([]float64, 0, n*m.width)
	for _, row := range Y {
		if len(row) != m.width {
			return &internalerr.ShapeMismatchError{What: "softmax target width", Got: len(row), Want: m.width}
		}
		yBack = append(yBack, row...)
	}

	wBack := make([]float64, (f+1)*m.width)
	if m.randomInit {
		fillRandom(wBack, float64(len(wBack)))
	}
	w := tensor.New(tensor.WithShape(f+1, m.width), tensor.WithBacking(wBack))

	step := m.learnRate / float64(n)
	var cost float64
	for epoch := 0; epoch < m.epochs; epoch++ {
		probs, err := m.forward(x, w, n)
		if err != nil {
			return err
		}

		// dL/dlogits = p - y for softmax+cross-entropy and sigmoid+log-loss
		diff := make([]float64, len(probs))
		cost = 0
		for i := range probs {
			diff[i] = probs[i] - yBack[i]
			if yBack[i] > 0 {
				cost -= yBack[i] * math.Log(math.Max(probs[i], 1e-12))
			}
		}
		diffT := tensor.New(tensor.WithShape(n, m.width), tensor.WithBacking(diff))

		var mb maybe
		grad := mb.do(func() (tensor.Tensor, error) {
			if err := x.T(); err != nil {
				return nil, err
			}
			defer x.UT()
			return tensor.MatMul(x, diffT)
		})
		if mb.err != nil {
			return errors.Wrap(mb.err, "softmax gradient")
		}

		g := grad.Data().([]float64)
		for i := range wBack {
			wBack[i] -= step * g[i]
		}
	}
	slog.Debug("softmax fit", "rows", n, "features", f, "width", m.width, "epochs", m.epochs, "cost", cost/float64(n))

	m.features = f
	m.w = w
	return nil
}

// Predict returns one probability row of OutputWidth values per row of X.
func (m *Model) Predict(X [][]float64) ([][]float64, error) {
	if m.w == nil {
		return nil, errors.Wrap(internalerr.ErrNotFitted, "softmax predict")
	}
	if len(X) == 0 {
		return [][]float64{}, nil
	}

	x, err := design(X, m.features)
	if err != nil {
		return nil, err
	}
	probs, err := m.forward(x, m.w, len(X))
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(X))
	for i := range out {
		row := make([]float64, m.width)
		copy(row, probs[i*m.width:(i+1)*m.width])
		out[i] = row
	}
	return out, nil
}

// forward returns the row-major (n, width) probability matrix.
func (m *Model) forward(x, w *tensor.Dense, n int) ([]float64, error) {
	var mb maybe
	logits := mb.do(func() (tensor.Tensor, error) { return tensor.MatMul(x, w) })
	if mb.err != nil {
		return nil, errors.Wrap(mb.err, "softmax forward")
	}

	z := logits.Data().([]float64)
	probs := make([]float64, len(z))
	if m.width == 1 {
		for i, v := range z {
			probs[i] = sigmoid(v)
		}
		return probs, nil
	}
	for i := 0; i < n; i++ {
		softmaxRow(z[i*m.width:(i+1)*m.width], probs[i*m.width:(i+1)*m.width])
	}
	return probs, nil
}

// design appends a bias column of ones to X.
func design(X [][]float64, features int) (*tensor.Dense, error) {
	back := make([]float64, 0, len(X)*(features+1))
	for _, row := range X {
		if len(row) != features {
			return nil, &internalerr.ShapeMismatchError{What: "softmax row width", Got: len(row), Want: features}
		}
		back = append(back, row...)
		back = append(back, 1)
	}
	return tensor.New(tensor.WithShape(len(X), features+1), tensor.WithBacking(back)), nil
}

func softmaxRow(z, out []float64) {
	hi := math.Inf(-1)
	for _, v := range z {
		hi = math.Max(hi, v)
	}
	var sum float64
	for j, v := range z {
		out[j] = math.Exp(v - hi)
		sum += out[j]
	}
	for j := range out {
		out[j] /= sum
	}
}

func sigmoid(a float64) float64 { return 1 / (1 + math.Exp(-1*a)) }

func fillRandom(a []float64, v float64) {
	dist := distuv.Uniform{
		Min: -1 / math.Sqrt(v),
		Max: 1 / math.Sqrt(v),
	}
	for i := range a {
		a[i] = dist.Rand()
	}
}

type maybe struct {
	err error
}

func (m *maybe) do(fn func() (tensor.Tensor, error)) tensor.Tensor {
	if m.err != nil {
		return nil
	}

	var retVal tensor.Tensor
	if retVal, m.err = fn(); m.err == nil {
		return retVal
	}
	m.err = errors.WithStack(m.err)
	return nil
}
