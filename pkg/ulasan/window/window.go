// Package window turns variable-length id sequences into fixed-length,
// padded windows.
package window

import (
	"fmt"
	"strings"

	"gorgonia.org/tensor"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
)

// Side selects the edge where padding or truncation happens.
type Side int

const (
	// Pre pads or truncates at the start of the sequence.
	Pre Side = iota
	// Post pads or truncates at the end of the sequence.
	Post
)

func (s Side) String() string {
	if s == Post {
		return "post"
	}
	return "pre"
}

// ParseSide parses "pre" or "post".
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pre":
		return Pre, nil
	case "post":
		return Post, nil
	}
	return Pre, fmt.Errorf("window side %q: %w", s, internalerr.ErrInvalidConfig)
}

// Splitter expands each sequence into sliding windows of MaxLen values.
type Splitter struct {
	maxLen     int
	minLen     int
	minSet     bool
	padding    Side
	truncating Side
	value      float64
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithMinLen sets the shortest prefix that yields its own window.
// It defaults to maxLen.
func WithMinLen(n int) Option {
	return func(s *Splitter) {
		s.minLen = n
		s.minSet = true
	}
}

// WithPadding sets where padding values are inserted (default Pre).
func WithPadding(side Side) Option {
	return func(s *Splitter) { s.padding = side }
}

// WithTruncating sets which end is cut from sequences longer than maxLen
// (default Pre).
func WithTruncating(side Side) Option {
	return func(s *Splitter) { s.truncating = side }
}

// WithPaddingValue sets the fill value (default 0).
func WithPaddingValue(v float64) Option {
	return func(s *Splitter) { s.value = v }
}

// New creates a splitter. It rejects maxLen < 1, a negative minLen and
// minLen > maxLen.
func New(maxLen int, opts ...Option) (*Splitter, error) {
	s := &Splitter{maxLen: maxLen}
	for _, opt := range opts {
		opt(s)
	}
	if !s.minSet {
		s.minLen = maxLen
	}

	if maxLen < 1 {
		return nil, &internalerr.ShapeMismatchError{What: "window max_len below 1", Got: maxLen, Want: 1}
	}
	if s.minLen < 0 {
		return nil, &internalerr.ShapeMismatchError{What: "window min_len below 0", Got: s.minLen, Want: 0}
	}
	if s.minLen > maxLen {
		return nil, &internalerr.ShapeMismatchError{What: "window min_len above max_len", Got: s.minLen, Want: maxLen}
	}
	return s, nil
}

// MaxLen returns the window length.
func (s *Splitter) MaxLen() int { return s.maxLen }

// MinLen returns the minimum prefix length.
func (s *Splitter) MinLen() int { return s.minLen }

// Count returns how many windows a sequence of length n produces.
func (s *Splitter) Count(n int) int {
	if n <= s.minLen {
		return 1
	}
	return n - s.minLen
}

// Split returns the windows of every sequence, in input order. A sequence
// no longer than MinLen yields one window; a longer one yields a window for
// every end index j in [MinLen, len), covering seq[max(0, j-MaxLen):j].
func (s *Splitter) Split(X [][]int) [][]float64 {
	total := 0
	for _, seq := range X {
		total += s.Count(len(seq))
	}

	out := make([][]float64, 0, total)
	for _, seq := range X {
		out = s.appendWindows(out, seq)
	}
	return out
}

func (s *Splitter) appendWindows(out [][]float64, seq []int) [][]float64 {
	if len(seq) <= s.minLen {
		return append(out, Pad(seq, s.maxLen, s.padding, s.truncating, s.value))
	}
	for j := s.minLen; j < len(seq); j++ {
		start := max(0, j-s.maxLen)
		out = append(out, Pad(seq[start:j], s.maxLen, s.padding, s.truncating, s.value))
	}
	return out
}

// SplitLabeled splits X like Split and repeats y[i] for every window of
// X[i].
func SplitLabeled[L any](s *Splitter, X [][]int, y []L) ([][]float64, []L, error) {
	if len(X) != len(y) {
		return nil, nil, &internalerr.ShapeMismatchError{What: "window labels", Got: len(y), Want: len(X)}
	}

	windows := make([][]float64, 0, len(X))
	labels := make([]L, 0, len(X))
	for i, seq := range X {
		before := len(windows)
		windows = s.appendWindows(windows, seq)
		for k := before; k < len(windows); k++ {
			labels = append(labels, y[i])
		}
	}
	return windows, labels, nil
}

// Pad fits seq to exactly maxLen values. Longer sequences lose values at the
// truncating edge; shorter ones gain value at the padding edge.
func Pad(seq []int, maxLen int, padding, truncating Side, value float64) []float64 {
	if len(seq) > maxLen {
		if truncating == Post {
			seq = seq[:maxLen]
		} else {
			seq = seq[len(seq)-maxLen:]
		}
	}

	out := make([]float64, maxLen)
	offset := 0
	if padding == Pre {
		offset = maxLen - len(seq)
	}
	for i := range out {
		out[i] = value
	}
	for i, v := range seq {
		out[offset+i] = float64(v)
	}
	return out
}

// PadSequences pads every sequence. maxLen <= 0 uses the longest sequence.
func PadSequences(seqs [][]int, maxLen int, padding, truncating Side, value float64) [][]float64 {
	if maxLen <= 0 {
		for _, seq := range seqs {
			maxLen = max(maxLen, len(seq))
		}
	}
	out := make([][]float64, len(seqs))
	for i, seq := range seqs {
		out[i] = Pad(seq, maxLen, padding, truncating, value)
	}
	return out
}

// Tensor packs equal-length windows into an (n, len) dense matrix.
func Tensor(windows [][]float64) (*tensor.Dense, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("tensor from no windows: %w", internalerr.ErrInvalidInput)
	}
	cols := len(windows[0])
	if cols == 0 {
		return nil, fmt.Errorf("tensor from empty windows: %w", internalerr.ErrInvalidInput)
	}

	backing := make([]float64, 0, len(windows)*cols)
	for i, w := range windows {
		if len(w) != cols {
			return nil, &internalerr.ShapeMismatchError{What: fmt.Sprintf("window %d length", i), Got: len(w), Want: cols}
		}
		backing = append(backing, w...)
	}
	return tensor.New(tensor.WithShape(len(windows), cols), tensor.WithBacking(backing)), nil
}
