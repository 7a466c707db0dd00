// Package vocab maps words to integer ids ranked by corpus frequency.
package vocab

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
)

// DefaultFilters are the characters replaced by spaces before splitting.
const DefaultFilters = "!\"#$%&()*+,-./:;<=>?@[\\]^_`{|}~\t\n"

// Vocabulary assigns ids 1..n to words, most frequent first. Ties keep the
// order of first occurrence.
type Vocabulary struct {
	maxWords int
	oovToken string
	filters  string
	lower    bool

	counts map[string]int
	order  []string // words in first-occurrence order
	index  map[string]int
	words  []string // words[id-1]
	fitted bool
}

// Option configures a Vocabulary.
type Option func(*Vocabulary)

// WithOOVToken maps unknown and out-of-range words to a reserved id 1.
func WithOOVToken(tok string) Option {
	return func(v *Vocabulary) { v.oovToken = tok }
}

// WithFilters sets the characters stripped before splitting.
func WithFilters(filters string) Option {
	return func(v *Vocabulary) { v.filters = filters }
}

// WithLower toggles lower-casing (default on).
func WithLower(on bool) Option {
	return func(v *Vocabulary) { v.lower = on }
}

// New creates a vocabulary keeping ids below maxWords when transforming.
// maxWords <= 0 keeps every id.
func New(maxWords int, opts ...Option) *Vocabulary {
	v := &Vocabulary{
		maxWords: maxWords,
		filters:  DefaultFilters,
		lower:    true,
		counts:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Vocabulary) split(text string) []string {
	if v.lower {
		text = strings.ToLower(text)
	}
	if v.filters != "" {
		text = strings.Map(func(r rune) rune {
			if strings.ContainsRune(v.filters, r) {
				return ' '
			}
			return r
		}, text)
	}
	return strings.Fields(text)
}

// Fit counts the words of texts and rebuilds the id index. Calling Fit again
// adds to the existing counts.
func (v *Vocabulary) Fit(texts []string) {
	for _, text := range texts {
		for _, w := range v.split(text) {
			if _, ok := v.counts[w]; !ok {
				v.order = append(v.order, w)
			}
			v.counts[w]++
		}
	}

	ranked := make([]string, len(v.order))
	copy(ranked, v.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return v.counts[ranked[i]] > v.counts[ranked[j]]
	})

	v.words = v.words[:0]
	if v.oovToken != "" {
		v.words = append(v.words, v.oovToken)
	}
	for _, w := range ranked {
		if w == v.oovToken {
			continue
		}
		v.words = append(v.words, w)
	}

	v.index = make(map[string]int, len(v.words))
	for i, w := range v.words {
		v.index[w] = i + 1
	}
	v.fitted = true
}

// Transform maps each text to its id sequence. Words without an id below
// maxWords are dropped, or mapped to the OOV id when one is configured.
func (v *Vocabulary) Transform(texts []string) ([][]int, error) {
	if !v.fitted {
		return nil, fmt.Errorf("vocabulary transform: %w", internalerr.ErrNotFitted)
	}

	oov := 0
	if v.oovToken != "" {
		oov = v.index[v.oovToken]
	}

	out := make([][]int, len(texts))
	for i, text := range texts {
		seq := []int{}
		for _, w := range v.split(text) {
			id, ok := v.index[w]
			if ok && (v.maxWords <= 0 || id < v.maxWords) {
				seq = append(seq, id)
			} else if oov > 0 {
				seq = append(seq, oov)
			}
		}
		out[i] = seq
	}
	return out, nil
}

// FitTransform fits on texts and transforms them.
func (v *Vocabulary) FitTransform(texts []string) ([][]int, error) {
	v.Fit(texts)
	return v.Transform(texts)
}

// Len returns the number of indexed words, including the OOV token.
func (v *Vocabulary) Len() int {
	return len(v.words)
}

// ID returns the id of word.
func (v *Vocabulary) ID(word string) (int, bool) {
	id, ok := v.index[word]
	return id, ok
}

// Word returns the word with the given id.
func (v *Vocabulary) Word(id int) (string, bool) {
	if id < 1 || id > len(v.words) {
		return "", false
	}
	return v.words[id-1], true
}

// Count returns how often word was seen during Fit.
func (v *Vocabulary) Count(word string) int {
	return v.counts[word]
}
