package ingest

import (
	"regexp"
	"sync"

	"github.com/cognicore/ulasan/pkg/ulasan/resource"
	"github.com/cognicore/ulasan/pkg/ulasan/stoplist"
)

// WordsFilter keeps or drops tokens by set membership. When Exclusive is
// true tokens in the set are dropped; otherwise only tokens in the set are
// kept.
type WordsFilter struct {
	set       *stoplist.Set
	Exclusive bool
}

// NewWordsFilter creates a filter over set.
func NewWordsFilter(set *stoplist.Set, exclusive bool) *WordsFilter {
	return &WordsFilter{set: set, Exclusive: exclusive}
}

// NewStopWordsFilter drops the stopwords of reg.
func NewStopWordsFilter(reg *resource.Registry) (*WordsFilter, error) {
	set, err := reg.Set(resource.Stopwords)
	if err != nil {
		return nil, err
	}
	return NewWordsFilter(set, true), nil
}

// NewUnknownWordsFilter keeps only the root words of reg.
func NewUnknownWordsFilter(reg *resource.Registry) (*WordsFilter, error) {
	set, err := reg.Set(resource.RootWords)
	if err != nil {
		return nil, err
	}
	return NewWordsFilter(set, false), nil
}

// Filter applies the filter to one sequence.
func (f *WordsFilter) Filter(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if f.set.Contains(tok) != f.Exclusive {
			out = append(out, tok)
		}
	}
	return out
}

// Transform filters every sequence of the batch.
func (f *WordsFilter) Transform(batch [][]string) [][]string {
	out := make([][]string, len(batch))
	for i, tokens := range batch {
		out[i] = f.Filter(tokens)
	}
	return out
}

// Underscore is neither a letter nor a digit, so "__" is a symbol run.
var symbolRun = sync.OnceValue(func() *regexp.Regexp {
	return regexp.MustCompile(`^[^\p{L}\p{N}]+$`)
})

// SpecialCharacterFilter drops empty tokens and tokens made only of
// punctuation or symbols. Other tokens are kept unchanged.
type SpecialCharacterFilter struct{}

// Filter applies the filter to one sequence.
func (SpecialCharacterFilter) Filter(tokens []string) []string {
	re := symbolRun()
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" || re.MatchString(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Transform filters every sequence of the batch.
func (f SpecialCharacterFilter) Transform(batch [][]string) [][]string {
	out := make([][]string, len(batch))
	for i, tokens := range batch {
		out[i] = f.Filter(tokens)
	}
	return out
}

// ExtractUnknownWords returns the tokens that are not root words, in order
// of first appearance and without duplicates.
func ExtractUnknownWords(reg *resource.Registry, words []string) ([]string, error) {
	roots, err := reg.Set(resource.RootWords)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var unknown []string
	for _, w := range words {
		if roots.Contains(w) {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		unknown = append(unknown, w)
	}
	return unknown, nil
}
