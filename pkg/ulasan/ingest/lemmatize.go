package ingest

import (
	"strings"

	"github.com/cognicore/ulasan/pkg/ulasan/resource"
	"github.com/cognicore/ulasan/pkg/ulasan/stem"
)

// WordsLemmatization replaces every token with its stem.
type WordsLemmatization struct {
	stemmer stem.Stemmer
}

// NewLemmatizer wraps an existing stemmer.
func NewLemmatizer(s stem.Stemmer) *WordsLemmatization {
	return &WordsLemmatization{stemmer: s}
}

// NewWordsLemmatization builds the stemmer for language. Indonesian checks
// candidates against the root-word resource of reg.
func NewWordsLemmatization(reg *resource.Registry, language string) (*WordsLemmatization, error) {
	var roots stem.Dictionary
	switch strings.ToLower(language) {
	case "indonesian", "id":
		set, err := reg.Set(resource.RootWords)
		if err != nil {
			return nil, err
		}
		roots = set
	}

	s, err := stem.New(language, roots)
	if err != nil {
		return nil, err
	}
	return NewLemmatizer(s), nil
}

// Lemmatize stems the tokens of one sequence.
func (l *WordsLemmatization) Lemmatize(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = l.stemmer.Stem(tok)
	}
	return out
}

// Transform stems every sequence of the batch.
func (l *WordsLemmatization) Transform(batch [][]string) [][]string {
	out := make([][]string, len(batch))
	for i, tokens := range batch {
		out[i] = l.Lemmatize(tokens)
	}
	return out
}
