// Package stem reduces inflected words to their root form.
package stem

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
)

// Stemmer maps a word to its stem.
type Stemmer interface {
	Stem(word string) string
}

// Dictionary lists the known root words.
type Dictionary interface {
	All() []string
}

// Snowball stems with one of the snowball algorithms.
type Snowball struct {
	Language string
}

// Stem returns the snowball stem, or the word unchanged when the algorithm
// rejects it.
func (s Snowball) Stem(word string) string {
	stemmed, err := snowball.Stem(word, s.Language, true)
	if err != nil {
		return word
	}
	return stemmed
}

var snowballLanguages = map[string]bool{
	"english":   true,
	"spanish":   true,
	"french":    true,
	"russian":   true,
	"swedish":   true,
	"norwegian": true,
	"hungarian": true,
}

// New returns the stemmer for language. Indonesian needs a root-word
// dictionary; snowball languages ignore it.
func New(language string, roots Dictionary) (Stemmer, error) {
	lang := strings.ToLower(strings.TrimSpace(language))
	switch {
	case lang == "indonesian" || lang == "id":
		if roots == nil {
			return nil, fmt.Errorf("indonesian stemmer needs a root-word dictionary: %w", internalerr.ErrInvalidConfig)
		}
		return NewIndonesian(roots), nil
	case snowballLanguages[lang]:
		return Snowball{Language: lang}, nil
	}
	return nil, fmt.Errorf("unsupported stemmer language %q: %w", language, internalerr.ErrInvalidConfig)
}
