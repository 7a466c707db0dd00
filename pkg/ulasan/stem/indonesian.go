package stem

import (
	"strings"

	"github.com/RadhiFadlillah/go-sastrawi"
)

// Indonesian wraps the Sastrawi (Nazief-Adriani) stemmer. A candidate root
// is only accepted when it appears in the dictionary.
type Indonesian struct {
	stemmer sastrawi.Stemmer
}

// NewIndonesian creates a stemmer over the words of roots.
func NewIndonesian(roots Dictionary) *Indonesian {
	dict := sastrawi.NewDictionary(roots.All()...)
	return &Indonesian{stemmer: sastrawi.NewStemmer(dict)}
}

// Stem returns the root of word, or the lower-cased word when no root is found.
func (s *Indonesian) Stem(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return w
	}
	return s.stemmer.Stem(w)
}
