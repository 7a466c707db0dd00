package ingest

import (
	"strings"

	"github.com/cognicore/ulasan/pkg/ulasan/lexicon"
	"github.com/cognicore/ulasan/pkg/ulasan/resource"
)

// WordsMapper replaces tokens through a mapping. Tokens without an entry are
// kept. A replacement containing spaces becomes several tokens in place.
type WordsMapper struct {
	mapping *lexicon.Lexicon
}

// NewWordsMapper creates a mapper over the given mapping.
func NewWordsMapper(mapping *lexicon.Lexicon) *WordsMapper {
	return &WordsMapper{mapping: mapping}
}

// NewWordsFormalizer maps informal words to their formal form using the
// informal-formal resource of reg.
func NewWordsFormalizer(reg *resource.Registry) (*WordsMapper, error) {
	lex, err := reg.Mapping(resource.InformalFormal)
	if err != nil {
		return nil, err
	}
	return NewWordsMapper(lex), nil
}

// Map replaces the tokens of one sequence. A result containing a space is
// split on whitespace in place; any other result, empty included, is kept
// as one token.
func (m *WordsMapper) Map(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = m.mapping.Normalize(tok)
		if strings.Contains(tok, " ") {
			out = append(out, strings.Fields(tok)...)
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Transform maps every sequence of the batch.
func (m *WordsMapper) Transform(batch [][]string) [][]string {
	out := make([][]string, len(batch))
	for i, tokens := range batch {
		out[i] = m.Map(tokens)
	}
	return out
}
