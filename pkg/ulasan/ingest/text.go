package ingest

import "strings"

// TokenToText joins each token sequence back into one space-separated string.
type TokenToText struct{}

// Transform joins every sequence of the batch.
func (TokenToText) Transform(batch [][]string) []string {
	out := make([]string, len(batch))
	for i, tokens := range batch {
		out[i] = strings.Join(tokens, " ")
	}
	return out
}
