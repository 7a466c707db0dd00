package resource

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/cognicore/ulasan/pkg/ulasan/lexicon"
	"github.com/cognicore/ulasan/pkg/ulasan/stoplist"
	"github.com/cognicore/ulasan/pkg/ulasan/store"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// MappingFile loads a mapping from a TSV dictionary, or from a YAML lexicon
// when the path ends in .yaml or .yml.
func MappingFile(path string) Loader {
	return func() (any, error) {
		if isYAML(path) {
			return lexicon.LoadFromYAML(path)
		}
		return lexicon.LoadTSV(path)
	}
}

// SetFile loads a membership set from a word list, or from a YAML stoplist
// when the path ends in .yaml or .yml.
func SetFile(path string) Loader {
	return func() (any, error) {
		if isYAML(path) {
			return stoplist.LoadYAML(path)
		}
		return stoplist.LoadWordList(path)
	}
}

// EmbeddedStopwords serves the bundled Indonesian stopword list.
func EmbeddedStopwords() Loader {
	return func() (any, error) {
		return stoplist.Indonesian(), nil
	}
}

// MappingFromStore reads a mapping previously imported into st.
func MappingFromStore(st store.Store, name string) Loader {
	return func() (any, error) {
		entries, err := st.Mapping(context.Background(), name)
		if err != nil {
			return nil, err
		}
		return lexicon.New(entries), nil
	}
}

// SetFromStore reads a membership set previously imported into st.
func SetFromStore(st store.Store, name string) Loader {
	return func() (any, error) {
		tokens, err := st.Set(context.Background(), name)
		if err != nil {
			return nil, err
		}
		return stoplist.NewSet(tokens), nil
	}
}
