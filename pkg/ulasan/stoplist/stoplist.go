package stoplist

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed stopwords_id.txt
var indonesianRaw []byte

// Set is an immutable token membership set (stopwords, root words).
type Set struct {
	words map[string]struct{}
}

// NewSet creates a set from the given tokens. Empty tokens are ignored.
func NewSet(words []string) *Set {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		m[w] = struct{}{}
	}
	return &Set{words: m}
}

// Contains checks if a token is in the set
func (s *Set) Contains(token string) bool {
	_, ok := s.words[token]
	return ok
}

// Len returns the number of tokens in the set
func (s *Set) Len() int {
	return len(s.words)
}

// All returns all tokens, sorted
func (s *Set) All() []string {
	result := make([]string, 0, len(s.words))
	for w := range s.words {
		result = append(result, w)
	}
	sort.Strings(result)
	return result
}

// Indonesian returns the bundled Indonesian stopword list.
func Indonesian() *Set {
	words, _ := readWordList(bytes.NewReader(indonesianRaw))
	return NewSet(words)
}

// LoadWordList loads a newline-separated word list (e.g. kata-dasar.txt).
// Surrounding whitespace is trimmed and blank lines are skipped.
func LoadWordList(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	words, err := readWordList(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewSet(words), nil
}

func readWordList(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	return words, scanner.Err()
}

// LoadYAML loads a word list from a YAML file
//
// Expected format:
//
//	terms:
//	  - yang
//	  - dan
func LoadYAML(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl struct {
		Terms []string `yaml:"terms"`
	}
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return NewSet(sl.Terms), nil
}
