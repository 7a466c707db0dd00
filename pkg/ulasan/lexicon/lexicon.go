package lexicon

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon is a read-only word mapping, typically informal → formal Indonesian:
//   - "gak"  → "tidak"
//   - "bgt"  → "banget"
//   - "gpp"  → "tidak apa apa" (multi-word values are re-split by the caller)
//
// A Lexicon is built once and never mutated afterwards, so it is safe to share
// between goroutines without locking.
type Lexicon struct {
	// source -> replacement
	entries map[string]string
}

// New creates a lexicon from a source → replacement map. The map is copied.
func New(entries map[string]string) *Lexicon {
	m := make(map[string]string, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return &Lexicon{entries: m}
}

// LoadTSV loads a tab-separated informal/formal table.
//
// Expected format:
//
//	informal	formal
//	gak	tidak
//	bgt	banget
//
// The header row locates the "informal" and "formal" columns. A file without
// such a header is read as two columns (source, replacement) from the first
// line on. Later duplicates of a key win, like a dict built row by row.
func LoadTSV(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries := make(map[string]string)
	srcCol, dstCol := 0, 1
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "\t")

		if lineNo == 1 {
			if s, d, ok := headerColumns(parts); ok {
				srcCol, dstCol = s, d
				continue
			}
		}

		if len(parts) <= srcCol || len(parts) <= dstCol {
			return nil, fmt.Errorf("%s:%d: expected at least %d tab-separated columns, got %d",
				path, lineNo, max(srcCol, dstCol)+1, len(parts))
		}

		src := strings.TrimSpace(parts[srcCol])
		if src == "" {
			continue
		}
		entries[src] = strings.TrimSpace(parts[dstCol])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &Lexicon{entries: entries}, nil
}

func headerColumns(parts []string) (src, dst int, ok bool) {
	src, dst = -1, -1
	for i, p := range parts {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "informal":
			src = i
		case "formal":
			dst = i
		}
	}
	return src, dst, src >= 0 && dst >= 0
}

// LoadFromYAML loads mappings from a YAML file.
//
// Expected format:
//
//	mappings:
//	  - formal: tidak
//	    informal: [ga, gak, nggak]
//	  - formal: banget
//	    informal: [bgt]
//
// Every informal variant maps to its formal form.
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Mappings []struct {
			Formal   string   `yaml:"formal"`
			Informal []string `yaml:"informal"`
		} `yaml:"mappings"`
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	entries := make(map[string]string)
	for _, entry := range config.Mappings {
		formal := strings.TrimSpace(entry.Formal)
		for _, v := range entry.Informal {
			v = strings.TrimSpace(v)
			if v != "" && v != formal {
				entries[v] = formal
			}
		}
	}

	return &Lexicon{entries: entries}, nil
}

// Lookup returns the replacement for token, if any.
func (l *Lexicon) Lookup(token string) (string, bool) {
	v, ok := l.entries[token]
	return v, ok
}

// Normalize returns the replacement of a token, or the token itself when the
// lexicon has no entry for it.
//
// Examples:
//   - Normalize("gak") -> "tidak"
//   - Normalize("produk") -> "produk"
func (l *Lexicon) Normalize(token string) string {
	if v, ok := l.entries[token]; ok {
		return v
	}
	return token
}

// Len returns the number of entries.
func (l *Lexicon) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the mapping.
func (l *Lexicon) Entries() map[string]string {
	out := make(map[string]string, len(l.entries))
	for k, v := range l.entries {
		out[k] = v
	}
	return out
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() LexiconStats {
	stats := LexiconStats{Entries: len(l.entries)}
	targets := make(map[string]struct{})
	for _, v := range l.entries {
		targets[v] = struct{}{}
		if len(strings.Fields(v)) > 1 {
			stats.MultiWord++
		}
	}
	stats.Targets = len(targets)
	return stats
}

// Sources returns all mapped keys in sorted order.
func (l *Lexicon) Sources() []string {
	keys := make([]string, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LexiconStats holds statistics about lexicon contents.
type LexiconStats struct {
	Entries   int // Number of source tokens
	Targets   int // Number of distinct replacements
	MultiWord int // Entries whose replacement spans several words
}
