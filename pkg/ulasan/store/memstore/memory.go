package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
	"github.com/cognicore/ulasan/pkg/ulasan/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	mappings map[string]map[string]string
	sets     map[string]map[string]struct{}
	imports  []store.Import
	now      func() time.Time
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		mappings: make(map[string]map[string]string),
		sets:     make(map[string]map[string]struct{}),
		now:      time.Now,
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// ImportMapping replaces the entries of a mapping resource.
func (s *Store) ImportMapping(ctx context.Context, name string, entries map[string]string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("import mapping: empty resource name: %w", internalerr.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]string, len(entries))
	for src, dst := range entries {
		if src == "" {
			continue
		}
		m[src] = dst
	}
	s.mappings[name] = m
	return s.record(name, store.KindMapping, len(m)), nil
}

// ImportSet replaces the tokens of a set resource.
func (s *Store) ImportSet(ctx context.Context, name string, tokens []string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("import set: empty resource name: %w", internalerr.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		set[tok] = struct{}{}
	}
	s.sets[name] = set
	return s.record(name, store.KindSet, len(set)), nil
}

// record must be called with s.mu held.
func (s *Store) record(name string, kind store.Kind, entries int) string {
	now := s.now()
	id := store.NewImportID(now)
	s.imports = append(s.imports, store.Import{
		ID:         id,
		Resource:   name,
		Kind:       kind,
		Entries:    entries,
		ImportedAt: now.UTC(),
	})
	return id
}

// Mapping returns a copy of the entries of a mapping resource.
func (s *Store) Mapping(ctx context.Context, name string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.mappings[name]
	if !ok {
		return nil, fmt.Errorf("%s resource %q: %w", store.KindMapping, name, internalerr.ErrNotFound)
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

// Set returns the sorted tokens of a set resource.
func (s *Store) Set(ctx context.Context, name string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[name]
	if !ok {
		return nil, fmt.Errorf("%s resource %q: %w", store.KindSet, name, internalerr.ErrNotFound)
	}
	out := make([]string, 0, len(set))
	for tok := range set {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out, nil
}

// Imports lists import records, oldest first.
func (s *Store) Imports(ctx context.Context) ([]store.Import, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Import, len(s.imports))
	copy(out, s.imports)
	return out, nil
}

var _ store.Store = (*Store)(nil)
