package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store persists lexical resources so they can be loaded from a dictionary
// table instead of flat files.
type Store interface {
	Close() error

	// ImportMapping replaces the contents of a mapping resource and returns
	// the import id.
	ImportMapping(ctx context.Context, name string, entries map[string]string) (string, error)
	// ImportSet replaces the contents of a membership-set resource and
	// returns the import id.
	ImportSet(ctx context.Context, name string, tokens []string) (string, error)

	// Mapping returns the stored entries of a mapping resource.
	// It returns internalerr.ErrNotFound when the resource was never imported.
	Mapping(ctx context.Context, name string) (map[string]string, error)
	// Set returns the stored tokens of a set resource, sorted.
	// It returns internalerr.ErrNotFound when the resource was never imported.
	Set(ctx context.Context, name string) ([]string, error)

	// Imports lists import records, oldest first.
	Imports(ctx context.Context) ([]Import, error)
}

// Kind distinguishes the two resource shapes.
type Kind string

const (
	KindMapping Kind = "mapping"
	KindSet     Kind = "set"
)

// Import records one ImportMapping/ImportSet call
type Import struct {
	ID         string
	Resource   string
	Kind       Kind
	Entries    int
	ImportedAt time.Time
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewImportID returns a lexicographically sortable import id.
func NewImportID(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
