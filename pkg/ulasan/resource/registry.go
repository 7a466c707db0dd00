// Package resource provides the process-wide registry of lexical resources.
//
// A resource is loaded the first time it is asked for and shared read-only
// afterwards. Concurrent first access performs exactly one load.
package resource

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
	"github.com/cognicore/ulasan/pkg/ulasan/lexicon"
	"github.com/cognicore/ulasan/pkg/ulasan/stoplist"
)

// Standard resource names.
const (
	InformalFormal = "informal-formal"
	RootWords      = "root-words"
	Stopwords      = "stopwords"
)

// DataDirEnv overrides the directory the standard resources are read from.
const DataDirEnv = "ULASAN_DATA_DIR"

// Loader builds a resource value. It must return a *lexicon.Lexicon or a
// *stoplist.Set.
type Loader func() (any, error)

type entry struct {
	load    Loader
	started atomic.Bool
	once    sync.Once
	val     any
	err     error
}

// Registry maps resource names to lazily loaded values.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// NewStandard creates a registry with the standard resources read from dataDir.
func NewStandard(dataDir string) *Registry {
	r := NewRegistry()
	r.mustRegister(InformalFormal, MappingFile(filepath.Join(dataDir, "indo-collex", "informal-to-formal-dictionary.tsv")))
	r.mustRegister(RootWords, SetFile(filepath.Join(dataDir, "sastrawi", "kata-dasar.txt")))
	r.mustRegister(Stopwords, EmbeddedStopwords())
	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return NewStandard(DataDir())
})

// Default returns the process-wide registry holding the standard resources.
func Default() *Registry {
	return defaultRegistry()
}

// DataDir returns the directory standard resources are read from.
func DataDir() string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}
	return "data"
}

func (r *Registry) mustRegister(name string, load Loader) {
	if err := r.Register(name, load); err != nil {
		panic(err)
	}
}

// Register installs the loader for name. A loader can be replaced until the
// resource has been requested; after that Register returns ErrInvalidConfig.
func (r *Registry) Register(name string, load Loader) error {
	if name == "" || load == nil {
		return fmt.Errorf("register resource %q: %w", name, internalerr.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[name]; ok && e.started.Load() {
		return fmt.Errorf("register resource %q: already loaded: %w", name, internalerr.ErrInvalidConfig)
	}
	r.entries[name] = &entry{load: load}
	return nil
}

// Names returns the registered resource names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Mapping returns the named mapping resource, loading it on first use.
func (r *Registry) Mapping(name string) (*lexicon.Lexicon, error) {
	v, err := r.get(name)
	if err != nil {
		return nil, err
	}
	lex, ok := v.(*lexicon.Lexicon)
	if !ok {
		return nil, &internalerr.ResourceError{
			Name: name,
			Err:  fmt.Errorf("resource is %T, not a mapping: %w", v, internalerr.ErrInvalidConfig),
		}
	}
	return lex, nil
}

// Set returns the named membership set, loading it on first use.
func (r *Registry) Set(name string) (*stoplist.Set, error) {
	v, err := r.get(name)
	if err != nil {
		return nil, err
	}
	set, ok := v.(*stoplist.Set)
	if !ok {
		return nil, &internalerr.ResourceError{
			Name: name,
			Err:  fmt.Errorf("resource is %T, not a set: %w", v, internalerr.ErrInvalidConfig),
		}
	}
	return set, nil
}

// Preload loads the named resources now so a missing file fails early.
func (r *Registry) Preload(names ...string) error {
	for _, name := range names {
		if _, err := r.get(name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) get(name string) (any, error) {
	r.mu.Lock()
	e, ok := r.entries[name]
	if ok {
		e.started.Store(true)
	}
	r.mu.Unlock()

	if !ok {
		return nil, &internalerr.ResourceError{Name: name, Err: internalerr.ErrNotFound}
	}

	e.once.Do(func() {
		start := time.Now()
		v, err := e.load()
		if err != nil {
			e.err = &internalerr.ResourceError{Name: name, Err: err}
			slog.Debug("resource load failed", "name", name, "error", err)
			return
		}
		if v == nil {
			e.err = &internalerr.ResourceError{Name: name, Err: fmt.Errorf("loader returned nil: %w", internalerr.ErrInvalidConfig)}
			return
		}
		e.val = v
		slog.Debug("resource loaded", "name", name, "size", sizeOf(v), "took", time.Since(start))
	})
	return e.val, e.err
}

func sizeOf(v any) int {
	switch r := v.(type) {
	case *lexicon.Lexicon:
		return r.Len()
	case *stoplist.Set:
		return r.Len()
	}
	return 0
}
