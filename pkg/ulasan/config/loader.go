package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/ulasan/internal/dataset"
	"github.com/cognicore/ulasan/pkg/ulasan/ingest"
	"github.com/cognicore/ulasan/pkg/ulasan/resource"
	"github.com/cognicore/ulasan/pkg/ulasan/store"
	"github.com/cognicore/ulasan/pkg/ulasan/store/sqlite"
	"github.com/cognicore/ulasan/pkg/ulasan/vocab"
	"github.com/cognicore/ulasan/pkg/ulasan/window"
)

// Loader loads the configuration file and constructs components
type Loader struct {
	ConfigPath string
}

// Components holds all loaded configuration components
type Components struct {
	Config     *Config
	Registry   *resource.Registry
	Store      store.Store // nil unless the config names a store
	Pipeline   *ingest.Pipeline
	Splitter   *window.Splitter
	Vocabulary *vocab.Vocabulary
	Dataset    *dataset.Dataset // nil unless the config names a dataset
}

// Close releases the lexical store, if any.
func (c *Components) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// Load reads the configuration and returns initialized components.
// An empty ConfigPath uses Default().
func (l *Loader) Load() (*Components, error) {
	cfg := Default()
	if l.ConfigPath != "" {
		var err error
		cfg, err = Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	return Build(cfg)
}

// Build validates cfg and constructs the components it describes.
func Build(cfg *Config) (*Components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	comp := &Components{Config: cfg}

	if cfg.Store != "" {
		st, err := sqlite.OpenSQLite(context.Background(), cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("open store %s: %w", cfg.Store, err)
		}
		comp.Store = st
	}

	fail := func(err error) (*Components, error) {
		comp.Close()
		return nil, err
	}

	reg, err := buildRegistry(cfg, comp.Store)
	if err != nil {
		return fail(err)
	}
	comp.Registry = reg

	comp.Pipeline, err = buildPipeline(cfg.Pipeline, reg)
	if err != nil {
		return fail(fmt.Errorf("build pipeline: %w", err))
	}

	comp.Splitter, err = buildSplitter(cfg.Window)
	if err != nil {
		return fail(fmt.Errorf("build window: %w", err))
	}

	var opts []vocab.Option
	if cfg.Vocabulary.OOVToken != "" {
		opts = append(opts, vocab.WithOOVToken(cfg.Vocabulary.OOVToken))
	}
	comp.Vocabulary = vocab.New(cfg.Vocabulary.MaxWords, opts...)

	if cfg.Dataset.Path != "" {
		ds, err := dataset.Load(cfg.Dataset.Path, dataset.Columns{
			Text:  cfg.Dataset.TextColumn,
			Label: cfg.Dataset.LabelColumn,
		})
		if err != nil {
			return fail(fmt.Errorf("load dataset: %w", err))
		}
		comp.Dataset = ds
	}

	return comp, nil
}

// buildRegistry returns the process-wide registry when nothing is
// overridden, otherwise a private one.
func buildRegistry(cfg *Config, st store.Store) (*resource.Registry, error) {
	if cfg.DataDir == "" && len(cfg.Resources) == 0 {
		return resource.Default(), nil
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = resource.DataDir()
	}
	reg := resource.NewStandard(dataDir)

	for name, r := range cfg.Resources {
		var load resource.Loader
		switch kind := strings.ToLower(r.Kind); {
		case kind == "mapping" && r.Store:
			load = resource.MappingFromStore(st, name)
		case kind == "mapping":
			load = resource.MappingFile(r.Path)
		case r.Store:
			load = resource.SetFromStore(st, name)
		default:
			load = resource.SetFile(r.Path)
		}
		if err := reg.Register(name, load); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func buildPipeline(p Pipeline, reg *resource.Registry) (*ingest.Pipeline, error) {
	var words ingest.WordTokenizer = ingest.ProseTokenizer{}
	if p.Tokenizer == "scan" {
		words = ingest.ScanTokenizer{}
	}
	tok := ingest.NewTokenizer(words,
		ingest.WithLowercase(p.Lowercases()),
		ingest.WithHTMLStrip(p.StripHTML),
	)

	stages := make([]ingest.Stage, 0, len(p.Stages))
	for _, name := range p.Stages {
		var (
			stage ingest.Stage
			err   error
		)
		switch name {
		case StageFormalize:
			stage, err = ingest.NewWordsFormalizer(reg)
		case StageSpecialCharacters:
			stage = ingest.SpecialCharacterFilter{}
		case StageStopwords:
			stage, err = ingest.NewStopWordsFilter(reg)
		case StageUnknownWords:
			stage, err = ingest.NewUnknownWordsFilter(reg)
		case StageLemmatize:
			stage, err = ingest.NewWordsLemmatization(reg, p.Language)
		default:
			return nil, fmt.Errorf("unknown stage %q", name)
		}
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", name, err)
		}
		stages = append(stages, stage)
	}
	return ingest.NewPipeline(tok, stages...), nil
}

func buildSplitter(w Window) (*window.Splitter, error) {
	padding, err := window.ParseSide(w.Padding)
	if err != nil {
		return nil, err
	}
	truncating, err := window.ParseSide(w.Truncating)
	if err != nil {
		return nil, err
	}

	opts := []window.Option{
		window.WithPadding(padding),
		window.WithTruncating(truncating),
		window.WithPaddingValue(w.PaddingValue),
	}
	if w.MinLen != nil {
		opts = append(opts, window.WithMinLen(*w.MinLen))
	}
	return window.New(w.MaxLen, opts...)
}
