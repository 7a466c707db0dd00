package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
)

// Stage names accepted in pipeline.stages.
const (
	StageFormalize         = "formalize"
	StageSpecialCharacters = "special-characters"
	StageStopwords         = "stopwords"
	StageUnknownWords      = "unknown-words"
	StageLemmatize         = "lemmatize"
)

// DefaultStages is the standard review normalization order.
var DefaultStages = []string{
	StageFormalize,
	StageSpecialCharacters,
	StageStopwords,
	StageLemmatize,
}

// Config is the YAML configuration of a preprocessing run.
//
// Example:
//
//	data_dir: data
//	store: lexicon.db
//	resources:
//	  informal-formal: {kind: mapping, store: true}
//	  root-words: {kind: set, path: data/sastrawi/kata-dasar.txt}
//	pipeline:
//	  tokenizer: prose
//	  stages: [formalize, special-characters, stopwords, lemmatize]
//	vocabulary:
//	  max_words: 10000
//	window:
//	  max_len: 100
//	  min_len: 20
//	dataset:
//	  path: data/train.tsv
type Config struct {
	DataDir    string              `yaml:"data_dir"`
	Store      string              `yaml:"store"`
	Resources  map[string]Resource `yaml:"resources"`
	Pipeline   Pipeline            `yaml:"pipeline"`
	Vocabulary Vocabulary          `yaml:"vocabulary"`
	Window     Window              `yaml:"window"`
	Dataset    Dataset             `yaml:"dataset"`
}

// Resource overrides where a named lexical resource comes from.
type Resource struct {
	Kind  string `yaml:"kind"`  // mapping | set
	Path  string `yaml:"path"`  // TSV, word list or YAML file
	Store bool   `yaml:"store"` // read from the lexical store instead of Path
}

// Pipeline configures the normalization stages.
type Pipeline struct {
	Tokenizer string   `yaml:"tokenizer"` // prose | scan
	Lowercase *bool    `yaml:"lowercase"`
	StripHTML bool     `yaml:"strip_html"`
	Language  string   `yaml:"language"`
	Stages    []string `yaml:"stages"`
}

// Vocabulary configures the id sequencer.
type Vocabulary struct {
	MaxWords int    `yaml:"max_words"`
	OOVToken string `yaml:"oov_token"`
}

// Window configures the sequence windower.
type Window struct {
	MaxLen       int     `yaml:"max_len"`
	MinLen       *int    `yaml:"min_len"`
	Padding      string  `yaml:"padding"`
	Truncating   string  `yaml:"truncating"`
	PaddingValue float64 `yaml:"padding_value"`
}

// Dataset points at the input file.
type Dataset struct {
	Path        string `yaml:"path"`
	TextColumn  string `yaml:"text_column"`
	LabelColumn string `yaml:"label_column"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML configuration and fills in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Pipeline.Tokenizer == "" {
		c.Pipeline.Tokenizer = "prose"
	}
	if c.Pipeline.Language == "" {
		c.Pipeline.Language = "indonesian"
	}
	if c.Pipeline.Stages == nil {
		c.Pipeline.Stages = append([]string(nil), DefaultStages...)
	}
	if c.Window.MaxLen == 0 {
		c.Window.MaxLen = 100
	}
	if c.Window.Padding == "" {
		c.Window.Padding = "pre"
	}
	if c.Window.Truncating == "" {
		c.Window.Truncating = "pre"
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	switch c.Pipeline.Tokenizer {
	case "prose", "scan":
	default:
		return fmt.Errorf("pipeline.tokenizer %q: %w", c.Pipeline.Tokenizer, internalerr.ErrInvalidConfig)
	}

	for _, st := range c.Pipeline.Stages {
		switch st {
		case StageFormalize, StageSpecialCharacters, StageStopwords, StageUnknownWords, StageLemmatize:
		default:
			return fmt.Errorf("pipeline.stages: unknown stage %q: %w", st, internalerr.ErrInvalidConfig)
		}
	}

	for name, r := range c.Resources {
		switch strings.ToLower(r.Kind) {
		case "mapping", "set":
		default:
			return fmt.Errorf("resources.%s.kind %q: %w", name, r.Kind, internalerr.ErrInvalidConfig)
		}
		if r.Store && c.Store == "" {
			return fmt.Errorf("resources.%s reads from the store but no store is set: %w", name, internalerr.ErrInvalidConfig)
		}
		if !r.Store && r.Path == "" {
			return fmt.Errorf("resources.%s: path or store required: %w", name, internalerr.ErrInvalidConfig)
		}
	}
	return nil
}

// Lowercases reports whether the tokenizer lower-cases (default true).
func (p Pipeline) Lowercases() bool {
	return p.Lowercase == nil || *p.Lowercase
}
