package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Pipeline.Tokenizer != "prose" {
		t.Errorf("Tokenizer = %q, want prose", cfg.Pipeline.Tokenizer)
	}
	if cfg.Pipeline.Language != "indonesian" {
		t.Errorf("Language = %q, want indonesian", cfg.Pipeline.Language)
	}
	if !reflect.DeepEqual(cfg.Pipeline.Stages, DefaultStages) {
		t.Errorf("Stages = %v, want %v", cfg.Pipeline.Stages, DefaultStages)
	}
	if !cfg.Pipeline.Lowercases() {
		t.Error("Lowercase should default to true")
	}
	if cfg.Window.MaxLen != 100 || cfg.Window.Padding != "pre" || cfg.Window.Truncating != "pre" {
		t.Errorf("Window defaults = %+v", cfg.Window)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}

	// defaults must not alias the package-level slice
	cfg.Pipeline.Stages[0] = "changed"
	if DefaultStages[0] != StageFormalize {
		t.Error("Default() shares its stage slice with DefaultStages")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ulasan.yaml", `data_dir: corpus
store: lexicon.db
resources:
  informal-formal: {kind: mapping, store: true}
  root-words: {kind: set, path: roots.txt}
pipeline:
  tokenizer: scan
  lowercase: false
  strip_html: true
  stages: [formalize, stopwords]
vocabulary:
  max_words: 500
  oov_token: "<oov>"
window:
  max_len: 5
  min_len: 2
  padding: post
dataset:
  path: reviews.tsv
  text_column: review
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataDir != "corpus" || cfg.Store != "lexicon.db" {
		t.Errorf("DataDir/Store = %q/%q", cfg.DataDir, cfg.Store)
	}
	if r := cfg.Resources["informal-formal"]; r.Kind != "mapping" || !r.Store {
		t.Errorf("informal-formal = %+v", r)
	}
	if r := cfg.Resources["root-words"]; r.Kind != "set" || r.Path != "roots.txt" {
		t.Errorf("root-words = %+v", r)
	}
	if cfg.Pipeline.Tokenizer != "scan" || cfg.Pipeline.Lowercases() || !cfg.Pipeline.StripHTML {
		t.Errorf("Pipeline = %+v", cfg.Pipeline)
	}
	if !reflect.DeepEqual(cfg.Pipeline.Stages, []string{StageFormalize, StageStopwords}) {
		t.Errorf("Stages = %v", cfg.Pipeline.Stages)
	}
	if cfg.Pipeline.Language != "indonesian" {
		t.Errorf("Language default not applied: %q", cfg.Pipeline.Language)
	}
	if cfg.Vocabulary.MaxWords != 500 || cfg.Vocabulary.OOVToken != "<oov>" {
		t.Errorf("Vocabulary = %+v", cfg.Vocabulary)
	}
	if cfg.Window.MaxLen != 5 || cfg.Window.MinLen == nil || *cfg.Window.MinLen != 2 {
		t.Errorf("Window = %+v", cfg.Window)
	}
	if cfg.Window.Padding != "post" || cfg.Window.Truncating != "pre" {
		t.Errorf("Window sides = %s/%s", cfg.Window.Padding, cfg.Window.Truncating)
	}
	if cfg.Dataset.Path != "reviews.tsv" || cfg.Dataset.TextColumn != "review" {
		t.Errorf("Dataset = %+v", cfg.Dataset)
	}
}

func TestLoadEmptyStagesKept(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ulasan.yaml", "pipeline:\n  stages: []\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Pipeline.Stages) != 0 {
		t.Errorf("Explicit empty stage list replaced by defaults: %v", cfg.Pipeline.Stages)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad tokenizer", "pipeline:\n  tokenizer: bert\n"},
		{"unknown stage", "pipeline:\n  stages: [formalize, spellcheck]\n"},
		{"bad kind", "resources:\n  x: {kind: list, path: x.txt}\n"},
		{"store without db", "resources:\n  x: {kind: set, store: true}\n"},
		{"no path", "resources:\n  x: {kind: mapping}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "ulasan.yaml", tt.content)
			_, err := Load(path)
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadMissingAndMalformed(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}

	path := writeFile(t, dir, "bad.yaml", "pipeline: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Error("Expected a parse error")
	}
}
