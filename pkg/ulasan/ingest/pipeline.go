package ingest

import (
	"fmt"
	"log/slog"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
	"github.com/cognicore/ulasan/pkg/ulasan/resource"
)

// Stage transforms a batch of token sequences. The output must hold exactly
// one sequence per input sequence.
type Stage interface {
	Transform(batch [][]string) [][]string
}

// Pipeline orchestrates the normalization flow:
// text → tokenization → stage 1 → ... → stage n
type Pipeline struct {
	tokenizer *Tokenizer
	stages    []Stage
}

// NewPipeline creates a pipeline. A nil tokenizer means NewTokenizer(nil).
func NewPipeline(tokenizer *Tokenizer, stages ...Stage) *Pipeline {
	if tokenizer == nil {
		tokenizer = NewTokenizer(nil)
	}
	return &Pipeline{tokenizer: tokenizer, stages: stages}
}

// NewDefaultPipeline builds the standard Indonesian review pipeline:
// tokenize → formalize → drop symbols → drop stopwords → stem.
func NewDefaultPipeline(reg *resource.Registry) (*Pipeline, error) {
	formalizer, err := NewWordsFormalizer(reg)
	if err != nil {
		return nil, err
	}
	stopwords, err := NewStopWordsFilter(reg)
	if err != nil {
		return nil, err
	}
	lemmatizer, err := NewWordsLemmatization(reg, "indonesian")
	if err != nil {
		return nil, err
	}

	return NewPipeline(
		NewTokenizer(nil),
		formalizer,
		SpecialCharacterFilter{},
		stopwords,
		lemmatizer,
	), nil
}

// Tokenizer returns the tokenizer the pipeline starts with.
func (p *Pipeline) Tokenizer() *Tokenizer {
	return p.tokenizer
}

// Stages returns the stages after tokenization.
func (p *Pipeline) Stages() []Stage {
	return p.stages
}

// Process runs documents through the tokenizer and every stage.
func (p *Pipeline) Process(docs []string) ([][]string, error) {
	return p.ProcessTokens(p.tokenizer.Transform(docs))
}

// ProcessTokens runs already tokenized sequences through every stage.
// No partial result is returned when a stage changes the batch size.
func (p *Pipeline) ProcessTokens(batch [][]string) ([][]string, error) {
	want := len(batch)
	slog.Debug("pipeline start", "docs", want, "tokens", countTokens(batch))

	for i, stage := range p.stages {
		batch = stage.Transform(batch)
		if len(batch) != want {
			return nil, &internalerr.ShapeMismatchError{
				What: fmt.Sprintf("stage %d (%T) batch size", i, stage),
				Got:  len(batch),
				Want: want,
			}
		}
		slog.Debug("pipeline stage", "stage", fmt.Sprintf("%T", stage), "tokens", countTokens(batch))
	}
	return batch, nil
}

// ProcessText runs Process and joins each result into a string.
func (p *Pipeline) ProcessText(docs []string) ([]string, error) {
	batch, err := p.Process(docs)
	if err != nil {
		return nil, err
	}
	return TokenToText{}.Transform(batch), nil
}

func countTokens(batch [][]string) int {
	n := 0
	for _, tokens := range batch {
		n += len(tokens)
	}
	return n
}
