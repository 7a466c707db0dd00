package ingest

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// WordTokenizer splits one piece of text into word tokens.
type WordTokenizer interface {
	Tokenize(text string) []string
}

// ProseTokenizer uses prose's Treebank-style word tokenizer.
type ProseTokenizer struct{}

// Tokenize splits text with prose, falling back to ScanTokenizer if the
// document cannot be built.
func (ProseTokenizer) Tokenize(text string) []string {
	doc, err := prose.NewDocument(
		text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		slog.Debug("prose tokenizer failed, using scanner", "error", err)
		return ScanTokenizer{}.Tokenize(text)
	}

	toks := doc.Tokens()
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		if tok.Text == "" {
			continue
		}
		out = append(out, tok.Text)
	}
	return out
}

// ScanTokenizer is a rune scanner: runs of letters, digits and inner
// hyphens form words, and every other non-space rune is a token of its own.
type ScanTokenizer struct{}

// Tokenize splits text into words and single-rune symbol tokens.
func (ScanTokenizer) Tokenize(text string) []string {
	tokens := []string{}
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r):
			current.WriteRune(r)
		case r == '-' && current.Len() > 0:
			current.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			tokens = append(tokens, string(r))
		}
	}

	// Don't forget the last token
	flush()
	return tokens
}

// Tokenizer turns documents into token sequences. It is the first stage of
// a Pipeline.
type Tokenizer struct {
	words     WordTokenizer
	stripHTML bool
	nfc       bool
	lower     bool
}

// TokenizerOption configures a Tokenizer.
type TokenizerOption func(*Tokenizer)

// WithHTMLStrip drops markup and keeps only the text content.
func WithHTMLStrip(on bool) TokenizerOption {
	return func(t *Tokenizer) { t.stripHTML = on }
}

// WithNFC toggles Unicode NFC normalization (default on).
func WithNFC(on bool) TokenizerOption {
	return func(t *Tokenizer) { t.nfc = on }
}

// WithLowercase toggles lower-casing with Indonesian case rules (default on).
func WithLowercase(on bool) TokenizerOption {
	return func(t *Tokenizer) { t.lower = on }
}

// NewTokenizer creates a tokenizer. A nil words tokenizer means ProseTokenizer.
func NewTokenizer(words WordTokenizer, opts ...TokenizerOption) *Tokenizer {
	if words == nil {
		words = ProseTokenizer{}
	}
	t := &Tokenizer{words: words, nfc: true, lower: true}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize normalizes text and splits it into tokens.
// Empty or whitespace-only text yields an empty sequence.
func (t *Tokenizer) Tokenize(text string) []string {
	if t.stripHTML {
		text = stripHTML(text)
	}
	if t.nfc {
		text = norm.NFC.String(text)
	}
	if t.lower {
		text = cases.Lower(language.Indonesian).String(text)
	}
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	return t.words.Tokenize(text)
}

// Transform tokenizes every document of the batch.
func (t *Tokenizer) Transform(docs []string) [][]string {
	out := make([][]string, len(docs))
	for i, doc := range docs {
		out[i] = t.Tokenize(doc)
	}
	return out
}

// stripHTML returns the text nodes of s separated by spaces.
func stripHTML(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var buf strings.Builder
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(buf.String()), " ")
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawTextTag(string(name)) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawTextTag(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				buf.Write(z.Text())
				buf.WriteByte(' ')
			}
		}
	}
}

func isRawTextTag(name string) bool {
	return name == "script" || name == "style"
}
