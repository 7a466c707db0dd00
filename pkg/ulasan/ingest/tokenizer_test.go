package ingest

import (
	"reflect"
	"strings"
	"testing"
)

func TestScanTokenizer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"words", "ga suka bgt", []string{"ga", "suka", "bgt"}},
		{"punctuation split off", "ini!!", []string{"ini", "!", "!"}},
		{"inner hyphen kept", "buku-buku baru", []string{"buku-buku", "baru"}},
		{"leading hyphen is a symbol", "-an", []string{"-", "an"}},
		{"digits", "rating 5/5", []string{"rating", "5", "/", "5"}},
		{"underscore", "a_b", []string{"a", "_", "b"}},
		{"empty", "", []string{}},
		{"whitespace only", "  \t\n ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScanTokenizer{}.Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenizerLowercases(t *testing.T) {
	tok := NewTokenizer(ScanTokenizer{})

	got := tok.Tokenize("Ga SUKA Bgt")
	want := []string{"ga", "suka", "bgt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %q, want %q", got, want)
	}
}

func TestTokenizerKeepCase(t *testing.T) {
	tok := NewTokenizer(ScanTokenizer{}, WithLowercase(false))

	got := tok.Tokenize("Ga Suka")
	if got[0] != "Ga" || got[1] != "Suka" {
		t.Errorf("Case should be preserved, got %q", got)
	}
}

func TestTokenizerNFC(t *testing.T) {
	tok := NewTokenizer(ScanTokenizer{})

	// "e" + combining acute accent composes to a single rune
	got := tok.Tokenize("cafe\u0301")
	if len(got) != 1 || got[0] != "caf\u00e9" {
		t.Errorf("Tokenize() = %q, want composed café", got)
	}
}

func TestTokenizerStripHTML(t *testing.T) {
	tok := NewTokenizer(ScanTokenizer{}, WithHTMLStrip(true))

	text := `<p>Produk <b>bagus</b></p><script>var x = 1;</script><style>p{}</style>`
	got := tok.Tokenize(text)
	want := []string{"produk", "bagus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %q, want %q", got, want)
	}
}

func TestTokenizerEmptyInput(t *testing.T) {
	for _, words := range []WordTokenizer{ScanTokenizer{}, ProseTokenizer{}} {
		tok := NewTokenizer(words)
		got := tok.Tokenize("")
		if got == nil || len(got) != 0 {
			t.Errorf("%T: empty input should produce an empty sequence, got %#v", words, got)
		}
	}
}

func TestProseTokenizer(t *testing.T) {
	got := NewTokenizer(nil).Tokenize("Ga suka bgt sama produk ini")
	want := []string{"ga", "suka", "bgt", "sama", "produk", "ini"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %q, want %q", got, want)
	}
}

func TestTokenizerTransformKeepsCardinality(t *testing.T) {
	tok := NewTokenizer(ScanTokenizer{})

	docs := []string{"satu dua", "", "tiga"}
	got := tok.Transform(docs)
	if len(got) != len(docs) {
		t.Fatalf("Transform returned %d sequences for %d docs", len(got), len(docs))
	}
	if len(got[1]) != 0 {
		t.Errorf("Empty doc should give empty sequence, got %q", got[1])
	}
}

func TestTokenizeRoundTrip(t *testing.T) {
	texts := []string{
		"ga suka bgt sama produk ini",
		"pengiriman cepat barang sesuai",
		"oke",
		"",
	}

	for _, words := range []WordTokenizer{ScanTokenizer{}, ProseTokenizer{}} {
		tok := NewTokenizer(words)
		joined := TokenToText{}.Transform(tok.Transform(texts))
		for i, text := range texts {
			want := strings.Join(strings.Fields(text), " ")
			if joined[i] != want {
				t.Errorf("%T: round trip of %q = %q", words, text, joined[i])
			}
		}
	}
}
