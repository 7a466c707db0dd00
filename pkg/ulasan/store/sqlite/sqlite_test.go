package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
	"github.com/cognicore/ulasan/pkg/ulasan/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "lexicon.db")

	st, err := OpenSQLite(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// TestSQLiteMappingRoundTrip tests import and read-back of a mapping resource
func TestSQLiteMappingRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	entries := map[string]string{
		"gak": "tidak",
		"bgt": "banget",
		"gpp": "tidak apa apa",
	}

	id, err := st.ImportMapping(ctx, "informal-formal", entries)
	if err != nil {
		t.Fatalf("ImportMapping: %v", err)
	}
	if len(id) != 26 {
		t.Errorf("Import id should be a ULID, got %q", id)
	}

	got, err := st.Mapping(ctx, "informal-formal")
	if err != nil {
		t.Fatalf("Mapping: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(got))
	}
	if got["gpp"] != "tidak apa apa" {
		t.Errorf("gpp mapped to %q", got["gpp"])
	}
}

func TestSQLiteImportReplaces(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if _, err := st.ImportMapping(ctx, "m", map[string]string{"old": "lama"}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.ImportMapping(ctx, "m", map[string]string{"gak": "tidak"}); err != nil {
		t.Fatal(err)
	}

	got, err := st.Mapping(ctx, "m")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got["old"]; ok {
		t.Error("Second import should replace the first")
	}
	if got["gak"] != "tidak" {
		t.Errorf("gak mapped to %q", got["gak"])
	}
}

func TestSQLiteSetRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if _, err := st.ImportSet(ctx, "root-words", []string{"makan", "baca", "makan", ""}); err != nil {
		t.Fatalf("ImportSet: %v", err)
	}

	got, err := st.Set(ctx, "root-words")
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(got) != 2 || got[0] != "baca" || got[1] != "makan" {
		t.Errorf("Set() = %v, want [baca makan]", got)
	}
}

func TestSQLiteEmptyImportIsNotMissing(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if _, err := st.ImportSet(ctx, "empty", nil); err != nil {
		t.Fatal(err)
	}

	got, err := st.Set(ctx, "empty")
	if err != nil {
		t.Fatalf("Empty import should still be readable: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no tokens, got %v", got)
	}
}

func TestSQLiteMissingResource(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if _, err := st.Mapping(ctx, "nope"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Mapping of unknown resource: got %v, want ErrNotFound", err)
	}
	if _, err := st.Set(ctx, "nope"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Set of unknown resource: got %v, want ErrNotFound", err)
	}

	// a set import does not make the name readable as a mapping
	if _, err := st.ImportSet(ctx, "words", []string{"a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Mapping(ctx, "words"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Mapping of set resource: got %v, want ErrNotFound", err)
	}
}

func TestSQLiteImports(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	first, err := st.ImportSet(ctx, "stopwords", []string{"yang", "dan"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := st.ImportMapping(ctx, "informal-formal", map[string]string{"gak": "tidak"})
	if err != nil {
		t.Fatal(err)
	}

	imports, err := st.Imports(ctx)
	if err != nil {
		t.Fatalf("Imports: %v", err)
	}
	if len(imports) != 2 {
		t.Fatalf("Expected 2 imports, got %d", len(imports))
	}
	if imports[0].ID != first || imports[1].ID != second {
		t.Errorf("Imports out of order: %v", imports)
	}
	if imports[0].Kind != store.KindSet || imports[0].Entries != 2 {
		t.Errorf("Unexpected first import: %+v", imports[0])
	}
	if imports[1].Kind != store.KindMapping || imports[1].Resource != "informal-formal" {
		t.Errorf("Unexpected second import: %+v", imports[1])
	}
	if imports[0].ImportedAt.IsZero() {
		t.Error("ImportedAt should be set")
	}
}

func TestSQLiteRejectsEmptyName(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if _, err := st.ImportSet(ctx, "", []string{"a"}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "lexicon.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.ImportSet(ctx, "root-words", []string{"makan"}); err != nil {
		t.Fatal(err)
	}
	st.Close()

	st, err = OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	got, err := st.Set(ctx, "root-words")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "makan" {
		t.Errorf("Set after reopen = %v", got)
	}
}
