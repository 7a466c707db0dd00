package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
	"github.com/cognicore/ulasan/pkg/ulasan/store"
)

func TestMemStoreMapping(t *testing.T) {
	ctx := context.Background()
	st := New()

	src := map[string]string{"gak": "tidak", "": "ignored"}
	if _, err := st.ImportMapping(ctx, "informal-formal", src); err != nil {
		t.Fatalf("ImportMapping: %v", err)
	}

	got, err := st.Mapping(ctx, "informal-formal")
	if err != nil {
		t.Fatalf("Mapping: %v", err)
	}
	if len(got) != 1 || got["gak"] != "tidak" {
		t.Errorf("Mapping() = %v", got)
	}

	// returned map is a copy
	got["gak"] = "ya"
	again, _ := st.Mapping(ctx, "informal-formal")
	if again["gak"] != "tidak" {
		t.Error("Mutating the returned map must not affect the store")
	}
}

func TestMemStoreSet(t *testing.T) {
	ctx := context.Background()
	st := New()

	if _, err := st.ImportSet(ctx, "stopwords", []string{"yang", "dan", "yang"}); err != nil {
		t.Fatal(err)
	}
	got, err := st.Set(ctx, "stopwords")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "dan" || got[1] != "yang" {
		t.Errorf("Set() = %v, want [dan yang]", got)
	}
}

func TestMemStoreNotFound(t *testing.T) {
	ctx := context.Background()
	st := New()

	if _, err := st.Mapping(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if _, err := st.Set(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestMemStoreImports(t *testing.T) {
	ctx := context.Background()
	st := New()

	a, _ := st.ImportSet(ctx, "root-words", []string{"makan"})
	b, _ := st.ImportMapping(ctx, "informal-formal", map[string]string{"gak": "tidak"})

	imports, err := st.Imports(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(imports) != 2 {
		t.Fatalf("Expected 2 imports, got %d", len(imports))
	}
	if imports[0].ID != a || imports[1].ID != b {
		t.Errorf("Unexpected import order: %v", imports)
	}
	if a >= b {
		t.Errorf("Import ids should sort by creation: %s >= %s", a, b)
	}
	if imports[1].Kind != store.KindMapping {
		t.Errorf("Kind = %s, want mapping", imports[1].Kind)
	}
}

func TestMemStoreConcurrentImports(t *testing.T) {
	ctx := context.Background()
	st := New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := st.ImportSet(ctx, "stopwords", []string{"yang"}); err != nil {
				t.Error(err)
			}
			if _, err := st.Set(ctx, "stopwords"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	imports, _ := st.Imports(ctx)
	if len(imports) != 16 {
		t.Errorf("Expected 16 imports, got %d", len(imports))
	}
	seen := make(map[string]bool)
	for _, imp := range imports {
		if seen[imp.ID] {
			t.Errorf("Duplicate import id %s", imp.ID)
		}
		seen[imp.ID] = true
	}
}
