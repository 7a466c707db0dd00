package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
	"github.com/cognicore/ulasan/pkg/ulasan/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS imports (
	id TEXT PRIMARY KEY,
	resource TEXT NOT NULL,
	kind TEXT NOT NULL,
	entries INTEGER NOT NULL,
	imported_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS mappings (
	resource TEXT NOT NULL,
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	PRIMARY KEY(resource, source)
);

CREATE TABLE IF NOT EXISTS members (
	resource TEXT NOT NULL,
	token TEXT NOT NULL,
	PRIMARY KEY(resource, token)
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// ImportMapping replaces the stored entries of a mapping resource
func (s *sqliteStore) ImportMapping(ctx context.Context, name string, entries map[string]string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("import mapping: empty resource name: %w", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mappings WHERE resource=?`, name); err != nil {
		return "", err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO mappings (resource, source, target) VALUES (?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	count := 0
	for src, dst := range entries {
		if src == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, name, src, dst); err != nil {
			return "", err
		}
		count++
	}

	id, err := recordImport(ctx, tx, name, store.KindMapping, count, s.now())
	if err != nil {
		return "", err
	}
	return id, tx.Commit()
}

// ImportSet replaces the stored tokens of a set resource
func (s *sqliteStore) ImportSet(ctx context.Context, name string, tokens []string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("import set: empty resource name: %w", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM members WHERE resource=?`, name); err != nil {
		return "", err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO members (resource, token) VALUES (?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	count := 0
	for _, tok := range uniqueStrings(tokens) {
		if _, err := stmt.ExecContext(ctx, name, tok); err != nil {
			return "", err
		}
		count++
	}

	id, err := recordImport(ctx, tx, name, store.KindSet, count, s.now())
	if err != nil {
		return "", err
	}
	return id, tx.Commit()
}

func recordImport(ctx context.Context, tx *sql.Tx, name string, kind store.Kind, entries int, now time.Time) (string, error) {
	id := store.NewImportID(now)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO imports (id, resource, kind, entries, imported_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, string(kind), entries, now.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Mapping returns the entries of a mapping resource
func (s *sqliteStore) Mapping(ctx context.Context, name string) (map[string]string, error) {
	if err := s.requireImported(ctx, name, store.KindMapping); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT source, target FROM mappings WHERE resource=?`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var src, dst string
		if err := rows.Scan(&src, &dst); err != nil {
			return nil, err
		}
		entries[src] = dst
	}
	return entries, rows.Err()
}

// Set returns the tokens of a set resource, sorted
func (s *sqliteStore) Set(ctx context.Context, name string) ([]string, error) {
	if err := s.requireImported(ctx, name, store.KindSet); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT token FROM members WHERE resource=? ORDER BY token`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := []string{}
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, rows.Err()
}

// requireImported distinguishes "imported but empty" from "never imported".
func (s *sqliteStore) requireImported(ctx context.Context, name string, kind store.Kind) error {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM imports WHERE resource=? AND kind=?`, name, string(kind),
	).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s resource %q: %w", kind, name, internalerr.ErrNotFound)
	}
	return nil
}

// Imports lists import records, oldest first
func (s *sqliteStore) Imports(ctx context.Context) ([]store.Import, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, resource, kind, entries, imported_at FROM imports ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imports []store.Import
	for rows.Next() {
		var (
			imp  store.Import
			kind string
			at   string
		)
		if err := rows.Scan(&imp.ID, &imp.Resource, &kind, &imp.Entries, &at); err != nil {
			return nil, err
		}
		imp.Kind = store.Kind(kind)
		if ts, err := time.Parse(time.RFC3339Nano, at); err == nil {
			imp.ImportedAt = ts
		}
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
