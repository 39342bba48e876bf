// Package state persists per-source build state between runs so watch
// mode can skip re-rendering unchanged sources and prune outputs whose
// sources were removed.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry records the last successful render of one source file.
type Entry struct {
	SourcePath  string
	ContentHash string
	OutputPath  string
	RenderedAt  time.Time
}

// Store is a SQLite-backed build-state store.
// Use ":memory:" for an in-memory database, or a file path for persistence.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if necessary) the build-state database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		source_path TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL,
		output_path TEXT NOT NULL,
		rendered_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pages_output ON pages(output_path);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the recorded entry for a source path, if any.
func (s *Store) Get(ctx context.Context, sourcePath string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT source_path, content_hash, output_path, rendered_at FROM pages WHERE source_path = ?",
		sourcePath,
	)

	var e Entry
	var renderedAt int64
	if err := row.Scan(&e.SourcePath, &e.ContentHash, &e.OutputPath, &renderedAt); err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("query page state: %w", err)
	}
	e.RenderedAt = time.Unix(renderedAt, 0)
	return e, true, nil
}

// Put records or replaces the entry for a source path.
func (s *Store) Put(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	renderedAt := e.RenderedAt
	if renderedAt.IsZero() {
		renderedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (source_path, content_hash, output_path, rendered_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(source_path) DO UPDATE SET content_hash=excluded.content_hash, output_path=excluded.output_path, rendered_at=excluded.rendered_at`,
		e.SourcePath, e.ContentHash, e.OutputPath, renderedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert page state: %w", err)
	}
	return nil
}

// PruneMissing removes entries whose source path is not in keep and
// returns the removed entries so callers can delete their stale outputs.
func (s *Store) PruneMissing(ctx context.Context, keep map[string]struct{}) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT source_path, content_hash, output_path, rendered_at FROM pages")
	if err != nil {
		return nil, fmt.Errorf("list page state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stale []Entry
	for rows.Next() {
		var e Entry
		var renderedAt int64
		if err := rows.Scan(&e.SourcePath, &e.ContentHash, &e.OutputPath, &renderedAt); err != nil {
			return nil, fmt.Errorf("scan page state: %w", err)
		}
		if _, ok := keep[e.SourcePath]; !ok {
			e.RenderedAt = time.Unix(renderedAt, 0)
			stale = append(stale, e)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate page state: %w", err)
	}

	for _, e := range stale {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE source_path = ?", e.SourcePath); err != nil {
			return nil, fmt.Errorf("delete page state: %w", err)
		}
	}
	return stale, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
