// Package storage owns the SQLite corpus database: the relational tables
// describing the digitized periodicals (magazines, years, numbers, pages)
// and the FTS5 index over page content that backs full-text search.
package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Storage wraps the corpus database.
type Storage struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath and applies the
// performance pragmas used across the application.
func Open(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = memory",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for maintenance commands.
func (s *Storage) DB() *sql.DB {
	return s.db
}

// InitSchema creates the corpus tables and the FTS5 index. It is safe to
// call on an existing database.
func (s *Storage) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS magazines (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		link TEXT
	);

	CREATE TABLE IF NOT EXISTS magazine_years (
		id INTEGER PRIMARY KEY,
		magazine_id INTEGER NOT NULL REFERENCES magazines(id),
		year TEXT NOT NULL,
		link TEXT
	);

	CREATE TABLE IF NOT EXISTS magazine_numbers (
		id INTEGER PRIMARY KEY,
		magazine_year_id INTEGER NOT NULL REFERENCES magazine_years(id),
		number TEXT NOT NULL,
		link TEXT
	);

	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY,
		magazine_number_id INTEGER NOT NULL REFERENCES magazine_numbers(id),
		page TEXT NOT NULL,
		content TEXT NOT NULL
	);

	CREATE VIRTUAL TABLE IF NOT EXISTS pages_fts USING fts5(
		content,
		content='pages',
		content_rowid='id'
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Stats returns corpus-wide row counts.
func (s *Storage) Stats() (map[string]int, error) {
	stats := make(map[string]int)

	for _, table := range []string{"magazines", "magazine_years", "magazine_numbers", "pages"} {
		var count int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		stats[table] = count
	}

	return stats, nil
}

// Optimize asks SQLite to refresh its internal query planner heuristics.
func (s *Storage) Optimize() error {
	_, err := s.db.Exec("PRAGMA optimize")
	return err
}

// Analyze updates query planner statistics.
func (s *Storage) Analyze() error {
	_, err := s.db.Exec("ANALYZE")
	return err
}

// Vacuum defragments the database file.
func (s *Storage) Vacuum() error {
	_, err := s.db.Exec("VACUUM")
	return err
}

// WALCheckpoint flushes the write-ahead log into the main database file.
func (s *Storage) WALCheckpoint() error {
	_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

// CheckIntegrity runs the SQLite integrity check and, unless quick is set,
// the FTS5-specific one as well.
func (s *Storage) CheckIntegrity(quick bool) error {
	var result string
	if err := s.db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	if quick {
		return nil
	}

	if _, err := s.db.Exec("INSERT INTO pages_fts(pages_fts) VALUES('integrity-check')"); err != nil {
		return fmt.Errorf("FTS integrity check: %w", err)
	}
	return nil
}

// RebuildFTS rebuilds the full-text index from the pages table.
func (s *Storage) RebuildFTS() error {
	if _, err := s.db.Exec("INSERT INTO pages_fts(pages_fts) VALUES('rebuild')"); err != nil {
		return fmt.Errorf("rebuilding FTS index: %w", err)
	}
	return nil
}
