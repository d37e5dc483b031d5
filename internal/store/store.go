// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists fetched paper pools in a local SQLite database so
// a pool can be inspected and re-queried without re-hitting the literature
// API. Titles and abstracts are indexed with FTS5.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/perspective-engine/pkg/types"
)

const defaultMaxResults = 20

// Store manages the paper pool SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Run records one search-phase invocation and the pool size it produced.
type Run struct {
	ID        int64     `json:"id"`
	Query     string    `json:"query"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStore opens or creates the pool database at cfg.DBPath, creating the
// schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			pmid TEXT NOT NULL UNIQUE,
			title TEXT,
			authors TEXT,
			year TEXT,
			journal TEXT,
			abstract TEXT,
			fetched_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			total INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE papers_fts USING fts5(title, abstract, content=papers, content_rowid=rowid)`,
			`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
				INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
			`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
				INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SavePool upserts the pool produced by one search and records the run.
// Records without an identifier are skipped; the returned count is the
// number of papers written.
func (s *Store) SavePool(ctx context.Context, query string, papers []types.Paper) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (pmid, title, authors, year, journal, abstract, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(pmid) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, year=excluded.year,
			journal=excluded.journal, abstract=excluded.abstract,
			fetched_at=excluded.fetched_at`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	saved := 0
	for _, p := range papers {
		if p.PMID == "" {
			continue
		}
		authorsJSON, _ := json.Marshal(p.Authors)
		if _, err := stmt.ExecContext(ctx,
			p.PMID, p.Title, string(authorsJSON), p.Year, p.Journal, p.Abstract, now,
		); err != nil {
			return 0, fmt.Errorf("upserting paper %s: %w", p.PMID, err)
		}
		saved++
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (query, total, created_at) VALUES (?, ?, ?)`,
		query, saved, now,
	); err != nil {
		return 0, fmt.Errorf("recording run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing pool: %w", err)
	}
	return saved, nil
}

// Query searches stored papers by title and abstract with FTS5 and returns
// matches ranked by relevance. maxResults <= 0 uses the store default.
func (s *Store) Query(ctx context.Context, query string, maxResults int) ([]types.Paper, error) {
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.pmid, p.title, p.authors, p.year, p.journal, p.abstract
		 FROM papers_fts
		 JOIN papers p ON p.rowid = papers_fts.rowid
		 WHERE papers_fts MATCH ?
		 ORDER BY papers_fts.rank
		 LIMIT ?`,
		query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("querying pool: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// All returns every stored paper ordered by identifier.
func (s *Store) All(ctx context.Context) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pmid, title, authors, year, journal, abstract
		 FROM papers ORDER BY CAST(pmid AS INTEGER)`)
	if err != nil {
		return nil, fmt.Errorf("listing pool: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// Runs returns recorded search runs, most recent first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, total, created_at FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Query, &r.Total, &created); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339, created); perr == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func scanPapers(rows *sql.Rows) ([]types.Paper, error) {
	var papers []types.Paper
	for rows.Next() {
		var p types.Paper
		var authorsJSON sql.NullString
		if err := rows.Scan(&p.PMID, &p.Title, &authorsJSON, &p.Year, &p.Journal, &p.Abstract); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &p.Authors)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
