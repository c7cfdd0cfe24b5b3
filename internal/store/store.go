// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists search runs, their corpora, and artifact
// assignments in a local SQLite database. It is the persistence collaborator
// behind the store/corpus/match commands; the search engine itself never
// reads or writes it. Implements: prd003-review-store;
//
//	docs/ARCHITECTURE § Review Store.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/review-engine/pkg/types"
)

// RunRecord is one completed search run headed for persistence.
type RunRecord struct {
	CreatedAt        time.Time
	Keywords         []string
	ResearchQuestion string
	Sources          []string
	Corpus           types.Corpus
	Stats            types.RunStatistics
}

// RunSummary is one row of ListRuns output.
type RunSummary struct {
	ID               int64
	CreatedAt        time.Time
	ResearchQuestion string
	Keywords         []string
	Records          int
	Assigned         int
}

// CorpusStore is the persistence contract the command layer programs
// against. *Store is the SQLite implementation.
type CorpusStore interface {
	SaveRun(ctx context.Context, run RunRecord) (int64, error)
	ListRuns(ctx context.Context) ([]RunSummary, error)
	LoadCorpus(ctx context.Context, runID int64) (types.Corpus, error)
	LoadStats(ctx context.Context, runID int64) (types.RunStatistics, error)
	RecordAssignments(ctx context.Context, runID int64, assignments map[int]string) error
	Assignments(ctx context.Context, runID int64) (map[int]string, error)
}

// Store manages the review SQLite database.
type Store struct {
	db *sql.DB
}

var _ CorpusStore = (*Store)(nil)

// New opens or creates the review database at cfg.DBPath and ensures the
// schema exists (prd003-review-store R1.2, R1.3).
func New(cfg types.StoreConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = "review.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			keywords TEXT,
			research_question TEXT,
			sources TEXT,
			successful TEXT,
			failed TEXT,
			per_source TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			record_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			authors TEXT,
			abstract TEXT,
			year INTEGER,
			url TEXT,
			doi TEXT,
			source TEXT,
			method TEXT,
			terms TEXT,
			PRIMARY KEY (run_id, record_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_source ON records(run_id, source)`,
		`CREATE TABLE IF NOT EXISTS assignments (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			record_id INTEGER NOT NULL,
			artifact TEXT NOT NULL,
			assigned_at TEXT NOT NULL,
			PRIMARY KEY (run_id, record_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores the run header, its statistics, and every corpus record in
// one transaction and returns the new run's id (R2.1, R2.2).
func (s *Store) SaveRun(ctx context.Context, run RunRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, keywords, research_question, sources, successful, failed, per_source)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		createdAt.UTC().Format(time.RFC3339Nano),
		marshalJSON(run.Keywords),
		run.ResearchQuestion,
		marshalJSON(run.Sources),
		marshalJSON(run.Stats.Successful),
		marshalJSON(run.Stats.Failed),
		marshalJSON(run.Stats.PerSource),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, record_id, title, authors, abstract, year, url, doi, source, method, terms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range run.Corpus.Records {
		_, err := stmt.ExecContext(ctx,
			runID, rec.ID, rec.Title, rec.Authors, rec.Abstract, rec.Year,
			rec.URL, rec.DOI, rec.Source, rec.Method, marshalJSON(rec.Terms),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting record %d: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RecordAssignments upserts artifact assignments for a run (R3.1). The map
// is current truth for the records it names; records outside it keep any
// assignment they already have.
func (s *Store) RecordAssignments(ctx context.Context, runID int64, assignments map[int]string) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO assignments (run_id, record_id, artifact, assigned_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(run_id, record_id) DO UPDATE SET
			artifact=excluded.artifact, assigned_at=excluded.assigned_at`)
	if err != nil {
		return fmt.Errorf("preparing assignment upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for recordID, artifact := range assignments {
		if _, err := stmt.ExecContext(ctx, runID, recordID, artifact, now); err != nil {
			return fmt.Errorf("assigning record %d: %w", recordID, err)
		}
	}

	return tx.Commit()
}

func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
