// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/review-engine/pkg/types"
)

// ListRuns returns a summary row per stored run, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.created_at, r.research_question, r.keywords,
			(SELECT COUNT(*) FROM records WHERE run_id = r.id),
			(SELECT COUNT(*) FROM assignments WHERE run_id = r.id)
		 FROM runs r ORDER BY r.id`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var (
			sum      RunSummary
			created  string
			keywords string
		)
		if err := rows.Scan(&sum.ID, &created, &sum.ResearchQuestion, &keywords,
			&sum.Records, &sum.Assigned); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		sum.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		json.Unmarshal([]byte(keywords), &sum.Keywords)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// LoadCorpus rebuilds one run's corpus, records in id order (R2.3).
func (s *Store) LoadCorpus(ctx context.Context, runID int64) (types.Corpus, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, title, authors, abstract, year, url, doi, source, method, terms
		 FROM records WHERE run_id = ? ORDER BY record_id`, runID)
	if err != nil {
		return types.Corpus{}, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var corpus types.Corpus
	for rows.Next() {
		var (
			rec   types.Record
			terms string
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Authors, &rec.Abstract,
			&rec.Year, &rec.URL, &rec.DOI, &rec.Source, &rec.Method, &terms); err != nil {
			return types.Corpus{}, fmt.Errorf("scanning record: %w", err)
		}
		json.Unmarshal([]byte(terms), &rec.Terms)
		corpus.Records = append(corpus.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return types.Corpus{}, err
	}

	// An empty result is either a run with no records or no run at all;
	// callers need to tell these apart.
	if len(corpus.Records) == 0 {
		if err := s.requireRun(ctx, runID); err != nil {
			return types.Corpus{}, err
		}
	}
	return corpus, nil
}

// LoadStats rebuilds one run's statistics (R2.4).
func (s *Store) LoadStats(ctx context.Context, runID int64) (types.RunStatistics, error) {
	var successful, failed, perSource string
	err := s.db.QueryRowContext(ctx,
		`SELECT successful, failed, per_source FROM runs WHERE id = ?`, runID,
	).Scan(&successful, &failed, &perSource)
	if err == sql.ErrNoRows {
		return types.RunStatistics{}, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return types.RunStatistics{}, fmt.Errorf("querying run %d: %w", runID, err)
	}

	var stats types.RunStatistics
	json.Unmarshal([]byte(successful), &stats.Successful)
	json.Unmarshal([]byte(failed), &stats.Failed)
	json.Unmarshal([]byte(perSource), &stats.PerSource)
	return stats, nil
}

// Assignments returns the artifact assignments recorded for a run, keyed by
// record id. A run with none yields an empty map, not an error.
func (s *Store) Assignments(ctx context.Context, runID int64) (map[int]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, artifact FROM assignments WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}
	defer rows.Close()

	assignments := make(map[int]string)
	for rows.Next() {
		var (
			recordID int
			artifact string
		)
		if err := rows.Scan(&recordID, &artifact); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		assignments[recordID] = artifact
	}
	return assignments, rows.Err()
}

func (s *Store) requireRun(ctx context.Context, runID int64) error {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&n); err != nil {
		return fmt.Errorf("checking run %d: %w", runID, err)
	}
	if n == 0 {
		return fmt.Errorf("run %d not found", runID)
	}
	return nil
}
