// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the review-engine pipeline.
// Implements: prd001-aggregation (Record, Corpus, TermSet, RunStatistics);
//
//	prd002-matching (Artifact, MatchCandidate, MatchReport);
//	docs/ARCHITECTURE § Data Structures.
package types

import "strings"

// UnknownAuthors is the sentinel stored when a source provides no author
// information. Records are never dropped for missing metadata; they carry
// sentinels instead.
const UnknownAuthors = "Unknown"

// Record is one bibliographic hit from one source.
// Per prd001-aggregation R2.4: a record that leaves an adapter always has a
// non-empty Title, Source, and Method.
type Record struct {
	// ID is a dense integer assigned after deduplication, starting at 1.
	// Zero means the record has not been through dedup yet.
	ID int `json:"id" yaml:"id"`

	// Title is the work's title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Authors is a formatted author string (e.g. "A. Smith, B. Jones et al."),
	// or "Unknown" when the source provided none.
	Authors string `json:"authors" yaml:"authors"`

	// Abstract is the abstract or result snippet. May be empty. Adapters cap
	// it at 1000 characters (500 for scraped snippets).
	Abstract string `json:"abstract" yaml:"abstract"`

	// Year is the publication year, or 0 when unknown.
	Year int `json:"year" yaml:"year"`

	// URL points at the work's landing page. May be empty.
	URL string `json:"url" yaml:"url"`

	// DOI is the bare DOI (no resolver prefix), or empty.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Source names the adapter that produced this record (e.g. "pubmed").
	Source string `json:"source" yaml:"source"`

	// Method names the technique and term-set kind that produced this record
	// (e.g. "pubmed_api_research_question", "enhanced_duckduckgo_keyword_combo").
	Method string `json:"method" yaml:"method"`

	// Terms lists the search terms that produced this record, in order.
	Terms []string `json:"terms,omitempty" yaml:"terms,omitempty"`
}

// Corpus is the deduplicated set of Records for one search run.
// Invariant (prd001-aggregation R5.2): no two records share a normalized
// title, and IDs are dense starting at 1 in survival order.
type Corpus struct {
	Records []Record `json:"records" yaml:"records"`
}

// Len returns the number of records in the corpus.
func (c Corpus) Len() int { return len(c.Records) }

// ByID returns the record with the given ID, or nil if absent.
func (c Corpus) ByID(id int) *Record {
	for i := range c.Records {
		if c.Records[i].ID == id {
			return &c.Records[i]
		}
	}
	return nil
}

// NormalizeTitle returns the canonical form used for duplicate detection:
// trimmed, case-folded, with internal whitespace collapsed to single spaces.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(title))), " ")
}
