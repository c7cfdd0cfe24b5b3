// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TermSetKind classifies where a search term set came from.
// Per prd001-aggregation R1.2.
type TermSetKind string

const (
	// TermsResearchQuestion marks terms extracted from a natural-language
	// research question. Always tried first.
	TermsResearchQuestion TermSetKind = "research_question"

	// TermsKeywordCombo marks a combination derived from the raw keyword list.
	TermsKeywordCombo TermSetKind = "keyword_combo"

	// TermsFallback marks the hard-coded generic terms used when neither a
	// research question nor keywords are available.
	TermsFallback TermSetKind = "fallback"
)

// TermSet is a prioritized group of search terms tried together against a
// source. Created once per search invocation by the term planner and
// immutable thereafter (prd001-aggregation R1.1).
type TermSet struct {
	// Terms are the search terms, most specific first.
	Terms []string `json:"terms" yaml:"terms"`

	// Kind classifies the term set's origin.
	Kind TermSetKind `json:"kind" yaml:"kind"`

	// Priority orders term sets; lower values are tried first.
	Priority int `json:"priority" yaml:"priority"`

	// Description is a human-readable label for logs and statistics.
	Description string `json:"description" yaml:"description"`
}
