// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/review-engine/pkg/types"
)

// --- helpers ---

func TestSourceTerm(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"scopus", "scopus"},
		{"web_of_science", "web"},
		{"google scholar", "google"},
		{"PsycINFO", "psycinfo"},
	}
	for _, tc := range cases {
		if got := sourceTerm(tc.source); got != tc.want {
			t.Errorf("sourceTerm(%q) = %q, want %q", tc.source, got, tc.want)
		}
	}
}

func TestDedupeByTitle(t *testing.T) {
	records := []types.Record{
		{Title: "Sleep and Memory", URL: "https://a.example.org"},
		{Title: "sleep and memory", URL: "https://b.example.org"},
		{Title: ""},
		{Title: "Dreams in REM", URL: "https://c.example.org"},
	}

	got := dedupeByTitle(records)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].URL != "https://a.example.org" {
		t.Errorf("got[0].URL = %q, want first occurrence kept", got[0].URL)
	}
	if got[1].Title != "Dreams in REM" {
		t.Errorf("got[1].Title = %q", got[1].Title)
	}
}

// --- site-filtered adapters ---

func TestSiteAdapterStopsAtHalfCap(t *testing.T) {
	var queries []string
	ddgTS := serveDDG(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		fmt.Fprint(w, ddgResultsHTML)
	})

	a := &SiteAdapter{
		Source: "web_of_science",
		Sites:  siteFilters["web_of_science"],
		Max:    4,
		DDG:    newTestDDG(ddgTS, 10),
	}
	records, method := a.Search(context.Background(), testTermSet(types.TermsKeywordCombo, "mindfulness", "anxiety"))

	if method != "universal_fallback_enhanced_keyword_combo" {
		t.Errorf("method = %q", method)
	}
	if len(records) != 2 {
		t.Errorf("len(records) = %d, want 2", len(records))
	}
	if len(queries) != 1 {
		t.Fatalf("ddg requests = %d, want 1 (half cap met on first site)", len(queries))
	}
	if !strings.Contains(queries[0], "site:webofknowledge.com") {
		t.Errorf("query = %q", queries[0])
	}
	if records[0].Source != "web_of_science" {
		t.Errorf("Source = %q", records[0].Source)
	}
}

func TestSiteAdapterEnhancedPadding(t *testing.T) {
	var queries []string
	ddgTS := serveDDG(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		if len(queries) == 1 {
			fmt.Fprint(w, ddgEmptyHTML)
			return
		}
		fmt.Fprint(w, ddgResultsHTML)
	})

	a := &SiteAdapter{
		Source: "scopus",
		Sites:  siteFilters["scopus"],
		Max:    10,
		DDG:    newTestDDG(ddgTS, 10),
	}
	records, method := a.Search(context.Background(), testTermSet(types.TermsKeywordCombo, "mindfulness", "anxiety"))

	if method != "universal_fallback_enhanced_keyword_combo" {
		t.Errorf("method = %q", method)
	}
	if len(records) != 2 {
		t.Errorf("len(records) = %d, want 2", len(records))
	}
	if len(queries) != 2 {
		t.Fatalf("ddg requests = %d, want 2", len(queries))
	}
	if !strings.Contains(queries[0], "site:scopus.com") {
		t.Errorf("site query = %q", queries[0])
	}
	if !strings.Contains(queries[1], "mindfulness anxiety scopus") {
		t.Errorf("enhanced query = %q, want source name appended", queries[1])
	}
	if !strings.Contains(queries[1], "site:scholar.google.com") {
		t.Errorf("enhanced query = %q, want academic pool", queries[1])
	}
}

func TestSiteAdapterDedupesAcrossPasses(t *testing.T) {
	requests := 0
	ddgTS := serveDDG(t, func(w http.ResponseWriter, _ *http.Request) {
		requests++
		fmt.Fprint(w, ddgResultsHTML)
	})

	a := &SiteAdapter{
		Source: "embase",
		Sites:  siteFilters["embase"],
		Max:    10,
		DDG:    newTestDDG(ddgTS, 10),
	}
	records, _ := a.Search(context.Background(), testTermSet(types.TermsKeywordCombo, "mindfulness", "anxiety"))

	if requests != 2 {
		t.Fatalf("ddg requests = %d, want 2 (site pass under half cap)", requests)
	}
	if len(records) != 2 {
		t.Errorf("len(records) = %d, want 2 (duplicate titles collapsed)", len(records))
	}
}

func TestResearchGateAdapter(t *testing.T) {
	var queries []string
	ddgTS := serveDDG(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		fmt.Fprint(w, ddgResultsHTML)
	})

	a := &ResearchGateAdapter{Log: zerolog.Nop(), DDG: newTestDDG(ddgTS, 10)}
	records, method := a.Search(context.Background(), testTermSet(types.TermsResearchQuestion, "mindfulness", "anxiety", "therapy", "extra"))

	if method != "researchgate_search_research_question" {
		t.Errorf("method = %q", method)
	}
	if len(records) != 2 {
		t.Errorf("len(records) = %d, want 2", len(records))
	}
	if len(queries) != 1 {
		t.Fatalf("ddg requests = %d, want 1", len(queries))
	}
	if !strings.Contains(queries[0], "mindfulness anxiety therapy site:researchgate.net") {
		t.Errorf("query = %q, want three terms and the site filter", queries[0])
	}
	if records[0].Source != "researchgate" {
		t.Errorf("Source = %q", records[0].Source)
	}
}
