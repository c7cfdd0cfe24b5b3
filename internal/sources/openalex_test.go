// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/review-engine/pkg/types"
)

const openAlexWorksJSON = `{
  "meta": {"count": 4, "per_page": 10, "page": 1},
  "results": [
    {
      "id": "https://openalex.org/W2741809807",
      "title": "Sleep deprivation and declarative memory consolidation",
      "doi": "https://doi.org/10.1038/s41586-2019-1234",
      "publication_year": 2019,
      "authorships": [
        {"author": {"display_name": "Matthew Walker"}},
        {"author": {"display_name": "Robert Stickgold"}}
      ],
      "abstract_inverted_index": {"Sleep": [0], "loss": [1], "impairs": [2], "recall.": [3]},
      "open_access": {"is_oa": true, "oa_url": "https://europepmc.org/articles/pmc123/pdf"}
    },
    {
      "id": "https://openalex.org/W111",
      "title": "Napping improves procedural skill retention",
      "doi": "https://doi.org/10.5555/nap.2021",
      "publication_year": 2021,
      "authorships": [{"author": {"display_name": "Sara Mednick"}}],
      "open_access": {"is_oa": false, "oa_url": ""}
    },
    {
      "id": "https://openalex.org/W999",
      "title": "Dream content reports across cultures",
      "publication_year": 2017,
      "authorships": []
    },
    {"id": "https://openalex.org/W0", "title": "Sleep", "publication_year": 2020}
  ]
}`

func serveOpenAlex(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := openAlexSearchBase
	openAlexSearchBase = ts.URL + "/works"
	t.Cleanup(func() { openAlexSearchBase = old })
	return ts
}

// --- abstract reconstruction ---

func TestReconstructAbstract(t *testing.T) {
	cases := []struct {
		name  string
		index map[string][]int
		want  string
	}{
		{"empty", nil, ""},
		{"two words", map[string][]int{"world": {1}, "Hello": {0}}, "Hello world"},
		{
			"repeated word",
			map[string][]int{"the": {0, 3}, "deeper": {1}, "sleep": {2, 4}},
			"the deeper sleep the sleep",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reconstructAbstract(tc.index); got != tc.want {
				t.Errorf("reconstructAbstract = %q, want %q", got, tc.want)
			}
		})
	}
}

// --- works API ---

func TestOpenAlexAPIHappyPath(t *testing.T) {
	var captured *http.Request
	ts := serveOpenAlex(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, openAlexWorksJSON)
	})

	a := &OpenAlexAdapter{
		Client: ts.Client(),
		Polite: testPolite(),
		Log:    zerolog.Nop(),
		Max:    10,
	}
	records, method := a.Search(context.Background(), testTermSet(types.TermsResearchQuestion, "sleep", "memory"))

	if method != "openalex_api_research_question" {
		t.Errorf("method = %q", method)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3 (short title dropped)", len(records))
	}

	q := captured.URL.Query()
	if got := q.Get("search"); got != "sleep memory" {
		t.Errorf("search param = %q", got)
	}
	if got := q.Get("per_page"); got != "10" {
		t.Errorf("per_page param = %q", got)
	}
	if got := q.Get("page"); got != "1" {
		t.Errorf("page param = %q", got)
	}
	if q.Has("mailto") {
		t.Errorf("mailto sent without a configured address")
	}

	first := records[0]
	if first.URL != "https://europepmc.org/articles/pmc123/pdf" {
		t.Errorf("URL = %q, want open access copy preferred", first.URL)
	}
	if first.DOI != "10.1038/s41586-2019-1234" {
		t.Errorf("DOI = %q, want resolver prefix stripped", first.DOI)
	}
	if first.Abstract != "Sleep loss impairs recall." {
		t.Errorf("Abstract = %q, want reconstructed text", first.Abstract)
	}
	if first.Authors != "Matthew Walker, Robert Stickgold" {
		t.Errorf("Authors = %q", first.Authors)
	}
	if first.Source != "openalex" {
		t.Errorf("Source = %q", first.Source)
	}

	// No open access copy: the DOI resolver URL stands in.
	if records[1].URL != "https://doi.org/10.5555/nap.2021" {
		t.Errorf("records[1].URL = %q", records[1].URL)
	}
	// Neither: the OpenAlex work page stands in.
	if records[2].URL != "https://openalex.org/W999" {
		t.Errorf("records[2].URL = %q", records[2].URL)
	}
	if records[2].Authors != types.UnknownAuthors {
		t.Errorf("records[2].Authors = %q", records[2].Authors)
	}
}

func TestOpenAlexMailtoParam(t *testing.T) {
	var mailto string
	ts := serveOpenAlex(t, func(w http.ResponseWriter, r *http.Request) {
		mailto = r.URL.Query().Get("mailto")
		fmt.Fprint(w, openAlexWorksJSON)
	})

	a := &OpenAlexAdapter{
		Client: ts.Client(),
		Polite: testPolite(),
		Log:    zerolog.Nop(),
		Max:    10,
		Email:  "reviews@example.org",
	}
	a.Search(context.Background(), testTermSet(types.TermsKeywordCombo, "sleep"))

	if mailto != "reviews@example.org" {
		t.Errorf("mailto = %q", mailto)
	}
}

// --- fallback chain ---

func TestOpenAlexFallsBackToAcademicWebSearch(t *testing.T) {
	serveOpenAlex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	var ddgQuery string
	ddgTS := serveDDG(t, func(w http.ResponseWriter, r *http.Request) {
		ddgQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, ddgResultsHTML)
	})

	a := &OpenAlexAdapter{
		Client: ddgTS.Client(),
		Polite: testPolite(),
		Log:    zerolog.Nop(),
		Max:    10,
		DDG:    newTestDDG(ddgTS, 10),
	}
	records, method := a.Search(context.Background(), testTermSet(types.TermsKeywordCombo, "mindfulness", "anxiety"))

	if method != "openalex_search_keyword_combo" {
		t.Errorf("method = %q", method)
	}
	if len(records) != 2 {
		t.Errorf("len(records) = %d, want 2", len(records))
	}
	if !strings.Contains(ddgQuery, "site:scholar.google.com") {
		t.Errorf("fallback query = %q, want academic site pool", ddgQuery)
	}
}
