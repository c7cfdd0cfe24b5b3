// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/review-engine/internal/academic"
	"github.com/pdiddy/review-engine/internal/httputil"
	"github.com/pdiddy/review-engine/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const (
	semanticFields     = "title,url,abstract,authors,externalIds,year,venue"
	semanticAPICeiling = 100
)

// SemanticScholarAdapter covers the Semantic Scholar Academic Graph. The
// API works without a key at a low rate limit; a key raises it.
type SemanticScholarAdapter struct {
	Client *http.Client
	Polite *httputil.Politeness
	Log    zerolog.Logger
	Max    int
	APIKey string
	DDG    *DuckDuckGo
}

// Name returns the source identifier.
func (a *SemanticScholarAdapter) Name() string { return "semantic_scholar" }

// Search runs the Semantic Scholar technique chain.
func (a *SemanticScholarAdapter) Search(ctx context.Context, ts types.TermSet) ([]types.Record, string) {
	return runChain(ctx, a.Log, a.Name(), ts, []step{
		{tag: "semantic_scholar_api", fn: a.api},
		{tag: "duckduckgo_semantic_scholar", fn: a.viaWeb},
	})
}

func (a *SemanticScholarAdapter) api(ctx context.Context, terms []string) ([]types.Record, error) {
	params := url.Values{
		"query":  {strings.Join(firstN(terms, 5), " ")},
		"limit":  {strconv.Itoa(capResults(a.Max, semanticAPICeiling))},
		"fields": {semanticFields},
	}
	var headers map[string]string
	if a.APIKey != "" {
		headers = map[string]string{"x-api-key": a.APIKey}
	}

	resp, err := get(ctx, a.Client, a.Polite, semanticAPIBase+"?"+params.Encode(), headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("semantic scholar returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing semantic scholar response: %w", err)
	}

	var records []types.Record
	for _, paper := range sr.Data {
		if rec, ok := semanticRecord(paper); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (a *SemanticScholarAdapter) viaWeb(ctx context.Context, terms []string) ([]types.Record, error) {
	return a.DDG.SiteSearch(ctx, "semanticscholar.org", firstN(terms, 3), false)
}

func semanticRecord(p semanticPaper) (types.Record, bool) {
	title := collapseSpace(p.Title)
	if !academic.ValidRecord(title, p.Year) {
		return types.Record{}, false
	}

	names := make([]string, 0, len(p.Authors))
	for _, au := range p.Authors {
		names = append(names, au.Name)
	}

	rec := types.Record{
		Title:    title,
		Authors:  formatAuthors(names),
		Abstract: capRunes(collapseSpace(p.Abstract), maxAbstractAPI),
		Year:     p.Year,
		URL:      p.URL,
		DOI:      p.ExternalIDs.DOI,
	}
	if rec.URL == "" && p.PaperID != "" {
		rec.URL = "https://www.semanticscholar.org/paper/" + p.PaperID
	}
	return rec, true
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID     string              `json:"paperId"`
	Title       string              `json:"title"`
	Abstract    string              `json:"abstract"`
	URL         string              `json:"url"`
	Year        int                 `json:"year"`
	Venue       string              `json:"venue"`
	Authors     []semanticAuthor    `json:"authors"`
	ExternalIDs semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}
