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
	"github.com/pdiddy/review-engine/internal/ident"
	"github.com/pdiddy/review-engine/pkg/types"
)

// coreAPIBase is the CORE v3 works search endpoint. Declared as a var so
// tests can substitute an httptest server.
var coreAPIBase = "https://api.core.ac.uk/v3/search/works"

const coreAPICeiling = 100

// COREAdapter covers the CORE open access aggregator. The API requires a
// key; without one the chain goes straight to the web-search fallback.
type COREAdapter struct {
	Client *http.Client
	Polite *httputil.Politeness
	Log    zerolog.Logger
	Max    int
	APIKey string
	DDG    *DuckDuckGo
}

// Name returns the source identifier.
func (a *COREAdapter) Name() string { return "core" }

// Search runs the CORE technique chain.
func (a *COREAdapter) Search(ctx context.Context, ts types.TermSet) ([]types.Record, string) {
	return runChain(ctx, a.Log, a.Name(), ts, []step{
		{tag: "core_api", fn: a.api},
		{tag: "duckduckgo_core", fn: a.viaWeb},
	})
}

func (a *COREAdapter) api(ctx context.Context, terms []string) ([]types.Record, error) {
	if a.APIKey == "" {
		return nil, fmt.Errorf("core API key not configured")
	}

	clauses := make([]string, 0, 5)
	for _, term := range firstN(terms, 5) {
		clauses = append(clauses, `title:"`+term+`"`)
	}

	params := url.Values{
		"q":      {strings.Join(clauses, " AND ")},
		"limit":  {strconv.Itoa(capResults(a.Max, coreAPICeiling))},
		"apiKey": {a.APIKey},
	}

	resp, err := get(ctx, a.Client, a.Polite, coreAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("core returned HTTP %d", resp.StatusCode)
	}

	var cr coreResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing core response: %w", err)
	}

	var records []types.Record
	for _, work := range cr.Results {
		if rec, ok := coreRecord(work); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (a *COREAdapter) viaWeb(ctx context.Context, terms []string) ([]types.Record, error) {
	return a.DDG.SiteSearch(ctx, "core.ac.uk", firstN(terms, 3), false)
}

func coreRecord(w coreWork) (types.Record, bool) {
	title := collapseSpace(w.Title)
	if !academic.ValidRecord(title, w.YearPublished) {
		return types.Record{}, false
	}

	names := make([]string, 0, len(w.Authors))
	for _, au := range w.Authors {
		names = append(names, au.Name)
	}

	rec := types.Record{
		Title:    title,
		Authors:  formatAuthors(names),
		Abstract: capRunes(collapseSpace(w.Abstract), maxAbstractAPI),
		Year:     w.YearPublished,
		URL:      w.DownloadURL,
		DOI:      w.DOI,
	}
	if rec.URL == "" && w.DOI != "" {
		rec.URL = ident.URLFor(ident.TypeDOI, w.DOI)
	}
	return rec, true
}

// CORE v3 API JSON structures.
type coreResponse struct {
	TotalHits int        `json:"totalHits"`
	Results   []coreWork `json:"results"`
}

type coreWork struct {
	Title         string       `json:"title"`
	Abstract      string       `json:"abstract"`
	YearPublished int          `json:"yearPublished"`
	DOI           string       `json:"doi"`
	DownloadURL   string       `json:"downloadUrl"`
	Authors       []coreAuthor `json:"authors"`
}

type coreAuthor struct {
	Name string `json:"name"`
}
