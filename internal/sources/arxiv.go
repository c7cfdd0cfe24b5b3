// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/review-engine/internal/academic"
	"github.com/pdiddy/review-engine/internal/httputil"
	"github.com/pdiddy/review-engine/internal/ident"
	"github.com/pdiddy/review-engine/pkg/types"
)

// arxivAPIBase is the arXiv Atom search endpoint. Declared as a var so
// tests can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const arxivAPICeiling = 100

// ArxivAdapter covers arXiv. The Atom API is free and reliable, so the
// web-search fallback rarely runs.
type ArxivAdapter struct {
	Client *http.Client
	Polite *httputil.Politeness
	Log    zerolog.Logger
	Max    int
	DDG    *DuckDuckGo
}

// Name returns the source identifier.
func (a *ArxivAdapter) Name() string { return "arxiv" }

// Search runs the arXiv technique chain.
func (a *ArxivAdapter) Search(ctx context.Context, ts types.TermSet) ([]types.Record, string) {
	return runChain(ctx, a.Log, a.Name(), ts, []step{
		{tag: "arxiv_api", fn: a.api},
		{tag: "arxiv_search", fn: a.viaWeb},
	})
}

func (a *ArxivAdapter) api(ctx context.Context, terms []string) ([]types.Record, error) {
	query := buildArxivQuery(terms)
	searchURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, query, capResults(a.Max, arxivAPICeiling))

	resp, err := get(ctx, a.Client, a.Polite, searchURL, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arxiv response: %w", err)
	}

	var records []types.Record
	for _, entry := range feed.Entries {
		if rec, ok := arxivRecord(entry); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (a *ArxivAdapter) viaWeb(ctx context.Context, terms []string) ([]types.Record, error) {
	return a.DDG.SiteSearch(ctx, "arxiv.org", firstN(terms, 3), false)
}

// buildArxivQuery joins terms into the API's all-fields query syntax,
// e.g. "all:machine+learning+AND+all:diagnosis". Spaces inside a term
// become pluses; the API rejects percent-encoded spaces.
func buildArxivQuery(terms []string) string {
	parts := make([]string, 0, 5)
	for _, term := range firstN(terms, 5) {
		parts = append(parts, "all:"+strings.Join(strings.Fields(term), "+"))
	}
	return strings.Join(parts, "+AND+")
}

func arxivRecord(entry arxivEntry) (types.Record, bool) {
	idType, _ := ident.FromURL(entry.ID)
	if idType != ident.TypeArxiv {
		return types.Record{}, false
	}

	title := collapseSpace(entry.Title)
	year := 0
	if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
		year = t.Year()
	}
	if !academic.ValidRecord(title, year) {
		return types.Record{}, false
	}

	names := make([]string, 0, len(entry.Authors))
	for _, au := range entry.Authors {
		names = append(names, strings.TrimSpace(au.Name))
	}

	return types.Record{
		Title:    title,
		Authors:  formatAuthors(names),
		Abstract: capRunes(collapseSpace(entry.Summary), maxAbstractAPI),
		Year:     year,
		URL:      entry.ID,
		DOI:      strings.TrimSpace(entry.DOI),
	}, true
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	DOI       string        `xml:"doi"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}
