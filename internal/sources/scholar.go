// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/pdiddy/review-engine/internal/httputil"
	"github.com/pdiddy/review-engine/pkg/types"
)

// scholarBase is the Google Scholar result page. Declared as a var so
// tests can substitute an httptest server.
var scholarBase = "https://scholar.google.com/scholar"

// ScholarAdapter covers Google Scholar. Scholar has no public API and
// blocks aggressively, so the chain tries a direct result-page scrape,
// then a site-filtered web search, then a broadened academic query.
type ScholarAdapter struct {
	Client *http.Client
	Polite *httputil.Politeness
	Log    zerolog.Logger
	Max    int
	DDG    *DuckDuckGo
}

// Name returns the source identifier.
func (a *ScholarAdapter) Name() string { return "google_scholar" }

// Search runs the Scholar technique chain.
func (a *ScholarAdapter) Search(ctx context.Context, ts types.TermSet) ([]types.Record, string) {
	return runChain(ctx, a.Log, a.Name(), ts, []step{
		{tag: "direct_scholar", fn: a.direct},
		{tag: "duckduckgo_scholar", fn: a.viaWeb},
		{tag: "academic_terms", fn: a.broadAcademic},
	})
}

// direct scrapes the Scholar result page. A short query keeps the request
// from tripping the complexity-based blocks.
func (a *ScholarAdapter) direct(ctx context.Context, terms []string) ([]types.Record, error) {
	query := strings.Join(firstN(terms, 3), " ")
	searchURL := fmt.Sprintf("%s?q=%s&hl=en&as_sdt=0%%2C5", scholarBase, url.QueryEscape(query))

	resp, err := get(ctx, a.Client, a.Polite, searchURL, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scholar returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing scholar response: %w", err)
	}
	return a.parseResults(doc), nil
}

func (a *ScholarAdapter) viaWeb(ctx context.Context, terms []string) ([]types.Record, error) {
	return a.DDG.SiteSearch(ctx, "scholar.google.com", firstN(terms, 3), false)
}

func (a *ScholarAdapter) broadAcademic(ctx context.Context, terms []string) ([]types.Record, error) {
	query := strings.Join(firstN(terms, 2), " ") + " research study paper"
	return a.DDG.SiteSearch(ctx, "", []string{query}, true)
}

func (a *ScholarAdapter) parseResults(doc *goquery.Document) []types.Record {
	containers := doc.Find("div.gs_ri")
	if containers.Length() == 0 {
		containers = doc.Find("div.gs_r")
	}
	if containers.Length() == 0 {
		a.Log.Debug().Msg("no result containers in scholar response")
		return nil
	}

	limit := containers.Length()
	if a.Max > 0 && a.Max < limit {
		limit = a.Max
	}

	var records []types.Record
	containers.Slice(0, limit).Each(func(_ int, s *goquery.Selection) {
		if rec, ok := extractScholarResult(s); ok {
			records = append(records, rec)
		}
	})
	return records
}

// extractScholarResult pulls one record out of a Scholar result block.
// The gs_a byline ("A Author, B Author - Journal, 2019 - publisher") is
// the only author source and usually the only year source.
func extractScholarResult(s *goquery.Selection) (types.Record, bool) {
	title := s.Find("h3.gs_rt").First()
	if title.Length() == 0 {
		title = s.Find("a").First()
	}
	if title.Length() == 0 {
		return types.Record{}, false
	}

	link := title
	if !title.Is("a") {
		link = title.Find("a").First()
	}

	snippet := s.Find("div.gs_rs").First().Text()
	byline := collapseSpace(s.Find("div.gs_a").First().Text())
	return scrapedRecord(title.Text(), extractAuthors(byline), snippet, byline, link.AttrOr("href", ""))
}
