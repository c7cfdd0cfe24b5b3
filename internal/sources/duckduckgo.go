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

// ddgHTMLBase is the DuckDuckGo HTML endpoint. Declared as a var so tests
// can substitute an httptest server.
var ddgHTMLBase = "https://duckduckgo.com/html/"

// academicPool lists the domains ORed into the query when a search has
// academic focus but no single target site.
var academicPool = []string{
	"scholar.google.com",
	"pubmed.ncbi.nlm.nih.gov",
	"arxiv.org",
	"researchgate.net",
	"sciencedirect.com",
	"springer.com",
}

// relevanceSuffix biases open web queries toward scholarly material.
const relevanceSuffix = "(research OR study OR analysis OR paper OR journal)"

// resultSelectors are tried in order until one matches; the HTML endpoint
// has shipped several result-page layouts.
var resultSelectors = []string{
	"div.result",
	"div.web-result",
	`div[class*="result"]`,
	"article",
}

// DuckDuckGo runs site-filtered searches against the DuckDuckGo HTML
// endpoint and parses result pages into records. Every adapter that falls
// back to scraping when a native API is unavailable shares one instance,
// so all scraped traffic is paced by a single politeness budget.
type DuckDuckGo struct {
	Client *http.Client
	Polite *httputil.Politeness
	Log    zerolog.Logger
	Max    int
}

// SiteSearch queries DuckDuckGo with the given terms, restricted to site
// when non-empty. With academic set and no site, the query is restricted
// to the scholarly domain pool instead. Callers cap the term list; three
// terms is the usual limit before queries stop matching. Scraped hits are
// validated before they are returned; an empty slice with a nil error
// means the page parsed but held nothing usable.
func (d *DuckDuckGo) SiteSearch(ctx context.Context, site string, terms []string, academic bool) ([]types.Record, error) {
	query := d.buildQuery(site, terms, academic)
	d.Log.Debug().Str("query", query).Msg("duckduckgo search")

	resp, err := get(ctx, d.Client, d.Polite, ddgHTMLBase+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing duckduckgo response: %w", err)
	}
	return d.parseResults(doc), nil
}

func (d *DuckDuckGo) buildQuery(site string, terms []string, academic bool) string {
	parts := []string{strings.Join(terms, " ")}

	if site != "" {
		parts = append(parts, "site:"+site)
	} else if academic {
		sites := make([]string, len(academicPool))
		for i, domain := range academicPool {
			sites[i] = "site:" + domain
		}
		parts = append(parts, "("+strings.Join(sites, " OR ")+")")
	}

	if site == "" || academic {
		parts = append(parts, relevanceSuffix)
	}
	return strings.Join(parts, " ")
}

func (d *DuckDuckGo) parseResults(doc *goquery.Document) []types.Record {
	var containers *goquery.Selection
	for _, sel := range resultSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			containers = found
			break
		}
	}
	if containers == nil {
		d.Log.Debug().Msg("no result containers in duckduckgo response")
		return nil
	}

	limit := containers.Length()
	if d.Max > 0 && d.Max < limit {
		limit = d.Max
	}

	var records []types.Record
	containers.Slice(0, limit).Each(func(_ int, s *goquery.Selection) {
		if rec, ok := extractResult(s); ok {
			records = append(records, rec)
		}
	})
	return records
}

// extractResult pulls one record out of a result container. Links on the
// HTML endpoint are usually redirect-wrapped, so the destination URL is
// unwrapped before validation scores its domain.
func extractResult(s *goquery.Selection) (types.Record, bool) {
	link := s.Find("a.result__a").First()
	if link.Length() == 0 {
		link = s.Find("h3 a, h2 a, a[href]").First()
	}
	if link.Length() == 0 {
		return types.Record{}, false
	}

	title := link.Text()
	// Find returns matches in document order, so the result__body wrapper
	// would shadow the snippet inside it; try the narrow selectors first.
	snippet := s.Find(".result__snippet, .result-snippet, .snippet").First().Text()
	if snippet == "" {
		snippet = s.Find(".result__body").First().Text()
	}
	authors := extractAuthors(collapseSpace(title + " " + snippet))
	return scrapedRecord(title, authors, snippet, "", resolveResultURL(link.AttrOr("href", "")))
}

// resolveResultURL unwraps DuckDuckGo's /l/?uddg= redirect links; any
// other href passes through unchanged.
func resolveResultURL(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

// DuckDuckGoAdapter is the open web source. It searches the scholarly
// domain pool first and broadens the query with generic research terms
// when that pass comes up short.
type DuckDuckGoAdapter struct {
	DDG *DuckDuckGo
	Max int
}

// Name returns the source identifier.
func (a *DuckDuckGoAdapter) Name() string { return "duckduckgo" }

// Search runs the enhanced web search chain.
func (a *DuckDuckGoAdapter) Search(ctx context.Context, ts types.TermSet) ([]types.Record, string) {
	return runChain(ctx, a.DDG.Log, a.Name(), ts, []step{
		{tag: "enhanced_duckduckgo", fn: a.enhanced},
	})
}

func (a *DuckDuckGoAdapter) enhanced(ctx context.Context, terms []string) ([]types.Record, error) {
	records, err := a.DDG.SiteSearch(ctx, "", firstN(terms, 3), true)
	if err != nil {
		a.DDG.Log.Debug().Err(err).Msg("academic pool search failed, trying broader query")
	}

	if len(records) < a.Max/2 {
		broadened := append([]string{}, firstN(terms, 3)...)
		broadened = append(broadened, "research", "study", "paper")
		if more, broadErr := a.DDG.SiteSearch(ctx, "", broadened, false); broadErr == nil {
			records = append(records, more...)
		}
	}

	if len(records) == 0 && err != nil {
		return nil, err
	}
	if a.Max > 0 && len(records) > a.Max {
		records = records[:a.Max]
	}
	return records, nil
}
