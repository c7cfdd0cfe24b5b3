// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/review-engine/pkg/types"
)

// siteFilters maps subscription databases to the public domains where
// their indexed material surfaces. None of these offer a public API or a
// scrapeable result page, so records are gathered through site-filtered
// web search instead.
var siteFilters = map[string][]string{
	"scopus":         {"scopus.com"},
	"web_of_science": {"webofknowledge.com", "webofscience.com"},
	"embase":         {"embase.com"},
	"psycinfo":       {"psycnet.apa.org"},
}

// SiteAdapter reaches a closed database through site-filtered web search.
// It collects per-domain results until half the per-source cap is met,
// then pads with a pool search that carries the source's name as an extra
// term, deduplicating by title across both passes.
type SiteAdapter struct {
	Source string
	Sites  []string
	Max    int
	DDG    *DuckDuckGo
}

// Name returns the source identifier.
func (a *SiteAdapter) Name() string { return a.Source }

// Search runs the site-filtered fallback chain.
func (a *SiteAdapter) Search(ctx context.Context, ts types.TermSet) ([]types.Record, string) {
	return runChain(ctx, a.DDG.Log, a.Name(), ts, []step{
		{tag: "universal_fallback_enhanced", fn: a.fallback},
	})
}

func (a *SiteAdapter) fallback(ctx context.Context, terms []string) ([]types.Record, error) {
	var records []types.Record
	for _, site := range a.Sites {
		found, err := a.DDG.SiteSearch(ctx, site, firstN(terms, 3), true)
		if err != nil {
			continue
		}
		records = append(records, found...)
		if len(records) >= a.Max/2 {
			break
		}
	}

	if len(records) < a.Max/2 {
		enhanced := append([]string{}, firstN(terms, 3)...)
		enhanced = append(enhanced, sourceTerm(a.Source))
		if found, err := a.DDG.SiteSearch(ctx, "", enhanced, true); err == nil {
			records = append(records, found...)
		}
	}

	records = dedupeByTitle(records)
	if a.Max > 0 && len(records) > a.Max {
		records = records[:a.Max]
	}
	return records, nil
}

// sourceTerm reduces a source identifier to a single query term, e.g.
// "web_of_science" to "web".
func sourceTerm(source string) string {
	fields := strings.FieldsFunc(source, func(r rune) bool {
		return r == '_' || r == ' '
	})
	if len(fields) == 0 {
		return source
	}
	return strings.ToLower(fields[0])
}

func dedupeByTitle(records []types.Record) []types.Record {
	seen := make(map[string]struct{}, len(records))
	unique := records[:0]
	for _, rec := range records {
		key := strings.ToLower(strings.TrimSpace(rec.Title))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, rec)
	}
	return unique
}

// ResearchGateAdapter covers ResearchGate, which has no API and blocks
// direct scraping outright; the single technique is a site-filtered web
// search.
type ResearchGateAdapter struct {
	Log zerolog.Logger
	DDG *DuckDuckGo
}

// Name returns the source identifier.
func (a *ResearchGateAdapter) Name() string { return "researchgate" }

// Search runs the ResearchGate technique chain.
func (a *ResearchGateAdapter) Search(ctx context.Context, ts types.TermSet) ([]types.Record, string) {
	return runChain(ctx, a.Log, a.Name(), ts, []step{
		{tag: "researchgate_search", fn: a.viaWeb},
	})
}

func (a *ResearchGateAdapter) viaWeb(ctx context.Context, terms []string) ([]types.Record, error) {
	return a.DDG.SiteSearch(ctx, "researchgate.net", firstN(terms, 3), false)
}
