// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe collapses multi-source search results into a corpus with
// stable record ids.
// Implements: prd001-aggregation R5 (Deduplicator);
//
//	docs/ARCHITECTURE § Deduplication.
package dedupe

import (
	"strings"

	"github.com/pdiddy/review-engine/pkg/types"
)

// maxAbstract bounds stored abstracts. Adapters apply their own caps, but
// corpora assembled from mixed or older runs are re-checked here.
const maxAbstract = 1000

// Dedupe collapses records sharing a normalized title into the first
// occurrence and assigns dense ids in survival order, starting at 1.
// Exact normalized-title equality is deliberate: a false merge loses a
// distinct work, while a residual duplicate is caught during screening.
// Missing metadata never drops a record; sentinel fills are applied
// instead. Only records with no usable title at all are discarded.
// Running Dedupe over an already-deduplicated corpus returns identical
// records, ids, and order.
func Dedupe(records []types.Record) types.Corpus {
	seen := make(map[string]struct{}, len(records))
	var kept []types.Record

	for _, rec := range records {
		key := types.NormalizeTitle(rec.Title)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, clean(rec))
	}

	for i := range kept {
		kept[i].ID = i + 1
	}
	return types.Corpus{Records: kept}
}

// clean standardizes a surviving record: whitespace collapsed, abstract
// bounded, author sentinel filled.
func clean(rec types.Record) types.Record {
	rec.Title = collapse(rec.Title)
	rec.Abstract = capRunes(collapse(rec.Abstract), maxAbstract)
	if strings.TrimSpace(rec.Authors) == "" {
		rec.Authors = types.UnknownAuthors
	}
	return rec
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func capRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
