// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources wraps external bibliographic systems, both structured APIs
// and scraped sites, behind one uniform search contract.
//
// Each adapter runs an internal chain of techniques (e.g. a direct API call,
// then a web-search-with-site-filter) sequentially and reports the technique
// that produced results as its method tag. Techniques never let an error
// escape: any network, HTTP, or parse failure reduces to zero records, and
// the adapter answers (nil, "failed") once the chain is exhausted.
// Implements: prd001-aggregation R2 (adapters), R4 (politeness);
// docs/ARCHITECTURE § Source Adapters.
package sources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pdiddy/review-engine/internal/httputil"
	"github.com/pdiddy/review-engine/pkg/types"
)

// MethodFailed is the method tag reported when every technique in an
// adapter's chain came up empty.
const MethodFailed = "failed"

// Adapter is the uniform search contract every source implements. Search
// never returns an error; on total failure it returns (nil, MethodFailed)
// and the orchestrator records the outcome. The returned method tag names
// the winning technique suffixed with the term set kind, e.g.
// "pubmed_api_research_question".
type Adapter interface {
	Name() string
	Search(ctx context.Context, ts types.TermSet) ([]types.Record, string)
}

// step is one technique in an adapter's fallback chain.
type step struct {
	tag string
	fn  func(ctx context.Context, terms []string) ([]types.Record, error)
}

// runChain executes steps in order until one yields records. The winner's
// records are stamped with source, composed method tag, and the terms used;
// later steps are never tried. Failures are logged at debug and absorbed.
func runChain(ctx context.Context, log zerolog.Logger, source string, ts types.TermSet, steps []step) ([]types.Record, string) {
	if len(ts.Terms) == 0 {
		return nil, MethodFailed
	}
	for _, s := range steps {
		if ctx.Err() != nil {
			return nil, MethodFailed
		}
		records, err := s.fn(ctx, ts.Terms)
		if err != nil {
			log.Debug().Str("source", source).Str("technique", s.tag).Err(err).Msg("technique failed")
			continue
		}
		if len(records) == 0 {
			log.Debug().Str("source", source).Str("technique", s.tag).Msg("technique returned nothing")
			continue
		}
		method := fmt.Sprintf("%s_%s", s.tag, ts.Kind)
		for i := range records {
			records[i].Source = source
			records[i].Method = method
			records[i].Terms = ts.Terms
		}
		return records, method
	}
	return nil, MethodFailed
}

// get issues one politeness-paced GET: waits for a rate-limit slot and the
// jittered delay, rotates the User-Agent, and retries on HTTP 429. The
// caller owns the response body.
func get(ctx context.Context, client *http.Client, polite *httputil.Politeness, url string, headers map[string]string) (*http.Response, error) {
	if err := polite.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", polite.UserAgent())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return httputil.DoWithRetry(ctx, client, req, 0)
}

// capResults bounds a per-source maximum by an API's own ceiling, defaulting
// when unset.
func capResults(max, ceiling int) int {
	if max <= 0 {
		max = 100
	}
	if max > ceiling {
		return ceiling
	}
	return max
}
