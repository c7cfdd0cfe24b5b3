// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package federate orchestrates fallback-driven searches across all
// configured sources and reconciles the results into one corpus.
// Implements: prd001-aggregation R3 (Fallback Orchestrator);
//
//	docs/ARCHITECTURE § Federated Search.
package federate

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/review-engine/internal/dedupe"
	"github.com/pdiddy/review-engine/internal/sources"
	"github.com/pdiddy/review-engine/internal/terms"
	"github.com/pdiddy/review-engine/pkg/types"
)

// Engine runs federated searches against a set of registered source
// adapters. Engines hold no per-run state; a single engine may serve
// concurrent runs.
type Engine struct {
	Registry *sources.Registry
	Config   types.SearchConfig
	Log      zerolog.Logger
}

// Run plans term sets from the given inputs, queries each requested source
// through its fallback chain, and returns the deduplicated corpus together
// with per-attempt statistics. Individual source failures never abort the
// run; they surface in the statistics. An empty srcNames queries every
// registered source.
func (e *Engine) Run(ctx context.Context, keywords []string, question string, srcNames []string) (types.Corpus, types.RunStatistics) {
	if len(keywords) == 0 && strings.TrimSpace(question) == "" {
		e.Log.Warn().Msg("no keywords or research question given; searching with generic terms")
	}
	plan := terms.Plan(keywords, question)

	adapters := e.resolve(srcNames)
	var stats types.RunStatistics
	if len(adapters) == 0 {
		e.Log.Warn().Msg("no sources to query")
		return types.Corpus{}, stats
	}

	runCtx := ctx
	if e.Config.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.Config.RunTimeout)
		defer cancel()
	}

	e.Log.Info().
		Int("term_sets", len(plan)).
		Int("sources", len(adapters)).
		Msg("starting federated search")

	ch := make(chan sourceOutcome, len(adapters))
	var wg sync.WaitGroup
	for i, adapter := range adapters {
		if i > 0 {
			stagger(e.Config.InterSourceDelay)
		}
		wg.Add(1)
		go func(a sources.Adapter) {
			defer wg.Done()
			ch <- e.searchSource(runCtx, a, plan)
		}(adapter)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	// Collecting on a single goroutine keeps record and statistics
	// aggregation free of shared mutable state between workers.
	var all []types.Record
	for out := range ch {
		all = append(all, out.records...)
		stats.Merge(out.stats)
	}

	corpus := dedupe.Dedupe(all)
	e.Log.Info().
		Int("raw", len(all)).
		Int("kept", corpus.Len()).
		Float64("success_rate", stats.SuccessRate()).
		Msg("federated search finished")
	return corpus, stats
}

// resolve maps requested source names to registered adapters. Unknown names
// are skipped with a warning; an empty request selects every adapter.
func (e *Engine) resolve(names []string) []sources.Adapter {
	if len(names) == 0 {
		names = e.Registry.Names()
	}
	var adapters []sources.Adapter
	for _, name := range names {
		adapter, ok := e.Registry.Get(name)
		if !ok {
			e.Log.Warn().Str("source", name).Msg("unknown source; skipping")
			continue
		}
		adapters = append(adapters, adapter)
	}
	return adapters
}

// sourceOutcome carries one worker's records and statistics back to the
// collector.
type sourceOutcome struct {
	source  string
	records []types.Record
	stats   types.RunStatistics
}

// searchSource walks the term sets in priority order for one source,
// accumulating records. Research-question terms short-circuit the keyword
// fallbacks once they have yielded a third of the per-source cap; a good
// targeted result beats exhausting every keyword combination.
func (e *Engine) searchSource(ctx context.Context, adapter sources.Adapter, plan []types.TermSet) sourceOutcome {
	out := sourceOutcome{source: adapter.Name()}
	seen := make(map[string]struct{})
	log := e.Log.With().Str("source", out.source).Logger()

	for _, ts := range plan {
		if ctx.Err() != nil {
			log.Warn().Msg("run deadline reached before source finished")
			if len(out.records) == 0 {
				recordOnce(seen, out.stats.RecordFailure, out.source, sources.MethodFailed)
			}
			break
		}

		records, method := adapter.Search(ctx, ts)
		if len(records) == 0 {
			log.Debug().Str("term_set", ts.Description).Msg("term set produced nothing")
			recordOnce(seen, out.stats.RecordFailure, out.source, method)
			continue
		}

		out.records = append(out.records, records...)
		recordOnce(seen, out.stats.RecordSuccess, out.source, method)
		log.Info().
			Int("found", len(records)).
			Str("method", method).
			Str("term_set", ts.Description).
			Msg("term set produced records")

		if ts.Kind == types.TermsResearchQuestion && len(out.records) >= e.earlyExitThreshold() {
			log.Debug().
				Int("have", len(out.records)).
				Msg("research question results sufficient; skipping keyword fallbacks")
			break
		}
	}

	if max := e.Config.MaxPerSource; max > 0 && len(out.records) > max {
		out.records = out.records[:max]
	}
	if len(out.records) > 0 {
		out.stats.AddRecords(out.source, len(out.records))
	}
	return out
}

// recordOnce appends a (source, method) outcome unless the pair was already
// recorded this run. Attempt outcomes are monotonic: each pair lands in the
// success list or the failure list exactly once, never both.
func recordOnce(seen map[string]struct{}, record func(source, method string), source, method string) {
	key := source + ":" + method
	if _, ok := seen[key]; ok {
		return
	}
	seen[key] = struct{}{}
	record(source, method)
}

func (e *Engine) earlyExitThreshold() int {
	divisor := e.Config.EarlyExitDivisor
	if divisor <= 0 {
		divisor = 3
	}
	max := e.Config.MaxPerSource
	if max <= 0 {
		max = 100
	}
	threshold := max / divisor
	if threshold < 1 {
		threshold = 1
	}
	return threshold
}

// stagger sleeps a random fraction of max before the next source launch so
// concurrent scrapes do not hit shared endpoints in lockstep.
func stagger(max time.Duration) {
	if max <= 0 {
		return
	}
	time.Sleep(time.Duration(rand.Int63n(int64(max))))
}
