// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"net/http"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pdiddy/review-engine/internal/httputil"
	"github.com/pdiddy/review-engine/pkg/types"
)

// Registry holds the adapters available to an engine. Sources are added by
// registering an implementation, never by branching on name strings.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its own name, replacing any previous
// adapter with the same name.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Name()] = a
}

// Get looks up an adapter by name.
func (r *Registry) Get(name string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	return a, ok
}

// Names returns the registered adapter names, sorted for stable output.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry wires up every built-in adapter: the five API-backed
// sources, the two scrapers, and site-filtered adapters for the aggregator
// databases that offer no public API. All share one politeness layer so the
// configured request rate bounds the whole engine, not each source.
func DefaultRegistry(client *http.Client, cfg types.SearchConfig, log zerolog.Logger) *Registry {
	polite := httputil.NewPoliteness(cfg)
	ddg := &DuckDuckGo{
		Client: client,
		Polite: polite,
		Log:    log,
		Max:    cfg.MaxPerSource,
	}

	r := NewRegistry()
	r.Register(&PubMedAdapter{
		Client: client,
		Polite: polite,
		Log:    log,
		Max:    cfg.MaxPerSource,
		APIKey: cfg.NCBIAPIKey,
		DDG:    ddg,
	})
	r.Register(&SemanticScholarAdapter{
		Client: client,
		Polite: polite,
		Log:    log,
		Max:    cfg.MaxPerSource,
		APIKey: cfg.SemanticScholarAPIKey,
		DDG:    ddg,
	})
	r.Register(&COREAdapter{
		Client: client,
		Polite: polite,
		Log:    log,
		Max:    cfg.MaxPerSource,
		APIKey: cfg.COREAPIKey,
		DDG:    ddg,
	})
	r.Register(&ArxivAdapter{
		Client: client,
		Polite: polite,
		Log:    log,
		Max:    cfg.MaxPerSource,
		DDG:    ddg,
	})
	r.Register(&OpenAlexAdapter{
		Client: client,
		Polite: polite,
		Log:    log,
		Max:    cfg.MaxPerSource,
		Email:  cfg.OpenAlexEmail,
		DDG:    ddg,
	})
	r.Register(&ScholarAdapter{
		Client: client,
		Polite: polite,
		Log:    log,
		Max:    cfg.MaxPerSource,
		DDG:    ddg,
	})
	r.Register(&DuckDuckGoAdapter{DDG: ddg, Max: cfg.MaxPerSource})
	r.Register(&ResearchGateAdapter{Log: log, DDG: ddg})

	// Aggregator databases with no scrapeable or public API surface are
	// reached through site-filtered web search.
	for name, sites := range siteFilters {
		r.Register(&SiteAdapter{Source: name, Sites: sites, Max: cfg.MaxPerSource, DDG: ddg})
	}
	return r
}
