// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/review-engine/internal/academic"
	"github.com/pdiddy/review-engine/internal/httputil"
	"github.com/pdiddy/review-engine/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

const openAlexAPICeiling = 200

// OpenAlexAdapter covers OpenAlex. The API is free and keyless; setting a
// mailto address routes requests to the faster polite pool.
type OpenAlexAdapter struct {
	Client *http.Client
	Polite *httputil.Politeness
	Log    zerolog.Logger
	Max    int
	Email  string
	DDG    *DuckDuckGo
}

// Name returns the source identifier.
func (a *OpenAlexAdapter) Name() string { return "openalex" }

// Search runs the OpenAlex technique chain.
func (a *OpenAlexAdapter) Search(ctx context.Context, ts types.TermSet) ([]types.Record, string) {
	return runChain(ctx, a.Log, a.Name(), ts, []step{
		{tag: "openalex_api", fn: a.api},
		{tag: "openalex_search", fn: a.viaWeb},
	})
}

func (a *OpenAlexAdapter) api(ctx context.Context, terms []string) ([]types.Record, error) {
	params := url.Values{
		"search":   {strings.Join(firstN(terms, 5), " ")},
		"per_page": {strconv.Itoa(capResults(a.Max, openAlexAPICeiling))},
		"page":     {"1"},
	}
	if a.Email != "" {
		params.Set("mailto", a.Email)
	}

	resp, err := get(ctx, a.Client, a.Polite, openAlexSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openalex returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parsing openalex response: %w", err)
	}

	var records []types.Record
	for _, work := range oar.Results {
		if rec, ok := openAlexRecord(work); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (a *OpenAlexAdapter) viaWeb(ctx context.Context, terms []string) ([]types.Record, error) {
	return a.DDG.SiteSearch(ctx, "", terms, true)
}

func openAlexRecord(w openAlexWork) (types.Record, bool) {
	title := collapseSpace(w.Title)
	if !academic.ValidRecord(title, w.PublicationYear) {
		return types.Record{}, false
	}

	var names []string
	for _, authorship := range w.Authorships {
		if authorship.Author.DisplayName != "" {
			names = append(names, authorship.Author.DisplayName)
		}
	}

	// OpenAlex is DOI-centric: the doi field is a resolver URL, which
	// doubles as the landing page when no open access copy is known.
	rec := types.Record{
		Title:    title,
		Authors:  formatAuthors(names),
		Abstract: capRunes(reconstructAbstract(w.AbstractInvertedIndex), maxAbstractAPI),
		Year:     w.PublicationYear,
		DOI:      strings.TrimPrefix(w.DOI, "https://doi.org/"),
	}
	switch {
	case w.OpenAccess.OAURL != "":
		rec.URL = w.OpenAccess.OAURL
	case w.DOI != "":
		rec.URL = w.DOI
	default:
		rec.URL = w.ID
	}
	return rec, true
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to the positions where it
// appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationYear       int                  `json:"publication_year"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	OpenAccess            openAlexOpenAccess   `json:"open_access"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	DisplayName string `json:"display_name"`
}

type openAlexOpenAccess struct {
	IsOA  bool   `json:"is_oa"`
	OAURL string `json:"oa_url"`
}
