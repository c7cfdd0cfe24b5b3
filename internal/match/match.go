// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match links downloaded artifacts (PDFs and similar files) to the
// corpus records they belong to. Matching is heuristic: five independent
// strategies score every (artifact, record) pair on filename evidence alone,
// and the best candidate per artifact goes through a resolution pass that
// enforces at-most-one-artifact-per-record. Nothing here opens a file; the
// filename is the only input. Implements: prd002-matching;
// docs/ARCHITECTURE § Artifact Matching.
package match

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/review-engine/internal/ident"
	"github.com/pdiddy/review-engine/pkg/types"
)

// Strategy tags carried on MatchCandidate, ordered by trust. Sequential
// position ranks above everything because a numeric prefix is an explicit
// naming convention, not a lexical coincidence.
const (
	StrategySequential = "sequential_position"
	StrategyIdentifier = "identifier"
	StrategyLeading    = "leading_title_words"
	StrategyAnyWord    = "any_significant_word"
	StrategyAuthorYear = "author_year"

	// StrategyNone marks an artifact for which no strategy fired against
	// any record. Its candidate carries RecordID 0 and Confidence 0 so
	// Resolve can classify it as unmatched.
	StrategyNone = "none"
)

// sequentialPrefix matches filenames like "3_Some Study.pdf" or "12 - x.pdf":
// a leading integer immediately followed by a separator.
var sequentialPrefix = regexp.MustCompile(`^(\d+)[ ._-]`)

// stopWords are title words too common to carry matching signal. The
// significant-word strategy drops them before computing its matched fraction.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"the and or but in on at to for of with by from up about into through " +
			"during before after above below between among under within without " +
			"against toward upon concerning per an a is are was were be been " +
			"being have has had do does did will would could should may might can") {
		stopWords[w] = struct{}{}
	}
}

// Match scores every artifact against every corpus record and returns the
// best candidate per artifact, in artifact order. Artifacts that no strategy
// could place still get a candidate (StrategyNone, RecordID 0), so the output
// classifies the full input set. Confidence ties across records keep the
// earliest record, which keeps the pass deterministic.
func Match(artifacts []types.Artifact, corpus types.Corpus, cfg types.MatchConfig) []types.MatchCandidate {
	candidates := make([]types.MatchCandidate, 0, len(artifacts))
	for _, art := range artifacts {
		candidates = append(candidates, bestCandidate(art, corpus, cfg))
	}
	return candidates
}

func bestCandidate(art types.Artifact, corpus types.Corpus, cfg types.MatchConfig) types.MatchCandidate {
	best := types.MatchCandidate{Artifact: art.Name, Strategy: StrategyNone}
	stem := artifactStem(art.Name)

	for i, rec := range corpus.Records {
		for _, sc := range scorePair(art.Name, stem, i+1, rec, cfg) {
			if sc.confidence > best.Confidence {
				best.RecordID = rec.ID
				best.Strategy = sc.strategy
				best.Confidence = sc.confidence
			}
		}
	}
	return best
}

type score struct {
	strategy   string
	confidence int
}

// scorePair runs every strategy for one (artifact, record) pair. position is
// the record's 1-based place in the corpus, which the sequential strategy
// compares against the filename's numeric prefix; every other strategy works
// off the record's own metadata.
func scorePair(name, stem string, position int, rec types.Record, cfg types.MatchConfig) []score {
	var scores []score

	if n, ok := numericPrefix(name); ok && n == position {
		scores = append(scores, score{StrategySequential, cfg.SequentialConfidence})
	}

	if matchesIdentifier(stem, rec) {
		scores = append(scores, score{StrategyIdentifier, cfg.IdentifierConfidence})
	}

	title := strings.ToLower(rec.Title)
	bonus := topicalBonus(title, stem, cfg)

	if c, ok := leadingWordsScore(title, stem, bonus, cfg); ok {
		scores = append(scores, score{StrategyLeading, c})
	}
	if c, ok := anyWordScore(title, stem, bonus, cfg); ok {
		scores = append(scores, score{StrategyAnyWord, c})
	}
	if matchesAuthorYear(stem, rec) {
		scores = append(scores, score{StrategyAuthorYear, cfg.AuthorYearConfidence})
	}
	return scores
}

func numericPrefix(name string) (int, bool) {
	m := sequentialPrefix.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// matchesIdentifier looks for the record's bibliographic identifier in the
// filename stem: the DOI in the slug form our own downloads use, or an arXiv
// ID embedded in the landing URL. Dense corpus IDs are deliberately not
// checked here; position intent is the sequential strategy's job.
func matchesIdentifier(stem string, rec types.Record) bool {
	if rec.DOI != "" {
		slug := strings.ToLower(ident.Slug(ident.TypeDOI, rec.DOI))
		if slug != "" && strings.Contains(stem, slug) {
			return true
		}
	}
	if idType, id := ident.FromURL(rec.URL); idType == ident.TypeArxiv {
		if strings.Contains(stem, strings.ToLower(id)) {
			return true
		}
	}
	return false
}

// leadingWordsScore counts how many of the title's first five words (those
// longer than two characters) appear in the stem. One hit is enough to fire;
// confidence grows per hit and saturates at the cap.
func leadingWordsScore(title, stem string, bonus int, cfg types.MatchConfig) (int, bool) {
	if len(title) <= 5 {
		return 0, false
	}
	words := strings.Fields(title)
	if len(words) > 5 {
		words = words[:5]
	}
	matches := 0
	for _, w := range words {
		if len(w) > 2 && strings.Contains(stem, w) {
			matches++
		}
	}
	if matches == 0 {
		return 0, false
	}
	c := cfg.LeadingWordBase + cfg.LeadingWordStep*matches + bonus
	if c > cfg.LeadingWordCap {
		c = cfg.LeadingWordCap
	}
	return c, true
}

// anyWordScore matches over every significant title word, not just the
// leading ones. The matched fraction dominates the score so that a short
// title fully present in the filename outranks one long title word hit.
func anyWordScore(title, stem string, bonus int, cfg types.MatchConfig) (int, bool) {
	if len(title) <= 10 {
		return 0, false
	}
	var words []string
	for _, w := range strings.Fields(title) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return 0, false
	}
	matches := 0
	for _, w := range words {
		if strings.Contains(stem, w) {
			matches++
		}
	}
	if matches == 0 {
		return 0, false
	}
	ratio := float64(matches) / float64(len(words))
	c := float64(cfg.AnyWordBase) + float64(cfg.AnyWordRatioWeight)*ratio + float64(cfg.AnyWordStep*matches+bonus)
	if limit := float64(cfg.AnyWordCap); c > limit {
		c = limit
	}
	return int(c), true
}

func matchesAuthorYear(stem string, rec types.Record) bool {
	if rec.Year <= 0 || rec.Authors == "" || rec.Authors == types.UnknownAuthors {
		return false
	}
	surname := firstAuthorSurname(rec.Authors)
	if len(surname) < 4 {
		return false
	}
	return strings.Contains(stem, strings.ToLower(surname)) &&
		strings.Contains(stem, strconv.Itoa(rec.Year))
}

// firstAuthorSurname returns the last name of the first listed author.
func firstAuthorSurname(authors string) string {
	first := authors
	if i := strings.IndexAny(first, ",;"); i >= 0 {
		first = first[:i]
	}
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// topicalBonus rewards a configured domain keyword appearing in both title
// and filename. The bonus is flat no matter how many keywords hit, and it is
// applied inside each strategy's cap, never on top of it.
func topicalBonus(title, stem string, cfg types.MatchConfig) int {
	for _, kw := range cfg.TopicalKeywords {
		kw = strings.ToLower(kw)
		if kw != "" && strings.Contains(title, kw) && strings.Contains(stem, kw) {
			return cfg.TopicalBonus
		}
	}
	return 0
}

func artifactStem(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}
