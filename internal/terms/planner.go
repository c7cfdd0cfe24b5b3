// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package terms turns raw review inputs (a keyword list, an optional natural
// language research question) into prioritized search term sets.
//
// A research question produces more targeted queries than generic keywords,
// so its term set always sorts first. Keyword combinations follow, broadest
// to narrowest. When neither input is present a generic fallback set keeps
// the plan non-empty. Per prd001-aggregation R1.
package terms

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/review-engine/pkg/types"
)

const (
	maxPhrases       = 8
	maxQuestionTerms = 15
	maxSingleWords   = 10
	maxCombinations  = 4
	comboChunkSize   = 5
	minTermLen       = 3
)

// questionStopWords are dropped when tokenizing a research question. The
// relational words (relationship, effect, impact, ...) appear in almost every
// research question and carry no search value.
var questionStopWords = map[string]bool{
	"is": true, "are": true, "was": true, "were": true, "can": true,
	"could": true, "will": true, "would": true, "should": true, "shall": true,
	"does": true, "do": true, "did": true, "has": true, "have": true,
	"had": true, "the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true, "for": true,
	"of": true, "with": true, "by": true, "from": true, "about": true,
	"into": true, "through": true, "there": true, "what": true, "which": true,
	"who": true, "when": true, "where": true, "why": true, "how": true,
	"that": true, "this": true, "these": true, "those": true, "between": true,
	"among": true, "relationship": true, "correlation": true, "effect": true,
	"impact": true, "influence": true, "association": true, "comparison": true,
}

var wordPattern = regexp.MustCompile(`\b[a-zA-Z][a-zA-Z0-9]*\b`)

var punctuationPattern = regexp.MustCompile(`[^\w\s]`)

// phrasePatterns pick multi-word candidates out of a research question:
// capitalized runs, method/outcome noun phrases, then general 2-3 word
// windows. Ordered most to least specific; extraction keeps that order.
var phrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`),
	regexp.MustCompile(`(?i)\b(\w+\s+(?:levels?|rates?|effects?|factors?|methods?|techniques?|approaches?))\b`),
	regexp.MustCompile(`(?i)\b(\w+\s+\w+(?:\s+\w+)?)\b`),
}

// bannedPhraseParts disqualify filler phrases the general window pattern
// tends to produce.
var bannedPhraseParts = []string{"there is", "there are", "can be", "will be"}

// Plan builds the ordered term sets for one search run. The result is sorted
// by ascending priority and is non-empty for every input, including two empty
// ones.
func Plan(keywords []string, researchQuestion string) []types.TermSet {
	var plan []types.TermSet

	if rq := QuestionTerms(researchQuestion); len(rq) > 0 {
		plan = append(plan, types.TermSet{
			Terms:       rq,
			Kind:        types.TermsResearchQuestion,
			Priority:    1,
			Description: "Research question based terms",
		})
	}

	cleaned := cleanKeywords(keywords)
	for i, combo := range keywordCombinations(cleaned) {
		plan = append(plan, types.TermSet{
			Terms:       combo,
			Kind:        types.TermsKeywordCombo,
			Priority:    2 + i,
			Description: fmt.Sprintf("Keyword combination %d", i+1),
		})
	}

	if len(plan) == 0 {
		plan = append(plan, types.TermSet{
			Terms:       []string{"research", "study", "analysis"},
			Kind:        types.TermsFallback,
			Priority:    10,
			Description: "Basic fallback terms",
		})
	}

	sort.SliceStable(plan, func(i, j int) bool { return plan[i].Priority < plan[j].Priority })
	return plan
}

// QuestionTerms extracts search terms from a research question: key phrases
// first, then meaningful single words, deduplicated case-insensitively with
// the first casing kept.
func QuestionTerms(researchQuestion string) []string {
	researchQuestion = strings.TrimSpace(researchQuestion)
	if researchQuestion == "" {
		return nil
	}

	candidates := keyPhrases(researchQuestion)

	words := wordPattern.FindAllString(strings.ToLower(researchQuestion), -1)
	var meaningful []string
	for _, w := range words {
		if len(w) >= minTermLen && !questionStopWords[w] {
			meaningful = append(meaningful, w)
		}
	}
	if len(meaningful) > maxSingleWords {
		meaningful = meaningful[:maxSingleWords]
	}
	candidates = append(candidates, meaningful...)

	seen := make(map[string]bool, len(candidates))
	var unique []string
	for _, term := range candidates {
		key := strings.ToLower(term)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, term)
	}
	if len(unique) > maxQuestionTerms {
		unique = unique[:maxQuestionTerms]
	}
	return unique
}

// keyPhrases extracts multi-word candidates from text, capped at maxPhrases.
func keyPhrases(text string) []string {
	cleaned := punctuationPattern.ReplaceAllString(text, " ")

	var phrases []string
	for _, p := range phrasePatterns {
		for _, m := range p.FindAllStringSubmatch(cleaned, -1) {
			phrases = append(phrases, m[1])
		}
	}

	seen := make(map[string]bool, len(phrases))
	var kept []string
	for _, phrase := range phrases {
		phrase = strings.TrimSpace(phrase)
		if len(phrase) <= 5 {
			continue
		}
		lowered := strings.ToLower(phrase)
		banned := false
		for _, part := range bannedPhraseParts {
			if strings.Contains(lowered, part) {
				banned = true
				break
			}
		}
		if banned || seen[phrase] {
			continue
		}
		seen[phrase] = true
		kept = append(kept, phrase)
		if len(kept) == maxPhrases {
			break
		}
	}
	return kept
}

// keywordCombinations derives up to maxCombinations term lists from the raw
// keywords: the full list, the first five, the first three, then chunks of
// five. Duplicate combinations are dropped so a slot is never wasted
// re-querying identical terms.
func keywordCombinations(keywords []string) [][]string {
	if len(keywords) == 0 {
		return nil
	}

	var combos [][]string
	combos = append(combos, append([]string(nil), keywords...))
	if len(keywords) > 5 {
		combos = append(combos, append([]string(nil), keywords[:5]...))
	}
	if len(keywords) > 3 {
		combos = append(combos, append([]string(nil), keywords[:3]...))
	}
	for i := 0; i < len(keywords); i += comboChunkSize {
		end := i + comboChunkSize
		if end > len(keywords) {
			end = len(keywords)
		}
		if end-i >= 2 {
			combos = append(combos, append([]string(nil), keywords[i:end]...))
		}
	}

	seen := make(map[string]bool, len(combos))
	var unique [][]string
	for _, combo := range combos {
		key := strings.ToLower(strings.Join(combo, "\x00"))
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, combo)
		if len(unique) == maxCombinations {
			break
		}
	}
	return unique
}

func cleanKeywords(keywords []string) []string {
	var cleaned []string
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	return cleaned
}
