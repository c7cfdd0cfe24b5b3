// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/review-engine/internal/academic"
	"github.com/pdiddy/review-engine/pkg/types"
)

const (
	// maxAbstractAPI caps abstracts taken from structured APIs.
	maxAbstractAPI = 1000
	// maxAbstractScrape caps snippets scraped from result pages.
	maxAbstractScrape = 500
	// maxListedAuthors bounds formatted author strings before "et al.".
	maxListedAuthors = 5
)

var yearPattern = regexp.MustCompile(`\b(19\d{2}|20[0-2]\d)\b`)

var doiPattern = regexp.MustCompile(`10\.\d{4,}/[^\s]+`)

// extractYear returns the most recent plausible four-digit year found in
// text, or 0. Result pages usually mention the publication year alongside
// citation years; the max is the safer pick.
func extractYear(text string) int {
	matches := yearPattern.FindAllString(text, -1)
	best := 0
	for _, m := range matches {
		if y, err := strconv.Atoi(m); err == nil && y > best {
			best = y
		}
	}
	return best
}

// extractDOI returns the first DOI-shaped token in text, or "".
func extractDOI(text string) string {
	return doiPattern.FindString(text)
}

// authorTextPatterns pull an author run out of free text, most to least
// reliable: the part before a dash or bullet (result-page bylines), a
// capitalized name run, then a "by Author" phrase.
var authorTextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^([^-•]+?)(?:\s*[-•]\s*)`),
	regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`by\s+([^,]+)`),
}

// extractAuthors pulls an author string out of unstructured byline text,
// falling back to the Unknown sentinel.
func extractAuthors(text string) string {
	if text == "" {
		return types.UnknownAuthors
	}
	for _, p := range authorTextPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			author := strings.TrimSpace(m[1])
			if len(author) > 3 && len(author) < 100 {
				return author
			}
		}
	}
	part := strings.SplitN(text, "-", 2)[0]
	part = strings.TrimSpace(strings.SplitN(part, ",", 2)[0])
	if len(part) > 3 && len(part) < 100 {
		return part
	}
	return types.UnknownAuthors
}

// formatAuthors renders a structured author list as "A, B, C et al.",
// listing at most maxListedAuthors names.
func formatAuthors(names []string) string {
	var kept []string
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			kept = append(kept, name)
		}
		if len(kept) == maxListedAuthors {
			break
		}
	}
	if len(kept) == 0 {
		return types.UnknownAuthors
	}
	joined := strings.Join(kept, ", ")
	if len(names) > maxListedAuthors {
		joined += " et al."
	}
	return joined
}

// firstN returns at most the first n elements of ss without copying.
// Callers must not append to the result.
func firstN(ss []string, n int) []string {
	if len(ss) > n {
		return ss[:n]
	}
	return ss
}

// capRunes truncates s to at most n runes.
func capRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// collapseSpace trims and collapses runs of whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// scrapedRecord assembles and validates a record parsed from a result page.
// meta is page text outside title and snippet (a byline, a citation line)
// mined for year and DOI only; it does not count toward validity. Scraped
// hits pass through the academic validity filter, so techniques only ever
// report real candidates.
func scrapedRecord(title, authors, abstract, meta, url string) (types.Record, bool) {
	title = collapseSpace(title)
	abstract = capRunes(collapseSpace(abstract), maxAbstractScrape)

	if len(title) < academic.MinTitleLen || !academic.IsAcademic(title, abstract, url) {
		return types.Record{}, false
	}
	if authors == "" {
		authors = types.UnknownAuthors
	}
	fullText := title + " " + abstract + " " + meta
	return types.Record{
		Title:    title,
		Authors:  authors,
		Abstract: abstract,
		Year:     extractYear(fullText),
		URL:      url,
		DOI:      extractDOI(fullText),
	}, true
}
