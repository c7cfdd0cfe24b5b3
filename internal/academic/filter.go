// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package academic scores candidate records for academic validity.
//
// The filter is deliberately permissive: in a literature-collection context a
// dropped real paper costs more than a kept junk hit, because downstream
// screening catches junk anyway. A single indicator term or one recognized
// academic domain is enough to pass. Per prd001-aggregation R2.
package academic

import (
	"strings"
	"time"
)

// indicatorWeights maps lexical markers of academic writing to additive
// scores. Negative entries mark commercial and social-media noise.
var indicatorWeights = map[string]int{
	"study": 2, "research": 2, "analysis": 2, "investigation": 2, "trial": 2,
	"method": 1, "results": 1, "conclusion": 1, "systematic": 3, "meta-analysis": 3,
	"journal": 2, "publication": 1, "doi": 3, "abstract": 1, "clinical": 2,
	"review": 2, "findings": 1, "evidence": 2, "data": 1, "patients": 2,
	"treatment": 2, "therapy": 2, "intervention": 2, "outcomes": 2, "university": 2,
	"college": 1, "department": 1, "institute": 2, "laboratory": 2, "lab": 1,

	"blog": -2, "news": -1, "wikipedia": -2, "forum": -2, "comment": -1,
	"social": -1, "facebook": -3, "twitter": -3, "instagram": -3, "reddit": -2,
	"youtube": -2, "tiktok": -3, "shopping": -3, "buy": -2, "sale": -2,
	"advertisement": -3, "spam": -3,
}

// strongDomains are publishers and indexes whose presence in a URL is near
// proof of academic content.
var strongDomains = []string{
	"scholar.google.com", "pubmed.ncbi.nlm.nih.gov", "arxiv.org", "researchgate.net",
	"sciencedirect.com", "springer.com", "wiley.com", "nature.com", "science.org",
	"tandfonline.com", "ieee.org", "acm.org", "jstor.org", "ncbi.nlm.nih.gov",
}

// weakDomains are suggestive but not decisive hosts.
var weakDomains = []string{
	"academia.edu", "semanticscholar.org", "core.ac.uk", "nih.gov", ".edu",
	"elsevier.com", "cambridge.org", "oxford.com",
}

// denyDomains reject a URL outright regardless of text score.
var denyDomains = []string{
	"facebook.com", "twitter.com", "instagram.com", "youtube.com", "tiktok.com",
	"reddit.com", "wikipedia.org", "amazon.com", "ebay.com", "pinterest.com",
}

const (
	strongDomainBonus = 5
	weakDomainBonus   = 2

	// acceptThreshold admits any record with one indicator term or any
	// domain bonus.
	acceptThreshold = 1

	// MinTitleLen is the shortest title accepted by ValidRecord. Anything
	// shorter is a navigation link or a fragment, not a work.
	MinTitleLen = 10
)

// Score computes the additive academic-validity score for a candidate.
// Exposed separately from IsAcademic so callers can log borderline hits.
func Score(title, abstract, url string) int {
	text := strings.ToLower(title + " " + abstract)
	score := 0
	for term, weight := range indicatorWeights {
		if strings.Contains(text, term) {
			score += weight
		}
	}

	lowered := strings.ToLower(url)
	matched := false
	for _, d := range strongDomains {
		if strings.Contains(lowered, d) {
			score += strongDomainBonus
			matched = true
			break
		}
	}
	if !matched {
		for _, d := range weakDomains {
			if strings.Contains(lowered, d) {
				score += weakDomainBonus
				break
			}
		}
	}
	return score
}

// IsAcademic reports whether a candidate looks like a real academic work.
// Denylisted URLs are rejected before any scoring.
func IsAcademic(title, abstract, url string) bool {
	lowered := strings.ToLower(url)
	for _, d := range denyDomains {
		if strings.Contains(lowered, d) {
			return false
		}
	}
	return Score(title, abstract, url) >= acceptThreshold
}

// PlausibleYear reports whether y falls in the publication range the engine
// trusts: 1900 through next year (publishers post-date year-end issues).
func PlausibleYear(y int) bool {
	return y >= 1900 && y <= time.Now().Year()+1
}

// ValidRecord applies the structural checks every adapter runs before
// emitting a record: a title of useful length and, when a year is present,
// a plausible one. Zero year means unknown and passes.
func ValidRecord(title string, year int) bool {
	if len(strings.TrimSpace(title)) < MinTitleLen {
		return false
	}
	if year != 0 && !PlausibleYear(year) {
		return false
	}
	return true
}
