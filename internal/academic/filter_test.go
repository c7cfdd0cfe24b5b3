// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package academic

import (
	"testing"
	"time"
)

func TestIsAcademic(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		abstract string
		url      string
		want     bool
	}{
		// Positive: indicator terms alone suffice.
		{
			"single indicator term",
			"A method for measuring things",
			"",
			"https://example.com/paper",
			true,
		},
		{
			"clinical trial language",
			"Outcomes of a randomized clinical trial",
			"Patients received the intervention over twelve weeks.",
			"https://example.com",
			true,
		},

		// Positive: domain match alone suffices.
		{
			"strong domain no indicators",
			"On the shoulders of giants",
			"",
			"https://arxiv.org/abs/2301.07041",
			true,
		},
		{
			"weak domain no indicators",
			"On the shoulders of giants",
			"",
			"https://www.semanticscholar.org/paper/abc",
			true,
		},

		// Negative: no signal at all.
		{
			"no indicators no domain",
			"Ten things you won't believe",
			"Number seven will shock you.",
			"https://example.com/listicle",
			false,
		},

		// Negative: noise terms outweigh weak signal.
		{
			"commercial noise",
			"Buy essay results online sale",
			"Best shopping for papers, advertisement.",
			"https://example.com/shop",
			false,
		},

		// Negative: denylisted URLs rejected even with academic text.
		{
			"denylisted social media",
			"A systematic review of meta-analysis methods",
			"This study presents evidence from clinical trials.",
			"https://www.facebook.com/groups/science",
			false,
		},
		{
			"denylisted wiki",
			"Systematic review",
			"A study of studies.",
			"https://en.wikipedia.org/wiki/Systematic_review",
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsAcademic(tt.title, tt.abstract, tt.url)
			if got != tt.want {
				t.Errorf("IsAcademic(%q, ..., %q) = %v, want %v", tt.title, tt.url, got, tt.want)
			}
		})
	}
}

func TestScoreDomainBonuses(t *testing.T) {
	neutral := "plain words only here"
	base := Score(neutral, "", "https://example.com")

	strong := Score(neutral, "", "https://pubmed.ncbi.nlm.nih.gov/12345/")
	if strong-base != strongDomainBonus {
		t.Errorf("strong domain bonus = %d, want %d", strong-base, strongDomainBonus)
	}

	weak := Score(neutral, "", "https://core.ac.uk/works/1")
	if weak-base != weakDomainBonus {
		t.Errorf("weak domain bonus = %d, want %d", weak-base, weakDomainBonus)
	}

	// Strong match suppresses the weak bonus; ncbi.nlm.nih.gov is strong even
	// though nih.gov is also on the weak list.
	both := Score(neutral, "", "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC1/")
	if both-base != strongDomainBonus {
		t.Errorf("strong+weak URL bonus = %d, want %d", both-base, strongDomainBonus)
	}
}

func TestPlausibleYear(t *testing.T) {
	now := time.Now().Year()
	tests := []struct {
		name string
		year int
		want bool
	}{
		{"lower bound", 1900, true},
		{"below lower bound", 1899, false},
		{"current year", now, true},
		{"next year", now + 1, true},
		{"two years out", now + 2, false},
		{"zero", 0, false},
		{"negative", -5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlausibleYear(tt.year); got != tt.want {
				t.Errorf("PlausibleYear(%d) = %v, want %v", tt.year, got, tt.want)
			}
		})
	}
}

func TestValidRecord(t *testing.T) {
	tests := []struct {
		name  string
		title string
		year  int
		want  bool
	}{
		{"normal record", "Deep learning for literature screening", 2021, true},
		{"title too short", "Results", 2021, false},
		{"short title padded with spaces", "  Results  ", 2021, false},
		{"unknown year passes", "Deep learning for literature screening", 0, true},
		{"implausible year", "Deep learning for literature screening", 1850, false},
		{"empty title", "", 2021, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidRecord(tt.title, tt.year); got != tt.want {
				t.Errorf("ValidRecord(%q, %d) = %v, want %v", tt.title, tt.year, got, tt.want)
			}
		})
	}
}
