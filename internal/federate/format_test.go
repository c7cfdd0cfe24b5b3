// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package federate

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/review-engine/pkg/types"
)

func formatTestCorpus() types.Corpus {
	return types.Corpus{Records: []types.Record{
		{
			ID:      1,
			Title:   "A very long title about the cognitive effects of mindfulness meditation on generalized anxiety disorder",
			Authors: "Jane A Smith, Robert Jones",
			Year:    2019,
			URL:     "https://pubmed.ncbi.nlm.nih.gov/1/",
			DOI:     "10.1000/jaad.2019.001",
			Source:  "pubmed",
		},
		{
			ID:      2,
			Title:   "Anxiety reduction approaches",
			Authors: types.UnknownAuthors,
			Source:  "arxiv",
		},
	}}
}

// --- table and JSON ---

func TestFormatTable(t *testing.T) {
	var stats types.RunStatistics
	stats.RecordSuccess("pubmed", "pubmed_api_research_question")
	stats.RecordFailure("scopus", "failed")

	var buf bytes.Buffer
	FormatTable(formatTestCorpus(), stats, &buf)
	out := buf.String()

	if !strings.Contains(out, "ID") || !strings.Contains(out, "Source") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "...") {
		t.Errorf("long title not truncated:\n%s", out)
	}
	if !strings.Contains(out, "2 records") {
		t.Errorf("missing record count:\n%s", out)
	}
	if !strings.Contains(out, "1/2 source attempts succeeded") {
		t.Errorf("missing attempt summary:\n%s", out)
	}
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(types.Corpus{}, types.RunStatistics{}, &buf)
	if got := buf.String(); got != "No records found.\n" {
		t.Errorf("output = %q", got)
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatJSON(formatTestCorpus(), &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	var records []types.Record
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].DOI != "10.1000/jaad.2019.001" {
		t.Errorf("DOI = %q", records[0].DOI)
	}
}

// --- CSL output ---

func TestFormatCSL(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatCSL(formatTestCorpus(), &buf); err != nil {
		t.Fatalf("FormatCSL: %v", err)
	}

	var items []CSLItem
	if err := yaml.Unmarshal(buf.Bytes(), &items); err != nil {
		t.Fatalf("invalid CSL-YAML: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}

	first := items[0]
	if first.ID != "rec1" {
		t.Errorf("ID = %q", first.ID)
	}
	if first.Type != "article" {
		t.Errorf("Type = %q", first.Type)
	}
	if len(first.Author) != 2 {
		t.Fatalf("Author count = %d, want 2", len(first.Author))
	}
	if first.Author[0].Given != "Jane A" || first.Author[0].Family != "Smith" {
		t.Errorf("Author[0] = %+v", first.Author[0])
	}
	if first.Issued == nil || !reflect.DeepEqual(first.Issued.DateParts, [][]int{{2019}}) {
		t.Errorf("Issued = %+v", first.Issued)
	}
	if first.DOI != "10.1000/jaad.2019.001" {
		t.Errorf("DOI = %q", first.DOI)
	}

	// Unknown authors and a missing year stay out of the item.
	second := items[1]
	if len(second.Author) != 0 {
		t.Errorf("Author = %+v, want none for unknown authors", second.Author)
	}
	if second.Issued != nil {
		t.Errorf("Issued = %+v, want nil for missing year", second.Issued)
	}
}

func TestSplitAuthors(t *testing.T) {
	cases := []struct {
		name    string
		authors string
		want    []string
	}{
		{"two names", "Jane A Smith, Robert Jones", []string{"Jane A Smith", "Robert Jones"}},
		{"et al marker dropped", "A One, B Two, C Three, D Four, E Five et al.", []string{"A One", "B Two", "C Three", "D Four", "E Five"}},
		{"unknown sentinel", "Unknown", nil},
		{"empty", "  ", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := splitAuthors(tc.authors); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("splitAuthors(%q) = %v, want %v", tc.authors, got, tc.want)
			}
		})
	}
}

func TestParseAuthorName(t *testing.T) {
	if got := parseAuthorName("Jane A Smith"); got.Given != "Jane A" || got.Family != "Smith" {
		t.Errorf("got %+v", got)
	}
	if got := parseAuthorName("Madonna"); got.Literal != "Madonna" || got.Family != "" {
		t.Errorf("got %+v", got)
	}
}
