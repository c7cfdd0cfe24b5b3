// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package federate

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/review-engine/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID       string    `yaml:"id"`
	Type     string    `yaml:"type"`
	Title    string    `yaml:"title"`
	Author   []CSLName `yaml:"author,omitempty"`
	Abstract string    `yaml:"abstract,omitempty"`
	Issued   *CSLDate  `yaml:"issued,omitempty"`
	DOI      string    `yaml:"DOI,omitempty"`
	URL      string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes the corpus as a CSL-YAML list to w.
func FormatCSL(corpus types.Corpus, w io.Writer) error {
	items := make([]CSLItem, corpus.Len())
	for i, rec := range corpus.Records {
		items[i] = toCSLItem(rec)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a corpus record to a CSLItem.
func toCSLItem(rec types.Record) CSLItem {
	item := CSLItem{
		ID:       fmt.Sprintf("rec%d", rec.ID),
		Type:     "article",
		Title:    rec.Title,
		Abstract: rec.Abstract,
		DOI:      rec.DOI,
		URL:      rec.URL,
	}

	for _, name := range splitAuthors(rec.Authors) {
		item.Author = append(item.Author, parseAuthorName(name))
	}

	if rec.Year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{rec.Year}}}
	}
	return item
}

// splitAuthors breaks a formatted author string back into individual names,
// dropping the "et al." marker and the unknown sentinel.
func splitAuthors(authors string) []string {
	authors = strings.TrimSpace(authors)
	authors = strings.TrimSuffix(authors, "et al.")
	if authors == "" || authors == types.UnknownAuthors {
		return nil
	}

	var names []string
	for _, part := range strings.Split(authors, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
