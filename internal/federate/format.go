// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package federate

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/review-engine/pkg/types"
)

// FormatTable writes the corpus as a human-readable table to w.
func FormatTable(corpus types.Corpus, stats types.RunStatistics, w io.Writer) {
	if corpus.Len() == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-24s  %-4s  %s\n",
		"ID", "Title", "Authors", "Year", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 104))

	for _, rec := range corpus.Records {
		year := ""
		if rec.Year > 0 {
			year = strconv.Itoa(rec.Year)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-24s  %-4s  %s\n",
			rec.ID, truncate(rec.Title, 60), truncate(rec.Authors, 24), year, rec.Source)
	}

	fmt.Fprintf(w, "\n%d records", corpus.Len())
	if stats.Total() > 0 {
		fmt.Fprintf(w, ", %d/%d source attempts succeeded",
			len(stats.Successful), stats.Total())
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the corpus records as indented JSON to w.
func FormatJSON(corpus types.Corpus, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(corpus.Records)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
