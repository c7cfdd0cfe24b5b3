// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/review-engine/internal/federate"
	"github.com/pdiddy/review-engine/internal/sources"
	"github.com/pdiddy/review-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a federated literature search",
	Long: `Search queries the configured bibliographic sources for a set of keywords
and an optional research question. Each source escalates through its own
fallback chain (API, direct scrape, site-filtered web search) until a term
set succeeds, and the merged results are deduplicated into a corpus.

Results print as a table by default; --output writes a YAML run file that
the match, store, and stats commands consume.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("keywords", "", "search keywords (comma-separated)")
	searchCmd.Flags().String("question", "", "free-text research question")
	searchCmd.Flags().String("sources", "", "sources to query (comma-separated; default: all registered)")
	searchCmd.Flags().Int("max-per-source", 0, "maximum records kept per source (default 100)")
	searchCmd.Flags().Duration("run-timeout", 0, "overall run deadline (default 5m)")
	searchCmd.Flags().String("output", "", "write a YAML run file to this path")
	searchCmd.Flags().String("format", "table", "stdout format: table, json, or csl")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	if v, _ := cmd.Flags().GetInt("max-per-source"); v > 0 {
		cfg.Search.MaxPerSource = v
	}
	if v, _ := cmd.Flags().GetDuration("run-timeout"); v > 0 {
		cfg.Search.RunTimeout = v
	}
	if v, _ := cmd.Flags().GetString("sources"); v != "" {
		cfg.Search.Sources = splitCommaList(v)
	}

	keywordsFlag, _ := cmd.Flags().GetString("keywords")
	question, _ := cmd.Flags().GetString("question")
	keywords := splitCommaList(keywordsFlag)

	if len(keywords) == 0 && question == "" {
		return fmt.Errorf("provide --keywords, --question, or both")
	}

	log := newLogger(cmd, cfg)
	client := &http.Client{Timeout: cfg.Search.Timeout}
	engine := federate.Engine{
		Registry: sources.DefaultRegistry(client, cfg.Search, log),
		Config:   cfg.Search,
		Log:      log,
	}

	corpus, stats := engine.Run(context.Background(), keywords, question, cfg.Search.Sources)

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		req := federate.Request{
			Keywords:         keywords,
			ResearchQuestion: question,
			Sources:          cfg.Search.Sources,
		}
		if err := federate.WriteRunFile(output, req, cfg.Search, corpus, stats); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Run written to %s\n", output)
	}

	format, _ := cmd.Flags().GetString("format")
	return writeCorpus(corpus, stats, format, os.Stdout)
}

// writeCorpus renders a corpus in the requested format.
func writeCorpus(corpus types.Corpus, stats types.RunStatistics, format string, w io.Writer) error {
	switch format {
	case "table", "":
		federate.FormatTable(corpus, stats, w)
		return nil
	case "json":
		return federate.FormatJSON(corpus, w)
	case "csl":
		return federate.FormatCSL(corpus, w)
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or csl", format)
	}
}

func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
