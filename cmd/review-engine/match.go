// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/review-engine/internal/federate"
	"github.com/pdiddy/review-engine/internal/match"
	"github.com/pdiddy/review-engine/internal/store"
	"github.com/pdiddy/review-engine/pkg/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match downloaded artifacts against a corpus by filename",
	Long: `Match pairs downloaded files (PDFs, usually) with the corpus records
they belong to, using filename heuristics: sequential position prefixes,
DOI and arXiv identifiers, title words, and author-year patterns. Each
pairing carries a confidence score; scores below the acceptance
threshold are reported for human review instead of assigned.

The corpus comes from a run file (--run) or from the review store
(--run-id). With --run-id, assignments recorded earlier count as taken:
a record never changes hands, and a second artifact claiming it is
reported as a conflict. Use --record to persist accepted assignments.`,
	RunE: runMatch,
}

func runMatch(cmd *cobra.Command, args []string) error {
	artifactsDir, _ := cmd.Flags().GetString("artifacts")
	runFile, _ := cmd.Flags().GetString("run")
	runID, _ := cmd.Flags().GetInt64("run-id")
	record, _ := cmd.Flags().GetBool("record")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if (runFile == "") == (runID == 0) {
		return fmt.Errorf("provide exactly one of --run or --run-id")
	}
	if record && runID == 0 {
		return fmt.Errorf("--record requires --run-id: run files are read-only")
	}

	cfg := loadConfig()

	artifacts, err := listArtifacts(artifactsDir)
	if err != nil {
		return err
	}
	if len(artifacts) == 0 {
		return fmt.Errorf("no artifacts found in %s", artifactsDir)
	}

	ctx := context.Background()

	var (
		corpus types.Corpus
		prior  map[int]string
		st     *store.Store
	)
	if runFile != "" {
		rf, err := federate.ReadRunFile(runFile)
		if err != nil {
			return err
		}
		corpus = rf.Corpus
	} else {
		st, err = store.New(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		corpus, err = st.LoadCorpus(ctx, runID)
		if err != nil {
			return err
		}
		prior, err = st.Assignments(ctx, runID)
		if err != nil {
			return err
		}
	}

	report := match.Resolve(match.Match(artifacts, corpus, cfg.Match), prior, cfg.Match)

	if record {
		if err := st.RecordAssignments(ctx, runID, report.Assignments); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Recorded %d assignment(s) for run %d\n", len(report.Assignments), runID)
	}

	return formatMatchReport(report, jsonOutput)
}

// listArtifacts collects the files in dir as artifacts. Subdirectories and
// dotfiles are skipped; matching only ever looks at file names.
func listArtifacts(dir string) ([]types.Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading artifacts directory: %w", err)
	}

	var artifacts []types.Artifact
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		artifacts = append(artifacts, types.Artifact{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
		})
	}
	return artifacts, nil
}

func formatMatchReport(report types.MatchReport, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if len(report.Assignments) > 0 {
		fmt.Fprintf(os.Stdout, "%-8s  %s\n", "Record", "Artifact")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))

		ids := make([]int, 0, len(report.Assignments))
		for id := range report.Assignments {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			fmt.Fprintf(os.Stdout, "%-8d  %s\n", id, report.Assignments[id])
		}
		fmt.Fprintln(os.Stdout)
	}

	for _, c := range report.Conflicts {
		fmt.Fprintf(os.Stdout, "Conflict: record %d held by %s; %s also claims it (%s, confidence %d)\n",
			c.RecordID, c.Existing, c.Challenger.Artifact, c.Challenger.Strategy, c.Challenger.Confidence)
	}
	for _, c := range report.LowConfidence {
		fmt.Fprintf(os.Stdout, "Low confidence: %s -> record %d (%s, confidence %d)\n",
			c.Artifact, c.RecordID, c.Strategy, c.Confidence)
	}
	for _, name := range report.Unmatched {
		fmt.Fprintf(os.Stdout, "Unmatched: %s\n", name)
	}

	fmt.Fprintf(os.Stdout, "%d assigned, %d conflicted, %d low confidence, %d unmatched\n",
		len(report.Assignments), len(report.Conflicts), len(report.LowConfidence), len(report.Unmatched))
	return nil
}

func init() {
	matchCmd.Flags().String("artifacts", "", "directory of downloaded artifacts to match")
	matchCmd.Flags().String("run", "", "run file to load the corpus from")
	matchCmd.Flags().Int64("run-id", 0, "stored run to load the corpus from")
	matchCmd.Flags().Bool("record", false, "persist accepted assignments to the review store (requires --run-id)")
	matchCmd.Flags().Bool("json", false, "output the match report as JSON")
	_ = matchCmd.MarkFlagRequired("artifacts")

	rootCmd.AddCommand(matchCmd)
}
