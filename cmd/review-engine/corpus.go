// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/review-engine/internal/store"
	"github.com/pdiddy/review-engine/pkg/types"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect and export stored corpora (list, show, export)",
	Long: `Corpus reads the review store written by the store command. Use
subcommands to list stored runs, print a run's corpus, or export it
for a reference manager.`,
}

// --- list subcommand ---

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs",
	RunE:  runCorpusList,
}

func runCorpusList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	st, err := store.New(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs stored.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-16s  %-8s  %-8s  %s\n",
		"ID", "Created", "Records", "Assigned", "Keywords")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))

	for _, r := range runs {
		keywords := strings.Join(r.Keywords, ", ")
		if len(keywords) > 40 {
			keywords = keywords[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-16s  %-8d  %-8d  %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Records, r.Assigned, keywords)
	}

	fmt.Fprintf(os.Stdout, "\n%d run(s)\n", len(runs))
	return nil
}

// --- show subcommand ---

var corpusShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the corpus of a stored run",
	RunE:  runCorpusShow,
}

func runCorpusShow(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetInt64("run-id")
	format, _ := cmd.Flags().GetString("format")

	corpus, stats, err := loadStoredRun(loadConfig(), runID)
	if err != nil {
		return err
	}
	return writeCorpus(corpus, stats, format, os.Stdout)
}

// --- export subcommand ---

var corpusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored corpus for a reference manager",
	Long: `Export writes a stored corpus in CSL-YAML (default), JSON, or table
form. With --output the corpus goes to a file; otherwise to stdout.`,
	RunE: runCorpusExport,
}

func runCorpusExport(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetInt64("run-id")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	corpus, stats, err := loadStoredRun(loadConfig(), runID)
	if err != nil {
		return err
	}

	if output == "" {
		return writeCorpus(corpus, stats, format, os.Stdout)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := writeCorpus(corpus, stats, format, f); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported run %d (%d records) to %s\n", runID, corpus.Len(), output)
	return nil
}

// --- shared helpers ---

func loadStoredRun(cfg types.Config, runID int64) (types.Corpus, types.RunStatistics, error) {
	st, err := store.New(cfg.Store)
	if err != nil {
		return types.Corpus{}, types.RunStatistics{}, err
	}
	defer st.Close()

	ctx := context.Background()
	corpus, err := st.LoadCorpus(ctx, runID)
	if err != nil {
		return types.Corpus{}, types.RunStatistics{}, err
	}
	stats, err := st.LoadStats(ctx, runID)
	if err != nil {
		return types.Corpus{}, types.RunStatistics{}, err
	}
	return corpus, stats, nil
}

func init() {
	corpusShowCmd.Flags().Int64("run-id", 0, "stored run to show")
	corpusShowCmd.Flags().String("format", "table", "output format: table, json, or csl")
	_ = corpusShowCmd.MarkFlagRequired("run-id")

	corpusExportCmd.Flags().Int64("run-id", 0, "stored run to export")
	corpusExportCmd.Flags().String("format", "csl", "output format: table, json, or csl")
	corpusExportCmd.Flags().String("output", "", "file to write (default stdout)")
	_ = corpusExportCmd.MarkFlagRequired("run-id")

	corpusCmd.AddCommand(corpusListCmd)
	corpusCmd.AddCommand(corpusShowCmd)
	corpusCmd.AddCommand(corpusExportCmd)

	rootCmd.AddCommand(corpusCmd)
}
