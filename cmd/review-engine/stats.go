// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/review-engine/internal/federate"
	"github.com/pdiddy/review-engine/internal/store"
	"github.com/pdiddy/review-engine/pkg/types"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show attempt statistics for a run",
	Long: `Stats reports which source/method attempts of a run succeeded or
failed, and how many records each source contributed. The run comes
from a run file (--run) or from the review store (--run-id).`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	runFile, _ := cmd.Flags().GetString("run")
	runID, _ := cmd.Flags().GetInt64("run-id")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if (runFile == "") == (runID == 0) {
		return fmt.Errorf("provide exactly one of --run or --run-id")
	}

	var stats types.RunStatistics
	if runFile != "" {
		rf, err := federate.ReadRunFile(runFile)
		if err != nil {
			return err
		}
		stats = rf.Statistics
	} else {
		cfg := loadConfig()
		st, err := store.New(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err = st.LoadStats(context.Background(), runID)
		if err != nil {
			return err
		}
	}

	return formatStatsOutput(stats, jsonOutput)
}

func formatStatsOutput(stats types.RunStatistics, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	if stats.Total() == 0 {
		fmt.Println("No attempts recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "Success rate: %.0f%% (%d/%d attempts)\n",
		stats.SuccessRate()*100, len(stats.Successful), stats.Total())

	if len(stats.PerSource) > 0 {
		sources := make([]string, 0, len(stats.PerSource))
		for source := range stats.PerSource {
			sources = append(sources, source)
		}
		sort.Strings(sources)

		fmt.Fprintln(os.Stdout, "\nRecords per source:")
		for _, source := range sources {
			fmt.Fprintf(os.Stdout, "  %-20s  %d\n", source, stats.PerSource[source])
		}
	}

	if len(stats.Successful) > 0 {
		fmt.Fprintln(os.Stdout, "\nSuccessful attempts:")
		for _, entry := range stats.Successful {
			fmt.Fprintf(os.Stdout, "  %s\n", entry)
		}
	}
	if len(stats.Failed) > 0 {
		fmt.Fprintln(os.Stdout, "\nFailed attempts:")
		for _, entry := range stats.Failed {
			fmt.Fprintf(os.Stdout, "  %s\n", entry)
		}
	}
	return nil
}

func init() {
	statsCmd.Flags().String("run", "", "run file to read statistics from")
	statsCmd.Flags().Int64("run-id", 0, "stored run to read statistics from")
	statsCmd.Flags().Bool("json", false, "output statistics as JSON")

	rootCmd.AddCommand(statsCmd)
}
