// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/review-engine/internal/federate"
	"github.com/pdiddy/review-engine/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest a run file into the review store",
	Long: `Store loads a saved search run and persists its corpus and statistics
to the SQLite review store, assigning the run an ID. Stored runs feed
the corpus and match commands, which address them by that ID.`,
	RunE: runStore,
}

func runStore(cmd *cobra.Command, args []string) error {
	runFile, _ := cmd.Flags().GetString("run")

	cfg := loadConfig()

	rf, err := federate.ReadRunFile(runFile)
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := st.SaveRun(context.Background(), store.RunRecord{
		CreatedAt:        rf.CreatedAt,
		Keywords:         rf.Request.Keywords,
		ResearchQuestion: rf.Request.ResearchQuestion,
		Sources:          rf.Request.Sources,
		Corpus:           rf.Corpus,
		Stats:            rf.Statistics,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Stored run %d (%d records) in %s\n", runID, rf.Corpus.Len(), cfg.Store.DBPath)
	return nil
}

func init() {
	storeCmd.Flags().String("run", "", "run file to ingest")
	_ = storeCmd.MarkFlagRequired("run")

	rootCmd.AddCommand(storeCmd)
}
