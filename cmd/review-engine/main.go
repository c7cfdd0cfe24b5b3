// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the review-engine CLI.
// Implements: prd001-aggregation, prd002-matching, prd003-review-store
//
//	(CLI surface). See docs/ARCHITECTURE § Command Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/review-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the review-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "review-engine",
	Short: "Federated literature search and artifact matching for systematic reviews",
	Long: `review-engine collects candidate literature for systematic reviews. The
search command queries bibliographic sources (PubMed, arXiv, OpenAlex,
Semantic Scholar, CORE, Google Scholar, and site-filtered web search for
the subscription databases), escalating each source through its fallback
chain, and merges the results into a deduplicated corpus. The match command
links downloaded full-text files to corpus records by filename evidence.

Runs persist as YAML run files (search --output) or in a local SQLite review
store (store, corpus, stats).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		exportSecrets(s)
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

// exportSecrets publishes secret values into the process environment under
// the viper prefix, so they resolve like any other config value. An explicit
// environment variable wins over a secret file.
func exportSecrets(s map[string]string) {
	for key, value := range s {
		env := "REVIEW_ENGINE_SEARCH_" + strings.ToUpper(key)
		if os.Getenv(env) == "" {
			os.Setenv(env, value)
		}
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: review-engine.yaml in . or ~/.config/review-engine)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of API key files (core_api_key, semantic_scholar_api_key, ncbi_api_key, openalex_email)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log at debug level")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("review-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "review-engine"))
		}
	}

	viper.SetEnvPrefix("REVIEW_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
