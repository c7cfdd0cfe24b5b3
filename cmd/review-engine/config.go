// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/review-engine/internal/observability"
	"github.com/pdiddy/review-engine/pkg/types"
)

// loadConfig resolves the effective configuration: compiled defaults
// overlaid with the config file and environment via viper. Absent, zero, and
// empty values never override a default, so partial config files work.
func loadConfig() types.Config {
	cfg := types.DefaultConfig()

	intSetting("search.max_per_source", &cfg.Search.MaxPerSource)
	intSetting("search.early_exit_divisor", &cfg.Search.EarlyExitDivisor)
	durSetting("search.timeout", &cfg.Search.Timeout)
	durSetting("search.delay_min", &cfg.Search.DelayMin)
	durSetting("search.delay_max", &cfg.Search.DelayMax)
	durSetting("search.inter_source_delay", &cfg.Search.InterSourceDelay)
	durSetting("search.run_timeout", &cfg.Search.RunTimeout)
	floatSetting("search.rate_per_second", &cfg.Search.RatePerSecond)
	listSetting("search.sources", &cfg.Search.Sources)
	listSetting("search.user_agents", &cfg.Search.UserAgents)
	strSetting("search.semantic_scholar_api_key", &cfg.Search.SemanticScholarAPIKey)
	strSetting("search.core_api_key", &cfg.Search.COREAPIKey)
	strSetting("search.ncbi_api_key", &cfg.Search.NCBIAPIKey)
	strSetting("search.openalex_email", &cfg.Search.OpenAlexEmail)

	intSetting("match.accept_threshold", &cfg.Match.AcceptThreshold)
	intSetting("match.sequential_confidence", &cfg.Match.SequentialConfidence)
	intSetting("match.identifier_confidence", &cfg.Match.IdentifierConfidence)
	intSetting("match.leading_word_base", &cfg.Match.LeadingWordBase)
	intSetting("match.leading_word_step", &cfg.Match.LeadingWordStep)
	intSetting("match.leading_word_cap", &cfg.Match.LeadingWordCap)
	intSetting("match.any_word_base", &cfg.Match.AnyWordBase)
	intSetting("match.any_word_ratio_weight", &cfg.Match.AnyWordRatioWeight)
	intSetting("match.any_word_step", &cfg.Match.AnyWordStep)
	intSetting("match.any_word_cap", &cfg.Match.AnyWordCap)
	intSetting("match.author_year_confidence", &cfg.Match.AuthorYearConfidence)
	intSetting("match.topical_bonus", &cfg.Match.TopicalBonus)
	listSetting("match.topical_keywords", &cfg.Match.TopicalKeywords)

	strSetting("store.db_path", &cfg.Store.DBPath)

	strSetting("log.level", &cfg.Log.Level)
	strSetting("log.format", &cfg.Log.Format)

	return cfg
}

// newLogger builds the command's logger, honoring --verbose over the
// configured level.
func newLogger(cmd *cobra.Command, cfg types.Config) zerolog.Logger {
	logCfg := cfg.Log
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logCfg.Level = "debug"
	}
	return observability.NewLogger(logCfg)
}

func intSetting(key string, dst *int) {
	if v := viper.GetInt(key); v > 0 {
		*dst = v
	}
}

func durSetting(key string, dst *time.Duration) {
	if v := viper.GetDuration(key); v > 0 {
		*dst = v
	}
}

func floatSetting(key string, dst *float64) {
	if v := viper.GetFloat64(key); v > 0 {
		*dst = v
	}
}

func strSetting(key string, dst *string) {
	if v := viper.GetString(key); v != "" {
		*dst = v
	}
}

func listSetting(key string, dst *[]string) {
	if v := viper.GetStringSlice(key); len(v) > 0 {
		*dst = v
	}
}
