// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package federate

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/review-engine/pkg/types"
)

// Request captures the inputs of one search run in serializable form.
type Request struct {
	Keywords         []string `yaml:"keywords,omitempty"`
	ResearchQuestion string   `yaml:"research_question,omitempty"`
	Sources          []string `yaml:"sources,omitempty"`
}

// RunConfig snapshots the search settings that shaped a run. Only behavior
// knobs are stored; API keys never reach the file.
type RunConfig struct {
	MaxPerSource     int           `yaml:"max_per_source"`
	EarlyExitDivisor int           `yaml:"early_exit_divisor"`
	RunTimeout       time.Duration `yaml:"run_timeout"`
}

// RunFile is the on-disk representation of a completed search run. A
// reviewer can save a run and reload the corpus later without re-querying
// any source.
type RunFile struct {
	CreatedAt  time.Time           `yaml:"created_at"`
	Request    Request             `yaml:"request"`
	Config     RunConfig           `yaml:"config"`
	Corpus     types.Corpus        `yaml:"corpus"`
	Statistics types.RunStatistics `yaml:"statistics"`
}

// WriteRunFile saves a completed run to a YAML file.
func WriteRunFile(path string, req Request, cfg types.SearchConfig, corpus types.Corpus, stats types.RunStatistics) error {
	rf := RunFile{
		CreatedAt: time.Now(),
		Request:   req,
		Config: RunConfig{
			MaxPerSource:     cfg.MaxPerSource,
			EarlyExitDivisor: cfg.EarlyExitDivisor,
			RunTimeout:       cfg.RunTimeout,
		},
		Corpus:     corpus,
		Statistics: stats,
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling run file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRunFile loads a previously saved run from disk.
func ReadRunFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing run file: %w", err)
	}
	return &rf, nil
}
