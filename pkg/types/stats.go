// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// RunStatistics accumulates per-(source, method) outcomes for one search run.
// The orchestrator appends each attempt outcome exactly once; after the run
// the value is read-only. Runs own their statistics; callers that aggregate
// multiple runs merge the values explicitly (prd001-aggregation R3.4).
type RunStatistics struct {
	// Successful lists "source:method" entries for attempts that produced
	// at least one record.
	Successful []string `json:"successful" yaml:"successful"`

	// Failed lists "source:method" entries for attempts that produced none.
	Failed []string `json:"failed" yaml:"failed"`

	// PerSource counts records kept per source after per-source truncation.
	PerSource map[string]int `json:"per_source,omitempty" yaml:"per_source,omitempty"`
}

// RecordSuccess appends a successful (source, method) outcome.
func (s *RunStatistics) RecordSuccess(source, method string) {
	s.Successful = append(s.Successful, fmt.Sprintf("%s:%s", source, method))
}

// RecordFailure appends a failed (source, method) outcome.
func (s *RunStatistics) RecordFailure(source, method string) {
	s.Failed = append(s.Failed, fmt.Sprintf("%s:%s", source, method))
}

// AddRecords bumps the per-source record count.
func (s *RunStatistics) AddRecords(source string, n int) {
	if s.PerSource == nil {
		s.PerSource = make(map[string]int)
	}
	s.PerSource[source] += n
}

// Total returns the number of recorded attempt outcomes.
func (s RunStatistics) Total() int {
	return len(s.Successful) + len(s.Failed)
}

// SuccessRate returns successes / max(1, total) as a value in [0, 1].
func (s RunStatistics) SuccessRate() float64 {
	total := s.Total()
	if total < 1 {
		total = 1
	}
	return float64(len(s.Successful)) / float64(total)
}

// Merge appends the outcomes of other into s. Used by callers that aggregate
// statistics across runs.
func (s *RunStatistics) Merge(other RunStatistics) {
	s.Successful = append(s.Successful, other.Successful...)
	s.Failed = append(s.Failed, other.Failed...)
	for source, n := range other.PerSource {
		s.AddRecords(source, n)
	}
}
