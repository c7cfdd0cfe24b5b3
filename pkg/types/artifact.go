// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Artifact is a downloaded file (usually a PDF) awaiting association with a
// corpus record. Implements: prd002-matching R1.1.
type Artifact struct {
	// Name is the bare file name, extension included.
	Name string `json:"name" yaml:"name"`

	// Path is where the file lives on disk. Optional; matching operates on
	// Name only.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// MatchCandidate is one proposed (record, artifact) pairing with the strategy
// that produced it and its confidence score. Confidence is an integer in
// [0, 100]; strategies clamp their own scores (prd002-matching R2).
type MatchCandidate struct {
	RecordID   int    `json:"record_id" yaml:"record_id"`
	Artifact   string `json:"artifact" yaml:"artifact"`
	Strategy   string `json:"strategy" yaml:"strategy"`
	Confidence int    `json:"confidence" yaml:"confidence"`
}

// MatchConflict reports a record that already has an assigned artifact while
// another artifact also claims it at or above the acceptance threshold.
// Resolution is left to the caller; the engine never overwrites an existing
// assignment (prd002-matching R3.3).
type MatchConflict struct {
	// RecordID is the contested record.
	RecordID int `json:"record_id" yaml:"record_id"`

	// Existing is the artifact name currently assigned to the record.
	Existing string `json:"existing" yaml:"existing"`

	// Challenger is the competing candidate that also claims the record.
	Challenger MatchCandidate `json:"challenger" yaml:"challenger"`
}

// MatchReport is the complete outcome of one matching pass.
type MatchReport struct {
	// Assignments maps record ID to artifact name. It contains the prior
	// assignments passed in plus any new ones accepted this pass.
	Assignments map[int]string `json:"assignments" yaml:"assignments"`

	// LowConfidence holds the best candidate for artifacts whose score fell
	// below the acceptance threshold. These need human review.
	LowConfidence []MatchCandidate `json:"low_confidence,omitempty" yaml:"low_confidence,omitempty"`

	// Unmatched lists artifacts for which no strategy produced a candidate.
	Unmatched []string `json:"unmatched,omitempty" yaml:"unmatched,omitempty"`

	// Conflicts lists contested records. See MatchConflict.
	Conflicts []MatchConflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}
