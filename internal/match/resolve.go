// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import "github.com/pdiddy/review-engine/pkg/types"

// Resolve classifies best-per-artifact candidates into a complete MatchReport:
// assigned, low-confidence, unmatched, or conflicted. Candidates are processed
// in input order and the first accepted claim on a record wins; any later
// candidate at or above the threshold that targets a taken record becomes a
// Conflict, even at higher confidence. Overwriting would silently discard a
// human-visible decision, so the caller gets the conflict instead. prior holds
// assignments from earlier runs and is never modified; its entries count as
// taken records. Re-presenting an artifact that already holds its record is a
// no-op, which makes re-running a pass over stored assignments idempotent.
// Implements: prd002-matching R3.
func Resolve(candidates []types.MatchCandidate, prior map[int]string, cfg types.MatchConfig) types.MatchReport {
	report := types.MatchReport{
		Assignments: make(map[int]string, len(prior)+len(candidates)),
	}
	for id, name := range prior {
		report.Assignments[id] = name
	}

	for _, c := range candidates {
		switch {
		case c.RecordID == 0:
			report.Unmatched = append(report.Unmatched, c.Artifact)
		case c.Confidence < cfg.AcceptThreshold:
			report.LowConfidence = append(report.LowConfidence, c)
		default:
			existing, taken := report.Assignments[c.RecordID]
			if !taken {
				report.Assignments[c.RecordID] = c.Artifact
				continue
			}
			if existing == c.Artifact {
				continue
			}
			report.Conflicts = append(report.Conflicts, types.MatchConflict{
				RecordID:   c.RecordID,
				Existing:   existing,
				Challenger: c,
			})
		}
	}
	return report
}
