// Package matching implements the two-tier job/candidate scoring engine:
// a deterministic skill-overlap scorer, an LLM-backed semantic scorer used
// when the deterministic signal is weak, explanation generation, and the
// orchestration that persists ranked match records.
package matching

import (
	"github.com/jonathan/jobmatch/internal/skills"
)

// OverlapScore computes the deterministic compatibility between a job's
// required skills and a candidate's skills. It returns a 0-100 percentage
// and the subsequence of required skills the candidate matched, in the
// order they appear in the requirement list.
//
// A required skill matches when any candidate skill is case-insensitively
// equal or contains/is contained by it. Each required skill is counted at
// most once. An empty requirement list scores 0: it carries no signal and
// the caller escalates to semantic scoring.
//
// The scorer is pure; it never calls external services.
func OverlapScore(required, candidate skills.SkillSet) (float64, []string) {
	if len(required) == 0 {
		return 0, nil
	}

	var matched []string
	for _, skill := range required {
		if candidate.Contains(skill) {
			matched = append(matched, skill)
		}
	}

	return float64(len(matched)) / float64(len(required)) * 100, matched
}

// MissingSkills returns the required skills absent from matched, preserving
// requirement order. Used to feed the explanation prompt.
func MissingSkills(required skills.SkillSet, matched []string) []string {
	matchedSet := make(map[string]bool, len(matched))
	for _, skill := range matched {
		matchedSet[skill] = true
	}

	var missing []string
	for _, skill := range required {
		if !matchedSet[skill] {
			missing = append(missing, skill)
		}
	}
	return missing
}
