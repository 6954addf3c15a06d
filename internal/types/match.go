package types

import "github.com/google/uuid"

// Factor is one named contribution to a match score, used to explain why a
// posting ranked where it did.
type Factor struct {
	Name         string  `json:"name"`
	Contribution float64 `json:"contribution"`
}

// MatchResult is the explainable score for one (profile, posting) pair.
// All scores live on a 0-100 scale.
type MatchResult struct {
	ProfileID      uuid.UUID `json:"profile_id"`
	ProfileVersion string    `json:"profile_version"`
	JobID          uuid.UUID `json:"job_id"`
	JobFingerprint string    `json:"job_fingerprint"`
	WeightVersion  string    `json:"weight_version"`
	TotalScore     float64   `json:"total_score"`
	SkillScore     float64   `json:"skill_score"`
	SeniorityScore float64   `json:"seniority_score"`
	LocationScore  float64   `json:"location_score"`
	Explanation    []Factor  `json:"explanation"` // sorted by contribution descending
}

// CacheKey identifies a stored match: recomputing with the same profile
// version, job fingerprint, and engine weight version yields the same result,
// so any of the three changing invalidates it.
func (m *MatchResult) CacheKey() string {
	return m.ProfileVersion + ":" + m.JobFingerprint + ":" + m.WeightVersion
}

// TopFactor returns the dominant explanation factor, or an empty Factor when
// no explanation is present.
func (m *MatchResult) TopFactor() Factor {
	if len(m.Explanation) == 0 {
		return Factor{}
	}
	return m.Explanation[0]
}
