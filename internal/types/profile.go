// Package types defines the canonical data model shared across the
// aggregation, parsing, matching, and orchestration layers.
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// CandidateProfile is the structured result of parsing one resume version.
// Profiles are immutable after creation; a re-parsed resume produces a new
// profile with a new version hash.
type CandidateProfile struct {
	ID                 uuid.UUID `json:"id"`
	Version            string    `json:"version"` // content hash of the resume bytes
	Skills             []string  `json:"skills"`  // canonical, sorted, unique
	ExperienceYears    int       `json:"experience_years"`
	Seniority          Seniority `json:"seniority_level"`
	LocationPreference string    `json:"location_preference"`
	CurrentRole        string    `json:"current_role,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// ResumeVersion derives the profile version hash from the raw document bytes.
// Identical uploads yield identical versions, which is what makes resume
// re-submission idempotent.
func ResumeVersion(document []byte) string {
	sum := sha256.Sum256(document)
	return hex.EncodeToString(sum[:])[:16]
}

// HasSkill reports whether the profile lists the given canonical skill.
func (p *CandidateProfile) HasSkill(canonical string) bool {
	for _, s := range p.Skills {
		if s == canonical {
			return true
		}
	}
	return false
}
