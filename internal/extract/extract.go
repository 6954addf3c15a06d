// Package extract defines the entity-extractor contract consumed by the
// resume parsing pipeline, with a deterministic rule-based implementation
// and an optional LLM-backed one. Any extractor may be substituted as long
// as the contract holds.
package extract

import "context"

// Entities is what an extractor pulls out of resume text: skill-like tokens
// (pre-canonicalization), an experience statement if one was found, explicit
// location mentions, and the current role line when detectable.
type Entities struct {
	Skills          []string `json:"skills"`
	ExperienceYears *int     `json:"experience_years"`
	Locations       []string `json:"locations"`
	CurrentRole     string   `json:"current_role,omitempty"`
}

// Extractor is the black-box entity extraction capability.
type Extractor interface {
	Extract(ctx context.Context, text string) (*Entities, error)
}
