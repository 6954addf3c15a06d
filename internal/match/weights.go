// Package match computes explainable scores for (profile, posting) pairs.
// Scoring is pure and deterministic; all configuration lives in Weights so
// cached results can be invalidated when the weighting changes.
package match

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// Weights configures the scoring blend. The three components must sum to
// 1.0; Version participates in the match cache key so a reweighted engine
// never serves stale results.
type Weights struct {
	Skill     float64 `json:"skill" validate:"gte=0,lte=1"`
	Seniority float64 `json:"seniority" validate:"gte=0,lte=1"`
	Location  float64 `json:"location" validate:"gte=0,lte=1"`
	Version   string  `json:"version" validate:"required"`

	// PriorityCity scores as well as Remote for location matching.
	PriorityCity string `json:"priority_city"`
	// HomeCountry scores 50 when the posting is in-country but in a
	// different city.
	HomeCountry string `json:"home_country"`
}

// DefaultWeights mirrors the documented 60/25/15 blend with Bangalore as the
// priority city.
func DefaultWeights() Weights {
	return Weights{
		Skill:        0.6,
		Seniority:    0.25,
		Location:     0.15,
		Version:      "v1",
		PriorityCity: "Bangalore",
		HomeCountry:  "India",
	}
}

const weightSumTolerance = 1e-9

// Validate checks field ranges and the sum-to-one invariant. Called at
// startup; a failing weight set is a configuration error, not a runtime
// condition.
func (w Weights) Validate() error {
	if err := validator.New().Struct(w); err != nil {
		return fmt.Errorf("invalid weights: %w", err)
	}
	sum := w.Skill + w.Seniority + w.Location
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("invalid weights: skill+seniority+location must sum to 1.0, got %g", sum)
	}
	return nil
}
