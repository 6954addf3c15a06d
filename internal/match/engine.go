package match

import (
	"context"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dejayillegal/JobFinder-Pro/internal/skills"
	"github.com/dejayillegal/JobFinder-Pro/internal/types"
)

// Seniority distance decay: exact match scores full, each ordinal step away
// halves (then quarters, then zeroes) the component.
var seniorityDistanceScores = []float64{100, 50, 25, 0}

// DefaultMinScore filters out matches too weak to show a candidate.
const DefaultMinScore = 30.0

// Engine scores candidate profiles against job postings. It performs no I/O
// and is safe for concurrent use.
type Engine struct {
	weights Weights
}

// NewEngine validates the weight configuration and builds an engine.
func NewEngine(weights Weights) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Engine{weights: weights}, nil
}

// WeightVersion identifies the active weight configuration.
func (e *Engine) WeightVersion() string {
	return e.weights.Version
}

// Score computes the explainable match result for one pair. Malformed
// inputs (missing skills, unknown levels) fold into zero or neutral
// sub-scores rather than errors; scoring is total over normalized records.
func (e *Engine) Score(profile *types.CandidateProfile, job *types.JobPosting) types.MatchResult {
	skillScore := e.skillScore(profile, job.RequiredSkills)
	seniorityScore := e.seniorityScore(profile.Seniority, job.Seniority)
	locationScore := e.locationScore(job.Location)

	total := clamp(skillScore*e.weights.Skill +
		seniorityScore*e.weights.Seniority +
		locationScore*e.weights.Location)

	explanation := []types.Factor{
		{Name: "Skills", Contribution: round2(skillScore * e.weights.Skill)},
		{Name: "Seniority", Contribution: round2(seniorityScore * e.weights.Seniority)},
		{Name: "Location", Contribution: round2(locationScore * e.weights.Location)},
	}
	// Stable sort keeps the Skills/Seniority/Location order on ties, so
	// explanations are deterministic.
	sort.SliceStable(explanation, func(i, j int) bool {
		return explanation[i].Contribution > explanation[j].Contribution
	})

	return types.MatchResult{
		ProfileID:      profile.ID,
		ProfileVersion: profile.Version,
		JobID:          job.ID,
		JobFingerprint: job.Fingerprint,
		WeightVersion:  e.weights.Version,
		TotalScore:     round2(total),
		SkillScore:     round2(skillScore),
		SeniorityScore: round2(seniorityScore),
		LocationScore:  round2(locationScore),
		Explanation:    explanation,
	}
}

// skillScore is the importance-weighted overlap between the profile's skills
// and the posting's requirements, scaled to 0-100 of the posting's weighted
// demand. No requirements means nothing to satisfy, which scores zero rather
// than a free hundred.
func (e *Engine) skillScore(profile *types.CandidateProfile, requiredSkills []string) float64 {
	if len(requiredSkills) == 0 || len(profile.Skills) == 0 {
		return 0
	}

	matched := 0.0
	for _, required := range requiredSkills {
		if profile.HasSkill(required) {
			matched += skills.Importance(required)
		}
	}

	demand := skills.WeightedSize(requiredSkills)
	if demand == 0 {
		return 0
	}
	return 100 * matched / demand
}

// seniorityScore decays with ordinal distance. A posting that declares no
// seniority imposes no constraint and scores full.
func (e *Engine) seniorityScore(profileLevel, jobLevel types.Seniority) float64 {
	if !jobLevel.Known() {
		return 100
	}
	if !profileLevel.Known() {
		return 0
	}
	d := profileLevel.Distance(jobLevel)
	if d >= len(seniorityDistanceScores) {
		return 0
	}
	return seniorityDistanceScores[d]
}

// locationScore prefers remote-friendly and priority-city postings, then
// in-country ones.
func (e *Engine) locationScore(jobLocation string) float64 {
	loc := strings.ToLower(strings.TrimSpace(jobLocation))
	switch {
	case strings.Contains(loc, "remote"):
		return 100
	case e.matchesPriorityCity(loc):
		return 100
	case e.weights.HomeCountry != "" && strings.Contains(loc, strings.ToLower(e.weights.HomeCountry)):
		return 50
	default:
		return 25
	}
}

func (e *Engine) matchesPriorityCity(loc string) bool {
	city := strings.ToLower(e.weights.PriorityCity)
	if city == "" {
		return false
	}
	if strings.Contains(loc, city) {
		return true
	}
	// The priority city ships with a spelling alias pair; job boards use
	// both interchangeably.
	if city == "bangalore" || city == "bengaluru" {
		return strings.Contains(loc, "bangalore") || strings.Contains(loc, "bengaluru")
	}
	return false
}

// Rank scores the profile against every posting in parallel, drops results
// below minScore, and returns the rest sorted by total score descending with
// a deterministic tie-break on job ID.
func (e *Engine) Rank(ctx context.Context, profile *types.CandidateProfile, postings []types.JobPosting, minScore float64) ([]types.MatchResult, error) {
	results := make([]types.MatchResult, len(postings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range postings {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Score(profile, &postings[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := make([]types.MatchResult, 0, len(results))
	for _, r := range results {
		if r.TotalScore >= minScore {
			ranked = append(ranked, r)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalScore == ranked[j].TotalScore {
			return ranked[i].JobID.String() < ranked[j].JobID.String()
		}
		return ranked[i].TotalScore > ranked[j].TotalScore
	})
	return ranked, nil
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
