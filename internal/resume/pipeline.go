// Package resume turns uploaded resume documents into structured candidate
// profiles: text extraction, PII sanitization, entity extraction, skill
// canonicalization, and seniority inference.
package resume

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dejayillegal/JobFinder-Pro/internal/extract"
	"github.com/dejayillegal/JobFinder-Pro/internal/privacy"
	"github.com/dejayillegal/JobFinder-Pro/internal/skills"
	"github.com/dejayillegal/JobFinder-Pro/internal/types"
)

// Pipeline parses resume documents into candidate profiles. The raw
// document text never leaves this package: only the structured profile is
// returned, and anything textual in it has been sanitized.
type Pipeline struct {
	extractor     extract.Extractor
	canonicalizer *skills.Canonicalizer
	log           *zap.Logger
}

// NewPipeline builds a parsing pipeline around an entity extractor.
func NewPipeline(extractor extract.Extractor, canonicalizer *skills.Canonicalizer, log *zap.Logger) *Pipeline {
	return &Pipeline{
		extractor:     extractor,
		canonicalizer: canonicalizer,
		log:           log.Named("resume"),
	}
}

// Parse extracts a candidate profile from document bytes. Unsupported mime
// types and unreadable documents fail with *ParseError; extractor failures
// are wrapped and propagate as-is.
func (p *Pipeline) Parse(ctx context.Context, document []byte, mimeType string) (*types.CandidateProfile, error) {
	if len(document) == 0 {
		return nil, &ParseError{MimeType: mimeType, Message: "empty document"}
	}

	text, err := extractText(document, mimeType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{MimeType: mimeType, Message: "document contains no text"}
	}

	// Scrub PII before the text goes anywhere, including the extractor.
	sanitized := privacy.Sanitize(text)
	if privacy.ContainsPII(sanitized) {
		p.log.Warn("sanitized text still carries contact details",
			zap.String("mime_type", mimeType))
	}

	entities, err := p.extractor.Extract(ctx, sanitized)
	if err != nil {
		return nil, fmt.Errorf("entity extraction failed: %w", err)
	}

	canonical := p.canonicalizer.CanonicalizeAll(entities.Skills)
	sort.Strings(canonical)

	years := 0
	if entities.ExperienceYears != nil {
		years = *entities.ExperienceYears
	}

	profile := &types.CandidateProfile{
		ID:                 uuid.New(),
		Version:            types.ResumeVersion(document),
		Skills:             canonical,
		ExperienceYears:    years,
		Seniority:          inferSeniority(sanitized, entities.ExperienceYears),
		LocationPreference: preferredLocation(entities.Locations),
		CurrentRole:        entities.CurrentRole,
		CreatedAt:          time.Now().UTC(),
	}

	p.log.Info("parsed resume",
		zap.String("version", profile.Version),
		zap.Int("skills", len(profile.Skills)),
		zap.String("seniority", profile.Seniority.String()),
		zap.String("location", profile.LocationPreference))
	return profile, nil
}

// seniorityKeywords map explicit resume phrasing to levels. Keywords win
// over years-of-experience inference; checked from most to least senior so
// "senior engineering director" reads as director.
var seniorityKeywords = []struct {
	level    types.Seniority
	keywords []string
}{
	{types.SeniorityDirector, []string{"director", "vp ", "vice president", "head of", "chief"}},
	{types.SeniorityLead, []string{"lead ", "team lead", "tech lead", "staff engineer", "principal"}},
	{types.SenioritySenior, []string{"senior", "sr."}},
	{types.SeniorityJunior, []string{"junior", "associate "}},
	{types.SeniorityEntry, []string{"entry level", "fresher", "intern ", "graduate "}},
}

// inferSeniority maps resume text and experience years onto the ordinal
// scale shared with job postings.
func inferSeniority(text string, years *int) types.Seniority {
	lower := strings.ToLower(text)
	for _, entry := range seniorityKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.level
			}
		}
	}

	if years == nil {
		return types.SeniorityMid
	}
	switch y := *years; {
	case y < 1:
		return types.SeniorityEntry
	case y < 2:
		return types.SeniorityJunior
	case y < 5:
		return types.SeniorityMid
	case y < 10:
		return types.SenioritySenior
	case y < 15:
		return types.SeniorityLead
	default:
		return types.SeniorityDirector
	}
}

// preferredLocation picks the first explicit location mention, defaulting
// to Remote when the resume states none.
func preferredLocation(locations []string) string {
	for _, loc := range locations {
		if strings.TrimSpace(loc) != "" {
			return strings.TrimSpace(loc)
		}
	}
	return "Remote"
}
