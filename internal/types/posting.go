package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobPosting is a job record normalized into the canonical schema,
// independent of which connector surfaced it.
type JobPosting struct {
	ID             uuid.UUID `json:"id"`
	Source         string    `json:"source"`        // connector identifier, e.g. "adzuna"
	SourceFamily   string    `json:"source_family"` // dedup family, e.g. all RSS feeds share "rss"
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	RequiredSkills []string  `json:"required_skills"` // canonical, sorted, unique
	Seniority      Seniority `json:"seniority_level"`
	Excerpt        string    `json:"excerpt"`
	ExternalURL    string    `json:"external_url"`
	Fingerprint    string    `json:"fingerprint"`
	FromMock       bool      `json:"from_mock"`
	FirstSeen      time.Time `json:"first_seen"`
	LastSeen       time.Time `json:"last_seen"`
}

// PostingFingerprint computes the cross-source dedup key: a stable hash over
// the lowercased title, company, location, and source family. Syndicated
// postings surfaced by two connectors of the same family collapse to one
// fingerprint.
func PostingFingerprint(title, company, location, sourceFamily string) string {
	key := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(title)),
		strings.ToLower(strings.TrimSpace(company)),
		strings.ToLower(strings.TrimSpace(location)),
		strings.ToLower(strings.TrimSpace(sourceFamily)),
	}, "|")
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:16]
}

// Merge folds a newer sighting of the same fingerprint into p, preferring
// the most recently seen non-empty values. Identity fields (ID, Fingerprint,
// FirstSeen) are kept from the existing record.
func (p *JobPosting) Merge(newer *JobPosting) {
	if newer.Title != "" {
		p.Title = newer.Title
	}
	if newer.Company != "" {
		p.Company = newer.Company
	}
	if newer.Location != "" {
		p.Location = newer.Location
	}
	if len(newer.RequiredSkills) > 0 {
		p.RequiredSkills = newer.RequiredSkills
	}
	if newer.Seniority.Known() {
		p.Seniority = newer.Seniority
	}
	if newer.Excerpt != "" {
		p.Excerpt = newer.Excerpt
	}
	if newer.ExternalURL != "" {
		p.ExternalURL = newer.ExternalURL
	}
	p.Source = newer.Source
	// A real sighting outranks a mock one for provenance.
	if !newer.FromMock {
		p.FromMock = false
	}
	if newer.LastSeen.After(p.LastSeen) {
		p.LastSeen = newer.LastSeen
	}
}
