// Package connectors adapts heterogeneous external job feeds to a uniform
// fetch contract. Each adapter declares a source identifier and a source
// family; the aggregator normalizes adapter output into canonical postings.
package connectors

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dejayillegal/JobFinder-Pro/internal/types"
)

// Query describes one aggregation request sent to every adapter.
type Query struct {
	Keywords string
	Location string
	Page     int
}

// RawJob is a source-specific, loosely typed job record as it came off the
// wire, before normalization.
type RawJob struct {
	Title     string
	Company   string
	Location  string
	Excerpt   string
	URL       string
	Skills    []string
	Seniority string
	Posted    time.Time
}

// Connector is the uniform fetch contract implemented by every job source.
type Connector interface {
	// SourceID identifies the adapter, e.g. "adzuna".
	SourceID() string
	// SourceFamily groups adapters whose content syndicates across sources;
	// postings from the same family dedup against each other.
	SourceFamily() string
	// IsMock reports whether the adapter produces synthetic data.
	IsMock() bool
	// Fetch returns raw jobs for the query. Implementations must respect
	// ctx cancellation on any network I/O.
	Fetch(ctx context.Context, q Query) ([]RawJob, error)
}

// Normalize converts a raw job from the given connector into a canonical
// posting. Skill canonicalization happens later, in the aggregator, so that
// all adapters share one vocabulary.
func Normalize(c Connector, raw RawJob) types.JobPosting {
	now := time.Now().UTC()
	posted := raw.Posted
	if posted.IsZero() {
		posted = now
	}
	return types.JobPosting{
		ID:             uuid.New(),
		Source:         c.SourceID(),
		SourceFamily:   c.SourceFamily(),
		Title:          raw.Title,
		Company:        raw.Company,
		Location:       raw.Location,
		RequiredSkills: raw.Skills,
		Seniority:      types.ParseSeniority(raw.Seniority),
		Excerpt:        truncateExcerpt(raw.Excerpt, 200),
		ExternalURL:    raw.URL,
		Fingerprint:    types.PostingFingerprint(raw.Title, raw.Company, raw.Location, c.SourceFamily()),
		FromMock:       c.IsMock(),
		FirstSeen:      posted,
		LastSeen:       now,
	}
}

func truncateExcerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// Error represents a connector failure: network, auth, or rate-limit
// trouble talking to an external source. Connector errors are transient by
// definition; the aggregator logs them and falls back to mock data rather
// than failing the run.
type Error struct {
	Source  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connector %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("connector %s: %s", e.Source, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
