// Package store persists canonical postings, candidate profiles, match
// results, and processing jobs. Writes go through upsert-by-key operations so
// concurrent writers commute without global locks.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dejayillegal/JobFinder-Pro/internal/types"
)

// ErrNotFound is returned when a keyed read matches nothing.
var ErrNotFound = errors.New("store: not found")

// PersistenceError marks a transient storage failure: write conflicts or
// backend unavailability. The orchestrator retries these per stage.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// PostingFilters narrows ListPostings.
type PostingFilters struct {
	Source   string
	FromMock *bool
	Limit    int
}

// Store is the persistence contract consumed by the aggregator and the
// orchestrator. Postings upsert by fingerprint; matches upsert by
// (profile version, job fingerprint, weight version).
type Store interface {
	// UpsertPosting inserts the posting or merges it into the record that
	// already owns its fingerprint. Returns true when a new row was created.
	UpsertPosting(ctx context.Context, posting *types.JobPosting) (bool, error)
	GetPosting(ctx context.Context, fingerprint string) (*types.JobPosting, error)
	ListPostings(ctx context.Context, filters PostingFilters) ([]types.JobPosting, error)

	SaveProfile(ctx context.Context, profile *types.CandidateProfile) error
	GetProfile(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error)

	UpsertMatch(ctx context.Context, match *types.MatchResult) error
	// ListMatches returns stored matches for a profile at or above minScore,
	// sorted by total score descending.
	ListMatches(ctx context.Context, profileID uuid.UUID, minScore float64) ([]types.MatchResult, error)

	CreateProcessingJob(ctx context.Context, job *types.ProcessingJob) error
	UpdateProcessingJob(ctx context.Context, job *types.ProcessingJob) error
	GetProcessingJob(ctx context.Context, id uuid.UUID) (*types.ProcessingJob, error)
	// FindCompletedJob returns the completed job for a resume key, or
	// ErrNotFound. This is what makes re-submission idempotent.
	FindCompletedJob(ctx context.Context, resumeKey string) (*types.ProcessingJob, error)
}
