package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dejayillegal/JobFinder-Pro/internal/types"
)

// MemoryStore is an in-memory Store used by tests and keyless local runs.
// All maps are guarded by one RWMutex; the dataset is small enough that
// finer-grained locking buys nothing.
type MemoryStore struct {
	mu       sync.RWMutex
	postings map[string]*types.JobPosting      // fingerprint -> posting
	profiles map[uuid.UUID]*types.CandidateProfile
	matches  map[string]*types.MatchResult // cache key -> match
	jobs     map[uuid.UUID]*types.ProcessingJob
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		postings: make(map[string]*types.JobPosting),
		profiles: make(map[uuid.UUID]*types.CandidateProfile),
		matches:  make(map[string]*types.MatchResult),
		jobs:     make(map[uuid.UUID]*types.ProcessingJob),
	}
}

// UpsertPosting inserts or merges by fingerprint.
func (s *MemoryStore) UpsertPosting(ctx context.Context, posting *types.JobPosting) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.postings[posting.Fingerprint]
	if !ok {
		clone := *posting
		s.postings[posting.Fingerprint] = &clone
		return true, nil
	}
	existing.Merge(posting)
	return false, nil
}

func (s *MemoryStore) GetPosting(ctx context.Context, fingerprint string) (*types.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posting, ok := s.postings[fingerprint]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *posting
	return &clone, nil
}

func (s *MemoryStore) ListPostings(ctx context.Context, filters PostingFilters) ([]types.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.JobPosting
	for _, posting := range s.postings {
		if filters.Source != "" && posting.Source != filters.Source {
			continue
		}
		if filters.FromMock != nil && posting.FromMock != *filters.FromMock {
			continue
		}
		out = append(out, *posting)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastSeen.Equal(out[j].LastSeen) {
			return out[i].Fingerprint < out[j].Fingerprint
		}
		return out[i].LastSeen.After(out[j].LastSeen)
	})
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (s *MemoryStore) SaveProfile(ctx context.Context, profile *types.CandidateProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *profile
	s.profiles[profile.ID] = &clone
	return nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *profile
	return &clone, nil
}

func (s *MemoryStore) UpsertMatch(ctx context.Context, match *types.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *match
	s.matches[match.CacheKey()] = &clone
	return nil
}

func (s *MemoryStore) ListMatches(ctx context.Context, profileID uuid.UUID, minScore float64) ([]types.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.MatchResult
	for _, match := range s.matches {
		if match.ProfileID != profileID || match.TotalScore < minScore {
			continue
		}
		out = append(out, *match)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalScore == out[j].TotalScore {
			return out[i].JobID.String() < out[j].JobID.String()
		}
		return out[i].TotalScore > out[j].TotalScore
	})
	return out, nil
}

func (s *MemoryStore) CreateProcessingJob(ctx context.Context, job *types.ProcessingJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *job
	s.jobs[job.ID] = &clone
	return nil
}

func (s *MemoryStore) UpdateProcessingJob(ctx context.Context, job *types.ProcessingJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.ID]; !ok {
		return ErrNotFound
	}
	job.UpdatedAt = time.Now().UTC()
	clone := *job
	s.jobs[job.ID] = &clone
	return nil
}

func (s *MemoryStore) GetProcessingJob(ctx context.Context, id uuid.UUID) (*types.ProcessingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *job
	return &clone, nil
}

func (s *MemoryStore) FindCompletedJob(ctx context.Context, resumeKey string) (*types.ProcessingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, job := range s.jobs {
		if job.ResumeKey == resumeKey && job.State == types.StateCompleted {
			clone := *job
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}
