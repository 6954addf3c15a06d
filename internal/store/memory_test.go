package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejayillegal/JobFinder-Pro/internal/types"
)

func memPosting(title, company, location, family string) *types.JobPosting {
	return &types.JobPosting{
		ID:           uuid.New(),
		Source:       family,
		SourceFamily: family,
		Title:        title,
		Company:      company,
		Location:     location,
		Fingerprint:  types.PostingFingerprint(title, company, location, family),
		FirstSeen:    time.Now().UTC(),
		LastSeen:     time.Now().UTC(),
	}
}

func TestMemoryStore_UpsertPosting_InsertThenMerge(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	posting := memPosting("Python Developer", "Acme", "Bangalore", "adzuna")
	inserted, err := s.UpsertPosting(ctx, posting)
	require.NoError(t, err)
	assert.True(t, inserted)

	// Same fingerprint again: merged, not inserted.
	duplicate := memPosting("Python Developer", "Acme", "Bangalore", "adzuna")
	duplicate.RequiredSkills = []string{"python", "django"}
	inserted, err = s.UpsertPosting(ctx, duplicate)
	require.NoError(t, err)
	assert.False(t, inserted)

	stored, err := s.GetPosting(ctx, posting.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, posting.ID, stored.ID, "merge keeps the original identity")
	assert.Equal(t, []string{"python", "django"}, stored.RequiredSkills)

	all, err := s.ListPostings(ctx, PostingFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 1, "duplicate fingerprints collapse to one posting")
}

func TestMemoryStore_GetPosting_NotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetPosting(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ListPostings_Filters(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	real := memPosting("Go Developer", "Acme", "Remote", "adzuna")
	mock := memPosting("QA Engineer", "Umbrella", "Pune", "rss")
	mock.FromMock = true
	_, err := s.UpsertPosting(ctx, real)
	require.NoError(t, err)
	_, err = s.UpsertPosting(ctx, mock)
	require.NoError(t, err)

	bySource, err := s.ListPostings(ctx, PostingFilters{Source: "adzuna"})
	require.NoError(t, err)
	require.Len(t, bySource, 1)
	assert.Equal(t, "Go Developer", bySource[0].Title)

	mockOnly := true
	byMock, err := s.ListPostings(ctx, PostingFilters{FromMock: &mockOnly})
	require.NoError(t, err)
	require.Len(t, byMock, 1)
	assert.Equal(t, "QA Engineer", byMock[0].Title)

	limited, err := s.ListPostings(ctx, PostingFilters{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMemoryStore_CloneOnRead(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	posting := memPosting("Go Developer", "Acme", "Remote", "adzuna")
	_, err := s.UpsertPosting(ctx, posting)
	require.NoError(t, err)

	read, err := s.GetPosting(ctx, posting.Fingerprint)
	require.NoError(t, err)
	read.Title = "mutated"

	again, err := s.GetPosting(ctx, posting.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, "Go Developer", again.Title)
}

func TestMemoryStore_Profiles(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	profile := &types.CandidateProfile{
		ID:      uuid.New(),
		Version: "v1hash",
		Skills:  []string{"go", "sql"},
	}
	require.NoError(t, s.SaveProfile(ctx, profile))

	stored, err := s.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.Version, stored.Version)

	_, err = s.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Matches_UpsertByCacheKey(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	profileID := uuid.New()

	m := &types.MatchResult{
		ProfileID:      profileID,
		ProfileVersion: "pv",
		JobID:          uuid.New(),
		JobFingerprint: "jf",
		WeightVersion:  "v1",
		TotalScore:     80,
	}
	require.NoError(t, s.UpsertMatch(ctx, m))

	// Same cache key overwrites rather than duplicating.
	rescored := *m
	rescored.TotalScore = 85
	require.NoError(t, s.UpsertMatch(ctx, &rescored))

	matches, err := s.ListMatches(ctx, profileID, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 85.0, matches[0].TotalScore)
}

func TestMemoryStore_ListMatches_FilterAndOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	profileID := uuid.New()

	scores := []float64{42, 91, 18}
	for i, score := range scores {
		m := &types.MatchResult{
			ProfileID:      profileID,
			ProfileVersion: "pv",
			JobID:          uuid.New(),
			JobFingerprint: string(rune('a' + i)),
			WeightVersion:  "v1",
			TotalScore:     score,
		}
		require.NoError(t, s.UpsertMatch(ctx, m))
	}

	matches, err := s.ListMatches(ctx, profileID, 30)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, 91.0, matches[0].TotalScore)
	assert.Equal(t, 42.0, matches[1].TotalScore)

	// Another profile sees nothing.
	other, err := s.ListMatches(ctx, uuid.New(), 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryStore_ProcessingJobs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	job := &types.ProcessingJob{
		ID:        uuid.New(),
		ResumeKey: "rk1",
		State:     types.StateQueued,
	}
	require.NoError(t, s.CreateProcessingJob(ctx, job))

	job.State = types.StateParsing
	job.Progress = types.ProgressParsing
	require.NoError(t, s.UpdateProcessingJob(ctx, job))

	stored, err := s.GetProcessingJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StateParsing, stored.State)
	assert.Equal(t, 25, stored.Progress)
	assert.False(t, stored.UpdatedAt.IsZero())

	err = s.UpdateProcessingJob(ctx, &types.ProcessingJob{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_FindCompletedJob(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	queued := &types.ProcessingJob{ID: uuid.New(), ResumeKey: "rk1", State: types.StateQueued}
	require.NoError(t, s.CreateProcessingJob(ctx, queued))

	_, err := s.FindCompletedJob(ctx, "rk1")
	assert.ErrorIs(t, err, ErrNotFound, "a queued job is not a completed one")

	queued.State = types.StateCompleted
	require.NoError(t, s.UpdateProcessingJob(ctx, queued))

	found, err := s.FindCompletedJob(ctx, "rk1")
	require.NoError(t, err)
	assert.Equal(t, queued.ID, found.ID)

	_, err = s.FindCompletedJob(ctx, "other")
	assert.ErrorIs(t, err, ErrNotFound)
}
