package aggregator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dejayillegal/JobFinder-Pro/internal/connectors"
	"github.com/dejayillegal/JobFinder-Pro/internal/skills"
	"github.com/dejayillegal/JobFinder-Pro/internal/store"
	"github.com/dejayillegal/JobFinder-Pro/internal/types"
)

// failingConnector simulates a real source whose fetch always fails, e.g.
// rate-limited past the retry budget.
type failingConnector struct {
	sourceID string
	family   string
}

func (c *failingConnector) SourceID() string     { return c.sourceID }
func (c *failingConnector) SourceFamily() string { return c.family }
func (c *failingConnector) IsMock() bool         { return false }
func (c *failingConnector) Fetch(ctx context.Context, q Query) ([]connectors.RawJob, error) {
	return nil, &connectors.Error{Source: c.sourceID, Message: "search request failed"}
}

// Query aliases keep the stub declaration readable.
type Query = connectors.Query

// failingStore wraps a working store and fails every posting write.
type failingStore struct {
	store.Store
}

func (s *failingStore) UpsertPosting(ctx context.Context, posting *types.JobPosting) (bool, error) {
	return false, &store.PersistenceError{Op: "upsert posting", Cause: errors.New("backend down")}
}

func newTestAggregator(adapters []connectors.Connector, st store.Store, fallback bool) *Aggregator {
	return New(adapters, st, skills.NewCanonicalizer(), Options{MockFallback: fallback}, zap.NewNop())
}

func TestAggregate_MockSources(t *testing.T) {
	st := store.NewMemoryStore()
	agg := newTestAggregator([]connectors.Connector{
		connectors.NewMockAdzuna(),
		connectors.NewMockRSS(),
	}, st, false)

	count, err := agg.Aggregate(context.Background(), Query{Keywords: "qa", Location: "Bangalore"})
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	postings, err := st.ListPostings(context.Background(), store.PostingFilters{})
	require.NoError(t, err)
	assert.Len(t, postings, 6)
	for _, p := range postings {
		assert.True(t, p.FromMock)
		assert.NotEmpty(t, p.Fingerprint)
	}
}

func TestAggregate_DedupsWithinFamily(t *testing.T) {
	st := store.NewMemoryStore()
	// The same fixture source twice: every posting collapses by fingerprint.
	agg := newTestAggregator([]connectors.Connector{
		connectors.NewMockAdzuna(),
		connectors.NewMockAdzuna(),
	}, st, false)

	_, err := agg.Aggregate(context.Background(), Query{})
	require.NoError(t, err)

	postings, err := st.ListPostings(context.Background(), store.PostingFilters{})
	require.NoError(t, err)
	assert.Len(t, postings, 3, "duplicate sightings merge into one posting per fingerprint")
}

func TestAggregate_CanonicalizesSkills(t *testing.T) {
	st := store.NewMemoryStore()
	mock := connectors.NewMockConnector("adzuna", "adzuna", []connectors.RawJob{{
		Title:   "Backend Developer",
		Company: "Acme",
		Skills:  []string{"Golang", "k8s", "Postgres"},
	}})
	agg := newTestAggregator([]connectors.Connector{mock}, st, false)

	_, err := agg.Aggregate(context.Background(), Query{})
	require.NoError(t, err)

	postings, err := st.ListPostings(context.Background(), store.PostingFilters{})
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, []string{"go", "kubernetes", "postgresql"}, postings[0].RequiredSkills)
}

func TestAggregate_RejectsPostingsWithoutIdentity(t *testing.T) {
	st := store.NewMemoryStore()
	mock := connectors.NewMockConnector("rss", "rss", []connectors.RawJob{
		{Title: "Valid Job", Company: "Acme"},
		{Title: "", Company: "Acme"},
		{Title: "No Company"},
	})
	agg := newTestAggregator([]connectors.Connector{mock}, st, false)

	count, err := agg.Aggregate(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAggregate_FallsBackToMockData(t *testing.T) {
	st := store.NewMemoryStore()
	agg := newTestAggregator([]connectors.Connector{
		&failingConnector{sourceID: "adzuna", family: "adzuna"},
	}, st, true)

	count, err := agg.Aggregate(context.Background(), Query{Keywords: "qa"})
	require.NoError(t, err, "a degraded source must not fail the run")
	assert.Equal(t, 3, count)

	postings, err := st.ListPostings(context.Background(), store.PostingFilters{})
	require.NoError(t, err)
	for _, p := range postings {
		assert.True(t, p.FromMock, "fallback postings carry mock provenance")
	}
}

func TestAggregate_NoFallbackSkipsFailedSource(t *testing.T) {
	st := store.NewMemoryStore()
	agg := newTestAggregator([]connectors.Connector{
		&failingConnector{sourceID: "adzuna", family: "adzuna"},
		connectors.NewMockRSS(),
	}, st, false)

	count, err := agg.Aggregate(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, 3, count, "only the healthy source contributes")
}

func TestAggregate_PersistenceErrorPropagates(t *testing.T) {
	st := &failingStore{Store: store.NewMemoryStore()}
	agg := newTestAggregator([]connectors.Connector{connectors.NewMockAdzuna()}, st, false)

	_, err := agg.Aggregate(context.Background(), Query{})
	var persistErr *store.PersistenceError
	require.ErrorAs(t, err, &persistErr)
}
