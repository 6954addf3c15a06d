package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeniority(t *testing.T) {
	cases := []struct {
		raw      string
		expected Seniority
	}{
		{"entry", SeniorityEntry},
		{"Fresher", SeniorityEntry},
		{"junior", SeniorityJunior},
		{"Mid-Level", SeniorityMid},
		{"SENIOR", SenioritySenior},
		{"principal", SenioritySenior},
		{"staff", SenioritySenior},
		{"tech lead", SeniorityLead},
		{"manager", SeniorityDirector},
		{"vp", SeniorityDirector},
		{"  senior  ", SenioritySenior},
		{"wizard", SeniorityUnknown},
		{"", SeniorityUnknown},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, ParseSeniority(tc.raw), "input %q", tc.raw)
	}
}

func TestSeniority_Distance(t *testing.T) {
	assert.Equal(t, 0, SeniorityMid.Distance(SeniorityMid))
	assert.Equal(t, 1, SeniorityMid.Distance(SenioritySenior))
	assert.Equal(t, 1, SenioritySenior.Distance(SeniorityMid))
	assert.Equal(t, 5, SeniorityEntry.Distance(SeniorityDirector))
}

func TestSeniority_Known(t *testing.T) {
	assert.False(t, SeniorityUnknown.Known())
	assert.True(t, SeniorityEntry.Known())
	assert.True(t, SeniorityDirector.Known())
}

func TestSeniority_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(SenioritySenior)
	require.NoError(t, err)
	assert.Equal(t, `"senior"`, string(data))

	var s Seniority
	require.NoError(t, json.Unmarshal([]byte(`"lead"`), &s))
	assert.Equal(t, SeniorityLead, s)

	require.NoError(t, json.Unmarshal([]byte(`"wizard"`), &s))
	assert.Equal(t, SeniorityUnknown, s)
}

func TestPostingFingerprint_NormalizesCaseAndSpace(t *testing.T) {
	a := PostingFingerprint("Python Developer", "Acme Corp", "Bangalore", "adzuna")
	b := PostingFingerprint("  python developer ", "ACME CORP", " bangalore", "Adzuna")
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestPostingFingerprint_DistinguishesSourceFamily(t *testing.T) {
	adzuna := PostingFingerprint("Python Developer", "Acme", "Bangalore", "adzuna")
	rss := PostingFingerprint("Python Developer", "Acme", "Bangalore", "rss")
	assert.NotEqual(t, adzuna, rss)
}

func TestPostingFingerprint_DistinguishesFields(t *testing.T) {
	base := PostingFingerprint("Python Developer", "Acme", "Bangalore", "adzuna")
	assert.NotEqual(t, base, PostingFingerprint("Java Developer", "Acme", "Bangalore", "adzuna"))
	assert.NotEqual(t, base, PostingFingerprint("Python Developer", "Umbrella", "Bangalore", "adzuna"))
	assert.NotEqual(t, base, PostingFingerprint("Python Developer", "Acme", "Pune", "adzuna"))
}

func TestPosting_Merge(t *testing.T) {
	firstSeen := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &JobPosting{
		ID:             uuid.New(),
		Source:         "mock_adzuna",
		Fingerprint:    "fp",
		Title:          "QA Engineer",
		Company:        "Acme",
		Location:       "Bangalore",
		RequiredSkills: []string{"selenium"},
		Seniority:      SeniorityMid,
		FromMock:       true,
		FirstSeen:      firstSeen,
		LastSeen:       firstSeen,
	}

	newer := &JobPosting{
		Source:         "adzuna",
		Title:          "QA Automation Engineer",
		Company:        "", // empty never overwrites
		RequiredSkills: []string{"selenium", "python"},
		FromMock:       false,
		LastSeen:       firstSeen.Add(24 * time.Hour),
	}

	id := existing.ID
	existing.Merge(newer)

	assert.Equal(t, id, existing.ID)
	assert.Equal(t, "fp", existing.Fingerprint)
	assert.Equal(t, firstSeen, existing.FirstSeen)
	assert.Equal(t, "QA Automation Engineer", existing.Title)
	assert.Equal(t, "Acme", existing.Company)
	assert.Equal(t, []string{"selenium", "python"}, existing.RequiredSkills)
	assert.Equal(t, "adzuna", existing.Source)
	assert.False(t, existing.FromMock, "real sighting clears the mock flag")
	assert.Equal(t, firstSeen.Add(24*time.Hour), existing.LastSeen)
}

func TestPosting_MergeKeepsRealProvenance(t *testing.T) {
	existing := &JobPosting{Fingerprint: "fp", Title: "Engineer", FromMock: false}
	existing.Merge(&JobPosting{Title: "Engineer", FromMock: true})
	assert.False(t, existing.FromMock, "mock sighting never re-flags a real posting")
}

func TestResumeVersion_ContentHash(t *testing.T) {
	a := ResumeVersion([]byte("resume content"))
	b := ResumeVersion([]byte("resume content"))
	c := ResumeVersion([]byte("resume content v2"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

func TestMatchResult_CacheKey(t *testing.T) {
	m := &MatchResult{ProfileVersion: "pv", JobFingerprint: "jf", WeightVersion: "v1"}
	assert.Equal(t, "pv:jf:v1", m.CacheKey())
}

func TestProcessingJob_Terminal(t *testing.T) {
	assert.False(t, StateQueued.Terminal())
	assert.False(t, StateParsing.Terminal())
	assert.False(t, StateAggregating.Terminal())
	assert.False(t, StateMatching.Terminal())
	assert.True(t, StateCompleted.Terminal())
	assert.True(t, StateFailed.Terminal())
}

func TestProcessingJob_Status(t *testing.T) {
	job := &ProcessingJob{
		ID:       uuid.New(),
		State:    StateMatching,
		Progress: ProgressMatching,
		Error:    "",
	}
	status := job.Status()
	assert.Equal(t, job.ID, status.ID)
	assert.Equal(t, StateMatching, status.State)
	assert.Equal(t, 90, status.Progress)
}
