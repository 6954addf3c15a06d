package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Priya S
Senior Software Engineer at Example Labs

8 years of experience building backend services in Go and Python.
Skills: Go, Python, PostgreSQL, Docker, Kubernetes, CI/CD
Based in Bangalore, open to remote work.
`

func TestRuleBasedExtract_Skills(t *testing.T) {
	e := NewRuleBasedExtractor()
	entities, err := e.Extract(context.Background(), sampleResume)
	require.NoError(t, err)

	assert.Contains(t, entities.Skills, "go")
	assert.Contains(t, entities.Skills, "python")
	assert.Contains(t, entities.Skills, "postgresql")
	assert.Contains(t, entities.Skills, "docker")
	assert.Contains(t, entities.Skills, "kubernetes")
	assert.NotContains(t, entities.Skills, "java", "java must not fire inside other words")
}

func TestRuleBasedExtract_WordBoundaries(t *testing.T) {
	e := NewRuleBasedExtractor()

	entities, err := e.Extract(context.Background(), "Worked at Google on search infrastructure")
	require.NoError(t, err)
	assert.NotContains(t, entities.Skills, "go", "go must not fire inside google")

	entities, err = e.Extract(context.Background(), "JavaScript developer")
	require.NoError(t, err)
	assert.Contains(t, entities.Skills, "javascript")
	assert.NotContains(t, entities.Skills, "java")
}

func TestRuleBasedExtract_ExperienceYears(t *testing.T) {
	e := NewRuleBasedExtractor()
	cases := []struct {
		text     string
		expected int
	}{
		{"8 years of experience in testing", 8},
		{"Experience: 12 years", 12},
		{"5+ yrs experience with Python", 5},
		{"3 years in backend development", 3},
	}

	for _, tc := range cases {
		entities, err := e.Extract(context.Background(), tc.text)
		require.NoError(t, err)
		require.NotNil(t, entities.ExperienceYears, "input %q", tc.text)
		assert.Equal(t, tc.expected, *entities.ExperienceYears, "input %q", tc.text)
	}
}

func TestRuleBasedExtract_ExperienceAbsent(t *testing.T) {
	e := NewRuleBasedExtractor()
	entities, err := e.Extract(context.Background(), "Python developer from Pune")
	require.NoError(t, err)
	assert.Nil(t, entities.ExperienceYears)
}

func TestRuleBasedExtract_ExperienceCapped(t *testing.T) {
	e := NewRuleBasedExtractor()
	entities, err := e.Extract(context.Background(), "99 years of experience")
	require.NoError(t, err)
	require.NotNil(t, entities.ExperienceYears)
	assert.Equal(t, 50, *entities.ExperienceYears)
}

func TestRuleBasedExtract_Locations(t *testing.T) {
	e := NewRuleBasedExtractor()
	entities, err := e.Extract(context.Background(), sampleResume)
	require.NoError(t, err)

	assert.Contains(t, entities.Locations, "Bangalore")
	assert.Contains(t, entities.Locations, "Remote")
}

func TestRuleBasedExtract_WorkFromHome(t *testing.T) {
	e := NewRuleBasedExtractor()
	entities, err := e.Extract(context.Background(), "Looking for work from home positions")
	require.NoError(t, err)
	assert.Contains(t, entities.Locations, "Remote")
}

func TestRuleBasedExtract_CurrentRole(t *testing.T) {
	e := NewRuleBasedExtractor()
	entities, err := e.Extract(context.Background(), sampleResume)
	require.NoError(t, err)
	assert.Equal(t, "Software Engineer", entities.CurrentRole)
}

func TestRuleBasedExtract_Deterministic(t *testing.T) {
	e := NewRuleBasedExtractor()
	first, err := e.Extract(context.Background(), sampleResume)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.Extract(context.Background(), sampleResume)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRuleBasedExtract_CancelledContext(t *testing.T) {
	e := NewRuleBasedExtractor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, sampleResume)
	assert.ErrorIs(t, err, context.Canceled)
}
