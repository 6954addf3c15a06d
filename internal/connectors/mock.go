package connectors

import (
	"context"
	"time"
)

// MockConnector serves deterministic synthetic postings without network I/O.
// It stands in for a real source when credentials are absent or the source
// is down, so runs stay reproducible offline.
type MockConnector struct {
	sourceID string
	family   string
	fixtures []RawJob
}

// NewMockConnector builds a mock adapter over a fixture set.
func NewMockConnector(sourceID, family string, fixtures []RawJob) *MockConnector {
	return &MockConnector{sourceID: sourceID, family: family, fixtures: fixtures}
}

func (c *MockConnector) SourceID() string     { return c.sourceID }
func (c *MockConnector) SourceFamily() string { return c.family }
func (c *MockConnector) IsMock() bool         { return true }

// Fetch returns the fixture set unchanged. Queries do not filter mock data;
// determinism matters more than realism here.
func (c *MockConnector) Fetch(ctx context.Context, q Query) ([]RawJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]RawJob, len(c.fixtures))
	copy(out, c.fixtures)
	return out, nil
}

// mockPosted keeps mock data stable across runs.
var mockPosted = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

// NewMockAdzuna is the mock twin of the Adzuna adapter.
func NewMockAdzuna() *MockConnector {
	return NewMockConnector("adzuna", "adzuna", []RawJob{
		{
			Title:     "Senior QA Engineer",
			Company:   "Tech Solutions Pvt Ltd",
			Location:  "Bangalore, India",
			Excerpt:   "Looking for experienced QA engineer with automation skills. 5+ years experience required.",
			URL:       "https://www.adzuna.in/jobs/mock/1",
			Skills:    []string{"selenium", "python", "pytest", "api testing"},
			Seniority: "senior",
			Posted:    mockPosted,
		},
		{
			Title:     "QA Automation Engineer",
			Company:   "Startup India Inc",
			Location:  "Remote, India",
			Excerpt:   "Remote QA position with focus on test automation and CI/CD integration.",
			URL:       "https://www.adzuna.in/jobs/mock/2",
			Skills:    []string{"selenium", "jenkins", "python", "agile"},
			Seniority: "mid",
			Posted:    mockPosted.AddDate(0, 0, 3),
		},
		{
			Title:     "Quality Assurance Lead",
			Company:   "Big Corp Software",
			Location:  "Pune, India",
			Excerpt:   "Lead QA engineer to manage testing team and automation strategy.",
			URL:       "https://www.adzuna.in/jobs/mock/3",
			Skills:    []string{"leadership", "selenium", "test strategy", "agile"},
			Seniority: "senior",
			Posted:    mockPosted.AddDate(0, 0, 5),
		},
	})
}

// NewMockRSS is the mock twin of the RSS aggregator.
func NewMockRSS() *MockConnector {
	return NewMockConnector("rss", "rss", []RawJob{
		{
			Title:     "Software Test Engineer",
			Company:   "Indeed Tech Labs",
			Location:  "Bangalore, Karnataka",
			Excerpt:   "Manual and automated testing for enterprise applications.",
			URL:       "https://www.indeed.co.in/jobs/mock/1",
			Skills:    []string{"manual testing", "selenium", "java", "sql"},
			Seniority: "mid",
			Posted:    mockPosted,
		},
		{
			Title:     "QA Analyst",
			Company:   "Mobile First Company",
			Location:  "Hyderabad, Telangana",
			Excerpt:   "Mobile application testing across iOS and Android.",
			URL:       "https://www.indeed.co.in/jobs/mock/2",
			Skills:    []string{"mobile testing", "appium", "ios", "android"},
			Seniority: "mid",
			Posted:    mockPosted.AddDate(0, 0, 2),
		},
		{
			Title:     "Backend Developer",
			Company:   "Cloud Nine Systems",
			Location:  "Remote",
			Excerpt:   "Build and operate Go microservices on Kubernetes.",
			URL:       "https://www.indeed.co.in/jobs/mock/3",
			Skills:    []string{"go", "kubernetes", "postgresql", "docker"},
			Seniority: "senior",
			Posted:    mockPosted.AddDate(0, 0, 4),
		},
	})
}

// MockFor returns the deterministic mock twin for a real source, used by the
// aggregator when the real adapter degrades. Unknown sources get an empty
// fixture set.
func MockFor(sourceID, family string) *MockConnector {
	switch sourceID {
	case "adzuna":
		return NewMockAdzuna()
	case "rss":
		return NewMockRSS()
	}
	return NewMockConnector(sourceID, family, nil)
}
