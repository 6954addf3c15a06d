package resume

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dejayillegal/JobFinder-Pro/internal/extract"
	"github.com/dejayillegal/JobFinder-Pro/internal/skills"
	"github.com/dejayillegal/JobFinder-Pro/internal/types"
)

const sampleResumeText = `Priya S
Senior Software Engineer at Example Labs
Email: priya@example.com | Phone: 9876543210

8 years of experience building backend services.
Skills: Golang, Python, PostgreSQL, Docker, k8s
Based in Bangalore.
`

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	return NewPipeline(extract.NewRuleBasedExtractor(), skills.NewCanonicalizer(), zap.NewNop())
}

func TestParse_PlainText(t *testing.T) {
	p := newTestPipeline(t)

	profile, err := p.Parse(context.Background(), []byte(sampleResumeText), MimeText)
	require.NoError(t, err)

	assert.Len(t, profile.Version, 16)
	assert.Equal(t, types.SenioritySenior, profile.Seniority)
	assert.Equal(t, 8, profile.ExperienceYears)
	assert.Equal(t, "Bangalore", profile.LocationPreference)
	assert.Equal(t, "Software Engineer", profile.CurrentRole)

	// Skills come back canonical and sorted.
	assert.Contains(t, profile.Skills, "go")
	assert.Contains(t, profile.Skills, "kubernetes")
	assert.Contains(t, profile.Skills, "postgresql")
	assert.IsIncreasing(t, profile.Skills)
}

func TestParse_VersionIsContentHash(t *testing.T) {
	p := newTestPipeline(t)

	first, err := p.Parse(context.Background(), []byte(sampleResumeText), MimeText)
	require.NoError(t, err)
	second, err := p.Parse(context.Background(), []byte(sampleResumeText), MimeText)
	require.NoError(t, err)

	assert.Equal(t, first.Version, second.Version)
	assert.NotEqual(t, first.ID, second.ID)

	changed, err := p.Parse(context.Background(), []byte(sampleResumeText+"\nAlso: Terraform"), MimeText)
	require.NoError(t, err)
	assert.NotEqual(t, first.Version, changed.Version)
}

func TestParse_UnsupportedMimeType(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Parse(context.Background(), []byte("content"), "image/png")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "image/png", parseErr.MimeType)
	assert.Contains(t, parseErr.Error(), "unsupported document type")
}

func TestParse_EmptyDocument(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Parse(context.Background(), nil, MimeText)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "empty document")
}

func TestParse_WhitespaceOnlyDocument(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Parse(context.Background(), []byte("   \n\n  "), MimeText)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "no text")
}

func TestParse_CorruptPDF(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Parse(context.Background(), []byte("not a pdf at all"), MimePDF)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, MimePDF, parseErr.MimeType)
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestParse_DOCX(t *testing.T) {
	p := newTestPipeline(t)
	doc := buildDOCX(t, `<w:document><w:body>`+
		`<w:p><w:r><w:t>Senior QA Engineer</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>6 years of experience with Selenium and Python</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	profile, err := p.Parse(context.Background(), doc, MimeDOCX)
	require.NoError(t, err)

	assert.Equal(t, types.SenioritySenior, profile.Seniority)
	assert.Equal(t, 6, profile.ExperienceYears)
	assert.Contains(t, profile.Skills, "selenium")
	assert.Contains(t, profile.Skills, "python")
}

func TestParse_DOCXMissingDocumentXML(t *testing.T) {
	p := newTestPipeline(t)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/other.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<doc/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = p.Parse(context.Background(), buf.Bytes(), MimeDOCX)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "document.xml")
}

func TestParse_SanitizesBeforeExtraction(t *testing.T) {
	p := newTestPipeline(t)

	// The phone digits would otherwise read as an experience statement.
	profile, err := p.Parse(context.Background(),
		[]byte("Software Engineer\nskills: python\ncall 9876543210 years experience"), MimeText)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.ExperienceYears)
}

func TestInferSeniority_KeywordsWinOverYears(t *testing.T) {
	years := 2
	assert.Equal(t, types.SeniorityDirector, inferSeniority("Engineering Director with experience", &years))
	assert.Equal(t, types.SenioritySenior, inferSeniority("Senior developer", &years))
}

func TestInferSeniority_YearThresholds(t *testing.T) {
	cases := []struct {
		years    int
		expected types.Seniority
	}{
		{0, types.SeniorityEntry},
		{1, types.SeniorityJunior},
		{3, types.SeniorityMid},
		{7, types.SenioritySenior},
		{12, types.SeniorityLead},
		{20, types.SeniorityDirector},
	}
	for _, tc := range cases {
		y := tc.years
		assert.Equal(t, tc.expected, inferSeniority("plain resume text", &y), "%d years", tc.years)
	}
}

func TestInferSeniority_NoSignal(t *testing.T) {
	assert.Equal(t, types.SeniorityMid, inferSeniority("plain resume text", nil))
}

func TestCleanText(t *testing.T) {
	in := "Line  one\r\nLine\ttwo\r\r\n\n\n\nLine three here"
	out := cleanText(in)
	assert.Equal(t, "Line one\nLine two\n\nLine three here", out)
}
