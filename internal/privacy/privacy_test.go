package privacy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_Email(t *testing.T) {
	out := Sanitize("Contact: jane.doe+work@example.co.in for details")
	assert.Contains(t, out, "[EMAIL]")
	assert.NotContains(t, out, "jane.doe")
}

func TestSanitize_PhoneFormats(t *testing.T) {
	cases := []string{
		"Call +91 9876543210 anytime",
		"Phone: 987-654-3210",
		"Mobile 9876543210 listed",
	}
	for _, text := range cases {
		out := Sanitize(text)
		assert.Contains(t, out, "[PHONE]", "input %q", text)
		assert.NotContains(t, out, "9876543210", "input %q", text)
	}
}

func TestSanitize_Address(t *testing.T) {
	out := Sanitize("Lives at 42 MG Road, Bangalore")
	assert.Contains(t, out, "[ADDRESS]")
	assert.NotContains(t, out, "42 MG Road")
}

func TestSanitize_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", 6000)
	out := Sanitize(long)
	assert.True(t, strings.HasSuffix(out, "... [TRUNCATED]"))
	assert.Less(t, len(out), 6000)
}

func TestSanitize_Empty(t *testing.T) {
	assert.Equal(t, "", Sanitize(""))
}

func TestSanitize_PreservesPlainText(t *testing.T) {
	text := "Senior Software Engineer with 8 years of Go and Kubernetes experience"
	assert.Equal(t, text, Sanitize(text))
}

func TestContainsPII(t *testing.T) {
	assert.True(t, ContainsPII("reach me at foo@bar.com"))
	assert.True(t, ContainsPII("call 9876543210"))
	assert.False(t, ContainsPII("ten years of python"))
	assert.False(t, ContainsPII(Sanitize("reach me at foo@bar.com or 9876543210")))
}
