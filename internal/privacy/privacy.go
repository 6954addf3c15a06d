// Package privacy scrubs personally identifiable information from text
// before it travels downstream. The parsing pipeline never persists raw
// resume text; anything retained passes through Sanitize first.
package privacy

import "regexp"

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{9,10}\b`),
		regexp.MustCompile(`\b\d{3}[-.\s]\d{3}[-.\s]\d{4}\b`),
		regexp.MustCompile(`\b\d{10}\b`),
	}

	addressPattern = regexp.MustCompile(`\d+\s+[A-Za-z\s]+(?:Street|St|Avenue|Ave|Road|Rd|Lane|Ln)\b`)
)

const maxSanitizedLength = 5000

// Sanitize replaces emails, phone numbers, and street addresses with
// placeholder tokens and truncates overly long text.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	text = emailPattern.ReplaceAllString(text, "[EMAIL]")
	for _, p := range phonePatterns {
		text = p.ReplaceAllString(text, "[PHONE]")
	}
	text = addressPattern.ReplaceAllString(text, "[ADDRESS]")

	if len(text) > maxSanitizedLength {
		text = text[:maxSanitizedLength] + "... [TRUNCATED]"
	}
	return text
}

// ContainsPII reports whether text still carries an email or phone number.
// The parsing pipeline uses it as a guard after sanitization.
func ContainsPII(text string) bool {
	if emailPattern.MatchString(text) {
		return true
	}
	for _, p := range phonePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
