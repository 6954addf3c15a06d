package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// commonSkills is the vocabulary the rule-based extractor scans for.
// Matching is substring-based on lowered text, which is crude but
// deterministic and dependency-free.
var commonSkills = []string{
	"python", "java", "javascript", "typescript", "go", "golang", "react", "angular", "vue",
	"node.js", "nodejs", "express", "fastapi", "flask", "django", "spring",
	"sql", "postgresql", "postgres", "mysql", "mongodb", "redis",
	"aws", "azure", "gcp", "docker", "kubernetes", "k8s", "terraform",
	"git", "jenkins", "ci/cd", "devops",
	"machine learning", "data science",
	"selenium", "pytest", "jest", "appium", "test automation", "manual testing",
	"rest", "graphql", "grpc", "microservices",
	"html", "css", "tailwind",
	"agile", "scrum", "jira",
}

var knownLocations = []string{
	"bangalore", "bengaluru", "mumbai", "delhi", "pune", "hyderabad",
	"chennai", "kolkata", "ahmedabad", "gurgaon", "noida", "remote",
}

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)[\s\w]*(?:experience|exp)`),
	regexp.MustCompile(`(?i)experience.*?(\d+)\+?\s*(?:years?|yrs?)`),
	regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)\s+in`),
}

var rolePattern = regexp.MustCompile(`(?i)(?:software|qa|test|quality|backend|frontend|data|devops)\s+(?:engineer|developer|analyst|tester|scientist)`)

const maxExperienceYears = 50

// RuleBasedExtractor pulls entities with keyword tables and regular
// expressions. It is the default extractor: zero dependencies, bit-identical
// output for identical input.
type RuleBasedExtractor struct{}

// NewRuleBasedExtractor builds the deterministic extractor.
func NewRuleBasedExtractor() *RuleBasedExtractor {
	return &RuleBasedExtractor{}
}

// Extract scans the text for known skills, experience statements, locations,
// and a role line. It never fails on well-formed text.
func (e *RuleBasedExtractor) Extract(ctx context.Context, text string) (*Entities, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lower := strings.ToLower(text)

	entities := &Entities{
		Skills:          matchSkills(lower),
		ExperienceYears: matchExperienceYears(text),
		Locations:       matchLocations(lower),
		CurrentRole:     matchRole(text),
	}
	return entities, nil
}

func matchSkills(lower string) []string {
	var found []string
	for _, skill := range commonSkills {
		if containsToken(lower, skill) {
			found = append(found, skill)
		}
	}
	return found
}

// containsToken does word-boundary matching so "go" does not fire on
// "google" and "java" does not fire inside "javascript".
func containsToken(lower, token string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], token)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(token)
		beforeOK := start == 0 || !isWordChar(lower[start-1])
		afterOK := end == len(lower) || !isWordChar(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '.' || c == '+' || c == '#'
}

func matchExperienceYears(text string) *int {
	for _, pattern := range experiencePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		years, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if years > maxExperienceYears {
			years = maxExperienceYears
		}
		return &years
	}
	return nil
}

func matchLocations(lower string) []string {
	var found []string
	for _, loc := range knownLocations {
		if strings.Contains(lower, loc) {
			found = append(found, titleCase(loc))
		}
	}
	if strings.Contains(lower, "work from home") && !contains(found, "Remote") {
		found = append(found, "Remote")
	}
	if len(found) > 5 {
		found = found[:5]
	}
	return found
}

func matchRole(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if m := rolePattern.FindString(line); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
