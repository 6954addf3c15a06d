package skills

// Importance weights for scoring. Critical skills count more toward the
// skill overlap than generic ones; anything not listed gets weightDefault.
const (
	weightGeneric = 0.5
	weightDefault = 1.0
)

// genericSkills are broad process or tooling tokens that say little about
// fit on their own.
var genericSkills = map[string]bool{
	"agile":         true,
	"scrum":         true,
	"jira":          true,
	"git":           true,
	"communication": true,
	"teamwork":      true,
	"leadership":    true,
	"testing":       true,
	"documentation": true,
	"rest":          true,
	"api":           true,
}

// Importance returns the scoring weight for a canonical skill.
func Importance(canonical string) float64 {
	if genericSkills[canonical] {
		return weightGeneric
	}
	return weightDefault
}

// WeightedSize sums the importance of a canonical skill set.
func WeightedSize(canonical []string) float64 {
	total := 0.0
	for _, s := range canonical {
		total += Importance(s)
	}
	return total
}
