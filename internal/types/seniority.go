package types

import "strings"

// Seniority is an ordinal career level. Distances between levels drive the
// seniority component of match scoring.
type Seniority int

const (
	SeniorityUnknown Seniority = iota
	SeniorityEntry
	SeniorityJunior
	SeniorityMid
	SenioritySenior
	SeniorityLead
	SeniorityDirector
)

var seniorityNames = map[Seniority]string{
	SeniorityUnknown:  "",
	SeniorityEntry:    "entry",
	SeniorityJunior:   "junior",
	SeniorityMid:      "mid",
	SenioritySenior:   "senior",
	SeniorityLead:     "lead",
	SeniorityDirector: "director",
}

// String returns the lowercase level name, or the empty string for unknown.
func (s Seniority) String() string {
	return seniorityNames[s]
}

// Known reports whether the level carries an actual constraint.
func (s Seniority) Known() bool {
	return s > SeniorityUnknown && s <= SeniorityDirector
}

// Distance returns the absolute ordinal distance between two known levels.
func (s Seniority) Distance(other Seniority) int {
	d := int(s) - int(other)
	if d < 0 {
		d = -d
	}
	return d
}

// ParseSeniority maps a free-form level string onto the ordinal scale.
// Connector feeds use a coarser vocabulary ("manager", "principal", "staff"),
// so common aliases are folded in; unrecognized input maps to unknown.
func ParseSeniority(raw string) Seniority {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "entry", "entry level", "fresher", "intern", "graduate":
		return SeniorityEntry
	case "junior", "associate":
		return SeniorityJunior
	case "mid", "mid level", "mid-level", "intermediate":
		return SeniorityMid
	case "senior", "principal", "staff":
		return SenioritySenior
	case "lead", "team lead", "tech lead":
		return SeniorityLead
	case "director", "manager", "head", "vp", "chief":
		return SeniorityDirector
	}
	return SeniorityUnknown
}

// MarshalJSON encodes the level as its name.
func (s Seniority) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a level name, tolerating unknown values.
func (s *Seniority) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	*s = ParseSeniority(raw)
	return nil
}
