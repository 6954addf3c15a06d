// Package skills provides the canonical skill vocabulary: synonym resolution
// for raw skill tokens and the importance weights used by match scoring.
package skills

import (
	"fmt"
	"strings"
	"unicode"
)

// defaultSynonyms maps common skill spelling variants to canonical tokens.
// Canonical tokens are always lowercase.
var defaultSynonyms = map[string]string{
	"golang":     "go",
	"go lang":    "go",
	"js":         "javascript",
	"ecmascript": "javascript",
	"ts":         "typescript",
	"reactjs":    "react",
	"react.js":   "react",
	"vuejs":      "vue",
	"vue.js":     "vue",
	"node":       "node.js",
	"nodejs":     "node.js",
	"k8s":        "kubernetes",
	"postgres":   "postgresql",
	"psql":       "postgresql",
	"amazon web services": "aws",
	"google cloud":        "gcp",
	"google cloud platform": "gcp",
	"ms sql":       "sql server",
	"mssql":        "sql server",
	"ci cd":        "ci/cd",
	"cicd":         "ci/cd",
	"ml":           "machine learning",
	"scrum master": "scrum",
	"restful":      "rest",
	"rest api":     "rest",
	"rest apis":    "rest",
	"qa automation":   "test automation",
	"automation test": "test automation",
}

// Canonicalizer resolves raw skill tokens to a canonical vocabulary.
// It is pure and safe for concurrent use after construction.
type Canonicalizer struct {
	synonyms map[string]string
}

// NewCanonicalizer builds a canonicalizer from the default synonym table.
func NewCanonicalizer() *Canonicalizer {
	c, err := NewCanonicalizerWithSynonyms(defaultSynonyms)
	if err != nil {
		// The default table is static; a collision in it is a programming
		// error, not a runtime condition.
		panic(err)
	}
	return c
}

// NewCanonicalizerWithSynonyms builds a canonicalizer from a custom synonym
// table. Two synonym keys resolving to each other, or a canonical value that
// is itself remapped elsewhere, would make canonicalization ambiguous; that
// is reported as a configuration error.
func NewCanonicalizerWithSynonyms(synonyms map[string]string) (*Canonicalizer, error) {
	table := make(map[string]string, len(synonyms))
	for raw, canonical := range synonyms {
		key := foldToken(raw)
		value := foldToken(canonical)
		if key == "" || value == "" {
			return nil, fmt.Errorf("skills: empty synonym entry %q -> %q", raw, canonical)
		}
		if target, ok := synonyms[value]; ok && foldToken(target) != value {
			return nil, fmt.Errorf("skills: synonym chain %q -> %q -> %q", key, value, foldToken(target))
		}
		if existing, ok := table[key]; ok && existing != value {
			return nil, fmt.Errorf("skills: synonym collision on %q: %q vs %q", key, existing, value)
		}
		table[key] = value
	}
	return &Canonicalizer{synonyms: table}, nil
}

// Canonicalize maps a raw skill token to its canonical form. Matching is
// case-insensitive and ignores surrounding punctuation; unknown tokens pass
// through lowercased and trimmed.
func (c *Canonicalizer) Canonicalize(raw string) string {
	token := foldToken(raw)
	if token == "" {
		return ""
	}
	if canonical, ok := c.synonyms[token]; ok {
		return canonical
	}
	return token
}

// CanonicalizeAll canonicalizes a token list, dropping empties and
// duplicates while preserving first-seen order.
func (c *Canonicalizer) CanonicalizeAll(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, token := range raw {
		canonical := c.Canonicalize(token)
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		out = append(out, canonical)
	}
	return out
}

// foldToken lowercases and trims a token, stripping surrounding punctuation
// but keeping interior characters that distinguish skills ("c++", "c#",
// "node.js", "ci/cd").
func foldToken(raw string) string {
	token := strings.ToLower(strings.TrimSpace(raw))
	token = strings.TrimFunc(token, func(r rune) bool {
		if r == '+' || r == '#' {
			return false // "c++", "c#" end in punctuation worth keeping
		}
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	return strings.Join(strings.Fields(token), " ")
}
