// Package textnorm canonicalizes free-text bibliographic strings so that
// noisy variants of the same title or publisher compare equal.
package textnorm

import (
	"log/slog"
	"regexp"
	"strings"
)

var (
	wsPattern   = regexp.MustCompile(`\s+`)
	puncPattern = regexp.MustCompile(`[,.#:]`)
	naPattern   = regexp.MustCompile(`(?i)\b<?n\.?a\.?>?\b`)

	// Publisher abbreviation patterns. "up" must run before "univ" so that
	// "Oxford UP" expands to "university press" rather than partially.
	upPattern   = regexp.MustCompile(`(?i)\bup\b`)
	uOfPattern  = regexp.MustCompile(`(?i)\bu of\b`)
	univPattern = regexp.MustCompile(`(?i)\buniv\b`)
)

// Normalize strips the punctuation set {, . # :}, replaces ampersands with
// "and", and lowercases. Whitespace is left alone. Idempotent.
func Normalize(s string) string {
	normalized := strings.ToLower(strings.ReplaceAll(puncPattern.ReplaceAllString(s, ""), "&", "and"))
	slog.Debug("normalize", "input", s, "output", normalized)
	return normalized
}

// NormalizeInstitution expands common university-press abbreviations as
// whole words: "up" -> "university press", "u of" -> "university of",
// "univ" -> "university".
//
// Callers that want full canonicalization compose this with Normalize,
// running Normalize first: stripping the period out of "U. of" is what
// lets the two-word "u of" pattern fire.
func NormalizeInstitution(s string) string {
	normalized := univPattern.ReplaceAllString(
		uOfPattern.ReplaceAllString(
			upPattern.ReplaceAllString(s, "university press"), "university of"), "university")
	slog.Debug("normalize institution", "input", s, "output", normalized)
	return normalized
}

// Tokenize splits on runs of whitespace. Used for token-count heuristics
// during fuzzy comparison, not for semantic matching.
func Tokenize(s string) []string {
	tokens := wsPattern.Split(s, -1)
	slog.Debug("tokenize", "input", s, "tokens", tokens)
	return tokens
}

// IsNA reports whether a field value is one of the "n.a." / "<N.A.>" style
// placeholders that upstream records use for missing data.
func IsNA(s string) bool {
	return naPattern.MatchString(s)
}
