package fuzzy

import (
	"log/slog"
	"unicode/utf8"

	"github.com/umich-library-it/bookmatch/internal/textnorm"
)

// Transform is a string canonicalization step applied after Normalize,
// e.g. textnorm.NormalizeInstitution for publisher fields.
type Transform func(string) string

// reference holds one left-hand string with its derived forms, computed once
// at construction since many candidates are tested against the same set.
type reference struct {
	raw        string
	tokens     []string
	normalized string
}

// Comparator tests candidate strings against a fixed reference set at a
// fixed similarity threshold.
type Comparator struct {
	refs       []reference
	threshold  int
	transforms []Transform
}

// NewComparator builds a comparator from one or more reference strings.
// threshold is in [0, 100]. transforms are applied in order to the
// normalized form of both references and candidates; pass nil for none.
func NewComparator(refs []string, threshold int, transforms []Transform) *Comparator {
	c := &Comparator{
		threshold:  threshold,
		transforms: transforms,
		refs:       make([]reference, 0, len(refs)),
	}
	for _, raw := range refs {
		normalized := textnorm.Normalize(raw)
		for _, transform := range transforms {
			normalized = transform(normalized)
		}
		c.refs = append(c.refs, reference{
			raw:        raw,
			tokens:     textnorm.Tokenize(raw),
			normalized: normalized,
		})
	}
	return c
}

// Match reports whether the candidate is similar enough to any reference.
// The full-string ratio is tried first; when it falls short, a partial
// (substring-alignment) ratio is tried, gated on token-count difference < 3
// and reference length > 4 to avoid false positives on very short or
// structurally dissimilar strings.
func (c *Comparator) Match(candidate string) bool {
	normalized := textnorm.Normalize(candidate)
	for _, transform := range c.transforms {
		normalized = transform(normalized)
	}
	candidateTokens := textnorm.Tokenize(candidate)

	for _, ref := range c.refs {
		full := Ratio(ref.normalized, normalized)
		slog.Debug("full ratio", "reference", ref.normalized, "candidate", normalized, "score", full)
		if full >= c.threshold {
			slog.Debug("full ratio met threshold", "score", full, "threshold", c.threshold)
			return true
		}

		// This won't catch one-word publishers (e.g. Holt) when the
		// alternative representation has multiple words.
		tokenDiff := len(ref.tokens) - len(candidateTokens)
		if tokenDiff < 0 {
			tokenDiff = -tokenDiff
		}
		if tokenDiff < 3 && utf8.RuneCountInString(ref.raw) > 4 {
			partial := PartialRatio(ref.normalized, normalized)
			slog.Debug("partial ratio", "reference", ref.normalized, "candidate", normalized, "score", partial)
			if partial >= c.threshold {
				slog.Warn("partial ratio met threshold",
					"reference", ref.normalized, "candidate", normalized,
					"score", partial, "threshold", c.threshold)
				return true
			}
		}
	}

	slog.Debug("no ratio met threshold", "candidate", normalized, "threshold", c.threshold)
	return false
}
