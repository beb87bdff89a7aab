// Package format maps free-text physical-description strings onto a closed
// set of manifestation format labels.
package format

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/umich-library-it/bookmatch/internal/textnorm"
)

// Label is one of the closed set of physical formats a description can
// classify to. The zero value is Unknown.
type Label string

const (
	Unknown   Label = ""
	Hardcover Label = "Hardcover"
	Paperback Label = "Paperback"
	Ebook     Label = "Ebook"
)

// TieBreak selects how Classify resolves a description matching more than
// one format family.
type TieBreak int

const (
	// FirstMatchWins returns the first matching family in declared order.
	// Deterministic but not necessarily semantically correct; it is the
	// default for parity with previously labeled data.
	FirstMatchWins TieBreak = iota
	// RejectAmbiguous returns Unknown when more than one family matches.
	RejectAmbiguous
	// ReturnAllCandidates makes Classify behave like FirstMatchWins; callers
	// that want every matching family use ClassifyAll.
	ReturnAllCandidates
)

// ParseTieBreak maps a configuration string onto a TieBreak variant.
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first-match-wins":
		return FirstMatchWins, nil
	case "reject-ambiguous":
		return RejectAmbiguous, nil
	case "return-all-candidates":
		return ReturnAllCandidates, nil
	}
	return FirstMatchWins, fmt.Errorf("unknown tie-break policy: %q", s)
}

// family pairs a label with its whole-word description patterns. Families
// are checked in declaration order; that order is the FirstMatchWins
// tie-break order.
type family struct {
	label    Label
	patterns []*regexp.Regexp
}

var families = []family{
	{Hardcover, []*regexp.Regexp{
		regexp.MustCompile(`\bhard[ -]?cover\b`),
		regexp.MustCompile(`\bhbk?\b`),
		regexp.MustCompile(`\bhcr?\b`),
	}},
	{Paperback, []*regexp.Regexp{
		regexp.MustCompile(`\bpaper[ -]?back\b`),
		regexp.MustCompile(`\bpbk?\b`),
	}},
	{Ebook, []*regexp.Regexp{
		regexp.MustCompile(`\be[- ]?book\b`),
		regexp.MustCompile(`electronic`),
		regexp.MustCompile(`\bebk?\b`),
	}},
}

// Classifier applies the format families under a configured tie-break
// policy.
type Classifier struct {
	tieBreak TieBreak
}

// NewClassifier returns a classifier using the given tie-break policy.
func NewClassifier(tieBreak TieBreak) *Classifier {
	return &Classifier{tieBreak: tieBreak}
}

// ClassifyAll returns every format family with at least one matching
// pattern, in declaration order. The input is normalized before matching.
func (c *Classifier) ClassifyAll(s string) []Label {
	normalized := textnorm.Normalize(s)

	var matches []Label
	for _, fam := range families {
		for _, pattern := range fam.patterns {
			if pattern.MatchString(normalized) {
				matches = append(matches, fam.label)
				break
			}
		}
	}
	return matches
}

// Classify returns exactly one label for a description, or Unknown. An
// input matching more than one family is a logged anomaly resolved by the
// tie-break policy, never an error.
func (c *Classifier) Classify(s string) Label {
	matches := c.ClassifyAll(s)

	switch len(matches) {
	case 0:
		return Unknown
	case 1:
		return matches[0]
	}

	slog.Error("matched multiple formats", "input", s, "formats", matches)
	if c.tieBreak == RejectAmbiguous {
		return Unknown
	}
	return matches[0]
}
