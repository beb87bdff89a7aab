// Package match decides whether fetched bibliographic records describe the
// same title, publisher, and format as locally known records, and reduces
// accepted candidates to unique manifestations.
package match

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Record is a string-keyed bibliographic row. A missing key means the
// source had no value; empty strings are treated the same way.
type Record map[string]string

// FullTitle joins Title and Subtitle with a space, skipping absent or
// placeholder subtitles.
func (r Record) FullTitle() string {
	fullTitle := r["Title"]
	if subtitle, ok := r["Subtitle"]; ok && subtitle != "" && subtitle != "N/A" {
		fullTitle += " " + subtitle
	}
	slog.Debug("full title", "title", fullTitle)
	return fullTitle
}

// Unflatten explodes groups of numbered columns ("Prefix 1", "Prefix 2", …)
// into separate sub-records. Sources omit keys for absent values, so the
// numbering can have holes; every index up to the highest present is
// visited, and groups whose values are all empty are dropped.
func Unflatten(r Record, prefixes []string) []Record {
	maxIndex := 0
	for key := range r {
		for _, prefix := range prefixes {
			suffix, ok := strings.CutPrefix(key, prefix+" ")
			if !ok {
				continue
			}
			if num, err := strconv.Atoi(suffix); err == nil && num > maxIndex {
				maxIndex = num
			}
		}
	}

	var embedded []Record
	for num := 1; num <= maxIndex; num++ {
		group := Record{}
		nonEmpty := false
		for _, prefix := range prefixes {
			value := r[fmt.Sprintf("%s %d", prefix, num)]
			group[prefix] = value
			if value != "" {
				nonEmpty = true
			}
		}
		if nonEmpty {
			embedded = append(embedded, group)
		}
	}
	slog.Debug("unflattened records", "prefixes", prefixes, "count", len(embedded))
	return embedded
}

var parenContentPattern = regexp.MustCompile(`^\(([^(]+)\)`)

// PolishISBN reduces a raw ISBN field to its identifier: the first
// whitespace-delimited token.
func PolishISBN(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ExtraAtoms extracts qualifier content from an ISBN field: a leading
// parenthetical, or everything after the first token. Returns "" when
// there is nothing beyond the identifier itself.
func ExtraAtoms(s string) string {
	if m := parenContentPattern.FindStringSubmatch(s); m != nil {
		slog.Debug("extracted parenthetical atoms", "atoms", m[1])
		return m[1]
	}
	fields := strings.Fields(s)
	if len(fields) > 1 {
		return strings.Join(fields[1:], " ")
	}
	return ""
}
