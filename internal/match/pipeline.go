package match

import (
	"log/slog"

	"github.com/umich-library-it/bookmatch/internal/format"
	"github.com/umich-library-it/bookmatch/internal/fuzzy"
	"github.com/umich-library-it/bookmatch/internal/textnorm"
)

// Manifestation is one accepted (ISBN, format) edition of a known book.
type Manifestation struct {
	BookID    string
	BookTitle string
	ISBN      string
	Format    format.Label
	Publisher string
	Source    string
}

// Outcome buckets the result of resolving one known record, routed to the
// matched, needs-review, or unmatched output.
type Outcome int

const (
	Unmatched Outcome = iota
	Matched
	// Ambiguous means the record matched manifestations with more than one
	// unique ISBN and needs human review.
	Ambiguous
)

// Pipeline runs the per-record comparison and classification passes.
type Pipeline struct {
	threshold  int
	classifier *format.Classifier
}

// NewPipeline returns a pipeline using the given similarity threshold for
// both the title and publisher comparators.
func NewPipeline(threshold int, classifier *format.Classifier) *Pipeline {
	return &Pipeline{threshold: threshold, classifier: classifier}
}

// CheckCandidates returns the fetched candidates whose full title and
// publisher both clear the similarity threshold against the known record.
func (p *Pipeline) CheckCandidates(known Record, candidates []Record) []Record {
	if len(candidates) == 0 {
		return nil
	}

	titleCmp := fuzzy.NewComparator([]string{known.FullTitle()}, p.threshold, nil)

	var knownPublishers []string
	for _, pub := range Unflatten(known, []string{"Publisher"}) {
		if pub["Publisher"] != "" {
			knownPublishers = append(knownPublishers, pub["Publisher"])
		}
	}
	publisherCmp := fuzzy.NewComparator(knownPublishers, p.threshold,
		[]fuzzy.Transform{textnorm.NormalizeInstitution})

	var accepted []Record
	for _, candidate := range candidates {
		fullTitle := candidate.FullTitle()
		publisher := candidatePublisher(candidate)
		if fullTitle == "" || publisher == "" {
			continue
		}

		titleMatch := titleCmp.Match(fullTitle)
		publisherMatch := publisherCmp.Match(publisher)
		slog.Debug("candidate comparison",
			"title", candidate["Title"], "publisher", publisher,
			"title_match", titleMatch, "publisher_match", publisherMatch)

		if titleMatch && publisherMatch {
			accepted = append(accepted, candidate)
		}
	}

	slog.Info("Matched records", "count", len(accepted), "candidates", len(candidates))
	return accepted
}

// candidatePublisher resolves a candidate's publisher: the plain Publisher
// column when present, otherwise the first of a numbered group.
func candidatePublisher(candidate Record) string {
	if publisher, ok := candidate["Publisher"]; ok {
		return publisher
	}
	publishers := Unflatten(candidate, []string{"Publisher"})
	if len(publishers) == 0 {
		return ""
	}
	if len(publishers) > 1 {
		slog.Warn("Multiple publishers on candidate", "count", len(publishers))
	}
	return publishers[0]["Publisher"]
}

// UniqueManifestations explodes accepted candidates into their ISBN
// variants, classifies each variant's physical format, and reduces the set
// to unique (ISBN, format) pairs in first-seen order.
func (p *Pipeline) UniqueManifestations(known Record, accepted []Record) []Manifestation {
	type isbnFormat struct {
		isbn   string
		format format.Label
	}
	seen := make(map[isbnFormat]struct{})

	var manifestations []Manifestation
	for _, candidate := range accepted {
		publisher := candidatePublisher(candidate)

		for _, group := range isbnGroups(candidate) {
			isbn := PolishISBN(group["ISBN a"])
			if isbn == "" {
				continue
			}

			label := p.resolveFormat(group["ISBN q"], ExtraAtoms(group["ISBN a"]))
			if label == format.Unknown {
				slog.Debug("skipping ISBN without format", "isbn", isbn)
				continue
			}

			key := isbnFormat{isbn, label}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			manifestations = append(manifestations, Manifestation{
				BookID:    known["ID"],
				BookTitle: known["Title"],
				ISBN:      isbn,
				Format:    label,
				Publisher: publisher,
				Source:    "WorldCat",
			})
		}
	}

	slog.Info("Unique manifestations", "count", len(manifestations))
	return manifestations
}

// isbnGroups returns the candidate's ISBN a/q pairs. Numbered groups take
// precedence; a record with a single unnumbered ISBN statement yields one
// group.
func isbnGroups(candidate Record) []Record {
	groups := Unflatten(candidate, []string{"ISBN a", "ISBN q"})
	if len(groups) > 0 {
		return groups
	}
	if isbn, ok := candidate["ISBN a"]; ok && isbn != "" {
		return []Record{{"ISBN a": isbn, "ISBN q": candidate["ISBN q"]}}
	}
	return nil
}

// resolveFormat reconciles the classification of the ISBN qualifier with
// that of any overflow atoms trailing the identifier. Disagreement between
// the two is logged and yields Unknown.
func (p *Pipeline) resolveFormat(qualifier, overflow string) format.Label {
	qFormat := format.Unknown
	if qualifier != "" {
		qFormat = p.classifier.Classify(qualifier)
	}
	oFormat := format.Unknown
	if overflow != "" {
		oFormat = p.classifier.Classify(overflow)
	}

	switch {
	case qFormat == format.Unknown:
		return oFormat
	case oFormat == format.Unknown || oFormat == qFormat:
		return qFormat
	}

	slog.Warn("Different formats were found", "qualifier", qFormat, "overflow", oFormat)
	return format.Unknown
}

// Classify routes a known record's manifestations to an outcome: zero
// accepted ISBNs is unmatched, more than one unique ISBN needs review,
// exactly one is a clean match.
func Classify(manifestations []Manifestation) Outcome {
	unique := make(map[string]struct{})
	for _, m := range manifestations {
		unique[m.ISBN] = struct{}{}
	}
	switch len(unique) {
	case 0:
		return Unmatched
	case 1:
		return Matched
	}
	return Ambiguous
}
