package match

import (
	"testing"

	"github.com/umich-library-it/bookmatch/internal/format"
)

func newTestPipeline() *Pipeline {
	return NewPipeline(85, format.NewClassifier(format.FirstMatchWins))
}

func TestCheckCandidates(t *testing.T) {
	known := Record{
		"ID":          "heb00001",
		"Title":       "The hound of the Baskervilles",
		"Publisher 1": "University of MI Press",
	}

	candidates := []Record{
		{
			"Title":     "HOUND OF THE BASKERVILLES.",
			"Publisher": "Univ. of Michigan Press",
		},
		{
			"Title":     "A study in scarlet",
			"Publisher": "Univ. of Michigan Press",
		},
		{
			"Title":     "HOUND OF THE BASKERVILLES.",
			"Publisher": "Random House",
		},
	}

	accepted := newTestPipeline().CheckCandidates(known, candidates)
	if len(accepted) != 1 {
		t.Fatalf("accepted %d candidates, want 1", len(accepted))
	}
	if accepted[0]["Publisher"] != "Univ. of Michigan Press" {
		t.Errorf("accepted wrong candidate: %v", accepted[0])
	}
}

func TestCheckCandidatesEmptyInput(t *testing.T) {
	known := Record{"Title": "The Hound", "Publisher 1": "Holt"}
	if got := newTestPipeline().CheckCandidates(known, nil); got != nil {
		t.Errorf("CheckCandidates(nil) = %v, want nil", got)
	}
}

func TestCheckCandidatesSkipsIncomplete(t *testing.T) {
	known := Record{
		"Title":       "The hound of the Baskervilles",
		"Publisher 1": "University of MI Press",
	}
	candidates := []Record{
		{"Title": "The hound of the Baskervilles"}, // no publisher
		{"Publisher": "Univ. of Michigan Press"},   // no title
	}
	if got := newTestPipeline().CheckCandidates(known, candidates); len(got) != 0 {
		t.Errorf("accepted %d incomplete candidates, want 0", len(got))
	}
}

func TestUniqueManifestations(t *testing.T) {
	known := Record{"ID": "heb00001", "Title": "The Hound"}
	accepted := []Record{
		{
			"Publisher": "Univ. of Michigan Press",
			"ISBN a 1":  "9780472000001 (hbk.)",
			"ISBN q 1":  "",
			"ISBN a 2":  "9780472000002",
			"ISBN q 2":  "electronic bk.",
		},
		{
			// Duplicate (ISBN, format) pair from a second record.
			"Publisher": "University of Michigan Press",
			"ISBN a 1":  "9780472000001",
			"ISBN q 1":  "hardcover",
		},
	}

	manifestations := newTestPipeline().UniqueManifestations(known, accepted)
	if len(manifestations) != 2 {
		t.Fatalf("got %d manifestations, want 2: %v", len(manifestations), manifestations)
	}

	first := manifestations[0]
	if first.ISBN != "9780472000001" || first.Format != format.Hardcover {
		t.Errorf("first manifestation = %+v, want hardcover 9780472000001", first)
	}
	if first.BookID != "heb00001" || first.Source != "WorldCat" {
		t.Errorf("first manifestation provenance = %+v", first)
	}

	second := manifestations[1]
	if second.ISBN != "9780472000002" || second.Format != format.Ebook {
		t.Errorf("second manifestation = %+v, want ebook 9780472000002", second)
	}
}

func TestUniqueManifestationsUnnumberedISBN(t *testing.T) {
	known := Record{"ID": "heb00002", "Title": "The Hound"}
	accepted := []Record{
		{
			"Publisher": "Holt",
			"ISBN a":    "9780805000001 (pbk.)",
			"ISBN q":    "",
		},
	}

	manifestations := newTestPipeline().UniqueManifestations(known, accepted)
	if len(manifestations) != 1 {
		t.Fatalf("got %d manifestations, want 1", len(manifestations))
	}
	if manifestations[0].Format != format.Paperback {
		t.Errorf("format = %q, want Paperback", manifestations[0].Format)
	}
}

func TestUniqueManifestationsFirstGroupWithoutIdentifier(t *testing.T) {
	// A first 020 statement carrying only a qualifier must not hide the
	// valid ISBN in the second statement.
	known := Record{"ID": "heb00004", "Title": "The Hound"}
	accepted := []Record{
		{
			"Publisher": "Holt",
			"ISBN q 1":  "pbk.",
			"ISBN a 2":  "9780805000009 (hbk.)",
		},
	}

	manifestations := newTestPipeline().UniqueManifestations(known, accepted)
	if len(manifestations) != 1 {
		t.Fatalf("got %d manifestations, want 1", len(manifestations))
	}
	if manifestations[0].ISBN != "9780805000009" || manifestations[0].Format != format.Hardcover {
		t.Errorf("manifestation = %+v, want hardcover 9780805000009", manifestations[0])
	}
}

func TestUniqueManifestationsSkipsFormatless(t *testing.T) {
	known := Record{"ID": "heb00003", "Title": "The Hound"}
	accepted := []Record{
		{"Publisher": "Holt", "ISBN a 1": "9780805000002", "ISBN q 1": ""},
	}

	if got := newTestPipeline().UniqueManifestations(known, accepted); len(got) != 0 {
		t.Errorf("got %d manifestations for formatless ISBN, want 0", len(got))
	}
}

func TestResolveFormatConflict(t *testing.T) {
	p := newTestPipeline()

	if got := p.resolveFormat("hardcover", "(pbk.)"); got != format.Unknown {
		t.Errorf("conflicting formats resolved to %q, want Unknown", got)
	}
	if got := p.resolveFormat("hardcover", "(hbk.)"); got != format.Hardcover {
		t.Errorf("agreeing formats resolved to %q, want Hardcover", got)
	}
	if got := p.resolveFormat("", "(pbk.)"); got != format.Paperback {
		t.Errorf("overflow-only format resolved to %q, want Paperback", got)
	}
}

func TestClassifyOutcome(t *testing.T) {
	if got := Classify(nil); got != Unmatched {
		t.Errorf("Classify(nil) = %v, want Unmatched", got)
	}

	one := []Manifestation{
		{ISBN: "9780472000001", Format: format.Hardcover},
		{ISBN: "9780472000001", Format: format.Ebook},
	}
	if got := Classify(one); got != Matched {
		t.Errorf("Classify(one ISBN, two formats) = %v, want Matched", got)
	}

	two := append(one, Manifestation{ISBN: "9780472000002", Format: format.Paperback})
	if got := Classify(two); got != Ambiguous {
		t.Errorf("Classify(two ISBNs) = %v, want Ambiguous", got)
	}
}
