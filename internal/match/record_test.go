package match

import (
	"reflect"
	"testing"
)

func TestFullTitle(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected string
	}{
		{
			name:     "title and subtitle",
			record:   Record{"Title": "The Hound", "Subtitle": "A Mystery"},
			expected: "The Hound A Mystery",
		},
		{
			name:     "no subtitle",
			record:   Record{"Title": "The Hound"},
			expected: "The Hound",
		},
		{
			name:     "placeholder subtitle skipped",
			record:   Record{"Title": "The Hound", "Subtitle": "N/A"},
			expected: "The Hound",
		},
		{
			name:     "empty subtitle skipped",
			record:   Record{"Title": "The Hound", "Subtitle": ""},
			expected: "The Hound",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.FullTitle(); got != tt.expected {
				t.Errorf("FullTitle() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUnflatten(t *testing.T) {
	record := Record{
		"ISBN a 1": "9780743273565 (hbk.)",
		"ISBN q 1": "hardcover",
		"ISBN a 2": "9780743273572",
		"ISBN q 2": "",
		"ISBN a 3": "",
		"ISBN q 3": "",
	}

	got := Unflatten(record, []string{"ISBN a", "ISBN q"})
	expected := []Record{
		{"ISBN a": "9780743273565 (hbk.)", "ISBN q": "hardcover"},
		{"ISBN a": "9780743273572", "ISBN q": ""},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Unflatten = %v, want %v", got, expected)
	}
}

func TestUnflattenSkipsGaps(t *testing.T) {
	// Sources omit keys for absent values, so numbering can have holes; a
	// gap must not hide the groups after it.
	record := Record{
		"Publisher 1": "Henry Holt",
		"Publisher 3": "Macmillan",
	}
	got := Unflatten(record, []string{"Publisher"})
	expected := []Record{
		{"Publisher": "Henry Holt"},
		{"Publisher": "Macmillan"},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Unflatten = %v, want %v", got, expected)
	}
}

func TestUnflattenMissingFirstGroup(t *testing.T) {
	// The first group being entirely absent must not hide later ones.
	record := Record{
		"ISBN a 2": "9780743273572",
		"ISBN q 2": "hardcover",
	}
	got := Unflatten(record, []string{"ISBN a", "ISBN q"})
	expected := []Record{
		{"ISBN a": "9780743273572", "ISBN q": "hardcover"},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Unflatten = %v, want %v", got, expected)
	}
}

func TestUnflattenNoGroups(t *testing.T) {
	if got := Unflatten(Record{"Title": "x"}, []string{"ISBN a"}); got != nil {
		t.Errorf("Unflatten = %v, want nil", got)
	}
}

func TestPolishISBN(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"9780743273565 (hbk.)", "9780743273565"},
		{"9780743273565", "9780743273565"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := PolishISBN(tt.input); got != tt.expected {
			t.Errorf("PolishISBN(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestExtraAtoms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"leading parenthetical", "(pbk. : alk. paper)", "pbk. : alk. paper"},
		{"trailing tokens", "9780743273565 (hbk.)", "(hbk.)"},
		{"identifier only", "9780743273565", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtraAtoms(tt.input); got != tt.expected {
				t.Errorf("ExtraAtoms(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
