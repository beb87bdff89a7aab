// Package report writes the categorized result sets of a matching run and
// its summary.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/umich-library-it/bookmatch/internal/match"
	"gopkg.in/yaml.v3"
)

var manifestationColumns = []string{"Book_ID", "Book_Title", "ISBN", "Format", "Publisher", "Source"}

// WriteManifestations writes accepted manifestations as CSV, preserving
// first-seen order.
func WriteManifestations(path string, manifestations []match.Manifestation) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(manifestationColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, m := range manifestations {
		row := []string{m.BookID, m.BookTitle, m.ISBN, string(m.Format), m.Publisher, m.Source}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRecords writes known records as CSV using the input's column order.
// Used for the unmatched and needs-review outputs.
func WriteRecords(path string, columns []string, records []match.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, record := range records {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = record[column]
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// RunSummary is the per-run accounting emitted alongside the CSV outputs.
type RunSummary struct {
	Timestamp      string `yaml:"timestamp"`
	BooksPath      string `yaml:"bookspath"`
	Threshold      int    `yaml:"threshold"`
	TotalBooks     int    `yaml:"totalbooks"`
	MatchedBooks   int    `yaml:"matchedbooks"`
	AmbiguousBooks int    `yaml:"ambiguousbooks"`
	UnmatchedBooks int    `yaml:"unmatchedbooks"`
	Manifestations int    `yaml:"manifestations"`
}

// NewRunSummary stamps a summary with the current time.
func NewRunSummary(booksPath string, threshold int) RunSummary {
	return RunSummary{
		Timestamp: time.Now().Format("2006-01-02_15-04-05"),
		BooksPath: booksPath,
		Threshold: threshold,
	}
}

// SaveSummary writes the run summary as YAML into outputDir.
func SaveSummary(outputDir string, summary RunSummary) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := yaml.Marshal(&summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	path := filepath.Join(outputDir, fmt.Sprintf("summary-%s.yaml", summary.Timestamp))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}

// PrintSummary prints the human-readable run report to stdout.
func PrintSummary(summary RunSummary) {
	fmt.Println("\n========================================")
	fmt.Println("Matching Summary")
	fmt.Println("========================================")
	fmt.Printf("Total books searched:        %d\n", summary.TotalBooks)
	fmt.Printf("Matched (single ISBN):       %d\n", summary.MatchedBooks)
	fmt.Printf("Ambiguous (needs review):    %d\n", summary.AmbiguousBooks)
	fmt.Printf("Unmatched:                   %d\n", summary.UnmatchedBooks)
	fmt.Printf("Unique manifestations:       %d\n", summary.Manifestations)
	fmt.Println("========================================")
}
