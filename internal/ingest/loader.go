// Package ingest loads the locally known book records that drive a
// matching run, renaming input columns to the canonical field names the
// pipeline expects.
package ingest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/umich-library-it/bookmatch/internal/match"
	"gopkg.in/yaml.v3"
)

// Crosswalk maps input column headers onto canonical field names.
// Unmapped headers pass through unchanged.
type Crosswalk map[string]string

// LoadCrosswalk reads a column crosswalk from a YAML file. An empty path
// yields an empty crosswalk (input headers already canonical).
func LoadCrosswalk(path string) (Crosswalk, error) {
	if path == "" {
		return Crosswalk{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read crosswalk file %s: %w", path, err)
	}
	var crosswalk Crosswalk
	if err := yaml.Unmarshal(data, &crosswalk); err != nil {
		return nil, fmt.Errorf("failed to parse crosswalk file %s: %w", path, err)
	}
	return crosswalk, nil
}

func (c Crosswalk) rename(header string) string {
	if canonical, ok := c[header]; ok {
		return canonical
	}
	return header
}

// Loader reads known book records from a CSV, JSONL, or Parquet file,
// detected by extension.
type Loader struct {
	path      string
	crosswalk Crosswalk
	// limit > 0 caps the number of records loaded (test mode).
	limit int
}

// NewLoader creates a loader for path. limit <= 0 loads everything.
func NewLoader(path string, crosswalk Crosswalk, limit int) *Loader {
	return &Loader{path: path, crosswalk: crosswalk, limit: limit}
}

// Load reads the records in input row order. The returned columns slice
// preserves the (crosswalked) header order for output files.
func (l *Loader) Load() ([]match.Record, []string, error) {
	ext := strings.ToLower(filepath.Ext(l.path))

	switch ext {
	case ".csv":
		return l.loadCSV()
	case ".jsonl", ".json":
		return l.loadJSONL()
	case ".parquet":
		return l.loadParquet()
	}
	return nil, nil, fmt.Errorf("unsupported input format: %s (supported: .csv, .jsonl, .parquet)", ext)
}

func (l *Loader) loadCSV() ([]match.Record, []string, error) {
	slog.Debug("Opening CSV file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = l.crosswalk.rename(name)
	}

	var records []match.Record
	for l.limit <= 0 || len(records) < l.limit {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		record := match.Record{}
		for i, value := range row {
			if i < len(columns) && value != "" {
				record[columns[i]] = value
			}
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}

	slog.Debug("Finished reading CSV file", "total_records", len(records))
	return records, columns, nil
}

func (l *Loader) loadJSONL() ([]match.Record, []string, error) {
	slog.Debug("Opening JSONL file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var records []match.Record
	var columns []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		if l.limit > 0 && len(records) >= l.limit {
			break
		}
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var row map[string]any
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}

		// Map iteration order is random; sorted keys keep the derived
		// column order stable across runs.
		keys := make([]string, 0, len(row))
		for key := range row {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		record := match.Record{}
		for _, key := range keys {
			value := row[key]
			if value == nil {
				continue
			}
			canonical := l.crosswalk.rename(key)
			record[canonical] = fmt.Sprint(value)
			if _, ok := seen[canonical]; !ok {
				seen[canonical] = struct{}{}
				columns = append(columns, canonical)
			}
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading input: %w", err)
	}

	slog.Debug("Finished reading JSONL file", "total_records", len(records))
	return records, columns, nil
}

// parquetBook is the fixed schema for Parquet inputs; Parquet files are
// expected pre-canonicalized, so no crosswalk applies.
type parquetBook struct {
	ID         string `parquet:"id"`
	Title      string `parquet:"title"`
	Subtitle   string `parquet:"subtitle"`
	AuthorLast string `parquet:"author_last"`
	Publisher  string `parquet:"publisher"`
}

var parquetColumns = []string{"ID", "Title", "Subtitle", "Author_Last", "Publisher 1"}

func (l *Loader) loadParquet() ([]match.Record, []string, error) {
	slog.Debug("Opening Parquet file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[parquetBook](pf)
	defer reader.Close()

	var records []match.Record
	rows := make([]parquetBook, 128)
	for l.limit <= 0 || len(records) < l.limit {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			if l.limit > 0 && len(records) >= l.limit {
				break
			}
			record := match.Record{}
			setIfPresent(record, "ID", row.ID)
			setIfPresent(record, "Title", row.Title)
			setIfPresent(record, "Subtitle", row.Subtitle)
			setIfPresent(record, "Author_Last", row.AuthorLast)
			setIfPresent(record, "Publisher 1", row.Publisher)
			if len(record) > 0 {
				records = append(records, record)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_records", len(records))
	return records, parquetColumns, nil
}

func setIfPresent(record match.Record, key, value string) {
	if value != "" {
		record[key] = value
	}
}
