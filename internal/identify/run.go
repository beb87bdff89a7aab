// Package identify drives a matching run: for each known book, fetch
// candidate records, compare, classify formats, and route the result to
// the matched, needs-review, or unmatched output.
package identify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/umich-library-it/bookmatch/internal/config"
	"github.com/umich-library-it/bookmatch/internal/format"
	"github.com/umich-library-it/bookmatch/internal/ingest"
	"github.com/umich-library-it/bookmatch/internal/match"
	"github.com/umich-library-it/bookmatch/internal/report"
	"github.com/umich-library-it/bookmatch/internal/reqcache"
	"github.com/umich-library-it/bookmatch/internal/worldcat"
)

// Run executes one batch over the configured input file. Records are
// processed strictly sequentially in input row order: one book is resolved
// to completion before the next begins, so cache reads always observe all
// writes made earlier in the run. Per-record failures are absorbed and
// routed to the unmatched output; the batch always completes and reports.
func Run(ctx context.Context, cfg *config.Config) error {
	slog.Info("Starting matching run", "books", cfg.BooksPath, "threshold", cfg.Threshold)

	loader := ingest.NewLoader(cfg.BooksPath, cfg.Crosswalk, cfg.SampleLimit)
	books, columns, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}
	slog.Info("Books loaded", "count", len(books))
	if cfg.SampleLimit > 0 {
		slog.Info("Sample limit active", "limit", cfg.SampleLimit)
	}

	store, err := reqcache.OpenStore(cfg.CacheDBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	cache := reqcache.New(store)
	client := worldcat.NewClient(cfg.WorldCatBaseURL, cfg.WorldCatAPIKey, cache, cfg.MARCLookup)
	pipeline := match.NewPipeline(cfg.Threshold, format.NewClassifier(cfg.TieBreak))

	var matched []match.Manifestation
	var ambiguous []match.Record
	var unmatched []match.Record

	summary := report.NewRunSummary(cfg.BooksPath, cfg.Threshold)
	summary.TotalBooks = len(books)

	for i, book := range books {
		slog.Info("Processing book", "id", book["ID"],
			"progress", fmt.Sprintf("%d/%d", i+1, len(books)))

		candidates, err := client.Search(ctx, book)
		if err != nil {
			// Absorbed at the record boundary: this book produces no
			// matches, the batch continues.
			slog.Warn("Lookup failed", "id", book["ID"], "err", err)
			unmatched = append(unmatched, book)
			summary.UnmatchedBooks++
			continue
		}

		accepted := pipeline.CheckCandidates(book, candidates)
		manifestations := pipeline.UniqueManifestations(book, accepted)

		switch match.Classify(manifestations) {
		case match.Matched:
			matched = append(matched, manifestations...)
			summary.MatchedBooks++
			slog.Info("Book matched", "id", book["ID"], "manifestations", len(manifestations))
		case match.Ambiguous:
			matched = append(matched, manifestations...)
			ambiguous = append(ambiguous, book)
			summary.AmbiguousBooks++
			slog.Warn("Book matched multiple ISBNs, needs review",
				"id", book["ID"], "manifestations", len(manifestations))
		case match.Unmatched:
			unmatched = append(unmatched, book)
			summary.UnmatchedBooks++
			slog.Warn("No matching records with ISBNs were found", "id", book["ID"])
		}
	}
	summary.Manifestations = len(matched)

	if err := writeOutputs(cfg.OutputDir, columns, matched, ambiguous, unmatched); err != nil {
		return err
	}

	if err := report.SaveSummary(cfg.OutputDir, summary); err != nil {
		return err
	}
	report.PrintSummary(summary)

	return nil
}

func writeOutputs(outputDir string, columns []string, matched []match.Manifestation, ambiguous, unmatched []match.Record) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if len(matched) > 0 {
		path := filepath.Join(outputDir, "matched_manifestations.csv")
		if err := report.WriteManifestations(path, matched); err != nil {
			return err
		}
		slog.Info("Wrote matched manifestations", "path", path, "count", len(matched))
	}

	if len(ambiguous) > 0 {
		path := filepath.Join(outputDir, "needs_review.csv")
		if err := report.WriteRecords(path, columns, ambiguous); err != nil {
			return err
		}
		slog.Info("Wrote needs-review books", "path", path, "count", len(ambiguous))
	}

	if len(unmatched) > 0 {
		path := filepath.Join(outputDir, "no_isbn_matches.csv")
		if err := report.WriteRecords(path, columns, unmatched); err != nil {
			return err
		}
		slog.Info("Wrote unmatched books", "path", path, "count", len(unmatched))
	}

	return nil
}
