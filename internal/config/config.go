// Package config assembles the run configuration once at process start;
// the resulting struct is read-only thereafter and passed explicitly to
// every component that needs it.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/umich-library-it/bookmatch/internal/format"
	"github.com/umich-library-it/bookmatch/internal/ingest"
	"github.com/umich-library-it/bookmatch/internal/worldcat"
)

// DefaultThreshold is the similarity threshold used for both title and
// publisher comparison when none is configured.
const DefaultThreshold = 85

// Config is the immutable run configuration.
type Config struct {
	CacheDBPath string
	BooksPath   string
	OutputDir   string

	WorldCatBaseURL string
	WorldCatAPIKey  string

	Threshold   int
	TieBreak    format.TieBreak
	SampleLimit int

	MARCLookup worldcat.Lookup
	Crosswalk  ingest.Crosswalk
}

// Load reads configuration from the environment (the root command has
// already loaded .env) and the referenced YAML lookup files. A missing
// required setting aborts before any processing begins.
func Load() (*Config, error) {
	cfg := &Config{
		CacheDBPath:     os.Getenv("BOOKMATCH_CACHE_DB"),
		BooksPath:       os.Getenv("BOOKMATCH_BOOKS_PATH"),
		OutputDir:       os.Getenv("BOOKMATCH_OUTPUT_DIR"),
		WorldCatBaseURL: os.Getenv("WORLDCAT_BASE_URL"),
		WorldCatAPIKey:  os.Getenv("WORLDCAT_API_KEY"),
		Threshold:       DefaultThreshold,
	}

	if cfg.CacheDBPath == "" {
		return nil, fmt.Errorf("configuration missing: BOOKMATCH_CACHE_DB")
	}
	if cfg.BooksPath == "" {
		return nil, fmt.Errorf("configuration missing: BOOKMATCH_BOOKS_PATH")
	}
	if cfg.WorldCatBaseURL == "" {
		return nil, fmt.Errorf("configuration missing: WORLDCAT_BASE_URL")
	}
	if cfg.WorldCatAPIKey == "" {
		return nil, fmt.Errorf("configuration missing: WORLDCAT_API_KEY")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "data"
	}

	if raw := os.Getenv("BOOKMATCH_THRESHOLD"); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil || threshold < 0 || threshold > 100 {
			return nil, fmt.Errorf("invalid BOOKMATCH_THRESHOLD %q: must be an integer in [0,100]", raw)
		}
		cfg.Threshold = threshold
	}

	if raw := os.Getenv("BOOKMATCH_SAMPLE_LIMIT"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("invalid BOOKMATCH_SAMPLE_LIMIT %q", raw)
		}
		cfg.SampleLimit = limit
	}

	tieBreak, err := format.ParseTieBreak(os.Getenv("BOOKMATCH_TIE_BREAK"))
	if err != nil {
		return nil, err
	}
	cfg.TieBreak = tieBreak

	lookupPath := os.Getenv("BOOKMATCH_MARC_LOOKUP")
	if lookupPath == "" {
		return nil, fmt.Errorf("configuration missing: BOOKMATCH_MARC_LOOKUP")
	}
	cfg.MARCLookup, err = worldcat.LoadLookup(lookupPath)
	if err != nil {
		return nil, err
	}

	cfg.Crosswalk, err = ingest.LoadCrosswalk(os.Getenv("BOOKMATCH_CROSSWALK"))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
