package worldcat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/umich-library-it/bookmatch/internal/match"
	"github.com/umich-library-it/bookmatch/internal/reqcache"
	"github.com/umich-library-it/bookmatch/internal/textnorm"
)

// Client looks up known books against the WorldCat bibliographic resource
// endpoint, going through the request cache for every call.
type Client struct {
	baseURL string
	apiKey  string
	cache   *reqcache.Cache
	lookup  Lookup
}

// NewClient returns a client for the given SRU endpoint. All requests are
// served through cache; apiKey is sent upstream but never part of cache
// keys.
func NewClient(baseURL, apiKey string, cache *reqcache.Cache, lookup Lookup) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		cache:   cache,
		lookup:  lookup,
	}
}

// BuildQuery renders the SRU query string for a known record: normalized
// full title and author surname. Apostrophes break SRU query parsing and
// are blanked out of the author.
func BuildQuery(record match.Record) string {
	queryTitle := textnorm.Normalize(record.FullTitle())
	queryAuthor := strings.ReplaceAll(record["Author_Last"], "'", " ")
	query := fmt.Sprintf("srw.ti all %q and srw.au all %q", queryTitle, queryAuthor)
	slog.Debug("built query", "query", query)
	return query
}

// Search fetches candidate records for a known book. An empty result set
// (including quota-exhausted responses) yields nil candidates, not an
// error: the caller routes those books to the unmatched output.
func (c *Client) Search(ctx context.Context, record match.Record) ([]match.Record, error) {
	slog.Info("Looking up book in WorldCat", "title", record.FullTitle())

	params := map[string]string{
		"wskey":          c.apiKey,
		"query":          BuildQuery(record),
		"maximumRecords": "100",
		"frbrGrouping":   "off",
	}

	body, err := c.cache.Fetch(ctx, c.baseURL, params)
	if err != nil {
		return nil, fmt.Errorf("worldcat lookup failed: %w", err)
	}
	if body == "" {
		return nil, nil
	}

	candidates, err := ParseMARCXML([]byte(body), c.lookup)
	if err != nil {
		return nil, err
	}
	slog.Info("WorldCat records found", "count", len(candidates))
	return candidates, nil
}
