package reqcache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Cache serves upstream responses through the persisted store. Hits never
// touch the network and never expire; only 200 responses are persisted, so
// a rate-limited or failed request is retried on the next identical call.
type Cache struct {
	store       *Store
	httpClient  *http.Client
	privateKeys []string
	now         func() time.Time
}

// New returns a cache over the given store using DefaultPrivateKeys.
func New(store *Store) *Cache {
	return &Cache{
		store: store,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		privateKeys: DefaultPrivateKeys,
		now:         time.Now,
	}
}

// Fetch returns the response body for the request, from cache when
// possible. A 403 from upstream means the API quota is exhausted; it and
// any other non-200 status yield an empty body, are not cached, and are
// indistinguishable to the caller: empty means "no data available this
// run", not "confirmed no match".
func (c *Cache) Fetch(ctx context.Context, baseURL string, params map[string]string) (string, error) {
	key := CanonicalKey(baseURL, params, c.privateKeys...)

	body, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if ok {
		slog.Debug("Retrieving cached data", "key", key)
		return body, nil
	}

	slog.Debug("Making a request for new data", "url", baseURL)

	requestURL, err := buildURL(baseURL, params)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden:
		slog.Warn("Reached API limit", "status", resp.StatusCode)
		return "", nil
	case resp.StatusCode != http.StatusOK:
		slog.Warn("Received irregular status code", "status", resp.StatusCode)
		slog.Debug("Irregular response body", "body", string(respBody))
		return "", nil
	}

	if err := c.store.Put(ctx, key, string(respBody), c.now()); err != nil {
		return "", err
	}
	return string(respBody), nil
}

func buildURL(baseURL string, params map[string]string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %s: %w", baseURL, err)
	}
	q := u.Query()
	for name, value := range params {
		q.Set(name, value)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
