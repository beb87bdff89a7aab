// Package reqcache persists successful upstream responses keyed by a
// canonical request signature, so repeated lookups against a rate-limited
// API are served locally across runs.
package reqcache

import (
	"sort"
	"strings"
)

// DefaultPrivateKeys are parameter names excluded from cache keys: two
// requests differing only in credentials must collide to the same entry.
var DefaultPrivateKeys = []string{"wskey"}

// CanonicalKey derives the cache key for a request: parameter names sorted
// lexicographically, private keys dropped, remaining pairs joined as
// "name-value" with "&" and appended to the base URL. The result is
// independent of map iteration order. Passing no privateKeys applies
// DefaultPrivateKeys.
func CanonicalKey(baseURL string, params map[string]string, privateKeys ...string) string {
	if len(privateKeys) == 0 {
		privateKeys = DefaultPrivateKeys
	}

	private := make(map[string]struct{}, len(privateKeys))
	for _, k := range privateKeys {
		private[k] = struct{}{}
	}

	names := make([]string, 0, len(params))
	for name := range params {
		if _, ok := private[name]; ok {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]string, 0, len(names))
	for _, name := range names {
		fields = append(fields, name+"-"+params[name])
	}
	return baseURL + strings.Join(fields, "&")
}
