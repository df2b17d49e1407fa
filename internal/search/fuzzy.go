// Package search implements fuzzy lookup over the generated plugin
// registry.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/manifest"
)

// Result is one registry entry matching a query.
type Result struct {
	Key   manifest.Key
	Entry manifest.Entry
	Score int // Higher is better
}

// registrySearchable wraps registry keys for fuzzy matching.
type registrySearchable struct {
	keys []manifest.Key
}

// String returns the searchable string for one key.
func (s registrySearchable) String(i int) string {
	pluginID, version, _ := s.keys[i].Split()
	return strings.ToLower(pluginID + " " + version)
}

// Len returns the number of keys.
func (s registrySearchable) Len() int {
	return len(s.keys)
}

// Registry performs a fuzzy search across all registry keys. Results are
// sorted by score, ties by key, so output order is stable.
func Registry(registry *manifest.Registry, query string) []Result {
	keys := registry.SortedKeys()
	searchable := registrySearchable{keys: keys}

	matches := fuzzy.FindFrom(strings.ToLower(query), searchable)

	results := make([]Result, 0, len(matches))
	for _, match := range matches {
		key := keys[match.Index]
		entry, _ := registry.Get(key)
		results = append(results, Result{Key: key, Entry: entry, Score: match.Score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Key < results[j].Key
	})

	return results
}
