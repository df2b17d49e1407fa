// Package resolver picks, for one IDE build, the best compatible version
// out of a plugin's marketplace listing. Resolution is a pure function of
// its inputs.
package resolver

import (
	"errors"
	"fmt"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/buildnum"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/marketplace"
)

// ErrNoCompatibleVersion means no listed version covers the IDE build. The
// plugin is simply absent from that IDE version's manifest.
var ErrNoCompatibleVersion = errors.New("no compatible version")

// AmbiguousError means the listing carries conflicting rows for the version
// that won resolution. That is a marketplace anomaly a human has to look at;
// picking one silently would bake the anomaly into the registry.
type AmbiguousError struct {
	PluginID string
	Version  string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous resolution for %s@%s: conflicting listing rows", e.PluginID, e.Version)
}

// Resolve filters entries to those whose build range contains build and
// returns the one with the highest version. Versions are ordered by
// buildnum comparison; equal versions with identical metadata deduplicate,
// equal versions with differing metadata are an *AmbiguousError. Remaining
// ties go to the earlier listing row, which is deterministic for a fixed
// marketplace snapshot.
func Resolve(build buildnum.Number, entries []marketplace.CompatibilityEntry) (marketplace.CompatibilityEntry, error) {
	var (
		best      marketplace.CompatibilityEntry
		bestNum   buildnum.Number
		found     bool
		ambiguous bool
	)

	for _, entry := range entries {
		if !entry.Builds.Contains(build) {
			continue
		}
		if !found {
			best, bestNum, found = entry, buildnum.Parse(entry.Version), true
			continue
		}

		num := buildnum.Parse(entry.Version)
		switch cmp := bestNum.Compare(num); {
		case cmp < 0:
			best, bestNum = entry, num
			ambiguous = false
		case cmp == 0 && entry.Version == best.Version:
			if !sameRows(best, entry) {
				ambiguous = true
			}
		}
	}

	if !found {
		return marketplace.CompatibilityEntry{}, ErrNoCompatibleVersion
	}
	if ambiguous {
		return marketplace.CompatibilityEntry{}, &AmbiguousError{PluginID: best.PluginID, Version: best.Version}
	}
	return best, nil
}

// sameRows reports whether two listing rows are duplicates of each other,
// ignoring their position in the response.
func sameRows(a, b marketplace.CompatibilityEntry) bool {
	return a.PluginID == b.PluginID &&
		a.Version == b.Version &&
		a.Builds.Since.String() == b.Builds.Since.String() &&
		a.Builds.Until.String() == b.Builds.Until.String()
}
