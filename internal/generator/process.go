package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/ide"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/logging"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/manifest"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/marketplace"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/resolver"
)

// processPlugin handles one plugin across all IDE versions, retrying the
// whole attempt on transient failures up to the retry budget. Exhausting
// the budget fails the run.
func (g *Generator) processPlugin(ctx context.Context, pluginID string, ides []ide.Version, prior *manifest.Registry) (*taskResult, error) {
	attempts := g.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	backoff := 250 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			logging.Warnf("%s: attempt %d failed (%v), retrying", pluginID, attempt, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		result, err := g.attemptPlugin(attemptCtx, pluginID, ides, prior)
		cancel()
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%s: retry budget exhausted: %w", pluginID, lastErr)
}

func (g *Generator) attemptPlugin(ctx context.Context, pluginID string, ides []ide.Version, prior *manifest.Registry) (*taskResult, error) {
	logging.Debugf("processing %s", pluginID)
	result := &taskResult{entries: make(map[manifest.Key]manifest.Entry)}
	unavailable := make(map[manifest.Key]bool)

	entries, err := g.Client.Compatibility(ctx, pluginID)
	if err != nil {
		var notFound *marketplace.NotFoundError
		if errors.As(err, &notFound) {
			logging.Debugf("%s: no marketplace listing", pluginID)
			result.missing = append(result.missing, fmt.Sprintf("%s: no marketplace listing", pluginID))
			return result, nil
		}
		return nil, err
	}

	for _, ideVersion := range ides {
		resolved, err := resolver.Resolve(ideVersion.Build, entries)
		switch {
		case errors.Is(err, resolver.ErrNoCompatibleVersion):
			logging.Debugf("%s: %s not supported", pluginID, ideVersion)
			result.omitted++
			continue
		case err != nil:
			var ambiguous *resolver.AmbiguousError
			if errors.As(err, &ambiguous) {
				// Surfaced in the summary; the plugin entry is dropped
				// for this IDE version, the run continues.
				result.ambiguous = append(result.ambiguous, fmt.Sprintf("%s (%s)", ambiguous, ideVersion))
				continue
			}
			return nil, err
		}

		key := manifest.NewKey(pluginID, resolved.Version)
		if unavailable[key] {
			continue
		}
		entry, ok := result.entries[key]
		if !ok {
			entry, ok = prior.Get(key)
		}
		if !ok {
			descriptor, err := g.Client.Descriptor(ctx, pluginID, resolved.Version)
			if err != nil {
				var notFound *marketplace.NotFoundError
				if errors.As(err, &notFound) {
					logging.Warnf("%s@%s: not downloadable, skipping", pluginID, resolved.Version)
					result.missing = append(result.missing, fmt.Sprintf("%s@%s: not downloadable", pluginID, resolved.Version))
					unavailable[key] = true
					continue
				}
				return nil, err
			}
			entry = manifest.Entry{Path: descriptor.Path, Hash: descriptor.Hash}
		}
		result.entries[key] = entry
		result.placements = append(result.placements, placement{ide: ideVersion, pluginID: pluginID, key: key})
	}
	return result, nil
}

// merge folds all task results into one registry and per-IDE manifests.
// It runs single-threaded over results in plugin index order, so a
// registry conflict is always attributed deterministically.
func (g *Generator) merge(ides []ide.Version, results []*taskResult, registry *manifest.Registry, summary *Summary) []*manifest.Manifest {
	byIDE := make(map[string]*manifest.Manifest, len(ides))
	ordered := make([]*manifest.Manifest, 0, len(ides))
	for _, v := range ides {
		m := manifest.NewManifest(v)
		byIDE[v.StoreFilename()] = m
		ordered = append(ordered, m)
	}

	for _, result := range results {
		if result == nil {
			continue
		}
		summary.Ambiguous = append(summary.Ambiguous, result.ambiguous...)
		summary.Missing = append(summary.Missing, result.missing...)
		summary.Omitted += result.omitted

		if summary.Conflict != nil {
			continue
		}
		if err := registry.Merge(result.entries); err != nil {
			var conflict *manifest.ConflictError
			if errors.As(err, &conflict) {
				summary.Conflict = conflict
				continue
			}
		}
		for _, p := range result.placements {
			byIDE[p.ide.StoreFilename()].Put(p.pluginID, p.key)
			summary.Placements++
		}
	}

	return ordered
}
