// Package generator orchestrates a full manifest generation run: collect
// IDE versions and the plugin index, resolve every plugin against every IDE
// build in parallel, merge the results and publish the store.
package generator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/ide"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/logging"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/manifest"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/marketplace"
)

const (
	// DefaultWorkers bounds concurrent plugin processing.
	DefaultWorkers = 16
	// DefaultAttempts is the per-plugin retry budget.
	DefaultAttempts = 3
	// attemptTimeout caps one processing attempt for one plugin.
	attemptTimeout = 20 * time.Minute
)

// Progress reports completion of one plugin task, for progress displays.
type Progress struct {
	PluginID string
	Done     int
	Total    int
}

// Generator runs manifest generation. Client, Feeds and Store are required.
type Generator struct {
	Client *marketplace.Client
	Feeds  *ide.FeedClient
	Store  *manifest.Store
	Window ide.Window

	// Workers bounds parallel plugin processing. Default DefaultWorkers.
	Workers int
	// Attempts is the retry budget per plugin. Default DefaultAttempts.
	Attempts int
	// DryRun builds and verifies everything but skips the store swap.
	DryRun bool
	// OnProgress, when set, receives a Progress per finished plugin task.
	// It may be called from multiple worker goroutines.
	OnProgress func(Progress)
}

// placement is one resolved (IDE version, plugin) cell.
type placement struct {
	ide      ide.Version
	pluginID string
	key      manifest.Key
}

// taskResult is everything one plugin task produced. Results are merged
// single-threaded after all workers finish, so conflict detection does not
// depend on completion order.
type taskResult struct {
	entries    map[manifest.Key]manifest.Entry
	placements []placement
	ambiguous  []string
	missing    []string
	omitted    int
}

// Run executes one generation. Per-plugin failures end up in the Summary;
// the returned error means the run aborted and the store was not touched.
func (g *Generator) Run(ctx context.Context) (*Summary, error) {
	workers := g.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var (
		ides    []ide.Version
		plugins []string
	)
	group, collectCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		ides, err = g.Feeds.Collect(collectCtx, g.Window)
		return err
	})
	group.Go(func() error {
		var err error
		plugins, err = g.Client.PluginIndex(collectCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	logging.Infof("indexing %d IDE versions and %d plugins", len(ides), len(plugins))

	prior, err := g.Store.LoadRegistry()
	if err != nil {
		return nil, err
	}

	summary := &Summary{IDEVersions: len(ides), PluginsTotal: len(plugins)}
	results := make([]*taskResult, len(plugins))

	var (
		progressMu sync.Mutex
		done       int
	)
	progress := func(pluginID string) {
		if g.OnProgress == nil {
			return
		}
		progressMu.Lock()
		done++
		current := done
		progressMu.Unlock()
		g.OnProgress(Progress{PluginID: pluginID, Done: current, Total: len(plugins)})
	}

	pool, poolCtx := errgroup.WithContext(ctx)
	pool.SetLimit(workers)

	for i, pluginID := range plugins {
		if reason, broken := marketplace.Broken(pluginID); broken {
			logging.Warnf("%s: known broken (%s), skipping", pluginID, reason)
			summary.Skipped = append(summary.Skipped, fmt.Sprintf("%s: %s", pluginID, reason))
			continue
		}
		pool.Go(func() error {
			result, err := g.processPlugin(poolCtx, pluginID, ides, prior)
			if err != nil {
				return err
			}
			results[i] = result
			progress(pluginID)
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	registry := manifest.NewRegistry()
	manifests := g.merge(ides, results, registry, summary)
	if summary.Conflict != nil {
		return summary, summary.Conflict
	}

	summary.Manifests = len(manifests)
	summary.RegistrySize = registry.Len()

	if g.DryRun {
		logging.Infof("dry run, not swapping store")
		return summary, nil
	}
	if err := g.Store.Write(registry, manifests, g.Window); err != nil {
		return summary, err
	}
	return summary, nil
}
