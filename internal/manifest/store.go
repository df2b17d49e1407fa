package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/ide"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/logging"
)

const (
	// RegistryFile is the global plugin registry filename.
	RegistryFile = "all_plugins.json"
	// ManifestDir is the subdirectory holding per-IDE-version manifests.
	ManifestDir = "ides"
)

// Store is the on-disk manifest store. Runs replace it wholesale through a
// staging directory; nothing else writes to it.
type Store struct {
	Root string
}

// LoadRegistry reads the global registry. A missing file is an empty
// registry, not an error.
func (s *Store) LoadRegistry() (*Registry, error) {
	data, err := os.ReadFile(filepath.Join(s.Root, RegistryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return NewRegistry(), nil
		}
		return nil, err
	}

	var entries map[Key]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("reading %s: %w", RegistryFile, err)
	}
	registry := NewRegistry()
	registry.entries = entries
	return registry, nil
}

// LoadManifests reads every manifest in the store. Files whose name does
// not resolve against the product catalog are skipped with a warning. Build
// numbers are not stored in manifests, so the returned IDE versions carry
// none.
func (s *Store) LoadManifests() ([]*Manifest, error) {
	dir := filepath.Join(s.Root, ManifestDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var manifests []*Manifest
	for _, dirEntry := range entries {
		if dirEntry.IsDir() {
			continue
		}
		version, ok := ide.ParseStoreFilename(dirEntry.Name())
		if !ok {
			logging.Warnf("skipping unrecognized file in manifest directory: %s", dirEntry.Name())
			continue
		}
		m, err := s.LoadManifest(version)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

// LoadManifest reads the manifest for one IDE version.
func (s *Store) LoadManifest(version ide.Version) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(s.Root, ManifestDir, version.StoreFilename()))
	if err != nil {
		return nil, err
	}
	var plugins map[string]Key
	if err := json.Unmarshal(data, &plugins); err != nil {
		return nil, fmt.Errorf("reading %s: %w", version.StoreFilename(), err)
	}
	return &Manifest{IDE: version, Plugins: plugins}, nil
}

// Write publishes a new store generation: the given manifests, manifest
// files outside the freshness window carried over from the current store
// byte-for-byte, and the registry pruned to keys something references.
// Everything is built in a staging directory and swapped in atomically;
// on error the previous store is left untouched.
func (s *Store) Write(registry *Registry, manifests []*Manifest, window ide.Window) error {
	if err := os.MkdirAll(filepath.Dir(s.Root), 0755); err != nil {
		return err
	}
	staging, err := os.MkdirTemp(filepath.Dir(s.Root), ".staging-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(staging)

	if err := os.MkdirAll(filepath.Join(staging, ManifestDir), 0755); err != nil {
		return err
	}

	used := make(map[Key]struct{})

	for _, m := range manifests {
		if err := writeJSON(filepath.Join(staging, ManifestDir, m.IDE.StoreFilename()), m.Plugins); err != nil {
			return err
		}
		for _, key := range m.Plugins {
			used[key] = struct{}{}
		}
	}

	if err := s.carryStale(staging, window, used); err != nil {
		return err
	}

	registry.Prune(used)
	if err := writeJSON(filepath.Join(staging, RegistryFile), registry.Snapshot()); err != nil {
		return err
	}

	return s.swap(staging)
}

// carryStale copies manifests outside the freshness window from the current
// store into staging, unmodified, and marks their registry keys as used.
func (s *Store) carryStale(staging string, window ide.Window, used map[Key]struct{}) error {
	current, err := s.LoadManifests()
	if err != nil {
		return err
	}
	for _, m := range current {
		if window.Allows(m.IDE.Version) {
			continue
		}
		name := m.IDE.StoreFilename()
		data, err := os.ReadFile(filepath.Join(s.Root, ManifestDir, name))
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(staging, ManifestDir, name), data, 0644); err != nil {
			return err
		}
		for _, key := range m.Plugins {
			used[key] = struct{}{}
		}
	}
	return nil
}

// swap replaces the store root with the staging directory. The previous
// store is moved aside first and restored if the swap fails.
func (s *Store) swap(staging string) error {
	previous := s.Root + ".previous"
	hadPrevious := false
	if _, err := os.Stat(s.Root); err == nil {
		if err := os.Rename(s.Root, previous); err != nil {
			return err
		}
		hadPrevious = true
	}
	if err := os.Rename(staging, s.Root); err != nil {
		if hadPrevious {
			os.Rename(previous, s.Root)
		}
		return err
	}
	if hadPrevious {
		return os.RemoveAll(previous)
	}
	return nil
}

// writeJSON writes pretty-printed JSON with a trailing newline. Map keys
// marshal in sorted order, so output is byte-stable for equal inputs.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// SortedKeys returns the registry keys in sorted order, for display.
func (r *Registry) SortedKeys() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
