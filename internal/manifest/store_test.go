package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/ide"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/manifest"
)

func TestKeySplit(t *testing.T) {
	key := manifest.NewKey("org.example.plugin", "1.2.0")
	assert.Equal(t, manifest.Key("org.example.plugin/--/1.2.0"), key)

	id, version, ok := key.Split()
	require.True(t, ok)
	assert.Equal(t, "org.example.plugin", id)
	assert.Equal(t, "1.2.0", version)

	_, _, ok = manifest.Key("no-separator").Split()
	assert.False(t, ok)
}

func TestRegistryInsertAndConflict(t *testing.T) {
	registry := manifest.NewRegistry()
	key := manifest.NewKey("x", "1.0")
	entry := manifest.Entry{Path: "files/x-1.0.zip", Hash: "aaa"}

	require.NoError(t, registry.Insert(key, entry))
	// Identical re-insert dedupes.
	require.NoError(t, registry.Insert(key, entry))
	assert.Equal(t, 1, registry.Len())

	// Same key, different hash: conflict, no overwrite.
	err := registry.Insert(key, manifest.Entry{Path: "files/x-1.0.zip", Hash: "bbb"})
	var conflict *manifest.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, key, conflict.Key)

	got, ok := registry.Get(key)
	require.True(t, ok)
	assert.Equal(t, "aaa", got.Hash)
}

func TestRegistryMergeConflict(t *testing.T) {
	registry := manifest.NewRegistry()
	require.NoError(t, registry.Insert(manifest.NewKey("x", "1.0"), manifest.Entry{Path: "p", Hash: "aaa"}))

	err := registry.Merge(map[manifest.Key]manifest.Entry{
		manifest.NewKey("x", "1.0"): {Path: "p", Hash: "bbb"},
	})
	var conflict *manifest.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func ideVersion(product ide.Product, version string) ide.Version {
	return ide.Version{Product: product, Version: version}
}

func writeStore(t *testing.T, store *manifest.Store, window ide.Window) {
	t.Helper()
	registry := manifest.NewRegistry()
	require.NoError(t, registry.Insert(manifest.NewKey("org.example.plugin", "1.2.0"),
		manifest.Entry{Path: "files/plugin-1.2.0.zip", Hash: "aaa"}))

	m := manifest.NewManifest(ideVersion(ide.GoLand, "2025.2"))
	m.Put("org.example.plugin", manifest.NewKey("org.example.plugin", "1.2.0"))

	require.NoError(t, store.Write(registry, []*manifest.Manifest{m}, window))
}

func TestStoreWriteAndLoad(t *testing.T) {
	store := &manifest.Store{Root: filepath.Join(t.TempDir(), "out")}
	window := ide.WindowFromPrefixes([]string{"2025."})
	writeStore(t, store, window)

	registry, err := store.LoadRegistry()
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Len())

	loaded, err := store.LoadManifest(ideVersion(ide.GoLand, "2025.2"))
	require.NoError(t, err)
	assert.Equal(t, manifest.NewKey("org.example.plugin", "1.2.0"), loaded.Plugins["org.example.plugin"])
}

func TestStoreWriteIdempotent(t *testing.T) {
	store := &manifest.Store{Root: filepath.Join(t.TempDir(), "out")}
	window := ide.WindowFromPrefixes([]string{"2025."})

	writeStore(t, store, window)
	first := readStoreBytes(t, store.Root)

	writeStore(t, store, window)
	second := readStoreBytes(t, store.Root)

	assert.Equal(t, first, second, "two runs over the same snapshot must be byte-identical")
}

func readStoreBytes(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestStoreWritePrunesUnreferencedKeys(t *testing.T) {
	store := &manifest.Store{Root: filepath.Join(t.TempDir(), "out")}
	window := ide.WindowFromPrefixes([]string{"2025."})

	registry := manifest.NewRegistry()
	require.NoError(t, registry.Insert(manifest.NewKey("org.example.plugin", "1.2.0"),
		manifest.Entry{Path: "p", Hash: "a"}))
	require.NoError(t, registry.Insert(manifest.NewKey("org.example.orphan", "0.1"),
		manifest.Entry{Path: "q", Hash: "b"}))

	m := manifest.NewManifest(ideVersion(ide.GoLand, "2025.2"))
	m.Put("org.example.plugin", manifest.NewKey("org.example.plugin", "1.2.0"))
	require.NoError(t, store.Write(registry, []*manifest.Manifest{m}, window))

	loaded, err := store.LoadRegistry()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
	_, ok := loaded.Get(manifest.NewKey("org.example.orphan", "0.1"))
	assert.False(t, ok)
}

func TestStoreCarriesStaleManifests(t *testing.T) {
	store := &manifest.Store{Root: filepath.Join(t.TempDir(), "out")}

	// First generation includes an old IDE line.
	registry := manifest.NewRegistry()
	oldKey := manifest.NewKey("org.example.plugin", "0.9")
	require.NoError(t, registry.Insert(oldKey, manifest.Entry{Path: "old", Hash: "old"}))
	oldManifest := manifest.NewManifest(ideVersion(ide.CLion, "2023.1"))
	oldManifest.Put("org.example.plugin", oldKey)
	require.NoError(t, store.Write(registry, []*manifest.Manifest{oldManifest}, ide.WindowFromPrefixes([]string{"2023."})))
	staleBytes, err := os.ReadFile(filepath.Join(store.Root, manifest.ManifestDir, "clion-2023.1.json"))
	require.NoError(t, err)

	// Second generation regenerates only 2025 lines.
	registry2 := manifest.NewRegistry()
	newKey := manifest.NewKey("org.example.plugin", "1.2.0")
	require.NoError(t, registry2.Insert(newKey, manifest.Entry{Path: "new", Hash: "new"}))
	newManifest := manifest.NewManifest(ideVersion(ide.CLion, "2025.1"))
	newManifest.Put("org.example.plugin", newKey)
	require.NoError(t, store.Write(registry2, []*manifest.Manifest{newManifest}, ide.WindowFromPrefixes([]string{"2025."})))

	// The stale manifest is carried byte-for-byte and its registry key kept.
	carried, err := os.ReadFile(filepath.Join(store.Root, manifest.ManifestDir, "clion-2023.1.json"))
	require.NoError(t, err)
	assert.Equal(t, staleBytes, carried)

	loaded, err := store.LoadRegistry()
	require.NoError(t, err)
	_, ok := loaded.Get(oldKey)
	assert.True(t, ok, "keys referenced by carried manifests must survive pruning")
	_, ok = loaded.Get(newKey)
	assert.True(t, ok)
}

func TestStoreLoadManifestsSkipsUnknownFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(filepath.Join(root, manifest.ManifestDir), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, manifest.ManifestDir, "goland-2025.2.json"), []byte("{}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, manifest.ManifestDir, "README.txt"), []byte("hi"), 0644))

	store := &manifest.Store{Root: root}
	manifests, err := store.LoadManifests()
	require.NoError(t, err)
	require.Len(t, manifests, 1)
	assert.Equal(t, "goland", manifests[0].IDE.Product.Key())
}

func TestStoreLoadRegistryMissing(t *testing.T) {
	store := &manifest.Store{Root: filepath.Join(t.TempDir(), "missing")}
	registry, err := store.LoadRegistry()
	require.NoError(t, err)
	assert.Equal(t, 0, registry.Len())
}
