package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/manifest"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/search"
)

func testRegistry(t *testing.T) *manifest.Registry {
	t.Helper()
	registry := manifest.NewRegistry()
	require.NoError(t, registry.Insert(manifest.NewKey("com.intellij.kubernetes", "252.100"), manifest.Entry{Path: "a", Hash: "a"}))
	require.NoError(t, registry.Insert(manifest.NewKey("org.rust.lang", "252.5"), manifest.Entry{Path: "b", Hash: "b"}))
	require.NoError(t, registry.Insert(manifest.NewKey("org.toml.lang", "252.1"), manifest.Entry{Path: "c", Hash: "c"}))
	return registry
}

func TestRegistrySearch(t *testing.T) {
	results := search.Registry(testRegistry(t), "kubernetes")
	require.NotEmpty(t, results)
	assert.Equal(t, manifest.NewKey("com.intellij.kubernetes", "252.100"), results[0].Key)
	assert.Equal(t, "a", results[0].Entry.Path)
}

func TestRegistrySearchNoMatch(t *testing.T) {
	results := search.Registry(testRegistry(t), "zzzzzz")
	assert.Empty(t, results)
}

func TestRegistrySearchStableOrder(t *testing.T) {
	first := search.Registry(testRegistry(t), "lang")
	second := search.Registry(testRegistry(t), "lang")
	assert.Equal(t, first, second)
}
