package marketplace_test

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/marketplace"
)

const listingXML = `<?xml version="1.0" encoding="UTF-8"?>
<plugin-repository>
  <category name="Languages">
    <idea-plugin downloads="1" size="1024">
      <name>Example</name>
      <id>org.example.plugin</id>
      <version>1.2.0</version>
      <idea-version since-build="243.0" until-build="252.*"/>
    </idea-plugin>
    <idea-plugin downloads="1" size="1024">
      <name>Example</name>
      <id>org.example.plugin</id>
      <version>1.0.0</version>
      <idea-version since-build="231.0" until-build="243.*"/>
    </idea-plugin>
  </category>
</plugin-repository>`

type marketplaceServer struct {
	*httptest.Server
	downloads atomic.Int64
}

func newMarketplaceServer(t *testing.T, artifact []byte) *marketplaceServer {
	t.Helper()
	ms := &marketplaceServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/files/pluginsXMLIds.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `["org.example.plugin", "org.example.other"]`)
	})
	mux.HandleFunc("/files/jbPluginsXMLIds.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `["org.example.plugin", "com.jetbrains.builtin"]`)
	})
	mux.HandleFunc("/plugins/list", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("pluginId") {
		case "org.example.plugin":
			fmt.Fprint(w, listingXML)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/plugin/download", func(w http.ResponseWriter, r *http.Request) {
		ms.downloads.Add(1)
		q := r.URL.Query()
		if q.Get("pluginId") != "org.example.plugin" || q.Get("version") != "1.2.0" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/files/org/example/plugin-1.2.0.zip?updateId=42", http.StatusFound)
	})
	mux.HandleFunc("/files/org/example/plugin-1.2.0.zip", func(w http.ResponseWriter, r *http.Request) {
		w.Write(artifact)
	})
	ms.Server = httptest.NewServer(mux)
	t.Cleanup(ms.Close)
	return ms
}

func newTestClient(server *marketplaceServer) *marketplace.Client {
	base := server.URL + "/"
	return marketplace.New(marketplace.Options{
		PluginsURL:     server.URL,
		DownloadPrefix: base,
		IndexURLs: []string{
			base + "files/pluginsXMLIds.json",
			base + "files/jbPluginsXMLIds.json",
		},
		RequestsPerSecond: 10000,
	})
}

func TestPluginIndexMergesAndDedupes(t *testing.T) {
	server := newMarketplaceServer(t, []byte("zip"))
	client := newTestClient(server)

	ids, err := client.PluginIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"org.example.plugin", "org.example.other", "com.jetbrains.builtin"}, ids)
}

func TestCompatibility(t *testing.T) {
	server := newMarketplaceServer(t, []byte("zip"))
	client := newTestClient(server)

	entries, err := client.Compatibility(context.Background(), "org.example.plugin")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "1.2.0", entries[0].Version)
	assert.Equal(t, 0, entries[0].Order)
	assert.Equal(t, "org.example.plugin", entries[0].PluginID)
	assert.Equal(t, "1.0.0", entries[1].Version)
	assert.Equal(t, 1, entries[1].Order)
}

func TestCompatibilityNotFound(t *testing.T) {
	server := newMarketplaceServer(t, []byte("zip"))
	client := newTestClient(server)

	_, err := client.Compatibility(context.Background(), "org.example.missing")
	var notFound *marketplace.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "org.example.missing", notFound.PluginID)
}

func TestDescriptor(t *testing.T) {
	artifact := []byte("plugin archive bytes")
	server := newMarketplaceServer(t, artifact)
	client := newTestClient(server)

	desc, err := client.Descriptor(context.Background(), "org.example.plugin", "1.2.0")
	require.NoError(t, err)

	// Redirect target without query parameters, relative to the host.
	assert.Equal(t, "files/org/example/plugin-1.2.0.zip", desc.Path)

	sum := sha256.Sum256(artifact)
	assert.Equal(t, base64.StdEncoding.EncodeToString(sum[:]), desc.Hash)
}

func TestDescriptorCachesNotFound(t *testing.T) {
	server := newMarketplaceServer(t, []byte("zip"))
	client := newTestClient(server)

	_, err := client.Descriptor(context.Background(), "org.example.plugin", "9.9.9")
	var notFound *marketplace.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "9.9.9", notFound.Version)
	first := server.downloads.Load()

	_, err = client.Descriptor(context.Background(), "org.example.plugin", "9.9.9")
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, first, server.downloads.Load(), "second miss must not hit the network")
}

func TestGetRetriesRateLimit(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `["org.example.plugin"]`)
	}))
	defer server.Close()

	client := marketplace.New(marketplace.Options{
		PluginsURL:        server.URL,
		DownloadPrefix:    server.URL + "/",
		IndexURLs:         []string{server.URL + "/index.json"},
		RequestsPerSecond: 10000,
	})

	ids, err := client.PluginIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"org.example.plugin"}, ids)
	assert.EqualValues(t, 3, calls.Load())
}

func TestGetRateLimitBudgetExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := marketplace.New(marketplace.Options{
		PluginsURL:        server.URL,
		DownloadPrefix:    server.URL + "/",
		IndexURLs:         []string{server.URL + "/index.json"},
		MaxRetries:        2,
		RequestsPerSecond: 10000,
	})

	_, err := client.PluginIndex(context.Background())
	var rateLimited *marketplace.RateLimitedError
	assert.ErrorAs(t, err, &rateLimited)
}

func TestBrokenTable(t *testing.T) {
	_, ok := marketplace.Broken("com.valord577.mybatis-navigator")
	assert.True(t, ok)
	_, ok = marketplace.Broken("org.example.plugin")
	assert.False(t, ok)
}
