// Package marketplace is the client for the JetBrains plugin marketplace:
// the plugin id indices, per-plugin compatibility listings and download
// descriptors.
package marketplace

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/buildnum"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/logging"
)

const (
	// DefaultPluginsURL is the marketplace API host.
	DefaultPluginsURL = "https://plugins.jetbrains.com"
	// DefaultDownloadPrefix is the host all plugin artifacts resolve to.
	// Registry paths are stored relative to it.
	DefaultDownloadPrefix = "https://downloads.marketplace.jetbrains.com/"
)

// DefaultIndexURLs are the published plugin id indices: community plugins
// and JetBrains' own plugins.
var DefaultIndexURLs = []string{
	DefaultDownloadPrefix + "files/pluginsXMLIds.json",
	DefaultDownloadPrefix + "files/jbPluginsXMLIds.json",
}

// Options configures a Client. The zero value uses production endpoints.
type Options struct {
	// PluginsURL overrides the marketplace API host.
	PluginsURL string
	// DownloadPrefix overrides the artifact host prefix.
	DownloadPrefix string
	// IndexURLs overrides the plugin id index files.
	IndexURLs []string
	// MaxRetries bounds retries per request. Default 3.
	MaxRetries int
	// RequestsPerSecond caps the outbound request rate. Default 20.
	RequestsPerSecond float64
	// Transport replaces the underlying RoundTripper, for tests.
	Transport http.RoundTripper
}

// Client queries the marketplace. One Client per generator run; responses
// are never cached across calls except for the per-run 404 set, so a run
// sees one consistent snapshot.
type Client struct {
	httpClient     *http.Client
	limiter        *rate.Limiter
	pluginsURL     string
	downloadPrefix string
	indexURLs      []string

	mu       sync.Mutex
	notFound map[string]struct{}
}

// New creates a marketplace client.
func New(opts Options) *Client {
	if opts.PluginsURL == "" {
		opts.PluginsURL = DefaultPluginsURL
	}
	if opts.DownloadPrefix == "" {
		opts.DownloadPrefix = DefaultDownloadPrefix
	}
	if len(opts.IndexURLs) == 0 {
		opts.IndexURLs = DefaultIndexURLs
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 20
	}

	return &Client{
		httpClient: &http.Client{
			Transport: newRetryTransport(opts.Transport, opts.MaxRetries),
			Timeout:   10 * time.Minute,
		},
		limiter:        rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 10),
		pluginsURL:     strings.TrimSuffix(opts.PluginsURL, "/"),
		downloadPrefix: opts.DownloadPrefix,
		indexURLs:      opts.IndexURLs,
		notFound:       make(map[string]struct{}),
	}
}

// HTTPClient exposes the retrying client for other feeds.
func (c *Client) HTTPClient() *http.Client { return c.httpClient }

// PluginIndex fetches all plugin id index files and returns the merged,
// deduplicated id list in index order.
func (c *Client) PluginIndex(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, indexURL := range c.indexURLs {
		body, err := c.get(ctx, indexURL)
		if err != nil {
			return nil, fmt.Errorf("plugin index: %w", err)
		}
		var chunk []string
		if err := json.Unmarshal(body, &chunk); err != nil {
			return nil, fmt.Errorf("plugin index %s: %w", indexURL, err)
		}
		for _, id := range chunk {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// pluginList mirrors the marketplace's plugin listing XML.
type pluginList struct {
	Category *pluginListCategory `xml:"category"`
}

type pluginListCategory struct {
	Plugins []pluginListPlugin `xml:"idea-plugin"`
}

type pluginListPlugin struct {
	Version     string                `xml:"version"`
	IdeaVersion pluginListIdeaVersion `xml:"idea-version"`
}

type pluginListIdeaVersion struct {
	SinceBuild string `xml:"since-build,attr"`
	UntilBuild string `xml:"until-build,attr"`
}

// Compatibility returns every version row the marketplace reports for a
// plugin, newest first, unfiltered. A 404 or an empty listing returns a
// *NotFoundError.
func (c *Client) Compatibility(ctx context.Context, pluginID string) ([]CompatibilityEntry, error) {
	listURL := fmt.Sprintf("%s/plugins/list?pluginId=%s", c.pluginsURL, url.QueryEscape(listID(pluginID)))
	body, err := c.get(ctx, listURL)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{PluginID: pluginID}
		}
		return nil, fmt.Errorf("listing %s: %w", pluginID, err)
	}

	var list pluginList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("listing %s: %w", pluginID, err)
	}
	if list.Category == nil || len(list.Category.Plugins) == 0 {
		return nil, &NotFoundError{PluginID: pluginID}
	}

	entries := make([]CompatibilityEntry, 0, len(list.Category.Plugins))
	for i, row := range list.Category.Plugins {
		entries = append(entries, CompatibilityEntry{
			PluginID: pluginID,
			Version:  row.Version,
			Builds:   buildnum.ParseRange(row.IdeaVersion.SinceBuild, row.IdeaVersion.UntilBuild),
			Order:    i,
		})
	}
	return entries, nil
}

// Descriptor downloads one plugin artifact, following redirects to the
// download host, and returns its registry entry: the URL path below the
// download host and the sha256 of the content. Known-missing versions are
// remembered for the rest of the run.
func (c *Client) Descriptor(ctx context.Context, pluginID, version string) (Descriptor, error) {
	cacheKey := pluginID + "@" + version
	c.mu.Lock()
	_, missing := c.notFound[cacheKey]
	c.mu.Unlock()
	if missing {
		return Descriptor{}, &NotFoundError{PluginID: pluginID, Version: version}
	}

	logging.Infof("%s@%s: not yet in registry, downloading for hash", pluginID, version)

	downloadURL := fmt.Sprintf("%s/plugin/download?pluginId=%s&version=%s",
		c.pluginsURL, url.QueryEscape(pluginID), url.QueryEscape(version))

	if err := c.limiter.Wait(ctx); err != nil {
		return Descriptor{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return Descriptor{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Descriptor{}, fmt.Errorf("downloading %s@%s: %w", pluginID, version, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.mu.Lock()
		c.notFound[cacheKey] = struct{}{}
		c.mu.Unlock()
		return Descriptor{}, &NotFoundError{PluginID: pluginID, Version: version}
	case resp.StatusCode == http.StatusTooManyRequests:
		return Descriptor{}, &RateLimitedError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode != http.StatusOK:
		return Descriptor{}, &StatusError{URL: downloadURL, StatusCode: resp.StatusCode}
	}

	hasher := sha256.New()
	if _, err := io.Copy(hasher, resp.Body); err != nil {
		return Descriptor{}, fmt.Errorf("downloading %s@%s: %w", pluginID, version, err)
	}

	// The final URL after redirects points at the download host. Query
	// parameters only carry analytics and do not change the artifact.
	finalURL := *resp.Request.URL
	finalURL.RawQuery = ""
	path, ok := strings.CutPrefix(finalURL.String(), c.downloadPrefix)
	if !ok {
		return Descriptor{}, fmt.Errorf("downloading %s@%s: unexpected artifact host %s", pluginID, version, finalURL.String())
	}

	return Descriptor{
		Path: path,
		Hash: base64.StdEncoding.EncodeToString(hasher.Sum(nil)),
	}, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitedError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
