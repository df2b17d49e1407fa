package ide

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/buildnum"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/logging"
)

// DefaultUpdatesURL is the JetBrains release feed.
const DefaultUpdatesURL = "https://www.jetbrains.com/updates/updates.xml"

// Only builds published to the stable release channel are indexed.
const releaseChannelSuffix = "RELEASE-licensing-RELEASE"

type updatesFeed struct {
	Products []updatesProduct `xml:"product"`
}

type updatesProduct struct {
	Codes    []string         `xml:"code"`
	Channels []updatesChannel `xml:"channel"`
}

type updatesChannel struct {
	ID     string         `xml:"id,attr"`
	Builds []updatesBuild `xml:"build"`
}

type updatesBuild struct {
	Number     string `xml:"number,attr"`
	FullNumber string `xml:"fullNumber,attr"`
	Version    string `xml:"version,attr"`
}

// jetBrainsVersions fetches the updates.xml feed and returns every release
// build of a known product inside the freshness window.
func (c *FeedClient) jetBrainsVersions(ctx context.Context, window Window) ([]Version, error) {
	body, err := c.fetch(ctx, c.updatesURL())
	if err != nil {
		return nil, fmt.Errorf("jetbrains release feed: %w", err)
	}

	var feed updatesFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("jetbrains release feed: %w", err)
	}

	seen := make(map[Product]bool)
	var versions []Version
	for _, product := range feed.Products {
		for _, code := range product.Codes {
			ideProduct, ok := FromCode(code)
			if !ok || seen[ideProduct] {
				continue
			}
			seen[ideProduct] = true
			for _, channel := range product.Channels {
				if !strings.HasSuffix(channel.ID, releaseChannelSuffix) {
					continue
				}
				for _, build := range channel.Builds {
					if !window.Allows(build.Version) {
						logging.Debugf("ignoring %s %s: outside freshness window", ideProduct.Key(), build.Version)
						continue
					}
					number := build.FullNumber
					if number == "" {
						number = build.Number
					}
					versions = append(versions, Version{
						Product: ideProduct,
						Version: build.Version,
						Build:   buildnum.Parse(number),
					})
				}
			}
		}
	}
	return versions, nil
}

func (c *FeedClient) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
