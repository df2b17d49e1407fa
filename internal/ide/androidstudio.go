package ide

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/buildnum"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/logging"
)

// DefaultAndroidStudioURL is the Android Studio release list. Android Studio
// is not part of updates.xml; Google publishes its own feed.
const DefaultAndroidStudioURL = "https://jb.gg/android-studio-releases-list.json"

type androidStudioFeed struct {
	Content androidStudioContent `json:"content"`
}

type androidStudioContent struct {
	Items []androidStudioItem `json:"item"`
}

type androidStudioItem struct {
	Version       string `json:"version"`
	Build         string `json:"build"`
	PlatformBuild string `json:"platformBuild"`
	Channel       string `json:"channel"`
}

// androidStudioVersions fetches the Android Studio release list and returns
// builds inside the freshness window. All channels are included; the
// consuming package set carries previews too.
func (c *FeedClient) androidStudioVersions(ctx context.Context, window Window) ([]Version, error) {
	body, err := c.fetch(ctx, c.androidStudioURL())
	if err != nil {
		return nil, fmt.Errorf("android studio release feed: %w", err)
	}

	var feed androidStudioFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("android studio release feed: %w", err)
	}

	var versions []Version
	for _, item := range feed.Content.Items {
		if !strings.HasPrefix(item.Build, "AI-") {
			return nil, fmt.Errorf("android studio release feed: unexpected build code %q", item.Build)
		}
		if !window.Allows(item.Version) {
			logging.Debugf("ignoring %s %s: outside freshness window", AndroidStudio.Key(), item.Version)
			continue
		}
		versions = append(versions, Version{
			Product: AndroidStudio,
			Version: item.Version,
			// Plugin compatibility is decided by the IntelliJ platform
			// build, not the AI- build code.
			Build: buildnum.Parse(item.PlatformBuild),
		})
	}
	return versions, nil
}
