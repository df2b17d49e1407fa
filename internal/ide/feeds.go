package ide

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// FeedClient fetches IDE release feeds. The zero value uses the default
// endpoints and http.DefaultClient.
type FeedClient struct {
	// HTTPClient is used for all feed requests.
	HTTPClient *http.Client
	// UpdatesURL overrides the JetBrains release feed endpoint.
	UpdatesURL string
	// AndroidStudioURL overrides the Android Studio release list endpoint.
	AndroidStudioURL string
}

func (c *FeedClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *FeedClient) updatesURL() string {
	if c.UpdatesURL != "" {
		return c.UpdatesURL
	}
	return DefaultUpdatesURL
}

func (c *FeedClient) androidStudioURL() string {
	if c.AndroidStudioURL != "" {
		return c.AndroidStudioURL
	}
	return DefaultAndroidStudioURL
}

// Collect fetches both release feeds concurrently and returns all IDE
// versions inside the freshness window.
func (c *FeedClient) Collect(ctx context.Context, window Window) ([]Version, error) {
	var jetBrains, androidStudio []Version

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		jetBrains, err = c.jetBrainsVersions(ctx, window)
		return err
	})
	group.Go(func() error {
		var err error
		androidStudio, err = c.androidStudioVersions(ctx, window)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return append(jetBrains, androidStudio...), nil
}
