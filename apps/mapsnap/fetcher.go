package main

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"strings"
	"time"

	"github.com/olablt/mapsnap/tiles"
)

// newFetcher serves local:// URLs from the synthetic tile generator and
// everything else over HTTP, unless offline.
func newFetcher(offline bool, timeout time.Duration) tiles.Fetcher {
	local := tiles.NewLocalFetcher(tiles.TileSize)
	remote := tiles.NewHTTPFetcher(&http.Client{Timeout: timeout}, "mapsnap/0.1")

	return tiles.FetcherFunc(func(ctx context.Context, url string) (image.Image, error) {
		if strings.HasPrefix(url, tiles.LocalScheme+"://") {
			return local.Fetch(ctx, url)
		}
		if offline {
			return nil, fmt.Errorf("offline: refusing to fetch %s", url)
		}
		return remote.Fetch(ctx, url)
	})
}
