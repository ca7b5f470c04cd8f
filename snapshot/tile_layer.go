package snapshot

import (
	"context"
	"fmt"
	"image"

	"github.com/olablt/mapsnap/tiles"
	"github.com/olablt/mapsnap/tiles/worker"
)

type tileJob struct {
	addr      tiles.TileAddress
	placement Placement
}

// renderTileLayer draws every visible tile of l onto a private surface the
// size of the viewport. Tiles that fail to load become transparent gaps.
func (c *Compositor) renderTileLayer(ctx context.Context, view Viewport, l *TileLayer, loader *tiles.Loader) (*Surface, error) {
	if !l.Covers(view.Zoom) {
		c.log.Debugf("tile layer %s skipped at zoom %d (bounds %d..%d)", l.URLTemplate, view.Zoom, l.MinZoom, l.MaxZoom)
		return nil, nil
	}

	size := l.Size()
	rng := tiles.TileRangeFor(view.PixelBounds, size)
	fetcher := loader.Fetcher()
	pool := worker.NewPool[image.Image](c.opts.TileConcurrency, c.opts.TaskTimeout)

	var jobs []tileJob
	for _, addr := range rng.Addresses() {
		fetchAddr := addr
		if l.AdjustTile != nil {
			fetchAddr = l.AdjustTile(addr)
		}
		if fetchAddr.Y < 0 {
			continue
		}

		// Position from the unadjusted address; the adjustment only decides what is fetched.
		pos := view.ToCanvas(tiles.TileOrigin(addr, size))
		jobs = append(jobs, tileJob{
			addr:      addr,
			placement: Placement{X: pos.X(), Y: pos.Y(), Width: size, Height: size},
		})

		if l.Rendered != nil {
			pool.Submit(fmt.Sprintf("canvas tile %d:%d", fetchAddr.X, fetchAddr.Y), func(context.Context) (image.Image, error) {
				if img := l.Rendered(fetchAddr); img != nil {
					return img, nil
				}
				return nil, fmt.Errorf("%w: no rendered tile at %d:%d", ErrTileFetch, fetchAddr.X, fetchAddr.Y)
			})
			continue
		}

		// The error tile is requested without the cache buster.
		url := loader.URL(l.TileURL(fetchAddr, view.Zoom))
		pool.Submit(url, func(ctx context.Context) (image.Image, error) {
			img, src, err := tiles.FetchWithFallback(ctx, fetcher, url, l.ErrorTileURL)
			if src == tiles.FromPlaceholder {
				return nil, fmt.Errorf("%w: %s: %v", ErrTileFetch, url, err)
			}
			return img, nil
		})
	}

	results := pool.Wait(ctx)

	canvas := newCanvas(view.Size)
	for i, res := range results {
		img := res.Value
		if res.Err != nil || img == nil {
			c.log.Infof("using placeholder for tile %d:%d: %v", jobs[i].addr.X, jobs[i].addr.Y, res.Err)
			img = tiles.Placeholder()
		}
		if err := drawSafely(canvas, jobs[i].placement.Rect(), img); err != nil {
			c.log.Warningf("tile %d:%d not drawn: %v", jobs[i].addr.X, jobs[i].addr.Y, err)
		}
	}

	return fullFrame(canvas), nil
}
