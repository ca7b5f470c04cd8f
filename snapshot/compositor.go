// Package snapshot turns a live map view into a single static image.
//
// A snapshot reads the viewport geometry and layer list once, renders every
// layer class independently through a bounded worker pool and, after all of
// them resolved, composites the results in a fixed order: tile layers and
// canvas overlays, then the vector path root, then markers. Failures of individual tiles or layers
// degrade into transparent gaps instead of failing the snapshot.
package snapshot

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/olablt/mapsnap/log"
	"github.com/olablt/mapsnap/tiles"
	"github.com/olablt/mapsnap/tiles/worker"
)

var logger = log.New("snapshot")

// Compositor renders snapshots. It holds configuration only and can be used
// concurrently; every call works on its own state.
type Compositor struct {
	opts Options
	log  log.Logger
}

func New(opts ...Option) *Compositor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.TaskTimeout <= 0 {
		o.TaskTimeout = worker.DefaultTimeout
	}
	return &Compositor{
		opts: o,
		log:  o.Logger,
	}
}

// Options returns the effective configuration.
func (c *Compositor) Options() Options {
	return c.opts
}

// Process renders m in the background and calls done exactly once with
// either the finished image or an error.
func (c *Compositor) Process(ctx context.Context, m Map, done func(*image.RGBA, error)) {
	go func() {
		done(c.Snapshot(ctx, m))
	}()
}

// Snapshot renders m and returns an image the size of its viewport.
func (c *Compositor) Snapshot(ctx context.Context, m Map) (*image.RGBA, error) {
	img, _, err := c.Render(ctx, m)
	return img, err
}

// Render is Snapshot with per-layer statistics.
func (c *Compositor) Render(ctx context.Context, m Map) (*image.RGBA, *Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	f := capture(m)
	if f.view.Size.X <= 0 || f.view.Size.Y <= 0 {
		return nil, nil, fmt.Errorf("%w: %dx%d", ErrNoViewport, f.view.Size.X, f.view.Size.Y)
	}

	loader := tiles.NewLoader(c.opts.Fetcher, c.opts.CacheBuster)
	pool := worker.NewPool[*Surface](c.opts.LayerConcurrency, c.layerTimeout(f))

	// Submission order is compositing order.
	for i, b := range f.base {
		if b.overlay != nil {
			name := fmt.Sprintf("canvas overlay %d", i)
			pool.Submit(name, func(context.Context) (*Surface, error) {
				return c.renderCanvas(f.view, name, b.overlay.Surface, b.overlay.Position)
			})
			continue
		}
		l := b.tile
		pool.Submit("tile layer "+l.URLTemplate, func(ctx context.Context) (*Surface, error) {
			return c.renderTileLayer(ctx, f.view, l, loader)
		})
	}
	if f.pathRoot != nil {
		pool.Submit("path root", func(context.Context) (*Surface, error) {
			return c.renderCanvas(f.view, "path root", f.pathRoot.Surface, f.pathRoot.Position)
		})
	}
	for _, p := range f.bitmaps {
		pool.Submit("marker "+truncateURL(p.marker.Icon.URL), func(ctx context.Context) (*Surface, error) {
			return c.renderBitmapMarker(ctx, p, loader)
		})
	}
	if len(f.points) > 0 {
		pool.Submit("point markers", func(context.Context) (*Surface, error) {
			return c.renderStyledPoints(f.view, f.points)
		})
	}

	c.log.Debugf("snapshot %dx%d at zoom %d: %d layer tasks", f.view.Size.X, f.view.Size.Y, f.view.Zoom, pool.Len())
	results := pool.Wait(ctx)

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	out, stats := c.composite(f.view, results)
	stats.Elapsed = time.Since(start)
	return out, stats, nil
}

// composite draws the layer surfaces onto the output in result order. It runs
// strictly after every layer task has resolved.
func (c *Compositor) composite(view Viewport, results []worker.Result[*Surface]) (*image.RGBA, *Stats) {
	out := newCanvas(view.Size)
	stats := &Stats{Layers: make([]LayerStat, len(results))}
	for i, res := range results {
		stats.Layers[i] = LayerStat{Name: res.Name, Elapsed: res.Elapsed, Err: res.Err}
		if res.Err != nil {
			c.log.Warningf("%s dropped: %v", res.Name, res.Err)
			continue
		}
		s := res.Value
		if s == nil {
			continue
		}
		if err := drawSafely(out, s.Placement.Rect(), s.Image); err != nil {
			stats.Layers[i].Err = err
			c.log.Warningf("%s not composited: %v", res.Name, err)
			continue
		}
		stats.Layers[i].Drawn = true
	}
	return out, stats
}

// layerTimeout gives a tile layer task room for all of its tiles to time out
// one batch after another.
func (c *Compositor) layerTimeout(f *frame) time.Duration {
	longest := 1
	for _, b := range f.base {
		l := b.tile
		if l == nil || !l.Covers(f.view.Zoom) {
			continue
		}
		n := len(tiles.TileRangeFor(f.view.PixelBounds, l.Size()).Addresses())
		batches := (n + max(c.opts.TileConcurrency, 1) - 1) / max(c.opts.TileConcurrency, 1)
		longest = max(longest, batches)
	}
	return c.opts.TaskTimeout * time.Duration(longest+1)
}
