package snapshot

import (
	"time"

	"github.com/olablt/mapsnap/log"
	"github.com/olablt/mapsnap/tiles"
	"github.com/olablt/mapsnap/tiles/worker"
)

// Options tune a Compositor.
type Options struct {
	// Layer tasks in flight at once.
	LayerConcurrency int
	// Tile fetches in flight at once, per tile layer.
	TileConcurrency int
	// TaskTimeout bounds every tile, icon and layer task.
	TaskTimeout time.Duration
	// CacheBuster is appended to fetched URLs as cache=<value> when non-empty.
	CacheBuster string

	Fetcher tiles.Fetcher
	Logger  log.Logger
}

type Option func(*Options)

func defaultOptions() Options {
	return Options{
		LayerConcurrency: 1,
		TileConcurrency:  1,
		TaskTimeout:      worker.DefaultTimeout,
		Fetcher:          tiles.NewHTTPFetcher(nil, ""),
		Logger:           logger,
	}
}

func WithLayerConcurrency(n int) Option {
	return func(o *Options) { o.LayerConcurrency = n }
}

func WithTileConcurrency(n int) Option {
	return func(o *Options) { o.TileConcurrency = n }
}

func WithTaskTimeout(d time.Duration) Option {
	return func(o *Options) { o.TaskTimeout = d }
}

func WithCacheBuster(v string) Option {
	return func(o *Options) { o.CacheBuster = v }
}

func WithFetcher(f tiles.Fetcher) Option {
	return func(o *Options) {
		if f != nil {
			o.Fetcher = f
		}
	}
}

func WithLogger(l log.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
