package tiles

import (
	"context"
	"image"
)

// Loader resolves image URLs for one snapshot. Inline data URLs are decoded
// synchronously, everything else goes through the Fetcher with the cache
// buster applied. Successful loads are memoised for the Loader's lifetime.
type Loader struct {
	fetcher     Fetcher
	cacheBuster string
	cache       *ImageCache
}

func NewLoader(fetcher Fetcher, cacheBuster string) *Loader {
	return &Loader{
		fetcher:     fetcher,
		cacheBuster: cacheBuster,
		cache:       NewImageCache(),
	}
}

// URL returns the URL that will actually be requested for u.
func (l *Loader) URL(u string) string {
	return AddCacheBuster(u, l.cacheBuster)
}

// Fetcher returns the underlying Fetcher. URLs passed to it are requested
// as is; use URL to add the cache buster.
func (l *Loader) Fetcher() Fetcher {
	return l.fetcher
}

// Load returns the image behind u.
func (l *Loader) Load(ctx context.Context, u string) (image.Image, error) {
	if img, ok := l.cache.Get(u); ok {
		return img, nil
	}

	var (
		img image.Image
		err error
	)
	if IsDataURL(u) {
		img, err = DecodeDataURL(u)
	} else {
		img, err = l.fetcher.Fetch(ctx, l.URL(u))
	}
	if err != nil {
		return nil, err
	}

	l.cache.Set(u, img)
	return img, nil
}
