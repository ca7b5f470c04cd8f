package tiles

import (
	"context"
	"fmt"
	"image"
)

// Source tells where a tile image came from.
type Source int

const (
	FromPrimary Source = iota
	FromFallback
	FromPlaceholder
)

func (s Source) String() string {
	switch s {
	case FromPrimary:
		return "primary"
	case FromFallback:
		return "fallback"
	default:
		return "placeholder"
	}
}

// Placeholder returns a fully transparent 1x1 image, meant to be scaled to the
// footprint of a tile that could not be loaded.
func Placeholder() image.Image {
	return image.NewNRGBA(image.Rect(0, 0, 1, 1))
}

// FetchWithFallback loads url and, if that fails, retries once with
// fallbackURL when one is given. When both fail the transparent placeholder
// is returned together with the last error. The returned image is never nil.
func FetchWithFallback(ctx context.Context, f Fetcher, url, fallbackURL string) (image.Image, Source, error) {
	img, err := f.Fetch(ctx, url)
	if err == nil && img != nil {
		return img, FromPrimary, nil
	}
	if err == nil {
		err = fmt.Errorf("tiles: empty image for %s", url)
	}

	if fallbackURL != "" && ctx.Err() == nil {
		logger.Debugf("tile %s failed (%v); trying fallback %s", url, err, fallbackURL)
		fb, fbErr := f.Fetch(ctx, fallbackURL)
		if fbErr == nil && fb != nil {
			return fb, FromFallback, nil
		}
		if fbErr != nil {
			err = fmt.Errorf("%w; fallback: %v", err, fbErr)
		}
	}

	return Placeholder(), FromPlaceholder, err
}
