package snapshot

import (
	"errors"
	"fmt"
)

var (
	// ErrTileFetch marks a tile that could not be loaded from either its URL or
	// the layer's fallback. It is recovered with a transparent placeholder.
	ErrTileFetch = errors.New("snapshot: tile fetch failed")

	// ErrDrawSurface marks a source surface that could not be drawn. The
	// affected layer is left out of the snapshot.
	ErrDrawSurface = errors.New("snapshot: surface could not be drawn")

	// ErrMalformedTileURL is returned by Describe when tile coordinates cannot
	// be parsed from a tile URL.
	ErrMalformedTileURL = errors.New("snapshot: malformed tile url")

	// ErrSchedulerAggregate is reserved for task classes that must abort the
	// whole snapshot. No renderer currently produces it.
	ErrSchedulerAggregate = errors.New("snapshot: layer task aborted the snapshot")

	ErrNoViewport = errors.New("snapshot: viewport has no area")
)

// MalformedTileURLError reports which coordinate is missing from a tile URL.
type MalformedTileURLError struct {
	URL     string
	Missing string
}

func (e *MalformedTileURLError) Error() string {
	return fmt.Sprintf("snapshot: malformed tile url %q: missing %s", e.URL, e.Missing)
}

func (e *MalformedTileURLError) Unwrap() error {
	return ErrMalformedTileURL
}
