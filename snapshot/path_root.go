package snapshot

import (
	"image"

	"github.com/olablt/mapsnap/tiles"
)

// renderCanvas copies a pre-rendered surface, such as the vector path root or
// a canvas overlay, into place. A surface that cannot be drawn is logged and
// left out.
func (c *Compositor) renderCanvas(view Viewport, name string, surface image.Image, position tiles.Point) (*Surface, error) {
	if surface == nil {
		return nil, nil
	}

	pos := tiles.WorldToOriginCanvas(position, view.PixelBounds, view.PixelOrigin)
	b := surface.Bounds()
	placement := Placement{X: pos.X(), Y: pos.Y(), Width: b.Dx(), Height: b.Dy()}

	probe := newCanvas(view.Size)
	if err := drawSafely(probe, placement.Rect(), surface); err != nil {
		c.log.Warningf("%s could not be drawn: %v", name, err)
		return nil, nil
	}
	return fullFrame(probe), nil
}
