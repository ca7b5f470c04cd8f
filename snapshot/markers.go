package snapshot

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"

	"github.com/olablt/mapsnap/tiles"
)

// markerStrokeWidth is the outline width of styled point markers.
const markerStrokeWidth = 0.5

// renderBitmapMarker draws the marker icon so that its anchor sits on the
// projected marker position.
func (c *Compositor) renderBitmapMarker(ctx context.Context, p placedBitmap, loader *tiles.Loader) (*Surface, error) {
	icon := p.marker.Icon
	ctx, cancel := context.WithTimeout(ctx, c.opts.TaskTimeout)
	defer cancel()
	img, err := loader.Load(ctx, icon.URL)
	if err != nil {
		c.log.Warningf("marker icon %s not loaded: %v", truncateURL(icon.URL), err)
		return nil, nil
	}

	size := icon.Size
	if size.X <= 0 || size.Y <= 0 {
		size = img.Bounds().Size()
	}
	anchor := image.Point{
		X: int(math.Round(float64(size.X) / 2)),
		Y: int(math.Round(float64(size.Y) / 2)),
	}
	if icon.Anchor != nil {
		anchor = *icon.Anchor
	}

	placement := Placement{
		X:      math.Round(p.pos.X() - float64(anchor.X)),
		Y:      math.Round(p.pos.Y() - float64(anchor.Y)),
		Width:  size.X,
		Height: size.Y,
	}

	canvas := newCanvas(size)
	if err := drawSafely(canvas, canvas.Bounds(), img); err != nil {
		c.log.Warningf("marker icon %s not drawn: %v", truncateURL(icon.URL), err)
		return nil, nil
	}
	return &Surface{Image: canvas, Placement: placement}, nil
}

// renderStyledPoints draws every styled point marker as a filled, outlined
// circle on one shared surface.
func (c *Compositor) renderStyledPoints(view Viewport, points []placedPoint) (*Surface, error) {
	if len(points) == 0 {
		return nil, nil
	}

	dc := gg.NewContext(view.Size.X, view.Size.Y)
	defer dc.Close()

	drawn := 0
	for _, p := range points {
		if err := drawPoint(dc, p); err != nil {
			c.log.Warningf("point marker at %.1f,%.1f skipped: %v", p.pos.X(), p.pos.Y(), err)
			dc.ClearPath()
			continue
		}
		drawn++
	}
	if drawn == 0 {
		return nil, nil
	}
	return fullFrame(dc.Image()), nil
}

func drawPoint(dc *gg.Context, p placedPoint) error {
	style := p.marker.Style
	height, err := ParseLength(style.Height)
	if err != nil {
		return err
	}
	radius := height / 2
	if radius <= 0 {
		return nil
	}

	// Both colours are resolved before anything is painted.
	var fill, stroke color.Color
	if style.BackgroundColor != "" {
		if fill, err = ParseColor(style.BackgroundColor); err != nil {
			return err
		}
	}
	if style.BorderColor != "" {
		if stroke, err = ParseColor(style.BorderColor); err != nil {
			return err
		}
	}

	dc.DrawCircle(p.pos.X(), p.pos.Y(), radius)
	if fill != nil {
		dc.SetColor(fill)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
	}
	if stroke != nil {
		dc.SetColor(stroke)
		dc.SetLineWidth(markerStrokeWidth)
		if err := dc.StrokePreserve(); err != nil {
			return err
		}
	}
	dc.ClearPath()
	return nil
}

func truncateURL(u string) string {
	if len(u) > 64 {
		return u[:61] + "..."
	}
	return u
}
