package snapshot

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Placement is where a surface lands on the output, in viewport pixels.
type Placement struct {
	X, Y          float64
	Width, Height int
}

// Rect returns the destination rectangle. Sub-pixel positions are floored.
func (p Placement) Rect() image.Rectangle {
	x := int(math.Floor(p.X))
	y := int(math.Floor(p.Y))
	return image.Rect(x, y, x+p.Width, y+p.Height)
}

// Surface is the output of one layer renderer. A nil *Surface means the
// layer had nothing to draw.
type Surface struct {
	Image     image.Image
	Placement Placement
}

// fullFrame places an image covering the whole viewport.
func fullFrame(img image.Image) *Surface {
	b := img.Bounds()
	return &Surface{
		Image:     img,
		Placement: Placement{Width: b.Dx(), Height: b.Dy()},
	}
}

// newCanvas allocates a transparent surface of the given size.
func newCanvas(size image.Point) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
}

// drawSafely composites src over dst inside r, scaling when the sizes differ.
// A nil or empty source, a source reporting an error through an
// Err() method, or a panic while reading pixels yields ErrDrawSurface.
func drawSafely(dst draw.Image, r image.Rectangle, src image.Image) (err error) {
	if src == nil {
		return fmt.Errorf("%w: nil source", ErrDrawSurface)
	}
	if t, ok := src.(interface{ Err() error }); ok {
		if e := t.Err(); e != nil {
			return fmt.Errorf("%w: %v", ErrDrawSurface, e)
		}
	}
	sr := src.Bounds()
	if sr.Empty() || r.Empty() {
		return fmt.Errorf("%w: empty source or destination", ErrDrawSurface)
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrDrawSurface, p)
		}
	}()

	if sr.Size() == r.Size() {
		draw.Draw(dst, r, src, sr.Min, draw.Over)
		return nil
	}
	draw.ApproxBiLinear.Scale(dst, r, src, sr, draw.Over, nil)
	return nil
}
