package scene

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/olablt/mapsnap/log"
	"github.com/olablt/mapsnap/mapview"
	"github.com/olablt/mapsnap/snapshot"
	"github.com/olablt/mapsnap/tiles"
)

var logger = log.New("scene")

// pathPadding extends the vector surface beyond the viewport on every side,
// as a fraction of the viewport size.
const pathPadding = 0.1

const defaultPathColor = "#3388ff"

// overlaySurface is a drawing context covering the viewport plus padding.
type overlaySurface struct {
	dc *gg.Context
	// Top-left of the surface in global pixel space.
	topLeft tiles.Point
	// Position of the surface relative to the pixel origin, like a DOM element
	// inside a pane that sits at the origin.
	position tiles.Point
}

func newOverlaySurface(mv *mapview.MapView) *overlaySurface {
	size := mv.Size()
	bounds := mv.PixelBounds()
	origin := mv.PixelOrigin()
	padX := math.Round(float64(size.X) * pathPadding)
	padY := math.Round(float64(size.Y) * pathPadding)

	topLeft := tiles.Point{bounds.Min.X() - padX, bounds.Min.Y() - padY}
	return &overlaySurface{
		dc:       gg.NewContext(size.X+int(2*padX), size.Y+int(2*padY)),
		topLeft:  topLeft,
		position: tiles.Point{topLeft.X() - origin.X(), topLeft.Y() - origin.Y()},
	}
}

// toSurface projects ll into surface pixels.
func (o *overlaySurface) toSurface(mv *mapview.MapView, ll [2]float64) (float64, float64) {
	w := mv.Project(tiles.LatLng{Lat: ll[0], Lng: ll[1]})
	return w.X() - o.topLeft.X(), w.Y() - o.topLeft.Y()
}

// renderPaths rasterises all paths onto one surface covering the viewport
// plus padding, positioned relative to the map's pixel origin. It returns nil
// when there is nothing to draw.
func renderPaths(mv *mapview.MapView, paths []Path) *snapshot.PathRoot {
	if len(paths) == 0 {
		return nil
	}

	o := newOverlaySurface(mv)
	defer o.dc.Close()
	o.dc.SetLineCap(gg.LineCapRound)
	o.dc.SetLineJoin(gg.LineJoinRound)

	for i, p := range paths {
		if err := drawPath(o, mv, p); err != nil {
			logger.Warningf("path %d skipped: %v", i, err)
			o.dc.ClearPath()
		}
	}

	return &snapshot.PathRoot{
		Surface:  o.dc.Image(),
		Position: o.position,
	}
}

func drawPath(o *overlaySurface, mv *mapview.MapView, p Path) error {
	dc := o.dc
	for i, ll := range p.Points {
		x, y := o.toSurface(mv, ll)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	if p.Closed {
		dc.ClosePath()
	}

	if p.Fill != "" {
		fill, err := snapshot.ParseColor(p.Fill)
		if err != nil {
			return err
		}
		dc.SetColor(fill)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
	}

	c := p.Color
	if c == "" {
		c = defaultPathColor
	}
	stroke, err := snapshot.ParseColor(c)
	if err != nil {
		return err
	}
	width := p.Width
	if width <= 0 {
		width = 3
	}
	dc.SetColor(stroke)
	dc.SetLineWidth(width)
	return dc.Stroke()
}
