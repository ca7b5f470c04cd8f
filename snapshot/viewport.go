package snapshot

import (
	"image"

	"github.com/olablt/mapsnap/tiles"
)

// Viewport is the map geometry captured once at the start of a snapshot.
// Renderers only ever see this copy, never the live map.
type Viewport struct {
	Size        image.Point
	PixelBounds tiles.Bounds
	PixelOrigin tiles.Point
	Zoom        int
	TileType    string
}

// CaptureViewport reads the map geometry.
func CaptureViewport(m Map) Viewport {
	v := Viewport{
		Size:        m.Size(),
		PixelBounds: m.PixelBounds(),
		PixelOrigin: m.PixelOrigin(),
		Zoom:        m.Zoom(),
		TileType:    DefaultTileType,
	}
	if tt, ok := m.(TileTyper); ok {
		if t := tt.TileType(); t != "" {
			v.TileType = t
		}
	}
	return v
}

// ToCanvas converts a global pixel position to a viewport-relative one.
func (v Viewport) ToCanvas(p tiles.Point) tiles.Point {
	return tiles.WorldToCanvas(p, v.PixelBounds)
}

type placedBitmap struct {
	marker *BitmapMarker
	pos    tiles.Point
}

type placedPoint struct {
	marker *StyledPointMarker
	pos    tiles.Point
}

// baseLayer is either a tile layer or a canvas overlay; both composite at
// tile priority in enumeration order.
type baseLayer struct {
	tile    *TileLayer
	overlay *CanvasOverlay
}

// frame is everything a snapshot needs, read from the map in one pass and
// grouped by compositing priority.
type frame struct {
	view     Viewport
	base     []baseLayer
	pathRoot *PathRoot
	bitmaps  []placedBitmap
	points   []placedPoint
}

func capture(m Map) *frame {
	f := &frame{view: CaptureViewport(m)}
	c := &collector{m: m, f: f}
	m.EachLayer(func(l Layer) { Visit(l, c) })
	return f
}

type collector struct {
	m Map
	f *frame
}

func (c *collector) VisitTileLayer(l *TileLayer) {
	c.f.base = append(c.f.base, baseLayer{tile: l})
}

func (c *collector) VisitCanvasOverlay(l *CanvasOverlay) {
	if l.Surface != nil {
		c.f.base = append(c.f.base, baseLayer{overlay: l})
	}
}

func (c *collector) VisitPathRoot(l *PathRoot) {
	if c.f.pathRoot == nil && l.Surface != nil {
		c.f.pathRoot = l
	}
}

func (c *collector) VisitBitmapMarker(l *BitmapMarker) {
	if l.Icon.URL == "" {
		return
	}
	c.f.bitmaps = append(c.f.bitmaps, placedBitmap{
		marker: l,
		pos:    c.f.view.ToCanvas(c.m.Project(l.LatLng)),
	})
}

func (c *collector) VisitStyledPointMarker(l *StyledPointMarker) {
	if !l.Element {
		return
	}
	c.f.points = append(c.f.points, placedPoint{
		marker: l,
		pos:    c.f.view.ToCanvas(c.m.Project(l.LatLng)),
	})
}
