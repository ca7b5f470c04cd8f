package mapview

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olablt/mapsnap/snapshot"
	"github.com/olablt/mapsnap/tiles"
)

var london = tiles.LatLng{Lat: 51.5072, Lng: -0.1275}

func TestPixelBounds(t *testing.T) {
	mv := New(london, 12, image.Pt(800, 600))
	b := mv.PixelBounds()

	assert.Equal(t, 800.0, b.Max.X()-b.Min.X())
	assert.Equal(t, 600.0, b.Max.Y()-b.Min.Y())
	assert.Equal(t, b.Min, mv.PixelOrigin())

	c := tiles.Project(london, 12, tiles.TileSize)
	assert.InDelta(t, c.X(), (b.Min.X()+b.Max.X())/2, 0.5)
	assert.InDelta(t, c.Y(), (b.Min.Y()+b.Max.Y())/2, 0.5)
}

func TestPanKeepsOrigin(t *testing.T) {
	mv := New(london, 10, image.Pt(400, 300))
	origin := mv.PixelOrigin()
	before := mv.PixelBounds()

	mv.PanBy(50, -20)

	assert.Equal(t, origin, mv.PixelOrigin())
	after := mv.PixelBounds()
	assert.InDelta(t, before.Min.X()+50, after.Min.X(), 1)
	assert.InDelta(t, before.Min.Y()-20, after.Min.Y(), 1)
}

func TestZoomAroundKeepsPointUnderCursor(t *testing.T) {
	mv := New(london, 10, image.Pt(400, 300))
	cursor := image.Pt(300, 100)

	b := mv.PixelBounds()
	under := tiles.Unproject(tiles.Point{b.Min.X() + 300, b.Min.Y() + 100}, 10, tiles.TileSize)

	mv.ZoomAround(cursor, 1)
	assert.Equal(t, 11, mv.Zoom())

	p := mv.Project(under)
	b = mv.PixelBounds()
	assert.InDelta(t, 300, p.X()-b.Min.X(), 2)
	assert.InDelta(t, 100, p.Y()-b.Min.Y(), 2)
	assert.Equal(t, b.Min, mv.PixelOrigin())
}

func TestZoomIsClamped(t *testing.T) {
	mv := New(london, 3, image.Pt(100, 100))
	mv.MinZoom, mv.MaxZoom = 2, 4

	mv.ZoomAround(image.Pt(50, 50), 5)
	assert.Equal(t, 4, mv.Zoom())
	mv.SetView(london, -3)
	assert.Equal(t, 2, mv.Zoom())
}

func TestLayers(t *testing.T) {
	mv := New(london, 3, image.Pt(100, 100))
	tl := &snapshot.TileLayer{URLTemplate: "t/{z}/{x}/{y}"}
	pm := &snapshot.StyledPointMarker{LatLng: london, Element: true}
	mv.AddLayer(tl)
	mv.AddLayer(pm)

	var seen []snapshot.Layer
	mv.EachLayer(func(l snapshot.Layer) {
		// Mutating the registry while iterating must not deadlock.
		mv.AddLayer(nil)
		seen = append(seen, l)
	})
	assert.Equal(t, []snapshot.Layer{tl, pm}, seen)

	mv.SetLayers([]snapshot.Layer{pm})
	seen = nil
	mv.EachLayer(func(l snapshot.Layer) { seen = append(seen, l) })
	assert.Equal(t, []snapshot.Layer{pm}, seen)
}

func TestTileType(t *testing.T) {
	mv := New(london, 3, image.Pt(100, 100))
	mv.SetTileType("Satellite")
	assert.Equal(t, "Satellite", snapshot.CaptureViewport(mv).TileType)
}
