package mapview

import (
	"image"
	"math"
	"sync"

	"github.com/olablt/mapsnap/snapshot"
	"github.com/olablt/mapsnap/tiles"
)

var _ snapshot.Map = (*MapView)(nil)

// MapView is an in-memory map: a centre, a zoom level, a viewport size and
// an ordered layer registry. It answers the geometry queries a snapshot needs
// the same way an interactive map would, including a pixel origin that only
// moves on zoom and pans that leave it in place.
type MapView struct {
	MinZoom  int
	MaxZoom  int
	tileType string

	mu     sync.RWMutex
	center tiles.LatLng
	zoom   int
	size   image.Point
	origin tiles.Point
	layers []snapshot.Layer
}

func New(center tiles.LatLng, zoom int, size image.Point) *MapView {
	mv := &MapView{
		MinZoom: 0,
		MaxZoom: 19,
		center:  center,
		zoom:    zoom,
		size:    size,
	}
	mv.resetOrigin()
	return mv
}

// SetTileType sets the value reported through snapshot.TileTyper.
func (mv *MapView) SetTileType(t string) {
	mv.mu.Lock()
	mv.tileType = t
	mv.mu.Unlock()
}

func (mv *MapView) TileType() string {
	mv.mu.RLock()
	defer mv.mu.RUnlock()
	return mv.tileType
}

func (mv *MapView) Size() image.Point {
	mv.mu.RLock()
	defer mv.mu.RUnlock()
	return mv.size
}

func (mv *MapView) Zoom() int {
	mv.mu.RLock()
	defer mv.mu.RUnlock()
	return mv.zoom
}

func (mv *MapView) Center() tiles.LatLng {
	mv.mu.RLock()
	defer mv.mu.RUnlock()
	return mv.center
}

func (mv *MapView) PixelOrigin() tiles.Point {
	mv.mu.RLock()
	defer mv.mu.RUnlock()
	return mv.origin
}

// PixelBounds returns the visible region in global pixel space.
func (mv *MapView) PixelBounds() tiles.Bounds {
	mv.mu.RLock()
	defer mv.mu.RUnlock()
	tl := mv.topLeft()
	return tiles.Bounds{
		Min: tl,
		Max: tiles.Point{tl.X() + float64(mv.size.X), tl.Y() + float64(mv.size.Y)},
	}
}

func (mv *MapView) Project(ll tiles.LatLng) tiles.Point {
	mv.mu.RLock()
	defer mv.mu.RUnlock()
	return tiles.Project(ll, mv.zoom, tiles.TileSize)
}

func (mv *MapView) EachLayer(fn func(snapshot.Layer)) {
	mv.mu.RLock()
	layers := append([]snapshot.Layer(nil), mv.layers...)
	mv.mu.RUnlock()
	for _, l := range layers {
		fn(l)
	}
}

// AddLayer appends l to the top of the layer registry.
func (mv *MapView) AddLayer(l snapshot.Layer) {
	mv.mu.Lock()
	mv.layers = append(mv.layers, l)
	mv.mu.Unlock()
}

// SetLayers replaces the layer registry.
func (mv *MapView) SetLayers(layers []snapshot.Layer) {
	mv.mu.Lock()
	mv.layers = append([]snapshot.Layer(nil), layers...)
	mv.mu.Unlock()
}

func (mv *MapView) SetSize(size image.Point) {
	mv.mu.Lock()
	defer mv.mu.Unlock()
	if mv.size != size {
		mv.size = size
		mv.resetOrigin()
	}
}

func (mv *MapView) SetView(center tiles.LatLng, zoom int) {
	mv.mu.Lock()
	defer mv.mu.Unlock()
	mv.center = center
	mv.zoom = mv.clampZoom(zoom)
	mv.resetOrigin()
}

// PanBy moves the view by a screen delta. The pixel origin stays put.
func (mv *MapView) PanBy(dx, dy float64) {
	mv.mu.Lock()
	defer mv.mu.Unlock()
	c := tiles.Project(mv.center, mv.zoom, tiles.TileSize)
	mv.center = tiles.Unproject(tiles.Point{c.X() + dx, c.Y() + dy}, mv.zoom, tiles.TileSize)
}

// ZoomAround changes the zoom by delta while keeping the geographical point
// under the screen position pos fixed.
func (mv *MapView) ZoomAround(pos image.Point, delta int) {
	mv.mu.Lock()
	defer mv.mu.Unlock()

	oldZoom := mv.zoom
	newZoom := mv.clampZoom(oldZoom + delta)
	if newZoom == oldZoom {
		return
	}

	// Get mouse position relative to screen center
	mouseOffsetX := float64(pos.X) - float64(mv.size.X)/2
	mouseOffsetY := float64(pos.Y) - float64(mv.size.Y)/2

	// Convert screen coordinates to world coordinates at current zoom
	world := tiles.Project(mv.center, oldZoom, tiles.TileSize)
	mouseWorldX := world.X() + mouseOffsetX
	mouseWorldY := world.Y() + mouseOffsetY

	// Scale to the new zoom and move the center so the mouse point stays put
	zoomFactor := math.Pow(2, float64(newZoom-oldZoom))
	newCenter := tiles.Point{
		mouseWorldX*zoomFactor - mouseOffsetX,
		mouseWorldY*zoomFactor - mouseOffsetY,
	}

	mv.zoom = newZoom
	mv.center = tiles.Unproject(newCenter, newZoom, tiles.TileSize)
	mv.resetOrigin()
}

func (mv *MapView) clampZoom(z int) int {
	return max(mv.MinZoom, min(z, mv.MaxZoom))
}

func (mv *MapView) topLeft() tiles.Point {
	c := tiles.Project(mv.center, mv.zoom, tiles.TileSize)
	return tiles.Point{
		math.Round(c.X() - float64(mv.size.X)/2),
		math.Round(c.Y() - float64(mv.size.Y)/2),
	}
}

func (mv *MapView) resetOrigin() {
	mv.origin = mv.topLeft()
}
