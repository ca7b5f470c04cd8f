package snapshot

import (
	"image"

	"github.com/olablt/mapsnap/tiles"
)

// Map is the read-only view of a live map that a snapshot is taken from.
type Map interface {
	// Size of the viewport in device pixels.
	Size() image.Point
	// PixelBounds of the visible world region in global pixel space.
	PixelBounds() tiles.Bounds
	PixelOrigin() tiles.Point
	Zoom() int
	// Project converts a geographical position to global pixel space at the current zoom.
	Project(ll tiles.LatLng) tiles.Point
	// EachLayer visits the layers in stacking enumeration order.
	EachLayer(fn func(Layer))
}

// TileTyper is implemented by maps that know the flavour of their base tiles,
// for example "Satellite" or "Normal".
type TileTyper interface {
	TileType() string
}

// DefaultTileType is reported when the map does not implement TileTyper.
const DefaultTileType = "Normal"

// Layer is one of *TileLayer, *CanvasOverlay, *PathRoot, *BitmapMarker or
// *StyledPointMarker.
// The set is closed: adding a kind means adding a method to LayerVisitor,
// which every consumer then has to implement.
type Layer interface {
	accept(v LayerVisitor)
}

// LayerVisitor dispatches on the concrete layer kind.
type LayerVisitor interface {
	VisitTileLayer(l *TileLayer)
	VisitCanvasOverlay(l *CanvasOverlay)
	VisitPathRoot(l *PathRoot)
	VisitBitmapMarker(l *BitmapMarker)
	VisitStyledPointMarker(l *StyledPointMarker)
}

// Visit dispatches l to the matching method of v.
func Visit(l Layer, v LayerVisitor) {
	if l != nil {
		l.accept(v)
	}
}

// TileLayer is a raster layer made of fixed-size tiles.
type TileLayer struct {
	// URLTemplate uses {x}, {y}, {z} and {s} placeholders.
	URLTemplate string
	Subdomains  string
	// TileSize in pixels; zero means tiles.TileSize.
	TileSize int
	MinZoom  int
	// MaxZoom of zero leaves the layer unbounded above.
	MaxZoom int
	// ErrorTileURL is tried once when a tile fails to load.
	ErrorTileURL string
	// AdjustTile rewrites the address used for fetching. Tiles are still
	// placed at their unadjusted address.
	AdjustTile func(t tiles.TileAddress) tiles.TileAddress
	// Rendered supplies already-drawn tiles, bypassing the fetcher.
	Rendered func(t tiles.TileAddress) image.Image
}

func (l *TileLayer) accept(v LayerVisitor) { v.VisitTileLayer(l) }

func (l *TileLayer) Size() int {
	if l.TileSize <= 0 {
		return tiles.TileSize
	}
	return l.TileSize
}

// Covers reports whether the layer has tiles at the given zoom.
func (l *TileLayer) Covers(zoom int) bool {
	if zoom < l.MinZoom {
		return false
	}
	return l.MaxZoom == 0 || zoom <= l.MaxZoom
}

// TileURL returns the URL of the tile at t for the given zoom.
func (l *TileLayer) TileURL(t tiles.TileAddress, zoom int) string {
	return tiles.ExpandTemplate(l.URLTemplate, t, zoom, l.Subdomains)
}

// CanvasOverlay is a pre-rendered surface that stacks with the tile layers,
// such as a heatmap. Any number of overlays may exist; each keeps its place
// among the tile layers.
type CanvasOverlay struct {
	Surface image.Image
	// Position of the surface relative to the pixel origin.
	Position tiles.Point
}

func (l *CanvasOverlay) accept(v LayerVisitor) { v.VisitCanvasOverlay(l) }

// PathRoot is the single pre-rendered surface holding every vector path.
type PathRoot struct {
	// Surface is nil when there are no paths.
	Surface image.Image
	// Position of the surface relative to the pixel origin.
	Position tiles.Point
}

func (l *PathRoot) accept(v LayerVisitor) { v.VisitPathRoot(l) }

// Icon describes an image-backed marker icon.
type Icon struct {
	URL string
	// Size to draw the icon at; zero uses the image's own size.
	Size image.Point
	// Anchor is the icon pixel placed on the marker position. Nil means the centre.
	Anchor *image.Point
}

// BitmapMarker is a point drawn with an image icon.
type BitmapMarker struct {
	LatLng tiles.LatLng
	Icon   Icon
}

func (l *BitmapMarker) accept(v LayerVisitor) { v.VisitBitmapMarker(l) }

// Style holds the computed on-screen style of a point marker.
type Style struct {
	Height          string
	BorderColor     string
	BackgroundColor string
}

// StyledPointMarker is a point drawn as a circle from its style alone.
type StyledPointMarker struct {
	LatLng tiles.LatLng
	Style  Style
	// Element is false when the marker has no on-screen element.
	Element bool
}

func (l *StyledPointMarker) accept(v LayerVisitor) { v.VisitStyledPointMarker(l) }
