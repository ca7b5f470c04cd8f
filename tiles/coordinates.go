package tiles

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

const (
	TileSize = 256
)

// Point is a position in the map's global pixel space.
type Point = orb.Point

// Bounds is a min/max rectangle in the map's global pixel space.
type Bounds = orb.Bound

// LatLng represents a geographical point
type LatLng struct {
	Lat, Lng float64
}

// Orb returns the point in orb's lon/lat order.
func (ll LatLng) Orb() orb.Point {
	return orb.Point{ll.Lng, ll.Lat}
}

// TileAddress is a column/row pair in tile-grid space at the current zoom.
type TileAddress struct {
	X, Y int
}

// TileRange is an inclusive rectangle of tile addresses.
type TileRange struct {
	Min, Max TileAddress
}

// Addresses enumerates the range row by row, columns inner.
func (r TileRange) Addresses() []TileAddress {
	if r.Max.X < r.Min.X || r.Max.Y < r.Min.Y {
		return nil
	}
	out := make([]TileAddress, 0, (r.Max.X-r.Min.X+1)*(r.Max.Y-r.Min.Y+1))
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		for x := r.Min.X; x <= r.Max.X; x++ {
			out = append(out, TileAddress{X: x, Y: y})
		}
	}
	return out
}

// PixelToTile converts a global pixel position to the address of the tile containing it.
func PixelToTile(p Point, tileSize int) TileAddress {
	ts := float64(tileSize)
	return TileAddress{
		X: int(math.Floor(p.X() / ts)),
		Y: int(math.Floor(p.Y() / ts)),
	}
}

// TileRangeFor returns the inclusive range of tiles covering the pixel bounds.
func TileRangeFor(b Bounds, tileSize int) TileRange {
	a := PixelToTile(b.Min, tileSize)
	c := PixelToTile(b.Max, tileSize)
	return TileRange{
		Min: TileAddress{X: min(a.X, c.X), Y: min(a.Y, c.Y)},
		Max: TileAddress{X: max(a.X, c.X), Y: max(a.Y, c.Y)},
	}
}

// TileOrigin returns the global pixel position of the tile's top-left corner.
func TileOrigin(t TileAddress, tileSize int) Point {
	return Point{float64(t.X * tileSize), float64(t.Y * tileSize)}
}

// WorldToCanvas converts a global pixel position to a viewport-relative one.
func WorldToCanvas(p Point, b Bounds) Point {
	return Point{p.X() - b.Min.X(), p.Y() - b.Min.Y()}
}

// WorldToOriginCanvas is WorldToCanvas for layers positioned relative to the
// pixel origin, such as the vector path root.
func WorldToOriginCanvas(p Point, b Bounds, origin Point) Point {
	c := WorldToCanvas(p, b)
	return Point{c.X() + origin.X(), c.Y() + origin.Y()}
}

// Project converts geographical coordinates to world pixel coordinates at the given zoom level
func Project(ll LatLng, zoom int, tileSize int) Point {
	f := maptile.Fraction(ll.Orb(), maptile.Zoom(zoom))
	return Point{f.X() * float64(tileSize), f.Y() * float64(tileSize)}
}

// Unproject converts world pixel coordinates back to geographical coordinates
func Unproject(p Point, zoom int, tileSize int) LatLng {
	n := math.Pow(2, float64(zoom))
	lng := (p.X()/(float64(tileSize)*n))*360 - 180
	latRad := math.Pi * (1 - 2*p.Y()/(float64(tileSize)*n))
	lat := 180 / math.Pi * math.Atan(math.Sinh(latRad))
	return LatLng{Lat: lat, Lng: lng}
}
