package tiles

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelToTile(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		size int
		want TileAddress
	}{
		{"origin", Point{0, 0}, 256, TileAddress{0, 0}},
		{"inside first tile", Point{255.9, 10}, 256, TileAddress{0, 0}},
		{"tile edge", Point{256, 512}, 256, TileAddress{1, 2}},
		{"negative floors down", Point{-0.5, -257}, 256, TileAddress{-1, -2}},
		{"small tiles", Point{130, 70}, 64, TileAddress{2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PixelToTile(tt.p, tt.size))
		})
	}
}

func TestTileRangeFor(t *testing.T) {
	r := TileRangeFor(Bounds{Min: Point{300, 600}, Max: Point{700, 900}}, 256)
	assert.Equal(t, TileRange{Min: TileAddress{1, 2}, Max: TileAddress{2, 3}}, r)

	// Swapped corners are normalized.
	swapped := TileRangeFor(Bounds{Min: Point{700, 900}, Max: Point{300, 600}}, 256)
	assert.Equal(t, r, swapped)
}

func TestTileRangeAddressesRowMajor(t *testing.T) {
	r := TileRange{Min: TileAddress{1, 2}, Max: TileAddress{2, 3}}
	assert.Equal(t, []TileAddress{{1, 2}, {2, 2}, {1, 3}, {2, 3}}, r.Addresses())

	assert.Empty(t, TileRange{Min: TileAddress{2, 0}, Max: TileAddress{1, 0}}.Addresses())
}

func TestWorldToCanvas(t *testing.T) {
	b := Bounds{Min: Point{100, 50}, Max: Point{500, 350}}
	assert.Equal(t, Point{-36, 14}, WorldToCanvas(TileOrigin(TileAddress{1, 1}, 64), b))
	assert.Equal(t, Point{-72, -36}, WorldToOriginCanvas(Point{0, 0}, b, Point{28, 14}))
}

func TestProjectRoundTrip(t *testing.T) {
	ll := LatLng{Lat: 51.507222, Lng: -0.1275}
	for _, zoom := range []int{0, 5, 12, 18} {
		p := Project(ll, zoom, TileSize)
		back := Unproject(p, zoom, TileSize)
		assert.InDelta(t, ll.Lat, back.Lat, 1e-6, "zoom %d", zoom)
		assert.InDelta(t, ll.Lng, back.Lng, 1e-6, "zoom %d", zoom)
	}

	// Null island sits in the middle of the world.
	p := Project(LatLng{}, 1, TileSize)
	assert.InDelta(t, 256, p.X(), 1e-9)
	assert.InDelta(t, 256, p.Y(), 1e-9)
}

func TestProjectMatchesTileMath(t *testing.T) {
	// London at zoom 12 lies in tile 2046/1362.
	p := Project(LatLng{Lat: 51.507222, Lng: -0.1275}, 12, TileSize)
	tile := PixelToTile(p, TileSize)
	require.Equal(t, TileAddress{2046, 1362}, tile)
	assert.False(t, math.IsNaN(p.X()))
}

func TestExpandTemplate(t *testing.T) {
	url := ExpandTemplate("https://{s}.tile.example.com/{z}/{x}/{y}.png", TileAddress{3, 4}, 5, "abc")
	assert.Equal(t, "https://b.tile.example.com/5/3/4.png", url)

	// The subdomain follows |x+y|, so negative columns still rotate.
	assert.Equal(t, "https://b.example.com/0/-1/2", ExpandTemplate("https://{s}.example.com/{z}/{x}/{y}", TileAddress{-1, 2}, 0, "abc"))
	assert.Equal(t, "https://a.example.com/0/-4/1", ExpandTemplate("https://{s}.example.com/{z}/{x}/{y}", TileAddress{-4, 1}, 0, "abc"))

	url = ExpandTemplate("https://t.example.com/tiles?x={x}&y={y}&z={z}", TileAddress{-1, 2}, 7, "")
	assert.Equal(t, "https://t.example.com/tiles?x=-1&y=2&z=7", url)
}

func TestAddCacheBuster(t *testing.T) {
	assert.Equal(t, "https://a/t.png?cache=42", AddCacheBuster("https://a/t.png", "42"))
	assert.Equal(t, "https://a/t?x=1&cache=42", AddCacheBuster("https://a/t?x=1", "42"))
	assert.Equal(t, "https://a/t.png", AddCacheBuster("https://a/t.png", ""))
	assert.Equal(t, "https://api.mapbox.com/styles/v1/u/s/tiles/1/2/3", AddCacheBuster("https://api.mapbox.com/styles/v1/u/s/tiles/1/2/3", "42"))
	assert.Equal(t, "data:image/png;base64,AAAA", AddCacheBuster("data:image/png;base64,AAAA", "42"))
}
