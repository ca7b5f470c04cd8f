package snapshot

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olablt/mapsnap/tiles"
)

var (
	red    = color.RGBA{255, 0, 0, 255}
	green  = color.RGBA{0, 255, 0, 255}
	blue   = color.RGBA{0, 0, 255, 255}
	yellow = color.RGBA{255, 255, 0, 255}
	none   = color.RGBA{}
)

// fakeMap projects a LatLng straight onto pixel space: Lng is x, Lat is y.
type fakeMap struct {
	size     image.Point
	bounds   tiles.Bounds
	origin   tiles.Point
	zoom     int
	tileType string
	layers   []Layer
}

func newFakeMap(w, h int, layers ...Layer) *fakeMap {
	return &fakeMap{
		size:   image.Pt(w, h),
		bounds: tiles.Bounds{Min: tiles.Point{0, 0}, Max: tiles.Point{float64(w), float64(h)}},
		zoom:   3,
		layers: layers,
	}
}

func (m *fakeMap) Size() image.Point { return m.size }
func (m *fakeMap) PixelBounds() tiles.Bounds { return m.bounds }
func (m *fakeMap) PixelOrigin() tiles.Point { return m.origin }
func (m *fakeMap) Zoom() int { return m.zoom }
func (m *fakeMap) TileType() string { return m.tileType }

func (m *fakeMap) Project(ll tiles.LatLng) tiles.Point {
	return tiles.Point{ll.Lng, ll.Lat}
}

func (m *fakeMap) EachLayer(fn func(Layer)) {
	for _, l := range m.layers {
		fn(l)
	}
}

func at(x, y float64) tiles.LatLng {
	return tiles.LatLng{Lat: y, Lng: x}
}

func solid(c color.Color, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func pngDataURL(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// recordingFetcher serves images from a function and remembers every URL.
type recordingFetcher struct {
	serve func(url string) (image.Image, error)

	mu   sync.Mutex
	urls []string
}

func (f *recordingFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.serve(url)
}

func (f *recordingFetcher) URLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

var errNotFound = errors.New("404")

// taintedImage reports a read error, like a canvas that must not be read back.
type taintedImage struct {
	*image.RGBA
}

func (taintedImage) Err() error { return errors.New("surface is tainted") }

// explodingImage panics on every pixel read.
type explodingImage struct {
	r image.Rectangle
}

func (e explodingImage) ColorModel() color.Model { return color.RGBAModel }
func (e explodingImage) Bounds() image.Rectangle { return e.r }
func (e explodingImage) At(int, int) color.Color { panic("pixel read failed") }
