package scene

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olablt/mapsnap/mapview"
	"github.com/olablt/mapsnap/snapshot"
	"github.com/olablt/mapsnap/tiles"
)

const sample = `
[view]
center = [51.5072, -0.1275]
zoom = 12
size = [320, 240]
tile_type = "Satellite"

[[tile_layer]]
url = "local://{z}/{x}/{y}"
tms = true
max_zoom = 18

[[heatmap]]
points = [[51.505, -0.125], [51.5052, -0.1252]]
radius = 15

[[path]]
points = [[51.50, -0.13], [51.51, -0.12], [51.50, -0.11]]
color = "#ff0000"
width = 4
closed = true

[[marker]]
lat = 51.5072
lng = -0.1275
icon = "https://example.com/pin.png"
icon_size = [25, 41]
icon_anchor = [12, 41]

[[point]]
lat = 51.51
lng = -0.11
height = "12px"
border_color = "#000"
background_color = "rgb(255, 0, 0)"

[[point]]
lat = 51.52
lng = -0.10
hidden = true
`

// kinds records the order of layer kinds seen by the visitor.
type kinds []string

func (k *kinds) VisitTileLayer(*snapshot.TileLayer) { *k = append(*k, "tiles") }
func (k *kinds) VisitCanvasOverlay(*snapshot.CanvasOverlay) { *k = append(*k, "overlay") }
func (k *kinds) VisitPathRoot(*snapshot.PathRoot) { *k = append(*k, "paths") }
func (k *kinds) VisitBitmapMarker(*snapshot.BitmapMarker) { *k = append(*k, "marker") }
func (k *kinds) VisitStyledPointMarker(*snapshot.StyledPointMarker) { *k = append(*k, "point") }

func TestParse(t *testing.T) {
	s, err := Parse(sample)
	require.NoError(t, err)

	assert.Equal(t, [2]int{320, 240}, s.View.Size)
	require.Len(t, s.TileLayers, 1)
	assert.True(t, s.TileLayers[0].TMS)
	require.Len(t, s.Markers, 1)
	assert.Equal(t, []int{12, 41}, s.Markers[0].IconAnchor)
	assert.Len(t, s.Points, 2)
}

func TestParseRejectsBadScenes(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "[view]\nsize = [1, 1]\nzoomm = 3\n",
		"no size":        "[view]\nzoom = 3\n",
		"tile layer url": "[view]\nsize = [1, 1]\n[[tile_layer]]\nmax_zoom = 3\n",
		"icon size":      "[view]\nsize = [1, 1]\n[[marker]]\nicon = \"x\"\nicon_size = [1]\n",
		"short path":     "[view]\nsize = [1, 1]\n[[path]]\npoints = [[1.0, 2.0]]\n",
		"empty heatmap":  "[view]\nsize = [1, 1]\n[[heatmap]]\nradius = 3.0\n",
		"not toml":       "[view\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(data)
			assert.ErrorIs(t, err, ErrInvalidScene)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, s.View.Zoom)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestMapView(t *testing.T) {
	s, err := Parse(sample)
	require.NoError(t, err)
	mv := s.MapView()

	assert.Equal(t, image.Pt(320, 240), mv.Size())
	assert.Equal(t, 12, mv.Zoom())
	assert.Equal(t, "Satellite", mv.TileType())

	var k kinds
	var layers []snapshot.Layer
	mv.EachLayer(func(l snapshot.Layer) {
		layers = append(layers, l)
		snapshot.Visit(l, &k)
	})
	assert.Equal(t, kinds{"tiles", "overlay", "paths", "marker", "point", "point"}, k)

	tl := layers[0].(*snapshot.TileLayer)
	require.NotNil(t, tl.AdjustTile)
	assert.Equal(t, tiles.TileAddress{X: 5, Y: 4095}, tl.AdjustTile(tiles.TileAddress{X: 5, Y: 0}))

	overlay := layers[1].(*snapshot.CanvasOverlay)
	assert.Equal(t, image.Rect(0, 0, 384, 288), overlay.Surface.Bounds())

	m := layers[3].(*snapshot.BitmapMarker)
	assert.Equal(t, image.Pt(25, 41), m.Icon.Size)
	assert.Equal(t, &image.Point{X: 12, Y: 41}, m.Icon.Anchor)

	assert.False(t, layers[5].(*snapshot.StyledPointMarker).Element)
}

func TestPathRootCoversPaddedViewport(t *testing.T) {
	s, err := Parse(sample)
	require.NoError(t, err)
	mv := s.MapView()

	root := renderPaths(mv, s.Paths)
	require.NotNil(t, root)
	assert.Equal(t, image.Rect(0, 0, 384, 288), root.Surface.Bounds())

	b, origin := mv.PixelBounds(), mv.PixelOrigin()
	pos := tiles.WorldToOriginCanvas(root.Position, b, origin)
	assert.InDelta(t, -32, pos.X(), 1e-9)
	assert.InDelta(t, -24, pos.Y(), 1e-9)

	assert.Nil(t, renderPaths(mv, nil))
}

func TestSceneSnapshot(t *testing.T) {
	s, err := Parse(sample)
	require.NoError(t, err)
	mv := s.MapView()

	c := snapshot.New(snapshot.WithFetcher(tiles.FetcherFunc(func(ctx context.Context, url string) (image.Image, error) {
		if url == "https://example.com/pin.png" {
			pin := image.NewRGBA(image.Rect(0, 0, 25, 41))
			draw.Draw(pin, pin.Bounds(), image.NewUniform(color.RGBA{0, 0, 255, 255}), image.Point{}, draw.Src)
			return pin, nil
		}
		return tiles.NewLocalFetcher(256).Fetch(ctx, url)
	})))
	img, stats, err := c.Render(context.Background(), mv)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 320, 240), img.Bounds())
	assert.Equal(t, 5, stats.Drawn())

	red := mv.Project(tiles.LatLng{Lat: 51.51, Lng: -0.11})
	b := mv.PixelBounds()
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(int(red.X()-b.Min.X()), int(red.Y()-b.Min.Y())))
}

func TestHeatmapBuildsUpIntensity(t *testing.T) {
	mv := mapviewFor(t)
	c := mv.Project(tiles.LatLng{Lat: 51.5072, Lng: -0.1275})
	ll := [2]float64{51.5072, -0.1275}

	single, err := renderHeatmap(mv, Heatmap{Points: [][2]float64{ll}, Radius: 10, Color: "rgba(255, 0, 0, 0.25)"})
	require.NoError(t, err)
	double, err := renderHeatmap(mv, Heatmap{Points: [][2]float64{ll, ll}, Radius: 10, Color: "rgba(255, 0, 0, 0.25)"})
	require.NoError(t, err)

	// Surface pixel of the centre: the surface starts one padding before the viewport.
	b := mv.PixelBounds()
	x, y := int(c.X()-b.Min.X())+32, int(c.Y()-b.Min.Y())+24
	_, _, _, a1 := single.Surface.At(x, y).RGBA()
	_, _, _, a2 := double.Surface.At(x, y).RGBA()
	assert.Greater(t, a1, uint32(0))
	assert.Greater(t, a2, a1)

	_, err = renderHeatmap(mv, Heatmap{Points: [][2]float64{ll}, Color: "not a colour"})
	assert.Error(t, err)
}

func mapviewFor(t *testing.T) *mapview.MapView {
	t.Helper()
	s, err := Parse(sample)
	require.NoError(t, err)
	return s.MapView()
}
