// Package scene loads a map description from TOML and turns it into a
// populated mapview.MapView.
//
//	[view]
//	center = [51.5072, -0.1275]
//	zoom = 12
//	size = [800, 600]
//	tile_type = "Normal"
//
//	[[tile_layer]]
//	url = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
//	max_zoom = 19
//	error_tile_url = "https://example.com/missing.png"
//
//	[[heatmap]]
//	points = [[51.50, -0.12], [51.501, -0.121]]
//	radius = 20
//	color = "rgba(255, 0, 0, 0.2)"
//
//	[[path]]
//	points = [[51.50, -0.13], [51.51, -0.12]]
//	color = "#3388ff"
//	width = 3
//
//	[[marker]]
//	lat = 51.5072
//	lng = -0.1275
//	icon = "https://example.com/pin.png"
//	icon_size = [25, 41]
//	icon_anchor = [12, 41]
//
//	[[point]]
//	lat = 51.51
//	lng = -0.11
//	height = "12px"
//	border_color = "#000"
//	background_color = "rgb(255, 0, 0)"
package scene

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/olablt/mapsnap/mapview"
	"github.com/olablt/mapsnap/snapshot"
	"github.com/olablt/mapsnap/tiles"
)

var ErrInvalidScene = errors.New("scene: invalid scene")

type Scene struct {
	View       View        `toml:"view"`
	TileLayers []TileLayer `toml:"tile_layer"`
	Heatmaps   []Heatmap   `toml:"heatmap"`
	Paths      []Path      `toml:"path"`
	Markers    []Marker    `toml:"marker"`
	Points     []Point     `toml:"point"`
}

type View struct {
	Center   [2]float64 `toml:"center"`
	Zoom     int        `toml:"zoom"`
	Size     [2]int     `toml:"size"`
	TileType string     `toml:"tile_type"`
	MinZoom  int        `toml:"min_zoom"`
	MaxZoom  int        `toml:"max_zoom"`
}

type TileLayer struct {
	URL          string `toml:"url"`
	Subdomains   string `toml:"subdomains"`
	TileSize     int    `toml:"tile_size"`
	MinZoom      int    `toml:"min_zoom"`
	MaxZoom      int    `toml:"max_zoom"`
	ErrorTileURL string `toml:"error_tile_url"`
	// TMS flips the row axis when fetching.
	TMS bool `toml:"tms"`
}

type Heatmap struct {
	Points [][2]float64 `toml:"points"`
	Radius float64      `toml:"radius"`
	Color  string       `toml:"color"`
}

type Path struct {
	Points [][2]float64 `toml:"points"`
	Color  string       `toml:"color"`
	Width  float64      `toml:"width"`
	Fill   string       `toml:"fill"`
	Closed bool         `toml:"closed"`
}

type Marker struct {
	Lat        float64 `toml:"lat"`
	Lng        float64 `toml:"lng"`
	Icon       string  `toml:"icon"`
	IconSize   []int   `toml:"icon_size"`
	IconAnchor []int   `toml:"icon_anchor"`
}

type Point struct {
	Lat             float64 `toml:"lat"`
	Lng             float64 `toml:"lng"`
	Height          string  `toml:"height"`
	BorderColor     string  `toml:"border_color"`
	BackgroundColor string  `toml:"background_color"`
	Hidden          bool    `toml:"hidden"`
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Parse decodes and validates a scene. Unknown keys are an error.
func Parse(data string) (*Scene, error) {
	s := &Scene{}
	md, err := toml.Decode(data, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidScene, strings.Join(keys, ", "))
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) validate() error {
	if s.View.Size[0] <= 0 || s.View.Size[1] <= 0 {
		return fmt.Errorf("%w: view.size must be positive, got %v", ErrInvalidScene, s.View.Size)
	}
	for i, l := range s.TileLayers {
		if l.URL == "" {
			return fmt.Errorf("%w: tile_layer %d has no url", ErrInvalidScene, i)
		}
	}
	for i, h := range s.Heatmaps {
		if len(h.Points) == 0 {
			return fmt.Errorf("%w: heatmap %d has no points", ErrInvalidScene, i)
		}
	}
	for i, m := range s.Markers {
		if len(m.IconSize) != 0 && len(m.IconSize) != 2 {
			return fmt.Errorf("%w: marker %d icon_size needs two values", ErrInvalidScene, i)
		}
		if len(m.IconAnchor) != 0 && len(m.IconAnchor) != 2 {
			return fmt.Errorf("%w: marker %d icon_anchor needs two values", ErrInvalidScene, i)
		}
	}
	for i, p := range s.Paths {
		if len(p.Points) < 2 {
			return fmt.Errorf("%w: path %d needs at least two points", ErrInvalidScene, i)
		}
	}
	return nil
}

// MapView creates a map positioned at the scene's view and fills its layers.
func (s *Scene) MapView() *mapview.MapView {
	v := s.View
	mv := mapview.New(
		tiles.LatLng{Lat: v.Center[0], Lng: v.Center[1]},
		v.Zoom,
		image.Point{X: v.Size[0], Y: v.Size[1]},
	)
	if v.MaxZoom > 0 {
		mv.MaxZoom = v.MaxZoom
	}
	mv.MinZoom = v.MinZoom
	mv.SetTileType(v.TileType)
	s.Apply(mv)
	return mv
}

// Apply replaces the layers of mv with the scene's layers. Heatmaps and
// vector paths are rasterised against the current view, so Apply has to run
// again after the view moved.
func (s *Scene) Apply(mv *mapview.MapView) {
	var layers []snapshot.Layer
	for _, l := range s.TileLayers {
		layers = append(layers, tileLayer(l, mv.Zoom()))
	}
	for i, h := range s.Heatmaps {
		overlay, err := renderHeatmap(mv, h)
		if err != nil {
			logger.Warningf("heatmap %d skipped: %v", i, err)
			continue
		}
		layers = append(layers, overlay)
	}
	if root := renderPaths(mv, s.Paths); root != nil {
		layers = append(layers, root)
	}
	for _, m := range s.Markers {
		layers = append(layers, bitmapMarker(m))
	}
	for _, p := range s.Points {
		layers = append(layers, &snapshot.StyledPointMarker{
			LatLng: tiles.LatLng{Lat: p.Lat, Lng: p.Lng},
			Style: snapshot.Style{
				Height:          p.Height,
				BorderColor:     p.BorderColor,
				BackgroundColor: p.BackgroundColor,
			},
			Element: !p.Hidden,
		})
	}
	mv.SetLayers(layers)
}

func tileLayer(l TileLayer, zoom int) *snapshot.TileLayer {
	tl := &snapshot.TileLayer{
		URLTemplate:  l.URL,
		Subdomains:   l.Subdomains,
		TileSize:     l.TileSize,
		MinZoom:      l.MinZoom,
		MaxZoom:      l.MaxZoom,
		ErrorTileURL: l.ErrorTileURL,
	}
	if l.TMS {
		tl.AdjustTile = func(t tiles.TileAddress) tiles.TileAddress {
			t.Y = (1 << zoom) - 1 - t.Y
			return t
		}
	}
	return tl
}

func bitmapMarker(m Marker) *snapshot.BitmapMarker {
	icon := snapshot.Icon{URL: m.Icon}
	if len(m.IconSize) == 2 {
		icon.Size = image.Point{X: m.IconSize[0], Y: m.IconSize[1]}
	}
	if len(m.IconAnchor) == 2 {
		icon.Anchor = &image.Point{X: m.IconAnchor[0], Y: m.IconAnchor[1]}
	}
	return &snapshot.BitmapMarker{
		LatLng: tiles.LatLng{Lat: m.Lat, Lng: m.Lng},
		Icon:   icon,
	}
}
