package snapshot

import (
	"github.com/olablt/mapsnap/tiles"
)

// Info describes a snapshot without rendering it.
type Info struct {
	Tiles      *TileInfo    `json:"tiles"`
	MarkerList []MarkerInfo `json:"markerList"`
}

// TileInfo is the visible tile range of the first tile layer.
type TileInfo struct {
	Type        string       `json:"type"`
	LeftTop     [2]int       `json:"leftTop"`
	RightBottom [2]int       `json:"rightBottom"`
	Zoom        int          `json:"zoom"`
	Viewport    ViewportInfo `json:"viewport"`
}

// ViewportInfo is the viewport rectangle relative to the top-left visible tile.
type ViewportInfo struct {
	LeftTop     [2]int `json:"leftTop"`
	RightBottom [2]int `json:"rightBottom"`
}

// MarkerInfo is the screen position and look of one styled point marker.
type MarkerInfo struct {
	X               int     `json:"x"`
	Y               int     `json:"y"`
	Size            float64 `json:"size"`
	BackgroundColor string  `json:"backgroundColor"`
}

// Describe reads the tile range and point markers of m.
func Describe(m Map) (*Info, error) {
	d := &describer{
		m:    m,
		view: CaptureViewport(m),
		info: &Info{MarkerList: []MarkerInfo{}},
	}
	m.EachLayer(func(l Layer) {
		if d.err == nil {
			Visit(l, d)
		}
	})
	if d.err != nil {
		return nil, d.err
	}
	return d.info, nil
}

type describer struct {
	m    Map
	view Viewport
	info *Info
	err  error
}

func (d *describer) VisitTileLayer(l *TileLayer) {
	if d.info.Tiles != nil {
		return
	}
	ti, err := describeTiles(d.view, l)
	if err != nil {
		d.err = err
		return
	}
	d.info.Tiles = ti
}

func (d *describer) VisitCanvasOverlay(*CanvasOverlay) {}

func (d *describer) VisitPathRoot(*PathRoot) {}

func (d *describer) VisitBitmapMarker(*BitmapMarker) {}

func (d *describer) VisitStyledPointMarker(l *StyledPointMarker) {
	if !l.Element {
		return
	}
	pos := d.view.ToCanvas(d.m.Project(l.LatLng))
	height, err := ParseLength(l.Style.Height)
	if err != nil {
		logger.Warningf("point marker height %q: %v", l.Style.Height, err)
	}
	d.info.MarkerList = append(d.info.MarkerList, MarkerInfo{
		X:               int(pos.X()),
		Y:               int(pos.Y()),
		Size:            height / 2,
		BackgroundColor: NormalizeColor(l.Style.BackgroundColor),
	})
}

func describeTiles(view Viewport, l *TileLayer) (*TileInfo, error) {
	size := l.Size()
	rng := tiles.TileRangeFor(view.PixelBounds, size)

	leftTop, err := ParseTileURL(l.TileURL(rng.Min, view.Zoom))
	if err != nil {
		return nil, err
	}
	rightBottom, err := ParseTileURL(l.TileURL(rng.Max, view.Zoom))
	if err != nil {
		return nil, err
	}

	// The viewport's top-left corner relative to the top-left tile's corner.
	offset := view.ToCanvas(tiles.TileOrigin(rng.Min, size))
	vx, vy := int(-offset.X()), int(-offset.Y())

	return &TileInfo{
		Type:        view.TileType,
		LeftTop:     leftTop,
		RightBottom: rightBottom,
		Zoom:        view.Zoom,
		Viewport: ViewportInfo{
			LeftTop:     [2]int{vx, vy},
			RightBottom: [2]int{vx + view.Size.X, vy + view.Size.Y},
		},
	}, nil
}
