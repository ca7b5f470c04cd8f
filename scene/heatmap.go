package scene

import (
	"github.com/olablt/mapsnap/mapview"
	"github.com/olablt/mapsnap/snapshot"
)

const (
	defaultHeatRadius = 25
	defaultHeatColor  = "rgba(255, 0, 0, 0.2)"
)

// renderHeatmap draws every heat point as a translucent disc, so overlapping
// points build up intensity. The result stacks with the tile layers.
func renderHeatmap(mv *mapview.MapView, h Heatmap) (*snapshot.CanvasOverlay, error) {
	c := h.Color
	if c == "" {
		c = defaultHeatColor
	}
	fill, err := snapshot.ParseColor(c)
	if err != nil {
		return nil, err
	}
	radius := h.Radius
	if radius <= 0 {
		radius = defaultHeatRadius
	}

	o := newOverlaySurface(mv)
	defer o.dc.Close()
	o.dc.SetColor(fill)
	for _, p := range h.Points {
		x, y := o.toSurface(mv, p)
		o.dc.DrawCircle(x, y, radius)
		if err := o.dc.Fill(); err != nil {
			return nil, err
		}
	}

	return &snapshot.CanvasOverlay{
		Surface:  o.dc.Image(),
		Position: o.position,
	}, nil
}
