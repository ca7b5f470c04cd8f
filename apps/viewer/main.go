package main

import (
	"context"
	"flag"
	"image"
	"os"
	"strings"
	"sync"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"github.com/olablt/mapsnap/log"
	"github.com/olablt/mapsnap/mapview"
	"github.com/olablt/mapsnap/scene"
	"github.com/olablt/mapsnap/snapshot"
	"github.com/olablt/mapsnap/tiles"
)

var logger = log.New("viewer")

// viewer shows the latest snapshot of a scene and re-renders it whenever the
// view is dragged, zoomed or resized.
type viewer struct {
	scene *scene.Scene
	mv    *mapview.MapView
	comp  *snapshot.Compositor

	mu    sync.Mutex
	frame *image.RGBA

	refresh  chan struct{}
	dragging bool
	lastPos  f32.Point
}

func main() {
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Parse()
	if *verbose {
		log.SetLevel(log.Debug)
	}
	if flag.NArg() != 1 {
		logger.Error("usage: viewer [-v] scene.toml")
		os.Exit(2)
	}

	sc, err := scene.Load(flag.Arg(0))
	if err != nil {
		logger.Error(err)
		os.Exit(1)
	}

	v := &viewer{
		scene: sc,
		mv:    sc.MapView(),
		comp: snapshot.New(
			snapshot.WithTileConcurrency(4),
			snapshot.WithFetcher(tiles.FetcherFunc(fetch)),
		),
		refresh: make(chan struct{}, 1),
	}

	go func() {
		w := new(app.Window)
		w.Option(
			app.Title("mapsnap viewer"),
			app.Size(unit.Dp(float32(sc.View.Size[0])), unit.Dp(float32(sc.View.Size[1]))),
		)
		go v.renderLoop(w)
		if err := v.loop(w); err != nil {
			logger.Error(err)
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
}

var (
	localTiles = tiles.NewLocalFetcher(tiles.TileSize)
	httpTiles  = tiles.NewHTTPFetcher(nil, "mapsnap-viewer/0.1")
)

func fetch(ctx context.Context, url string) (image.Image, error) {
	if strings.HasPrefix(url, tiles.LocalScheme+"://") {
		return localTiles.Fetch(ctx, url)
	}
	return httpTiles.Fetch(ctx, url)
}

func (v *viewer) loop(w *app.Window) error {
	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			v.layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (v *viewer) layout(gtx layout.Context) layout.Dimensions {
	tag := v
	size := gtx.Constraints.Max

	changed := false
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  tag,
			Kinds:   pointer.Scroll | pointer.Drag | pointer.Press | pointer.Release | pointer.Cancel,
			ScrollY: pointer.ScrollRange{Min: -10, Max: 10},
		})
		if !ok {
			break
		}
		x, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch x.Kind {
		case pointer.Press:
			v.dragging = true
			v.lastPos = x.Position
		case pointer.Drag:
			if v.dragging {
				d := x.Position.Sub(v.lastPos)
				v.mv.PanBy(-float64(d.X), -float64(d.Y))
				v.lastPos = x.Position
				changed = true
			}
		case pointer.Release, pointer.Cancel:
			v.dragging = false
		case pointer.Scroll:
			pos := image.Point{X: int(x.Position.X), Y: int(x.Position.Y)}
			if x.Scroll.Y < 0 {
				v.mv.ZoomAround(pos, 1)
			} else if x.Scroll.Y > 0 {
				v.mv.ZoomAround(pos, -1)
			}
			changed = true
		}
	}

	if v.mv.Size() != size {
		v.mv.SetSize(size)
		changed = true
	}
	if changed {
		v.requestRender()
	}

	// Confine the area of interest to the window and declare tag as a target.
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, tag)

	v.mu.Lock()
	frame := v.frame
	v.mu.Unlock()
	if frame != nil {
		paint.NewImageOp(frame).Add(gtx.Ops)
		paint.PaintOp{}.Add(gtx.Ops)
	}
	return layout.Dimensions{Size: size}
}

func (v *viewer) requestRender() {
	select {
	case v.refresh <- struct{}{}:
	default:
	}
}

// renderLoop rebuilds the scene layers for the current view and snapshots it,
// coalescing bursts of view changes into one render.
func (v *viewer) renderLoop(w *app.Window) {
	v.requestRender()
	for range v.refresh {
		v.scene.Apply(v.mv)
		img, err := v.comp.Snapshot(context.Background(), v.mv)
		if err != nil {
			logger.Warningf("snapshot failed: %v", err)
			continue
		}
		v.mu.Lock()
		v.frame = img
		v.mu.Unlock()
		w.Invalidate()
	}
}
