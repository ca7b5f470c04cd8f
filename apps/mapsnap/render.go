package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/signal"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/olablt/mapsnap/scene"
	"github.com/olablt/mapsnap/snapshot"
)

// Render a scene into a PNG file.
func RenderSnapshot(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := scene.Load(ctx.Args().First())
	if err != nil {
		return err
	}
	mv := sc.MapView()

	comp := snapshot.New(
		snapshot.WithLayerConcurrency(ctx.Int("layer-concurrency")),
		snapshot.WithTileConcurrency(ctx.Int("tile-concurrency")),
		snapshot.WithTaskTimeout(ctx.Duration("timeout")),
		snapshot.WithCacheBuster(ctx.String("cache-buster")),
		snapshot.WithFetcher(newFetcher(ctx.Bool("offline"), ctx.Duration("timeout"))),
	)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	img, stats, err := comp.Render(runCtx, mv)
	if err != nil {
		return err
	}

	out := ctx.String("out")
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	displayLayerStats(stats)
	logger.Noticef("wrote %dx%d snapshot to %s", img.Bounds().Dx(), img.Bounds().Dy(), out)
	return nil
}

func displayLayerStats(stats *snapshot.Stats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Layer", "Drawn", "Render time", "Error"})
	for _, l := range stats.Layers {
		errText := ""
		if l.Err != nil {
			errText = l.Err.Error()
		}
		table.Append([]string{
			l.Name,
			fmt.Sprintf("%t", l.Drawn),
			l.Elapsed.String(),
			errText,
		})
	}
	table.SetFooter([]string{"", fmt.Sprintf("%d/%d", stats.Drawn(), len(stats.Layers)), stats.Elapsed.String(), ""})

	table.Render()
	logger.Noticef("layer statistics\n%s", buf.String())
}
