package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/olablt/mapsnap/scene"
	"github.com/olablt/mapsnap/snapshot"
)

// Describe the tiles and point markers visible in a scene.
func DescribeScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := scene.Load(ctx.Args().First())
	if err != nil {
		return err
	}

	info, err := snapshot.Describe(sc.MapView())
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Print(formatInfo(info))
	return nil
}

func formatInfo(info *snapshot.Info) string {
	var buf bytes.Buffer

	if t := info.Tiles; t != nil {
		table := tablewriter.NewWriter(&buf)
		table.SetAutoFormatHeaders(false)
		table.SetHeader([]string{"Type", "Zoom", "Left top tile", "Right bottom tile", "Viewport"})
		table.Append([]string{
			t.Type,
			fmt.Sprintf("%d", t.Zoom),
			fmt.Sprintf("%d,%d", t.LeftTop[0], t.LeftTop[1]),
			fmt.Sprintf("%d,%d", t.RightBottom[0], t.RightBottom[1]),
			fmt.Sprintf("%d,%d - %d,%d", t.Viewport.LeftTop[0], t.Viewport.LeftTop[1], t.Viewport.RightBottom[0], t.Viewport.RightBottom[1]),
		})
		table.Render()
	} else {
		buf.WriteString("no tile layer\n")
	}

	if len(info.MarkerList) > 0 {
		table := tablewriter.NewWriter(&buf)
		table.SetAutoFormatHeaders(false)
		table.SetHeader([]string{"X", "Y", "Size", "Color"})
		for _, m := range info.MarkerList {
			table.Append([]string{
				fmt.Sprintf("%d", m.X),
				fmt.Sprintf("%d", m.Y),
				fmt.Sprintf("%g", m.Size),
				m.BackgroundColor,
			})
		}
		table.Render()
	}

	return buf.String()
}
