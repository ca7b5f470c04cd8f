package main

import (
	"os"
	"time"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "mapsnap"
	app.Usage = "render static snapshots of map scenes"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to a PNG image",
			Description: `
Load a TOML scene description, fetch its tiles and marker icons and composite
tile layers, vector paths and markers into one image the size of the view.

Tiles that cannot be loaded are left transparent; the snapshot still completes.`,
			ArgsUsage: "scene.toml",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Value: "snapshot.png",
					Usage: "image filename for the rendered snapshot",
				},
				cli.IntFlag{
					Name:  "layer-concurrency",
					Value: 1,
					Usage: "layer tasks rendered at the same time",
				},
				cli.IntFlag{
					Name:  "tile-concurrency",
					Value: 4,
					Usage: "tile fetches in flight per tile layer",
				},
				cli.DurationFlag{
					Name:  "timeout",
					Value: 10 * time.Second,
					Usage: "timeout for a single tile or icon fetch",
				},
				cli.StringFlag{
					Name:  "cache-buster",
					Usage: "value appended to fetched urls as cache=<value>",
				},
				cli.BoolFlag{
					Name:  "offline",
					Usage: "only serve local:// tiles, never touch the network",
				},
			},
			Action: RenderSnapshot,
		},
		{
			Name:      "info",
			Usage:     "describe the visible tiles and point markers of a scene",
			ArgsUsage: "scene.toml",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "json",
					Usage: "print the description as JSON",
				},
			},
			Action: DescribeScene,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
