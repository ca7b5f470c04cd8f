package main

import (
	"github.com/olablt/mapsnap/log"
	"github.com/urfave/cli"
)

var logger = log.New("mapsnap")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
