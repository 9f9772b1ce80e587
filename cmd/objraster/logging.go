package main

import (
	"github.com/urfave/cli"

	"objraster/internal/log"
)

var logger = log.New("objraster")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
