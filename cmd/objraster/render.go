package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"objraster/internal/config"
	"objraster/internal/renderer"
)

// Render a still frame.
func renderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	var settings config.Settings
	switch ctx.NArg() {
	case 0:
		if ctx.String("model") == "" {
			return errors.New("missing settings file or --model")
		}
	case 1:
		var err error
		settings, err = config.Load(ctx.Args().First())
		if err != nil {
			return err
		}
	default:
		return errors.New("render takes a single settings file; use batch for more")
	}

	settings.Resolve(config.Flags{
		Width:      ctx.Int("width"),
		Height:     ctx.Int("height"),
		ModelPath:  ctx.String("model"),
		ResultPath: ctx.String("out"),
	})

	r := renderer.New(settings, renderer.WithLogger(logger))
	if err := r.Init(); err != nil {
		return err
	}
	defer r.Destroy()

	r.Update()
	if err := r.Render(); err != nil {
		return err
	}

	displayFrameStats(r.Stats())
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Phase", "Time"})
	table.Append([]string{"clear", stats.ClearTime.String()})
	table.Append([]string{fmt.Sprintf("draw (%d shapes, %d triangles)", stats.Shapes, stats.Triangles), stats.DrawTime.String()})
	table.Append([]string{"save", stats.SaveTime.String()})
	table.SetFooter([]string{"TOTAL", stats.RenderTime().String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
