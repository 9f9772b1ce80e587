package main

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"objraster/internal/batch"
	"objraster/internal/config"
)

// Render every settings file given on the command line.
func renderBatch(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing settings file arguments")
	}
	paths := []string(ctx.Args())

	cfg := batch.Config{
		Overrides: config.Flags{
			Width:  ctx.Int("width"),
			Height: ctx.Int("height"),
		},
		Workers: ctx.Int("workers"),
		Logger:  logger,
	}

	logger.Noticef("rendering %d frames", len(paths))
	start := time.Now()
	results := batch.Run(cfg, paths)
	logger.Noticef("done in %.1fs", time.Since(start).Seconds())

	displayBatchResults(results)

	if m := ctx.String("manifest"); m != "" {
		if err := batch.WriteManifest(m, results); err != nil {
			logger.Warningf("manifest write failed: %v", err)
		} else {
			logger.Noticef("manifest: %s", m)
		}
	}

	if failed := batch.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d frames failed", len(failed), len(results))
	}
	return nil
}

func displayBatchResults(results []batch.Result) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Settings", "Result", "Shapes", "Triangles", "Draw time", "Status"})

	var ok int
	for _, r := range results {
		status := "ok"
		if r.Success {
			ok++
		} else {
			status = r.Error
		}
		table.Append([]string{
			r.SettingsPath,
			r.ResultPath,
			fmt.Sprintf("%d", r.Shapes),
			fmt.Sprintf("%d", r.Triangles),
			r.DrawTime.String(),
			status,
		})
	}
	table.SetFooter([]string{"", "", "", "", "RENDERED", fmt.Sprintf("%d/%d", ok, len(results))})

	table.Render()
	logger.Noticef("batch results\n%s", buf.String())
}
