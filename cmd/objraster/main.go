package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "objraster"
	app.Usage = "render wavefront obj models with a software rasterizer"
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
			Usage: "render a single frame",
			Description: `
Load a settings file (json, yaml or toml), rasterize the model it names and
write the frame to result_path. The image format follows the file extension:
.png, .webp, .tga or .bmp; anything else is written as PNG.

Flags override values from the settings file. Without a settings file the
model must be given with --model.`,
			ArgsUsage: "[settings_file]",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Usage: "frame width (default 1920)",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "frame height (default 1080)",
				},
				cli.StringFlag{
					Name:  "model, m",
					Usage: "obj model to render",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename for the rendered frame (default result.png)",
				},
			},
			Action: renderFrame,
		},
		{
			Name:      "batch",
			Usage:     "render several settings files in parallel",
			ArgsUsage: "settings_file1 settings_file2 ...",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "workers, w",
					Usage: "number of worker goroutines (default: NumCPU)",
				},
				cli.StringFlag{
					Name:  "manifest",
					Usage: "write a json summary of the run to this file",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "override frame width for every job",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "override frame height for every job",
				},
			},
			Action: renderBatch,
		},
		{
			Name:      "inspect",
			Usage:     "list the shapes of an obj model",
			ArgsUsage: "model.obj",
			Action:    inspectModel,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
