package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"objraster/internal/model"
)

// List the shapes of an obj model.
func inspectModel(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing model file argument")
	}

	m := model.New()
	if err := m.LoadOBJ(ctx.Args().First()); err != nil {
		return err
	}
	for _, w := range m.Warnings {
		logger.Warning(w)
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"#", "Shape", "Vertices", "Triangles"})

	var verts, tris int
	for i, s := range m.Shapes() {
		table.Append([]string{
			fmt.Sprintf("%d", i),
			s.Name,
			fmt.Sprintf("%d", s.Vertices),
			fmt.Sprintf("%d", s.Triangles),
		})
		verts += s.Vertices
		tris += s.Triangles
	}
	table.SetFooter([]string{"", "TOTAL", fmt.Sprintf("%d", verts), fmt.Sprintf("%d", tris)})

	table.Render()
	fmt.Print(buf.String())
	return nil
}
