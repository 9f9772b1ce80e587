package model

import (
	"fmt"

	"objraster/internal/raster"
)

// LoadError reports a missing or malformed model file. Line is 0 when the
// failure is not tied to a specific line.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("model: %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("model: %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ShapeInfo summarizes one shape for reporting.
type ShapeInfo struct {
	Name      string
	Vertices  int
	Triangles int
}

// material holds the MTL colors copied into every vertex that uses it.
type material struct {
	ambient  raster.Color
	diffuse  raster.Color
	emissive raster.Color
}

var defaultMaterial = material{diffuse: raster.Color{R: 0.8, G: 0.8, B: 0.8}}

// vertexKey identifies a unique vertex within a shape. face is only set when
// the OBJ supplies no normal, since the generated face normal differs per face.
type vertexKey struct {
	v, vt, vn int
	mat       string
	face      int
}
