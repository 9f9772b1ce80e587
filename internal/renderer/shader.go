package renderer

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"objraster/internal/raster"
)

// FrameTransform composes projection · view · world, so world is applied first.
func FrameTransform(projection, view, world mgl32.Mat4) mgl32.Mat4 {
	return projection.Mul4(view).Mul4(world)
}

// TransformVertex returns a vertex stage that multiplies positions by m and
// passes the payload through untouched. m is copied; the stage keeps no
// reference to the frame that built it.
func TransformVertex(m mgl32.Mat4) raster.VertexShader {
	return func(position mgl32.Vec4, v raster.Vertex) (mgl32.Vec4, raster.Vertex) {
		return m.Mul4x1(position), v
	}
}

// NormalColor visualizes the interpolated normal: each component is mapped
// from [-1, 1] to [0, 1]. No lighting is applied.
func NormalColor(v raster.Vertex, _ float32) raster.Color {
	l := math32.Sqrt(v.NX*v.NX + v.NY*v.NY + v.NZ*v.NZ)
	if l < 1e-12 {
		return raster.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return raster.Color{
		R: (v.NX/l + 1) / 2,
		G: (v.NY/l + 1) / 2,
		B: (v.NZ/l + 1) / 2,
	}
}
