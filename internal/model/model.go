// Package model loads Wavefront OBJ meshes into per-shape vertex and index
// buffers consumed by the rasterizer.
package model

import (
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"objraster/internal/raster"
)

// Model is a set of shapes sharing one world transform. Vertex and index
// buffers are parallel: shape i draws IndexBuffers()[i] over VertexBuffers()[i].
type Model struct {
	vertexBuffers []*raster.VertexBuffer
	indexBuffers  []*raster.IndexBuffer
	names         []string
	world         mgl32.Mat4

	// Warnings collects non-fatal problems found while loading (e.g. a missing .mtl).
	Warnings []string
}

// New returns an empty model with an identity world matrix.
func New() *Model {
	return &Model{world: mgl32.Ident4()}
}

// LoadOBJ replaces the model's shapes with the contents of an OBJ file.
// Any failure is returned as a *LoadError and leaves the model unchanged.
func (m *Model) LoadOBJ(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	d := newDecoder(path, filepath.Dir(path))
	if err := d.decode(f); err != nil {
		return err
	}

	d.fill(m)
	return nil
}

func (m *Model) VertexBuffers() []*raster.VertexBuffer { return m.vertexBuffers }
func (m *Model) IndexBuffers() []*raster.IndexBuffer   { return m.indexBuffers }

func (m *Model) ShapeCount() int { return len(m.indexBuffers) }

func (m *Model) WorldMatrix() mgl32.Mat4     { return m.world }
func (m *Model) SetWorldMatrix(w mgl32.Mat4) { m.world = w }

// Shapes reports per-shape sizes in storage order.
func (m *Model) Shapes() []ShapeInfo {
	out := make([]ShapeInfo, len(m.indexBuffers))
	for i := range m.indexBuffers {
		out[i] = ShapeInfo{
			Name:      m.names[i],
			Vertices:  m.vertexBuffers[i].Count(),
			Triangles: m.indexBuffers[i].Count() / 3,
		}
	}
	return out
}

// Transform builds a world matrix: scale, then rotate (degrees, Y then X then
// Z), then translate. A zero scale is treated as 1.
func Transform(translation, rotation [3]float32, scale float32) mgl32.Mat4 {
	if scale == 0 {
		scale = 1
	}
	rot := mgl32.HomogRotate3DZ(mgl32.DegToRad(rotation[2])).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(rotation[0]))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rotation[1])))
	return mgl32.Translate3D(translation[0], translation[1], translation[2]).
		Mul4(rot).
		Mul4(mgl32.Scale3D(scale, scale, scale))
}
