package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"objraster/internal/raster"
)

const twoShapes = `
# two shapes
v -1 -1 -2
v  1 -1 -2
v  0  1 -2
v  1  1 -2
vn 0 0 1
o first
f 1//1 2//1 3//1
o second
f 2//1 4//1 3//1
`

func decode(t *testing.T, src string) *Model {
	t.Helper()
	m, err := Decode(strings.NewReader(src), t.TempDir())
	require.NoError(t, err)
	return m
}

func TestDecodeShapes(t *testing.T) {
	m := decode(t, twoShapes)

	require.Equal(t, 2, m.ShapeCount())
	require.Len(t, m.VertexBuffers(), 2)
	assert.Equal(t, []ShapeInfo{
		{Name: "first", Vertices: 3, Triangles: 1},
		{Name: "second", Vertices: 3, Triangles: 1},
	}, m.Shapes())

	v := m.VertexBuffers()[1].At(int(m.IndexBuffers()[1].At(1)))
	assert.Equal(t, float32(1), v.X)
	assert.Equal(t, float32(1), v.Y)
	assert.Equal(t, float32(1), v.NZ)
}

func TestDecodeTriangulatesAndDeduplicates(t *testing.T) {
	m := decode(t, `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`)
	require.Equal(t, 1, m.ShapeCount())
	assert.Equal(t, "default", m.Shapes()[0].Name)
	assert.Equal(t, 4, m.VertexBuffers()[0].Count(), "shared corners are reused")
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.IndexBuffers()[0].Data())
}

func TestDecodeNegativeIndicesAndTexcoords(t *testing.T) {
	m := decode(t, `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0.25 0.75
f -3/1 -2/1 -1/1
`)
	vb := m.VertexBuffers()[0]
	require.Equal(t, 3, vb.Count())
	assert.Equal(t, float32(1), vb.At(1).X)
	assert.Equal(t, float32(0.25), vb.At(2).U)
	assert.Equal(t, float32(0.75), vb.At(2).V)
}

func TestDecodeComputesMissingNormals(t *testing.T) {
	m := decode(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)
	v := m.VertexBuffers()[0].At(0)
	assert.InDelta(t, 0, v.NX, 1e-6)
	assert.InDelta(t, 0, v.NY, 1e-6)
	assert.InDelta(t, 1, v.NZ, 1e-6)
}

func TestDecodeDropsEmptyShapes(t *testing.T) {
	m := decode(t, "o empty\nv 0 0 0\no also_empty\n")
	assert.Zero(t, m.ShapeCount())
	assert.Empty(t, m.Shapes())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"bad number", "v 0 x 0\n", 1},
		{"short vertex", "v 0 0\n", 1},
		{"index zero", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", 4},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n", 4},
		{"degenerate face", "v 0 0 0\nv 1 0 0\nf 1 2\n", 3},
		{"missing normal", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//1 2//1 3//1\n", 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.src), "")
			var le *LoadError
			require.True(t, errors.As(err, &le), "got %v", err)
			assert.Equal(t, tc.line, le.Line)
		})
	}
}

func TestLoadOBJWithMaterials(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.mtl"), []byte(`
newmtl red
Ka 0.1 0 0
Kd 1 0 0
Ke 0 0 0.5
`), 0644))
	path := filepath.Join(dir, "scene.obj")
	require.NoError(t, os.WriteFile(path, []byte(`
mtllib scene.mtl missing.mtl
v 0 0 0
v 1 0 0
v 0 1 0
usemtl red
f 1 2 3
`), 0644))

	m := New()
	require.NoError(t, m.LoadOBJ(path))
	require.Equal(t, 1, m.ShapeCount())

	v := m.VertexBuffers()[0].At(0)
	assert.Equal(t, raster.Color{R: 1}, v.Diffuse)
	assert.Equal(t, raster.Color{R: 0.1}, v.Ambient)
	assert.Equal(t, raster.Color{B: 0.5}, v.Emissive)
	require.Len(t, m.Warnings, 1)
	assert.Contains(t, m.Warnings[0], "missing.mtl")
}

func TestLoadOBJMissingFile(t *testing.T) {
	m := New()
	err := m.LoadOBJ(filepath.Join(t.TempDir(), "nope.obj"))

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Zero(t, m.ShapeCount())
}

func TestTransform(t *testing.T) {
	assert.True(t, mgl32.Ident4().ApproxEqual(Transform([3]float32{}, [3]float32{}, 0)))

	w := Transform([3]float32{1, 2, 3}, [3]float32{0, 90, 0}, 2)
	p := w.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.True(t, mgl32.Vec3{1, 2, 1}.ApproxEqualThreshold(p.Vec3(), 1e-5), "got %v", p)
}
