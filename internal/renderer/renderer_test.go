package renderer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"objraster/internal/config"
	"objraster/internal/imagefile"
	"objraster/internal/log"
	"objraster/internal/model"
	"objraster/internal/raster"
)

const unitTriangle = `
o triangle
v -1 -1 -2
v  1 -1 -2
v  0  1 -2
vn 0 0 1
f 1//1 2//1 3//1
`

// Overlapping triangles: "near" faces +Z, "far" faces +X and is larger on screen.
const nearShape = `
o near
v -1 -1 -2
v  1 -1 -2
v  0  1 -2
vn 0 0 1
f -3//-1 -2//-1 -1//-1
`

const farShape = `
o far
v -6 -6 -4
v  6 -6 -4
v  0  6 -4
vn 1 0 0
f -3//-1 -2//-1 -1//-1
`

var (
	background = raster.UnsignedColor{R: 159, G: 43, B: 104}
	plusZ      = raster.UnsignedColor{R: 128, G: 128, B: 255}
	plusX      = raster.UnsignedColor{R: 255, G: 128, B: 128}
)

func writeOBJ(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "model.obj")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func testSettings(t *testing.T, obj string) config.Settings {
	t.Helper()
	dir := t.TempDir()
	return config.Settings{
		Width:             64,
		Height:            64,
		ModelPath:         writeOBJ(t, dir, obj),
		ResultPath:        filepath.Join(dir, "out.img"),
		CameraAngleOfView: 90,
		CameraZNear:       0.1,
		CameraZFar:        100,
	}
}

func newRenderer(s config.Settings, opts ...Option) *Renderer {
	return New(s, append([]Option{WithLogger(log.Discard())}, opts...)...)
}

func TestInitAllocatesFrameSizedBuffers(t *testing.T) {
	s := testSettings(t, unitTriangle)
	s.Width, s.Height = 40, 30

	r := newRenderer(s)
	require.NoError(t, r.Init())
	assert.True(t, r.Ready())

	assert.Equal(t, 40*30, r.RenderTarget().Count())
	assert.Equal(t, 40*30, r.DepthBuffer().Count())
	assert.Equal(t, 40, r.DepthBuffer().Width())
	assert.Equal(t, 30, r.DepthBuffer().Height())
	assert.NotNil(t, r.Model())
	assert.NotNil(t, r.Camera())
	assert.Equal(t, 1, r.Model().ShapeCount())
}

func TestInitTwice(t *testing.T) {
	r := newRenderer(testSettings(t, unitTriangle))
	require.NoError(t, r.Init())
	assert.ErrorIs(t, r.Init(), ErrAlreadyInitialized)
}

func TestInitInvalidSettings(t *testing.T) {
	s := testSettings(t, unitTriangle)
	s.CameraZFar = s.CameraZNear

	r := newRenderer(s)
	assert.ErrorIs(t, r.Init(), config.ErrInvalidSettings)
	assert.False(t, r.Ready())
	assert.Nil(t, r.RenderTarget(), "nothing is allocated for bad settings")
}

func TestInitAssetLoadFailure(t *testing.T) {
	s := testSettings(t, unitTriangle)
	s.ModelPath = filepath.Join(t.TempDir(), "missing.obj")

	r := newRenderer(s)
	err := r.Init()
	assert.ErrorIs(t, err, ErrAssetLoad)
	var le *model.LoadError
	assert.True(t, errors.As(err, &le))

	assert.False(t, r.Ready())
	assert.Nil(t, r.RenderTarget())
	assert.Nil(t, r.DepthBuffer())
	assert.ErrorIs(t, r.Render(), ErrNotInitialized)
}

func TestRenderBeforeInit(t *testing.T) {
	r := newRenderer(testSettings(t, unitTriangle))
	assert.ErrorIs(t, r.Render(), ErrNotInitialized)
}

// maxDiff is the largest absolute difference between matching elements.
func maxDiff(a, b []float32) float32 {
	var d float32
	for i := range a {
		if x := a[i] - b[i]; x > d {
			d = x
		} else if -x > d {
			d = -x
		}
	}
	return d
}

func TestFrameTransformOrder(t *testing.T) {
	p := mgl32.Perspective(mgl32.DegToRad(70), 1.5, 0.1, 50)
	v := mgl32.LookAtV(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	w := mgl32.Translate3D(4, 0, -1).Mul4(mgl32.HomogRotate3DY(0.3))

	got := FrameTransform(p, v, w)
	want := p.Mul4(v.Mul4(w))
	reversed := w.Mul4(v).Mul4(p)
	assert.Less(t, maxDiff(want[:], got[:]), float32(1e-4))
	assert.Greater(t, maxDiff(reversed[:], got[:]), float32(1e-2))

	pos := mgl32.Vec4{0.5, -1, 2, 1}
	wantPos := p.Mul4x1(v.Mul4x1(w.Mul4x1(pos)))
	out, _ := TransformVertex(got)(pos, raster.Vertex{})
	assert.Less(t, maxDiff(wantPos[:], out[:]), float32(1e-4))
}

func TestTransformVertexIdentity(t *testing.T) {
	m := FrameTransform(mgl32.Ident4(), mgl32.Ident4(), mgl32.Ident4())
	in := mgl32.Vec4{0.25, -3, 7, 1}
	payload := raster.Vertex{X: 0.25, Y: -3, Z: 7, NX: 0.3, NY: 0.4, U: 1, Diffuse: raster.Color{R: 1}}

	out, data := TransformVertex(m)(in, payload)
	assert.Less(t, maxDiff(in[:], out[:]), float32(1e-6))
	assert.Equal(t, payload, data)
}

func TestNormalColor(t *testing.T) {
	tests := []struct {
		name       string
		nx, ny, nz float32
		want       raster.Color
	}{
		{"plus z", 0, 0, 1, raster.Color{R: 0.5, G: 0.5, B: 1}},
		{"unnormalized", 0, 0, 5, raster.Color{R: 0.5, G: 0.5, B: 1}},
		{"minus x", -1, 0, 0, raster.Color{R: 0, G: 0.5, B: 0.5}},
		{"zero", 0, 0, 0, raster.Color{R: 0.5, G: 0.5, B: 0.5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalColor(raster.Vertex{NX: tc.nx, NY: tc.ny, NZ: tc.nz}, 0)
			assert.InDelta(t, tc.want.R, got.R, 1e-6)
			assert.InDelta(t, tc.want.G, got.G, 1e-6)
			assert.InDelta(t, tc.want.B, got.B, 1e-6)
		})
	}
}

func TestRenderEmptyModelKeepsBackground(t *testing.T) {
	s := testSettings(t, "v 0 0 0\n")
	r := newRenderer(s)
	require.NoError(t, r.Init())
	require.NoError(t, r.Render())

	for i, c := range r.RenderTarget().Data() {
		require.Equal(t, background, c, "pixel %d", i)
	}
	assert.Zero(t, r.Stats().Shapes)
	assert.FileExists(t, s.ResultPath)
}

func TestRenderCustomBackground(t *testing.T) {
	s := testSettings(t, "")
	s.BackgroundColor = &[3]uint8{1, 2, 3}
	r := newRenderer(s)
	require.NoError(t, r.Init())
	require.NoError(t, r.Render())

	assert.Equal(t, raster.UnsignedColor{R: 1, G: 2, B: 3}, r.RenderTarget().Item(10, 10))
}

func TestRenderUnitTriangle(t *testing.T) {
	s := testSettings(t, unitTriangle)
	r := newRenderer(s)
	require.NoError(t, r.Init())
	r.Update()
	require.NoError(t, r.Render())

	rt := r.RenderTarget()
	// The triangle projects to x in [16, 48], y in [16, 48] with its apex at the top.
	assert.Equal(t, plusZ, rt.Item(32, 32))
	assert.Equal(t, plusZ, rt.Item(20, 46))
	assert.Equal(t, plusZ, rt.Item(44, 46))
	for _, p := range [][2]int{{0, 0}, {63, 0}, {0, 63}, {63, 63}, {32, 10}, {10, 32}, {20, 20}} {
		assert.Equal(t, background, rt.Item(p[0], p[1]), "pixel %v", p)
	}

	img, err := imagefile.Load(s.ResultPath)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())
	c := img.NRGBAAt(32, 32)
	assert.Equal(t, plusZ, raster.UnsignedColor{R: c.R, G: c.G, B: c.B})

	st := r.Stats()
	assert.Equal(t, 1, st.Shapes)
	assert.Equal(t, 1, st.Triangles)
}

func TestRenderNearerShapeWins(t *testing.T) {
	tests := []struct {
		name string
		obj  string
	}{
		{"near drawn first", nearShape + farShape},
		{"far drawn first", farShape + nearShape},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newRenderer(testSettings(t, tc.obj))
			require.NoError(t, r.Init())
			require.Equal(t, 2, r.Model().ShapeCount())
			require.NoError(t, r.Render())

			assert.Equal(t, plusZ, r.RenderTarget().Item(32, 32))
			// Outside the near triangle only the far one is visible.
			assert.Equal(t, plusX, r.RenderTarget().Item(32, 12))
		})
	}
}

func TestRenderAppliesWorldTransform(t *testing.T) {
	s := testSettings(t, unitTriangle)
	s.ModelTranslation = [3]float32{100, 0, 0}
	r := newRenderer(s)
	require.NoError(t, r.Init())
	require.NoError(t, r.Render())

	assert.Equal(t, background, r.RenderTarget().Item(32, 32))
}

func TestRenderPersistFailure(t *testing.T) {
	s := testSettings(t, unitTriangle)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	s.ResultPath = filepath.Join(blocker, "out.png")

	r := newRenderer(s)
	require.NoError(t, r.Init())
	assert.ErrorIs(t, r.Render(), ErrPersist)
}

func TestRenderStatsUseInjectedClock(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		t0 = t0.Add(time.Millisecond)
		return t0
	}

	r := newRenderer(testSettings(t, unitTriangle), WithClock(tick))
	require.NoError(t, r.Init())
	require.NoError(t, r.Render())

	st := r.Stats()
	assert.Equal(t, time.Millisecond, st.ClearTime)
	assert.Equal(t, time.Millisecond, st.DrawTime)
	assert.Equal(t, time.Millisecond, st.SaveTime)
	assert.Equal(t, 3*time.Millisecond, st.RenderTime())
}

func TestLifecycle(t *testing.T) {
	r := newRenderer(testSettings(t, unitTriangle))
	require.NoError(t, r.Init())

	for i := 0; i < 2; i++ {
		r.Update()
		require.NoError(t, r.Render())
	}

	r.Destroy()
	assert.False(t, r.Ready())
	assert.Nil(t, r.RenderTarget())
	assert.ErrorIs(t, r.Render(), ErrNotInitialized)
}
