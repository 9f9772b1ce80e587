package raster

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrNotConfigured    = errors.New("raster: rasterizer not configured")
	ErrViewportMismatch = errors.New("raster: render target smaller than viewport")
	ErrIndexRange       = errors.New("raster: index out of range")
)

// VertexShader transforms a homogeneous position. The payload is returned
// alongside the clip-space position and reaches the pixel stage interpolated.
type VertexShader func(position mgl32.Vec4, v Vertex) (mgl32.Vec4, Vertex)

// PixelShader turns an interpolated payload and its depth into a color.
type PixelShader func(v Vertex, z float32) Color

// Rasterizer scan-converts indexed triangles into a bound render target,
// optionally depth testing against a bound depth buffer.
type Rasterizer struct {
	VertexShader VertexShader
	PixelShader  PixelShader

	width  int
	height int

	renderTarget *RenderTarget
	depthBuffer  *DepthBuffer
	vertexBuffer *VertexBuffer
	indexBuffer  *IndexBuffer
}

func New() *Rasterizer {
	return &Rasterizer{}
}

func (r *Rasterizer) SetViewport(width, height int) {
	r.width = width
	r.height = height
}

// Viewport returns the configured viewport size.
func (r *Rasterizer) Viewport() (int, int) {
	return r.width, r.height
}

// SetRenderTarget binds a color target and an optional depth buffer. A nil
// depth buffer selects color-only mode where later fragments always win.
func (r *Rasterizer) SetRenderTarget(rt *RenderTarget, depth *DepthBuffer) {
	r.renderTarget = rt
	r.depthBuffer = depth
}

func (r *Rasterizer) SetVertexBuffer(vb *VertexBuffer) {
	r.vertexBuffer = vb
}

func (r *Rasterizer) SetIndexBuffer(ib *IndexBuffer) {
	r.indexBuffer = ib
}

// ClearRenderTarget fills the color target with c and resets depth to +Inf.
func (r *Rasterizer) ClearRenderTarget(c UnsignedColor) {
	if r.renderTarget != nil {
		r.renderTarget.Fill(c)
	}
	if r.depthBuffer != nil {
		r.depthBuffer.Fill(math32.Inf(1))
	}
}

// Draw rasterizes count indices starting at offset, three per triangle.
func (r *Rasterizer) Draw(count, offset int) error {
	if err := r.validate(); err != nil {
		return err
	}
	if count%3 != 0 || count < 0 || offset < 0 || offset+count > r.indexBuffer.Count() {
		return fmt.Errorf("%w: draw(%d, %d) over %d indices", ErrIndexRange, count, offset, r.indexBuffer.Count())
	}

	nv := r.vertexBuffer.Count()
	var tri [3]projected
	for i := offset; i < offset+count; i += 3 {
		visible := true
		for k := 0; k < 3; k++ {
			idx := int(r.indexBuffer.At(i + k))
			if idx >= nv {
				return fmt.Errorf("%w: index %d at %d, %d vertices bound", ErrIndexRange, idx, i+k, nv)
			}
			v := r.vertexBuffer.At(idx)
			pos, data := r.VertexShader(mgl32.Vec4{v.X, v.Y, v.Z, 1}, v)
			if !r.project(pos, data, &tri[k]) {
				visible = false
			}
		}
		if visible {
			r.rasterizeTriangle(&tri)
		}
	}
	return nil
}

func (r *Rasterizer) validate() error {
	switch {
	case r.renderTarget == nil:
		return fmt.Errorf("%w: no render target", ErrNotConfigured)
	case r.vertexBuffer == nil || r.indexBuffer == nil:
		return fmt.Errorf("%w: no vertex or index buffer", ErrNotConfigured)
	case r.VertexShader == nil || r.PixelShader == nil:
		return fmt.Errorf("%w: missing shader", ErrNotConfigured)
	case r.renderTarget.Width() < r.width || r.renderTarget.Height() < r.height:
		return fmt.Errorf("%w: target %dx%d, viewport %dx%d", ErrViewportMismatch,
			r.renderTarget.Width(), r.renderTarget.Height(), r.width, r.height)
	case r.depthBuffer != nil && (r.depthBuffer.Width() < r.width || r.depthBuffer.Height() < r.height):
		return fmt.Errorf("%w: depth %dx%d, viewport %dx%d", ErrViewportMismatch,
			r.depthBuffer.Width(), r.depthBuffer.Height(), r.width, r.height)
	}
	return nil
}

// projected is a vertex after the perspective divide, in screen space.
type projected struct {
	x, y, z float32
	data    Vertex
}

// Vertices at or behind the eye plane cannot be divided safely; their triangle is dropped.
const minW = 1e-6

func (r *Rasterizer) project(pos mgl32.Vec4, data Vertex, out *projected) bool {
	w := pos.W()
	if w <= minW || math32.IsNaN(w) {
		return false
	}
	inv := 1 / w
	out.x = (pos.X()*inv + 1) * float32(r.width) / 2
	out.y = (1 - pos.Y()*inv) * float32(r.height) / 2
	out.z = pos.Z() * inv
	out.data = data
	return true
}
