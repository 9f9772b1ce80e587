package raster

import "image"

// Resource is a width×height grid of items stored as one flat slice for cache locality.
// One-dimensional buffers (vertices, indices) are resources with a height of 1.
type Resource[T any] struct {
	width  int
	height int
	data   []T
}

// NewResource allocates a zeroed width×height resource.
func NewResource[T any](width, height int) *Resource[T] {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Resource[T]{
		width:  width,
		height: height,
		data:   make([]T, width*height),
	}
}

// NewBuffer wraps items in a one-dimensional resource. The slice is used as is.
func NewBuffer[T any](items []T) *Resource[T] {
	return &Resource[T]{width: len(items), height: 1, data: items}
}

func (r *Resource[T]) Width() int  { return r.width }
func (r *Resource[T]) Height() int { return r.height }

// Count returns the number of items (width×height).
func (r *Resource[T]) Count() int { return len(r.data) }

// Data exposes the backing slice, row-major.
func (r *Resource[T]) Data() []T { return r.data }

func (r *Resource[T]) Item(x, y int) T {
	return r.data[y*r.width+x]
}

func (r *Resource[T]) SetItem(x, y int, v T) {
	r.data[y*r.width+x] = v
}

// At indexes a one-dimensional resource.
func (r *Resource[T]) At(i int) T {
	return r.data[i]
}

// Fill sets every item to v.
func (r *Resource[T]) Fill(v T) {
	for i := range r.data {
		r.data[i] = v
	}
}

type (
	RenderTarget = Resource[UnsignedColor]
	DepthBuffer  = Resource[float32]
	VertexBuffer = Resource[Vertex]
	IndexBuffer  = Resource[uint32]
)

// NewRenderTarget allocates a color target of the given size.
func NewRenderTarget(w, h int) *RenderTarget {
	return NewResource[UnsignedColor](w, h)
}

// NewDepthBuffer allocates a depth buffer of the given size. Call
// Rasterizer.ClearRenderTarget before drawing to reset it to +Inf.
func NewDepthBuffer(w, h int) *DepthBuffer {
	return NewResource[float32](w, h)
}

// ToImage copies a render target into an opaque NRGBA image.
func ToImage(rt *RenderTarget) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, rt.width, rt.height))
	for i, c := range rt.data {
		p := i * 4
		img.Pix[p] = c.R
		img.Pix[p+1] = c.G
		img.Pix[p+2] = c.B
		img.Pix[p+3] = 255
	}
	return img
}
