package raster

// Color is a linear RGB color with channels in [0, 1].
type Color struct {
	R, G, B float32
}

// UnsignedColor is a packed 3×8-bit color as stored in a render target.
type UnsignedColor struct {
	R, G, B uint8
}

// FromColor clamps c to [0, 1] and quantizes it to 8 bits per channel.
func FromColor(c Color) UnsignedColor {
	return UnsignedColor{clamp255(c.R * 255), clamp255(c.G * 255), clamp255(c.B * 255)}
}

func (c UnsignedColor) ToColor() Color {
	return Color{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func (c Color) add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

func (c Color) scale(s float32) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Vertex is the per-vertex payload carried through the pipeline. Every field is
// interpolated across a triangle before it reaches the pixel stage.
type Vertex struct {
	X, Y, Z    float32
	NX, NY, NZ float32
	U, V       float32

	Ambient  Color
	Diffuse  Color
	Emissive Color
}

// Interpolate blends three vertices with barycentric weights w0, w1, w2.
func Interpolate(a, b, c Vertex, w0, w1, w2 float32) Vertex {
	return Vertex{
		X:  a.X*w0 + b.X*w1 + c.X*w2,
		Y:  a.Y*w0 + b.Y*w1 + c.Y*w2,
		Z:  a.Z*w0 + b.Z*w1 + c.Z*w2,
		NX: a.NX*w0 + b.NX*w1 + c.NX*w2,
		NY: a.NY*w0 + b.NY*w1 + c.NY*w2,
		NZ: a.NZ*w0 + b.NZ*w1 + c.NZ*w2,
		U:  a.U*w0 + b.U*w1 + c.U*w2,
		V:  a.V*w0 + b.V*w1 + c.V*w2,

		Ambient:  a.Ambient.scale(w0).add(b.Ambient.scale(w1)).add(c.Ambient.scale(w2)),
		Diffuse:  a.Diffuse.scale(w0).add(b.Diffuse.scale(w1)).add(c.Diffuse.scale(w2)),
		Emissive: a.Emissive.scale(w0).add(b.Emissive.scale(w1)).add(c.Emissive.scale(w2)),
	}
}

func clamp255(v float32) uint8 {
	if v != v || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
