package raster

import "github.com/chewxy/math32"

// rasterizeTriangle fills one screen-space triangle. Both windings are drawn.
//
// This is the HOT PATH: no allocation inside the pixel loop.
func (r *Rasterizer) rasterizeTriangle(t *[3]projected) {
	v0, v1, v2 := &t[0], &t[1], &t[2]

	area := edge(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area > -1e-8 && area < 1e-8 {
		return
	}
	invArea := 1 / area

	// Bounding box, clamped to the viewport
	minX := int(math32.Floor(math32.Min(math32.Min(v0.x, v1.x), v2.x)))
	maxX := int(math32.Ceil(math32.Max(math32.Max(v0.x, v1.x), v2.x)))
	minY := int(math32.Floor(math32.Min(math32.Min(v0.y, v1.y), v2.y)))
	maxY := int(math32.Ceil(math32.Max(math32.Max(v0.y, v1.y), v2.y)))

	if minX < 0 {
		minX = 0
	}
	if maxX > r.width-1 {
		maxX = r.width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY > r.height-1 {
		maxY = r.height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	rt := r.renderTarget
	depth := r.depthBuffer

	for sy := minY; sy <= maxY; sy++ {
		py := float32(sy) + 0.5
		for sx := minX; sx <= maxX; sx++ {
			px := float32(sx) + 0.5

			w0 := edge(v1.x, v1.y, v2.x, v2.y, px, py) * invArea
			w1 := edge(v2.x, v2.y, v0.x, v0.y, px, py) * invArea
			w2 := edge(v0.x, v0.y, v1.x, v1.y, px, py) * invArea
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*v0.z + w1*v1.z + w2*v2.z
			if z < -1 || z > 1 {
				continue
			}
			if depth != nil && z >= depth.Item(sx, sy) {
				continue
			}

			data := Interpolate(v0.data, v1.data, v2.data, w0, w1, w2)
			rt.SetItem(sx, sy, FromColor(r.PixelShader(data, z)))
			if depth != nil {
				depth.SetItem(sx, sy, z)
			}
		}
	}
}

// edge returns the signed doubled area of (a, b, p). It is invariant under
// cyclic permutation, so edge(b, c, a) == edge(a, b, c).
func edge(ax, ay, bx, by, px, py float32) float32 {
	return (px-ax)*(by-ay) - (py-ay)*(bx-ax)
}
