// Package camera derives view and projection matrices from a position, a
// yaw/pitch orientation and a perspective frustum.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Pitch is kept away from the poles so the right vector stays defined.
const maxPhi = 89.9

// Camera angles are stored in radians; setters take degrees.
type Camera struct {
	position mgl32.Vec3
	theta    float32
	phi      float32

	width  float32
	height float32

	angleOfView float32
	zNear       float32
	zFar        float32
}

// New returns a camera at the origin looking down -Z with a 60° vertical
// field of view and a 1:1 aspect.
func New() *Camera {
	return &Camera{
		width:       1,
		height:      1,
		angleOfView: mgl32.DegToRad(60),
		zNear:       0.01,
		zFar:        100,
	}
}

func (c *Camera) SetPosition(p mgl32.Vec3) { c.position = p }
func (c *Camera) SetWidth(w float32)       { c.width = w }
func (c *Camera) SetHeight(h float32)      { c.height = h }
func (c *Camera) SetZNear(z float32)       { c.zNear = z }
func (c *Camera) SetZFar(z float32)        { c.zFar = z }

// SetTheta sets the yaw around +Y in degrees.
func (c *Camera) SetTheta(deg float32) { c.theta = mgl32.DegToRad(deg) }

// SetPhi sets the pitch in degrees, clamped to just under ±90.
func (c *Camera) SetPhi(deg float32) {
	c.phi = mgl32.DegToRad(mgl32.Clamp(deg, -maxPhi, maxPhi))
}

// SetAngleOfView sets the vertical field of view in degrees.
func (c *Camera) SetAngleOfView(deg float32) { c.angleOfView = mgl32.DegToRad(deg) }

func (c *Camera) Position() mgl32.Vec3 { return c.position }

// Aspect returns width / height.
func (c *Camera) Aspect() float32 {
	if c.height == 0 {
		return 1
	}
	return c.width / c.height
}

// Direction is the unit forward vector. theta = phi = 0 looks down -Z.
func (c *Camera) Direction() mgl32.Vec3 {
	st, ct := math32.Sincos(c.theta)
	sp, cp := math32.Sincos(c.phi)
	return mgl32.Vec3{st * cp, sp, -ct * cp}
}

func (c *Camera) Right() mgl32.Vec3 {
	return c.Direction().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

func (c *Camera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.Direction())
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.Direction()), c.Up())
}

// ProjectionMatrix maps camera space to clip space with depth in [-1, 1].
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.angleOfView, c.Aspect(), c.zNear, c.zFar)
}
