// Package camera holds the viewer: position, heading and the view plane
// whose length sets the field of view.
package camera

import (
	"math"

	"chosenoffset.com/gridcaster/internal/core/geom"
)

// Collider answers whether a grid cell stops movement. Cells outside the
// grid must report true.
type Collider interface {
	Blocked(x, y int) bool
}

// Camera is mutated only between frames; renderers copy it before use.
type Camera struct {
	Pos   geom.Vector2
	Dir   geom.Vector2 // Unit length
	Plane geom.Vector2 // Perpendicular to Dir, |Plane| = tan(fov/2)

	MoveSpeed float64 // Cells per unit factor
	RotSpeed  float64 // Radians per unit factor

	ShearOffset float64 // Vertical pixel offset, within ±ShearLimit
	ShearLimit  float64
}

// New creates a camera at pos looking along dir with the given horizontal
// field of view in degrees.
func New(pos, dir geom.Vector2, fovDegrees float64) *Camera {
	c := &Camera{
		Pos:        pos,
		Dir:        dir.Normalize(),
		MoveSpeed:  0.05,
		RotSpeed:   0.03,
		ShearLimit: 200,
	}
	if c.Dir.LengthSq() == 0 {
		c.Dir = geom.Vec2(1, 0)
	}
	c.SetFOV(fovDegrees)
	return c
}

// SetFOV rescales the view plane for a horizontal field of view in degrees.
func (c *Camera) SetFOV(fovDegrees float64) {
	half := fovDegrees * math.Pi / 360
	c.Plane = c.Dir.Perp().Scale(math.Tan(half))
}

// FOV returns the horizontal field of view in degrees.
func (c *Camera) FOV() float64 {
	return 2 * math.Atan2(c.Plane.Length(), c.Dir.Length()) * 180 / math.Pi
}

// RayDir returns the ray through screen column x of a screen w pixels wide.
func (c *Camera) RayDir(x, w int) geom.Vector2 {
	u := 2*float64(x)/float64(w) - 1
	return c.Dir.Add(c.Plane.Scale(u))
}

// Move walks along Dir by factor*MoveSpeed (negative factor walks back).
func (c *Camera) Move(factor float64, col Collider) {
	c.slide(c.Dir.Scale(factor*c.MoveSpeed), col)
}

// Strafe walks sideways along the view plane by factor*MoveSpeed.
func (c *Camera) Strafe(factor float64, col Collider) {
	c.slide(c.Dir.Perp().Scale(factor*c.MoveSpeed), col)
}

// slide applies delta one axis at a time. X is tested against the current
// row, Y against the already updated column, so a blocked diagonal still
// moves along whichever axis is open.
func (c *Camera) slide(delta geom.Vector2, col Collider) {
	nx := c.Pos.X + delta.X
	if !col.Blocked(int(math.Floor(nx)), int(math.Floor(c.Pos.Y))) {
		c.Pos.X = nx
	}
	ny := c.Pos.Y + delta.Y
	if !col.Blocked(int(math.Floor(c.Pos.X)), int(math.Floor(ny))) {
		c.Pos.Y = ny
	}
}

// Rotate turns the camera by factor*RotSpeed radians using direct trig.
func (c *Camera) Rotate(factor float64) {
	s, co := math.Sincos(factor * c.RotSpeed)
	c.Dir = c.Dir.RotateSC(s, co)
	c.Plane = c.Plane.RotateSC(s, co)
}

// RotateBy turns the camera by a precomputed rotation.
func (c *Camera) RotateBy(r Rotation) {
	c.Dir = r.Apply(c.Dir)
	c.Plane = r.Apply(c.Plane)
}

// Shear adds delta pixels of vertical offset, clamped to the limit.
func (c *Camera) Shear(delta float64) {
	c.ShearOffset = geom.Clamp(c.ShearOffset+delta, -c.ShearLimit, c.ShearLimit)
}

// Renormalize removes drift accumulated by repeated rotations.
func (c *Camera) Renormalize() {
	planeLen := c.Plane.Length()
	c.Dir = c.Dir.Normalize()
	c.Plane = c.Dir.Perp().Scale(planeLen)
}
