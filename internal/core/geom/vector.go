// Package geom holds the 2D and 3D primitives shared by the world model,
// the camera and the renderers.
package geom

import "math"

// Vector2 is a point or direction on the grid plane. One unit is one cell.
type Vector2 struct {
	X, Y float64
}

// Vec2 is shorthand for Vector2{x, y}.
func Vec2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns v+o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v-o.
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v*s.
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product of v and o.
func (v Vector2) Cross(o Vector2) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Length is always computed from the current components; nothing is cached,
// so mutating X or Y can never leave a stale length behind.
func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// LengthSq returns the squared length.
func (v Vector2) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l == 0 {
		return Vector2{}
	}
	return Vector2{v.X / l, v.Y / l}
}

// Perp returns v rotated by +90 degrees.
func (v Vector2) Perp() Vector2 {
	return Vector2{-v.Y, v.X}
}

// Rotate rotates v by angle radians.
func (v Vector2) Rotate(angle float64) Vector2 {
	s, c := math.Sincos(angle)
	return v.RotateSC(s, c)
}

// RotateSC rotates v using a precomputed sine and cosine.
func (v Vector2) RotateSC(sin, cos float64) Vector2 {
	return Vector2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vector2) float64 {
	return b.Sub(a).Length()
}

// Floor returns the grid cell containing v.
func (v Vector2) Floor() (int, int) {
	return int(math.Floor(v.X)), int(math.Floor(v.Y))
}

// Frac returns the fractional part of f in [0, 1), also for negative values.
func Frac(f float64) float64 {
	return f - math.Floor(f)
}

// Clamp limits f to [lo, hi].
func Clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
