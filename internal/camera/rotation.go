package camera

import (
	"math"

	"chosenoffset.com/gridcaster/internal/core/geom"
)

// Rotation is a 2D rotation with its sine and cosine already evaluated.
// Build one per distinct angle per frame and reuse it for every vector that
// turns by that angle.
type Rotation struct {
	Angle  float64
	Sin    float64
	Cos    float64
	NegSin float64
}

// NewRotation evaluates the rotation for angle radians.
func NewRotation(angle float64) Rotation {
	s, c := math.Sincos(angle)
	return Rotation{Angle: angle, Sin: s, Cos: c, NegSin: -s}
}

// Apply rotates v.
func (r Rotation) Apply(v geom.Vector2) geom.Vector2 {
	return geom.Vector2{
		X: v.X*r.Cos + v.Y*r.NegSin,
		Y: v.X*r.Sin + v.Y*r.Cos,
	}
}

// Inverse returns the rotation by -Angle.
func (r Rotation) Inverse() Rotation {
	return Rotation{Angle: -r.Angle, Sin: r.NegSin, Cos: r.Cos, NegSin: r.Sin}
}

// FrameRotations hands out rotations for the current frame. Each distinct
// factor is evaluated once; Reset drops everything at the frame boundary so
// the set never grows past the handful of angles one frame asks for.
type FrameRotations struct {
	speed   float64
	entries []rotationEntry
}

type rotationEntry struct {
	factor float64
	rot    Rotation
}

// NewFrameRotations creates a per-frame cache for rotations of factor*speed.
func NewFrameRotations(speed float64) *FrameRotations {
	return &FrameRotations{speed: speed}
}

// Get returns the rotation for factor*speed.
func (f *FrameRotations) Get(factor float64) Rotation {
	for _, e := range f.entries {
		if e.factor == factor {
			return e.rot
		}
	}
	r := NewRotation(factor * f.speed)
	f.entries = append(f.entries, rotationEntry{factor: factor, rot: r})
	return r
}

// Len returns the number of rotations evaluated this frame.
func (f *FrameRotations) Len() int { return len(f.entries) }

// Reset forgets every rotation and optionally changes the speed.
func (f *FrameRotations) Reset(speed float64) {
	f.speed = speed
	f.entries = f.entries[:0]
}
