package geom

import "math"

// parallelEpsilon rejects ray/segment pairs whose determinant is too small
// to give a stable intersection.
const parallelEpsilon = 1e-10

// Segment is a line segment from A to B.
type Segment struct {
	A, B Vector2
}

// Seg is shorthand for a segment between (ax, ay) and (bx, by).
func Seg(ax, ay, bx, by float64) Segment {
	return Segment{A: Vector2{ax, ay}, B: Vector2{bx, by}}
}

// Dir returns B-A.
func (s Segment) Dir() Vector2 {
	return s.B.Sub(s.A)
}

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return s.Dir().Length()
}

// Degenerate reports whether the segment has (almost) no length.
func (s Segment) Degenerate() bool {
	return s.Dir().LengthSq() < parallelEpsilon
}

// Translate returns the segment moved by off.
func (s Segment) Translate(off Vector2) Segment {
	return Segment{A: s.A.Add(off), B: s.B.Add(off)}
}

// Lerp returns the point at parameter u along the segment.
func (s Segment) Lerp(u float64) Vector2 {
	return s.A.Add(s.Dir().Scale(u))
}

// IntersectRay solves origin + t*dir = A + u*(B-A).
//
// It reports t (in units of dir, so a camera ray built as dir+plane*x gets
// the perpendicular distance directly), u along the segment, and whether
// the hit is valid: u in [0, 1] and t >= 0. Parallel and degenerate
// segments never hit.
func (s Segment) IntersectRay(origin, dir Vector2) (t, u float64, ok bool) {
	seg := s.Dir()

	denominator := dir.X*seg.Y - dir.Y*seg.X
	if math.Abs(denominator) < parallelEpsilon {
		return 0, 0, false
	}

	diff := s.A.Sub(origin)
	u = (diff.X*dir.Y - dir.X*diff.Y) / denominator
	t = (diff.X*seg.Y - seg.X*diff.Y) / denominator

	if u >= 0 && u <= 1 && t >= 0 {
		return t, u, true
	}
	return 0, 0, false
}

// FacingSide reports whether dir arrives at the segment from its back side,
// i.e. from the right of A->B.
func (s Segment) FacingSide(dir Vector2) bool {
	return s.Dir().Cross(dir) > 0
}
