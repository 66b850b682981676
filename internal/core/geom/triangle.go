package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// degenerateArea is the smallest |cross| treated as a real triangle.
const degenerateArea = 1e-12

// Triangle is a 3D triangle. Winding is counter-clockwise when seen from the
// side its normal points to.
type Triangle struct {
	A, B, C mgl64.Vec3
}

// Tri is shorthand for Triangle{a, b, c}.
func Tri(a, b, c mgl64.Vec3) Triangle {
	return Triangle{A: a, B: b, C: c}
}

// Normal returns the unit normal, or the zero vector for a degenerate triangle.
func (t Triangle) Normal() mgl64.Vec3 {
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	if n.Len() < degenerateArea {
		return mgl64.Vec3{}
	}
	return n.Normalize()
}

// Area returns the surface area.
func (t Triangle) Area() float64 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Len() / 2
}

// Transform applies m to every vertex.
func (t Triangle) Transform(m mgl64.Mat4) Triangle {
	return Triangle{
		A: mgl64.TransformCoordinate(t.A, m),
		B: mgl64.TransformCoordinate(t.B, m),
		C: mgl64.TransformCoordinate(t.C, m),
	}
}

// Barycentric returns the weights (wa, wb, wc) of p relative to the triangle.
// p is assumed to lie in the triangle's plane. A degenerate triangle has a
// zero denominator and returns ok=false rather than NaN weights.
func (t Triangle) Barycentric(p mgl64.Vec3) (wa, wb, wc float64, ok bool) {
	v0 := t.B.Sub(t.A)
	v1 := t.C.Sub(t.A)
	v2 := p.Sub(t.A)

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	if math.Abs(denom) < degenerateArea {
		return 0, 0, 0, false
	}

	wb = (d11*d20 - d01*d21) / denom
	wc = (d00*d21 - d01*d20) / denom
	wa = 1 - wb - wc
	return wa, wb, wc, true
}

// Contains reports whether barycentric weights lie inside the triangle,
// allowing eps of slack on the edges.
func Contains(wa, wb, wc, eps float64) bool {
	return wa >= -eps && wb >= -eps && wc >= -eps
}

// Bounds returns the axis-aligned bounding box of a triangle list.
func Bounds(tris []Triangle) (lo, hi mgl64.Vec3) {
	if len(tris) == 0 {
		return
	}
	lo = tris[0].A
	hi = tris[0].A
	for _, t := range tris {
		for _, v := range [3]mgl64.Vec3{t.A, t.B, t.C} {
			for i := 0; i < 3; i++ {
				lo[i] = math.Min(lo[i], v[i])
				hi[i] = math.Max(hi[i], v[i])
			}
		}
	}
	return lo, hi
}

// UnitCube returns the 12 outward-facing triangles of the cube [0,1]^3.
func UnitCube() []Triangle {
	v := func(x, y, z float64) mgl64.Vec3 { return mgl64.Vec3{x, y, z} }
	quad := func(a, b, c, d mgl64.Vec3) []Triangle {
		return []Triangle{Tri(a, b, c), Tri(a, c, d)}
	}

	var tris []Triangle
	tris = append(tris, quad(v(0, 0, 0), v(0, 1, 0), v(1, 1, 0), v(1, 0, 0))...) // bottom
	tris = append(tris, quad(v(0, 0, 1), v(1, 0, 1), v(1, 1, 1), v(0, 1, 1))...) // top
	tris = append(tris, quad(v(0, 0, 0), v(1, 0, 0), v(1, 0, 1), v(0, 0, 1))...) // y=0
	tris = append(tris, quad(v(1, 1, 0), v(0, 1, 0), v(0, 1, 1), v(1, 1, 1))...) // y=1
	tris = append(tris, quad(v(0, 1, 0), v(0, 0, 0), v(0, 0, 1), v(0, 1, 1))...) // x=0
	tris = append(tris, quad(v(1, 0, 0), v(1, 1, 0), v(1, 1, 1), v(1, 0, 1))...) // x=1
	return tris
}
