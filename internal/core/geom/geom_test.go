package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorOps(t *testing.T) {
	v := Vec2(3, 4)
	assert.Equal(t, 5.0, v.Length())
	assert.Equal(t, Vec2(4, 6), v.Add(Vec2(1, 2)))
	assert.Equal(t, Vec2(2, 2), v.Sub(Vec2(1, 2)))
	assert.Equal(t, Vec2(6, 8), v.Scale(2))
	assert.Equal(t, 11.0, v.Dot(Vec2(1, 2)))
	assert.Equal(t, 2.0, v.Cross(Vec2(1, 2)))
	assert.InDelta(t, 1.0, v.Normalize().Length(), 1e-12)
	assert.Equal(t, Vector2{}, Vector2{}.Normalize())

	// Length follows mutation.
	v.X = 0
	assert.Equal(t, 4.0, v.Length())
}

func TestRotateMatchesSinCos(t *testing.T) {
	v := Vec2(-1, 0)
	angle := 0.37
	s, c := math.Sincos(angle)
	a := v.Rotate(angle)
	b := v.RotateSC(s, c)
	assert.InDelta(t, a.X, b.X, 1e-15)
	assert.InDelta(t, a.Y, b.Y, 1e-15)

	q := Vec2(1, 0).Rotate(math.Pi / 2)
	assert.InDelta(t, 0, q.X, 1e-12)
	assert.InDelta(t, 1, q.Y, 1e-12)
}

func TestFrac(t *testing.T) {
	assert.InDelta(t, 0.25, Frac(3.25), 1e-12)
	assert.InDelta(t, 0.75, Frac(-0.25), 1e-12)
	assert.Equal(t, 0.0, Frac(2))
}

func TestIntersectRay(t *testing.T) {
	tests := []struct {
		name   string
		seg    Segment
		origin Vector2
		dir    Vector2
		ok     bool
		t, u   float64
	}{
		{"vertical wall ahead", Seg(2, -1, 2, 1), Vec2(0, 0), Vec2(1, 0), true, 2, 0.5},
		{"behind origin", Seg(-2, -1, -2, 1), Vec2(0, 0), Vec2(1, 0), false, 0, 0},
		{"misses end", Seg(2, 1, 2, 3), Vec2(0, 0), Vec2(1, 0), false, 0, 0},
		{"parallel", Seg(0, 1, 5, 1), Vec2(0, 0), Vec2(1, 0), false, 0, 0},
		{"degenerate", Seg(2, 0, 2, 0), Vec2(0, 0), Vec2(1, 0), false, 0, 0},
		{"diagonal centre", Seg(0.25, 0.25, 0.75, 0.75), Vec2(0.5, -1), Vec2(0, 1), true, 1.5, 0.5},
		{"unnormalised dir scales t", Seg(2, -1, 2, 1), Vec2(0, 0), Vec2(2, 0), true, 1, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotT, gotU, ok := tt.seg.IntersectRay(tt.origin, tt.dir)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.t, gotT, 1e-12)
			assert.InDelta(t, tt.u, gotU, 1e-12)
			hit := tt.origin.Add(tt.dir.Scale(gotT))
			want := tt.seg.Lerp(gotU)
			assert.InDelta(t, want.X, hit.X, 1e-12)
			assert.InDelta(t, want.Y, hit.Y, 1e-12)
		})
	}
}

func TestConvexHull(t *testing.T) {
	pts := []Vector2{
		Vec2(0, 0), Vec2(1, 0), Vec2(1, 1), Vec2(0, 1),
		Vec2(0.5, 0.5), Vec2(0.2, 0.7), Vec2(1, 0.5),
	}
	hull := ConvexHull(pts)
	require.Len(t, hull, 4)
	assert.Equal(t, []Vector2{Vec2(0, 0), Vec2(1, 0), Vec2(1, 1), Vec2(0, 1)}, hull)

	collinear := ConvexHull([]Vector2{Vec2(0, 0), Vec2(1, 1), Vec2(2, 2)})
	assert.Len(t, collinear, 2)
	assert.Nil(t, Outline(collinear))
	assert.Len(t, Outline(hull), 4)
}

func TestBarycentric(t *testing.T) {
	tri := Tri(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})

	wa, wb, wc, ok := tri.Barycentric(mgl64.Vec3{0.25, 0.25, 0})
	require.True(t, ok)
	assert.InDelta(t, 0.5, wa, 1e-12)
	assert.InDelta(t, 0.25, wb, 1e-12)
	assert.InDelta(t, 0.25, wc, 1e-12)
	assert.True(t, Contains(wa, wb, wc, 0))

	_, _, _, ok = Tri(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{2, 2, 2}).Barycentric(mgl64.Vec3{1, 1, 1})
	assert.False(t, ok, "collinear triangle must not produce weights")

	assert.Equal(t, mgl64.Vec3{0, 0, 1}, tri.Normal())
	assert.InDelta(t, 0.5, tri.Area(), 1e-12)
}

func TestUnitCubeNormalsPointOutward(t *testing.T) {
	centre := mgl64.Vec3{0.5, 0.5, 0.5}
	for i, tri := range UnitCube() {
		n := tri.Normal()
		mid := tri.A.Add(tri.B).Add(tri.C).Mul(1.0 / 3)
		assert.Greater(t, n.Dot(mid.Sub(centre)), 0.0, "triangle %d faces inward", i)
	}
	lo, hi := Bounds(UnitCube())
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, lo)
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, hi)
}
