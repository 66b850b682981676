package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"chosenoffset.com/gridcaster/internal/core/geom"
)

// boxCollider is a w x h room with an optional set of blocked cells.
type boxCollider struct {
	w, h    int
	blocked map[[2]int]bool
}

func (b boxCollider) Blocked(x, y int) bool {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return true
	}
	return b.blocked[[2]int{x, y}]
}

func TestNewSetsPerpendicularPlane(t *testing.T) {
	c := New(geom.Vec2(2, 2), geom.Vec2(3, 0), 90)

	assert.InDelta(t, 1, c.Dir.Length(), 1e-12)
	assert.InDelta(t, 0, c.Dir.Dot(c.Plane), 1e-12)
	assert.InDelta(t, 1, c.Plane.Length(), 1e-12, "tan(45deg) = 1")
	assert.InDelta(t, 90, c.FOV(), 1e-9)

	// Leftmost column looks to -Y, rightmost to +Y, centre straight ahead.
	assert.InDelta(t, -1, c.RayDir(0, 8).Y, 1e-12)
	assert.InDelta(t, 0, c.RayDir(4, 8).Y, 1e-12)
}

func TestMoveSlidesAlongOpenAxis(t *testing.T) {
	col := boxCollider{w: 5, h: 5, blocked: map[[2]int]bool{{2, 1}: true}}
	c := New(geom.Vec2(1.5, 1.5), geom.Vec2(1, 1), 66)
	c.MoveSpeed = 1

	c.Move(1, col)

	// X would enter (2,1) and is refused; Y is tested independently and moves.
	assert.Equal(t, 1.5, c.Pos.X)
	assert.InDelta(t, 1.5+math.Sqrt2/2, c.Pos.Y, 1e-12)
}

func TestMoveBothAxesBlocked(t *testing.T) {
	col := boxCollider{w: 5, h: 5, blocked: map[[2]int]bool{{2, 1}: true, {1, 2}: true}}
	c := New(geom.Vec2(1.5, 1.5), geom.Vec2(1, 1), 66)
	c.MoveSpeed = 1

	c.Move(1, col)
	assert.Equal(t, geom.Vec2(1.5, 1.5), c.Pos)
}

func TestMoveStopsAtGridEdge(t *testing.T) {
	col := boxCollider{w: 3, h: 3}
	c := New(geom.Vec2(0.5, 1.5), geom.Vec2(-1, 0), 66)
	c.MoveSpeed = 1

	c.Move(1, col)
	assert.Equal(t, 0.5, c.Pos.X, "outside the grid counts as blocked")

	c.Move(-1, col)
	assert.Equal(t, 1.5, c.Pos.X)
}

func TestStrafe(t *testing.T) {
	col := boxCollider{w: 5, h: 5}
	c := New(geom.Vec2(2.5, 2.5), geom.Vec2(1, 0), 66)
	c.MoveSpeed = 0.5

	c.Strafe(1, col)
	assert.InDelta(t, 2.5, c.Pos.X, 1e-12)
	assert.InDelta(t, 3.0, c.Pos.Y, 1e-12)
}

func TestRotationPathsAgree(t *testing.T) {
	for _, factor := range []float64{1, -1, 0.5, 7, -13.25} {
		direct := New(geom.Vec2(2, 2), geom.Vec2(0.3, -0.8), 70)
		direct.RotSpeed = 0.07
		cached := *direct

		direct.Rotate(factor)
		cached.RotateBy(NewRotation(factor * cached.RotSpeed))

		assert.InDelta(t, direct.Dir.X, cached.Dir.X, 1e-12)
		assert.InDelta(t, direct.Dir.Y, cached.Dir.Y, 1e-12)
		assert.InDelta(t, direct.Plane.X, cached.Plane.X, 1e-12)
		assert.InDelta(t, direct.Plane.Y, cached.Plane.Y, 1e-12)
	}
}

func TestRotationInverse(t *testing.T) {
	r := NewRotation(0.4)
	v := geom.Vec2(1, 2)
	back := r.Inverse().Apply(r.Apply(v))
	assert.InDelta(t, v.X, back.X, 1e-12)
	assert.InDelta(t, v.Y, back.Y, 1e-12)
	assert.Equal(t, -r.Sin, r.NegSin)
}

func TestFrameRotationsReuseWithinFrame(t *testing.T) {
	f := NewFrameRotations(0.1)

	a := f.Get(1)
	b := f.Get(1)
	f.Get(-1)
	assert.Equal(t, a, b)
	assert.Equal(t, 2, f.Len())
	assert.InDelta(t, 0.1, a.Angle, 1e-15)

	f.Reset(0.2)
	assert.Equal(t, 0, f.Len())
	assert.InDelta(t, 0.2, f.Get(1).Angle, 1e-15)
}

func TestShearClamps(t *testing.T) {
	c := New(geom.Vec2(1, 1), geom.Vec2(1, 0), 66)
	c.ShearLimit = 50

	c.Shear(30)
	assert.Equal(t, 30.0, c.ShearOffset)
	c.Shear(30)
	assert.Equal(t, 50.0, c.ShearOffset)
	c.Shear(-500)
	assert.Equal(t, -50.0, c.ShearOffset)
}

func TestRenormalize(t *testing.T) {
	c := New(geom.Vec2(1, 1), geom.Vec2(1, 0), 66)
	planeLen := c.Plane.Length()
	for i := 0; i < 10000; i++ {
		c.Rotate(1)
	}
	c.Renormalize()
	assert.InDelta(t, 1, c.Dir.Length(), 1e-12)
	assert.InDelta(t, planeLen, c.Plane.Length(), 1e-9)
	assert.InDelta(t, 0, c.Dir.Dot(c.Plane), 1e-12)
}
