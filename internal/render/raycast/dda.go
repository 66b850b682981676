package raycast

import (
	"math"

	"chosenoffset.com/gridcaster/internal/core/geom"
)

// Side is the grid axis a ray crossed to enter a cell.
type Side int

const (
	SideX Side = iota // Crossed a vertical grid line (x = const)
	SideY             // Crossed a horizontal grid line (y = const)
)

func (s Side) String() string {
	if s == SideX {
		return "x"
	}
	return "y"
}

// never is the side distance of an axis the ray runs parallel to.
const never = math.MaxFloat64

// Crossing is one grid boundary passed by a ray.
type Crossing struct {
	X, Y int     // Cell entered
	Dist float64 // Ray parameter at the boundary, in units of the ray direction
	Side Side
}

// dda walks the cells along a ray in order of increasing distance.
type dda struct {
	mapX, mapY     int
	stepX, stepY   int
	sideX, sideY   float64
	deltaX, deltaY float64
}

// newDDA starts a march from pos along dir. It reports false for a zero
// direction, which never crosses anything.
func newDDA(pos, dir geom.Vector2) (dda, bool) {
	if dir.X == 0 && dir.Y == 0 {
		return dda{}, false
	}
	d := dda{}
	d.mapX, d.mapY = pos.Floor()

	switch {
	case dir.X < 0:
		d.stepX = -1
		d.deltaX = -1 / dir.X
		d.sideX = (pos.X - float64(d.mapX)) * d.deltaX
	case dir.X > 0:
		d.stepX = 1
		d.deltaX = 1 / dir.X
		d.sideX = (float64(d.mapX) + 1 - pos.X) * d.deltaX
	default:
		d.deltaX, d.sideX = never, never
	}

	switch {
	case dir.Y < 0:
		d.stepY = -1
		d.deltaY = -1 / dir.Y
		d.sideY = (pos.Y - float64(d.mapY)) * d.deltaY
	case dir.Y > 0:
		d.stepY = 1
		d.deltaY = 1 / dir.Y
		d.sideY = (float64(d.mapY) + 1 - pos.Y) * d.deltaY
	default:
		d.deltaY, d.sideY = never, never
	}
	return d, true
}

// next advances to the neighbouring cell along the axis with the nearer
// boundary. Dist is the side distance before it is incremented, which is
// the fisheye-free perpendicular distance to that boundary.
func (d *dda) next() Crossing {
	if d.sideX < d.sideY {
		c := Crossing{Dist: d.sideX, Side: SideX}
		d.sideX += d.deltaX
		d.mapX += d.stepX
		c.X, c.Y = d.mapX, d.mapY
		return c
	}
	c := Crossing{Dist: d.sideY, Side: SideY}
	d.sideY += d.deltaY
	d.mapY += d.stepY
	c.X, c.Y = d.mapX, d.mapY
	return c
}

// March returns the crossings of a ray from pos along dir until it has
// taken maxSteps steps. Used by tools and tests; the renderer drives the
// walker directly.
func March(pos, dir geom.Vector2, maxSteps int) []Crossing {
	d, ok := newDDA(pos, dir)
	if !ok {
		return nil
	}
	out := make([]Crossing, 0, maxSteps)
	for i := 0; i < maxSteps; i++ {
		out = append(out, d.next())
	}
	return out
}
