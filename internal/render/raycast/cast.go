package raycast

import (
	"math"

	"chosenoffset.com/gridcaster/internal/core/geom"
	"chosenoffset.com/gridcaster/internal/world"
)

// minPerp keeps projected heights finite when the camera touches a wall.
const minPerp = 1e-4

// cellSlack is how far a sector hit may sit outside its cell and still count.
const cellSlack = 1e-9

// Hit describes the first visible surface along a ray.
type Hit struct {
	Found bool
	X, Y  int        // Cell that was hit
	Cell  *world.Cell
	Side  Side       // Axis crossed; for sector walls, the axis used to enter the cell
	Perp  float64    // Perpendicular distance, in units of the ray direction
	Point geom.Vector2
	Face  world.Face
	Wall  int     // Index into Cell.Walls(), -1 for full blocks
	U     float64 // Horizontal texture coordinate before tiling, in [0, 1]
}

// TexU returns U scaled by the face's horizontal tiling.
func (h Hit) TexU() float64 {
	return h.U * h.Face.TileU
}

// castRay marches from pos along dir and returns the nearest visible surface
// closer than limit. Empty, invisible and culled cells are passed through,
// as are sector cells whose walls the ray misses. When nothing is hit, Perp
// is the distance at which the ray left the grid.
func castRay(grid *world.Grid, pos, dir geom.Vector2, limit float64) Hit {
	miss := Hit{Wall: -1}
	d, ok := newDDA(pos, dir)
	if !ok {
		return miss
	}

	// A ray can cross at most width+height boundaries before leaving.
	maxSteps := grid.Width() + grid.Height() + 2
	startX, startY := pos.Floor()
	if grid.InBounds(startX, startY) {
		// The camera's own cell can hold sector walls in front of it.
		if h, ok := sectorHit(grid, startX, startY, pos, dir, SideX, limit); ok {
			return h
		}
	}

	for i := 0; i < maxSteps; i++ {
		c := d.next()
		if c.Dist >= limit {
			break
		}
		if !grid.InBounds(c.X, c.Y) {
			miss.Perp = c.Dist
			return miss
		}
		miss.Perp = c.Dist

		cell := grid.CellAt(c.X, c.Y)
		if cell.Empty() || cell.Culled(c.Dist) {
			continue
		}
		switch shape := cell.Shape.(type) {
		case *world.FullBlock:
			return blockHit(cell, shape, c, pos, dir)
		case *world.CustomSector, *world.ModelSector:
			if h, ok := sectorHit(grid, c.X, c.Y, pos, dir, c.Side, limit); ok {
				return h
			}
		}
	}
	return miss
}

// blockHit fills in a full-block face. The plane is Dir.Perp() on a y-down
// grid, so U is flipped when the ray runs against the plane's axis.
func blockHit(cell *world.Cell, block *world.FullBlock, c Crossing, pos, dir geom.Vector2) Hit {
	h := Hit{
		Found: true,
		X:     c.X,
		Y:     c.Y,
		Cell:  cell,
		Side:  c.Side,
		Perp:  c.Dist,
		Point: pos.Add(dir.Scale(c.Dist)),
		Wall:  -1,
	}
	if c.Side == SideX {
		h.Face = block.Front
		h.U = geom.Frac(h.Point.Y)
		if dir.X < 0 {
			h.U = 1 - h.U
		}
	} else {
		h.Face = block.Side
		h.U = geom.Frac(h.Point.X)
		if dir.Y > 0 {
			h.U = 1 - h.U
		}
	}
	return h
}

// sectorHit tests the ray against every wall of the sector cell at (cx, cy)
// and keeps the nearest accepted intersection closer than limit. Hits whose
// point falls outside the cell are ignored.
func sectorHit(grid *world.Grid, cx, cy int, pos, dir geom.Vector2, side Side, limit float64) (Hit, bool) {
	cell := grid.CellAt(cx, cy)
	if cell.Empty() {
		return Hit{}, false
	}
	walls := cell.Walls()
	if len(walls) == 0 {
		return Hit{}, false
	}

	local := pos.Sub(geom.Vec2(float64(cx), float64(cy)))
	best := Hit{Wall: -1, Perp: limit}
	for i, w := range walls {
		if w.Degenerate() {
			continue
		}
		t, u, ok := w.IntersectRay(local, dir)
		if !ok || t >= best.Perp || cell.Culled(t) {
			continue
		}
		if p := local.Add(dir.Scale(t)); p.X < -cellSlack || p.X > 1+cellSlack || p.Y < -cellSlack || p.Y > 1+cellSlack {
			continue
		}
		// U runs left to right on screen when A->B points along the plane.
		if w.FacingSide(dir) {
			u = 1 - u
		}
		best = Hit{
			Found: true,
			X:     cx,
			Y:     cy,
			Cell:  cell,
			Side:  side,
			Perp:  t,
			Point: pos.Add(dir.Scale(t)),
			Face:  w.Face,
			Wall:  i,
			U:     u,
		}
	}
	return best, best.Found
}

// projection is the vertical span of a wall slice on screen. Start and
// Height are unclipped; Top and Bottom are the rows actually drawn.
type projection struct {
	Start  float64
	Height float64
	Top    int // First drawn row
	Bottom int // One past the last drawn row
}

func project(perp float64, screenH int, centre float64) projection {
	perp = math.Max(perp, minPerp)
	h := float64(screenH) / perp
	start := centre - h/2
	p := projection{Start: start, Height: h}
	p.Top = clampInt(int(math.Ceil(start-0.5)), 0, screenH)
	p.Bottom = clampInt(int(math.Ceil(start+h-0.5)), 0, screenH)
	return p
}

// texV maps screen row y to a vertical texture coordinate using the
// unclipped span, so clipping at the screen edge never stretches the texture.
func (p projection) texV(y int) float64 {
	return (float64(y) + 0.5 - p.Start) / p.Height
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
