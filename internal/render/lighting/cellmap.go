package lighting

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/gridcaster/internal/world"
)

// CellMap holds the light planes of one grid cell.
type CellMap struct {
	X      int           `json:"x"`
	Y      int           `json:"y"`
	Kind   string        `json:"kind"`
	Planes []*LightPlane `json:"planes"`
}

// Plane returns the plane with the given name, or nil.
func (m *CellMap) Plane(name string) *LightPlane {
	for _, p := range m.Planes {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// BuildCellMap creates the planes for the cell at (x, y). World space has
// the grid on the XY plane and Z up; a cell spans one unit on every axis.
//
//	empty, invisible, model sector -> floor, ceiling
//	full block                     -> four sides, normals pointing out
//	fake block                     -> four sides, floor, ceiling
//	custom sector                  -> floor, ceiling, one plane per wall
func BuildCellMap(x, y int, cell *world.Cell, resolution float64) *CellMap {
	m := &CellMap{X: x, Y: y, Kind: cell.Kind().String()}
	fx, fy := float64(x), float64(y)
	v := func(px, py, pz float64) mgl64.Vec3 { return mgl64.Vec3{fx + px, fy + py, pz} }
	add := func(name string, c0, c1, c2, c3 mgl64.Vec3) {
		m.Planes = append(m.Planes, NewLightPlane(name, [4]mgl64.Vec3{c0, c1, c2, c3}, resolution))
	}
	floorAndCeiling := func() {
		add("floor", v(0, 0, 0), v(1, 0, 0), v(1, 1, 0), v(0, 1, 0))
		add("ceiling", v(0, 0, 1), v(0, 1, 1), v(1, 1, 1), v(1, 0, 1))
	}
	sides := func() {
		add("north", v(0, 0, 0), v(1, 0, 0), v(1, 0, 1), v(0, 0, 1))
		add("east", v(1, 0, 0), v(1, 1, 0), v(1, 1, 1), v(1, 0, 1))
		add("south", v(1, 1, 0), v(0, 1, 0), v(0, 1, 1), v(1, 1, 1))
		add("west", v(0, 1, 0), v(0, 0, 0), v(0, 0, 1), v(0, 1, 1))
	}

	if !cell.Visible {
		floorAndCeiling()
		return m
	}
	switch shape := cell.Shape.(type) {
	case *world.FullBlock:
		if cell.Fake() {
			m.Kind = "fake_block"
			sides()
			floorAndCeiling()
			return m
		}
		sides()
	case *world.CustomSector:
		floorAndCeiling()
		for i, w := range shape.Walls {
			a, b := w.A, w.B
			add(fmt.Sprintf("wall%d", i), v(a.X, a.Y, 0), v(b.X, b.Y, 0), v(b.X, b.Y, 1), v(a.X, a.Y, 1))
		}
	default:
		floorAndCeiling()
	}
	return m
}
