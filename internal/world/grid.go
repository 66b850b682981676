package world

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"chosenoffset.com/gridcaster/internal/core/geom"
	"chosenoffset.com/gridcaster/internal/render/texture"
)

// Grid is a dense width x height array of cells with parallel floor and
// ceiling texture maps. Coordinates outside the grid are programming errors
// and panic; use InBounds to test first.
type Grid struct {
	width, height int
	cells         []*Cell
	floors        []*texture.Texture
	ceilings      []*texture.Texture
	entities      []Entity
}

// NewGrid creates a grid where every cell is fill.
func NewGrid(width, height int, fill *Cell) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("world: invalid grid size %dx%d", width, height))
	}
	if fill == nil {
		fill = Space()
	}
	g := &Grid{
		width:    width,
		height:   height,
		cells:    make([]*Cell, width*height),
		floors:   make([]*texture.Texture, width*height),
		ceilings: make([]*texture.Texture, width*height),
	}
	for i := range g.cells {
		g.cells[i] = fill
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) is a grid coordinate.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) index(x, y int) int {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("world: cell (%d, %d) outside %dx%d grid", x, y, g.width, g.height))
	}
	return y*g.width + x
}

// CellAt returns the cell at (x, y).
func (g *Grid) CellAt(x, y int) *Cell {
	return g.cells[g.index(x, y)]
}

// SetCellAt stores c at (x, y) and returns the cell it replaced, so callers
// can put it back later.
func (g *Grid) SetCellAt(x, y int, c *Cell) *Cell {
	if c == nil {
		panic("world: SetCellAt with nil cell")
	}
	i := g.index(x, y)
	prev := g.cells[i]
	g.cells[i] = c
	return prev
}

// Solid reports whether the cell at (x, y) blocks movement.
func (g *Grid) Solid(x, y int) bool {
	return g.CellAt(x, y).Solid
}

// Visible reports whether the cell at (x, y) is drawn.
func (g *Grid) Visible(x, y int) bool {
	return g.CellAt(x, y).Visible
}

// Blocked is the camera's collision query: solid cells and anything outside
// the grid stop movement.
func (g *Grid) Blocked(x, y int) bool {
	return !g.InBounds(x, y) || g.Solid(x, y)
}

// SetBorder replaces the outermost ring of cells with c. Only the
// perimeter is visited.
func (g *Grid) SetBorder(c *Cell) {
	for x := 0; x < g.width; x++ {
		g.SetCellAt(x, 0, c)
		g.SetCellAt(x, g.height-1, c)
	}
	for y := 1; y < g.height-1; y++ {
		g.SetCellAt(0, y, c)
		g.SetCellAt(g.width-1, y, c)
	}
}

// FloorAt returns the floor texture under (x, y); it may be nil.
func (g *Grid) FloorAt(x, y int) *texture.Texture {
	return g.floors[g.index(x, y)]
}

// CeilingAt returns the ceiling texture over (x, y); it may be nil.
func (g *Grid) CeilingAt(x, y int) *texture.Texture {
	return g.ceilings[g.index(x, y)]
}

// SetFloor sets the floor texture at (x, y).
func (g *Grid) SetFloor(x, y int, t *texture.Texture) {
	g.floors[g.index(x, y)] = t
}

// SetCeiling sets the ceiling texture at (x, y).
func (g *Grid) SetCeiling(x, y int, t *texture.Texture) {
	g.ceilings[g.index(x, y)] = t
}

// FillFloor sets every floor texture to t.
func (g *Grid) FillFloor(t *texture.Texture) {
	for i := range g.floors {
		g.floors[i] = t
	}
}

// FillCeiling sets every ceiling texture to t.
func (g *Grid) FillCeiling(t *texture.Texture) {
	for i := range g.ceilings {
		g.ceilings[i] = t
	}
}

// AddEntity appends e to the entity list.
func (g *Grid) AddEntity(e Entity) {
	g.entities = append(g.entities, e)
}

// RemoveEntity drops e from the entity list and reports whether it was there.
func (g *Grid) RemoveEntity(e Entity) bool {
	return g.RemoveEntityByID(e.ID())
}

// RemoveEntityByID drops the entity with id and reports whether it was there.
func (g *Grid) RemoveEntityByID(id uuid.UUID) bool {
	for i, other := range g.entities {
		if other.ID() == id {
			g.entities = append(g.entities[:i], g.entities[i+1:]...)
			return true
		}
	}
	return false
}

// Entity returns the entity with id.
func (g *Grid) Entity(id uuid.UUID) (Entity, bool) {
	for _, e := range g.entities {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

// Entities returns the entity list in its current order.
func (g *Grid) Entities() []Entity {
	return g.entities
}

// SortEntities orders entities by descending distance to from, so drawing
// them in order paints far ones first. Call once per frame.
func (g *Grid) SortEntities(from geom.Vector2) {
	sort.SliceStable(g.entities, func(i, j int) bool {
		di := g.entities[i].Position().Sub(from).LengthSq()
		dj := g.entities[j].Position().Sub(from).LengthSq()
		return di > dj
	})
}
