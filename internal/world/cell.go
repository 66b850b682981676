// Package world is the grid model the renderers and the light baker read:
// cells, their shapes, floor/ceiling textures and dynamic entities.
package world

import (
	"fmt"
	"log"

	"chosenoffset.com/gridcaster/internal/core/geom"
	"chosenoffset.com/gridcaster/internal/render/texture"
)

// Kind classifies a cell's shape.
type Kind int

const (
	KindEmpty Kind = iota
	KindFullBlock
	KindCustomSector
	KindModelSector
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindFullBlock:
		return "full_block"
	case KindCustomSector:
		return "custom_sector"
	case KindModelSector:
		return "model_sector"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Shape is the geometric content of a cell. The concrete types are
// *FullBlock, *CustomSector and *ModelSector; a nil Shape is empty space.
type Shape interface {
	Kind() Kind
}

// Face is a textured surface with repeat counts along U and V.
type Face struct {
	Texture *texture.Texture
	TileU   float64
	TileV   float64
}

// NewFace returns a face that shows tex once in each direction.
func NewFace(tex *texture.Texture) Face {
	return Face{Texture: tex, TileU: 1, TileV: 1}
}

// FullBlock fills the whole cell. Faces crossed on the X axis show Front,
// faces crossed on the Y axis show Side.
type FullBlock struct {
	Front Face
	Side  Face
}

func (*FullBlock) Kind() Kind { return KindFullBlock }

// Wall is a textured segment in cell-local coordinates ([0,1]^2).
type Wall struct {
	geom.Segment
	Face
}

// Length returns the wall's length in cell units.
func (w Wall) Length() float64 {
	return w.Segment.Length()
}

// CustomSector draws an arbitrary set of walls instead of four faces.
type CustomSector struct {
	Walls []Wall
}

func (*CustomSector) Kind() Kind { return KindCustomSector }

// ModelSector embeds a triangle mesh normalised into the unit cube.
type ModelSector struct {
	Model *Model
}

func (*ModelSector) Kind() Kind { return KindModelSector }

// Walls returns the model's footprint walls for column rendering.
func (m *ModelSector) Walls() []Wall {
	if m.Model == nil {
		return nil
	}
	return m.Model.Footprint()
}

// Cell is one grid square. Solid (collision) and Visible (rendering) are
// independent: a fake block is Visible but not Solid, an invisible wall is
// Solid but not Visible.
type Cell struct {
	Name    string
	Solid   bool
	Visible bool
	// CullDistance hides the cell beyond this perpendicular distance. Zero
	// never culls.
	CullDistance float64
	Shape        Shape
}

// Kind returns the shape classification, KindEmpty for a nil shape.
func (c *Cell) Kind() Kind {
	if c == nil || c.Shape == nil {
		return KindEmpty
	}
	return c.Shape.Kind()
}

// Empty reports whether the cell has no drawable content.
func (c *Cell) Empty() bool {
	return c.Kind() == KindEmpty || !c.Visible
}

// Fake reports whether the cell is a visible full block without collision.
func (c *Cell) Fake() bool {
	return c.Kind() == KindFullBlock && c.Visible && !c.Solid
}

// Culled reports whether a hit at dist should be ignored.
func (c *Cell) Culled(dist float64) bool {
	return c.CullDistance > 0 && dist > c.CullDistance
}

// Walls returns the segments tested by the column renderer for sector cells.
func (c *Cell) Walls() []Wall {
	switch s := c.Shape.(type) {
	case *CustomSector:
		return s.Walls
	case *ModelSector:
		return s.Walls()
	default:
		return nil
	}
}

// Space returns an empty, walkable cell.
func Space() *Cell {
	return &Cell{Name: "space"}
}

// NewBlock returns a solid, visible full block.
func NewBlock(name string, front, side Face) *Cell {
	return &Cell{
		Name:    name,
		Solid:   true,
		Visible: true,
		Shape:   &FullBlock{Front: front, Side: side},
	}
}

// NewFakeBlock returns a full block that can be walked through.
func NewFakeBlock(name string, front, side Face) *Cell {
	c := NewBlock(name, front, side)
	c.Solid = false
	return c
}

// NewCustomSector returns a visible, non-solid sector built from walls.
// Degenerate walls are kept but reported; the renderer skips them.
func NewCustomSector(name string, walls []Wall) *Cell {
	for i, w := range walls {
		if w.Degenerate() {
			log.Printf("WARNING: sector %s wall %d is degenerate (%v -> %v)", name, i, w.A, w.B)
		}
	}
	if len(walls) == 0 {
		log.Printf("WARNING: sector %s has no walls", name)
	}
	return &Cell{
		Name:    name,
		Visible: true,
		Shape:   &CustomSector{Walls: walls},
	}
}

// NewModelSector returns a visible, solid cell holding model.
func NewModelSector(name string, model *Model) *Cell {
	return &Cell{
		Name:    name,
		Solid:   true,
		Visible: true,
		Shape:   &ModelSector{Model: model},
	}
}
