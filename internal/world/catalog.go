package world

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/gridcaster/internal/core/geom"
	"chosenoffset.com/gridcaster/internal/render/texture"
)

// FaceDefinition describes a textured face in a map file.
type FaceDefinition struct {
	Texture string  `json:"texture"`
	TileU   float64 `json:"tile_u"` // Defaults to 1
	TileV   float64 `json:"tile_v"` // Defaults to 1
}

// SegmentDefinition describes one wall of a custom sector, in cell-local
// coordinates.
type SegmentDefinition struct {
	A [2]float64 `json:"a"`
	B [2]float64 `json:"b"`
	FaceDefinition
}

// ModelDefinition is an inline triangle mesh.
type ModelDefinition struct {
	Name      string          `json:"name"`
	Texture   string          `json:"texture"`
	Triangles [][3][3]float64 `json:"triangles"`
}

// BlockDefinition describes a reusable cell. Exactly one of Front/Side,
// Segments or Model selects the shape; none of them means empty space.
type BlockDefinition struct {
	Name         string              `json:"name"`
	Solid        *bool               `json:"solid"`   // Defaults by shape
	Visible      *bool               `json:"visible"` // Defaults to true
	CullDistance float64             `json:"cull_distance"`
	Front        *FaceDefinition     `json:"front"`
	Side         *FaceDefinition     `json:"side"`
	Segments     []SegmentDefinition `json:"segments"`
	Model        *ModelDefinition    `json:"model"`
}

// Catalog holds named block prototypes. Cells taken from it are shared
// between grid squares and must be treated as read-only.
type Catalog struct {
	blocks map[string]*Cell
}

// NewCatalog creates an empty block catalog.
func NewCatalog() *Catalog {
	return &Catalog{blocks: make(map[string]*Cell)}
}

// Register adds c under c.Name.
func (c *Catalog) Register(cell *Cell) error {
	if cell == nil || cell.Name == "" {
		return fmt.Errorf("block must have a name")
	}
	if _, exists := c.blocks[cell.Name]; exists {
		return fmt.Errorf("block %s already registered", cell.Name)
	}
	c.blocks[cell.Name] = cell
	return nil
}

// Get returns the block registered under name.
func (c *Catalog) Get(name string) (*Cell, bool) {
	cell, ok := c.blocks[name]
	return cell, ok
}

// Names returns the registered block names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.blocks))
	for name := range c.blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildCell turns a definition into a cell, resolving textures through
// textures. Definitions that mix shapes are rejected.
func BuildCell(def BlockDefinition, textures *texture.Catalog) (*Cell, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("block definition has no name")
	}

	hasFaces := def.Front != nil || def.Side != nil
	shapes := 0
	for _, present := range []bool{hasFaces, len(def.Segments) > 0, def.Model != nil} {
		if present {
			shapes++
		}
	}
	if shapes > 1 {
		return nil, fmt.Errorf("block %s mixes shapes: faces=%t segments=%d model=%t",
			def.Name, hasFaces, len(def.Segments), def.Model != nil)
	}

	var cell *Cell
	switch {
	case hasFaces:
		front, side := def.Front, def.Side
		if front == nil {
			front = side
		}
		if side == nil {
			side = front
		}
		cell = NewBlock(def.Name, buildFace(*front, textures), buildFace(*side, textures))

	case len(def.Segments) > 0:
		walls := make([]Wall, len(def.Segments))
		for i, s := range def.Segments {
			for _, pt := range [][2]float64{s.A, s.B} {
				if pt[0] < 0 || pt[0] > 1 || pt[1] < 0 || pt[1] > 1 {
					return nil, fmt.Errorf("block %s segment %d: point (%v, %v) is outside the cell", def.Name, i, pt[0], pt[1])
				}
			}
			walls[i] = Wall{
				Segment: geom.Seg(s.A[0], s.A[1], s.B[0], s.B[1]),
				Face:    buildFace(s.FaceDefinition, textures),
			}
		}
		cell = NewCustomSector(def.Name, walls)

	case def.Model != nil:
		tris := make([]geom.Triangle, len(def.Model.Triangles))
		for i, t := range def.Model.Triangles {
			tris[i] = geom.Tri(mgl64.Vec3(t[0]), mgl64.Vec3(t[1]), mgl64.Vec3(t[2]))
		}
		name := def.Model.Name
		if name == "" {
			name = def.Name
		}
		cell = NewModelSector(def.Name, NewModel(name, tris, lookupTexture(def.Model.Texture, textures)))

	default:
		cell = Space()
		cell.Name = def.Name
	}

	if def.Solid != nil {
		cell.Solid = *def.Solid
	}
	if def.Visible != nil {
		cell.Visible = *def.Visible
	}
	if def.CullDistance < 0 {
		return nil, fmt.Errorf("block %s has negative cull_distance %v", def.Name, def.CullDistance)
	}
	cell.CullDistance = def.CullDistance
	return cell, nil
}

func buildFace(def FaceDefinition, textures *texture.Catalog) Face {
	f := NewFace(lookupTexture(def.Texture, textures))
	if def.TileU > 0 {
		f.TileU = def.TileU
	}
	if def.TileV > 0 {
		f.TileV = def.TileV
	}
	return f
}

// lookupTexture resolves name, using the placeholder quietly when no texture
// was named at all.
func lookupTexture(name string, textures *texture.Catalog) *texture.Texture {
	if name == "" {
		return textures.Placeholder()
	}
	return textures.Get(name)
}
