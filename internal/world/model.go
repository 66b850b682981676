package world

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/gridcaster/internal/core/geom"
	"chosenoffset.com/gridcaster/internal/render/texture"
)

// Model is a triangle mesh inserted into a single cell.
type Model struct {
	Name    string
	Texture *texture.Texture
	// Triangles are in cell-local space, inside [0,1]^3.
	Triangles []geom.Triangle
	// Transform maps the source mesh into cell-local space.
	Transform mgl64.Mat4

	footprint []Wall
}

// NewModel normalises tris into the unit cube: the longest extent is scaled
// to 1, the mesh is centred in X/Y and rests on z=0. An empty or flat mesh is
// reported and replaced by the unit cube.
func NewModel(name string, tris []geom.Triangle, tex *texture.Texture) *Model {
	lo, hi := geom.Bounds(tris)
	extent := hi.Sub(lo)
	size := max(extent[0], extent[1], extent[2])

	if len(tris) == 0 || size <= 0 {
		log.Printf("WARNING: model %s has no usable geometry, substituting unit cube", name)
		tris = geom.UnitCube()
		lo, hi = geom.Bounds(tris)
		extent = hi.Sub(lo)
		size = 1
	}

	centre := mgl64.Vec3{lo[0] + extent[0]/2, lo[1] + extent[1]/2, lo[2]}
	s := 1 / size
	transform := mgl64.Translate3D(0.5, 0.5, 0).
		Mul4(mgl64.Scale3D(s, s, s)).
		Mul4(mgl64.Translate3D(-centre[0], -centre[1], -centre[2]))

	m := &Model{
		Name:      name,
		Texture:   tex,
		Transform: transform,
		Triangles: make([]geom.Triangle, len(tris)),
	}
	for i, t := range tris {
		m.Triangles[i] = t.Transform(transform)
	}
	m.footprint = m.buildFootprint()
	return m
}

// Footprint returns the walls of the model's convex outline on the floor
// plane. These stand in for the mesh in the column renderer.
func (m *Model) Footprint() []Wall {
	return m.footprint
}

func (m *Model) buildFootprint() []Wall {
	pts := make([]geom.Vector2, 0, len(m.Triangles)*3)
	for _, t := range m.Triangles {
		for _, v := range [3]mgl64.Vec3{t.A, t.B, t.C} {
			pts = append(pts, geom.Vec2(v[0], v[1]))
		}
	}

	outline := geom.Outline(geom.ConvexHull(pts))
	if len(outline) == 0 {
		log.Printf("WARNING: model %s has a degenerate footprint", m.Name)
		return nil
	}

	walls := make([]Wall, len(outline))
	for i, seg := range outline {
		walls[i] = Wall{Segment: seg, Face: NewFace(m.Texture)}
	}
	return walls
}
