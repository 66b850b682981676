// Package lighting builds lightmap geometry for a grid: every cell gets a
// CellMap of rectangular LightPlanes, each with a lumel grid and a fixed UV
// unwrap. Filling the lumels is left to a pluggable Illuminator; there is no
// light transport here.
package lighting

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/gridcaster/internal/core/geom"
)

// coplanarEps is the largest distance of the fourth corner from the plane
// of the first three before a diagnostic is logged.
const coplanarEps = 1e-9

// quadUVs is the unwrap shared by every plane: corner 0 at the UV origin,
// corner 2 opposite it.
var quadUVs = [4]mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// LightPlane is a quad split into a Cols x Rows grid of lumels.
type LightPlane struct {
	Name      string           `json:"name"`
	Corners   [4]mgl64.Vec3    `json:"corners"`
	Normal    mgl64.Vec3       `json:"normal"`
	Cols      int              `json:"cols"`
	Rows      int              `json:"rows"`
	Lumels    []uint32         `json:"lumels"` // ARGB, row-major
	Triangles [2]geom.Triangle `json:"triangles"`
	UVs       [4]mgl64.Vec2    `json:"uvs"`
}

// NewLightPlane builds a plane over corners given in winding order. The
// lumel grid has ceil(edge*resolution) cells along each edge, at least one.
// Corners that are not coplanar are reported but still used.
func NewLightPlane(name string, corners [4]mgl64.Vec3, resolution float64) *LightPlane {
	p := &LightPlane{
		Name:    name,
		Corners: corners,
		Cols:    lumelCount(corners[1].Sub(corners[0]).Len(), resolution),
		Rows:    lumelCount(corners[3].Sub(corners[0]).Len(), resolution),
		UVs:     quadUVs,
	}
	p.Lumels = make([]uint32, p.Cols*p.Rows)
	p.Triangles = [2]geom.Triangle{
		geom.Tri(corners[0], corners[1], corners[2]),
		geom.Tri(corners[0], corners[2], corners[3]),
	}
	p.Normal = p.Triangles[0].Normal()
	if p.Normal.Len() == 0 {
		p.Normal = p.Triangles[1].Normal()
	}

	if p.Normal.Len() > 0 {
		if off := math.Abs(corners[3].Sub(corners[0]).Dot(p.Normal)); off > coplanarEps {
			log.Printf("WARNING: light plane %s is not coplanar, corner 3 is %.3g off", name, off)
		}
	}
	return p
}

func lumelCount(edge, resolution float64) int {
	return max(1, int(math.Ceil(edge*resolution)))
}

// Lumel returns the lumel at (col, row).
func (p *LightPlane) Lumel(col, row int) uint32 {
	return p.Lumels[row*p.Cols+col]
}

// SetLumel writes the lumel at (col, row).
func (p *LightPlane) SetLumel(col, row int, c uint32) {
	p.Lumels[row*p.Cols+col] = c
}

// Fill sets every lumel to c.
func (p *LightPlane) Fill(c uint32) {
	for i := range p.Lumels {
		p.Lumels[i] = c
	}
}

// Centre returns the world position of the middle of lumel (col, row).
func (p *LightPlane) Centre(col, row int) mgl64.Vec3 {
	u := (float64(col) + 0.5) / float64(p.Cols)
	v := (float64(row) + 0.5) / float64(p.Rows)
	// Bilinear over the corners; exact for planar parallelograms.
	bottom := p.Corners[0].Mul(1 - u).Add(p.Corners[1].Mul(u))
	top := p.Corners[3].Mul(1 - u).Add(p.Corners[2].Mul(u))
	return bottom.Mul(1 - v).Add(top.Mul(v))
}

// UV maps a point on the plane to texture space through the barycentric
// coordinates of whichever triangle contains it.
func (p *LightPlane) UV(pt mgl64.Vec3) (mgl64.Vec2, bool) {
	uvs := [2][3]mgl64.Vec2{
		{p.UVs[0], p.UVs[1], p.UVs[2]},
		{p.UVs[0], p.UVs[2], p.UVs[3]},
	}
	for i, tri := range p.Triangles {
		wa, wb, wc, ok := tri.Barycentric(pt)
		if !ok || !geom.Contains(wa, wb, wc, 1e-9) {
			continue
		}
		uv := uvs[i][0].Mul(wa).Add(uvs[i][1].Mul(wb)).Add(uvs[i][2].Mul(wc))
		return uv, true
	}
	return mgl64.Vec2{}, false
}

// Locate returns the lumel containing pt. Points outside the quad, and any
// point on a degenerate plane, are not found.
func (p *LightPlane) Locate(pt mgl64.Vec3) (col, row int, ok bool) {
	uv, ok := p.UV(pt)
	if !ok {
		return 0, 0, false
	}
	col = min(max(int(uv[0]*float64(p.Cols)), 0), p.Cols-1)
	row = min(max(int(uv[1]*float64(p.Rows)), 0), p.Rows-1)
	return col, row, true
}
