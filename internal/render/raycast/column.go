package raycast

import (
	"math"

	"chosenoffset.com/gridcaster/internal/core/geom"
	"chosenoffset.com/gridcaster/internal/render/texture"
)

// untextured is drawn for faces without a texture.
var untextured = texture.RGB(128, 128, 128)

// renderColumn runs the whole per-column pipeline for column x: background,
// wall slice, floor and ceiling.
func (r *Raycaster) renderColumn(f *frame, x int) {
	w, h := r.cfg.Width, r.cfg.Height
	dir := f.cam.RayDir(x, w)

	for y := 0; y < h; y++ {
		c := r.cfg.FloorColor
		if float64(y)+0.5 < f.centre {
			c = r.cfg.CeilingColor
		}
		r.pixels[y*w+x] = c
	}
	r.zbuf[x] = math.Inf(1)

	hit := castRay(f.grid, f.cam.Pos, dir, math.Inf(1))

	horizon := clampInt(int(math.Ceil(f.centre-0.5)), 0, h)
	top, bottom := horizon, horizon
	if hit.Found {
		p := project(hit.Perp, h, f.centre)
		r.zbuf[x] = hit.Perp
		r.drawWall(f, x, hit, p)
		top, bottom = p.Top, p.Bottom
	}
	r.drawPlanes(f, x, dir, hit.Perp, top, bottom)
}

func (r *Raycaster) drawWall(f *frame, x int, hit Hit, p projection) {
	w := r.cfg.Width
	tex := hit.Face.Texture
	if tex == nil {
		c := r.shadeWall(f, untextured, hit.Perp, hit.Side)
		for y := p.Top; y < p.Bottom; y++ {
			r.pixels[y*w+x] = c
		}
		return
	}

	col := tex.Column(hit.TexU())
	for y := p.Top; y < p.Bottom; y++ {
		c := tex.At(col, tex.Row(p.texV(y)*hit.Face.TileV))
		if c == texture.TransparentKey {
			continue
		}
		r.pixels[y*w+x] = r.shadeWall(f, c, hit.Perp, hit.Side)
	}
}

// drawPlanes casts the floor below bottom and the ceiling above top.
func (r *Raycaster) drawPlanes(f *frame, x int, dir geom.Vector2, perp float64, top, bottom int) {
	for y := bottom; y < r.cfg.Height; y++ {
		r.drawPlanePixel(f, x, y, dir, perp, false)
	}
	for y := 0; y < top; y++ {
		r.drawPlanePixel(f, x, y, dir, perp, true)
	}
}

func (r *Raycaster) drawPlanePixel(f *frame, x, y int, dir geom.Vector2, perp float64, ceiling bool) {
	d := f.rowDist[y]
	if math.IsInf(d, 1) || d > r.zbuf[x] {
		return
	}
	p := floorPoint(f.cam.Pos, dir, perp, d)
	cx, cy := p.Floor()
	if !f.grid.InBounds(cx, cy) {
		return
	}
	tex := f.grid.FloorAt(cx, cy)
	if ceiling {
		tex = f.grid.CeilingAt(cx, cy)
	}
	if tex == nil {
		return
	}
	c := tex.Sample(geom.Frac(p.X), geom.Frac(p.Y))
	if c == texture.TransparentKey {
		return
	}
	r.pixels[y*r.cfg.Width+x] = r.shadeDist(f, c, d)
}

// floorPoint inverse-projects a floor row at distance d onto the grid by
// interpolating between the camera and the wall hit at perp. With no wall
// in front the point is taken straight from the ray.
func floorPoint(pos, dir geom.Vector2, perp, d float64) geom.Vector2 {
	if perp <= 0 {
		return pos.Add(dir.Scale(d))
	}
	wall := pos.Add(dir.Scale(perp))
	weight := d / perp
	return wall.Scale(weight).Add(pos.Scale(1 - weight))
}

func (r *Raycaster) shadeDist(f *frame, c uint32, dist float64) uint32 {
	if f.shade == ShadeNone || r.cfg.FogDistance <= 0 {
		return c
	}
	return texture.Darken(c, dist/r.cfg.FogDistance, r.cfg.FogThreshold)
}

func (r *Raycaster) shadeWall(f *frame, c uint32, dist float64, side Side) uint32 {
	c = r.shadeDist(f, c, dist)
	if f.shade == ShadeFogSide && side == SideY {
		c = texture.DarkenBy(c, r.cfg.SideShade)
	}
	return c
}
