package raycast

import (
	"math"

	"chosenoffset.com/gridcaster/internal/camera"
	"chosenoffset.com/gridcaster/internal/render/texture"
	"chosenoffset.com/gridcaster/internal/world"
)

// spriteDraw is an entity projected into screen space for one frame.
type spriteDraw struct {
	tex    *texture.Texture
	depth  float64 // Distance along the view direction
	left   float64 // Unclipped first column
	width  float64
	top    float64 // Unclipped first row
	height float64
}

// prepareSprites projects entities, already sorted far to near, into camera
// space. Entities behind the camera or without a texture are dropped.
func (r *Raycaster) prepareSprites(cam *camera.Camera, entities []world.Entity, centre float64) []spriteDraw {
	if len(entities) == 0 {
		return nil
	}
	// Solve rel = depth*Dir + across*Plane.
	det := cam.Dir.X*cam.Plane.Y - cam.Plane.X*cam.Dir.Y
	if math.Abs(det) < 1e-12 {
		return nil
	}

	w, h := float64(r.cfg.Width), float64(r.cfg.Height)
	out := make([]spriteDraw, 0, len(entities))
	for _, e := range entities {
		e.SetCamera(cam)
		tex := e.ActiveTexture()
		if tex == nil {
			continue
		}
		rel := e.Position().Sub(cam.Pos)
		depth := (rel.X*cam.Plane.Y - cam.Plane.X*rel.Y) / det
		across := (cam.Dir.X*rel.Y - cam.Dir.Y*rel.X) / det
		if depth <= minPerp {
			continue
		}

		size := h / depth
		width := size * float64(tex.Width) / float64(tex.Height)
		screenX := w / 2 * (1 + across/depth)
		out = append(out, spriteDraw{
			tex:    tex,
			depth:  depth,
			left:   screenX - width/2,
			width:  width,
			top:    centre - size/2,
			height: size,
		})
	}
	return out
}

// drawSprites composites every sprite covering column x, far to near,
// behind any wall nearer than the sprite.
func (r *Raycaster) drawSprites(f *frame, x int) {
	w, h := r.cfg.Width, r.cfg.Height
	cx := float64(x) + 0.5
	for i := range f.sprites {
		s := &f.sprites[i]
		if cx < s.left || cx >= s.left+s.width || s.depth >= r.zbuf[x] {
			continue
		}
		u := (cx - s.left) / s.width
		col := s.tex.Column(u)

		top := clampInt(int(math.Ceil(s.top-0.5)), 0, h)
		bottom := clampInt(int(math.Ceil(s.top+s.height-0.5)), 0, h)
		for y := top; y < bottom; y++ {
			v := (float64(y) + 0.5 - s.top) / s.height
			c := s.tex.At(col, s.tex.Row(v))
			if c == texture.TransparentKey {
				continue
			}
			r.pixels[y*w+x] = r.shadeDist(f, c, s.depth)
		}
	}
}
