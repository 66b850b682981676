// Package hud draws a two-bar heads-up display over a finished frame. The
// layout comes from a template image: two sentinel colours mark where the
// bars go, everything else in the template is drawn as-is.
package hud

import (
	"fmt"
	"image"

	"chosenoffset.com/gridcaster/internal/render/texture"
)

// Default sentinel colours painted into HUD templates.
var (
	PrimarySentinel   = texture.RGB(255, 0, 0)
	SecondarySentinel = texture.RGB(0, 0, 255)
)

// Config defines where and how the HUD is drawn
type Config struct {
	Position string  `yaml:"position"` // "top-left", "top-right", "bottom-left", "bottom-right"
	Padding  int     `yaml:"padding"`  // Distance from the screen edges in pixels
	Opacity  float64 `yaml:"opacity"`  // Template opacity (0-1)
}

// DefaultConfig returns a sensible default HUD configuration
func DefaultConfig() Config {
	return Config{
		Position: "bottom-left",
		Padding:  4,
		Opacity:  1,
	}
}

// Bar is one sentinel region of the template and its current fill.
type Bar struct {
	Rect  image.Rectangle // In template coordinates
	Value float64
	Max   float64
}

// Fraction returns Value/Max clamped to [0, 1]; a zero Max reads as empty.
func (b Bar) Fraction() float64 {
	if b.Max <= 0 {
		return 0
	}
	return min(max(b.Value/b.Max, 0), 1)
}

// HUD composites the template and its two bars onto pixel buffers.
type HUD struct {
	config   Config
	template *texture.Texture
	bars     [2]Bar
}

// New scans template for the two sentinel colours. Each must appear at
// least once; its bar covers the bounding rectangle of every matching pixel.
func New(template *texture.Texture, primary, secondary uint32, config Config) (*HUD, error) {
	if template == nil {
		return nil, fmt.Errorf("hud template is nil")
	}
	h := &HUD{config: config, template: template}
	for i, sentinel := range []uint32{primary, secondary} {
		r, ok := scan(template, sentinel)
		if !ok {
			return nil, fmt.Errorf("hud template %s has no pixels of sentinel colour %#08x", template.Name, sentinel)
		}
		h.bars[i] = Bar{Rect: r}
	}
	return h, nil
}

func scan(t *texture.Texture, sentinel uint32) (image.Rectangle, bool) {
	r := image.Rectangle{Min: image.Pt(t.Width, t.Height)}
	found := false
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			if t.At(x, y) != sentinel {
				continue
			}
			found = true
			r.Min.X = min(r.Min.X, x)
			r.Min.Y = min(r.Min.Y, y)
			r.Max.X = max(r.Max.X, x+1)
			r.Max.Y = max(r.Max.Y, y+1)
		}
	}
	return r, found
}

// SetStats updates both bars. Values are clamped when drawn.
func (h *HUD) SetStats(primary, primaryMax, secondary, secondaryMax float64) {
	h.bars[0].Value, h.bars[0].Max = primary, primaryMax
	h.bars[1].Value, h.bars[1].Max = secondary, secondaryMax
}

// Bars returns the primary and secondary bars.
func (h *HUD) Bars() [2]Bar {
	return h.bars
}

// Origin returns the top-left corner of the template on a w x h screen.
func (h *HUD) Origin(w, hgt int) image.Point {
	pad := h.config.Padding
	tw, th := h.template.Width, h.template.Height
	switch h.config.Position {
	case "top-left":
		return image.Pt(pad, pad)
	case "top-right":
		return image.Pt(w-tw-pad, pad)
	case "bottom-right":
		return image.Pt(w-tw-pad, hgt-th-pad)
	default: // "bottom-left"
		return image.Pt(pad, hgt-th-pad)
	}
}

// Overlay draws the HUD onto a row-major w x h ARGB buffer. Pixels that fall
// off the screen are clipped.
func (h *HUD) Overlay(pix []uint32, w, hgt int) {
	origin := h.Origin(w, hgt)
	fills := [2]int{}
	for i, b := range h.bars {
		fills[i] = b.Rect.Min.X + int(float64(b.Rect.Dx())*b.Fraction()+0.5)
	}
	opacity := min(max(h.config.Opacity, 0), 1)

	for ty := 0; ty < h.template.Height; ty++ {
		sy := origin.Y + ty
		if sy < 0 || sy >= hgt {
			continue
		}
		for tx := 0; tx < h.template.Width; tx++ {
			sx := origin.X + tx
			if sx < 0 || sx >= w {
				continue
			}
			c := h.template.At(tx, ty)
			if c == texture.TransparentKey {
				continue
			}
			p := image.Pt(tx, ty)
			for i, b := range h.bars {
				if p.In(b.Rect) {
					c = barColour(b.Fraction(), tx < fills[i], i)
					break
				}
			}
			dst := &pix[sy*w+sx]
			*dst = blend(*dst, c, opacity)
		}
	}
}

// barColour picks the fill by percentage like a health bar: green, yellow,
// red. The secondary bar is always blue.
func barColour(frac float64, filled bool, bar int) uint32 {
	if !filled {
		return texture.RGB(60, 20, 20)
	}
	if bar == 1 {
		return texture.RGB(50, 110, 220)
	}
	switch {
	case frac > 0.6:
		return texture.RGB(50, 180, 50)
	case frac > 0.3:
		return texture.RGB(200, 180, 50)
	default:
		return texture.RGB(200, 50, 50)
	}
}

func blend(dst, src uint32, alpha float64) uint32 {
	if alpha >= 1 {
		return src
	}
	_, dr, dg, db := texture.Channels(dst)
	_, sr, sg, sb := texture.Channels(src)
	mix := func(d, s uint8) uint8 {
		return uint8(float64(d)*(1-alpha) + float64(s)*alpha + 0.5)
	}
	return texture.RGB(mix(dr, sr), mix(dg, sg), mix(db, sb))
}
