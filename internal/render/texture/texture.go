// Package texture holds the ARGB pixel buffers sampled by the raycaster.
package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TransparentKey is the alpha-key colour. Pixels equal to it are never drawn.
const TransparentKey uint32 = 0xFFFF00FF

// Texture is a row-major ARGB pixel buffer.
type Texture struct {
	Name   string
	Width  int
	Height int
	Pixels []uint32
}

// New allocates a texture filled with transparent key pixels.
func New(name string, width, height int) *Texture {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("texture: invalid size %dx%d for %q", width, height, name))
	}
	t := &Texture{
		Name:   name,
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
	t.Fill(TransparentKey)
	return t
}

// FromImage converts img to ARGB. Pixels that are mostly transparent become
// TransparentKey so the key stays the only notion of transparency.
func FromImage(name string, img image.Image) *Texture {
	b := img.Bounds()
	t := New(name, b.Dx(), b.Dy())
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			if c.A < 128 {
				continue
			}
			t.Pixels[y*t.Width+x] = RGB(c.R, c.G, c.B)
		}
	}
	return t
}

// RGB packs an opaque ARGB colour.
func RGB(r, g, b uint8) uint32 {
	return 0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Channels splits an ARGB colour.
func Channels(c uint32) (a, r, g, b uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// At returns the pixel at (x, y). Coordinates must be inside the texture.
func (t *Texture) At(x, y int) uint32 {
	return t.Pixels[y*t.Width+x]
}

// Set writes the pixel at (x, y).
func (t *Texture) Set(x, y int, c uint32) {
	t.Pixels[y*t.Width+x] = c
}

// Fill sets every pixel to c.
func (t *Texture) Fill(c uint32) {
	for i := range t.Pixels {
		t.Pixels[i] = c
	}
}

// Column maps a texture coordinate u in [0, 1) to a pixel column.
func (t *Texture) Column(u float64) int {
	return wrap(int(u*float64(t.Width)), t.Width)
}

// Row maps a texture coordinate v in [0, 1) to a pixel row.
func (t *Texture) Row(v float64) int {
	return wrap(int(v*float64(t.Height)), t.Height)
}

// Sample returns the pixel at normalised (u, v), wrapping outside [0, 1).
func (t *Texture) Sample(u, v float64) uint32 {
	return t.At(t.Column(u), t.Row(v))
}

// IsSquare reports whether the texture has equal width and height.
func (t *Texture) IsSquare() bool {
	return t.Width == t.Height
}

// ToImage converts the texture back to an image, key pixels fully transparent.
func (t *Texture) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			c := t.At(x, y)
			if c == TransparentKey {
				continue
			}
			_, r, g, b := Channels(c)
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Square is a texture with equal sides. It shares its pixels with the
// general texture returned by General.
type Square struct {
	*Texture
}

// NewSquare allocates a size x size texture.
func NewSquare(name string, size int) *Square {
	return &Square{Texture: New(name, size, size)}
}

// AsSquare reinterprets t as a square texture without copying.
func AsSquare(t *Texture) (*Square, error) {
	if t == nil {
		return nil, fmt.Errorf("texture is nil")
	}
	if !t.IsSquare() {
		return nil, fmt.Errorf("texture %q is %dx%d, not square", t.Name, t.Width, t.Height)
	}
	return &Square{Texture: t}, nil
}

// Size returns the side length.
func (s *Square) Size() int {
	return s.Width
}

// General returns the underlying texture. No pixels are copied.
func (s *Square) General() *Texture {
	return s.Texture
}
