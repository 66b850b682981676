package texture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"sort"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
)

// PlaceholderName is the catalog name of the neutral placeholder texture.
const PlaceholderName = "placeholder"

// Checker builds a two-tone checkerboard.
func Checker(name string, size, cell int, a, b uint32) *Texture {
	t := New(name, size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				t.Set(x, y, a)
			} else {
				t.Set(x, y, b)
			}
		}
	}
	return t
}

// Placeholder returns the neutral grey checkerboard substituted for any
// texture that is missing or fails to decode.
func Placeholder() *Texture {
	return Checker(PlaceholderName, 64, 8, RGB(128, 128, 128), RGB(96, 96, 96))
}

// Catalog is an explicitly constructed registry of named textures. It is
// filled during loading and read-only afterwards; it is not safe for
// concurrent mutation.
type Catalog struct {
	textures    map[string]*Texture
	placeholder *Texture
	warned      map[string]bool
}

// NewCatalog creates a catalog. A nil placeholder selects Placeholder().
func NewCatalog(placeholder *Texture) *Catalog {
	if placeholder == nil {
		placeholder = Placeholder()
	}
	return &Catalog{
		textures:    make(map[string]*Texture),
		placeholder: placeholder,
		warned:      make(map[string]bool),
	}
}

// Placeholder returns the catalog's substitute texture.
func (c *Catalog) Placeholder() *Texture {
	return c.placeholder
}

// Register adds t under its name.
func (c *Catalog) Register(t *Texture) error {
	if t == nil {
		return fmt.Errorf("cannot register nil texture")
	}
	if t.Name == "" {
		return fmt.Errorf("texture name cannot be empty")
	}
	if _, exists := c.textures[t.Name]; exists {
		return fmt.Errorf("texture %s already registered", t.Name)
	}
	c.textures[t.Name] = t
	return nil
}

// Lookup returns the texture registered under name.
func (c *Catalog) Lookup(name string) (*Texture, bool) {
	t, ok := c.textures[name]
	return t, ok
}

// Get returns the named texture, or the placeholder when it is unknown.
// Never returns nil.
func (c *Catalog) Get(name string) *Texture {
	if t, ok := c.textures[name]; ok {
		return t
	}
	if !c.warned[name] {
		c.warned[name] = true
		log.Printf("WARNING: texture %q not found, using placeholder", name)
	}
	return c.placeholder
}

// Names returns the registered names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.textures))
	for name := range c.textures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFile decodes the image at path and registers it as name. When size is
// positive the image is resampled to size x size. Any failure is logged and
// the placeholder is registered under name instead, so later lookups stay
// defined.
func (c *Catalog) LoadFile(name, path string, size int) *Texture {
	t, err := Decode(name, path, size)
	if err != nil {
		log.Printf("WARNING: failed to load texture %s from %s: %v", name, path, err)
		t = c.placeholder
	}
	if _, exists := c.textures[name]; !exists {
		c.textures[name] = t
	}
	return t
}

// Decode reads and converts an image file (PNG, BMP or JPEG).
func Decode(name, path string, size int) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if size > 0 {
		img = Resample(img, size, size)
	}
	return FromImage(name, img), nil
}

// Resample scales img to w x h with nearest-neighbour filtering, which keeps
// alpha-key pixels crisp.
func Resample(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
