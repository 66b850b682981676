// Package placeholders draws the procedural art used when no asset pack is
// installed: wall and floor textures, directional sprite views and the HUD
// template.
package placeholders

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
)

// TileSize is the edge length of every placeholder texture.
const TileSize = 64

// ColorPalette defines colors for the placeholder set.
var ColorPalette = struct {
	// Walls
	WallStone  color.RGBA
	WallBrick  color.RGBA
	Mortar     color.RGBA
	WallWood   color.RGBA
	WallMetal  color.RGBA
	WallRivet  color.RGBA
	DoorFrame  color.RGBA
	GlassPane  color.RGBA
	FloorStone color.RGBA
	FloorGrout color.RGBA
	Ceiling    color.RGBA

	// Entities
	Sentry    color.RGBA
	SentryEye color.RGBA

	// UI
	Panel  color.RGBA
	Border color.RGBA
}{
	WallStone:  color.RGBA{130, 125, 115, 255},
	WallBrick:  color.RGBA{150, 70, 50, 255},
	Mortar:     color.RGBA{180, 175, 165, 255},
	WallWood:   color.RGBA{120, 85, 50, 255},
	WallMetal:  color.RGBA{90, 100, 115, 255},
	WallRivet:  color.RGBA{160, 170, 180, 255},
	DoorFrame:  color.RGBA{70, 55, 40, 255},
	GlassPane:  color.RGBA{120, 170, 200, 255},
	FloorStone: color.RGBA{70, 65, 60, 255},
	FloorGrout: color.RGBA{50, 46, 42, 255},
	Ceiling:    color.RGBA{95, 95, 105, 255},

	Sentry:    color.RGBA{200, 60, 60, 255},
	SentryEye: color.RGBA{255, 230, 80, 255},

	Panel:  color.RGBA{30, 28, 25, 255},
	Border: color.RGBA{200, 200, 200, 255},
}

// CreateSolidTile creates a simple solid-colored tile
func CreateSolidTile(col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	draw.Draw(img, img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
	return img
}

// CreateTransparentTile creates a fully transparent tile.
func CreateTransparentTile() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
}

// CreateBorderedTile creates a tile with a border
func CreateBorderedTile(fillColor, borderColor color.RGBA, borderWidth int) *image.RGBA {
	img := CreateSolidTile(fillColor)
	for i := 0; i < borderWidth; i++ {
		for x := 0; x < TileSize; x++ {
			img.Set(x, i, borderColor)
			img.Set(x, TileSize-1-i, borderColor)
		}
		for y := 0; y < TileSize; y++ {
			img.Set(i, y, borderColor)
			img.Set(TileSize-1-i, y, borderColor)
		}
	}
	return img
}

// CreatePatternedTile creates a tile with a simple pattern: "bricks",
// "planks", "rivets", "flagstones" or "diagonal".
func CreatePatternedTile(baseColor, patternColor color.RGBA, pattern string) *image.RGBA {
	img := CreateSolidTile(baseColor)

	switch pattern {
	case "bricks":
		rowHeight := TileSize / 8
		brickWidth := TileSize / 4
		for y := 0; y < TileSize; y++ {
			row := y / rowHeight
			if y%rowHeight == 0 {
				for x := 0; x < TileSize; x++ {
					img.Set(x, y, patternColor)
				}
				continue
			}
			offset := 0
			if row%2 == 1 {
				offset = brickWidth / 2
			}
			for x := offset; x < TileSize; x += brickWidth {
				img.Set(x, y, patternColor)
			}
		}
	case "planks":
		plank := TileSize / 4
		for x := 0; x < TileSize; x += plank {
			for y := 0; y < TileSize; y++ {
				img.Set(x, y, patternColor)
			}
		}
		// Grain
		for x := 0; x < TileSize; x++ {
			if x%plank == plank/2 {
				for y := 0; y < TileSize; y += 3 {
					img.Set(x, y, Darken(baseColor, 0.8))
				}
			}
		}
	case "rivets":
		step := TileSize / 4
		for y := step / 2; y < TileSize; y += step {
			for x := step / 2; x < TileSize; x += step {
				img.Set(x, y, patternColor)
				img.Set(x+1, y, patternColor)
				img.Set(x, y+1, patternColor)
				img.Set(x+1, y+1, patternColor)
			}
		}
	case "flagstones":
		half := TileSize / 2
		for i := 0; i < TileSize; i++ {
			img.Set(i, 0, patternColor)
			img.Set(0, i, patternColor)
			img.Set(i, half, patternColor)
			img.Set(half, i, patternColor)
		}
	case "diagonal":
		for i := 0; i < TileSize; i++ {
			img.Set(i, i, patternColor)
			img.Set(i, TileSize-1-i, patternColor)
		}
	}

	return img
}

// CreateCircle draws a filled circle with an outline onto img, centred at
// (cx, cy).
func CreateCircle(img *image.RGBA, cx, cy, radius int, fillColor, outlineColor color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := x - cx
			dy := y - cy
			distSq := dx*dx + dy*dy
			if distSq <= radius*radius {
				img.Set(x, y, fillColor)
			} else if distSq <= (radius+1)*(radius+1) {
				img.Set(x, y, outlineColor)
			}
		}
	}
}

// FillRect fills r on img.
func FillRect(img *image.RGBA, r image.Rectangle, col color.RGBA) {
	draw.Draw(img, r, &image.Uniform{col}, image.Point{}, draw.Src)
}

// CreateAtlas packs tiles into a grid with the given number of columns.
func CreateAtlas(tiles []*image.RGBA, columns int) *image.RGBA {
	tileCount := len(tiles)
	rows := (tileCount + columns - 1) / columns

	atlas := image.NewRGBA(image.Rect(0, 0, columns*TileSize, rows*TileSize))
	for i, tile := range tiles {
		if tile == nil {
			continue
		}
		x := (i % columns) * TileSize
		y := (i / columns) * TileSize
		draw.Draw(atlas, image.Rect(x, y, x+TileSize, y+TileSize), tile, image.Point{}, draw.Src)
	}
	return atlas
}

// SavePNG saves an image to a PNG file
func SavePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}

// Darken returns a darker version of a color
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// Lighten returns a lighter version of a color
func Lighten(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) + (255-float64(c.R))*factor),
		G: uint8(float64(c.G) + (255-float64(c.G))*factor),
		B: uint8(float64(c.B) + (255-float64(c.B))*factor),
		A: c.A,
	}
}
