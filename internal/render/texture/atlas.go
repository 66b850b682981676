package texture

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// TileDefinition names one tile within an atlas image.
type TileDefinition struct {
	Name   string `json:"name"`    // Semantic name (e.g., "brick_wall")
	AtlasX int    `json:"atlas_x"` // X position in atlas (in tiles)
	AtlasY int    `json:"atlas_y"` // Y position in atlas (in tiles)
}

// AtlasConfig is the JSON description of a texture atlas.
type AtlasConfig struct {
	Name       string           `json:"name"`
	ImagePath  string           `json:"image_path"`  // Relative to the config file
	TileWidth  int              `json:"tile_width"`  // Width of each tile in pixels
	TileHeight int              `json:"tile_height"` // Height of each tile in pixels
	Tiles      []TileDefinition `json:"tiles"`
}

// ParseAtlasConfig decodes and validates an atlas description.
func ParseAtlasConfig(data []byte) (*AtlasConfig, error) {
	var config AtlasConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse atlas config: %w", err)
	}

	if config.TileWidth <= 0 || config.TileHeight <= 0 {
		return nil, fmt.Errorf("invalid tile dimensions: %dx%d", config.TileWidth, config.TileHeight)
	}
	if config.ImagePath == "" {
		return nil, fmt.Errorf("image_path is required in atlas config")
	}
	seen := make(map[string]bool, len(config.Tiles))
	for _, tile := range config.Tiles {
		if tile.Name == "" {
			return nil, fmt.Errorf("atlas tile at (%d, %d) has no name", tile.AtlasX, tile.AtlasY)
		}
		if seen[tile.Name] {
			return nil, fmt.Errorf("duplicate atlas tile name %s", tile.Name)
		}
		seen[tile.Name] = true
	}
	return &config, nil
}

// SliceAtlas cuts every tile of config out of img as its own texture.
func SliceAtlas(config *AtlasConfig, img image.Image) ([]*Texture, error) {
	b := img.Bounds()
	out := make([]*Texture, 0, len(config.Tiles))
	for _, tile := range config.Tiles {
		x := b.Min.X + tile.AtlasX*config.TileWidth
		y := b.Min.Y + tile.AtlasY*config.TileHeight
		rect := image.Rect(x, y, x+config.TileWidth, y+config.TileHeight)
		if !rect.In(b) {
			return nil, fmt.Errorf("tile %s at (%d, %d) lies outside the %dx%d atlas",
				tile.Name, tile.AtlasX, tile.AtlasY, b.Dx(), b.Dy())
		}
		out = append(out, FromImage(tile.Name, subImage(img, rect)))
	}
	return out, nil
}

// LoadAtlas reads an atlas config and registers each of its tiles.
func (c *Catalog) LoadAtlas(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read atlas config %s: %w", configPath, err)
	}
	config, err := ParseAtlasConfig(data)
	if err != nil {
		return fmt.Errorf("atlas %s: %w", configPath, err)
	}

	imgPath := config.ImagePath
	if !filepath.IsAbs(imgPath) {
		imgPath = filepath.Join(filepath.Dir(configPath), imgPath)
	}
	f, err := os.Open(imgPath)
	if err != nil {
		return fmt.Errorf("failed to open atlas image %s: %w", imgPath, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode atlas image %s: %w", imgPath, err)
	}

	tiles, err := SliceAtlas(config, img)
	if err != nil {
		return fmt.Errorf("atlas %s: %w", config.Name, err)
	}
	for _, t := range tiles {
		if err := c.Register(t); err != nil {
			return fmt.Errorf("atlas %s: %w", config.Name, err)
		}
	}
	return nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			dst.Set(x, y, img.At(r.Min.X+x, r.Min.Y+y))
		}
	}
	return dst
}
