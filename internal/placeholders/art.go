package placeholders

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"chosenoffset.com/gridcaster/internal/render/texture"
	"chosenoffset.com/gridcaster/internal/ui/hud"
)

// Texture names in the placeholder set.
const (
	WallStone   = "wall_stone"
	WallBrick   = "wall_brick"
	WallWood    = "wall_wood"
	WallMetal   = "wall_metal"
	FloorStone  = "floor_stone"
	Ceiling     = "ceiling"
	HUDTemplate = "hud_template"
)

// SentryViews names the sentry sprite's views, counter-clockwise from the front.
var SentryViews = []string{"sentry_front", "sentry_left", "sentry_back", "sentry_right"}

// Tile is one named placeholder image.
type Tile struct {
	Name  string
	Image *image.RGBA
}

// Walls returns the wall, floor and ceiling textures.
func Walls() []Tile {
	p := ColorPalette
	return []Tile{
		{WallStone, CreatePatternedTile(p.WallStone, Darken(p.WallStone, 0.7), "flagstones")},
		{WallBrick, CreatePatternedTile(p.WallBrick, p.Mortar, "bricks")},
		{WallWood, CreatePatternedTile(p.WallWood, Darken(p.WallWood, 0.6), "planks")},
		{WallMetal, CreatePatternedTile(p.WallMetal, p.WallRivet, "rivets")},
		{FloorStone, CreatePatternedTile(p.FloorStone, p.FloorGrout, "flagstones")},
		{Ceiling, CreateBorderedTile(p.Ceiling, Darken(p.Ceiling, 0.8), 2)},
	}
}

// Sprites returns the directional sentry views.
func Sprites() []Tile {
	tiles := make([]Tile, len(SentryViews))
	for i, name := range SentryViews {
		tiles[i] = Tile{name, CreateSentrySprite(i)}
	}
	return tiles
}

// CreateSentrySprite draws the sentry seen from view 0 (front), 1 (left),
// 2 (back) or 3 (right). The background is transparent.
func CreateSentrySprite(view int) *image.RGBA {
	img := CreateTransparentTile()
	body := ColorPalette.Sentry
	eye := ColorPalette.SentryEye
	outline := Darken(body, 0.5)

	half := TileSize / 2
	CreateCircle(img, half, half+TileSize/8, TileSize/3, body, outline)

	eyeY := half
	eyeR := TileSize / 16
	switch view {
	case 0:
		CreateCircle(img, half-TileSize/8, eyeY, eyeR, eye, outline)
		CreateCircle(img, half+TileSize/8, eyeY, eyeR, eye, outline)
	case 1:
		CreateCircle(img, half-TileSize/5, eyeY, eyeR, eye, outline)
	case 3:
		CreateCircle(img, half+TileSize/5, eyeY, eyeR, eye, outline)
	default:
		// A vent plate on the back.
		FillRect(img, image.Rect(half-TileSize/8, eyeY, half+TileSize/8, eyeY+TileSize/8), Darken(body, 0.7))
	}
	return img
}

// CreateHUDTemplate draws a panel with the two bar regions painted in the
// HUD sentinel colours.
func CreateHUDTemplate() *image.RGBA {
	const w, h = 96, 24
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	FillRect(img, img.Bounds(), ColorPalette.Panel)
	for x := 0; x < w; x++ {
		img.Set(x, 0, ColorPalette.Border)
		img.Set(x, h-1, ColorPalette.Border)
	}
	for y := 0; y < h; y++ {
		img.Set(0, y, ColorPalette.Border)
		img.Set(w-1, y, ColorPalette.Border)
	}
	FillRect(img, image.Rect(4, 4, w-4, 10), sentinel(hud.PrimarySentinel))
	FillRect(img, image.Rect(4, 14, w-4, 20), sentinel(hud.SecondarySentinel))
	return img
}

func sentinel(c uint32) color.RGBA {
	_, r, g, b := texture.Channels(c)
	return color.RGBA{r, g, b, 255}
}

// Register adds every placeholder texture that textures does not already
// hold, so art loaded from a map takes precedence.
func Register(textures *texture.Catalog) error {
	tiles := append(Walls(), Sprites()...)
	tiles = append(tiles, Tile{HUDTemplate, CreateHUDTemplate()})
	for _, t := range tiles {
		if _, ok := textures.Lookup(t.Name); ok {
			continue
		}
		if err := textures.Register(texture.FromImage(t.Name, t.Image)); err != nil {
			return fmt.Errorf("failed to register placeholder: %w", err)
		}
	}
	return nil
}

// AtlasConfig describes tiles packed by CreateAtlas with the given columns.
func AtlasConfig(name, imagePath string, tiles []Tile, columns int) texture.AtlasConfig {
	config := texture.AtlasConfig{
		Name:       name,
		ImagePath:  imagePath,
		TileWidth:  TileSize,
		TileHeight: TileSize,
	}
	for i, t := range tiles {
		config.Tiles = append(config.Tiles, texture.TileDefinition{
			Name:   t.Name,
			AtlasX: i % columns,
			AtlasY: i / columns,
		})
	}
	return config
}

// GenerateAndSave writes the placeholder atlases, their JSON descriptions
// and the HUD template into dir.
func GenerateAndSave(dir string) error {
	fmt.Println("Generating placeholder art...")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create assets directory: %w", err)
	}

	atlases := []struct {
		name  string
		tiles []Tile
	}{
		{"walls", Walls()},
		{"sprites", Sprites()},
	}
	for _, a := range atlases {
		const columns = 4
		images := make([]*image.RGBA, len(a.tiles))
		for i, t := range a.tiles {
			images[i] = t.Image
		}
		atlas := CreateAtlas(images, columns)
		pngName := a.name + ".png"
		if err := SavePNG(atlas, filepath.Join(dir, pngName)); err != nil {
			return err
		}
		data, err := json.MarshalIndent(AtlasConfig(a.name, pngName, a.tiles, columns), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode atlas %s: %w", a.name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, a.name+".json"), data, 0o644); err != nil {
			return fmt.Errorf("failed to write atlas %s: %w", a.name, err)
		}
		fmt.Printf("✓ Generated %s (%dx%d pixels, %d tiles @ %dpx)\n",
			filepath.Join(dir, pngName), atlas.Bounds().Dx(), atlas.Bounds().Dy(), len(a.tiles), TileSize)
	}

	hudPath := filepath.Join(dir, HUDTemplate+".png")
	if err := SavePNG(CreateHUDTemplate(), hudPath); err != nil {
		return err
	}
	fmt.Printf("✓ Generated %s\n", hudPath)
	return nil
}
