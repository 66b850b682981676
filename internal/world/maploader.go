package world

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"chosenoffset.com/gridcaster/internal/core/geom"
	"chosenoffset.com/gridcaster/internal/render/texture"
)

// SpawnPoint is the camera start position and heading.
type SpawnPoint struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	DirX float64 `json:"dir_x"`
	DirY float64 `json:"dir_y"`
}

// Position returns the spawn location.
func (s SpawnPoint) Position() geom.Vector2 { return geom.Vec2(s.X, s.Y) }

// Direction returns the spawn heading, +X when unset.
func (s SpawnPoint) Direction() geom.Vector2 {
	d := geom.Vec2(s.DirX, s.DirY)
	if d.LengthSq() == 0 {
		return geom.Vec2(1, 0)
	}
	return d.Normalize()
}

// MapData is the JSON form of a level.
type MapData struct {
	Name        string            `json:"name"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	TextureSize int               `json:"texture_size"` // Square size textures are resampled to; 0 keeps source size
	Textures    map[string]string `json:"textures"`     // Texture name -> image path, relative to the map
	Atlases     []string          `json:"atlases"`      // Atlas config paths, relative to the map
	Blocks      []BlockDefinition `json:"blocks"`
	Floor       string            `json:"floor"`
	Ceiling     string            `json:"ceiling"`
	Border      string            `json:"border"` // Optional block stamped on the outer ring
	PlayerSpawn SpawnPoint        `json:"player_spawn"`
	Tiles       [][]string        `json:"tiles"` // Block names [y][x]; "" or "." is space
}

// Map is a loaded level.
type Map struct {
	Data   *MapData
	Grid   *Grid
	Blocks *Catalog
}

// LoadMap reads a map file and builds its grid. Textures are loaded into
// textures; missing images fall back to its placeholder.
func LoadMap(mapPath string, textures *texture.Catalog) (*Map, error) {
	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", mapPath, err)
	}
	m, err := ParseMap(data, filepath.Dir(mapPath), textures)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", mapPath, err)
	}
	return m, nil
}

// ParseMap builds a map from JSON. Relative asset paths resolve against baseDir.
func ParseMap(data []byte, baseDir string, textures *texture.Catalog) (*Map, error) {
	var mapData MapData
	if err := json.Unmarshal(data, &mapData); err != nil {
		return nil, fmt.Errorf("failed to parse map: %w", err)
	}
	return BuildMap(&mapData, baseDir, textures)
}

// BuildMap validates mapData and builds its grid.
func BuildMap(mapData *MapData, baseDir string, textures *texture.Catalog) (*Map, error) {
	if err := validateMapData(mapData); err != nil {
		return nil, fmt.Errorf("invalid map data: %w", err)
	}

	for _, atlasPath := range mapData.Atlases {
		if err := textures.LoadAtlas(resolve(baseDir, atlasPath)); err != nil {
			return nil, err
		}
	}
	for name, path := range mapData.Textures {
		textures.LoadFile(name, resolve(baseDir, path), mapData.TextureSize)
	}

	blocks := NewCatalog()
	for _, def := range mapData.Blocks {
		cell, err := BuildCell(def, textures)
		if err != nil {
			return nil, err
		}
		if err := blocks.Register(cell); err != nil {
			return nil, err
		}
	}

	grid := NewGrid(mapData.Width, mapData.Height, Space())
	for y, row := range mapData.Tiles {
		for x, name := range row {
			if name == "" || name == "." {
				continue
			}
			cell, ok := blocks.Get(name)
			if !ok {
				return nil, fmt.Errorf("unknown block %q at (%d, %d)", name, x, y)
			}
			grid.SetCellAt(x, y, cell)
		}
	}
	if mapData.Border != "" {
		border, ok := blocks.Get(mapData.Border)
		if !ok {
			return nil, fmt.Errorf("unknown border block %q", mapData.Border)
		}
		grid.SetBorder(border)
	}
	if mapData.Floor != "" {
		grid.FillFloor(textures.Get(mapData.Floor))
	}
	if mapData.Ceiling != "" {
		grid.FillCeiling(textures.Get(mapData.Ceiling))
	}

	sx, sy := mapData.PlayerSpawn.Position().Floor()
	if grid.Blocked(sx, sy) {
		return nil, fmt.Errorf("player spawn (%v, %v) is inside a solid cell", mapData.PlayerSpawn.X, mapData.PlayerSpawn.Y)
	}

	return &Map{Data: mapData, Grid: grid, Blocks: blocks}, nil
}

// validateMapData checks if the map data is valid
func validateMapData(data *MapData) error {
	if data.Width <= 0 || data.Height <= 0 {
		return fmt.Errorf("invalid map dimensions: %dx%d", data.Width, data.Height)
	}
	if data.TextureSize < 0 {
		return fmt.Errorf("invalid texture size: %d", data.TextureSize)
	}

	// Validate tiles array dimensions
	if len(data.Tiles) != data.Height {
		return fmt.Errorf("tiles array height mismatch: expected %d, got %d", data.Height, len(data.Tiles))
	}
	for y, row := range data.Tiles {
		if len(row) != data.Width {
			return fmt.Errorf("tiles array width mismatch at row %d: expected %d, got %d", y, data.Width, len(row))
		}
	}
	return nil
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
