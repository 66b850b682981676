package game

import (
	"fmt"

	"chosenoffset.com/gridcaster/internal/placeholders"
	"chosenoffset.com/gridcaster/internal/world"
)

// Block names used by the demo level.
const (
	demoBorder = "brick"
	demoPillar = "pillar"
	demoDiag   = "diagonal"
	demoFake   = "fake"
	demoCrate  = "crate"
)

// DemoMap lays out a size x size level over the placeholder textures: a
// brick border, pillars on a lattice, diagonal walls, a walk-through fake
// wall and a crate model in the middle. The spawn at (1.5, 1.5) is kept clear.
func DemoMap(size int) (*world.MapData, error) {
	if size < 3 {
		return nil, fmt.Errorf("demo map size must be at least 3, got %d", size)
	}
	notSolid := false

	data := &world.MapData{
		Name:    fmt.Sprintf("demo-%d", size),
		Width:   size,
		Height:  size,
		Floor:   placeholders.FloorStone,
		Ceiling: placeholders.Ceiling,
		Border:  demoBorder,
		Blocks: []world.BlockDefinition{
			{
				Name:  demoBorder,
				Front: &world.FaceDefinition{Texture: placeholders.WallBrick},
				Side:  &world.FaceDefinition{Texture: placeholders.WallStone},
			},
			{
				Name:  demoPillar,
				Front: &world.FaceDefinition{Texture: placeholders.WallMetal},
			},
			{
				Name: demoDiag,
				Segments: []world.SegmentDefinition{{
					A:              [2]float64{0, 0},
					B:              [2]float64{1, 1},
					FaceDefinition: world.FaceDefinition{Texture: placeholders.WallWood, TileU: 2},
				}},
			},
			{
				Name:  demoFake,
				Solid: &notSolid,
				Front: &world.FaceDefinition{Texture: placeholders.WallWood},
			},
			{
				Name:  demoCrate,
				Model: &world.ModelDefinition{Texture: placeholders.WallWood, Triangles: crateTriangles()},
			},
		},
		PlayerSpawn: world.SpawnPoint{X: 1.5, Y: 1.5, DirX: 1},
	}

	data.Tiles = make([][]string, size)
	for y := range data.Tiles {
		row := make([]string, size)
		for x := range row {
			row[x] = demoTile(x, y, size)
		}
		data.Tiles[y] = row
	}
	return data, nil
}

func demoTile(x, y, size int) string {
	// Border cells come from MapData.Border; keep the spawn corner open.
	if x == 0 || y == 0 || x == size-1 || y == size-1 || (x < 3 && y < 3) {
		return "."
	}
	switch {
	case size >= 7 && x == size/2 && y == size/2:
		return demoCrate
	case x%4 == 2 && y%4 == 2:
		return demoPillar
	case x%4 == 0 && y%4 == 2:
		return demoDiag
	case x%6 == 3 && y%6 == 5:
		return demoFake
	}
	return "."
}

// crateTriangles is a 2 x 1 x 1 box; the model loader scales it into the cell.
func crateTriangles() [][3][3]float64 {
	c := [8][3]float64{
		{0, 0, 0}, {2, 0, 0}, {2, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {2, 0, 1}, {2, 1, 1}, {0, 1, 1},
	}
	quads := [6][4]int{
		{0, 1, 2, 3}, {4, 5, 6, 7},
		{0, 1, 5, 4}, {1, 2, 6, 5},
		{2, 3, 7, 6}, {3, 0, 4, 7},
	}
	tris := make([][3][3]float64, 0, 12)
	for _, q := range quads {
		tris = append(tris,
			[3][3]float64{c[q[0]], c[q[1]], c[q[2]]},
			[3][3]float64{c[q[0]], c[q[2]], c[q[3]]},
		)
	}
	return tris
}
