package lighting

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"chosenoffset.com/gridcaster/internal/world"
)

// Illuminator fills the lumels of a finished plane. Implementations are
// called concurrently for different planes and must not share mutable state.
type Illuminator interface {
	Illuminate(p *LightPlane, lights *Lights)
}

// ConstantFill sets every lumel to the ambient level as a grey.
type ConstantFill struct{}

func (ConstantFill) Illuminate(p *LightPlane, lights *Lights) {
	level := uint32(lights.Ambient()*255 + 0.5)
	p.Fill(0xFF000000 | level<<16 | level<<8 | level)
}

// Unlit leaves every lumel zero.
type Unlit struct{}

func (Unlit) Illuminate(*LightPlane, *Lights) {}

// Lightmap is the baked geometry of a whole grid.
type Lightmap struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Resolution float64   `json:"resolution"`
	Cells      []CellMap `json:"cells"` // Row-major
}

// At returns the cell map for (x, y).
func (m *Lightmap) At(x, y int) *CellMap {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		panic(fmt.Sprintf("lighting: cell (%d, %d) outside %dx%d lightmap", x, y, m.Width, m.Height))
	}
	return &m.Cells[y*m.Width+x]
}

// PlaneCount returns the total number of planes.
func (m *Lightmap) PlaneCount() int {
	n := 0
	for i := range m.Cells {
		n += len(m.Cells[i].Planes)
	}
	return n
}

// Baker builds lightmaps. The zero value is not usable; set Resolution.
type Baker struct {
	Resolution  float64 // Lumels per cell edge
	Workers     int     // Concurrent grid rows, 0 = GOMAXPROCS
	Illuminator Illuminator
	Lights      *Lights
}

// NewBaker returns a baker with the default illuminator and lights.
func NewBaker(resolution float64) *Baker {
	return &Baker{
		Resolution:  resolution,
		Illuminator: ConstantFill{},
		Lights:      NewLights(),
	}
}

// Bake builds a CellMap for every cell of grid. Rows are processed in
// parallel; each row writes only its own slice of the result. The grid must
// not be modified during the bake.
func (b *Baker) Bake(ctx context.Context, grid *world.Grid) (*Lightmap, error) {
	if b.Resolution <= 0 {
		return nil, fmt.Errorf("lightmap resolution must be positive, got %v", b.Resolution)
	}
	illuminator := b.Illuminator
	if illuminator == nil {
		illuminator = Unlit{}
	}
	lights := b.Lights
	if lights == nil {
		lights = NewLights()
	}
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	m := &Lightmap{
		Width:      grid.Width(),
		Height:     grid.Height(),
		Resolution: b.Resolution,
		Cells:      make([]CellMap, grid.Width()*grid.Height()),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y := 0; y < grid.Height(); y++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < grid.Width(); x++ {
				cm := BuildCellMap(x, y, grid.CellAt(x, y), b.Resolution)
				for _, p := range cm.Planes {
					illuminator.Illuminate(p, lights)
				}
				m.Cells[y*m.Width+x] = *cm
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("lightmap bake cancelled: %w", err)
	}
	return m, nil
}
