// Package raycast renders a world.Grid column by column with a fixed pool
// of worker goroutines. Each worker owns a contiguous stripe of screen
// columns and is the only writer of those columns in the pixel buffer and
// of the matching z-buffer entries, so a frame needs no locks: the owning
// goroutine hands the frame to every worker and waits for all stripes.
package raycast

import (
	"fmt"
	"math"
	"sync"
	"time"

	"chosenoffset.com/gridcaster/internal/camera"
	"chosenoffset.com/gridcaster/internal/world"
)

// Overlay draws on top of a finished frame, after every stripe is done.
type Overlay interface {
	Overlay(pix []uint32, w, h int)
}

// Observer receives frame and stripe timings.
type Observer interface {
	ObserveFrame(d time.Duration)
	ObserveStripe(stripe int, d time.Duration)
}

// Raycaster owns the pixel buffer, z-buffer and worker pool.
type Raycaster struct {
	cfg     Config
	stripes []Stripe

	pixels  []uint32  // Row-major ARGB, Width*Height
	zbuf    []float64 // Per column wall distance
	rowDist []float64 // Per row floor/ceiling distance, rebuilt each frame

	shade    ShadeType
	hud      Overlay
	observer Observer

	jobs   []chan *frame
	wg     sync.WaitGroup
	closed bool
}

// frame is everything workers read during one Render. It is built on the
// owning goroutine and never mutated while workers run.
type frame struct {
	cam      camera.Camera
	grid     *world.Grid
	centre   float64
	rowDist  []float64
	sprites  []spriteDraw
	shade    ShadeType
	observer Observer
}

// New validates cfg, partitions the columns and starts one worker per
// stripe. The workers live until Close.
func New(cfg Config) (*Raycaster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("raycaster: %w", err)
	}
	stripes, err := Partition(cfg.Width, cfg.RendererCount)
	if err != nil {
		return nil, fmt.Errorf("raycaster: %w", err)
	}

	r := &Raycaster{
		cfg:     cfg,
		stripes: stripes,
		pixels:  make([]uint32, cfg.Width*cfg.Height),
		zbuf:    make([]float64, cfg.Width),
		rowDist: make([]float64, cfg.Height),
		shade:   cfg.Shade,
		jobs:    make([]chan *frame, len(stripes)),
	}
	for i, s := range stripes {
		r.jobs[i] = make(chan *frame, 1)
		go r.work(s, r.jobs[i])
	}
	return r, nil
}

func (r *Raycaster) work(s Stripe, jobs <-chan *frame) {
	for f := range jobs {
		start := time.Now()
		for x := s.Start; x < s.End; x++ {
			r.renderColumn(f, x)
			r.drawSprites(f, x)
		}
		if f.observer != nil {
			f.observer.ObserveStripe(s.Index, time.Since(start))
		}
		r.wg.Done()
	}
}

// Render draws grid as seen from cam and returns the pixel buffer. The
// buffer is reused; it is valid until the next call to Render.
func (r *Raycaster) Render(cam *camera.Camera, grid *world.Grid) []uint32 {
	if r.closed {
		panic("raycast: Render called after Close")
	}
	start := time.Now()

	f := &frame{
		cam:      *cam,
		grid:     grid,
		centre:   float64(r.cfg.Height)/2 + cam.ShearOffset,
		rowDist:  r.rowDist,
		shade:    r.shade,
		observer: r.observer,
	}
	r.buildRowDistances(f.centre)

	grid.SortEntities(cam.Pos)
	f.sprites = r.prepareSprites(cam, grid.Entities(), f.centre)

	r.wg.Add(len(r.jobs))
	for _, jobs := range r.jobs {
		jobs <- f
	}
	r.wg.Wait()

	if r.hud != nil {
		r.hud.Overlay(r.pixels, r.cfg.Width, r.cfg.Height)
	}
	if r.observer != nil {
		r.observer.ObserveFrame(time.Since(start))
	}
	return r.pixels
}

// buildRowDistances fills the per-row floor distance table for a horizon
// at centre. Rows on the horizon get +Inf.
func (r *Raycaster) buildRowDistances(centre float64) {
	half := float64(r.cfg.Height) / 2
	for y := range r.rowDist {
		off := math.Abs(float64(y) + 0.5 - centre)
		if off < 1e-9 {
			r.rowDist[y] = math.Inf(1)
			continue
		}
		r.rowDist[y] = half / off
	}
}

// Cast traces the ray of screen column x on the calling goroutine.
func (r *Raycaster) Cast(cam *camera.Camera, grid *world.Grid, x int) Hit {
	return castRay(grid, cam.Pos, cam.RayDir(x, r.cfg.Width), math.Inf(1))
}

// Close stops the workers. The Raycaster cannot render afterwards.
func (r *Raycaster) Close() {
	if r.closed {
		return
	}
	r.closed = true
	for _, jobs := range r.jobs {
		close(jobs)
	}
}

// SetShadeType changes shading from the next frame on.
func (r *Raycaster) SetShadeType(s ShadeType) { r.shade = s }

// ShadeType returns the current shading mode.
func (r *Raycaster) ShadeType() ShadeType { return r.shade }

// SetHUD installs an overlay drawn after every frame; nil removes it.
func (r *Raycaster) SetHUD(o Overlay) { r.hud = o }

// SetObserver installs a timing observer; nil removes it.
func (r *Raycaster) SetObserver(o Observer) { r.observer = o }

// ZBuffer returns the per-column wall distances of the last frame.
func (r *Raycaster) ZBuffer() []float64 { return r.zbuf }

// Stripes returns the column partition.
func (r *Raycaster) Stripes() []Stripe { return r.stripes }

// Pixels returns the pixel buffer of the last frame.
func (r *Raycaster) Pixels() []uint32 { return r.pixels }

// Config returns the configuration the Raycaster was built with.
func (r *Raycaster) Config() Config { return r.cfg }
