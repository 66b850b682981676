// Package game is the frame loop glue: it turns input into camera motion,
// steps the world on a fixed clock and hands finished frames to a backend.
package game

import (
	"fmt"
	"image/color"
	"time"

	"chosenoffset.com/gridcaster/internal/camera"
	"chosenoffset.com/gridcaster/internal/render"
	"chosenoffset.com/gridcaster/internal/render/raycast"
	"chosenoffset.com/gridcaster/internal/ui/hud"
	"chosenoffset.com/gridcaster/internal/world"
)

// wanderSpeed is how fast sprites turn in place, in radians per second.
const wanderSpeed = 0.6

// EntityGauge receives the entity count after every simulation step.
type EntityGauge interface {
	SetEntities(n int)
}

// Options are the tunables not carried by the camera itself.
type Options struct {
	TicksPerSecond int
	ShearStep      float64 // Pixels per tick while a look key is held
}

// Game holds all game state and implements render.Game.
type Game struct {
	Camera   *camera.Camera
	Grid     *world.Grid
	Renderer *raycast.Raycaster
	Input    render.InputManager
	Clock    *Clock

	// Optional collaborators.
	HUD     *hud.HUD
	Spawner *Spawner
	Gauge   EntityGauge

	shearStep float64
	rotations *camera.FrameRotations
	wander    camera.Rotation
	showMap   bool
	ticks     int
	frames    int

	lastDraw time.Time
	fps      float64
	frameDur time.Duration

	now func() time.Time
}

// New wires a game around an existing camera, world and renderer.
func New(cam *camera.Camera, grid *world.Grid, r *raycast.Raycaster, input render.InputManager, opts Options) *Game {
	clock := NewClock(opts.TicksPerSecond)
	return &Game{
		Camera:    cam,
		Grid:      grid,
		Renderer:  r,
		Input:     input,
		Clock:     clock,
		shearStep: opts.ShearStep,
		rotations: camera.NewFrameRotations(cam.RotSpeed),
		wander:    camera.NewRotation(wanderSpeed * clock.Seconds()),
		now:       time.Now,
	}
}

// Update handles input and advances the simulation.
func (g *Game) Update() error {
	in := g.Input
	if in.IsKeyJustPressed(render.KeyEscape) {
		return render.ErrQuit
	}

	g.rotations.Reset(g.Camera.RotSpeed)
	if turn := axis(in, render.KeyRight, render.KeyD) - axis(in, render.KeyLeft, render.KeyA); turn != 0 {
		g.Camera.RotateBy(g.rotations.Get(turn))
	}
	if move := axis(in, render.KeyW, render.KeyUp) - axis(in, render.KeyS, render.KeyDown); move != 0 {
		g.Camera.Move(move, g.Grid)
	}
	if strafe := axis(in, render.KeyE) - axis(in, render.KeyQ); strafe != 0 {
		g.Camera.Strafe(strafe, g.Grid)
	}
	if look := axis(in, render.KeyPageUp) - axis(in, render.KeyPageDown); look != 0 {
		g.Camera.Shear(look * g.shearStep)
	}
	if in.IsKeyJustPressed(render.KeySpace) {
		g.Camera.ShearOffset = 0
	}
	if in.IsKeyJustPressed(render.KeyF) {
		g.Renderer.SetShadeType((g.Renderer.ShadeType() + 1) % 3)
	}
	if in.IsKeyJustPressed(render.KeyM) {
		g.showMap = !g.showMap
	}

	g.ticks++
	if g.ticks%64 == 0 {
		g.Camera.Renormalize()
	}

	for n := g.Clock.Advance(g.now()); n > 0; n-- {
		g.step(g.Clock.Seconds())
	}
	return nil
}

func axis(in render.InputManager, keys ...render.Key) float64 {
	for _, k := range keys {
		if in.IsKeyPressed(k) {
			return 1
		}
	}
	return 0
}

// step advances the world by one fixed step of dt seconds.
func (g *Game) step(dt float64) {
	if g.Spawner != nil {
		g.Spawner.Step(dt, g.Grid, g.Camera.Pos)
	}
	for _, e := range g.Grid.Entities() {
		if s, ok := e.(*world.Sprite); ok {
			s.Facing = g.wander.Apply(s.Facing)
		}
	}
	if g.Gauge != nil {
		g.Gauge.SetEntities(len(g.Grid.Entities()))
	}
}

// Draw renders a frame and presents it.
func (g *Game) Draw(screen render.Surface) {
	start := g.now()
	if !g.lastDraw.IsZero() {
		if dt := start.Sub(g.lastDraw).Seconds(); dt > 0 {
			g.fps = 0.9*g.fps + 0.1/dt
		}
	}
	g.lastDraw = start

	cfg := g.Renderer.Config()
	if g.HUD != nil {
		maxEntities := 0.0
		if g.Spawner != nil {
			maxEntities = float64(g.Spawner.Max)
		}
		budget := g.Clock.Step.Seconds()
		headroom := budget - g.frameDur.Seconds()
		g.HUD.SetStats(float64(len(g.Grid.Entities())), maxEntities, headroom, budget)
	}

	pix := g.Renderer.Render(g.Camera, g.Grid)
	g.frameDur = g.now().Sub(start)
	g.frames++

	screen.Present(pix, cfg.Width, cfg.Height)
	screen.DebugText(fmt.Sprintf("FPS %.1f  workers %d  shade %s",
		g.fps, len(g.Renderer.Stripes()), g.Renderer.ShadeType()), 2, 2)
	screen.DebugText(fmt.Sprintf("pos %.2f,%.2f  entities %d",
		g.Camera.Pos.X, g.Camera.Pos.Y, len(g.Grid.Entities())), 2, 16)

	if g.showMap {
		if shapes, ok := screen.(render.Shapes); ok {
			w, _ := screen.Size()
			g.drawMinimap(shapes, w)
		}
	}
}

// drawMinimap draws the grid, the entities and the camera in the top-right
// corner of a surface w pixels wide.
func (g *Game) drawMinimap(s render.Shapes, w int) {
	gw, gh := g.Grid.Width(), g.Grid.Height()
	cell := float32(w/3) / float32(max(gw, gh))
	cell = min(cell, 4)
	if cell < 1 {
		return
	}
	ox := float32(w) - cell*float32(gw) - 4
	oy := float32(30)

	s.FillRect(ox, oy, cell*float32(gw), cell*float32(gh), color.RGBA{0, 0, 0, 160})
	for y := 0; y < gh; y++ {
		for x := 0; x < gw; x++ {
			c := g.Grid.CellAt(x, y)
			var clr color.Color
			switch {
			case c.Empty():
				continue
			case c.Solid:
				clr = color.RGBA{180, 180, 180, 255}
			default:
				clr = color.RGBA{100, 100, 140, 255}
			}
			s.FillRect(ox+float32(x)*cell, oy+float32(y)*cell, cell, cell, clr)
		}
	}
	for _, e := range g.Grid.Entities() {
		p := e.Position()
		s.FillCircle(ox+float32(p.X)*cell, oy+float32(p.Y)*cell, cell/2, color.RGBA{220, 60, 60, 255})
	}
	p := g.Camera.Pos
	s.FillCircle(ox+float32(p.X)*cell, oy+float32(p.Y)*cell, cell*0.75, color.RGBA{0, 255, 100, 255})
	tip := p.Add(g.Camera.Dir.Normalize())
	s.FillCircle(ox+float32(tip.X)*cell, oy+float32(tip.Y)*cell, cell/3, color.RGBA{0, 255, 100, 255})
}

// Layout returns the game's logical screen size, the render resolution.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := g.Renderer.Config()
	return cfg.Width, cfg.Height
}

// Frames returns the number of frames drawn.
func (g *Game) Frames() int { return g.frames }

// ShowMinimap reports whether the minimap overlay is on.
func (g *Game) ShowMinimap() bool { return g.showMap }
