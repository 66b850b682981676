// Package ebiten presents raycaster frames in a window through Ebiten.
package ebiten

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"chosenoffset.com/gridcaster/internal/render"
)

// EbitenEngine implements the Engine interface using Ebiten.
type EbitenEngine struct {
	tps int
}

// NewEngine creates a new Ebiten-based engine updating ticksPerSecond times a second.
func NewEngine(ticksPerSecond int) render.Engine {
	return &EbitenEngine{tps: ticksPerSecond}
}

// SetWindowSize sets the window size in pixels.
func (e *EbitenEngine) SetWindowSize(width, height int) {
	ebiten.SetWindowSize(width, height)
}

// SetWindowTitle sets the window title.
func (e *EbitenEngine) SetWindowTitle(title string) {
	ebiten.SetWindowTitle(title)
}

// SetWindowResizable enables or disables window resizing.
func (e *EbitenEngine) SetWindowResizable(resizable bool) {
	if resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
}

// RunGame runs the game loop with the provided game.
func (e *EbitenEngine) RunGame(game render.Game) error {
	if e.tps > 0 {
		ebiten.SetTPS(e.tps)
	}
	err := ebiten.RunGame(&gameAdapter{game: game})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// gameAdapter adapts a render.Game to ebiten.Game and keeps the frame
// texture alive between draws.
type gameAdapter struct {
	game  render.Game
	frame *ebiten.Image
	rgba  []byte
}

// Update implements ebiten.Game.
func (a *gameAdapter) Update() error {
	if err := a.game.Update(); err != nil {
		if errors.Is(err, render.ErrQuit) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

// Draw implements ebiten.Game.
func (a *gameAdapter) Draw(screen *ebiten.Image) {
	a.game.Draw(&surface{adapter: a, screen: screen})
}

// Layout implements ebiten.Game.
func (a *gameAdapter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.game.Layout(outsideWidth, outsideHeight)
}

// surface implements render.Surface and render.Shapes for one draw call.
type surface struct {
	adapter *gameAdapter
	screen  *ebiten.Image
}

func (s *surface) Size() (int, int) {
	b := s.screen.Bounds()
	return b.Dx(), b.Dy()
}

// Present uploads the frame with WritePixels and scales it onto the screen.
func (s *surface) Present(pix []uint32, w, h int) {
	a := s.adapter
	if a.frame == nil || a.frame.Bounds().Dx() != w || a.frame.Bounds().Dy() != h {
		if a.frame != nil {
			a.frame.Deallocate()
		}
		a.frame = ebiten.NewImage(w, h)
		a.rgba = make([]byte, 4*w*h)
	}
	render.ToRGBA(a.rgba, pix[:w*h])
	a.frame.WritePixels(a.rgba)

	sw, sh := s.Size()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/float64(w), float64(sh)/float64(h))
	s.screen.DrawImage(a.frame, op)
}

func (s *surface) DebugText(text string, x, y int) {
	ebitenutil.DebugPrintAt(s.screen, text, x, y)
}

func (s *surface) FillRect(x, y, w, h float32, clr color.Color) {
	vector.FillRect(s.screen, x, y, w, h, clr, false)
}

func (s *surface) FillCircle(x, y, radius float32, clr color.Color) {
	vector.FillCircle(s.screen, x, y, radius, clr, true)
}

// EbitenInputManager implements the InputManager interface using Ebiten.
type EbitenInputManager struct{}

// NewInputManager creates a new Ebiten-based input manager.
func NewInputManager() render.InputManager {
	return &EbitenInputManager{}
}

// IsKeyPressed returns whether the specified key is currently pressed.
func (m *EbitenInputManager) IsKeyPressed(key render.Key) bool {
	k, ok := keyToEbitenKey(key)
	return ok && ebiten.IsKeyPressed(k)
}

// IsKeyJustPressed returns whether the specified key was just pressed this tick.
func (m *EbitenInputManager) IsKeyJustPressed(key render.Key) bool {
	k, ok := keyToEbitenKey(key)
	return ok && inpututil.IsKeyJustPressed(k)
}

// keyToEbitenKey converts a render.Key to an ebiten.Key.
func keyToEbitenKey(key render.Key) (ebiten.Key, bool) {
	switch key {
	case render.KeyW:
		return ebiten.KeyW, true
	case render.KeyA:
		return ebiten.KeyA, true
	case render.KeyS:
		return ebiten.KeyS, true
	case render.KeyD:
		return ebiten.KeyD, true
	case render.KeyQ:
		return ebiten.KeyQ, true
	case render.KeyE:
		return ebiten.KeyE, true
	case render.KeyF:
		return ebiten.KeyF, true
	case render.KeyM:
		return ebiten.KeyM, true
	case render.KeyUp:
		return ebiten.KeyArrowUp, true
	case render.KeyDown:
		return ebiten.KeyArrowDown, true
	case render.KeyLeft:
		return ebiten.KeyArrowLeft, true
	case render.KeyRight:
		return ebiten.KeyArrowRight, true
	case render.KeyPageUp:
		return ebiten.KeyPageUp, true
	case render.KeyPageDown:
		return ebiten.KeyPageDown, true
	case render.KeySpace:
		return ebiten.KeySpace, true
	case render.KeyEscape:
		return ebiten.KeyEscape, true
	default:
		return 0, false
	}
}
