// Package terminal presents raycaster frames in a text terminal through tcell,
// two pixels per character cell using the upper half block.
package terminal

import (
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/gridcaster/internal/render"
)

// DefaultHold is how long a key counts as held after its last event.
// Terminals report presses and autorepeat but never releases.
const DefaultHold = 120 * time.Millisecond

// Engine runs a render.Game in the terminal at a fixed tick rate.
type Engine struct {
	screen    tcell.Screen
	ownScreen bool
	tps       int
	input     *Input
}

// NewEngine creates an engine that opens the controlling terminal on RunGame.
func NewEngine(ticksPerSecond int) *Engine {
	return &Engine{tps: ticksPerSecond, input: NewInput(DefaultHold), ownScreen: true}
}

// NewEngineWithScreen runs on an already initialised screen, which the
// caller keeps ownership of.
func NewEngineWithScreen(screen tcell.Screen, ticksPerSecond int) *Engine {
	return &Engine{screen: screen, tps: ticksPerSecond, input: NewInput(DefaultHold)}
}

// Input returns the input manager fed by this engine's key events.
func (e *Engine) Input() render.InputManager { return e.input }

// SetWindowSize is a no-op; the terminal decides its own size.
func (e *Engine) SetWindowSize(int, int) {}

// SetWindowTitle is a no-op.
func (e *Engine) SetWindowTitle(string) {}

// SetWindowResizable is a no-op; terminals are always resizable.
func (e *Engine) SetWindowResizable(bool) {}

// RunGame polls events on a goroutine and runs Update then Draw on every tick
// until the game returns render.ErrQuit or Ctrl-C is pressed.
func (e *Engine) RunGame(game render.Game) error {
	if e.tps < 1 {
		return fmt.Errorf("ticks per second must be at least 1, got %d", e.tps)
	}
	s := e.screen
	if e.ownScreen {
		var err error
		if s, err = tcell.NewScreen(); err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
		if err := s.Init(); err != nil {
			return fmt.Errorf("failed to initialise terminal: %w", err)
		}
		defer s.Fini()
	}
	s.HideCursor()
	s.Clear()

	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	defer func() {
		close(done)
		_ = s.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	ticker := time.NewTicker(time.Second / time.Duration(e.tps))
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC {
					return nil
				}
				if k, ok := mapKey(ev); ok {
					e.input.Press(k, time.Now())
				}
			case *tcell.EventResize:
				s.Sync()
			}

		case now := <-ticker.C:
			e.input.Advance(now)
			if err := game.Update(); err != nil {
				if errors.Is(err, render.ErrQuit) {
					return nil
				}
				return err
			}
			cols, rows := s.Size()
			lw, lh := game.Layout(cols, rows*2)
			game.Draw(&surface{screen: s, cols: cols, rows: rows, width: lw, height: lh})
			s.Show()
		}
	}
}

func mapKey(ev *tcell.EventKey) (render.Key, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return render.KeyUp, true
	case tcell.KeyDown:
		return render.KeyDown, true
	case tcell.KeyLeft:
		return render.KeyLeft, true
	case tcell.KeyRight:
		return render.KeyRight, true
	case tcell.KeyPgUp:
		return render.KeyPageUp, true
	case tcell.KeyPgDn:
		return render.KeyPageDown, true
	case tcell.KeyEscape:
		return render.KeyEscape, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return render.KeyW, true
		case 'a', 'A':
			return render.KeyA, true
		case 's', 'S':
			return render.KeyS, true
		case 'd', 'D':
			return render.KeyD, true
		case 'q', 'Q':
			return render.KeyQ, true
		case 'e', 'E':
			return render.KeyE, true
		case 'f', 'F':
			return render.KeyF, true
		case 'm', 'M':
			return render.KeyM, true
		case ' ':
			return render.KeySpace, true
		}
	}
	return 0, false
}

// surface draws into the terminal's cell grid. Each cell covers two
// vertically stacked pixels of the presented frame.
type surface struct {
	screen        tcell.Screen
	cols, rows    int
	width, height int
}

func (s *surface) Size() (int, int) { return s.width, s.height }

func (s *surface) Present(pix []uint32, w, h int) {
	if s.cols <= 0 || s.rows <= 0 || w <= 0 || h <= 0 {
		return
	}
	subRows := s.rows * 2
	for cy := 0; cy < s.rows; cy++ {
		topY := (2 * cy) * h / subRows
		botY := (2*cy + 1) * h / subRows
		for cx := 0; cx < s.cols; cx++ {
			x := cx * w / s.cols
			top := pix[topY*w+x]
			bot := pix[botY*w+x]
			style := tcell.StyleDefault.Foreground(cellColor(top)).Background(cellColor(bot))
			s.screen.SetContent(cx, cy, '▀', nil, style)
		}
	}
}

func (s *surface) DebugText(text string, x, y int) {
	if s.width <= 0 || s.height <= 0 {
		return
	}
	cx := x * s.cols / s.width
	cy := y * s.rows / s.height
	if cy < 0 || cy >= s.rows {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for i, r := range []rune(text) {
		if cx+i >= s.cols {
			break
		}
		s.screen.SetContent(cx+i, cy, r, nil, style)
	}
}

func cellColor(c uint32) tcell.Color {
	return tcell.NewRGBColor(int32(c>>16&0xFF), int32(c>>8&0xFF), int32(c&0xFF))
}
