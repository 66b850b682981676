package render

import (
	"errors"
	"image/color"
)

// ErrQuit is returned from Game.Update to end the loop cleanly.
var ErrQuit = errors.New("render: quit requested")

// Surface is the frame target a backend hands to Game.Draw. Frames are
// packed ARGB, one uint32 per pixel, row-major.
type Surface interface {
	// Size returns the logical size of the surface.
	Size() (width, height int)

	// Present copies a w*h ARGB frame onto the surface, scaled to fit.
	Present(pix []uint32, w, h int)

	// DebugText draws a line of diagnostic text at a logical position.
	DebugText(text string, x, y int)
}

// Shapes is implemented by surfaces that can draw vector primitives on top
// of a presented frame. Backends without it simply skip overlays.
type Shapes interface {
	FillRect(x, y, w, h float32, clr color.Color)
	FillCircle(x, y, radius float32, clr color.Color)
}

// InputManager handles input from the user.
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys the game binds.
const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyQ // Strafe left
	KeyE // Strafe right
	KeyF // Cycle shade type
	KeyM // Toggle minimap
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp   // Look up
	KeyPageDown // Look down
	KeySpace
	KeyEscape

	keyCount
)

// Keys returns every bindable key.
func Keys() []Key {
	keys := make([]Key, keyCount)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

// Game represents the game interface that the engine will call.
type Game interface {
	// Update advances the game. It is called at the engine's tick rate.
	Update() error

	// Draw draws the game screen. It is called every frame.
	Draw(screen Surface)

	// Layout accepts the outside size and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the backend that owns the window or terminal and the loop.
type Engine interface {
	SetWindowSize(width, height int)
	SetWindowTitle(title string)
	SetWindowResizable(resizable bool)

	// RunGame blocks until the game returns ErrQuit, the user closes the
	// window, or an error occurs. ErrQuit is reported as nil.
	RunGame(game Game) error
}

// ToRGBA writes an ARGB frame into dst as RGBA bytes with alpha forced
// opaque. dst must hold at least 4*len(pix) bytes.
func ToRGBA(dst []byte, pix []uint32) {
	if len(pix) == 0 {
		return
	}
	_ = dst[4*len(pix)-1]
	for i, c := range pix {
		o := i * 4
		dst[o] = byte(c >> 16)
		dst[o+1] = byte(c >> 8)
		dst[o+2] = byte(c)
		dst[o+3] = 0xFF
	}
}

// Color converts a packed ARGB pixel to an opaque colour.
func Color(c uint32) color.RGBA {
	return color.RGBA{R: byte(c >> 16), G: byte(c >> 8), B: byte(c), A: 0xFF}
}
