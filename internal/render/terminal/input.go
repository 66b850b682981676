package terminal

import (
	"time"

	"chosenoffset.com/gridcaster/internal/render"
)

// Input turns the terminal's press and autorepeat events into held and
// just-pressed key states. It is only touched by the engine's loop goroutine.
type Input struct {
	hold    time.Duration
	now     time.Time
	last    map[render.Key]time.Time
	pending map[render.Key]bool
	just    map[render.Key]bool
}

// NewInput creates an Input that holds a key for hold after each event.
func NewInput(hold time.Duration) *Input {
	return &Input{
		hold:    hold,
		last:    make(map[render.Key]time.Time),
		pending: make(map[render.Key]bool),
		just:    make(map[render.Key]bool),
	}
}

// Press records a key event at t. Autorepeat of an already held key does
// not count as a new press.
func (in *Input) Press(k render.Key, t time.Time) {
	if !in.heldAt(k, t) {
		in.pending[k] = true
	}
	in.last[k] = t
}

// Advance starts a new tick at now.
func (in *Input) Advance(now time.Time) {
	in.now = now
	in.just, in.pending = in.pending, in.just
	clear(in.pending)
}

func (in *Input) heldAt(k render.Key, t time.Time) bool {
	last, ok := in.last[k]
	return ok && t.Sub(last) <= in.hold
}

// IsKeyPressed reports whether k was seen within the hold window.
func (in *Input) IsKeyPressed(k render.Key) bool {
	return in.just[k] || in.heldAt(k, in.now)
}

// IsKeyJustPressed reports whether k went down since the previous tick.
func (in *Input) IsKeyJustPressed(k render.Key) bool {
	return in.just[k]
}
