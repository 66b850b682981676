package game

import "time"

// DefaultMaxSteps bounds how many updates one frame may catch up on.
const DefaultMaxSteps = 5

// Clock is a fixed-timestep accumulator. Wall time goes in, whole steps
// come out. A backlog beyond MaxSteps is dropped rather than replayed, so a
// slow frame costs simulated time instead of a spiral of catch-up work.
type Clock struct {
	Step     time.Duration
	MaxSteps int

	last    time.Time
	acc     time.Duration
	started bool
	steps   uint64
	dropped uint64
}

// NewClock creates a clock stepping ticksPerSecond times a second.
func NewClock(ticksPerSecond int) *Clock {
	if ticksPerSecond < 1 {
		ticksPerSecond = 1
	}
	return &Clock{Step: time.Second / time.Duration(ticksPerSecond), MaxSteps: DefaultMaxSteps}
}

// Advance feeds the time now and returns how many steps to run. The first
// call only starts the clock.
func (c *Clock) Advance(now time.Time) int {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	elapsed := now.Sub(c.last)
	c.last = now
	if elapsed > 0 {
		c.acc += elapsed
	}

	n := int(c.acc / c.Step)
	c.acc -= time.Duration(n) * c.Step
	if c.MaxSteps > 0 && n > c.MaxSteps {
		c.dropped += uint64(n - c.MaxSteps)
		n = c.MaxSteps
	}
	c.steps += uint64(n)
	return n
}

// Seconds is the length of one step in seconds.
func (c *Clock) Seconds() float64 { return c.Step.Seconds() }

// Steps returns the number of steps handed out so far.
func (c *Clock) Steps() uint64 { return c.steps }

// Dropped returns the number of steps discarded because frames fell behind.
func (c *Clock) Dropped() uint64 { return c.dropped }

// Reset stops the clock; the next Advance starts it again.
func (c *Clock) Reset() {
	c.started = false
	c.acc = 0
}
