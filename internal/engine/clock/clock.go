// Package clock tracks simulation time for the frame loop.
package clock

import "time"

const (
	minScale = 1.0 / 64
	maxScale = 64
)

// Clock accumulates scaled simulation time from wall-clock frame deltas.
// It is not safe for concurrent use; the frame loop owns it.
type Clock struct {
	now    float64 // simulation seconds
	scale  float64
	paused bool
}

// New returns a clock at t=0 running at the given time scale.
func New(scale float64, paused bool) *Clock {
	c := &Clock{scale: 1, paused: paused}
	c.SetScale(scale)
	return c
}

// Advance adds dt of wall-clock time, scaled, unless paused.
// Negative deltas are ignored so simulation time never runs backwards.
func (c *Clock) Advance(dt time.Duration) {
	if c.paused || dt <= 0 {
		return
	}
	c.now += dt.Seconds() * c.scale
}

// Now returns the current simulation time in seconds.
func (c *Clock) Now() float32 {
	return float32(c.now)
}

// Seconds returns the simulation time at full precision.
func (c *Clock) Seconds() float64 {
	return c.now
}

// Reset rewinds simulation time to zero.
func (c *Clock) Reset() {
	c.now = 0
}

// Paused reports whether the clock is stopped.
func (c *Clock) Paused() bool {
	return c.paused
}

// SetPaused stops or resumes the clock.
func (c *Clock) SetPaused(paused bool) {
	c.paused = paused
}

// TogglePause flips the paused state and returns the new state.
func (c *Clock) TogglePause() bool {
	c.paused = !c.paused
	return c.paused
}

// Scale returns the current time multiplier.
func (c *Clock) Scale() float64 {
	return c.scale
}

// SetScale sets the time multiplier, clamped to [1/64, 64].
// Non-positive values are ignored.
func (c *Clock) SetScale(scale float64) {
	if scale <= 0 {
		return
	}
	c.scale = min(max(scale, minScale), maxScale)
}

// Faster doubles the time scale.
func (c *Clock) Faster() float64 {
	c.SetScale(c.scale * 2)
	return c.scale
}

// Slower halves the time scale.
func (c *Clock) Slower() float64 {
	c.SetScale(c.scale / 2)
	return c.scale
}
