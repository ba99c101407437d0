package core

import "time"

// Clock reports simulated time elapsed since the start of a session.
// Timed effects compare against a Clock instead of the wall clock so
// that a run is reproducible tick for tick.
type Clock interface {
	Now() time.Duration
}

// SimClock is a manually advanced Clock.
type SimClock struct {
	now time.Duration
}

// NewSimClock returns a clock starting at zero.
func NewSimClock() *SimClock {
	return &SimClock{}
}

// Now returns the current simulated time.
func (c *SimClock) Now() time.Duration {
	return c.now
}

// Advance moves the clock forward. Negative durations are ignored.
func (c *SimClock) Advance(d time.Duration) {
	if d > 0 {
		c.now += d
	}
}

// Set jumps the clock to an absolute time.
func (c *SimClock) Set(t time.Duration) {
	c.now = t
}
