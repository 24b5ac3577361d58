// Package sim provides the discrete-event primitives of the simulation:
// a monotonic simulated clock and a per-round production race. There is
// no wall-clock time and no true parallelism here. A round is a single
// logical thread of control racing sampled durations against each other.
package sim

// Clock is the simulated clock. It starts at zero, advances only when a
// race resolves and never decreases.
type Clock struct {
	now float64
}

// NewClock returns a clock at simulated time zero.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt returns a clock resumed at the given simulated time.
func NewClockAt(now float64) *Clock {
	if now < 0 {
		now = 0
	}
	return &Clock{now: now}
}

// Now returns the current simulated time in seconds.
func (c *Clock) Now() float64 {
	return c.now
}

func (c *Clock) advance(d float64) float64 {
	c.now += d
	return c.now
}
