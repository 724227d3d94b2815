package system

import "time"

// Clock accumulates simulated frame time.
type Clock struct {
	delta       float32
	total       time.Duration
	sinceReload time.Duration
	frames      uint64
}

// Tick advances the clock by one frame of dt seconds and returns the new
// frame number. Negative deltas count as zero.
func (c *Clock) Tick(dt float32) uint64 {
	if dt < 0 {
		dt = 0
	}
	step := time.Duration(float64(dt) * float64(time.Second))
	c.delta = dt
	c.total += step
	c.sinceReload += step
	c.frames++
	return c.frames
}

// Reload restarts the time-since-reload counter.
func (c *Clock) Reload() {
	c.sinceReload = 0
}

func (c *Clock) Delta() float32             { return c.delta }
func (c *Clock) Total() time.Duration       { return c.total }
func (c *Clock) SinceReload() time.Duration { return c.sinceReload }
func (c *Clock) Frame() uint64              { return c.frames }
