package core

import "time"

// Clock tracks total elapsed time and the delta between the two most
// recent updates, in seconds. Update should be called once per frame,
// just before the elapsed values are read.
type Clock struct {
	startTime time.Time
	lastTime  time.Time
	elapsed   float64
	delta     float64
}

func NewClock() *Clock {
	return &Clock{}
}

// Starts the clock. Resets elapsed and delta time.
func (c *Clock) Start() {
	c.startTime = time.Now()
	c.lastTime = c.startTime
	c.elapsed = 0
	c.delta = 0
}

// Updates the clock. Has no effect on non-started clocks.
func (c *Clock) Update() {
	if c.startTime.IsZero() {
		return
	}
	now := time.Now()
	c.delta = now.Sub(c.lastTime).Seconds()
	c.elapsed = now.Sub(c.startTime).Seconds()
	c.lastTime = now
}

// Stops the clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.startTime = time.Time{}
}

// Elapsed returns the total seconds since Start.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}

// Delta returns the seconds between the two most recent updates.
func (c *Clock) Delta() float64 {
	return c.delta
}
