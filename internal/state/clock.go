package state

import "sync/atomic"

// Clock stamps committed changes with an increasing revision. It is written
// on the UI goroutine and read by the presenter feed.
type Clock struct {
	rev atomic.Uint64
}

// Tick advances the clock and returns the new revision
func (c *Clock) Tick() uint64 {
	return c.rev.Add(1)
}

func (c *Clock) Now() uint64 {
	return c.rev.Load()
}
