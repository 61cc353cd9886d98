// Package testutil provides deterministic clocks and ID sources for tests
// and the conformance harness.
package testutil

import (
	"sync"
	"time"
)

// ManualClock is a wall clock that only moves when told to. Inject its Now
// method wherever a component takes a clock to make elapsed-time behavior
// (snapshot intervals, last-visited stamps) deterministic.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock frozen at the given instant.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current frozen instant.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set jumps the clock to a specific instant.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
