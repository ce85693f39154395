package testfixtures

import (
	"sync"
	"time"
)

// Clock is a manually driven time source. Services receive its NowFunc so
// that session expiry and record timestamps stay deterministic in tests.
type Clock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewClock returns a clock starting at the given instant, or at
// ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	c := &Clock{now: start}
	if start.IsZero() {
		c.now = ReferenceTime()
	}
	return c
}

func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// NowFunc adapts the clock to the func() time.Time shape services expect.
// A nil clock falls back to the wall clock.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set jumps the clock to an absolute instant.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d and reports the resulting time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
