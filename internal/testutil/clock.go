// Package testutil provides deterministic test doubles shared across
// packages.
package testutil

import "sync"

// Clock is a deterministic millisecond clock for tests.
//
// Each NowMillis call advances the clock by a fixed step, so timestamps are
// monotonic and reproducible across runs. This is what makes golden-file
// comparison of trace artifacts possible.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Clock struct {
	mu   sync.Mutex
	now  int64
	step int64
}

// NewClock creates a clock that returns start on the first NowMillis call
// and advances by step on each subsequent call.
func NewClock(start, step int64) *Clock {
	return &Clock{now: start - step, step: step}
}

// NowMillis returns the next timestamp.
func (c *Clock) NowMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += c.step
	return c.now
}

// Current returns the last timestamp handed out without advancing.
func (c *Clock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset rewinds the clock for test reuse. The next NowMillis call returns
// start again.
func (c *Clock) Reset(start int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = start - c.step
}
