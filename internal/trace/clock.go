package trace

import (
	"sync/atomic"
	"time"
)

// Clock supplies millisecond wall timestamps. Injecting a clock lets the
// harness and tests produce byte-stable artifacts; production code uses
// SystemClock.
type Clock interface {
	NowMillis() int64
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// NowMillis returns the current time in milliseconds since epoch.
func (SystemClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Counter is the emitter-local event counter.
//
// Event IDs are stamped with a strictly increasing value from this counter,
// so they are pairwise distinct and ordered even when two events share a
// millisecond timestamp. An Emitter owns its Counter exclusively; the atomic
// is only there so a caller who wraps the whole Emitter behind a mutex gets
// no surprises.
type Counter struct {
	n atomic.Int64
}

// Next returns the next value and increments the counter.
func (c *Counter) Next() int64 {
	return c.n.Add(1)
}

// Current returns the counter position without incrementing.
func (c *Counter) Current() int64 {
	return c.n.Load()
}
