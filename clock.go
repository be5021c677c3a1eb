package snowflake

import "time"

// Clock supplies the current time to a Manager.
//
// Only millisecond resolution is used. Implementations must be safe for
// concurrent use.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts an ordinary function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock. It is the default, so an NTP step backwards
// is observed and reported as ErrClockMovedBack rather than hidden.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// MonotonicClock reports wall time derived from the monotonic clock.
//
// The wall reading is captured once; every later reading is that instant plus the
// monotonic time elapsed since, so it never goes backward and is not affected by
// NTP adjustments, leap seconds or manual time changes. The trade-off is that it
// drifts from the wall clock if the wall clock is corrected.
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock anchors a MonotonicClock at the current time.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// Now returns the anchor plus monotonic elapsed time.
func (c *MonotonicClock) Now() time.Time {
	return c.start.Add(time.Since(c.start))
}
