package clock

import "time"

// FakeClock is a Clock pinned to a fixed instant, for tests that
// assert on document dates and row timestamps.
type FakeClock struct {
	current time.Time
}

func NewFakeClock(at time.Time) *FakeClock {
	return &FakeClock{current: at.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.current
}

// Advance moves the pinned instant forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
