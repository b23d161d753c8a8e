// Package clock supplies the wall time used to stamp transactions.
package clock

import "time"

// DateTimeFormat renders timestamps as the 14 character YYYYMMDDHHMMSS form
// stored in order, order line and history rows.
const DateTimeFormat = "20060102150405"

// Clock reports the current time.
type Clock interface {
	// DateTimestamp returns the current time in DateTimeFormat.
	DateTimestamp() string
	// Microseconds returns microseconds since the Unix epoch.
	Microseconds() int64
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) DateTimestamp() string {
	return time.Now().Format(DateTimeFormat)
}

func (SystemClock) Microseconds() int64 {
	return time.Now().UnixNano() / int64(time.Microsecond)
}

// MockClock always reports Now.
type MockClock struct {
	Now time.Time
}

func (c *MockClock) DateTimestamp() string {
	return c.Now.Format(DateTimeFormat)
}

func (c *MockClock) Microseconds() int64 {
	return c.Now.UnixNano() / int64(time.Microsecond)
}

// Advance moves the mock forward by d.
func (c *MockClock) Advance(d time.Duration) {
	c.Now = c.Now.Add(d)
}
