package clock

import "time"

// Clock provides the current time and can be swapped out in tests
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the wall clock
type SystemClock struct{}

// New creates a new SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current UTC time
func (c *SystemClock) Now() time.Time {
	return time.Now().UTC()
}
