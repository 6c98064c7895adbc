// Package clock supplies the time source the bond ledger reads. The ledger
// works in whole Unix seconds and assumes the source never moves backwards.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

// Now implements Clock.
func (System) Now() time.Time { return time.Now() }

// Unix returns c.Now() in Unix seconds, clamping pre-epoch times to zero.
func Unix(c Clock) uint64 {
	s := c.Now().Unix()
	if s < 0 {
		return 0
	}
	return uint64(s)
}

// Manual is a settable clock for tests and simulations. It never moves
// backwards: Set to an earlier time is ignored.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a manual clock at t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

// Now implements Clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t if t is not before the current time.
// It reports whether the clock moved.
func (m *Manual) Set(t time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.Before(m.now) {
		return false
	}
	m.now = t
	return true
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.now = m.now.Add(d)
	}
	return m.now
}
