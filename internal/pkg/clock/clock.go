package clock

import (
	"sync"
	"time"
)

// Clock is an interface for time operations to enable testability.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time in UTC.
type RealClock struct{}

// NewRealClock creates a new RealClock.
func NewRealClock() Clock {
	return RealClock{}
}

// Now returns the current system time in UTC.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// MockClock is a settable clock for tests. It is safe for concurrent use.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewMockClock creates a new MockClock starting at the given time.
func NewMockClock(startTime time.Time) *MockClock {
	return &MockClock{current: startTime}
}

// Now returns the mock current time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Set sets the mock current time.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	m.current = t
	m.mu.Unlock()
}

// Advance moves the mock clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.current = m.current.Add(d)
	m.mu.Unlock()
}
