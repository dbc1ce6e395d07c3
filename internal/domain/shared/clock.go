package shared

import "time"

// Clock abstracts time so sweep timing and cooldown windows can be
// driven deterministically in tests. All production times are UTC.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// NewRealClock creates the system-time clock
func NewRealClock() Clock {
	return &RealClock{}
}

// RealClock reads the actual system time
type RealClock struct{}

func (r *RealClock) Now() time.Time        { return time.Now().UTC() }
func (r *RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// MockClock is a hand-cranked clock for tests. Sleep advances it
// instantly instead of blocking.
type MockClock struct {
	CurrentTime time.Time
}

// NewMockClock creates a MockClock starting at the given time, or at
// the current time when given the zero value
func NewMockClock(startTime time.Time) *MockClock {
	if startTime.IsZero() {
		startTime = time.Now()
	}
	return &MockClock{CurrentTime: startTime}
}

func (m *MockClock) Now() time.Time        { return m.CurrentTime }
func (m *MockClock) Sleep(d time.Duration) { m.CurrentTime = m.CurrentTime.Add(d) }

// Advance moves the mock clock forward by the given duration
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// SetTime jumps the mock clock to a specific time
func (m *MockClock) SetTime(t time.Time) {
	m.CurrentTime = t
}
