package mocks

import (
	"sort"
	"sync"
	"time"

	"github.com/mcoot/bingobot/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// Timers fire synchronously from Advance or Set, in due order.
type MockClock struct {
	mu          sync.Mutex
	currentTime time.Time
	timers      []*mockTimer
	nextSeq     int
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentTime
}

// AfterFunc registers f to run when the clock reaches now+d
func (c *MockClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &mockTimer{
		clock: c,
		due:   c.currentTime.Add(d),
		seq:   c.nextSeq,
		fn:    f,
	}
	c.nextSeq++
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by the given duration, firing due timers
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.currentTime.Add(d)
	c.mu.Unlock()
	c.runUntil(target)
}

// Set sets the clock to the given time, firing due timers if it moves forward
func (c *MockClock) Set(t time.Time) {
	c.runUntil(t)
	c.mu.Lock()
	c.currentTime = t
	c.mu.Unlock()
}

// PendingTimers returns the number of timers that have not fired or been stopped
func (c *MockClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *MockClock) runUntil(target time.Time) {
	for {
		c.mu.Lock()
		sort.SliceStable(c.timers, func(i, j int) bool {
			if c.timers[i].due.Equal(c.timers[j].due) {
				return c.timers[i].seq < c.timers[j].seq
			}
			return c.timers[i].due.Before(c.timers[j].due)
		})
		if len(c.timers) == 0 || c.timers[0].due.After(target) {
			if target.After(c.currentTime) {
				c.currentTime = target
			}
			c.mu.Unlock()
			return
		}
		next := c.timers[0]
		c.timers = c.timers[1:]
		if next.due.After(c.currentTime) {
			c.currentTime = next.due
		}
		c.mu.Unlock()

		// Run outside the lock so the callback can schedule more timers
		next.fn()
	}
}

func (c *MockClock) stop(t *mockTimer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, pending := range c.timers {
		if pending == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}

type mockTimer struct {
	clock *MockClock
	due   time.Time
	seq   int
	fn    func()
}

// Stop removes the timer if it has not fired yet
func (t *mockTimer) Stop() bool {
	return t.clock.stop(t)
}
