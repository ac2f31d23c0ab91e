// Package simulatetest provides a manual clock and a fixed random source for
// tests of timer-driven code.
package simulatetest

import (
	"sync"
	"time"

	"github.com/bryan-buckman/jobdesk/internal/simulate"
)

// Clock only moves when Advance is called. Due callbacks run on the caller's
// goroutine, in deadline order.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*timer
}

var _ simulate.Clock = (*Clock)(nil)

// NewClock returns a clock reading now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

type timer struct {
	c       *Clock
	at      time.Time
	seq     int
	fn      func()
	stopped bool
}

func (t *timer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Now implements simulate.Clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc implements simulate.Clock.
func (c *Clock) AfterFunc(d time.Duration, fn func()) simulate.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &timer{c: c, at: c.now.Add(d), seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d and runs every callback that falls
// due, including ones scheduled by callbacks along the way.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := -1
		for i, t := range c.timers {
			if t.stopped || t.at.After(target) {
				continue
			}
			if next < 0 || t.at.Before(c.timers[next].at) ||
				(t.at.Equal(c.timers[next].at) && t.seq < c.timers[next].seq) {
				next = i
			}
		}
		if next < 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		t := c.timers[next]
		c.timers = append(c.timers[:next], c.timers[next+1:]...)
		t.stopped = true
		if t.at.After(c.now) {
			c.now = t.at
		}
		c.mu.Unlock()
		t.fn()
	}
}

// Pending counts the callbacks not yet run or stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Random returns fixed values, clamped to the requested range.
type Random struct {
	N int
	D int64
}

var _ simulate.Random = Random{}

// IntN implements simulate.Random.
func (r Random) IntN(n int) int { return min(r.N, n-1) }

// Int64N implements simulate.Random.
func (r Random) Int64N(n int64) int64 { return min(r.D, n-1) }
