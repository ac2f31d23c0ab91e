// Package simulate schedules the timer-driven interactions that stand in for
// remote counterparts: typing indicators, delayed replies, confirmations and
// toast expiry.
package simulate

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Clock abstracts time so tests can fire timers by hand.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc.
type Timer interface {
	Stop() bool
}

type realClock struct{}

// RealClock is the wall clock.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Scope owns the timers armed by one mounted page. Close cancels them all
// and, once it returns, no callback armed through the scope is running or
// will ever run.
type Scope struct {
	clock Clock

	// gate is held shared by running callbacks and exclusively by Close.
	gate sync.RWMutex

	mu     sync.Mutex
	closed bool
	next   uint64
	timers map[uint64]Timer
}

// NewScope returns an open scope on clock.
func NewScope(clock Clock) *Scope {
	if clock == nil {
		clock = RealClock()
	}
	return &Scope{clock: clock, timers: make(map[uint64]Timer)}
}

// Clock returns the scope's clock.
func (s *Scope) Clock() Clock { return s.clock }

// Token cancels one scheduled callback.
type Token struct {
	scope *Scope
	id    uint64
}

// After runs fn once d has elapsed, unless the token is cancelled or the
// scope is closed first. On a closed scope it schedules nothing.
// fn must not call Close on its own scope.
func (s *Scope) After(d time.Duration, fn func()) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Token{}
	}
	s.next++
	id := s.next
	s.timers[id] = s.clock.AfterFunc(d, func() { s.fire(id, fn) })
	return Token{scope: s, id: id}
}

func (s *Scope) fire(id uint64, fn func()) {
	s.gate.RLock()
	defer s.gate.RUnlock()

	s.mu.Lock()
	_, live := s.timers[id]
	if s.closed || !live {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.mu.Unlock()

	fn()
}

// Cancel stops the callback. It reports whether the callback was still
// pending.
func (t Token) Cancel() bool {
	if t.scope == nil {
		return false
	}
	s := t.scope
	s.mu.Lock()
	defer s.mu.Unlock()
	timer, ok := s.timers[t.id]
	if !ok {
		return false
	}
	delete(s.timers, t.id)
	timer.Stop()
	return true
}

// Pending reports how many callbacks are still scheduled.
func (s *Scope) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close cancels every pending callback and waits for running ones.
func (s *Scope) Close() {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Random picks reply lines and delays.
type Random interface {
	IntN(n int) int
	Int64N(n int64) int64
}

// NewRandom returns a Random seeded from the runtime source.
func NewRandom() Random {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Between returns a duration uniformly drawn from [lo, hi).
func Between(r Random, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(r.Int64N(int64(hi-lo)))
}
