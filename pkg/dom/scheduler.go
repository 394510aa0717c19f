package dom

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler runs fn once the duration has elapsed.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Immediate runs every callback synchronously, ignoring the duration.
type Immediate struct{}

// After implements Scheduler.
func (Immediate) After(_ time.Duration, fn func()) {
	if fn != nil {
		fn()
	}
}

// Loop is a single-consumer event loop. Timers fire on their own goroutines
// but callbacks only run inside Drain, on the draining goroutine.
type Loop struct {
	queue   chan func()
	pending atomic.Int64
}

// NewLoop constructs an idle loop.
func NewLoop() *Loop {
	return &Loop{queue: make(chan func(), 64)}
}

// Post enqueues fn to run on the next Drain.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.pending.Add(1)
	go func() { l.queue <- fn }()
}

// After implements Scheduler.
func (l *Loop) After(d time.Duration, fn func()) {
	if fn == nil {
		return
	}
	l.pending.Add(1)
	if d <= 0 {
		go func() { l.queue <- fn }()
		return
	}
	time.AfterFunc(d, func() { l.queue <- fn })
}

// Pending reports how many callbacks are scheduled but not yet run.
func (l *Loop) Pending() int {
	return int(l.pending.Load())
}

// Drain runs queued callbacks until nothing is pending or ctx is done.
// Callbacks may schedule further work; Drain keeps going until it settles.
func (l *Loop) Drain(ctx context.Context) error {
	for {
		if l.pending.Load() == 0 {
			return nil
		}
		select {
		case fn := <-l.queue:
			fn()
			l.pending.Add(-1)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ManualClock is a deterministic Scheduler for tests. Callbacks run only when
// the clock is advanced past their deadline, in deadline order.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []manualTimer
}

type manualTimer struct {
	at  time.Duration
	seq int
	fn  func()
}

// After implements Scheduler.
func (c *ManualClock) After(d time.Duration, fn func()) {
	if fn == nil {
		return
	}
	if d < 0 {
		d = 0
	}
	c.mu.Lock()
	c.seq++
	c.timers = append(c.timers, manualTimer{at: c.now + d, seq: c.seq, fn: fn})
	c.mu.Unlock()
}

// Pending reports the number of timers that have not fired.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Advance moves the clock forward by d and fires every timer now due.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()

	for {
		fn := c.nextDue()
		if fn == nil {
			return
		}
		fn()
	}
}

func (c *ManualClock) nextDue() func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return nil
	}
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].at == c.timers[j].at {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].at < c.timers[j].at
	})
	next := c.timers[0]
	if next.at > c.now {
		return nil
	}
	c.timers = c.timers[1:]
	return next.fn
}
