package picker

import (
	"sync"
	"time"
)

// Timer is a pending single-shot callback.
type Timer interface {
	Stop() bool
}

// Scheduler arms f to run once after d.
type Scheduler func(d time.Duration, f func()) Timer

// AfterFunc is the default Scheduler, backed by time.AfterFunc.
func AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Aggregator owns the query buffer. In buffered mode every Append re-arms
// the inactivity timer; in live mode Replace sets the buffer directly and
// no timer is used. At most one timer is pending at any time.
type Aggregator struct {
	mu       sync.Mutex
	buf      string
	timeout  time.Duration
	schedule Scheduler
	timer    Timer
	gen      uint64
	onReset  func(string)
}

// NewAggregator creates an aggregator. A nil schedule uses AfterFunc and a
// non-positive timeout uses DefaultBufferTimeout.
func NewAggregator(timeout time.Duration, schedule Scheduler) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultBufferTimeout
	}
	if schedule == nil {
		schedule = AfterFunc
	}
	return &Aggregator{timeout: timeout, schedule: schedule}
}

// OnReset registers f to be called with the discarded buffer whenever the
// inactivity timer clears it.
func (a *Aggregator) OnReset(f func(string)) {
	a.mu.Lock()
	a.onReset = f
	a.mu.Unlock()
}

// Append adds r to the buffer, re-arms the inactivity timer and returns the
// new buffer.
func (a *Aggregator) Append(r rune) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()
	a.buf += string(r)
	gen := a.gen
	a.timer = a.schedule(a.timeout, func() { a.expire(gen) })
	return a.buf
}

// Replace sets the buffer to text and cancels any pending timer.
func (a *Aggregator) Replace(text string) {
	a.mu.Lock()
	a.stopLocked()
	a.buf = text
	a.mu.Unlock()
}

// Reset clears the buffer and cancels any pending timer.
func (a *Aggregator) Reset() {
	a.Replace("")
}

// Buffer returns the current query.
func (a *Aggregator) Buffer() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buf
}

// Pending reports whether an inactivity timer is armed.
func (a *Aggregator) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

// Timeout returns the inactivity window.
func (a *Aggregator) Timeout() time.Duration {
	return a.timeout
}

// stopLocked also invalidates a callback that already started running.
func (a *Aggregator) stopLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.gen++
}

func (a *Aggregator) expire(gen uint64) {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	old := a.buf
	a.buf = ""
	a.timer = nil
	a.gen++
	hook := a.onReset
	a.mu.Unlock()

	if hook != nil {
		hook(old)
	}
}
