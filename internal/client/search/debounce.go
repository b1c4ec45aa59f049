// Package search holds the timing helpers behind live search: a trailing
// debouncer and a sequencer that lets callers drop stale responses.
package search

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDelay is the quiet period required before a query is sent.
const DefaultDelay = 300 * time.Millisecond

// Debouncer calls fn with the last value passed to Trigger once no new
// value has arrived for delay. fn runs on its own goroutine.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(string)
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func NewDebouncer(delay time.Duration, fn func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger cancels any pending call and schedules a new one for value.
func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A timer that lost the race with Stop or a newer Trigger is stale.
		live := !d.stopped && gen == d.gen
		d.mu.Unlock()
		if live {
			d.fn(value)
		}
	})
}

// Flush cancels the pending timer and reports whether one was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	pending := d.timer.Stop()
	d.timer = nil
	d.gen++
	return pending
}

// Stop cancels the pending call; later Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Sequencer numbers outgoing requests so that only the response to the
// most recent one is applied.
type Sequencer struct {
	last atomic.Uint64
}

// Next returns a number greater than every number returned before.
func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

// IsLatest reports whether seq is still the newest request.
func (s *Sequencer) IsLatest(seq uint64) bool {
	return s.last.Load() == seq
}
