package engine

import (
	"sync"
	"time"
)

// debouncer coalesces rapid triggers into one callback after a quiet
// period. Each trigger bumps a generation counter; a callback that fires
// for a superseded generation is dropped, so stale work never commits.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	gen   uint64
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

// trigger schedules fn after the quiet period, superseding any pending
// trigger. fn runs on the timer goroutine.
func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		if !d.currentGen(gen) {
			return
		}
		fn()
	})
}

// currentGen reports whether gen is still the latest trigger.
func (d *debouncer) currentGen(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}

// stop cancels any pending trigger.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
}
