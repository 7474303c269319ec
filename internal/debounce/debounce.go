// Package debounce turns a keystroke stream into at most one fetch per quiet
// period, and tags every fetch with a generation so that stale responses can
// be told apart from current ones.
package debounce

import (
	"sync"
	"time"
)

// Fetch is invoked once per settled quiet period with the text as of the
// last keystroke and the generation assigned to this fetch. Implementations
// must call Current before applying results.
type Fetch func(text string, gen uint64)

// Trigger owns one search session: pending timer, latest query text and the
// generation counter. Zero value is not usable; call New.
type Trigger struct {
	mu    sync.Mutex
	quiet time.Duration
	fetch Fetch
	clear func() // synchronous result reset on empty input

	timer      *time.Timer
	text       string
	generation uint64
}

// New builds a trigger. clear may be nil.
func New(quiet time.Duration, fetch Fetch, clear func()) *Trigger {
	return &Trigger{quiet: quiet, fetch: fetch, clear: clear}
}

// OnInput registers a keystroke. A pending timer is reset; after the quiet
// period with no further input the fetch fires exactly once. Empty input
// cancels any pending fetch and clears results synchronously — no network
// call is ever made for an empty query.
func (t *Trigger) OnInput(text string) {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.text = text
	// Any previously scheduled or in-flight fetch is superseded.
	t.generation++
	gen := t.generation

	if text == "" {
		clear := t.clear
		t.mu.Unlock()
		if clear != nil {
			clear()
		}
		return
	}

	t.timer = time.AfterFunc(t.quiet, func() {
		t.mu.Lock()
		if gen != t.generation {
			t.mu.Unlock()
			return
		}
		t.timer = nil
		t.mu.Unlock()
		t.fetch(text, gen)
	})
	t.mu.Unlock()
}

// Current reports whether gen is still the latest generation. A response
// carrying a stale generation must be discarded, never applied.
func (t *Trigger) Current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return gen == t.generation
}

// Generation returns the current generation value.
func (t *Trigger) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation
}

// Cancel drops any pending timer. An already-in-flight fetch is not aborted;
// its effect dies on the generation check.
func (t *Trigger) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.generation++
}
