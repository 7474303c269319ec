package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	fetches []string
	gens    []uint64
	cleared int
}

func (r *recorder) fetch(text string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches = append(r.fetches, text)
	r.gens = append(r.gens, gen)
}

func (r *recorder) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared++
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.fetches...)
}

func TestFiresOncePerQuietPeriod(t *testing.T) {
	rec := &recorder{}
	tr := New(20*time.Millisecond, rec.fetch, rec.clear)

	tr.OnInput("a")
	tr.OnInput("ab")
	tr.OnInput("abc")

	assert.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1 && rec.snapshot()[0] == "abc"
	}, time.Second, 5*time.Millisecond)

	// No further fires without further input.
	time.Sleep(60 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1)
}

func TestEmptyInputClearsSynchronously(t *testing.T) {
	rec := &recorder{}
	tr := New(20*time.Millisecond, rec.fetch, rec.clear)

	tr.OnInput("a")
	tr.OnInput("")
	assert.Equal(t, 1, rec.cleared, "clear runs synchronously")

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot(), "pending fetch was cancelled")
}

func TestStaleGenerationDiscard(t *testing.T) {
	rec := &recorder{}
	tr := New(10*time.Millisecond, rec.fetch, nil)

	tr.OnInput("a")
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, time.Millisecond)
	firstGen := rec.gens[0]

	// A later keystroke supersedes the in-flight fetch.
	tr.OnInput("ab")
	assert.False(t, tr.Current(firstGen), "response for \"a\" must be dropped")

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, time.Millisecond)
	assert.True(t, tr.Current(rec.gens[1]))
}

func TestCancelDropsPendingTimer(t *testing.T) {
	rec := &recorder{}
	tr := New(20*time.Millisecond, rec.fetch, nil)

	tr.OnInput("a")
	gen := tr.Generation()
	tr.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
	assert.False(t, tr.Current(gen))
}
