package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunInvokesCallbacksInOrder(t *testing.T) {
	s := NewScope()
	var calls []string

	s.Run(func() error { return nil },
		func() { calls = append(calls, "success") },
		func(error) { calls = append(calls, "error") },
		func() { calls = append(calls, "finally") })
	s.Wait()

	assert.Equal(t, []string{"success", "finally"}, calls)
}

func TestRunErrorPath(t *testing.T) {
	s := NewScope()
	var got error
	finished := false

	s.Run(func() error { return errors.New("boom") },
		func() { t.Fatal("onSuccess must not fire") },
		func(err error) { got = err },
		func() { finished = true })
	s.Wait()

	assert.EqualError(t, got, "boom")
	assert.True(t, finished)
}

func TestCloseDiscardsSettledContinuations(t *testing.T) {
	s := NewScope()
	release := make(chan struct{})
	wrote := false

	s.Run(func() error { <-release; return nil },
		func() { wrote = true },
		nil,
		func() { wrote = true })

	// Teardown interleaves between the operation's start and its settle.
	s.Close()
	close(release)
	s.Wait()

	assert.False(t, wrote, "no state write may occur after Close")
	assert.False(t, s.Active())
}

func TestRunAfterCloseIsNoop(t *testing.T) {
	s := NewScope()
	s.Close()

	ran := false
	s.Run(func() error { ran = true; return nil }, nil, nil, nil)
	s.Wait()
	assert.False(t, ran)
}

func TestDoSkippedWhenClosed(t *testing.T) {
	s := NewScope()
	n := 0
	s.Do(func() { n++ })
	s.Close()
	s.Do(func() { n++ })
	assert.Equal(t, 1, n)
}
