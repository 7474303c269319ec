// Package lifecycle guards asynchronous continuations against writes that
// would land after their owning view has been torn down.
package lifecycle

import "sync"

// Scope is a cancellation scope owned by a view. Continuations scheduled
// through Run fire under the scope lock, which both serializes state writes
// (the moral equivalent of the browser event loop) and lets Close guarantee
// that nothing runs after teardown.
type Scope struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewScope returns an open scope.
func NewScope() *Scope {
	return &Scope{}
}

// Active reports whether the scope is still open.
func (s *Scope) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Close tears the scope down. Continuations that have not started by the
// time Close acquires the lock are discarded; in-flight operations keep
// running but their callbacks never fire.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Wait blocks until every operation started through Run has settled.
// Intended for tests and orderly shutdown.
func (s *Scope) Wait() {
	s.wg.Wait()
}

// Run executes op on its own goroutine. When op settles, onSuccess or
// onError and then onFinally are invoked under the scope lock — but only if
// the scope is still open at that moment. Any callback may be nil.
func (s *Scope) Run(op func() error, onSuccess func(), onError func(error), onFinally func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		err := op()

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		if err == nil {
			if onSuccess != nil {
				onSuccess()
			}
		} else if onError != nil {
			onError(err)
		}
		if onFinally != nil {
			onFinally()
		}
	}()
}

// Do invokes fn synchronously under the scope lock if the scope is open.
// It is the write path for state shared with Run callbacks.
func (s *Scope) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	fn()
}
