package store

import "sync"

// Memory is the in-process store used when no persistence is configured and
// as the default in tests.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (s *Memory) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *Memory) Set(key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return true
}

func (s *Memory) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return true
}
