package kv

import "sync"

// MemoryStore is an in-process backend. Nothing survives the process.
type MemoryStore struct {
	mu    sync.RWMutex
	state map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.state[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true, nil
}

func (s *MemoryStore) Commit(batch map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	applyBatch(s.state, batch)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
