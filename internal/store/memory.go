package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests and single-instance runs.
// The mutex makes Create atomic per key, matching the remote contract.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Get returns a copy of the stored record, or (nil, nil) when absent.
func (s *MemoryStore) Get(_ context.Context, key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Create stores the record unless the key is already taken.
func (s *MemoryStore) Create(_ context.Context, key string, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; ok {
		return &Error{Kind: KindAlreadyExists, Key: key}
	}
	s.records[key] = *rec
	return nil
}

// Len reports how many records exist, for test assertions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
