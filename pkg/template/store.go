package template

import (
	"context"
	"sync"
)

// Store persists the template map.
//
// Load never fails on a missing or malformed record: it returns an empty
// map instead, so a corrupted store degrades to factory defaults rather
// than blocking the studio. Save replaces the whole map (last-writer-wins).
type Store interface {
	Load(ctx context.Context) (Map, error)
	Save(ctx context.Context, m Map) error
	Clear(ctx context.Context) error
	Close() error
}

// MemoryStore is an in-memory template store for development and testing.
type MemoryStore struct {
	mu sync.Mutex
	m  Map
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a deep copy of the stored map, or an empty map.
func (s *MemoryStore) Load(ctx context.Context) (Map, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		return Map{}, nil
	}
	return s.m.Clone(), nil
}

// Save replaces the stored map with a deep copy of m.
func (s *MemoryStore) Save(ctx context.Context, m Map) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = m.Clone()
	return nil
}

// Clear drops the stored map.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = nil
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
