package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps cache entries in a thread-safe map.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
	}
}

// Lookup returns a copy of the entry stored under key.
func (s *MemoryStore) Lookup(ctx context.Context, key Key) (Entry, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key.String()]
	if !ok {
		return Entry{}, false, nil
	}
	e.Slots = cloneSlots(e.Slots)
	return e, true, nil
}

// Store replaces the entry for its key.
func (s *MemoryStore) Store(ctx context.Context, entry Entry) error {
	_ = ctx
	entry.Slots = cloneSlots(entry.Slots)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key.String()] = entry
	return nil
}

// Prune drops entries written before olderThan and returns how many were removed.
func (s *MemoryStore) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if e.StoredAt.Before(olderThan) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
