package metacache

import (
	"context"
	"sync"
)

// MemoryStore keeps the cache in process memory. It backs tests and dry runs
// that must not touch the cache file.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
	info    LoadInfo
	saves   int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store preloaded with records.
func NewMemoryStore(records ...Record) *MemoryStore {
	s := &MemoryStore{}
	for _, rec := range records {
		s.records = append(s.records, rec.Clone())
	}
	if len(records) > 0 {
		s.info.Existed = true
	}
	return s
}

// NewMemoryStoreFrom seeds a store with a deep copy of cache.
func NewMemoryStoreFrom(cache *Cache) *MemoryStore {
	return NewMemoryStore(cache.Records()...)
}

// Describe names the backend for operator output.
func (s *MemoryStore) Describe() string { return "memory" }

// Load returns a deep copy of the stored records.
func (s *MemoryStore) Load(ctx context.Context) (*Cache, LoadInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, LoadInfo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		batch = append(batch, rec.Clone())
	}
	return FromRecords(batch), s.info, nil
}

// Save replaces the stored records with a deep copy of cache.
func (s *MemoryStore) Save(ctx context.Context, cache *Cache) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[:0]
	for _, rec := range cache.Records() {
		s.records = append(s.records, rec.Clone())
	}
	s.info = LoadInfo{Existed: true}
	s.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
