package dataset

import (
	"context"
	"sync"
)

// Source loads a fresh set of tables.
type Source interface {
	Load(ctx context.Context) (*Tables, error)
}

// Store memoizes the first successful load for the life of the process.
// A failed load is not cached; callers halt on it anyway.
type Store struct {
	source Source

	mu     sync.Mutex
	tables *Tables
}

// NewStore wraps a source with load-once caching.
func NewStore(source Source) *Store {
	return &Store{source: source}
}

// Tables returns the cached tables, loading them on first use.
func (s *Store) Tables(ctx context.Context) (*Tables, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tables != nil {
		return s.tables, nil
	}

	tables, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.tables = tables
	return tables, nil
}

// Loaded reports whether the tables are in memory.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables != nil
}
