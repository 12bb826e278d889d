package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
)

// MemoryStore is a process-local Store. Values are shared, not copied; a
// value that is itself mutable needs its own locking.
type MemoryStore[T any] struct {
	mu    sync.RWMutex
	m     map[string]T
	limit int
}

// NewMemoryStore returns an empty store. A positive limit caps the number of
// entries; Put of a new id beyond the cap fails with ErrFull.
func NewMemoryStore[T any](limit int) *MemoryStore[T] {
	return &MemoryStore[T]{m: map[string]T{}, limit: limit}
}

func (s *MemoryStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[id]
	return v, ok, nil
}

func (s *MemoryStore[T]) Put(ctx context.Context, id string, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.m[id]; !exists && s.limit > 0 && len(s.m) >= s.limit {
		return ErrFull
	}
	s.m[id] = v
	return nil
}

func (s *MemoryStore[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *MemoryStore[T]) NewID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
