package memory

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"bankai/backend/internal/store"
)

type entry struct {
	data    []byte
	version uint64
}

// Store keeps blobs in process memory. Versions are per-key counters that
// keep increasing across deletes, so a stale token never matches again.
type Store struct {
	mu      sync.RWMutex
	blobs   map[string]entry
	counter uint64
}

var _ store.BlobStore = (*Store)(nil)

func New() *Store {
	return &Store{blobs: make(map[string]entry)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.blobs[key]
	if !ok {
		return nil, "", nil
	}
	return slices.Clone(e.data), formatVersion(e.version), nil
}

func (s *Store) Put(_ context.Context, key string, data []byte, expected string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := ""
	if e, ok := s.blobs[key]; ok {
		current = formatVersion(e.version)
	}
	if current != expected {
		return "", &store.ConflictError{Key: key}
	}

	s.counter++
	s.blobs[key] = entry{data: slices.Clone(data), version: s.counter}
	return formatVersion(s.counter), nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func formatVersion(v uint64) string {
	return strconv.FormatUint(v, 10)
}
