package kv

import (
	"context"
	"strconv"
	"sync"
)

type memEntry struct {
	value    []byte
	revision int64
}

// MemoryStore implements Store in process memory. Two stores built on the same
// MemoryStore behave like two app instances sharing one backend.
type MemoryStore struct {
	mu   sync.RWMutex
	objs map[string]memEntry
	seq  int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{objs: make(map[string]memEntry)}
}

func (s *MemoryStore) Driver() Driver { return DriverMemory }

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, error) {
	s.mu.RLock()
	obj, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, ErrNotFound
	}
	return Entry{Key: key, Value: cloneBytes(obj.value), Revision: formatRevision(obj.revision)}, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(key, value)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objs, key)
	return nil
}

func (s *MemoryStore) CompareAndSwap(_ context.Context, key, revision string, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objs[key]
	switch {
	case revision == "" && ok:
		return false, nil
	case revision != "" && (!ok || formatRevision(obj.revision) != revision):
		return false, nil
	}
	s.put(key, value)
	return true, nil
}

func (s *MemoryStore) Close() error { return nil }

// Keys returns the number of keys currently held.
func (s *MemoryStore) Keys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objs)
}

// revisions come from a store-wide sequence so a deleted and recreated key
// never reuses an old revision.
func (s *MemoryStore) put(key string, value []byte) {
	s.seq++
	s.objs[key] = memEntry{value: cloneBytes(value), revision: s.seq}
}

func formatRevision(n int64) string { return strconv.FormatInt(n, 10) }

func cloneBytes(in []byte) []byte {
	if in == nil {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

var _ Store = (*MemoryStore)(nil)
