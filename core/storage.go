package core

import (
	"maps"
	"sync"
)

// StorageKey is a typed handle into a Storage. The type parameter pins the
// value type at compile time; the runtime cast behind GetValue is the only
// place the erased representation surfaces and it is checked against the key.
type StorageKey[T any] struct {
	name string
}

// NewStorageKey creates a typed storage key. Keys with equal names address
// the same slot; by convention features namespace keys with their own name.
func NewStorageKey[T any](name string) StorageKey[T] {
	return StorageKey[T]{name: name}
}

// Name returns the key's identity string.
func (k StorageKey[T]) Name() string { return k.name }

// Storage is a concurrency-safe key/value map scoped to one AgentContext
// instance. Features use it to stash intermediate run-scoped state across
// node executions, distinct from their long-lived installed config.
//
// Storage carries its own lock (unlike the rest of the mutable triple)
// because feature handlers may touch it from parallel tool-batch goroutines.
type Storage struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewStorage creates an empty storage.
func NewStorage() *Storage {
	return &Storage{values: map[string]any{}}
}

// StoreValue stores a value under the typed key.
func StoreValue[T any](s *Storage, key StorageKey[T], value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key.name] = value
}

// GetValue returns the value stored under the typed key. The boolean reports
// whether a value of the key's type was present.
func GetValue[T any](s *Storage, key StorageKey[T]) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key.name]
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// RemoveValue deletes the value stored under the typed key.
func RemoveValue[T any](s *Storage, key StorageKey[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key.name)
}

// Len returns the number of stored values.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Clone returns a copy of the storage. Values are copied shallowly.
func (s *Storage) Clone() *Storage {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := &Storage{values: make(map[string]any, len(s.values))}
	maps.Copy(c.values, s.values)
	return c
}
