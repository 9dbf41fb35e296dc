// Package session keeps in-flight conversations in a volatile, context-keyed
// store. Sessions are a cache, not a database: nothing here survives a
// process restart and callers must serialize turns per session.
package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when a session id has no live conversation,
// typically because it expired out of the cache.
var ErrNotFound = errors.New("session not found")

// Cache is the minimal storage contract the manager needs. MemoryCache is
// the only implementation shipped; anything with the same shape (e.g. an
// LRU with TTL) can be dropped in.
type Cache[S any] interface {
	Set(ctx context.Context, key string, val S) error
	Get(ctx context.Context, key string) (S, bool, error)
	Del(ctx context.Context, key string) error
}

type MemoryCache[S any] struct {
	mu sync.RWMutex
	m  map[string]S
}

func NewMemoryCache[S any]() *MemoryCache[S] {
	return &MemoryCache[S]{m: map[string]S{}}
}

func (m *MemoryCache[S]) Set(ctx context.Context, key string, val S) error {
	m.mu.Lock()
	m.m[key] = val
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache[S]) Get(ctx context.Context, key string) (S, bool, error) {
	m.mu.RLock()
	val, ok := m.m[key]
	m.mu.RUnlock()
	return val, ok, nil
}

func (m *MemoryCache[S]) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.m, key)
	m.mu.Unlock()
	return nil
}

var _ Cache[any] = (*MemoryCache[any])(nil)
