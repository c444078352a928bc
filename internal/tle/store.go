package tle

import (
	"sync"
	"sync/atomic"
	"time"
)

// Store is the process-wide single-slot element cache. Reads are lock-free
// atomic pointer loads of an immutable CacheEntry snapshot; refreshes are
// serialized by a mutex so that concurrent expiries trigger one network
// fetch, not several.
type Store struct {
	entry atomic.Pointer[CacheEntry]
	mu    sync.Mutex // serializes refresh operations
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Entry returns the current cache entry, or nil before the first successful
// fetch. The entry persists for the process lifetime; it is replaced on
// refresh but never cleared.
func (s *Store) Entry() *CacheEntry {
	return s.entry.Load()
}

// Replace atomically installs a new entry, unconditionally overwriting any
// previous one.
func (s *Store) Replace(set *ElementSet, fetchedAt time.Time) {
	s.entry.Store(&CacheEntry{Set: set, FetchedAt: fetchedAt})
}

// AgeSeconds returns the age of the cached entry in seconds, or -1 when the
// store is empty.
func (s *Store) AgeSeconds() float64 {
	e := s.entry.Load()
	if e == nil {
		return -1
	}
	return time.Since(e.FetchedAt).Seconds()
}

// Lock acquires the refresh mutex.
func (s *Store) Lock() {
	s.mu.Lock()
}

// Unlock releases the refresh mutex.
func (s *Store) Unlock() {
	s.mu.Unlock()
}
