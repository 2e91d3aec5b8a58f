package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is a scoped TTL cache for values of one type.
//
// Each read surface owns its Store instance; there is no process-global
// cache. Writers invalidate the keys their commit touched, and the TTL
// bounds the staleness of everything else.
type Store[V any] struct {
	cache *gocache.Cache
}

// New creates a Store whose entries live for ttl.
//
// Expired entries are swept every cleanupInterval.
func New[V any](ttl time.Duration, cleanupInterval time.Duration) *Store[V] {
	return &Store[V]{cache: gocache.New(ttl, cleanupInterval)}
}

// Get retrieves the cached value for the key, if it is still live.
func (s *Store[V]) Get(key string) (V, bool) {
	if v, ok := s.cache.Get(key); ok {
		return v.(V), true
	}
	return *new(V), false
}

// Set stores the value under the key with the default TTL.
func (s *Store[V]) Set(key string, value V) {
	s.cache.SetDefault(key, value)
}

// Invalidate drops the key.
func (s *Store[V]) Invalidate(key string) {
	s.cache.Delete(key)
}

// Flush drops every entry.
func (s *Store[V]) Flush() {
	s.cache.Flush()
}
