// Package stylecache implements the two-tier (memory + file) CSS cache keyed
// by content fingerprints. Both tiers enforce TTL expiry independently; the
// memory tier is bounded by entry count, the file tier by total bytes.
package stylecache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// entry is a TTL-stamped memory-tier value.
type entry struct {
	content      string
	createdAt    time.Time
	expiresAt    time.Time
	lastAccessed time.Time
	size         int
}

// memoryTier is an LRU cache of TTL-stamped entries. The LRU bound means
// inserting past capacity evicts exactly the least-recently-used entries.
type memoryTier struct {
	mu    sync.Mutex
	cache *lru.Cache
	now   func() time.Time
}

func newMemoryTier(capacity int, now func() time.Time) (*memoryTier, error) {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	c, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return &memoryTier{cache: c, now: now}, nil
}

// get returns the cached content, evicting and missing on expiry.
func (m *memoryTier) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.cache.Get(key)
	if !ok {
		return "", false
	}
	e := v.(*entry)
	if m.now().After(e.expiresAt) {
		m.cache.Remove(key)
		return "", false
	}
	e.lastAccessed = m.now()
	return e.content, true
}

func (m *memoryTier) set(key, content string, ttl time.Duration) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Add(key, &entry{
		content:      content,
		createdAt:    now,
		expiresAt:    now.Add(ttl),
		lastAccessed: now,
		size:         len(content),
	})
}

func (m *memoryTier) remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Remove(key)
}

func (m *memoryTier) purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Purge()
}

func (m *memoryTier) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Len()
}

// sweepExpired drops every expired entry. Keys() snapshots the key set, so
// concurrent writes during the sweep are safe.
func (m *memoryTier) sweepExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, k := range m.cache.Keys() {
		v, ok := m.cache.Peek(k)
		if !ok {
			continue
		}
		if m.now().After(v.(*entry).expiresAt) {
			m.cache.Remove(k)
			removed++
		}
	}
	return removed
}
